package metrics

import (
	"fmt"

	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/vector"
)

// Distance sums the straight-line distance between consecutive samples of
// one mover.
type Distance struct {
	name    string
	moverID int
	total   float64
	last    vector.Vector
	samples int
}

func NewDistance(moverID int) *Distance {
	return &Distance{
		name:    fmt.Sprintf("distance_%d", moverID),
		moverID: moverID,
	}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) OnTick(t float64, m *kinematic.Mover) {
	if m.ID != d.moverID {
		return
	}
	if d.samples > 0 {
		if step, err := m.Position.Distance(d.last); err == nil {
			d.total += step
		}
	}
	d.last = m.Position
	d.samples++
}

func (d *Distance) Value() float64 {
	return d.total
}

func (d *Distance) Reset() {
	d.total = 0
	d.last = vector.Vector{}
	d.samples = 0
}
