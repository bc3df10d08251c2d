package metrics

import (
	"fmt"

	"github.com/san-kum/steersim/internal/kinematic"
)

// Arrival records the first time a mover comes within radius of a target.
// Value is -1 until that happens.
type Arrival struct {
	name    string
	moverID int
	target  kinematic.Positioner
	radius  float64
	at      float64
	arrived bool
}

func NewArrival(moverID int, target kinematic.Positioner, radius float64) *Arrival {
	return &Arrival{
		name:    fmt.Sprintf("arrival_%d", moverID),
		moverID: moverID,
		target:  target,
		radius:  radius,
	}
}

func (a *Arrival) Name() string { return a.name }

func (a *Arrival) OnTick(t float64, m *kinematic.Mover) {
	if a.arrived || m.ID != a.moverID {
		return
	}
	d, err := m.Position.Distance(a.target.Pos())
	if err != nil {
		return
	}
	if d <= a.radius {
		a.at = t
		a.arrived = true
	}
}

func (a *Arrival) Value() float64 {
	if !a.arrived {
		return -1
	}
	return a.at
}

func (a *Arrival) Reset() {
	a.at = 0
	a.arrived = false
}
