package metrics

import (
	"fmt"

	"github.com/san-kum/steersim/internal/kinematic"
)

// MaxSpeed tracks the highest speed one mover reaches.
type MaxSpeed struct {
	name    string
	moverID int
	max     float64
	samples int
}

func NewMaxSpeed(moverID int) *MaxSpeed {
	return &MaxSpeed{
		name:    fmt.Sprintf("max_speed_%d", moverID),
		moverID: moverID,
	}
}

func (s *MaxSpeed) Name() string { return s.name }

func (s *MaxSpeed) OnTick(t float64, m *kinematic.Mover) {
	if m.ID != s.moverID {
		return
	}
	if v := m.Speed(); v > s.max {
		s.max = v
	}
	s.samples++
}

func (s *MaxSpeed) Value() float64 {
	return s.max
}

func (s *MaxSpeed) Reset() {
	s.max = 0
	s.samples = 0
}
