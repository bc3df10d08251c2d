package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/vector"
)

// ErrInvalidTimeStep indicates a non-positive time step.
var ErrInvalidTimeStep = errors.New("sim: time step must be positive")

// Sink receives the records a simulation produces.
type Sink interface {
	WriteTrajectory(t output.Trajectory)
	WritePaths(paths ...*geometry.Path)
	WriteLine(p1, p2 vector.Vector)
	Flush(dir string) error
}

// Observer sees every mover's state just before it is ticked.
type Observer interface {
	OnTick(time float64, m *kinematic.Mover)
}

// Metric is an observer that reduces a run to one number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// Summary describes a completed run.
type Summary struct {
	Name     string
	TimeStep float64
	Time     float64
	Ticks    int
	Movers   int
	Metrics  map[string]float64
}

// TickError wraps a failure with the mover and simulated time it happened at.
type TickError struct {
	Time    float64
	MoverID int
	Err     error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("t=%.4f mover %d: %v", e.Time, e.MoverID, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}
