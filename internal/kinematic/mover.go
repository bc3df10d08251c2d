// Package kinematic holds the state of simulated agents and their physics step.
//
// A [Mover] owns exactly one [Behavior] that decides its accelerations each
// tick. Behaviors live in the steering package; this package only defines
// the contract they satisfy.
package kinematic

import (
	"errors"
	"fmt"

	"github.com/san-kum/steersim/internal/vector"
)

// ErrNoBehavior indicates ticking a mover that has no behavior assigned.
var ErrNoBehavior = errors.New("kinematic: movement behavior not assigned")

// DefaultMaxAngularAcceleration is the angular acceleration bound given to new movers.
const DefaultMaxAngularAcceleration = 10000

// Positioner is anything with a position that a behavior can steer relative to.
type Positioner interface {
	Pos() vector.Vector
}

// Target is a bare position.
type Target struct {
	Position vector.Vector
}

// NewTarget returns a target at position.
func NewTarget(position vector.Vector) *Target {
	return &Target{Position: position}
}

func (t *Target) Pos() vector.Vector { return t.Position }

// SteeringOutput is the acceleration a behavior requests for one tick.
type SteeringOutput struct {
	Linear  vector.Vector
	Angular float64
}

// Behavior computes a mover's desired accelerations for the current tick.
type Behavior interface {
	// ID is the stable behavior code written to trajectory output.
	ID() int
	Steer(character *Mover, delta float64) (SteeringOutput, error)
}

// Mover is a 2D kinematic agent.
type Mover struct {
	Target

	ID int

	Velocity              vector.Vector
	LinearAcceleration    vector.Vector
	MaxSpeed              float64 // zero means unbounded
	MaxLinearAcceleration float64

	Orientation            float64
	Rotation               float64
	AngularAcceleration    float64
	MaxAngularAcceleration float64

	// Collision is carried through to output; nothing in this package sets it.
	Collision bool

	behavior Behavior
}

// NewMover returns a stationary mover at the origin.
func NewMover(id int) *Mover {
	return &Mover{
		Target:                 Target{Position: vector.Zero(2)},
		ID:                     id,
		Velocity:               vector.Zero(2),
		LinearAcceleration:     vector.Zero(2),
		MaxAngularAcceleration: DefaultMaxAngularAcceleration,
	}
}

// SetBehavior replaces the active behavior.
func (m *Mover) SetBehavior(b Behavior) { m.behavior = b }

// Behavior returns the active behavior, or nil.
func (m *Mover) Behavior() Behavior { return m.behavior }

// BehaviorID returns the active behavior's id, or 0 when none is assigned.
func (m *Mover) BehaviorID() int {
	if m.behavior == nil {
		return 0
	}
	return m.behavior.ID()
}

// Speed returns the magnitude of the velocity.
func (m *Mover) Speed() float64 { return m.Velocity.Magnitude() }

// Steer asks the behavior for this tick's accelerations without applying them.
func (m *Mover) Steer(delta float64) (SteeringOutput, error) {
	if m.behavior == nil {
		return SteeringOutput{}, fmt.Errorf("mover %d: %w", m.ID, ErrNoBehavior)
	}
	return m.behavior.Steer(m, delta)
}

// Apply stores out as the current accelerations and integrates one step.
func (m *Mover) Apply(out SteeringOutput, delta float64) error {
	m.LinearAcceleration = out.Linear
	m.AngularAcceleration = out.Angular
	return m.PhysicsTick(delta)
}

// Tick runs the behavior and then the physics step.
func (m *Mover) Tick(delta float64) error {
	out, err := m.Steer(delta)
	if err != nil {
		return err
	}
	return m.Apply(out, delta)
}

// PhysicsTick advances the mover by delta seconds. Position and orientation
// move with the velocity and rotation from before this step; velocity is then
// clamped to MaxSpeed.
func (m *Mover) PhysicsTick(delta float64) error {
	pos, err := m.Position.Add(m.Velocity.Scale(delta))
	if err != nil {
		return fmt.Errorf("mover %d position: %w", m.ID, err)
	}
	m.Position = pos
	m.Orientation += m.Rotation * delta

	vel, err := m.Velocity.Add(m.LinearAcceleration.Scale(delta))
	if err != nil {
		return fmt.Errorf("mover %d velocity: %w", m.ID, err)
	}
	m.Velocity = vel
	m.Rotation += m.AngularAcceleration * delta

	if m.MaxSpeed != 0 && m.Velocity.Magnitude() > m.MaxSpeed {
		n, err := m.Velocity.Normalize()
		if err != nil {
			return err
		}
		m.Velocity = n.Scale(m.MaxSpeed)
	}
	return nil
}
