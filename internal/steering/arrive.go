package steering

import (
	"fmt"

	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/vector"
)

// DefaultTimeToTarget is the arrival time Arrive matches when none is given.
const DefaultTimeToTarget = 0.1

// Arrive steers toward a target and slows down inside SlowRadius so the
// character comes to rest within TargetRadius.
type Arrive struct {
	target kinematic.Positioner

	TargetRadius float64
	SlowRadius   float64
	TimeToTarget float64
}

// NewArrive validates the radii and arrival time.
func NewArrive(target kinematic.Positioner, targetRadius, slowRadius, timeToTarget float64) (*Arrive, error) {
	if timeToTarget <= 0 {
		return nil, fmt.Errorf("%w: time_to_target must be positive, got %v", ErrInvalidParameter, timeToTarget)
	}
	if slowRadius <= 0 {
		return nil, fmt.Errorf("%w: slow_radius must be positive, got %v", ErrInvalidParameter, slowRadius)
	}
	if targetRadius < 0 {
		return nil, fmt.Errorf("%w: target_radius must not be negative, got %v", ErrInvalidParameter, targetRadius)
	}
	return &Arrive{
		target:       target,
		TargetRadius: targetRadius,
		SlowRadius:   slowRadius,
		TimeToTarget: timeToTarget,
	}, nil
}

func (*Arrive) ID() int { return ArriveID }

// TargetSpeed is the speed the character aims for at distance from the target.
func (a *Arrive) TargetSpeed(maxSpeed, distance float64) float64 {
	if distance <= a.SlowRadius {
		return maxSpeed * distance / a.SlowRadius
	}
	return maxSpeed
}

func (a *Arrive) Steer(character *kinematic.Mover, _ float64) (kinematic.SteeringOutput, error) {
	direction, err := a.target.Pos().Sub(character.Position)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("arrive: %w", err)
	}
	distance := direction.Magnitude()

	// Arrived: no acceleration this tick, whatever the velocity.
	if distance < a.TargetRadius || distance == 0 {
		return kinematic.SteeringOutput{Linear: vector.Zero(direction.Dim())}, nil
	}

	n, err := direction.Normalize()
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("arrive: %w", err)
	}
	targetVelocity := n.Scale(a.TargetSpeed(character.MaxSpeed, distance))

	linear, err := targetVelocity.Sub(character.Velocity)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("arrive: %w", err)
	}
	linear, err = linear.Divide(a.TimeToTarget)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("arrive: %w", err)
	}

	if linear.Magnitude() > character.MaxLinearAcceleration {
		n, err := linear.Normalize()
		if err != nil {
			return kinematic.SteeringOutput{}, fmt.Errorf("arrive: %w", err)
		}
		linear = n.Scale(character.MaxLinearAcceleration)
	}

	return kinematic.SteeringOutput{Linear: linear}, nil
}
