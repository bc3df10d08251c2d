// Package steering implements the classical kinematic steering behaviors:
// Continue, Seek, Flee, Arrive and FollowPath.
//
// Each behavior satisfies [kinematic.Behavior]. Apart from FollowPath, which
// keeps a progress cursor along its path, behaviors hold no state between
// calls.
package steering

import (
	"errors"
	"fmt"

	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/vector"
)

// Behavior ids written to trajectory output. Visualization tools key off
// these values, so they must not change.
const (
	ContinueID   = 1
	SeekID       = 6
	FleeID       = 7
	ArriveID     = 8
	FollowPathID = 11
)

// ErrInvalidParameter indicates a behavior built with an unusable parameter.
var ErrInvalidParameter = errors.New("steering: invalid parameter")

// Name returns a human readable name for a behavior id.
func Name(id int) string {
	switch id {
	case ContinueID:
		return "continue"
	case SeekID:
		return "seek"
	case FleeID:
		return "flee"
	case ArriveID:
		return "arrive"
	case FollowPathID:
		return "follow_path"
	default:
		return fmt.Sprintf("behavior_%d", id)
	}
}

// Continue keeps whatever accelerations the character already has.
type Continue struct{}

func NewContinue() *Continue { return &Continue{} }

func (*Continue) ID() int { return ContinueID }

func (*Continue) Steer(character *kinematic.Mover, _ float64) (kinematic.SteeringOutput, error) {
	return kinematic.SteeringOutput{
		Linear:  character.LinearAcceleration,
		Angular: character.AngularAcceleration,
	}, nil
}

// seekAcceleration is full acceleration along from->to.
func seekAcceleration(from, to vector.Vector, maxAccel float64) (vector.Vector, error) {
	dir, err := to.Sub(from)
	if err != nil {
		return vector.Vector{}, err
	}
	n, err := dir.Normalize()
	if err != nil {
		return vector.Vector{}, err
	}
	return n.Scale(maxAccel), nil
}

// Seek accelerates the character straight at its target at full acceleration.
type Seek struct {
	target kinematic.Positioner
}

func NewSeek(target kinematic.Positioner) *Seek {
	return &Seek{target: target}
}

func (*Seek) ID() int { return SeekID }

// Target returns what the behavior is steering toward.
func (s *Seek) Target() kinematic.Positioner { return s.target }

func (s *Seek) Steer(character *kinematic.Mover, _ float64) (kinematic.SteeringOutput, error) {
	linear, err := seekAcceleration(character.Position, s.target.Pos(), character.MaxLinearAcceleration)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("seek: %w", err)
	}
	return kinematic.SteeringOutput{Linear: linear}, nil
}

// Flee accelerates the character directly away from its target.
type Flee struct {
	target kinematic.Positioner
}

func NewFlee(target kinematic.Positioner) *Flee {
	return &Flee{target: target}
}

func (*Flee) ID() int { return FleeID }

func (f *Flee) Steer(character *kinematic.Mover, _ float64) (kinematic.SteeringOutput, error) {
	linear, err := seekAcceleration(f.target.Pos(), character.Position, character.MaxLinearAcceleration)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("flee: %w", err)
	}
	return kinematic.SteeringOutput{Linear: linear}, nil
}
