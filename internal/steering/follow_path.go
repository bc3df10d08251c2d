package steering

import (
	"fmt"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
)

// DefaultPathOffset is how far ahead along the normalized path FollowPath aims.
const DefaultPathOffset = 0.1

// PointWriter receives diagnostic points keyed by time.
type PointWriter interface {
	WritePoint(time, x, y float64)
}

// FollowPath seeks a point a fixed offset ahead of the character's projection
// onto a path. The projection is recomputed from the character's position on
// every call, so progress never drifts away from where the character is.
type FollowPath struct {
	path   *geometry.Path
	offset float64
	target *kinematic.Target

	param  float64
	time   float64
	points PointWriter
}

// NewFollowPath follows path with the given look-ahead offset.
func NewFollowPath(path *geometry.Path, offset float64) *FollowPath {
	first := path.Points()[0]
	return &FollowPath{
		path:   path,
		offset: offset,
		target: kinematic.NewTarget(first),
	}
}

// WithPoints makes the behavior report each projected closest point to w.
func (f *FollowPath) WithPoints(w PointWriter) *FollowPath {
	f.points = w
	return f
}

func (*FollowPath) ID() int { return FollowPathID }

// Param returns the look-ahead param used on the latest call.
func (f *FollowPath) Param() float64 { return f.param }

// Target returns the synthetic target the behavior is seeking.
func (f *FollowPath) Target() *kinematic.Target { return f.target }

// Offset returns the look-ahead distance.
func (f *FollowPath) Offset() float64 { return f.offset }

func (f *FollowPath) Steer(character *kinematic.Mover, delta float64) (kinematic.SteeringOutput, error) {
	param, closest, err := f.path.Param(character.Position)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("follow path: %w", err)
	}
	f.param = param + f.offset

	pos, err := f.path.Position(f.param)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("follow path: %w", err)
	}
	f.target.Position = pos

	if f.points != nil {
		f.points.WritePoint(f.time, closest.X(), closest.Y())
	}
	f.time += delta

	linear, err := seekAcceleration(character.Position, f.target.Position, character.MaxLinearAcceleration)
	if err != nil {
		return kinematic.SteeringOutput{}, fmt.Errorf("follow path: %w", err)
	}
	return kinematic.SteeringOutput{Linear: linear}, nil
}
