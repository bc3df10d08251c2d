// Package geometry implements the polyline paths movers follow.
//
// A [Path] is parameterized by normalized arclength: param 0 is the first
// waypoint and param 1 the last, with each segment owning a share of [0, 1]
// proportional to its length.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/steersim/internal/vector"
)

var (
	// ErrTooFewPoints indicates a path built from fewer than two waypoints.
	ErrTooFewPoints = errors.New("geometry: path needs at least two points")

	// ErrDegeneratePath indicates a path whose total length is zero.
	ErrDegeneratePath = errors.New("geometry: path has zero total length")
)

// Path is an immutable polyline over two or more waypoints.
type Path struct {
	points   []vector.Vector
	relative []float64
	length   float64
}

// NewPath builds a path through points in order and precomputes the share of
// the total length each segment covers.
func NewPath(points ...vector.Vector) (*Path, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}

	p := &Path{
		points:   make([]vector.Vector, len(points)),
		relative: make([]float64, len(points)-1),
	}
	copy(p.points, points)

	distances := make([]float64, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		d, err := points[i+1].Distance(points[i])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		distances[i] = d
		p.length += d
	}

	if p.length == 0 {
		return nil, ErrDegeneratePath
	}

	for i, d := range distances {
		p.relative[i] = d / p.length
	}

	return p, nil
}

// Points returns a copy of the waypoints.
func (p *Path) Points() []vector.Vector {
	out := make([]vector.Vector, len(p.points))
	copy(out, p.points)
	return out
}

// RelativeDistances returns each segment's length as a fraction of the total.
func (p *Path) RelativeDistances() []float64 {
	out := make([]float64, len(p.relative))
	copy(out, p.relative)
	return out
}

// Length returns the total path length.
func (p *Path) Length() float64 { return p.length }

// Segments returns the number of segments.
func (p *Path) Segments() int { return len(p.relative) }

// ClosestPointOnSegment projects pos onto the line through p1 and p2, clamped
// to the segment between them. A zero-length segment projects to p1.
func ClosestPointOnSegment(p1, p2, pos vector.Vector) (vector.Vector, error) {
	line, err := p2.Sub(p1)
	if err != nil {
		return vector.Vector{}, err
	}
	rel, err := pos.Sub(p1)
	if err != nil {
		return vector.Vector{}, err
	}

	num, err := rel.Dot(line)
	if err != nil {
		return vector.Vector{}, err
	}
	den, _ := line.Dot(line)
	if den == 0 {
		return p1, nil
	}

	t := math.Max(math.Min(num/den, 1), 0)
	return p1.Add(line.Scale(t))
}

// Param projects position onto the path and returns its normalized arclength
// together with the projected point. When two segments are equally close the
// lower-indexed one wins.
func (p *Path) Param(position vector.Vector) (float64, vector.Vector, error) {
	smallest := math.Inf(1)
	index := 0
	closest := p.points[0]

	for i := 0; i < len(p.points)-1; i++ {
		onLine, err := ClosestPointOnSegment(p.points[i], p.points[i+1], position)
		if err != nil {
			return 0, vector.Vector{}, err
		}
		d, _ := onLine.Distance(position)
		if d < smallest {
			smallest = d
			index = i
			closest = onLine
		}
	}

	param := 0.0
	for i := 0; i < index; i++ {
		param += p.relative[i]
	}

	p1, p2 := p.points[index], p.points[index+1]
	segLen, _ := p2.Distance(p1)
	if segLen > 0 {
		along, _ := closest.Distance(p1)
		param += along / segLen * p.relative[index]
	}

	return param, closest, nil
}

// Position returns the point at normalized arclength param. Values outside
// [0, 1] are clamped.
func (p *Path) Position(param float64) (vector.Vector, error) {
	param = math.Min(1.0, math.Max(0.0, param))

	i := 0
	for param > p.relative[i] && i < len(p.relative)-1 {
		param -= p.relative[i]
		i++
	}

	first, second := p.points[i], p.points[i+1]
	if p.relative[i] == 0 {
		return first, nil
	}

	percentage := param / p.relative[i]
	percentage = math.Min(1.0, math.Max(0.0, percentage))

	return first.Lerp(second, percentage)
}
