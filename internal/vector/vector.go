// Package vector provides a small immutable n-dimensional vector used by the
// steering geometry.
//
// Every operation returns a fresh [Vector]; nothing mutates its receiver.
// Binary operations require operands of equal dimension and report
// [ErrDimensionMismatch] otherwise.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrDimensionMismatch indicates a binary operation on vectors of different dimension.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")

	// ErrZeroLength indicates normalizing a vector whose magnitude is zero.
	ErrZeroLength = errors.New("vector: cannot normalize zero-length vector")

	// ErrDivideByZero indicates a scalar division by zero.
	ErrDivideByZero = errors.New("vector: division by zero")

	// ErrLerpRange indicates an interpolation factor outside [0, 1].
	ErrLerpRange = errors.New("vector: interpolation factor outside [0, 1]")
)

// Vector is an ordered tuple of real components with a dimension fixed at
// construction.
type Vector struct {
	c []float64
}

// New returns a vector holding a copy of the given components.
func New(components ...float64) Vector {
	c := make([]float64, len(components))
	copy(c, components)
	return Vector{c: c}
}

// Zero returns the zero vector of dimension dim.
func Zero(dim int) Vector {
	return Vector{c: make([]float64, dim)}
}

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v.c) }

// At returns component i. Indexing past Dim panics like a slice access.
func (v Vector) At(i int) float64 { return v.c[i] }

func (v Vector) X() float64 { return v.c[0] }
func (v Vector) Y() float64 { return v.c[1] }
func (v Vector) Z() float64 { return v.c[2] }

// Components returns a copy of the components.
func (v Vector) Components() []float64 {
	out := make([]float64, len(v.c))
	copy(out, v.c)
	return out
}

func (v Vector) checkDim(o Vector) error {
	if len(v.c) != len(o.c) {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(v.c), len(o.c))
	}
	return nil
}

// Add returns v + o component-wise.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := v.checkDim(o); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = v.c[i] + o.c[i]
	}
	return Vector{c: out}, nil
}

// Sub returns v - o component-wise.
func (v Vector) Sub(o Vector) (Vector, error) {
	if err := v.checkDim(o); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = v.c[i] - o.c[i]
	}
	return Vector{c: out}, nil
}

// AddScalar adds s to every component.
func (v Vector) AddScalar(s float64) Vector {
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = v.c[i] + s
	}
	return Vector{c: out}
}

// SubScalar subtracts s from every component.
func (v Vector) SubScalar(s float64) Vector {
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = v.c[i] - s
	}
	return Vector{c: out}
}

// Dot returns the sum of the component-wise products of v and o.
func (v Vector) Dot(o Vector) (float64, error) {
	if err := v.checkDim(o); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range v.c {
		sum += v.c[i] * o.c[i]
	}
	return sum, nil
}

// Scale multiplies every component by s.
func (v Vector) Scale(s float64) Vector {
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = s * v.c[i]
	}
	return Vector{c: out}
}

// Divide divides every component by s.
func (v Vector) Divide(s float64) (Vector, error) {
	if s == 0 {
		return Vector{}, ErrDivideByZero
	}
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = v.c[i] / s
	}
	return Vector{c: out}, nil
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	sum := 0.0
	for _, x := range v.c {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. Zero-length vectors have no
// direction and yield ErrZeroLength.
func (v Vector) Normalize() (Vector, error) {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}, ErrZeroLength
	}
	out, _ := v.Divide(m)
	return out, nil
}

// Lerp interpolates linearly from v (t=0) to o (t=1) as o*t + v*(1-t).
func (v Vector) Lerp(o Vector, t float64) (Vector, error) {
	if t < 0 || t > 1 {
		return Vector{}, fmt.Errorf("%w: %v", ErrLerpRange, t)
	}
	if err := v.checkDim(o); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(v.c))
	for i := range v.c {
		out[i] = o.c[i]*t + v.c[i]*(1-t)
	}
	return Vector{c: out}, nil
}

// Distance returns |v - o|.
func (v Vector) Distance(o Vector) (float64, error) {
	d, err := v.Sub(o)
	if err != nil {
		return 0, err
	}
	return d.Magnitude(), nil
}

// Equal reports whether v and o have the same dimension and components.
func (v Vector) Equal(o Vector) bool {
	if len(v.c) != len(o.c) {
		return false
	}
	for i := range v.c {
		if v.c[i] != o.c[i] {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	parts := make([]string, len(v.c))
	for i, x := range v.c {
		parts[i] = fmt.Sprintf("%10.3f", x)
	}
	return "vec<" + strings.Join(parts, ", ") + ">"
}
