package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/sim"
	"github.com/san-kum/steersim/internal/vector"
)

var (
	_ sim.Metric = (*MaxSpeed)(nil)
	_ sim.Metric = (*Distance)(nil)
	_ sim.Metric = (*Arrival)(nil)
)

func moverAt(id int, x, y, vx, vy float64) *kinematic.Mover {
	m := kinematic.NewMover(id)
	m.Position = vector.New(x, y)
	m.Velocity = vector.New(vx, vy)
	return m
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed(7)
	if m.Name() != "max_speed_7" {
		t.Errorf("unexpected name %s", m.Name())
	}

	m.OnTick(0, moverAt(7, 0, 0, 3, 4))
	m.OnTick(0.5, moverAt(7, 0, 0, 1, 0))
	m.OnTick(0.5, moverAt(8, 0, 0, 100, 0))

	if math.Abs(m.Value()-5) > 1e-9 {
		t.Errorf("expected max speed 5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDistance(t *testing.T) {
	d := NewDistance(1)
	for _, p := range [][2]float64{{0, 0}, {3, 4}, {3, 4}, {6, 8}} {
		d.OnTick(0, moverAt(1, p[0], p[1], 0, 0))
	}
	d.OnTick(0, moverAt(2, 100, 100, 0, 0))

	if math.Abs(d.Value()-10) > 1e-9 {
		t.Errorf("expected distance 10, got %f", d.Value())
	}

	d.Reset()
	d.OnTick(0, moverAt(1, 50, 50, 0, 0))
	if d.Value() != 0 {
		t.Errorf("expected zero after reset and one sample, got %f", d.Value())
	}
}

func TestArrival(t *testing.T) {
	a := NewArrival(1, kinematic.NewTarget(vector.New(0, 0)), 4)
	if a.Value() != -1 {
		t.Errorf("expected -1 before arrival, got %f", a.Value())
	}

	a.OnTick(0, moverAt(1, 10, 0, 0, 0))
	a.OnTick(0.5, moverAt(1, 4, 0, 0, 0))
	a.OnTick(1.0, moverAt(1, 0, 0, 0, 0))

	if a.Value() != 0.5 {
		t.Errorf("expected arrival at 0.5, got %f", a.Value())
	}

	a.Reset()
	if a.Value() != -1 {
		t.Error("expected -1 after reset")
	}
}
