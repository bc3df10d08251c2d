// Package scenario turns scenario configs into ready-to-run simulations.
package scenario

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/config"
	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/metrics"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/sim"
	"github.com/san-kum/steersim/internal/vector"
)

type Builder struct {
	registry *Registry
	log      *zap.Logger
}

func NewBuilder(registry *Registry, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{registry: registry, log: log}
}

// Build validates sc and wires its movers, paths and lines into a simulation
// that records into rec. Every mover gets max speed and distance metrics;
// arrive movers also get an arrival metric on their target radius.
func (b *Builder) Build(sc *config.Scenario, rec *output.Recorder) (*sim.Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	s, err := sim.New(sc.Name, sc.TimeStep, rec, b.log)
	if err != nil {
		return nil, err
	}

	e := &env{
		movers: make(map[int]*kinematic.Mover, len(sc.Movers)),
		points: rec,
	}

	for i, pts := range sc.Paths {
		vs := make([]vector.Vector, len(pts))
		for j, p := range pts {
			vs[j] = toVector(p)
		}
		path, err := geometry.NewPath(vs...)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		e.paths = append(e.paths, path)
		s.AddPath(path)
	}
	for _, l := range sc.Lines {
		s.AddLine(toVector(l[0]), toVector(l[1]))
	}

	// Movers first so behaviors can target any of them regardless of order.
	movers := make([]*kinematic.Mover, len(sc.Movers))
	for i, mc := range sc.Movers {
		m := kinematic.NewMover(mc.ID)
		m.Position = toVector(mc.Position)
		m.Velocity = toVector(mc.Velocity)
		m.Orientation = mc.Orientation
		m.Rotation = mc.Rotation
		m.MaxSpeed = mc.MaxSpeed
		m.MaxLinearAcceleration = mc.MaxLinearAcceleration
		m.MaxAngularAcceleration = mc.MaxAngularAcceleration
		movers[i] = m
		e.movers[mc.ID] = m
	}

	for i, mc := range sc.Movers {
		m := movers[i]
		beh, err := b.registry.behavior(mc.Behavior, e)
		if err != nil {
			return nil, fmt.Errorf("mover %d: %w", mc.ID, err)
		}
		m.SetBehavior(beh)
		s.AddMover(m)

		s.AddMetric(metrics.NewMaxSpeed(mc.ID))
		s.AddMetric(metrics.NewDistance(mc.ID))
		if mc.Behavior.Type == config.BehaviorArrive {
			target, _ := e.target(mc.Behavior)
			s.AddMetric(metrics.NewArrival(mc.ID, target, mc.Behavior.TargetRadius))
		}
	}

	b.log.Debug("built scenario",
		zap.String("name", sc.Name),
		zap.Int("movers", len(movers)),
		zap.Int("paths", len(e.paths)),
	)
	return s, nil
}

func toVector(p config.Point) vector.Vector {
	if len(p) == 0 {
		return vector.Zero(2)
	}
	return vector.New(p[0], p[1])
}
