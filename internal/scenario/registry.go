package scenario

import (
	"fmt"
	"sort"

	"github.com/san-kum/steersim/internal/config"
	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/steering"
	"github.com/san-kum/steersim/internal/vector"
)

// env is what a behavior factory can resolve references against.
type env struct {
	movers map[int]*kinematic.Mover
	paths  []*geometry.Path
	points steering.PointWriter
}

type factory func(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error)

type Registry struct {
	behaviors map[string]factory
}

func NewRegistry() *Registry {
	r := &Registry{
		behaviors: make(map[string]factory),
	}

	r.behaviors[config.BehaviorContinue] = func(config.BehaviorConfig, *env) (kinematic.Behavior, error) {
		return steering.NewContinue(), nil
	}
	r.behaviors[config.BehaviorSeek] = func(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error) {
		target, err := e.target(bc)
		if err != nil {
			return nil, err
		}
		return steering.NewSeek(target), nil
	}
	r.behaviors[config.BehaviorFlee] = func(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error) {
		target, err := e.target(bc)
		if err != nil {
			return nil, err
		}
		return steering.NewFlee(target), nil
	}
	r.behaviors[config.BehaviorArrive] = func(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error) {
		target, err := e.target(bc)
		if err != nil {
			return nil, err
		}
		arrive, err := steering.NewArrive(target, bc.TargetRadius, bc.SlowRadius, bc.TimeToTarget)
		if err != nil {
			return nil, err
		}
		return arrive, nil
	}
	r.behaviors[config.BehaviorFollowPath] = func(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error) {
		if bc.Path < 0 || bc.Path >= len(e.paths) {
			return nil, fmt.Errorf("%w: index %d", config.ErrUnknownPath, bc.Path)
		}
		fp := steering.NewFollowPath(e.paths[bc.Path], bc.PathOffset)
		if bc.DebugPoints && e.points != nil {
			fp = fp.WithPoints(e.points)
		}
		return fp, nil
	}

	return r
}

func (r *Registry) behavior(bc config.BehaviorConfig, e *env) (kinematic.Behavior, error) {
	fn, ok := r.behaviors[bc.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBehavior, bc.Type)
	}
	return fn(bc, e)
}

func (r *Registry) ListBehaviors() []string {
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *env) target(bc config.BehaviorConfig) (kinematic.Positioner, error) {
	if bc.Target != nil {
		m, ok := e.movers[*bc.Target]
		if !ok {
			return nil, fmt.Errorf("%w: %d", config.ErrUnknownTarget, *bc.Target)
		}
		return m, nil
	}
	if len(bc.TargetPosition) != 2 {
		return nil, fmt.Errorf("%w: %s needs a target", config.ErrInvalid, bc.Type)
	}
	return kinematic.NewTarget(vector.New(bc.TargetPosition[0], bc.TargetPosition[1])), nil
}
