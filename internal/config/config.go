package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/steering"
)

const (
	DefaultTimeStep               = 0.5
	DefaultDuration               = 50.0
	DefaultMaxAngularAcceleration = float64(kinematic.DefaultMaxAngularAcceleration)
	DefaultTimeToTarget           = steering.DefaultTimeToTarget
	DefaultPathOffset             = steering.DefaultPathOffset
)

// Behavior type names accepted in scenario files.
const (
	BehaviorContinue   = "continue"
	BehaviorSeek       = "seek"
	BehaviorFlee       = "flee"
	BehaviorArrive     = "arrive"
	BehaviorFollowPath = "follow_path"
)

var (
	ErrUnknownBehavior = errors.New("config: unknown behavior type")
	ErrUnknownTarget   = errors.New("config: unknown target mover")
	ErrUnknownPath     = errors.New("config: unknown path")
	ErrInvalid         = errors.New("config: invalid scenario")
)

// Point is an [x, y] pair.
type Point []float64

type Scenario struct {
	Name     string        `yaml:"name"`
	TimeStep float64       `yaml:"time_step"`
	Duration float64       `yaml:"duration"`
	Movers   []MoverConfig `yaml:"movers"`
	Paths    [][]Point     `yaml:"paths,omitempty"`
	Lines    [][]Point     `yaml:"lines,omitempty"`
}

type MoverConfig struct {
	ID                     int            `yaml:"id"`
	Position               Point          `yaml:"position,flow,omitempty"`
	Velocity               Point          `yaml:"velocity,flow,omitempty"`
	Orientation            float64        `yaml:"orientation,omitempty"`
	Rotation               float64        `yaml:"rotation,omitempty"`
	MaxSpeed               float64        `yaml:"max_speed,omitempty"`
	MaxLinearAcceleration  float64        `yaml:"max_linear_acceleration,omitempty"`
	MaxAngularAcceleration float64        `yaml:"max_angular_acceleration,omitempty"`
	Behavior               BehaviorConfig `yaml:"behavior,flow"`
}

type BehaviorConfig struct {
	Type           string  `yaml:"type"`
	Target         *int    `yaml:"target,omitempty"`
	TargetPosition Point   `yaml:"target_position,flow,omitempty"`
	TargetRadius   float64 `yaml:"target_radius,omitempty"`
	SlowRadius     float64 `yaml:"slow_radius,omitempty"`
	TimeToTarget   float64 `yaml:"time_to_target,omitempty"`
	Path           int     `yaml:"path,omitempty"`
	PathOffset     float64 `yaml:"path_offset,omitempty"`
	DebugPoints    bool    `yaml:"debug_points,omitempty"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:     "scenario",
		TimeStep: DefaultTimeStep,
		Duration: DefaultDuration,
	}
}

// Load reads a scenario file over the defaults and validates it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	sc.ApplyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func Marshal(sc *Scenario) ([]byte, error) {
	return yaml.Marshal(sc)
}

func Save(path string, sc *Scenario) error {
	data, err := Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyDefaults fills per-mover values left at zero.
func (s *Scenario) ApplyDefaults() {
	for i := range s.Movers {
		m := &s.Movers[i]
		if m.MaxAngularAcceleration == 0 {
			m.MaxAngularAcceleration = DefaultMaxAngularAcceleration
		}
		switch m.Behavior.Type {
		case BehaviorArrive:
			if m.Behavior.TimeToTarget == 0 {
				m.Behavior.TimeToTarget = DefaultTimeToTarget
			}
		case BehaviorFollowPath:
			if m.Behavior.PathOffset == 0 {
				m.Behavior.PathOffset = DefaultPathOffset
			}
		}
	}
}

// MoverIndex maps mover ids to their position in Movers.
func (s *Scenario) MoverIndex() map[int]int {
	idx := make(map[int]int, len(s.Movers))
	for i, m := range s.Movers {
		idx[m.ID] = i
	}
	return idx
}

func (s *Scenario) Validate() error {
	if s.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %v", ErrInvalid, s.TimeStep)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %v", ErrInvalid, s.Duration)
	}
	if len(s.Movers) == 0 {
		return fmt.Errorf("%w: no movers", ErrInvalid)
	}

	for i, p := range s.Paths {
		if len(p) < 2 {
			return fmt.Errorf("%w: path %d needs at least 2 points", ErrInvalid, i)
		}
		for _, pt := range p {
			if err := checkPoint(pt, fmt.Sprintf("path %d", i)); err != nil {
				return err
			}
		}
	}
	for i, l := range s.Lines {
		if len(l) != 2 {
			return fmt.Errorf("%w: line %d needs exactly 2 points", ErrInvalid, i)
		}
		for _, pt := range l {
			if err := checkPoint(pt, fmt.Sprintf("line %d", i)); err != nil {
				return err
			}
		}
	}

	ids := make(map[int]bool, len(s.Movers))
	for _, m := range s.Movers {
		if ids[m.ID] {
			return fmt.Errorf("%w: duplicate mover id %d", ErrInvalid, m.ID)
		}
		ids[m.ID] = true
	}

	for _, m := range s.Movers {
		if err := s.validateMover(m, ids); err != nil {
			return fmt.Errorf("mover %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *Scenario) validateMover(m MoverConfig, ids map[int]bool) error {
	if m.Position != nil {
		if err := checkPoint(m.Position, "position"); err != nil {
			return err
		}
	}
	if m.Velocity != nil {
		if err := checkPoint(m.Velocity, "velocity"); err != nil {
			return err
		}
	}
	if m.MaxSpeed < 0 || m.MaxLinearAcceleration < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalid)
	}

	b := m.Behavior
	switch b.Type {
	case BehaviorContinue:
		return nil
	case BehaviorSeek, BehaviorFlee, BehaviorArrive:
		if err := validateTarget(m.ID, b, ids); err != nil {
			return err
		}
		if b.Type == BehaviorArrive {
			if b.SlowRadius <= 0 || b.TargetRadius < 0 || b.TimeToTarget <= 0 {
				return fmt.Errorf("%w: arrive needs slow_radius > 0, target_radius >= 0, time_to_target > 0", ErrInvalid)
			}
		}
		return nil
	case BehaviorFollowPath:
		if b.Path < 0 || b.Path >= len(s.Paths) {
			return fmt.Errorf("%w: index %d", ErrUnknownPath, b.Path)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBehavior, b.Type)
	}
}

func validateTarget(self int, b BehaviorConfig, ids map[int]bool) error {
	switch {
	case b.Target != nil && b.TargetPosition != nil:
		return fmt.Errorf("%w: %s sets both target and target_position", ErrInvalid, b.Type)
	case b.Target != nil:
		if !ids[*b.Target] {
			return fmt.Errorf("%w: %d", ErrUnknownTarget, *b.Target)
		}
		if *b.Target == self {
			return fmt.Errorf("%w: %s targets itself", ErrInvalid, b.Type)
		}
		return nil
	case b.TargetPosition != nil:
		return checkPoint(b.TargetPosition, "target_position")
	default:
		return fmt.Errorf("%w: %s needs a target or target_position", ErrInvalid, b.Type)
	}
}

func checkPoint(p Point, what string) error {
	if len(p) != 2 {
		return fmt.Errorf("%w: %s must have 2 coordinates, got %d", ErrInvalid, what, len(p))
	}
	return nil
}

// IntPtr is a helper for building target references in code.
func IntPtr(v int) *int { return &v }
