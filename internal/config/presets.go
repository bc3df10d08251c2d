package config

import "sort"

// pi truncated to two places, as the preset runs were tuned with it.
const pi = 3.14

var Presets = map[string]func() *Scenario{
	"program_1": program1,
	"program_2": program2,
}

func program1() *Scenario {
	return &Scenario{
		Name: "program_1", TimeStep: 0.5, Duration: 50,
		Movers: []MoverConfig{
			{
				ID:                     2601,
				MaxAngularAcceleration: DefaultMaxAngularAcceleration,
				Behavior:               BehaviorConfig{Type: BehaviorContinue},
			},
			{
				ID: 2602, Position: Point{-30, -50}, Velocity: Point{2, 7}, Orientation: pi / 4,
				MaxSpeed: 8, MaxLinearAcceleration: 1.5, MaxAngularAcceleration: DefaultMaxAngularAcceleration,
				Behavior: BehaviorConfig{Type: BehaviorFlee, Target: IntPtr(2601)},
			},
			{
				ID: 2603, Position: Point{-50, 40}, Velocity: Point{0, 8}, Orientation: 3 * pi / 2,
				MaxSpeed: 8, MaxLinearAcceleration: 2, MaxAngularAcceleration: DefaultMaxAngularAcceleration,
				Behavior: BehaviorConfig{Type: BehaviorSeek, Target: IntPtr(2601)},
			},
			{
				ID: 2604, Position: Point{50, 75}, Velocity: Point{-9, 4}, Orientation: pi,
				MaxSpeed: 10, MaxLinearAcceleration: 2, MaxAngularAcceleration: DefaultMaxAngularAcceleration,
				Behavior: BehaviorConfig{
					Type: BehaviorArrive, Target: IntPtr(2601),
					TargetRadius: 4, SlowRadius: 32, TimeToTarget: 1,
				},
			},
		},
	}
}

func program2() *Scenario {
	return &Scenario{
		Name: "program_2", TimeStep: 0.5, Duration: 125,
		Movers: []MoverConfig{
			{
				ID: 2701, Position: Point{20, 95}, Velocity: Point{0, 0},
				MaxSpeed: 4, MaxLinearAcceleration: 2, MaxAngularAcceleration: DefaultMaxAngularAcceleration,
				Behavior: BehaviorConfig{Type: BehaviorFollowPath, Path: 0, PathOffset: 0.04},
			},
		},
		Paths: [][]Point{{
			{0, 90}, {-20, 65}, {20, 40}, {-40, 15},
			{40, -10}, {-60, -35}, {60, -60}, {0, -85},
		}},
	}
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
