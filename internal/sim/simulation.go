package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/vector"
)

// Simulation ticks a set of movers in fixed time steps and records their
// state to a sink.
type Simulation struct {
	name     string
	timeStep float64

	movers []*kinematic.Mover
	paths  []*geometry.Path
	lines  [][2]vector.Vector

	totalTime float64
	ticks     int

	sink      Sink
	observers []Observer
	metrics   []Metric
	log       *zap.Logger
}

// New returns an empty simulation named name.
func New(name string, timeStep float64, sink Sink, log *zap.Logger) (*Simulation, error) {
	if timeStep <= 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidTimeStep, timeStep)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulation{
		name:     name,
		timeStep: timeStep,
		sink:     sink,
		log:      log.With(zap.String("run", name)),
	}, nil
}

func (s *Simulation) AddMover(m *kinematic.Mover)  { s.movers = append(s.movers, m) }
func (s *Simulation) AddPath(p *geometry.Path)     { s.paths = append(s.paths, p) }
func (s *Simulation) AddLine(p1, p2 vector.Vector) { s.lines = append(s.lines, [2]vector.Vector{p1, p2}) }
func (s *Simulation) AddObserver(o Observer)       { s.observers = append(s.observers, o) }
func (s *Simulation) AddMetric(m Metric)           { s.metrics = append(s.metrics, m) }
func (s *Simulation) Name() string                 { return s.name }
func (s *Simulation) TimeStep() float64            { return s.timeStep }
func (s *Simulation) Time() float64                { return s.totalTime }
func (s *Simulation) Ticks() int                   { return s.ticks }
func (s *Simulation) Movers() []*kinematic.Mover   { return s.movers }
func (s *Simulation) Paths() []*geometry.Path      { return s.paths }

func (s *Simulation) record(m *kinematic.Mover) {
	s.sink.WriteTrajectory(output.Trajectory{
		Time:        s.totalTime,
		MoverID:     m.ID,
		PosX:        m.Position.X(),
		PosY:        m.Position.Y(),
		VelX:        m.Velocity.X(),
		VelY:        m.Velocity.Y(),
		AccX:        m.LinearAcceleration.X(),
		AccY:        m.LinearAcceleration.Y(),
		Orientation: m.Orientation,
		BehaviorID:  m.BehaviorID(),
		Collision:   m.Collision,
	})
	for _, o := range s.observers {
		o.OnTick(s.totalTime, m)
	}
	for _, mt := range s.metrics {
		mt.OnTick(s.totalTime, m)
	}
}

// Simulate runs while the simulated time of this call is at most seconds.
// Time accumulates by repeated addition of the time step, so the final tick
// may land exactly on or just past seconds.
//
// Each tick records every mover, then computes every mover's steering from
// the committed state, then integrates them all. No behavior sees another
// mover's state from the same tick.
func (s *Simulation) Simulate(seconds float64) error {
	for _, m := range s.movers {
		if m.Behavior() == nil {
			return fmt.Errorf("sim %s: mover %d: %w", s.name, m.ID, kinematic.ErrNoBehavior)
		}
	}

	start := time.Now()
	ticks := 0
	simTime := 0.0
	outs := make([]kinematic.SteeringOutput, len(s.movers))

	for simTime <= seconds {
		for _, m := range s.movers {
			s.record(m)
		}

		for i, m := range s.movers {
			out, err := m.Steer(s.timeStep)
			if err != nil {
				return &TickError{Time: s.totalTime, MoverID: m.ID, Err: err}
			}
			outs[i] = out
		}
		for i, m := range s.movers {
			if err := m.Apply(outs[i], s.timeStep); err != nil {
				return &TickError{Time: s.totalTime, MoverID: m.ID, Err: err}
			}
		}

		simTime += s.timeStep
		s.totalTime += s.timeStep
		s.ticks++
		ticks++
	}

	s.log.Info("simulated",
		zap.Float64("seconds", simTime),
		zap.Int("ticks", ticks),
		zap.Int("movers", len(s.movers)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Summary reports the run so far.
func (s *Simulation) Summary() Summary {
	sum := Summary{
		Name:     s.name,
		TimeStep: s.timeStep,
		Time:     s.totalTime,
		Ticks:    s.ticks,
		Movers:   len(s.movers),
		Metrics:  make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		sum.Metrics[m.Name()] = m.Value()
	}
	return sum
}

// WriteOutputFiles writes paths and lines to the sink and flushes it into dir.
func (s *Simulation) WriteOutputFiles(dir string) error {
	if len(s.paths) > 0 {
		s.sink.WritePaths(s.paths...)
	}
	for _, l := range s.lines {
		s.sink.WriteLine(l[0], l[1])
	}
	if err := s.sink.Flush(dir); err != nil {
		return fmt.Errorf("sim %s: %w", s.name, err)
	}
	s.log.Info("wrote output", zap.String("dir", dir))
	return nil
}
