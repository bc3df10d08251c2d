package sim_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/sim"
	"github.com/san-kum/steersim/internal/steering"
	"github.com/san-kum/steersim/internal/vector"
)

type countingMetric struct {
	samples int
}

func (c *countingMetric) OnTick(float64, *kinematic.Mover) { c.samples++ }
func (c *countingMetric) Name() string                     { return "samples" }
func (c *countingMetric) Value() float64                   { return float64(c.samples) }
func (c *countingMetric) Reset()                           { c.samples = 0 }

func newMover(id int, x, y float64) *kinematic.Mover {
	m := kinematic.NewMover(id)
	m.Position = vector.New(x, y)
	m.MaxSpeed = 8
	m.MaxLinearAcceleration = 2
	return m
}

func rows(rec *output.Recorder) []output.Trajectory {
	out, err := output.ParseTrajectories(strings.NewReader(rec.Stream(output.StreamTrajectories)))
	Expect(err).NotTo(HaveOccurred())
	return out
}

var _ = Describe("Simulation", func() {
	var rec *output.Recorder

	BeforeEach(func() {
		rec = output.NewRecorder(nil)
	})

	It("rejects a non-positive time step", func() {
		_, err := sim.New("bad", 0, rec, nil)
		Expect(err).To(MatchError(sim.ErrInvalidTimeStep))
	})

	It("records the initial state first and runs until time exceeds the limit", func() {
		s, err := sim.New("basic", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())

		still := newMover(1, 0, 0)
		still.SetBehavior(steering.NewContinue())
		seeker := newMover(2, -10, 0)
		seeker.SetBehavior(steering.NewSeek(still))
		s.AddMover(still)
		s.AddMover(seeker)

		Expect(s.Simulate(2)).To(Succeed())
		Expect(s.Ticks()).To(Equal(5))
		Expect(s.Time()).To(Equal(2.5))

		got := rows(rec)
		Expect(got).To(HaveLen(10))
		Expect(got[0].MoverID).To(Equal(1))
		Expect(got[1].MoverID).To(Equal(2))
		Expect(got[1].Time).To(Equal(0.0))
		Expect(got[1].PosX).To(Equal(-10.0))
		Expect(got[1].AccX).To(Equal(0.0))
		Expect(got[1].BehaviorID).To(Equal(steering.SeekID))
		Expect(got[3].Time).To(Equal(0.5))
		Expect(got[3].AccX).To(Equal(2.0))
		Expect(got[9].Time).To(Equal(2.0))
	})

	It("keeps the accumulating float comparison for the loop bound", func() {
		s, err := sim.New("float", 0.1, rec, nil)
		Expect(err).NotTo(HaveOccurred())
		m := newMover(1, 0, 0)
		m.SetBehavior(steering.NewContinue())
		s.AddMover(m)

		Expect(s.Simulate(1)).To(Succeed())
		Expect(s.Ticks()).To(Equal(11))
	})

	It("accumulates total time across calls", func() {
		s, err := sim.New("twice", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())
		m := newMover(1, 0, 0)
		m.SetBehavior(steering.NewContinue())
		s.AddMover(m)

		Expect(s.Simulate(1)).To(Succeed())
		Expect(s.Simulate(1)).To(Succeed())
		got := rows(rec)
		Expect(got).To(HaveLen(6))
		Expect(got[3].Time).To(Equal(1.5))
		Expect(got[5].Time).To(Equal(2.5))
	})

	It("fails before recording anything when a mover has no behavior", func() {
		s, err := sim.New("unassigned", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())
		s.AddMover(newMover(3, 0, 0))

		Expect(s.Simulate(1)).To(MatchError(kinematic.ErrNoBehavior))
		Expect(rec.Stream(output.StreamTrajectories)).To(BeEmpty())
	})

	It("wraps behavior failures with the mover and time", func() {
		s, err := sim.New("degenerate", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())
		m := newMover(9, 5, 5)
		m.SetBehavior(steering.NewSeek(kinematic.NewTarget(vector.New(5, 5))))
		s.AddMover(m)

		err = s.Simulate(1)
		var tickErr *sim.TickError
		Expect(errors.As(err, &tickErr)).To(BeTrue())
		Expect(tickErr.MoverID).To(Equal(9))
		Expect(tickErr.Time).To(Equal(0.0))
		Expect(err).To(MatchError(vector.ErrZeroLength))
	})

	It("does not depend on mover insertion order", func() {
		run := func(reverse bool) (vector.Vector, vector.Vector) {
			s, err := sim.New("order", 0.5, output.NewRecorder(nil), nil)
			Expect(err).NotTo(HaveOccurred())
			a := newMover(1, 0, 0)
			b := newMover(2, 30, 10)
			a.SetBehavior(steering.NewSeek(b))
			b.SetBehavior(steering.NewFlee(a))
			if reverse {
				s.AddMover(b)
				s.AddMover(a)
			} else {
				s.AddMover(a)
				s.AddMover(b)
			}
			Expect(s.Simulate(10)).To(Succeed())
			return a.Position, b.Position
		}

		a1, b1 := run(false)
		a2, b2 := run(true)
		Expect(a1.Equal(a2)).To(BeTrue())
		Expect(b1.Equal(b2)).To(BeTrue())
	})

	It("reports metrics in the summary", func() {
		s, err := sim.New("metrics", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())
		m := newMover(1, 0, 0)
		m.SetBehavior(steering.NewContinue())
		s.AddMover(m)
		metric := &countingMetric{}
		s.AddMetric(metric)

		Expect(s.Simulate(1)).To(Succeed())
		sum := s.Summary()
		Expect(sum.Name).To(Equal("metrics"))
		Expect(sum.Ticks).To(Equal(3))
		Expect(sum.Movers).To(Equal(1))
		Expect(sum.Metrics).To(HaveKeyWithValue("samples", 3.0))
	})

	It("writes paths, lines and streams into the run directory", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "program_2")
		s, err := sim.New("program_2", 0.5, rec, nil)
		Expect(err).NotTo(HaveOccurred())

		p, err := geometry.NewPath(vector.New(0, 90), vector.New(-20, 65), vector.New(20, 40))
		Expect(err).NotTo(HaveOccurred())
		s.AddPath(p)
		s.AddLine(vector.New(0, 0), vector.New(10, 0))

		m := newMover(2701, 20, 95)
		m.SetBehavior(steering.NewFollowPath(p, 0.04).WithPoints(rec))
		s.AddMover(m)

		Expect(s.Simulate(5)).To(Succeed())
		Expect(s.WriteOutputFiles(dir)).To(Succeed())
		Expect(s.WriteOutputFiles(dir)).To(Succeed())

		paths, err := os.ReadFile(filepath.Join(dir, "paths.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(paths)).To(HavePrefix("path, 0, 0, 90, -20, 65, 20, 40\nline, 0, 0, 10, 0\n"))

		for _, name := range []string{"trajectories.txt", "points.txt"} {
			_, err := os.Stat(filepath.Join(dir, name))
			Expect(err).NotTo(HaveOccurred())
		}
	})
})

var _ = Describe("Ensemble", func() {
	It("runs independent simulations and returns their summaries in order", func() {
		var runs []sim.Run
		for i, name := range []string{"a", "b", "c"} {
			s, err := sim.New(name, 0.5, output.NewRecorder(nil), nil)
			Expect(err).NotTo(HaveOccurred())
			m := newMover(i+1, 0, 0)
			m.SetBehavior(steering.NewSeek(kinematic.NewTarget(vector.New(100, 0))))
			s.AddMover(m)
			runs = append(runs, sim.Run{Sim: s, Seconds: float64(i + 1)})
		}

		summaries, err := sim.NewEnsemble(2, runs...).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries).To(HaveLen(3))
		Expect(summaries[0].Name).To(Equal("a"))
		Expect(summaries[0].Ticks).To(Equal(3))
		Expect(summaries[2].Ticks).To(Equal(7))
	})

	It("returns the first failure", func() {
		s, err := sim.New("broken", 0.5, output.NewRecorder(nil), nil)
		Expect(err).NotTo(HaveOccurred())
		s.AddMover(newMover(1, 0, 0))

		_, err = sim.NewEnsemble(0, sim.Run{Sim: s, Seconds: 1}).Run(context.Background())
		Expect(err).To(MatchError(kinematic.ErrNoBehavior))
	})
})
