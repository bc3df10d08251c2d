package steering_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/steersim/internal/geometry"
	"github.com/san-kum/steersim/internal/kinematic"
	"github.com/san-kum/steersim/internal/steering"
	"github.com/san-kum/steersim/internal/vector"
)

type pointLog struct {
	times []float64
	xs    []float64
	ys    []float64
}

func (p *pointLog) WritePoint(time, x, y float64) {
	p.times = append(p.times, time)
	p.xs = append(p.xs, x)
	p.ys = append(p.ys, y)
}

func mover(x, y, maxSpeed, maxAccel float64) *kinematic.Mover {
	m := kinematic.NewMover(1)
	m.Position = vector.New(x, y)
	m.MaxSpeed = maxSpeed
	m.MaxLinearAcceleration = maxAccel
	return m
}

var _ = Describe("Behavior ids", func() {
	It("uses the stable output codes", func() {
		Expect(steering.NewContinue().ID()).To(Equal(1))
		Expect(steering.NewSeek(nil).ID()).To(Equal(6))
		Expect(steering.NewFlee(nil).ID()).To(Equal(7))
		Expect((&steering.Arrive{}).ID()).To(Equal(8))
		Expect((&steering.FollowPath{}).ID()).To(Equal(11))
		Expect(steering.Name(steering.FollowPathID)).To(Equal("follow_path"))
		Expect(steering.Name(99)).To(Equal("behavior_99"))
	})
})

var _ = Describe("Continue", func() {
	It("passes the current accelerations through", func() {
		m := mover(0, 0, 0, 0)
		m.LinearAcceleration = vector.New(1.5, -2)
		m.AngularAcceleration = 0.25

		out, err := steering.NewContinue().Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Components()).To(Equal([]float64{1.5, -2}))
		Expect(out.Angular).To(Equal(0.25))
	})
})

var _ = Describe("Seek", func() {
	It("always requests exactly the maximum acceleration", func() {
		for _, target := range [][2]float64{{100, 0}, {-3, 4}, {0.01, -0.02}, {1e4, 1e4}} {
			m := mover(0, 0, 8, 2)
			out, err := steering.NewSeek(kinematic.NewTarget(vector.New(target[0], target[1]))).Steer(m, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Linear.Magnitude()).To(BeNumerically("~", 2, 1e-12))
			Expect(out.Angular).To(Equal(0.0))
		}
	})

	It("fails when the character sits on the target", func() {
		m := mover(5, 5, 8, 2)
		_, err := steering.NewSeek(kinematic.NewTarget(vector.New(5, 5))).Steer(m, 0.5)
		Expect(err).To(MatchError(vector.ErrZeroLength))
	})

	It("accelerates toward a stationary target without exceeding max speed", func() {
		m := mover(0, 0, 8, 2)
		m.SetBehavior(steering.NewSeek(kinematic.NewTarget(vector.New(100, 0))))

		prev := m.Position.X()
		for i := 0; i < 20; i++ {
			Expect(m.Tick(0.5)).To(Succeed())
			Expect(m.Position.X()).To(BeNumerically(">=", prev))
			if i > 0 {
				Expect(m.Position.X()).To(BeNumerically(">", prev))
			}
			Expect(m.Position.X()).To(BeNumerically("<", 100))
			Expect(m.Speed()).To(BeNumerically("<=", 8+1e-12))
			prev = m.Position.X()
		}
		Expect(m.Speed()).To(BeNumerically("~", 8, 1e-12))
	})

	It("reads a moving target's current position", func() {
		target := mover(10, 0, 0, 0)
		m := mover(0, 0, 8, 2)
		seek := steering.NewSeek(target)

		target.Position = vector.New(0, 10)
		out, err := seek.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Components()).To(Equal([]float64{0, 2}))
		Expect(seek.Target()).To(BeIdenticalTo(kinematic.Positioner(target)))
	})
})

var _ = Describe("Flee", func() {
	It("accelerates directly away from the target", func() {
		m := mover(-30, -50, 8, 1.5)
		out, err := steering.NewFlee(kinematic.NewTarget(vector.New(0, -50))).Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Components()).To(Equal([]float64{-1.5, 0}))
	})
})

var _ = Describe("Arrive", func() {
	var target *kinematic.Target

	BeforeEach(func() {
		target = kinematic.NewTarget(vector.New(0, 0))
	})

	It("rejects unusable parameters", func() {
		_, err := steering.NewArrive(target, 4, 32, 0)
		Expect(err).To(MatchError(steering.ErrInvalidParameter))
		_, err = steering.NewArrive(target, 4, 0, 1)
		Expect(err).To(MatchError(steering.ErrInvalidParameter))
		_, err = steering.NewArrive(target, -1, 32, 1)
		Expect(err).To(MatchError(steering.ErrInvalidParameter))
	})

	It("requests nothing inside the target radius regardless of velocity", func() {
		a, err := steering.NewArrive(target, 4, 32, 1)
		Expect(err).NotTo(HaveOccurred())

		m := mover(3, 0, 10, 2)
		m.Velocity = vector.New(-9, 4)
		out, err := a.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Components()).To(Equal([]float64{0, 0}))
	})

	It("targets full speed exactly at the slow radius", func() {
		a, err := steering.NewArrive(target, 4, 32, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.TargetSpeed(10, 32)).To(Equal(10.0))
		Expect(a.TargetSpeed(10, 16)).To(Equal(5.0))
		Expect(a.TargetSpeed(10, 50)).To(Equal(10.0))

		m := mover(32, 0, 10, 20)
		out, err := a.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Components()).To(Equal([]float64{-10, 0}))
	})

	It("clamps to the maximum acceleration", func() {
		a, err := steering.NewArrive(target, 4, 32, 1)
		Expect(err).NotTo(HaveOccurred())

		m := mover(50, 75, 10, 2)
		m.Velocity = vector.New(-9, 4)
		out, err := a.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Linear.Magnitude()).To(BeNumerically("~", 2, 1e-12))
	})

	It("slows the character down near the target", func() {
		a, err := steering.NewArrive(target, 4, 32, 1)
		Expect(err).NotTo(HaveOccurred())

		m := mover(50, 0, 10, 2)
		m.SetBehavior(a)
		for i := 0; i < 200; i++ {
			Expect(m.Tick(0.5)).To(Succeed())
		}
		Expect(m.Position.Magnitude()).To(BeNumerically("<", 8))
		Expect(m.Speed()).To(BeNumerically("<", 2))
	})
})

var _ = Describe("FollowPath", func() {
	var path *geometry.Path

	BeforeEach(func() {
		var err error
		path, err = geometry.NewPath(vector.New(0, 0), vector.New(100, 0))
		Expect(err).NotTo(HaveOccurred())
	})

	It("steers toward a point ahead of the character", func() {
		f := steering.NewFollowPath(path, 0.1)
		m := mover(50, 0, 4, 2)

		out, err := f.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Param()).To(BeNumerically("~", 0.6, 1e-12))
		Expect(f.Target().Position.X()).To(BeNumerically(">", 50))
		Expect(f.Target().Position.X()).To(BeNumerically("~", 60, 1e-9))
		Expect(out.Linear.X()).To(BeNumerically("~", 2, 1e-12))
		Expect(out.Linear.Y()).To(BeNumerically("~", 0, 1e-12))
	})

	It("re-derives progress from the character's position every call", func() {
		f := steering.NewFollowPath(path, 0.1)
		m := mover(80, 5, 4, 2)

		_, err := f.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Param()).To(BeNumerically("~", 0.9, 1e-12))

		m.Position = vector.New(20, -5)
		_, err = f.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Param()).To(BeNumerically("~", 0.3, 1e-12))
	})

	It("reports the projected closest point keyed by its own clock", func() {
		points := &pointLog{}
		f := steering.NewFollowPath(path, 0.1).WithPoints(points)
		m := mover(30, 7, 4, 2)

		_, err := f.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())
		_, err = f.Steer(m, 0.5)
		Expect(err).NotTo(HaveOccurred())

		Expect(points.times).To(Equal([]float64{0, 0.5}))
		Expect(points.xs).To(Equal([]float64{30, 30}))
		Expect(points.ys).To(Equal([]float64{0, 0}))
	})

	It("stays near a zigzag path over a long run", func() {
		zigzag, err := geometry.NewPath(
			vector.New(0, 90), vector.New(-20, 65), vector.New(20, 40), vector.New(-40, 15),
			vector.New(40, -10), vector.New(-60, -35), vector.New(60, -60), vector.New(0, -85),
		)
		Expect(err).NotTo(HaveOccurred())

		m := mover(20, 95, 4, 2)
		m.SetBehavior(steering.NewFollowPath(zigzag, 0.04))
		for i := 0; i < 250; i++ {
			Expect(m.Tick(0.5)).To(Succeed())
			_, closest, err := zigzag.Param(m.Position)
			Expect(err).NotTo(HaveOccurred())
			d, _ := closest.Distance(m.Position)
			Expect(d).To(BeNumerically("<", 30))
		}
	})
})
