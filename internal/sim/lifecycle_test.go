package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
	"github.com/san-kum/bipedsim/internal/engine/enginetest"
	"github.com/san-kum/bipedsim/internal/sim"
)

var orderedLifecycle = []string{
	"init",
	"world.create",
	"space.create",
	"group.create",
	"group.destroy",
	"space.destroy",
	"world.destroy",
	"close",
}

type partialBuilder struct{}

func (partialBuilder) CreateRobot(w engine.World, s engine.Space) (engine.JointSet, error) {
	return engine.JointSet{biped.K(biped.Right, biped.HipYaw): w.(*enginetest.World).NewHinge(0)}, nil
}

var _ = Describe("Lifecycle", func() {
	var eng *enginetest.Engine

	BeforeEach(func() {
		eng = enginetest.New()
	})

	It("configures the world constants and the ground plane", func() {
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		defer life.Close()

		w := eng.Worlds[0]
		Expect(w.Gravity).To(Equal(mgl64.Vec3{0, 0, -9.8}))
		Expect(w.ERP).To(Equal(0.95))
		Expect(w.CFM).To(Equal(1e-5))

		plane := eng.Spaces[0].Geoms[0]
		Expect(plane.Name).To(Equal("plane"))
		Expect(plane.Normal).To(Equal(mgl64.Vec3{0, 0, 1}))
		Expect(plane.Body()).To(BeNil())
		Expect(life.Context().Ground).To(BeIdenticalTo(engine.Geom(plane)))
	})

	It("creates one actuator per joint with a zero target", func() {
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		defer life.Close()

		acts := life.Context().Actuators
		Expect(acts.Len()).To(Equal(12))
		Expect(acts.Validate()).To(Succeed())
		for _, deg := range acts.Targets() {
			Expect(deg).To(BeZero())
		}
	})

	It("releases resources in reverse order", func() {
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		life.Close()

		Expect(eng.Log).To(Equal(orderedLifecycle))
		Expect(eng.Groups[0].Destroyed()).To(BeTrue())
		Expect(eng.Spaces[0].Destroyed()).To(BeTrue())
		Expect(eng.Worlds[0].Destroyed()).To(BeTrue())
		Expect(life.Context().Valid()).To(BeFalse())
		Expect(eng.Live()).To(BeZero())
	})

	It("is idempotent on close", func() {
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		life.Close()
		life.Close()
		Expect(eng.Log).To(Equal(orderedLifecycle))
	})

	It("can be started and closed twice without residue", func() {
		for i := 0; i < 2; i++ {
			life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(life.Context().Valid()).To(BeTrue())
			life.Close()
			Expect(eng.Live()).To(BeZero())
			Expect(eng.Initialized()).To(BeFalse())
		}
		Expect(eng.Log).To(Equal(append(append([]string{}, orderedLifecycle...), orderedLifecycle...)))
	})

	It("refuses to run after close", func() {
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		life.Close()
		Expect(life.Run(context.Background(), &sim.FixedLoop{Ticks: 1})).To(MatchError(biped.ErrClosed))
	})

	It("sets the viewpoint from the loop's start callback", func() {
		r := &recordingRenderer{}
		life, err := sim.Start(eng, &enginetest.Builder{}, r, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		defer life.Close()

		Expect(life.Run(context.Background(), &sim.FixedLoop{Ticks: 3})).To(Succeed())
		Expect(r.starts).To(Equal(1))
		Expect(r.xyz).To(Equal(mgl64.Vec3{1.8, 0, 0.8}))
		Expect(r.hpr).To(Equal(mgl64.Vec3{180, 0, 0}))
		Expect(r.frames).To(HaveLen(3))
	})

	Context("when start fails", func() {
		It("releases everything after a builder error", func() {
			boom := errors.New("boom")
			_, err := sim.Start(eng, &enginetest.Builder{Err: boom}, nil, sim.DefaultOptions())
			Expect(err).To(MatchError(boom))
			Expect(eng.Log).To(Equal(orderedLifecycle))
			Expect(eng.Live()).To(BeZero())
		})

		It("rejects a robot with missing joints", func() {
			_, err := sim.Start(eng, partialBuilder{}, nil, sim.DefaultOptions())
			Expect(err).To(MatchError(biped.ErrMissingJoint))
			Expect(eng.Live()).To(BeZero())
		})

		It("does not close an engine that failed to initialize", func() {
			eng.InitErr = errors.New("no engine")
			_, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
			Expect(err).To(MatchError(eng.InitErr))
			Expect(eng.Log).To(Equal([]string{"init"}))
		})

		It("rejects a non-positive timestep before touching the engine", func() {
			opts := sim.DefaultOptions()
			opts.Dt = 0
			_, err := sim.Start(eng, &enginetest.Builder{}, nil, opts)
			Expect(err).To(MatchError(biped.ErrInvalidTimestep))
			Expect(eng.Log).To(BeEmpty())
		})

		It("rejects invalid gains", func() {
			opts := sim.DefaultOptions()
			opts.K1 = -1
			_, err := sim.Start(eng, &enginetest.Builder{}, nil, opts)
			Expect(err).To(MatchError(biped.ErrInvalidGain))
			Expect(eng.Live()).To(BeZero())
		})
	})
})
