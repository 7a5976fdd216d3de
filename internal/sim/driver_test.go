package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
	"github.com/san-kum/bipedsim/internal/engine/enginetest"
	"github.com/san-kum/bipedsim/internal/sim"
)

var _ = Describe("FrameDriver", func() {
	var (
		eng      *enginetest.Engine
		builder  *enginetest.Builder
		renderer *recordingRenderer
		life     *sim.Lifecycle
		driver   *sim.FrameDriver
	)

	start := func(opts sim.Options) {
		var err error
		life, err = sim.Start(eng, builder, renderer, opts)
		Expect(err).NotTo(HaveOccurred())
		driver = life.Driver()
	}

	BeforeEach(func() {
		eng = enginetest.New()
		builder = &enginetest.Builder{}
		renderer = &recordingRenderer{}
		start(sim.DefaultOptions())
	})

	AfterEach(func() {
		life.Close()
	})

	world := func() *enginetest.World { return eng.Worlds[0] }
	space := func() *enginetest.Space { return eng.Spaces[0] }
	group := func() *enginetest.Group { return eng.Groups[0] }

	It("starts running with no steps", func() {
		Expect(driver.Mode()).To(Equal(biped.Running))
		Expect(driver.Steps()).To(BeZero())
	})

	It("collides, steps and clears once per running tick", func() {
		for i := 0; i < 5; i++ {
			driver.Tick()
		}
		Expect(driver.Steps()).To(Equal(5))
		Expect(space().Collides).To(Equal(5))
		Expect(world().Steps).To(Equal(5))
		Expect(world().Time).To(BeNumerically("~", 0.05, 1e-12))
		Expect(group().Empties).To(Equal(5))
		Expect(driver.SimTime()).To(BeNumerically("~", 0.05, 1e-12))
		Expect(renderer.frames).To(HaveLen(5))
	})

	It("toggles between running and paused", func() {
		driver.TogglePause()
		Expect(driver.Mode()).To(Equal(biped.Paused))
		driver.TogglePause()
		Expect(driver.Mode()).To(Equal(biped.Running))
	})

	It("keeps controlling and rendering while paused", func() {
		k := biped.K(biped.Right, biped.KneePitch)
		Expect(life.Context().Actuators.SetTarget(k, 45)).To(Succeed())
		driver.TogglePause()

		driver.Tick()

		Expect(builder.Hinges[k].Param(engine.ParamVel)).To(BeNumerically("~", 10*math.Pi/4, 1e-9))
		Expect(renderer.frames).To(HaveLen(1))
		Expect(renderer.frames[0].Mode).To(Equal(biped.Paused))
		Expect(space().Collides).To(BeZero())
		Expect(world().Steps).To(BeZero())
		Expect(group().Empties).To(BeZero())
	})

	DescribeTable("freezes the engine across paused ticks",
		func(n int) {
			k := biped.K(biped.Left, biped.HipPitch)
			Expect(life.Context().Actuators.SetTarget(k, -30)).To(Succeed())
			driver.Tick()
			before := builder.Hinges[k].Angle()
			steps := driver.Steps()

			driver.TogglePause()
			for i := 0; i < n; i++ {
				driver.Tick()
			}

			Expect(driver.Steps()).To(Equal(steps))
			Expect(builder.Hinges[k].Angle()).To(Equal(before))
		},
		Entry("zero ticks", 0),
		Entry("one tick", 1),
		Entry("many ticks", 250),
	)

	It("resumes stepping after unpausing", func() {
		driver.TogglePause()
		driver.Tick()
		driver.TogglePause()
		driver.Tick()
		Expect(driver.Steps()).To(Equal(1))
	})

	It("moves hinges toward their targets", func() {
		k := biped.K(biped.Right, biped.HipRoll)
		Expect(life.Context().Actuators.SetTarget(k, 10)).To(Succeed())
		for i := 0; i < 200; i++ {
			driver.Tick()
		}
		Expect(builder.Hinges[k].Angle()).To(BeNumerically("~", 10*math.Pi/180, 1e-4))
	})

	It("hands ground contacts to the contact group and reports them", func() {
		foot := builder.Geoms[biped.K(biped.Left, biped.AnkleRoll)]
		ground := space().Geoms[0]
		foot.TouchWith(ground, 4)

		driver.Tick()

		Expect(world().Attached).To(HaveLen(4))
		Expect(group().Contacts).To(BeEmpty(), "group is emptied after the step")
		Expect(renderer.frames[0].GroundContacts).To(Equal(4))
		Expect(renderer.frames[0].SelfCollision).To(BeFalse())
	})

	It("latches the self-collision flag", func() {
		a := builder.Geoms[biped.K(biped.Left, biped.AnkleRoll)]
		b := builder.Geoms[biped.K(biped.Right, biped.AnkleRoll)]
		a.TouchWith(b, 2)

		driver.Tick()
		Expect(life.Context().SelfCollision.Raised()).To(BeTrue())
		Expect(renderer.frames[0].SelfContacts).To(Equal(1))

		a.TouchWith(b, 0)
		for i := 0; i < 10; i++ {
			driver.Tick()
		}
		Expect(life.Context().SelfCollision.Raised()).To(BeTrue())
		Expect(renderer.frames[10].SelfCollision).To(BeTrue())
		Expect(driver.Result().FirstSelfCollision).To(Equal(0))
	})

	It("never creates contacts for jointed links", func() {
		thigh := builder.Geoms[biped.K(biped.Right, biped.HipPitch)]
		shin := builder.Geoms[biped.K(biped.Right, biped.KneePitch)]
		thigh.TouchWith(shin, 8)

		driver.Tick()

		Expect(world().Attached).To(BeEmpty())
		Expect(life.Context().SelfCollision.Raised()).To(BeFalse())
		Expect(driver.Result().Contacts.Jointed).To(BeNumerically(">", 0))
	})

	It("applies trajectory rows by step", func() {
		life.Close()
		eng = enginetest.New()
		builder = &enginetest.Builder{}
		k := biped.K(biped.Right, biped.AnklePitch)
		opts := sim.DefaultOptions()
		opts.Trajectory = biped.Trajectory{{k: 5}, {k: 15}}
		start(opts)

		driver.Tick()
		Expect(renderer.frames[len(renderer.frames)-1].Targets[k]).To(Equal(5.0))
		driver.Tick()
		Expect(renderer.frames[len(renderer.frames)-1].Targets[k]).To(Equal(15.0))
		driver.Tick()
		Expect(renderer.frames[len(renderer.frames)-1].Targets[k]).To(Equal(5.0))
	})

	It("panics when a trajectory row turns invalid after start", func() {
		life.Close()
		eng = enginetest.New()
		builder = &enginetest.Builder{}
		k := biped.K(biped.Left, biped.KneePitch)
		opts := sim.DefaultOptions()
		opts.Trajectory = biped.Trajectory{{k: 5}}
		start(opts)

		opts.Trajectory[0][k] = math.NaN()
		Expect(driver.Tick).To(PanicWith(ContainSubstring("bipedsim: trajectory row 0")))
	})

	It("feeds observers and collects metrics", func() {
		m := &countingMetric{}
		driver.AddObserver(m)
		for i := 0; i < 3; i++ {
			driver.Tick()
		}
		Expect(driver.Result().Metrics).To(HaveKeyWithValue("frames", 3.0))
	})

	It("panics when ticking a closed simulation", func() {
		life.Close()
		Expect(driver.Tick).To(Panic())
	})
})

var _ = Describe("End to end", func() {
	It("runs the canonical pose for 600 unpaused ticks", func() {
		eng := enginetest.New()
		opts := sim.DefaultOptions()
		opts.Pose = biped.ZeroPose()
		Expect(opts.Gravity).To(Equal(mgl64.Vec3{0, 0, -9.8}))

		res, err := sim.Run(context.Background(), eng, &enginetest.Builder{}, nil, &sim.FixedLoop{Ticks: 600}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(Equal(600))
		Expect(res.SimTime).To(BeNumerically("~", 6.0, 1e-9))
		Expect(res.SelfCollision).To(BeFalse())
		Expect(res.FirstSelfCollision).To(Equal(-1))
		Expect(eng.Live()).To(BeZero())
	})

	It("counts only running ticks when the loop pauses", func() {
		eng := enginetest.New()
		life, err := sim.Start(eng, &enginetest.Builder{}, nil, sim.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		defer life.Close()

		loop := &sim.FixedLoop{Ticks: 100, PauseAt: []int{20, 50}, Toggle: life.Driver().TogglePause}
		Expect(life.Run(context.Background(), loop)).To(Succeed())
		Expect(life.Driver().Steps()).To(Equal(70))
		Expect(life.Driver().Mode()).To(Equal(biped.Running))
	})

	It("stops when the context is cancelled", func() {
		eng := enginetest.New()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := sim.Run(ctx, eng, &enginetest.Builder{}, nil, &sim.FixedLoop{Ticks: 10}, sim.DefaultOptions())
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Steps).To(BeZero())
		Expect(eng.Live()).To(BeZero())
	})
})
