package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/contact"
	"github.com/san-kum/bipedsim/internal/control"
	"github.com/san-kum/bipedsim/internal/engine"
)

// Lifecycle creates the simulation resources, hands the frame driver to a
// run loop and releases everything in reverse order.
type Lifecycle struct {
	ctx      *Context
	opts     Options
	driver   *FrameDriver
	renderer engine.Renderer
	logger   *log.Logger
}

// Start initializes eng, builds the world and the robot and wires the
// frame driver. On error every resource created so far is released.
func Start(eng engine.Engine, builder engine.ModelBuilder, renderer engine.Renderer, opts Options) (*Lifecycle, error) {
	if !(opts.Dt > 0) {
		return nil, fmt.Errorf("%w: got %g", biped.ErrInvalidTimestep, opts.Dt)
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := &Lifecycle{
		ctx:      &Context{Engine: eng},
		opts:     opts,
		renderer: renderer,
		logger:   logger,
	}
	if err := l.build(builder); err != nil {
		l.Close()
		return nil, err
	}
	logger.Debug("simulation started", "dt", opts.Dt, "joints", len(l.ctx.Joints))
	return l, nil
}

func (l *Lifecycle) build(builder engine.ModelBuilder) error {
	c := l.ctx
	if err := c.Engine.Init(); err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	c.initialized = true

	c.World = c.Engine.NewWorld()
	c.Space = c.Engine.NewSpace()
	c.Group = c.Engine.NewContactGroup(l.opts.MaxGroupContacts)

	c.World.SetGravity(l.opts.Gravity)
	c.World.SetERP(l.opts.ERP)
	c.World.SetCFM(l.opts.CFM)
	c.Ground = c.Space.NewPlane(mgl64.Vec3{0, 0, 1}, 0)

	joints, err := builder.CreateRobot(c.World, c.Space)
	if err != nil {
		return fmt.Errorf("create robot: %w", err)
	}
	if err := joints.Validate(); err != nil {
		return fmt.Errorf("create robot: %w", err)
	}
	c.Joints = joints

	acts, err := biped.NewActuators(l.opts.K1, l.opts.FMax)
	if err != nil {
		return err
	}
	if l.opts.Pose != nil {
		if err := acts.SetTargets(l.opts.Pose); err != nil {
			return err
		}
	}
	for i, row := range l.opts.Trajectory {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("trajectory row %d: %w", i, err)
		}
	}
	c.Actuators = acts

	servo, err := control.NewVelocityServo(acts, joints)
	if err != nil {
		return err
	}
	cls := contact.NewClassifier(c.Ground, &c.SelfCollision, l.opts.Contact)
	l.driver = newFrameDriver(c, servo, cls, l.renderer, l.opts.Dt, l.logger)
	l.driver.trajectory = l.opts.Trajectory
	return nil
}

// Run hands control to loop until it returns. The loop's start callback
// sets the viewpoint; its step callback is the frame driver's Tick.
func (l *Lifecycle) Run(ctx context.Context, loop engine.RunLoop) error {
	if !l.ctx.Valid() {
		return biped.ErrClosed
	}
	start := func() { l.renderer.SetViewpoint(l.opts.ViewXYZ, l.opts.ViewHPR) }
	err := loop.Run(ctx, start, l.driver.Tick)
	l.logger.Debug("run loop finished", "steps", l.driver.Steps(), "err", err)
	return err
}

// Close releases contact group, space, world and engine, in that order.
// It is idempotent.
func (l *Lifecycle) Close() {
	if l.ctx.Valid() || l.ctx.initialized {
		l.logger.Debug("releasing simulation resources")
	}
	l.ctx.release()
}

func (l *Lifecycle) Context() *Context { return l.ctx }

func (l *Lifecycle) Driver() *FrameDriver { return l.driver }

func (l *Lifecycle) Options() Options { return l.opts }

// Run is the whole process in one call: start, run the loop, close.
func Run(ctx context.Context, eng engine.Engine, builder engine.ModelBuilder, renderer engine.Renderer, loop engine.RunLoop, opts Options, observers ...Observer) (*Result, error) {
	l, err := Start(eng, builder, renderer, opts)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	for _, o := range observers {
		l.Driver().AddObserver(o)
	}
	runErr := l.Run(ctx, loop)
	return l.Driver().Result(), runErr
}
