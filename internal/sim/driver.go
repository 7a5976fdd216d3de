package sim

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/contact"
	"github.com/san-kum/bipedsim/internal/control"
	"github.com/san-kum/bipedsim/internal/engine"
)

// Observer sees every frame after it was rendered.
type Observer interface {
	OnFrame(s biped.Snapshot)
}

// Metric is an observer that reduces a run to one number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// FrameDriver runs one tick per call to Tick.
type FrameDriver struct {
	ctx        *Context
	servo      *control.VelocityServo
	cls        *contact.Classifier
	disp       *contact.Dispatcher
	renderer   engine.Renderer
	observers  []Observer
	trajectory biped.Trajectory
	logger     *log.Logger

	dt    float64
	mode  biped.Mode
	steps int
}

func newFrameDriver(c *Context, servo *control.VelocityServo, cls *contact.Classifier, r engine.Renderer, dt float64, logger *log.Logger) *FrameDriver {
	return &FrameDriver{
		ctx:      c,
		servo:    servo,
		cls:      cls,
		disp:     contact.NewDispatcher(cls, c.World, c.Group),
		renderer: r,
		logger:   logger,
		dt:       dt,
		mode:     biped.Running,
	}
}

func (d *FrameDriver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// TogglePause flips between running and paused.
func (d *FrameDriver) TogglePause() {
	if d.mode == biped.Running {
		d.mode = biped.Paused
	} else {
		d.mode = biped.Running
	}
}

func (d *FrameDriver) Mode() biped.Mode { return d.mode }

func (d *FrameDriver) Steps() int { return d.steps }

// SimTime is the simulated time, steps times the fixed step.
func (d *FrameDriver) SimTime() float64 { return float64(d.steps) * d.dt }

func (d *FrameDriver) Servo() *control.VelocityServo { return d.servo }

func (d *FrameDriver) Classifier() *contact.Classifier { return d.cls }

// Tick runs one frame. Ticking a closed simulation panics.
func (d *FrameDriver) Tick() {
	if !d.ctx.Valid() {
		panic("bipedsim: tick on a closed simulation")
	}

	if row, ok := d.trajectory.At(d.steps); ok {
		// rows were validated in Start
		if err := d.ctx.Actuators.SetTargets(row); err != nil {
			panic(fmt.Sprintf("bipedsim: trajectory row %d: %v", d.steps%len(d.trajectory), err))
		}
	}
	d.servo.Apply()

	var ground, self int
	if d.mode == biped.Running {
		wasRaised := d.ctx.SelfCollision.Raised()
		d.cls.SetStep(d.steps)
		d.ctx.Space.Collide(d.disp)
		d.ctx.World.Step(d.dt)
		d.ctx.Group.Empty()
		d.steps++
		ground, self = d.disp.ResetTick()
		if !wasRaised && d.ctx.SelfCollision.Raised() {
			d.logger.Warn("self collision detected", "step", d.ctx.SelfCollision.FirstStep())
		}
	}

	snap := d.snapshot(ground, self)
	d.renderer.DrawRobot(snap)
	for _, o := range d.observers {
		o.OnFrame(snap)
	}
}

func (d *FrameDriver) snapshot(ground, self int) biped.Snapshot {
	return biped.Snapshot{
		Step:           d.steps,
		Time:           d.SimTime(),
		Mode:           d.mode,
		Angles:         d.servo.Angles(),
		Targets:        d.ctx.Actuators.Targets(),
		Commands:       d.servo.Commands(),
		SelfCollision:  d.ctx.SelfCollision.Raised(),
		GroundContacts: ground,
		SelfContacts:   self,
	}
}

// Result summarises the run so far.
type Result struct {
	Steps              int
	SimTime            float64
	SelfCollision      bool
	FirstSelfCollision int
	Contacts           contact.Stats
	Metrics            map[string]float64
}

func (d *FrameDriver) Result() *Result {
	r := &Result{
		Steps:              d.steps,
		SimTime:            d.SimTime(),
		SelfCollision:      d.ctx.SelfCollision.Raised(),
		FirstSelfCollision: d.ctx.SelfCollision.FirstStep(),
		Contacts:           d.cls.Stats(),
		Metrics:            make(map[string]float64),
	}
	for _, o := range d.observers {
		if m, ok := o.(Metric); ok {
			r.Metrics[m.Name()] = m.Value()
		}
	}
	return r
}

// NopRenderer draws nothing.
type NopRenderer struct{}

func (NopRenderer) SetViewpoint(xyz, hpr mgl64.Vec3) {}
func (NopRenderer) DrawRobot(biped.Snapshot)        {}
