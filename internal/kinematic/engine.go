package kinematic

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/engine"
)

// DefaultInertia is the rotational inertia of every hinge, kg m^2.
const DefaultInertia = 0.05

type Engine struct {
	initialized bool
}

func New() *Engine { return &Engine{} }

func (e *Engine) Init() error {
	e.initialized = true
	return nil
}

func (e *Engine) Close() { e.initialized = false }

func (e *Engine) NewWorld() engine.World { return &World{} }

func (e *Engine) NewSpace() engine.Space { return &Space{} }

func (e *Engine) NewContactGroup(maxContacts int) engine.ContactGroup {
	return &Group{max: maxContacts}
}

type World struct {
	gravity  mgl64.Vec3
	erp, cfm float64
	time     float64
	hinges   []*Hinge
	chains   []*chain
	dead     bool
}

func (w *World) check() {
	if w.dead {
		panic("bipedsim: kinematic world used after destroy")
	}
}

func (w *World) SetGravity(g mgl64.Vec3) { w.check(); w.gravity = g }
func (w *World) SetERP(erp float64)      { w.check(); w.erp = erp }
func (w *World) SetCFM(cfm float64)      { w.check(); w.cfm = cfm }

func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

func (w *World) Time() float64 { return w.time }

// Step advances every hinge, then re-poses the bodies.
func (w *World) Step(dt float64) {
	w.check()
	for _, h := range w.hinges {
		h.advance(dt)
	}
	for _, c := range w.chains {
		c.pose()
	}
	w.time += dt
}

// AttachContact stores c in the group. Nothing resolves it.
func (w *World) AttachContact(group engine.ContactGroup, c engine.Contact) {
	w.check()
	g := group.(*Group)
	if g.max > 0 && len(g.contacts) >= g.max {
		return
	}
	g.contacts = append(g.contacts, c)
	g.total++
}

func (w *World) Destroy() {
	w.check()
	w.dead = true
	w.hinges = nil
	w.chains = nil
}

// NewHinge creates a free hinge at angle 0.
func (w *World) NewHinge() *Hinge {
	w.check()
	h := &Hinge{inertia: DefaultInertia}
	w.hinges = append(w.hinges, h)
	return h
}

type Group struct {
	max      int
	contacts []engine.Contact
	total    int
	dead     bool
}

func (g *Group) Empty() {
	if g.dead {
		panic("bipedsim: kinematic contact group used after destroy")
	}
	g.contacts = g.contacts[:0]
}

func (g *Group) Destroy() {
	g.dead = true
	g.contacts = nil
}

// Len is the number of contacts currently held.
func (g *Group) Len() int { return len(g.contacts) }

// Total counts every contact ever attached.
func (g *Group) Total() int { return g.total }

// Hinge is a velocity-servoed revolute joint.
type Hinge struct {
	angle   float64
	vel     float64
	cmdVel  float64
	fMax    float64
	inertia float64
}

func (h *Hinge) Angle() float64 { return h.angle }

// Rate is the current angular velocity.
func (h *Hinge) Rate() float64 { return h.vel }

func (h *Hinge) SetParam(p engine.Param, v float64) {
	switch p {
	case engine.ParamVel:
		h.cmdVel = v
	case engine.ParamFMax:
		h.fMax = v
	}
}

func (h *Hinge) Param(p engine.Param) float64 {
	switch p {
	case engine.ParamVel:
		return h.cmdVel
	case engine.ParamFMax:
		return h.fMax
	}
	return 0
}

// advance moves the joint rate toward the command, limited by fMax, then
// integrates the angle. A zero force cap leaves the joint free.
func (h *Hinge) advance(dt float64) {
	dv := h.cmdVel - h.vel
	limit := h.fMax / h.inertia * dt
	if dv > limit {
		dv = limit
	} else if dv < -limit {
		dv = -limit
	}
	h.vel += dv
	h.angle += h.vel * dt
}
