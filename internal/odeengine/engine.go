//go:build ode

package odeengine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ianremmler/ode"
	"github.com/san-kum/bipedsim/internal/engine"
)

type Engine struct {
	initialized bool
}

func New() *Engine { return &Engine{} }

func (e *Engine) Init() error {
	ode.Init(0, ode.AllAFlag)
	e.initialized = true
	return nil
}

func (e *Engine) Close() {
	if !e.initialized {
		return
	}
	ode.Close()
	e.initialized = false
}

func (e *Engine) NewWorld() engine.World {
	w := ode.NewWorld()
	w.SetAutoDisable(false)
	return &World{w: w}
}

func (e *Engine) NewSpace() engine.Space {
	return &Space{s: ode.NilSpace().NewHashSpace(), geoms: make(map[ode.Geom]*Geom)}
}

// NewContactGroup ignores maxContacts; ODE joint groups grow on demand.
func (e *Engine) NewContactGroup(maxContacts int) engine.ContactGroup {
	return &Group{g: ode.NewJointGroup(maxContacts)}
}

type World struct {
	w ode.World
}

func (w *World) SetGravity(g mgl64.Vec3) { w.w.SetGravity(v3(g)) }
func (w *World) SetERP(erp float64)      { w.w.SetERP(erp) }
func (w *World) SetCFM(cfm float64)      { w.w.SetCFM(cfm) }

func (w *World) Step(dt float64) { w.w.Step(dt) }

func (w *World) AttachContact(group engine.ContactGroup, c engine.Contact) {
	g := group.(*Group)
	oc := ode.NewContact()
	oc.Surface.Mode = surfaceMode(c.Surface.Mode)
	oc.Surface.Mu = c.Surface.Mu
	oc.Surface.SoftErp = c.Surface.SoftERP
	oc.Surface.SoftCfm = c.Surface.SoftCFM
	oc.Geom = contactGeom(c.Point)

	j := w.w.NewContactJoint(g.g, oc)
	j.Attach(oc.Geom.G1.Body(), oc.Geom.G2.Body())
}

func (w *World) Destroy() { w.w.Destroy() }

// ODE returns the wrapped world for model construction.
func (w *World) ODE() ode.World { return w.w }

type Group struct {
	g ode.JointGroup
}

func (g *Group) Empty()   { g.g.Empty() }
func (g *Group) Destroy() { g.g.Destroy() }

type Body struct {
	b ode.Body
}

func (b Body) Connected(other engine.Body) bool {
	o, ok := other.(Body)
	return ok && b.b.Connected(o.b)
}

// Position is the center of mass in world coordinates.
func (b Body) Position() mgl64.Vec3 { return vec(b.b.Position()) }

type Hinge struct {
	j ode.HingeJoint
}

func (h *Hinge) Angle() float64 { return h.j.Angle() }

func (h *Hinge) SetParam(p engine.Param, v float64) { h.j.SetParam(jointParam(p), v) }

func (h *Hinge) Param(p engine.Param) float64 { return h.j.Param(jointParam(p)) }

func jointParam(p engine.Param) int {
	if p == engine.ParamFMax {
		return ode.FMaxJtParam
	}
	return ode.VelJtParam
}

func surfaceMode(m engine.SurfaceMode) int {
	var mode int
	if m.Has(engine.SoftERP) {
		mode |= ode.SoftERPCtParam
	}
	if m.Has(engine.SoftCFM) {
		mode |= ode.SoftCFMCtParam
	}
	return mode
}

// contactGeom prefers the native point produced by the narrowphase.
func contactGeom(p engine.ContactPoint) ode.ContactGeom {
	if cg, ok := p.Native.(ode.ContactGeom); ok {
		return cg
	}
	return ode.ContactGeom{
		Pos:    v3(p.Pos),
		Normal: v3(p.Normal),
		Depth:  p.Depth,
		G1:     p.G1.(*Geom).g,
		G2:     p.G2.(*Geom).g,
	}
}

func v3(v mgl64.Vec3) ode.Vector3 { return ode.V3(v[0], v[1], v[2]) }

func vec(v ode.Vector3) mgl64.Vec3 { return mgl64.Vec3{v[0], v[1], v[2]} }
