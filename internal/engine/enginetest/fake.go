// Package enginetest provides a recording in-memory engine for tests.
//
// The fake performs no physics beyond integrating commanded hinge
// velocities on Step. Collision pairs and their narrowphase results are
// scripted by the test through [Space.AddGeom] and [Geom.TouchWith].
package enginetest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

// Engine records every lifecycle call in Log.
type Engine struct {
	Log         []string
	InitErr     error
	initialized bool
	live        int

	Worlds []*World
	Spaces []*Space
	Groups []*Group
}

func New() *Engine { return &Engine{} }

func (e *Engine) record(format string, args ...any) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}

func (e *Engine) Init() error {
	e.record("init")
	if e.InitErr != nil {
		return e.InitErr
	}
	e.initialized = true
	return nil
}

func (e *Engine) Close() {
	e.record("close")
	e.initialized = false
}

// Live is the number of created and not yet destroyed objects.
func (e *Engine) Live() int { return e.live }

func (e *Engine) Initialized() bool { return e.initialized }

func (e *Engine) NewWorld() engine.World {
	e.record("world.create")
	w := &World{eng: e, Gravity: mgl64.Vec3{}}
	e.Worlds = append(e.Worlds, w)
	e.live++
	return w
}

func (e *Engine) NewSpace() engine.Space {
	e.record("space.create")
	s := &Space{eng: e}
	e.Spaces = append(e.Spaces, s)
	e.live++
	return s
}

func (e *Engine) NewContactGroup(maxContacts int) engine.ContactGroup {
	e.record("group.create")
	g := &Group{eng: e, Max: maxContacts}
	e.Groups = append(e.Groups, g)
	e.live++
	return g
}

type World struct {
	eng       *Engine
	Gravity   mgl64.Vec3
	ERP, CFM  float64
	Steps     int
	Time      float64
	Hinges    []*Hinge
	Attached  []engine.Contact
	destroyed bool
}

func (w *World) check() {
	if w.destroyed {
		panic("enginetest: world used after destroy")
	}
}

func (w *World) SetGravity(g mgl64.Vec3) { w.check(); w.Gravity = g }
func (w *World) SetERP(erp float64)      { w.check(); w.ERP = erp }
func (w *World) SetCFM(cfm float64)      { w.check(); w.CFM = cfm }

// Step moves every hinge by its commanded velocity.
func (w *World) Step(dt float64) {
	w.check()
	for _, h := range w.Hinges {
		h.angle += h.params[engine.ParamVel] * dt
	}
	w.Steps++
	w.Time += dt
}

func (w *World) AttachContact(group engine.ContactGroup, c engine.Contact) {
	w.check()
	g := group.(*Group)
	g.check()
	g.Contacts = append(g.Contacts, c)
	w.Attached = append(w.Attached, c)
}

func (w *World) Destroy() {
	w.check()
	w.eng.record("world.destroy")
	w.destroyed = true
	w.eng.live--
}

func (w *World) Destroyed() bool { return w.destroyed }

// NewHinge registers a hinge that Step will move.
func (w *World) NewHinge(angle float64) *Hinge {
	h := &Hinge{angle: angle, params: make(map[engine.Param]float64)}
	w.Hinges = append(w.Hinges, h)
	return h
}

type Space struct {
	eng       *Engine
	Geoms     []*Geom
	Collides  int
	destroyed bool
}

func (s *Space) check() {
	if s.destroyed {
		panic("enginetest: space used after destroy")
	}
}

func (s *Space) NewPlane(normal mgl64.Vec3, d float64) engine.Geom {
	s.check()
	g := &Geom{Name: "plane", Normal: normal, D: d, touches: make(map[*Geom]int)}
	s.Geoms = append(s.Geoms, g)
	return g
}

// AddGeom registers a geom attached to body, which may be nil.
func (s *Space) AddGeom(name string, body *Body) *Geom {
	s.check()
	g := &Geom{Name: name, body: body, touches: make(map[*Geom]int)}
	s.Geoms = append(s.Geoms, g)
	return g
}

// Collide reports every unordered pair of geoms once.
func (s *Space) Collide(h engine.PairHandler) {
	s.check()
	s.Collides++
	for i := 0; i < len(s.Geoms); i++ {
		for j := i + 1; j < len(s.Geoms); j++ {
			h.HandlePair(s.Geoms[i], s.Geoms[j])
		}
	}
}

func (s *Space) Destroy() {
	s.check()
	s.eng.record("space.destroy")
	s.destroyed = true
	s.eng.live--
}

func (s *Space) Destroyed() bool { return s.destroyed }

type Group struct {
	eng       *Engine
	Max       int
	Contacts  []engine.Contact
	Empties   int
	destroyed bool
}

func (g *Group) check() {
	if g.destroyed {
		panic("enginetest: contact group used after destroy")
	}
}

func (g *Group) Empty() {
	g.check()
	g.Contacts = g.Contacts[:0]
	g.Empties++
}

func (g *Group) Destroy() {
	g.check()
	g.eng.record("group.destroy")
	g.destroyed = true
	g.eng.live--
}

func (g *Group) Destroyed() bool { return g.destroyed }

type Body struct {
	Name      string
	connected map[*Body]bool
}

func NewBody(name string) *Body {
	return &Body{Name: name, connected: make(map[*Body]bool)}
}

// Join marks a and b as connected by a joint.
func Join(a, b *Body) {
	a.connected[b] = true
	b.connected[a] = true
}

func (b *Body) Connected(other engine.Body) bool {
	o, ok := other.(*Body)
	return ok && b.connected[o]
}

type Geom struct {
	Name    string
	Normal  mgl64.Vec3
	D       float64
	body    *Body
	touches map[*Geom]int
	Queries int
}

// TouchWith scripts the narrowphase: the pair (g, other) yields n points.
func (g *Geom) TouchWith(other *Geom, n int) {
	g.touches[other] = n
	other.touches[g] = n
}

func (g *Geom) Body() engine.Body {
	if g.body == nil {
		return nil
	}
	return g.body
}

func (g *Geom) Collide(other engine.Geom, maxContacts int) []engine.ContactPoint {
	g.Queries++
	o := other.(*Geom)
	n := g.touches[o]
	if n > maxContacts {
		n = maxContacts
	}
	pts := make([]engine.ContactPoint, n)
	for i := range pts {
		pts[i] = engine.ContactPoint{
			Pos:    mgl64.Vec3{float64(i), 0, 0},
			Normal: mgl64.Vec3{0, 0, 1},
			Depth:  0.001,
			G1:     g,
			G2:     o,
		}
	}
	return pts
}

type Hinge struct {
	angle  float64
	params map[engine.Param]float64
	Sets   int
}

func (h *Hinge) Angle() float64 { return h.angle }

// SetAngle forces the reading returned by Angle.
func (h *Hinge) SetAngle(a float64) { h.angle = a }

func (h *Hinge) SetParam(p engine.Param, v float64) {
	h.params[p] = v
	h.Sets++
}

func (h *Hinge) Param(p engine.Param) float64 { return h.params[p] }

// Builder creates one body and hinge per joint plus one geom per body.
// Consecutive links on a leg are joined; the two feet carry geoms that the
// test can script against the ground.
type Builder struct {
	Err    error
	Joints engine.JointSet
	Hinges map[biped.Key]*Hinge
	Bodies map[biped.Key]*Body
	Geoms  map[biped.Key]*Geom
	Torso  *Body
	Calls  int
}

func (b *Builder) CreateRobot(w engine.World, s engine.Space) (engine.JointSet, error) {
	b.Calls++
	if b.Err != nil {
		return nil, b.Err
	}
	fw := w.(*World)
	fs := s.(*Space)

	b.Joints = make(engine.JointSet)
	b.Hinges = make(map[biped.Key]*Hinge)
	b.Bodies = make(map[biped.Key]*Body)
	b.Geoms = make(map[biped.Key]*Geom)
	b.Torso = NewBody("torso")
	fs.AddGeom("torso", b.Torso)

	for _, side := range biped.Sides() {
		parent := b.Torso
		for i := biped.JointIndex(0); i < biped.JointsPerLeg; i++ {
			k := biped.K(side, i)
			link := NewBody(k.String())
			Join(parent, link)
			h := fw.NewHinge(0)
			b.Joints[k] = h
			b.Hinges[k] = h
			b.Bodies[k] = link
			b.Geoms[k] = fs.AddGeom(k.String(), link)
			parent = link
		}
	}
	return b.Joints, nil
}
