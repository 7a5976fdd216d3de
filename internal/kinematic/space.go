package kinematic

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/engine"
)

type Space struct {
	geoms []*Geom
	dead  bool
}

func (s *Space) check() {
	if s.dead {
		panic("bipedsim: kinematic space used after destroy")
	}
}

func (s *Space) NewPlane(normal mgl64.Vec3, d float64) engine.Geom {
	s.check()
	g := &Geom{kind: planeShape, normal: normal.Normalize(), d: d}
	s.geoms = append(s.geoms, g)
	return g
}

// NewSphere creates a sphere attached to body at offset in body frame.
func (s *Space) NewSphere(body *Body, radius float64, offset mgl64.Vec3) *Geom {
	s.check()
	g := &Geom{kind: sphereShape, body: body, radius: radius, offset: offset}
	s.geoms = append(s.geoms, g)
	return g
}

// Collide reports every pair with at least one body.
func (s *Space) Collide(h engine.PairHandler) {
	s.check()
	for i := 0; i < len(s.geoms); i++ {
		for j := i + 1; j < len(s.geoms); j++ {
			a, b := s.geoms[i], s.geoms[j]
			if a.body == nil && b.body == nil {
				continue
			}
			h.HandlePair(a, b)
		}
	}
}

func (s *Space) Destroy() {
	s.check()
	s.dead = true
	s.geoms = nil
}

func (s *Space) Len() int { return len(s.geoms) }

type shape int

const (
	planeShape shape = iota
	sphereShape
)

type Geom struct {
	kind   shape
	body   *Body
	radius float64
	offset mgl64.Vec3
	normal mgl64.Vec3
	d      float64
}

func (g *Geom) Body() engine.Body {
	if g.body == nil {
		return nil
	}
	return g.body
}

// Center is the world position of a sphere.
func (g *Geom) Center() mgl64.Vec3 {
	if g.body == nil {
		return g.offset
	}
	return g.body.pos.Add(g.body.rot.Rotate(g.offset))
}

func (g *Geom) Radius() float64 { return g.radius }

func (g *Geom) Collide(other engine.Geom, maxContacts int) []engine.ContactPoint {
	o, ok := other.(*Geom)
	if !ok || maxContacts <= 0 {
		return nil
	}
	switch {
	case g.kind == sphereShape && o.kind == sphereShape:
		return sphereSphere(g, o)
	case g.kind == sphereShape && o.kind == planeShape:
		return spherePlane(g, o, false)
	case g.kind == planeShape && o.kind == sphereShape:
		return spherePlane(o, g, true)
	}
	return nil
}

func sphereSphere(a, b *Geom) []engine.ContactPoint {
	ca, cb := a.Center(), b.Center()
	d := cb.Sub(ca)
	dist := d.Len()
	depth := a.radius + b.radius - dist
	if depth <= 0 {
		return nil
	}
	n := mgl64.Vec3{0, 0, 1}
	if dist > 0 {
		n = d.Mul(1 / dist)
	}
	return []engine.ContactPoint{{
		Pos:    ca.Add(n.Mul(a.radius - depth/2)),
		Normal: n,
		Depth:  depth,
		G1:     a,
		G2:     b,
	}}
}

// spherePlane keeps the caller's geom order in the contact.
func spherePlane(s, p *Geom, planeFirst bool) []engine.ContactPoint {
	c := s.Center()
	depth := s.radius - (p.normal.Dot(c) - p.d)
	if depth <= 0 {
		return nil
	}
	pt := engine.ContactPoint{
		Pos:    c.Sub(p.normal.Mul(s.radius - depth)),
		Normal: p.normal,
		Depth:  depth,
		G1:     s,
		G2:     p,
	}
	if planeFirst {
		pt.G1, pt.G2 = p, s
	}
	return []engine.ContactPoint{pt}
}

// Body is a rigid link posed by forward kinematics.
type Body struct {
	name      string
	pos       mgl64.Vec3
	rot       mgl64.Quat
	connected map[*Body]bool
}

func NewBody(name string) *Body {
	return &Body{name: name, rot: mgl64.QuatIdent(), connected: make(map[*Body]bool)}
}

func (b *Body) Name() string { return b.name }

func (b *Body) Position() mgl64.Vec3 { return b.pos }

func (b *Body) Rotation() mgl64.Quat { return b.rot }

func (b *Body) Connected(other engine.Body) bool {
	o, ok := other.(*Body)
	return ok && b.connected[o]
}

func join(a, b *Body) {
	a.connected[b] = true
	b.connected[a] = true
}
