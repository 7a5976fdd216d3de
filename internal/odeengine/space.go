//go:build ode

package odeengine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ianremmler/ode"
	"github.com/san-kum/bipedsim/internal/engine"
)

type Space struct {
	s     ode.HashSpace
	geoms map[ode.Geom]*Geom
}

func (s *Space) add(g ode.Geom) *Geom {
	w := &Geom{g: g}
	s.geoms[g] = w
	return w
}

// wrap finds the adapter created for g. Geoms created outside this space
// get a fresh one.
func (s *Space) wrap(g ode.Geom) *Geom {
	if w, ok := s.geoms[g]; ok {
		return w
	}
	return &Geom{g: g}
}

func (s *Space) NewPlane(normal mgl64.Vec3, d float64) engine.Geom {
	n := normal.Normalize()
	return s.add(s.s.NewPlane(ode.V4(n[0], n[1], n[2], d)))
}

func (s *Space) newBox(size mgl64.Vec3) *Geom { return s.add(s.s.NewBox(v3(size))) }

func (s *Space) newCapsule(radius, length float64) *Geom {
	return s.add(s.s.NewCapsule(radius, length))
}

func (s *Space) Collide(h engine.PairHandler) {
	s.s.Collide(nil, func(_ interface{}, o1, o2 ode.Geom) {
		h.HandlePair(s.wrap(o1), s.wrap(o2))
	})
}

func (s *Space) Destroy() {
	s.s.Destroy()
	s.geoms = nil
}

type Geom struct {
	g ode.Geom
}

func (g *Geom) Body() engine.Body {
	b := g.g.Body()
	if b == 0 {
		return nil
	}
	return Body{b: b}
}

// Collide runs dCollide. The points keep the argument order: G1 is g.
func (g *Geom) Collide(other engine.Geom, maxContacts int) []engine.ContactPoint {
	o, ok := other.(*Geom)
	if !ok || maxContacts <= 0 {
		return nil
	}
	cts := g.g.Collide(o.g, uint16(maxContacts), 0)
	pts := make([]engine.ContactPoint, 0, len(cts))
	for _, ct := range cts {
		pts = append(pts, engine.ContactPoint{
			Pos:    vec(ct.Pos),
			Normal: vec(ct.Normal),
			Depth:  ct.Depth,
			G1:     g,
			G2:     o,
			Native: ct,
		})
	}
	return pts
}
