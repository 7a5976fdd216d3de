package engine

import "github.com/go-gl/mathgl/mgl64"

// ContactPoint is one narrowphase result.
type ContactPoint struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	G1, G2 Geom
	// Native carries backend data needed to build the solver constraint.
	Native any
}

// SurfaceMode selects which optional surface parameters are in effect.
type SurfaceMode uint8

const (
	SoftERP SurfaceMode = 1 << iota
	SoftCFM
)

func (m SurfaceMode) Has(flag SurfaceMode) bool { return m&flag != 0 }

// Surface describes the friction and softness of a contact.
type Surface struct {
	Mode    SurfaceMode
	Mu      float64 // Coulomb friction, +Inf for no slip
	SoftERP float64
	SoftCFM float64
}

// Contact is a solver-ready contact constraint description.
type Contact struct {
	Surface Surface
	Point   ContactPoint
}

// Bodies returns the bodies of the two geoms, nil for static ones.
func (c Contact) Bodies() (Body, Body) {
	var b1, b2 Body
	if c.Point.G1 != nil {
		b1 = c.Point.G1.Body()
	}
	if c.Point.G2 != nil {
		b2 = c.Point.G2.Body()
	}
	return b1, b2
}
