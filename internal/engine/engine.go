package engine

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
)

// Engine creates the top-level simulation objects.
type Engine interface {
	Init() error
	Close()
	NewWorld() World
	NewSpace() Space
	NewContactGroup(maxContacts int) ContactGroup
}

// World integrates rigid bodies and owns contact constraints.
type World interface {
	SetGravity(g mgl64.Vec3)
	SetERP(erp float64)
	SetCFM(cfm float64)
	Step(dt float64)
	// AttachContact creates a contact constraint in group and attaches it
	// to the bodies of the two colliding geoms.
	AttachContact(group ContactGroup, c Contact)
	Destroy()
}

// Space holds collision geometry and runs the broadphase.
type Space interface {
	// NewPlane creates a static plane n.p = d.
	NewPlane(normal mgl64.Vec3, d float64) Geom
	// Collide calls h once for every candidate pair.
	Collide(h PairHandler)
	Destroy()
}

// ContactGroup is the per-tick container of contact constraints.
type ContactGroup interface {
	Empty()
	Destroy()
}

// Body is a rigid body. Static geometry has no body.
type Body interface {
	Connected(other Body) bool
}

// Geom is a collision shape, optionally attached to a body.
type Geom interface {
	// Body returns nil for static geometry.
	Body() Body
	// Collide runs the narrowphase against other and returns at most
	// maxContacts points.
	Collide(other Geom, maxContacts int) []ContactPoint
}

// PairHandler receives broadphase candidate pairs.
type PairHandler interface {
	HandlePair(a, b Geom)
}

// PairHandlerFunc adapts a function to PairHandler.
type PairHandlerFunc func(a, b Geom)

func (f PairHandlerFunc) HandlePair(a, b Geom) { f(a, b) }

// Param selects a hinge motor parameter.
type Param int

const (
	ParamVel Param = iota
	ParamFMax
)

// Hinge is a one degree of freedom rotary joint.
type Hinge interface {
	// Angle is the current angle in radians.
	Angle() float64
	SetParam(p Param, v float64)
	Param(p Param) float64
}

// JointSet holds the hinge of every controllable joint.
type JointSet map[biped.Key]Hinge

// Validate checks that js covers every key of the robot.
func (js JointSet) Validate() error {
	return biped.ValidateKeys(js)
}

// MustJoint returns the hinge for k and panics when it is missing.
func (js JointSet) MustJoint(k biped.Key) Hinge {
	h, ok := js[k]
	if !ok || h == nil {
		panic("bipedsim: no hinge for joint " + k.String())
	}
	return h
}

// ModelBuilder constructs the articulated robot inside a world and space.
type ModelBuilder interface {
	CreateRobot(w World, s Space) (JointSet, error)
}

// Renderer presents the robot once per tick.
type Renderer interface {
	SetViewpoint(xyz, hpr mgl64.Vec3)
	DrawRobot(s biped.Snapshot)
}

// RunLoop owns the frame cadence. It calls start once, then step once per
// frame until it decides to stop or ctx is done.
type RunLoop interface {
	Run(ctx context.Context, start func(), step func()) error
}
