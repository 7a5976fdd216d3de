//go:build ode

package odeengine

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ianremmler/ode"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

var errForeignObjects = errors.New("bipedsim: ode builder needs an ode world and space")

// capsuleGap keeps link capsules off the neighbouring links they do not
// share a joint with.
const capsuleGap = 0.01

// Builder assembles the robot standing on its feet in the canonical pose.
type Builder struct {
	Dims biped.Dimensions
	// Torso and Links are set by CreateRobot.
	Torso Body
	Links map[biped.Key]Body
}

func NewBuilder(dims biped.Dimensions) *Builder {
	return &Builder{Dims: dims}
}

func (b *Builder) CreateRobot(w engine.World, s engine.Space) (engine.JointSet, error) {
	world, ok := w.(*World)
	if !ok {
		return nil, errForeignObjects
	}
	space, ok := s.(*Space)
	if !ok {
		return nil, errForeignObjects
	}
	d := b.Dims
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("ode robot: %w", err)
	}

	torsoPos := mgl64.Vec3{0, 0, d.StandHeight()}
	torso := world.w.NewBody()
	torso.SetPosition(v3(torsoPos))
	m := ode.NewMass()
	m.SetBoxTotal(d.TorsoMass, v3(d.TorsoSize))
	torso.SetMass(m)
	space.newBox(d.TorsoSize).g.SetBody(torso)

	b.Torso = Body{b: torso}
	b.Links = make(map[biped.Key]Body, 2*biped.JointsPerLeg)
	joints := make(engine.JointSet, 2*biped.JointsPerLeg)

	for _, side := range biped.Sides() {
		parent := torso
		anchor := torsoPos
		for i := 0; i < biped.JointsPerLeg; i++ {
			k := biped.K(side, biped.JointIndex(i))
			anchor = anchor.Add(d.JointOffset(side, k.Index))

			link := world.w.NewBody()
			link.SetPosition(v3(anchor.Add(d.LinkCenter(k.Index))))
			link.SetMass(b.linkMass(k.Index))
			if g := b.linkGeom(space, k.Index); g != nil {
				g.g.SetBody(link)
			}

			h := world.w.NewHingeJoint(ode.JointGroup(0))
			h.Attach(parent, link)
			h.SetAnchor(v3(anchor))
			h.SetAxis(v3(biped.JointAxis(k.Index)))

			joints[k] = &Hinge{j: h}
			b.Links[k] = Body{b: link}
			parent = link
		}
	}
	return joints, nil
}

// linkMass gives the geometry-less links of co-located joints a small
// sphere mass so the solver stays well conditioned.
func (b *Builder) linkMass(j biped.JointIndex) *ode.Mass {
	d := b.Dims
	m := ode.NewMass()
	switch j {
	case biped.HipPitch:
		m.SetCapsuleTotal(d.LinkMass, 3, d.LinkRadius, d.ThighLength)
	case biped.KneePitch:
		m.SetCapsuleTotal(d.LinkMass, 3, d.LinkRadius, d.ShinLength)
	case biped.AnkleRoll:
		m.SetBoxTotal(d.FootMass, v3(d.FootSize))
	default:
		m.SetSphereTotal(d.LinkMass/10, d.LinkRadius)
	}
	return m
}

func (b *Builder) linkGeom(s *Space, j biped.JointIndex) *Geom {
	d := b.Dims
	switch j {
	case biped.HipPitch:
		return s.newCapsule(d.LinkRadius, capsuleLength(d.ThighLength, d.LinkRadius))
	case biped.KneePitch:
		return s.newCapsule(d.LinkRadius, capsuleLength(d.ShinLength, d.LinkRadius))
	case biped.AnkleRoll:
		return s.newBox(d.FootSize)
	}
	return nil
}

// capsuleLength is the cylinder part of a capsule that spans a link of
// length l minus the gap at both ends.
func capsuleLength(l, r float64) float64 {
	c := l - 2*r - 2*capsuleGap
	if c < 0 {
		return 0
	}
	return c
}
