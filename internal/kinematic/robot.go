package kinematic

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

var errForeignObjects = errors.New("bipedsim: kinematic builder needs a kinematic world and space")

// chain is one leg: a joint per link, rooted at the torso.
type chain struct {
	side   biped.Side
	dims   biped.Dimensions
	root   *Body
	hinges [biped.JointsPerLeg]*Hinge
	links  [biped.JointsPerLeg]*Body
}

func (c *chain) pose() {
	root := biped.Frame{Pos: c.root.pos, Rot: c.root.rot}
	frames := c.dims.LegFrames(c.side, root, func(j biped.JointIndex) float64 {
		return c.hinges[j].angle
	})
	for i, f := range frames {
		c.links[i].pos = f.Pos
		c.links[i].rot = f.Rot
	}
}

// Robot is what the Builder created, kept for inspection.
type Robot struct {
	Torso  *Body
	Links  map[biped.Key]*Body
	Geoms  map[string]*Geom
	Joints engine.JointSet
}

// Foot returns the sole sphere of one leg.
func (r *Robot) Foot(side biped.Side) *Geom { return r.Geoms[side.String()+".foot"] }

// Builder places the robot with its torso fixed at the stand height.
type Builder struct {
	Dims biped.Dimensions
	// Robot is set by CreateRobot.
	Robot *Robot
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
	if err := b.Dims.Validate(); err != nil {
		return nil, fmt.Errorf("kinematic robot: %w", err)
	}
	d := b.Dims

	torso := NewBody("torso")
	root := d.StandingRoot()
	torso.pos, torso.rot = root.Pos, root.Rot
	r := &Robot{
		Torso:  torso,
		Links:  make(map[biped.Key]*Body, 2*biped.JointsPerLeg),
		Geoms:  make(map[string]*Geom),
		Joints: make(engine.JointSet, 2*biped.JointsPerLeg),
	}
	r.Geoms["torso"] = space.NewSphere(torso, torsoRadius(d), mgl64.Vec3{})

	for _, side := range biped.Sides() {
		c := &chain{side: side, dims: d, root: torso}
		parent := torso
		for i := 0; i < biped.JointsPerLeg; i++ {
			k := biped.K(side, biped.JointIndex(i))
			link := NewBody(k.String())
			join(parent, link)
			c.hinges[i] = world.NewHinge()
			c.links[i] = link
			r.Links[k] = link
			r.Joints[k] = c.hinges[i]
			parent = link
		}
		legs := side.String()
		r.Geoms[legs+".thigh"] = space.NewSphere(c.links[biped.HipPitch], d.LinkRadius, d.LinkCenter(biped.HipPitch))
		r.Geoms[legs+".shin"] = space.NewSphere(c.links[biped.KneePitch], d.LinkRadius, d.LinkCenter(biped.KneePitch))
		r.Geoms[legs+".foot"] = space.NewSphere(c.links[biped.AnkleRoll], d.FootSize[2]/2, d.LinkCenter(biped.AnkleRoll))
		c.pose()
		world.chains = append(world.chains, c)
	}

	b.Robot = r
	return r.Joints, nil
}

// torsoRadius fits a sphere inside the torso box.
func torsoRadius(d biped.Dimensions) float64 {
	m := d.TorsoSize[0]
	for _, v := range d.TorsoSize[1:] {
		if v < m {
			m = v
		}
	}
	return m / 2
}
