package sim

import (
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

// Context holds every resource of one simulation instance. It replaces
// process-wide state: controller, classifier and driver all receive the
// same *Context.
type Context struct {
	Engine    engine.Engine
	World     engine.World
	Space     engine.Space
	Group     engine.ContactGroup
	Ground    engine.Geom
	Joints    engine.JointSet
	Actuators *biped.Actuators

	SelfCollision biped.SelfCollisionFlag

	initialized bool
}

// Valid reports whether world, space and contact group are all alive.
func (c *Context) Valid() bool {
	return c != nil && c.World != nil && c.Space != nil && c.Group != nil
}

// release destroys resources in dependency order: contact group, space,
// world, then the engine itself. It is safe to call on a partly built or
// already released context.
func (c *Context) release() {
	if c.Group != nil {
		c.Group.Destroy()
		c.Group = nil
	}
	if c.Space != nil {
		c.Space.Destroy()
		c.Space = nil
		c.Ground = nil
	}
	if c.World != nil {
		c.World.Destroy()
		c.World = nil
	}
	c.Joints = nil
	if c.initialized {
		c.Engine.Close()
		c.initialized = false
	}
}
