// Package contact filters broadphase collision pairs and turns the
// surviving ones into solver-ready contact constraints.
package contact

import (
	"fmt"
	"math"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

const (
	DefaultMaxPoints = 30
	DefaultSoftERP   = 0.2
	DefaultSoftCFM   = 1e-4
)

// SelfContactPolicy decides what happens to pairs that do not involve the
// ground.
type SelfContactPolicy int

const (
	// FlagOnly raises the self-collision flag and emits no constraints.
	FlagOnly SelfContactPolicy = iota
	// Resolve raises the flag and emits constraints like a ground contact.
	Resolve
)

func (p SelfContactPolicy) String() string {
	if p == Resolve {
		return "resolve"
	}
	return "flag"
}

func ParsePolicy(s string) (SelfContactPolicy, error) {
	switch s {
	case "", "flag":
		return FlagOnly, nil
	case "resolve":
		return Resolve, nil
	default:
		return FlagOnly, fmt.Errorf("unknown self contact policy: %s", s)
	}
}

// DefaultSurface is the no-slip soft contact used for ground pairs.
func DefaultSurface() engine.Surface {
	return engine.Surface{
		Mode:    engine.SoftERP | engine.SoftCFM,
		Mu:      math.Inf(1),
		SoftERP: DefaultSoftERP,
		SoftCFM: DefaultSoftCFM,
	}
}

// Event is the classification of one colliding pair within one tick.
type Event struct {
	Ground   bool
	Contacts []engine.Contact
}

// Stats counts classification outcomes over a run.
type Stats struct {
	Pairs   int // pairs seen
	Jointed int // skipped because the bodies share a joint
	Empty   int // narrowphase found nothing
	Ground  int // ground pairs with contact
	Self    int // non-ground pairs with contact
	// AtBound counts pairs whose narrowphase reached MaxPoints. Points
	// beyond the bound, if any, were dropped.
	AtBound int
	Points  int // constraints emitted
}

type Options struct {
	MaxPoints int
	Surface   engine.Surface
	Policy    SelfContactPolicy
}

func DefaultOptions() Options {
	return Options{
		MaxPoints: DefaultMaxPoints,
		Surface:   DefaultSurface(),
		Policy:    FlagOnly,
	}
}

// Classifier decides, for each candidate pair, whether and how contacts
// are created. It must only be used from the simulation goroutine.
type Classifier struct {
	ground engine.Geom
	opts   Options
	flag   *biped.SelfCollisionFlag
	stats  Stats

	// step stamps the first raise of the flag.
	step int
}

// NewClassifier binds a classifier to the static ground geom and the
// run-wide self-collision flag.
func NewClassifier(ground engine.Geom, flag *biped.SelfCollisionFlag, opts Options) *Classifier {
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}
	return &Classifier{ground: ground, opts: opts, flag: flag}
}

// Classify returns nil when the pair must not produce contacts.
func (c *Classifier) Classify(a, b engine.Geom) *Event {
	c.stats.Pairs++

	b1, b2 := a.Body(), b.Body()
	if b1 != nil && b2 != nil && b1.Connected(b2) {
		c.stats.Jointed++
		return nil
	}

	pts := a.Collide(b, c.opts.MaxPoints)
	if len(pts) == 0 {
		c.stats.Empty++
		return nil
	}
	if len(pts) >= c.opts.MaxPoints {
		// Collide already honours the bound; the reslice only matters
		// for a backend that ignores it.
		pts = pts[:c.opts.MaxPoints]
		c.stats.AtBound++
	}

	ground := c.isGround(a) || c.isGround(b)
	ev := &Event{Ground: ground}
	if ground {
		c.stats.Ground++
	} else {
		c.stats.Self++
		c.flag.Raise(c.step)
		if c.opts.Policy == FlagOnly {
			return ev
		}
	}

	ev.Contacts = make([]engine.Contact, len(pts))
	for i, p := range pts {
		ev.Contacts[i] = engine.Contact{Surface: c.opts.Surface, Point: p}
	}
	c.stats.Points += len(pts)
	return ev
}

func (c *Classifier) isGround(g engine.Geom) bool {
	return c.ground != nil && g == c.ground
}

// SetStep tells the classifier which tick is being processed.
func (c *Classifier) SetStep(step int) { c.step = step }

func (c *Classifier) Stats() Stats { return c.stats }

func (c *Classifier) Options() Options { return c.opts }

// Dispatcher feeds classified contacts of each broadphase pair into the
// world's contact group.
type Dispatcher struct {
	cls   *Classifier
	world engine.World
	group engine.ContactGroup

	tickGround int
	tickSelf   int
}

func NewDispatcher(cls *Classifier, world engine.World, group engine.ContactGroup) *Dispatcher {
	return &Dispatcher{cls: cls, world: world, group: group}
}

func (d *Dispatcher) HandlePair(a, b engine.Geom) {
	ev := d.cls.Classify(a, b)
	if ev == nil {
		return
	}
	if ev.Ground {
		d.tickGround += len(ev.Contacts)
	} else {
		d.tickSelf++
	}
	for _, ct := range ev.Contacts {
		d.world.AttachContact(d.group, ct)
	}
}

// ResetTick clears the per-tick counters and returns their last values:
// ground contact points and self-colliding pairs.
func (d *Dispatcher) ResetTick() (ground, self int) {
	ground, self = d.tickGround, d.tickSelf
	d.tickGround, d.tickSelf = 0, 0
	return ground, self
}
