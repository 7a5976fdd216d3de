package metrics

import "github.com/san-kum/bipedsim/internal/biped"

// GroundContacts is the mean number of ground contact points per stepped
// frame. Paused frames are not counted.
type GroundContacts struct {
	points  int
	samples int
}

func NewGroundContacts() *GroundContacts { return &GroundContacts{} }

func (g *GroundContacts) Name() string { return "ground_points" }

func (g *GroundContacts) OnFrame(s biped.Snapshot) {
	if s.Mode == biped.Paused {
		return
	}
	g.points += s.GroundContacts
	g.samples++
}

func (g *GroundContacts) Value() float64 {
	if g.samples == 0 {
		return 0
	}
	return float64(g.points) / float64(g.samples)
}

func (g *GroundContacts) Reset() {
	g.points = 0
	g.samples = 0
}

// SelfContacts counts the colliding non-ground pairs over the run.
type SelfContacts struct {
	pairs int
}

func NewSelfContacts() *SelfContacts { return &SelfContacts{} }

func (c *SelfContacts) Name() string { return "self_pairs" }

func (c *SelfContacts) OnFrame(s biped.Snapshot) { c.pairs += s.SelfContacts }

func (c *SelfContacts) Value() float64 { return float64(c.pairs) }

func (c *SelfContacts) Reset() { c.pairs = 0 }
