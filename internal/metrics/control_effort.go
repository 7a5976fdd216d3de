package metrics

import (
	"math"

	"github.com/san-kum/bipedsim/internal/biped"
)

// ControlEffort is the mean over frames of the summed absolute commanded
// joint velocity.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) OnFrame(s biped.Snapshot) {
	for _, k := range biped.AllKeys() {
		c.sum += math.Abs(s.Commands[k])
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
