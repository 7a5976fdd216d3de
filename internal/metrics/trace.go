package metrics

import (
	"math"

	"github.com/san-kum/bipedsim/internal/biped"
)

// Trace records the joint state of every frame in AllKeys order.
type Trace struct {
	Keys     []biped.Key
	Steps    []int
	Times    []float64
	Angles   [][]float64 // radians
	Targets  [][]float64 // degrees
	Commands [][]float64
	Ground   []int
	Self     []int
	// SkipPaused drops frames rendered while paused.
	SkipPaused bool
}

func NewTrace() *Trace {
	return &Trace{Keys: biped.AllKeys(), SkipPaused: true}
}

func (t *Trace) OnFrame(s biped.Snapshot) {
	if t.SkipPaused && s.Mode == biped.Paused {
		return
	}
	n := len(t.Keys)
	angles := make([]float64, n)
	targets := make([]float64, n)
	commands := make([]float64, n)
	for i, k := range t.Keys {
		angles[i] = s.Angles[k]
		targets[i] = s.Targets[k]
		commands[i] = s.Commands[k]
	}
	t.Steps = append(t.Steps, s.Step)
	t.Times = append(t.Times, s.Time)
	t.Angles = append(t.Angles, angles)
	t.Targets = append(t.Targets, targets)
	t.Commands = append(t.Commands, commands)
	t.Ground = append(t.Ground, s.GroundContacts)
	t.Self = append(t.Self, s.SelfContacts)
}

func (t *Trace) Len() int { return len(t.Times) }

// Series returns the angle history of one joint, in degrees.
func (t *Trace) Series(k biped.Key) []float64 {
	idx := t.index(k)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Angles))
	for i, row := range t.Angles {
		out[i] = row[idx] * 180 / math.Pi
	}
	return out
}

// TargetSeries returns the target history of one joint, in degrees.
func (t *Trace) TargetSeries(k biped.Key) []float64 {
	idx := t.index(k)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Targets))
	for i, row := range t.Targets {
		out[i] = row[idx]
	}
	return out
}

func (t *Trace) index(k biped.Key) int {
	for i, key := range t.Keys {
		if key == k {
			return i
		}
	}
	return -1
}

func (t *Trace) Reset() {
	keys, skip := t.Keys, t.SkipPaused
	*t = Trace{Keys: keys, SkipPaused: skip}
}
