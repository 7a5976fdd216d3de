package metrics

import (
	"math"

	"github.com/san-kum/bipedsim/internal/biped"
)

// TrackingError is the root mean square difference between target and
// measured joint angles, in degrees, over every joint and frame.
type TrackingError struct {
	name    string
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{name: "tracking_rms_deg"}
}

func (e *TrackingError) Name() string { return e.name }

func (e *TrackingError) OnFrame(s biped.Snapshot) {
	for _, k := range biped.AllKeys() {
		rad, ok := s.Angles[k]
		if !ok {
			continue
		}
		d := s.Targets[k] - rad*180/math.Pi
		e.sumSq += d * d
		e.samples++
	}
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

// MaxTrackingError is the worst single-joint error seen, in degrees.
type MaxTrackingError struct {
	max float64
}

func NewMaxTrackingError() *MaxTrackingError { return &MaxTrackingError{} }

func (e *MaxTrackingError) Name() string { return "tracking_max_deg" }

func (e *MaxTrackingError) OnFrame(s biped.Snapshot) {
	for _, k := range biped.AllKeys() {
		rad, ok := s.Angles[k]
		if !ok {
			continue
		}
		e.max = math.Max(e.max, math.Abs(s.Targets[k]-rad*180/math.Pi))
	}
}

func (e *MaxTrackingError) Value() float64 { return e.max }

func (e *MaxTrackingError) Reset() { e.max = 0 }
