// Package metrics reduces the frames of a run to numbers and traces.
package metrics

import "github.com/san-kum/bipedsim/internal/sim"

// Standard returns the metrics recorded for every run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewTrackingError(),
		NewMaxTrackingError(),
		NewControlEffort(),
		NewGroundContacts(),
		NewSelfContacts(),
	}
}

// Observers converts metrics for sim.Run.
func Observers(ms []sim.Metric, extra ...sim.Observer) []sim.Observer {
	out := make([]sim.Observer, 0, len(ms)+len(extra))
	for _, m := range ms {
		out = append(out, m)
	}
	return append(out, extra...)
}
