package sim_test

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
)

type recordingRenderer struct {
	xyz, hpr mgl64.Vec3
	starts   int
	frames   []biped.Snapshot
}

func (r *recordingRenderer) SetViewpoint(xyz, hpr mgl64.Vec3) {
	r.xyz, r.hpr = xyz, hpr
	r.starts++
}

func (r *recordingRenderer) DrawRobot(s biped.Snapshot) { r.frames = append(r.frames, s) }

type countingMetric struct {
	frames int
}

func (m *countingMetric) OnFrame(biped.Snapshot) { m.frames++ }
func (m *countingMetric) Name() string           { return "frames" }
func (m *countingMetric) Value() float64         { return float64(m.frames) }
func (m *countingMetric) Reset()                 { m.frames = 0 }
