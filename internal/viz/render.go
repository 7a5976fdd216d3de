package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
)

const historyCapacity = 600

// Renderer draws the robot skeleton onto a Braille canvas and keeps a
// short angle history per joint.
type Renderer struct {
	Dims    biped.Dimensions
	camera  *Camera
	canvas  *Canvas
	last    biped.Snapshot
	frames  int
	history map[biped.Key][]float64
}

func NewRenderer(dims biped.Dimensions, width, height int) *Renderer {
	return &Renderer{
		Dims:    dims,
		camera:  NewCamera(mgl64.Vec3{1.8, 0, 0.8}, mgl64.Vec3{180, 0, 0}),
		canvas:  NewCanvas(width, height),
		history: make(map[biped.Key][]float64),
	}
}

func (r *Renderer) SetViewpoint(xyz, hpr mgl64.Vec3) {
	r.camera = NewCamera(xyz, hpr)
}

func (r *Renderer) Camera() *Camera { return r.camera }

func (r *Renderer) DrawRobot(s biped.Snapshot) {
	r.last = s
	r.frames++
	for k, rad := range s.Angles {
		h := append(r.history[k], rad*180/math.Pi)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		r.history[k] = h
	}
	r.draw()
}

// Last is the most recent snapshot drawn.
func (r *Renderer) Last() biped.Snapshot { return r.last }

func (r *Renderer) Frames() int { return r.frames }

// History returns the recent angles of k in degrees, oldest first.
func (r *Renderer) History(k biped.Key) []float64 { return r.history[k] }

// Frame is the current picture.
func (r *Renderer) Frame() string { return r.canvas.String() }

func (r *Renderer) Canvas() *Canvas { return r.canvas }

func (r *Renderer) segment(a, b mgl64.Vec3) {
	w, h := r.canvas.DotsWide(), r.canvas.DotsHigh()
	if !r.camera.InFront(a) || !r.camera.InFront(b) {
		return
	}
	x0, y0, _ := r.camera.Project(a, w, h)
	x1, y1, _ := r.camera.Project(b, w, h)
	if absInt(x0)+absInt(x1) > 8*w || absInt(y0)+absInt(y1) > 8*h {
		return
	}
	r.canvas.Line(x0, y0, x1, y1)
}

func (r *Renderer) draw() {
	r.canvas.Clear()
	d := r.Dims

	for _, x := range []float64{-0.4, 0, 0.4} {
		r.segment(mgl64.Vec3{x, -0.6, 0}, mgl64.Vec3{x, 0.6, 0})
	}

	root := d.StandingRoot()
	half := d.TorsoSize.Mul(0.5)
	corners := make([]mgl64.Vec3, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corners = append(corners, root.Pos.Add(mgl64.Vec3{sx * half[0], sy * half[1], sz * half[2]}))
			}
		}
	}
	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			// edges differ in exactly one coordinate
			if bitsSet(i^j) == 1 {
				r.segment(corners[i], corners[j])
			}
		}
	}

	for _, side := range biped.Sides() {
		frames := d.LegFrames(side, root, func(j biped.JointIndex) float64 {
			return r.last.Angles[biped.K(side, j)]
		})
		hip := frames[biped.HipYaw].Pos
		r.segment(root.Pos.Add(mgl64.Vec3{0, hip[1] - root.Pos[1], -half[2]}), hip)
		r.segment(hip, frames[biped.KneePitch].Pos)
		r.segment(frames[biped.KneePitch].Pos, frames[biped.AnklePitch].Pos)

		foot := frames[biped.AnkleRoll]
		sole := -d.FootHeight - d.FootSize[2]/2
		heel := foot.Pos.Add(foot.Rot.Rotate(mgl64.Vec3{-d.FootSize[0] / 2, 0, sole}))
		toe := foot.Pos.Add(foot.Rot.Rotate(mgl64.Vec3{d.FootSize[0] / 2, 0, sole}))
		r.segment(foot.Pos, heel)
		r.segment(foot.Pos, toe)
		r.segment(heel, toe)
	}
}

func bitsSet(v int) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}
