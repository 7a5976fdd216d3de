package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective view from a position and a heading, pitch and
// roll in degrees, with z up. Heading 0 looks along +x.
type Camera struct {
	Eye  mgl64.Vec3
	HPR  mgl64.Vec3
	FovY float64 // radians
}

func NewCamera(xyz, hpr mgl64.Vec3) *Camera {
	return &Camera{Eye: xyz, HPR: hpr, FovY: mgl64.DegToRad(60)}
}

func (c *Camera) Forward() mgl64.Vec3 {
	h, p := mgl64.DegToRad(c.HPR[0]), mgl64.DegToRad(c.HPR[1])
	return mgl64.Vec3{math.Cos(p) * math.Cos(h), math.Cos(p) * math.Sin(h), math.Sin(p)}
}

func (c *Camera) up() mgl64.Vec3 {
	r := mgl64.DegToRad(c.HPR[2])
	return mgl64.QuatRotate(r, c.Forward()).Rotate(mgl64.Vec3{0, 0, 1})
}

// InFront reports whether p lies ahead of the eye.
func (c *Camera) InFront(p mgl64.Vec3) bool {
	return p.Sub(c.Eye).Dot(c.Forward()) > 0
}

// Project maps a world point to a w x h screen with y pointing down.
// ok is false for points behind the camera or off screen.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	view := mgl64.LookAtV(c.Eye, c.Eye.Add(c.Forward()), c.up())
	proj := mgl64.Perspective(c.FovY, float64(w)/float64(h), 0.05, 100)
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = int((ndc[0] + 1) / 2 * float64(w))
	y = int((1 - ndc[1]) / 2 * float64(h))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}
