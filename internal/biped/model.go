package biped

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Dimensions describes the robot geometry in meters and kilograms.
// All joints of one hip share an origin, as do both ankle joints.
type Dimensions struct {
	TorsoSize   mgl64.Vec3 `yaml:"torso_size"` // x depth, y width, z height
	TorsoMass   float64    `yaml:"torso_mass"`
	HipWidth    float64    `yaml:"hip_width"`
	ThighLength float64    `yaml:"thigh_length"`
	ShinLength  float64    `yaml:"shin_length"`
	LinkRadius  float64    `yaml:"link_radius"`
	LinkMass    float64    `yaml:"link_mass"`
	FootHeight  float64    `yaml:"foot_height"` // ankle to foot center
	FootSize    mgl64.Vec3 `yaml:"foot_size"`
	FootMass    float64    `yaml:"foot_mass"`
	// Penetration is how deep the feet start inside the ground.
	Penetration float64 `yaml:"penetration"`
}

func DefaultDimensions() Dimensions {
	return Dimensions{
		TorsoSize:   mgl64.Vec3{0.1, 0.24, 0.3},
		TorsoMass:   10,
		HipWidth:    0.2,
		ThighLength: 0.3,
		ShinLength:  0.3,
		LinkRadius:  0.04,
		LinkMass:    1,
		FootHeight:  0.05,
		FootSize:    mgl64.Vec3{0.2, 0.1, 0.1},
		FootMass:    0.5,
		Penetration: 0.002,
	}
}

func (d Dimensions) Validate() error {
	positive := map[string]float64{
		"torso_mass":   d.TorsoMass,
		"hip_width":    d.HipWidth,
		"thigh_length": d.ThighLength,
		"shin_length":  d.ShinLength,
		"link_radius":  d.LinkRadius,
		"link_mass":    d.LinkMass,
		"foot_mass":    d.FootMass,
	}
	for name, v := range positive {
		if !(v > 0) {
			return fmt.Errorf("robot %s must be positive, got %g", name, v)
		}
	}
	for i := 0; i < 3; i++ {
		if !(d.TorsoSize[i] > 0) || !(d.FootSize[i] > 0) {
			return fmt.Errorf("robot torso and foot sizes must be positive")
		}
	}
	if d.HipWidth <= 2*d.LinkRadius {
		return fmt.Errorf("hip width %g leaves the legs intersecting", d.HipWidth)
	}
	return nil
}

// StandHeight is the torso center height that puts the soles at the
// configured penetration in the canonical pose.
func (d Dimensions) StandHeight() float64 {
	return d.TorsoSize[2]/2 + d.ThighLength + d.ShinLength + d.FootHeight + d.FootSize[2]/2 - d.Penetration
}

// JointAxis is the rotation axis of a joint in its parent frame.
func JointAxis(j JointIndex) mgl64.Vec3 {
	switch j {
	case HipYaw:
		return mgl64.Vec3{0, 0, 1}
	case HipRoll, AnkleRoll:
		return mgl64.Vec3{1, 0, 0}
	default:
		return mgl64.Vec3{0, 1, 0}
	}
}

// JointOffset is the position of joint j relative to the previous joint of
// the same leg (or to the torso center for the hip yaw).
func (d Dimensions) JointOffset(side Side, j JointIndex) mgl64.Vec3 {
	switch j {
	case HipYaw:
		y := d.HipWidth / 2
		if side == Right {
			y = -y
		}
		return mgl64.Vec3{0, y, -d.TorsoSize[2] / 2}
	case KneePitch:
		return mgl64.Vec3{0, 0, -d.ThighLength}
	case AnklePitch:
		return mgl64.Vec3{0, 0, -d.ShinLength}
	default:
		return mgl64.Vec3{}
	}
}

// LinkCenter is the center of the link driven by joint j, in that joint's
// frame. Links of co-located joints have no extent.
func (d Dimensions) LinkCenter(j JointIndex) mgl64.Vec3 {
	switch j {
	case HipPitch:
		return mgl64.Vec3{0, 0, -d.ThighLength / 2}
	case KneePitch:
		return mgl64.Vec3{0, 0, -d.ShinLength / 2}
	case AnkleRoll:
		return mgl64.Vec3{0, 0, -d.FootHeight}
	default:
		return mgl64.Vec3{}
	}
}

// Frame is a position and orientation in world coordinates.
type Frame struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// LegFrames runs forward kinematics down one leg. Entry i is the frame of
// the link driven by joint i, located at that joint. angle returns the
// joint angle in radians.
func (d Dimensions) LegFrames(side Side, root Frame, angle func(JointIndex) float64) [JointsPerLeg]Frame {
	var out [JointsPerLeg]Frame
	pos, rot := root.Pos, root.Rot
	for i := JointIndex(0); i < JointsPerLeg; i++ {
		pos = pos.Add(rot.Rotate(d.JointOffset(side, i)))
		rot = rot.Mul(mgl64.QuatRotate(angle(i), JointAxis(i))).Normalize()
		out[i] = Frame{Pos: pos, Rot: rot}
	}
	return out
}

// StandingRoot is the torso frame of the canonical stance.
func (d Dimensions) StandingRoot() Frame {
	return Frame{Pos: mgl64.Vec3{0, 0, d.StandHeight()}, Rot: mgl64.QuatIdent()}
}
