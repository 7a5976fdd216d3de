package control

import (
	"fmt"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

// VelocityServo drives every hinge toward its actuator target with
// w = k1 * (target - current).
type VelocityServo struct {
	acts   *biped.Actuators
	joints engine.JointSet
	last   map[biped.Key]float64
}

// NewVelocityServo binds actuators to engine hinges. Both tables must cover
// every joint of the robot.
func NewVelocityServo(acts *biped.Actuators, joints engine.JointSet) (*VelocityServo, error) {
	if err := acts.Validate(); err != nil {
		return nil, fmt.Errorf("actuators: %w", err)
	}
	if err := joints.Validate(); err != nil {
		return nil, fmt.Errorf("joints: %w", err)
	}
	return &VelocityServo{
		acts:   acts,
		joints: joints,
		last:   make(map[biped.Key]float64, acts.Len()),
	}, nil
}

// Command is the control law for one joint; angles in radians.
func Command(k1, targetRad, currentRad float64) float64 {
	return k1 * (targetRad - currentRad)
}

// Apply writes a velocity command and force cap into every hinge.
func (s *VelocityServo) Apply() {
	s.acts.Each(func(a *biped.JointActuator) {
		h := s.joints.MustJoint(a.Key)
		w := Command(a.K1, a.TargetRadians(), h.Angle())
		h.SetParam(engine.ParamVel, w)
		h.SetParam(engine.ParamFMax, a.FMax)
		s.last[a.Key] = w
	})
}

// Commands returns a copy of the velocities issued by the last Apply.
func (s *VelocityServo) Commands() map[biped.Key]float64 {
	out := make(map[biped.Key]float64, len(s.last))
	for k, w := range s.last {
		out[k] = w
	}
	return out
}

// Angles reads every hinge angle in radians.
func (s *VelocityServo) Angles() map[biped.Key]float64 {
	out := make(map[biped.Key]float64, len(s.joints))
	for k, h := range s.joints {
		out[k] = h.Angle()
	}
	return out
}

// GetParams returns tunable parameters for live adjustment.
func (s *VelocityServo) GetParams() map[string]float64 {
	params := map[string]float64{"k1": biped.DefaultK1, "fmax": biped.DefaultFMax}
	if a, ok := s.acts.Get(biped.K(biped.Right, biped.HipYaw)); ok {
		params["k1"] = a.K1
		params["fmax"] = a.FMax
	}
	return params
}

// SetParam adjusts k1 or fmax on every joint.
func (s *VelocityServo) SetParam(name string, value float64) error {
	p := s.GetParams()
	switch name {
	case "k1":
		return s.acts.SetGains(value, p["fmax"])
	case "fmax":
		return s.acts.SetGains(p["k1"], value)
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
}
