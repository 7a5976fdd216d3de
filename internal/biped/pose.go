package biped

import (
	"fmt"
	"math"
)

// Pose is a table of target angles in degrees.
type Pose map[Key]float64

// ZeroPose is the canonical pose: every joint at 0 degrees.
func ZeroPose() Pose {
	p := make(Pose, 2*JointsPerLeg)
	for _, k := range AllKeys() {
		p[k] = 0
	}
	return p
}

// PoseFromLegs builds a pose from per-leg arrays ordered hip to ankle.
func PoseFromLegs(right, left [JointsPerLeg]float64) Pose {
	p := make(Pose, 2*JointsPerLeg)
	for i := JointIndex(0); i < JointsPerLeg; i++ {
		p[K(Right, i)] = right[i]
		p[K(Left, i)] = left[i]
	}
	return p
}

// Legs is the inverse of PoseFromLegs; missing keys read as zero.
func (p Pose) Legs() (right, left [JointsPerLeg]float64) {
	for i := JointIndex(0); i < JointsPerLeg; i++ {
		right[i] = p[K(Right, i)]
		left[i] = p[K(Left, i)]
	}
	return right, left
}

func (p Pose) Validate() error {
	for k, deg := range p {
		if !k.Valid() {
			return fmt.Errorf("%w: %v", ErrUnexpectedJoint, k)
		}
		if math.IsNaN(deg) || math.IsInf(deg, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidTarget, k, deg)
		}
	}
	return nil
}

// Trajectory is a time-indexed sequence of poses, one row per tick.
type Trajectory []Pose

// At returns the row for step, wrapping around at the end of the table.
func (t Trajectory) At(step int) (Pose, bool) {
	if len(t) == 0 {
		return nil, false
	}
	if step < 0 {
		step = 0
	}
	return t[step%len(t)], true
}
