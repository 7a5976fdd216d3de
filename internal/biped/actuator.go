package biped

import (
	"fmt"
	"math"
)

const (
	DefaultK1   = 10.0
	DefaultFMax = 100.0
)

// JointActuator holds the control set-point of one hinge.
type JointActuator struct {
	Key    Key
	Target float64 // degrees
	K1     float64
	FMax   float64
}

// TargetRadians converts the target into the engine frame.
func (a *JointActuator) TargetRadians() float64 {
	return a.Target * math.Pi / 180
}

// Actuators maps every joint key to its actuator.
type Actuators struct {
	byKey map[Key]*JointActuator
}

// NewActuators creates one zero-target actuator per key.
func NewActuators(k1, fMax float64) (*Actuators, error) {
	if !(k1 > 0) || !(fMax > 0) {
		return nil, fmt.Errorf("%w: k1=%g fmax=%g", ErrInvalidGain, k1, fMax)
	}
	a := &Actuators{byKey: make(map[Key]*JointActuator, 2*JointsPerLeg)}
	for _, k := range AllKeys() {
		a.byKey[k] = &JointActuator{Key: k, K1: k1, FMax: fMax}
	}
	return a, nil
}

// Get returns the actuator for k.
func (a *Actuators) Get(k Key) (*JointActuator, bool) {
	act, ok := a.byKey[k]
	return act, ok
}

// Each visits actuators in AllKeys order.
func (a *Actuators) Each(fn func(*JointActuator)) {
	for _, k := range AllKeys() {
		if act, ok := a.byKey[k]; ok {
			fn(act)
		}
	}
}

func (a *Actuators) Len() int { return len(a.byKey) }

func (a *Actuators) SetTarget(k Key, deg float64) error {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidTarget, k, deg)
	}
	act, ok := a.byKey[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingJoint, k)
	}
	act.Target = deg
	return nil
}

// SetTargets applies every entry of p; keys absent from p keep their target.
func (a *Actuators) SetTargets(p Pose) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for k, deg := range p {
		if err := a.SetTarget(k, deg); err != nil {
			return err
		}
	}
	return nil
}

// SetGains overwrites k1 and fMax on every actuator.
func (a *Actuators) SetGains(k1, fMax float64) error {
	if !(k1 > 0) || !(fMax > 0) {
		return fmt.Errorf("%w: k1=%g fmax=%g", ErrInvalidGain, k1, fMax)
	}
	for _, act := range a.byKey {
		act.K1 = k1
		act.FMax = fMax
	}
	return nil
}

// Targets returns a copy of the current target table.
func (a *Actuators) Targets() Pose {
	p := make(Pose, len(a.byKey))
	for k, act := range a.byKey {
		p[k] = act.Target
	}
	return p
}

// Validate checks the one-actuator-per-key invariant.
func (a *Actuators) Validate() error {
	return ValidateKeys(a.byKey)
}

// ValidateKeys reports whether m holds exactly the keys of AllKeys.
func ValidateKeys[V any](m map[Key]V) error {
	for k := range m {
		if !k.Valid() {
			return fmt.Errorf("%w: %v", ErrUnexpectedJoint, k)
		}
	}
	for _, k := range AllKeys() {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingJoint, k)
		}
	}
	return nil
}
