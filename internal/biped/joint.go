package biped

import "fmt"

// JointsPerLeg is the number of controllable hinges on each leg.
const JointsPerLeg = 6

type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Valid reports whether s names one of the two legs.
func (s Side) Valid() bool { return s == Right || s == Left }

// Sides lists both legs in table order.
func Sides() []Side { return []Side{Right, Left} }

// JointIndex is the position of a hinge along a leg, counted from the hip.
type JointIndex int

const (
	HipYaw JointIndex = iota
	HipRoll
	HipPitch
	KneePitch
	AnklePitch
	AnkleRoll
)

var jointNames = [JointsPerLeg]string{
	"hip_yaw",
	"hip_roll",
	"hip_pitch",
	"knee_pitch",
	"ankle_pitch",
	"ankle_roll",
}

func (j JointIndex) String() string {
	if j.Valid() {
		return jointNames[j]
	}
	return fmt.Sprintf("joint(%d)", int(j))
}

func (j JointIndex) Valid() bool { return j >= 0 && j < JointsPerLeg }

// Key addresses one hinge of the robot.
type Key struct {
	Side  Side
	Index JointIndex
}

func K(side Side, index JointIndex) Key { return Key{Side: side, Index: index} }

func (k Key) Valid() bool { return k.Side.Valid() && k.Index.Valid() }

func (k Key) String() string { return k.Side.String() + "." + k.Index.String() }

// ParseKey accepts the form produced by Key.String, e.g. "left.knee_pitch".
func ParseKey(s string) (Key, error) {
	for _, k := range AllKeys() {
		if k.String() == s {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("unknown joint %q", s)
}

// AllKeys returns every controllable joint, right leg first, hip to ankle.
func AllKeys() []Key {
	keys := make([]Key, 0, 2*JointsPerLeg)
	for _, side := range Sides() {
		for i := JointIndex(0); i < JointsPerLeg; i++ {
			keys = append(keys, K(side, i))
		}
	}
	return keys
}

// Ordinal is the position of k in AllKeys.
func (k Key) Ordinal() int { return int(k.Side)*JointsPerLeg + int(k.Index) }
