package biped

// Mode is the frame driver state.
type Mode int

const (
	Running Mode = iota
	Paused
)

func (m Mode) String() string {
	if m == Paused {
		return "paused"
	}
	return "running"
}

// Snapshot is the per-tick view of the robot handed to renderers.
// Maps are owned by the receiver.
type Snapshot struct {
	Step           int
	Time           float64
	Mode           Mode
	Angles         map[Key]float64 // radians, as read from the engine
	Targets        Pose            // degrees
	Commands       map[Key]float64 // commanded angular velocity, rad/s
	SelfCollision  bool
	GroundContacts int // contact points generated this tick
	SelfContacts   int // non-ground pairs seen this tick
}
