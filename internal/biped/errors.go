package biped

import "errors"

// Domain errors for robot setup and simulation.
var (
	// ErrMissingJoint indicates a joint table without an entry for some key.
	ErrMissingJoint = errors.New("bipedsim: missing joint")

	// ErrUnexpectedJoint indicates a joint table entry with an out-of-range key.
	ErrUnexpectedJoint = errors.New("bipedsim: unexpected joint key")

	// ErrInvalidTarget indicates a NaN or infinite target angle.
	ErrInvalidTarget = errors.New("bipedsim: invalid target angle")

	// ErrInvalidGain indicates a non-positive controller gain or force cap.
	ErrInvalidGain = errors.New("bipedsim: gain must be positive")

	// ErrInvalidTimestep indicates a non-positive simulation step.
	ErrInvalidTimestep = errors.New("bipedsim: timestep must be positive")

	// ErrClosed indicates use of a simulation after its resources were released.
	ErrClosed = errors.New("bipedsim: simulation closed")

	// ErrUnknownEngine indicates an engine backend name that is not available.
	ErrUnknownEngine = errors.New("bipedsim: unknown engine")
)
