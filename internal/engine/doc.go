// Package engine declares the collaborators the simulation core consumes:
// the rigid-body physics engine, the robot model builder, the renderer and
// the run-loop harness.
//
// Backends live in their own packages (kinematic in pure Go, odeengine
// on top of the Open Dynamics Engine). The core only ever sees these
// interfaces, so tests substitute the recording fake in enginetest.
//
// Handles returned by an [Engine] are valid until the owning object is
// destroyed. Using a destroyed handle is a fatal precondition violation.
package engine
