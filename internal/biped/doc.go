// Package biped defines the domain model of the simulated two-legged robot.
//
// The robot has two legs with six hinge joints each. Every controllable joint
// is addressed by a [Key] (side plus joint index) and owns exactly one
// [JointActuator] inside an [Actuators] table:
//
//   - [Key]: (Side, JointIndex) address of a hinge
//   - [JointActuator]: target angle (degrees), gain and force cap of one joint
//   - [Actuators]: validated mapping from every key to its actuator
//   - [Pose]: a table of target angles applied to the actuators
//   - [SelfCollisionFlag]: monotonic run-wide self-intersection signal
//   - [Snapshot]: per-tick view handed to renderers and observers
//
// # Units
//
// Targets are stored in degrees, the frame used by trajectory tables. Engine
// joint angles are radians; conversion happens in the controller.
package biped
