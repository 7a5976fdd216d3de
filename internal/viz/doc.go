// Package viz draws the robot in the terminal and runs the live view.
//
// The live view is a Bubble Tea program that owns the frame cadence:
//
//	Space - Pause/Resume simulation
//	+/-   - Raise or lower the servo gain k1
//	Tab   - Trace the next joint
//	T     - Cycle color themes
//	Q     - Quit
//
// The robot is drawn from its joint angles with the torso held at the
// standing height, as seen from the configured viewpoint.
package viz
