// Package control provides the joint-level controller of the biped.
//
// [VelocityServo] is a proportional velocity servo: for every joint it
// commands an angular velocity proportional to the angle error and caps
// the motor force. The engine's constraint solver tracks the commanded
// velocity within the force cap, which acts as saturation and damping.
//
// # Usage
//
//	servo, err := control.NewVelocityServo(acts, joints)
//	// once per tick, before collision and stepping
//	servo.Apply()
//
// The servo implements the live-tuning pair GetParams/SetParam.
package control
