// Package kinematic is a pure-Go engine backend without dynamics.
//
// Hinges follow their commanded velocity with the angular acceleration
// bounded by the force cap over a fixed joint inertia. Body poses come from
// forward kinematics of the leg chains under a torso held in place; gravity
// is recorded but not integrated. Collision shapes are spheres plus the
// ground plane, tested pairwise. Contacts are collected into the contact
// group but never resolved.
//
// The backend exists so the control and collision loop can run anywhere,
// without the Open Dynamics Engine installed.
package kinematic
