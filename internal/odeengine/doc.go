// Package odeengine runs the simulation on the Open Dynamics Engine.
//
// The adapters wrap github.com/ianremmler/ode, which links against libode
// through cgo. Everything except this comment is behind the "ode" build
// tag; build with -tags ode once the library is installed.
package odeengine
