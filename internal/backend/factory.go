// Package backend selects the physics engine a simulation runs on.
package backend

import (
	"fmt"
	"sort"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
	"github.com/san-kum/bipedsim/internal/kinematic"
)

const (
	Kinematic = "kinematic"
	ODE       = "ode"
)

// New returns a fresh engine and a robot builder for kind. The empty kind
// selects the kinematic backend.
func New(kind string, dims biped.Dimensions) (engine.Engine, engine.ModelBuilder, error) {
	switch kind {
	case "", Kinematic:
		return kinematic.New(), kinematic.NewBuilder(dims), nil
	case ODE:
		return newODE(dims)
	default:
		return nil, nil, fmt.Errorf("%w: %s", biped.ErrUnknownEngine, kind)
	}
}

// Available lists the backends compiled into this binary.
func Available() []string {
	names := []string{Kinematic}
	if odeAvailable {
		names = append(names, ODE)
	}
	sort.Strings(names)
	return names
}
