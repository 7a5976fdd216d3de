//go:build ode

package backend

import (
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
	"github.com/san-kum/bipedsim/internal/odeengine"
)

const odeAvailable = true

func newODE(dims biped.Dimensions) (engine.Engine, engine.ModelBuilder, error) {
	return odeengine.New(), odeengine.NewBuilder(dims), nil
}
