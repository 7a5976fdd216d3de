//go:build !ode

package backend

import (
	"fmt"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/engine"
)

const odeAvailable = false

func newODE(_ biped.Dimensions) (engine.Engine, engine.ModelBuilder, error) {
	return nil, nil, fmt.Errorf("%w: ode backend unavailable in this build; rebuild with -tags ode", biped.ErrUnknownEngine)
}
