package sim

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/contact"
)

const (
	DefaultDt  = 0.01
	DefaultERP = 0.95
	DefaultCFM = 1e-5
)

// Options configures a Lifecycle.
type Options struct {
	Dt       float64
	Gravity  mgl64.Vec3
	ERP      float64
	CFM      float64
	K1, FMax float64
	Contact  contact.Options
	// MaxGroupContacts sizes the contact group; 0 lets it grow.
	MaxGroupContacts int
	Pose             biped.Pose
	Trajectory       biped.Trajectory
	ViewXYZ, ViewHPR mgl64.Vec3
	Logger           *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Dt:      DefaultDt,
		Gravity: mgl64.Vec3{0, 0, -9.8},
		ERP:     DefaultERP,
		CFM:     DefaultCFM,
		K1:      biped.DefaultK1,
		FMax:    biped.DefaultFMax,
		Contact: contact.DefaultOptions(),
		ViewXYZ: mgl64.Vec3{1.8, 0, 0.8},
		ViewHPR: mgl64.Vec3{180, 0, 0},
	}
}
