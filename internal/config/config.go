package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/contact"
	"github.com/san-kum/bipedsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEngine = "kinematic"
	DefaultTicks  = 600
)

type Config struct {
	Engine     string           `yaml:"engine"`
	Ticks      int              `yaml:"ticks"`
	Dt         float64          `yaml:"dt"`
	Controller ControllerConfig `yaml:"controller"`
	World      WorldConfig      `yaml:"world"`
	Contact    ContactConfig    `yaml:"contact"`
	Pose       PoseConfig       `yaml:"pose"`
	// Trajectory is an optional CSV of per-tick poses.
	Trajectory string           `yaml:"trajectory,omitempty"`
	Robot      biped.Dimensions `yaml:"robot"`
	View       ViewConfig       `yaml:"view"`
}

type ControllerConfig struct {
	K1   float64 `yaml:"k1"`
	FMax float64 `yaml:"fmax"`
}

type WorldConfig struct {
	Gravity mgl64.Vec3 `yaml:"gravity"`
	ERP     float64    `yaml:"erp"`
	CFM     float64    `yaml:"cfm"`
}

type ContactConfig struct {
	MaxPoints   int     `yaml:"max_points"`
	Mu          float64 `yaml:"mu"` // .inf for no slip
	SoftERP     float64 `yaml:"soft_erp"`
	SoftCFM     float64 `yaml:"soft_cfm"`
	SelfContact string  `yaml:"self_contact"` // flag | resolve
}

// PoseConfig holds target degrees per leg, hip yaw first.
type PoseConfig struct {
	Right [biped.JointsPerLeg]float64 `yaml:"right"`
	Left  [biped.JointsPerLeg]float64 `yaml:"left"`
}

func (p PoseConfig) Pose() biped.Pose { return biped.PoseFromLegs(p.Right, p.Left) }

type ViewConfig struct {
	XYZ mgl64.Vec3 `yaml:"xyz"`
	HPR mgl64.Vec3 `yaml:"hpr"`
}

func DefaultConfig() *Config {
	opts := sim.DefaultOptions()
	return &Config{
		Engine: DefaultEngine,
		Ticks:  DefaultTicks,
		Dt:     opts.Dt,
		Controller: ControllerConfig{
			K1:   opts.K1,
			FMax: opts.FMax,
		},
		World: WorldConfig{
			Gravity: opts.Gravity,
			ERP:     opts.ERP,
			CFM:     opts.CFM,
		},
		Contact: ContactConfig{
			MaxPoints:   contact.DefaultMaxPoints,
			Mu:          math.Inf(1),
			SoftERP:     contact.DefaultSoftERP,
			SoftCFM:     contact.DefaultSoftCFM,
			SelfContact: contact.FlagOnly.String(),
		},
		Robot: biped.DefaultDimensions(),
		View: ViewConfig{
			XYZ: opts.ViewXYZ,
			HPR: opts.ViewHPR,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Engine {
	case "kinematic", "ode":
	default:
		return fmt.Errorf("%w: %s", biped.ErrUnknownEngine, c.Engine)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: got %g", biped.ErrInvalidTimestep, c.Dt)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	if !(c.Controller.K1 > 0) || !(c.Controller.FMax > 0) {
		return fmt.Errorf("%w: k1=%g fmax=%g", biped.ErrInvalidGain, c.Controller.K1, c.Controller.FMax)
	}
	if c.Contact.MaxPoints <= 0 {
		return fmt.Errorf("contact max_points must be positive, got %d", c.Contact.MaxPoints)
	}
	if c.Contact.SoftERP < 0 || c.Contact.SoftERP > 1 || c.Contact.SoftCFM < 0 {
		return fmt.Errorf("contact softness out of range: erp=%g cfm=%g", c.Contact.SoftERP, c.Contact.SoftCFM)
	}
	if _, err := contact.ParsePolicy(c.Contact.SelfContact); err != nil {
		return err
	}
	if err := c.Pose.Pose().Validate(); err != nil {
		return err
	}
	return c.Robot.Validate()
}

// ToOptions validates c and converts it into simulation options. The
// trajectory file, when set, is loaded here.
func (c *Config) ToOptions() (sim.Options, error) {
	if err := c.Validate(); err != nil {
		return sim.Options{}, err
	}
	policy, _ := contact.ParsePolicy(c.Contact.SelfContact)

	opts := sim.DefaultOptions()
	opts.Dt = c.Dt
	opts.Gravity = c.World.Gravity
	opts.ERP = c.World.ERP
	opts.CFM = c.World.CFM
	opts.K1 = c.Controller.K1
	opts.FMax = c.Controller.FMax
	opts.Contact.MaxPoints = c.Contact.MaxPoints
	opts.Contact.Surface.Mu = c.Contact.Mu
	opts.Contact.Surface.SoftERP = c.Contact.SoftERP
	opts.Contact.Surface.SoftCFM = c.Contact.SoftCFM
	opts.Contact.Policy = policy
	opts.Pose = c.Pose.Pose()
	opts.ViewXYZ = c.View.XYZ
	opts.ViewHPR = c.View.HPR

	if c.Trajectory != "" {
		traj, err := LoadTrajectory(c.Trajectory)
		if err != nil {
			return sim.Options{}, err
		}
		opts.Trajectory = traj
	}
	return opts, nil
}
