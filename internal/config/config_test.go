package config

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/contact"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "kinematic" {
		t.Errorf("expected engine kinematic, got %s", cfg.Engine)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("expected dt 0.01, got %f", cfg.Dt)
	}
	if cfg.Controller.K1 != 10 || cfg.Controller.FMax != 100 {
		t.Errorf("unexpected controller %+v", cfg.Controller)
	}
	if !math.IsInf(cfg.Contact.Mu, 1) {
		t.Errorf("expected infinite friction, got %f", cfg.Contact.Mu)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSaveLoadKeepsInfiniteFriction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := DefaultConfig()
	cfg.Pose.Left[3] = 25
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !math.IsInf(loaded.Contact.Mu, 1) {
		t.Errorf("mu %f after reload", loaded.Contact.Mu)
	}
	if loaded.Pose.Left[3] != 25 {
		t.Errorf("left knee %f after reload", loaded.Pose.Left[3])
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	doc := "engine: kinematic\nticks: 50\ncontroller:\n  k1: 4\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Ticks != 50 || cfg.Controller.K1 != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Controller.FMax != 100 || cfg.World.ERP != 0.95 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"unknown engine", func(c *Config) { c.Engine = "bullet" }, biped.ErrUnknownEngine},
		{"zero dt", func(c *Config) { c.Dt = 0 }, biped.ErrInvalidTimestep},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }, biped.ErrInvalidTimestep},
		{"zero gain", func(c *Config) { c.Controller.K1 = 0 }, biped.ErrInvalidGain},
		{"nan target", func(c *Config) { c.Pose.Right[0] = math.NaN() }, biped.ErrInvalidTarget},
		{"bad policy", func(c *Config) { c.Contact.SelfContact = "ignore" }, nil},
		{"no contact points", func(c *Config) { c.Contact.MaxPoints = 0 }, nil},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }, nil},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.target != nil && !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
	}
}

func TestToOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Contact.SelfContact = "resolve"
	cfg.Pose.Right[biped.KneePitch] = 40

	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions: %v", err)
	}
	if opts.Contact.Policy != contact.Resolve {
		t.Errorf("policy %v", opts.Contact.Policy)
	}
	if opts.Pose[biped.K(biped.Right, biped.KneePitch)] != 40 {
		t.Errorf("pose not carried: %v", opts.Pose)
	}
	if opts.ViewXYZ[0] != 1.8 || opts.ViewHPR[0] != 180 {
		t.Errorf("view %v %v", opts.ViewXYZ, opts.ViewHPR)
	}
	if opts.Trajectory != nil {
		t.Error("unexpected trajectory")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("crouch")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Pose.Right[biped.KneePitch] != 60 {
		t.Errorf("expected knee 60, got %f", cfg.Pose.Right[biped.KneePitch])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("crouch invalid: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	if cfg := GetPreset("canonical"); cfg == nil || cfg.Pose.Pose()[biped.K(biped.Left, biped.HipYaw)] != 0 {
		t.Error("canonical preset should be all zero")
	}
}

func TestReadTrajectory(t *testing.T) {
	in := "right.knee_pitch,left.knee_pitch\n10,0\n20,5\n"
	traj, err := ReadTrajectory(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(traj) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(traj))
	}
	if traj[1][biped.K(biped.Right, biped.KneePitch)] != 20 {
		t.Errorf("row 1: %v", traj[1])
	}
	if traj[0][biped.K(biped.Left, biped.HipYaw)] != 0 {
		t.Error("unnamed joints should be zero")
	}
}

func TestReadTrajectoryErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", "right.hip_yaw\n"},
		{"unknown joint", "right.elbow\n1\n"},
		{"bad number", "right.hip_yaw\nabc\n"},
		{"infinite", "right.hip_yaw\n+Inf\n"},
	}
	for _, tt := range tests {
		if _, err := ReadTrajectory(strings.NewReader(tt.in)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestWriteTrajectoryRoundTrip(t *testing.T) {
	row := biped.ZeroPose()
	row[biped.K(biped.Left, biped.AnkleRoll)] = -7.5
	var buf bytes.Buffer
	if err := WriteTrajectory(&buf, biped.Trajectory{row}); err != nil {
		t.Fatal(err)
	}
	traj, err := ReadTrajectory(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if traj[0][biped.K(biped.Left, biped.AnkleRoll)] != -7.5 {
		t.Errorf("got %v", traj[0])
	}
}

func TestToOptionsLoadsTrajectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.csv")
	if err := os.WriteFile(path, []byte("left.hip_pitch\n-5\n-10\n-15\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Trajectory = path
	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions: %v", err)
	}
	if len(opts.Trajectory) != 3 {
		t.Errorf("expected 3 rows, got %d", len(opts.Trajectory))
	}
}
