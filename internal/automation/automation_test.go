package automation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/config"
	"github.com/san-kum/bipedsim/internal/sim"
)

var quiet = log.New(io.Discard)

const scenarioYAML = `
name: stance
description: stand then crouch
steps:
  - name: stand
    preset: canonical
  - name: crouch
    preset: crouch
    ticks: 50
    k1: 8
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "stance" || len(sc.Steps) != 2 {
		t.Fatalf("got %+v", sc)
	}
	if sc.Steps[1].Ticks != 50 || sc.Steps[1].K1 != 8 {
		t.Errorf("step overrides not parsed: %+v", sc.Steps[1])
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepApply(t *testing.T) {
	base := config.DefaultConfig()
	cfg, err := ScenarioStep{Preset: "crouch", Ticks: 10, K1: 5}.Apply(base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ticks != 10 || cfg.Controller.K1 != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Controller.FMax != base.Controller.FMax {
		t.Error("unset field changed")
	}
	if cfg.Pose != config.Presets["crouch"].Pose {
		t.Error("preset pose not applied")
	}
	if base.Ticks == 10 {
		t.Error("base modified")
	}

	if _, err := (ScenarioStep{Preset: "moonwalk"}).Apply(base); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestRunScenarioWithKinematicEngine(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	base := config.DefaultConfig()
	base.Ticks = 100

	results, err := RunScenario(context.Background(), sc, base, SimRunner(quiet), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Result.Steps != 100 || results[1].Result.Steps != 50 {
		t.Errorf("steps = %d, %d", results[0].Result.Steps, results[1].Result.Steps)
	}
	if results[0].Result.SelfCollision {
		t.Error("standing pose collided with itself")
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	run := func(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return &sim.Result{Steps: cfg.Ticks}, nil
	}
	sc := &Scenario{Steps: []ScenarioStep{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	results, err := RunScenario(context.Background(), sc, config.DefaultConfig(), run, quiet)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if len(results) != 1 || calls != 2 {
		t.Errorf("results = %d, calls = %d", len(results), calls)
	}
}

func TestMonteCarloPerturbsWithinBounds(t *testing.T) {
	var poses []config.PoseConfig
	run := func(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
		poses = append(poses, cfg.Pose)
		return &sim.Result{SelfCollision: len(poses)%2 == 0, Metrics: map[string]float64{}}, nil
	}
	// Workers left at zero runs trials one at a time.
	mc := &MonteCarloConfig{Base: config.DefaultConfig(), Perturbation: 5, NumTrials: 6, Seed: 7}
	results, err := RunMonteCarlo(context.Background(), mc, run, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 6 {
		t.Fatalf("results = %d", len(results))
	}
	for _, p := range poses {
		for j := 0; j < biped.JointsPerLeg; j++ {
			if p.Right[j] < -5 || p.Right[j] > 5 || p.Left[j] < -5 || p.Left[j] > 5 {
				t.Fatalf("perturbation out of range: %+v", p)
			}
		}
	}
	if poses[0] == poses[1] {
		t.Error("trials share a pose")
	}
	clean, collided := MonteCarloStats(results)
	if clean != 3 || collided != 3 {
		t.Errorf("clean = %d, collided = %d", clean, collided)
	}
	if mc.Base.Pose != (config.PoseConfig{}) {
		t.Error("base pose modified")
	}
}

func TestMonteCarloParallelMatchesSerial(t *testing.T) {
	base := config.DefaultConfig()
	base.Ticks = 20
	serial, err := RunMonteCarlo(context.Background(),
		&MonteCarloConfig{Base: base, Perturbation: 10, NumTrials: 4, Seed: 3, Workers: 1}, SimRunner(quiet), quiet)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := RunMonteCarlo(context.Background(),
		&MonteCarloConfig{Base: base, Perturbation: 10, NumTrials: 4, Seed: 3, Workers: 4}, SimRunner(quiet), quiet)
	if err != nil {
		t.Fatal(err)
	}
	for i := range serial {
		if serial[i].TrialID != i || parallel[i].TrialID != i {
			t.Fatalf("trial ids out of order at %d", i)
		}
		if serial[i].SelfCollision != parallel[i].SelfCollision ||
			serial[i].TrackingRMS != parallel[i].TrackingRMS {
			t.Errorf("trial %d differs: %+v vs %+v", i, serial[i], parallel[i])
		}
	}
}
