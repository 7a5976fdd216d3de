// Package automation runs batches of simulations: scripted scenarios
// and randomised target poses.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/bipedsim/internal/backend"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/config"
	"github.com/san-kum/bipedsim/internal/metrics"
	"github.com/san-kum/bipedsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Runner runs one headless simulation for cfg.
type Runner func(ctx context.Context, cfg *config.Config) (*sim.Result, error)

// SimRunner builds a fresh engine per call and records the standard
// metrics.
func SimRunner(logger *log.Logger) Runner {
	return func(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
		opts, err := cfg.ToOptions()
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
		eng, builder, err := backend.New(cfg.Engine, cfg.Robot)
		if err != nil {
			return nil, err
		}
		return sim.Run(ctx, eng, builder, sim.NopRenderer{}, &sim.FixedLoop{Ticks: cfg.Ticks}, opts,
			metrics.Observers(metrics.Standard())...)
	}
}

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base configuration for one run. Zero values
// keep the base setting.
type ScenarioStep struct {
	Name        string  `yaml:"name"`
	Preset      string  `yaml:"preset"`
	Engine      string  `yaml:"engine"`
	Ticks       int     `yaml:"ticks"`
	K1          float64 `yaml:"k1"`
	FMax        float64 `yaml:"fmax"`
	SelfContact string  `yaml:"self_contact"`
	Trajectory  string  `yaml:"trajectory"`
}

type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Apply returns a copy of base with the step's overrides.
func (s ScenarioStep) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg.Pose = p.Pose
	}
	if s.Engine != "" {
		cfg.Engine = s.Engine
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.K1 > 0 {
		cfg.Controller.K1 = s.K1
	}
	if s.FMax > 0 {
		cfg.Controller.FMax = s.FMax
	}
	if s.SelfContact != "" {
		cfg.Contact.SelfContact = s.SelfContact
	}
	if s.Trajectory != "" {
		cfg.Trajectory = s.Trajectory
	}
	return &cfg, nil
}

// RunScenario executes all steps in order. Results of the steps that
// finished are returned along with the first error.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, run Runner, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "n", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)), "name", step.Name)

		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Step: step, Result: res})
	}

	return results, nil
}

// MonteCarloConfig perturbs every joint target of the base pose
// uniformly by up to Perturbation degrees. Workers bounds the trials run
// at once; the ode engine always runs one at a time.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Workers      int
}

type MonteCarloResult struct {
	TrialID       int
	Pose          biped.Pose
	SelfCollision bool
	FirstStep     int
	TrackingRMS   float64
}

// RunMonteCarlo executes trials with random target poses. Poses are drawn
// up front so a seed gives the same trials for any worker count.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, run Runner, logger *log.Logger) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	configs := make([]*config.Config, cfg.NumTrials)
	for trial := range configs {
		trialCfg := *cfg.Base
		right, left := trialCfg.Pose.Right, trialCfg.Pose.Left
		for j := range right {
			right[j] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			left[j] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		trialCfg.Pose = config.PoseConfig{Right: right, Left: left}
		configs[trial] = &trialCfg
	}

	workers := cfg.Workers
	if workers < 1 || cfg.Base.Engine == backend.ODE {
		workers = 1
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)
	var done atomic.Int64

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for trial := range configs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := run(ctx, configs[idx])
			if err != nil {
				errs[idx] = fmt.Errorf("trial %d: %w", idx, err)
				return
			}
			results[idx] = MonteCarloResult{
				TrialID:       idx,
				Pose:          configs[idx].Pose.Pose(),
				SelfCollision: res.SelfCollision,
				FirstStep:     res.FirstSelfCollision,
				TrackingRMS:   res.Metrics["tracking_rms_deg"],
			}
			if n := done.Add(1); n%10 == 0 {
				logger.Info("monte carlo", "done", n, "of", cfg.NumTrials)
			}
		}(trial)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// MonteCarloStats counts trials that stayed clear of self contact.
func MonteCarloStats(results []MonteCarloResult) (clean int, collided int) {
	for _, r := range results {
		if r.SelfCollision {
			collided++
		} else {
			clean++
		}
	}
	return
}
