package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bipedsim/internal/analysis"
	"github.com/san-kum/bipedsim/internal/automation"
	"github.com/san-kum/bipedsim/internal/backend"
	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/config"
	"github.com/san-kum/bipedsim/internal/engine"
	"github.com/san-kum/bipedsim/internal/export"
	"github.com/san-kum/bipedsim/internal/metrics"
	"github.com/san-kum/bipedsim/internal/optim"
	"github.com/san-kum/bipedsim/internal/sim"
	"github.com/san-kum/bipedsim/internal/storage"
	"github.com/san-kum/bipedsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	storeKind  string
	verbose    bool
	configFile string
	preset     string
	engineName string
	ticks      int
	dt         float64
	k1         float64
	fMax       float64
	selfPolicy string
	trajectory string
	noSave     bool
	show       bool
	frameRate  int
	theme      string
	joints     []string
	pngOut     string
	pngWidth   float64
	pngHeight  float64
	k1Range    []float64
	fMaxValues []float64
	settleTol  float64
	trials     int
	perturb    float64
	seed       int64
	workers    int
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "bipedsim",
})

func main() {
	rootCmd := &cobra.Command{
		Use:   "bipedsim",
		Short: "biped joint control and contact simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run store location (directory, or database file for sqlite)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "dir", "run store backend: dir or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of frames")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&show, "show", false, "print the final frame")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the live terminal view (space pauses, q quits)",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&ticks, "ticks", 0, "stop after this many frames (0 runs until quit)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")
	liveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot joint angles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&joints, "joint", nil, "joints to plot, e.g. right.knee_pitch (default: both knees)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render joint angles of a run to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringSliceVar(&joints, "joint", nil, "joints to plot (default: both knees)")
	exportPNGCmd.Flags().StringVarP(&pngOut, "output", "o", "", "output file (default <run_id>.png)")
	exportPNGCmd.Flags().Float64Var(&pngWidth, "width", 8, "width in inches")
	exportPNGCmd.Flags().Float64Var(&pngHeight, "height", 4, "height in inches")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list target pose presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "list physics engines compiled into this binary",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range backend.Available() {
				fmt.Println(name)
			}
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search servo gain and force cap for lowest tracking error",
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "frames per trial")
	tuneCmd.Flags().Float64SliceVar(&k1Range, "k1-range", []float64{2, 20, 7}, "k1 grid as lo,hi,count")
	tuneCmd.Flags().Float64SliceVar(&fMaxValues, "fmax-values", []float64{biped.DefaultFMax}, "force caps to try")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling and oscillation of recorded joints",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&joints, "joint", nil, "joints to analyze (default: both knees)")
	analyzeCmd.Flags().Float64Var(&settleTol, "tol", 1, "settling tolerance in degrees")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)
	scenarioCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "frames per step unless the step sets ticks")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "random target poses around the base pose; counts self collisions",
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&ticks, "ticks", 300, "frames per trial")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 20, "maximum target perturbation in degrees")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "trials run at once")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, exportCmd, exportPNGCmd, presetsCmd, enginesCmd,
		tuneCmd, analyzeCmd, scenarioCmd, monteCarloCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "target pose preset")
	cmd.Flags().StringVar(&engineName, "engine", config.DefaultEngine, "physics engine")
	cmd.Flags().Float64Var(&dt, "dt", sim.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&k1, "k1", biped.DefaultK1, "servo gain")
	cmd.Flags().Float64Var(&fMax, "fmax", biped.DefaultFMax, "joint force cap")
	cmd.Flags().StringVar(&selfPolicy, "self-contact", "flag", "self contact policy: flag or resolve")
	cmd.Flags().StringVar(&trajectory, "trajectory", "", "CSV of per-tick target poses")
}

// loadConfig starts from the defaults, applies the config file, then the
// preset pose, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Pose = p.Pose
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engineName
	}
	if flags.Changed("ticks") && ticks > 0 {
		cfg.Ticks = ticks
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("k1") {
		cfg.Controller.K1 = k1
	}
	if flags.Changed("fmax") {
		cfg.Controller.FMax = fMax
	}
	if flags.Changed("self-contact") {
		cfg.Contact.SelfContact = selfPolicy
	}
	if flags.Changed("trajectory") {
		cfg.Trajectory = trajectory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type setup struct {
	cfg     *config.Config
	eng     engine.Engine
	builder engine.ModelBuilder
	opts    sim.Options
}

func prepare(cmd *cobra.Command) (*setup, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ToOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	eng, builder, err := backend.New(cfg.Engine, cfg.Robot)
	if err != nil {
		return nil, err
	}
	logger.Debug("engine selected", "engine", cfg.Engine, "dt", cfg.Dt, "k1", cfg.Controller.K1)
	return &setup{cfg: cfg, eng: eng, builder: builder, opts: opts}, nil
}

func openStore(ctx context.Context) (storage.Store, error) {
	path := dataDir
	if storeKind == "sqlite" && path == "" {
		path = ".bipedsim/runs.db"
	}
	st, err := storage.NewStore(storeKind, path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func saveRun(ctx context.Context, s *setup, res *sim.Result, tr *metrics.Trace) (string, error) {
	st, err := openStore(ctx)
	if err != nil {
		return "", err
	}
	defer storage.CloseIfSupported(st)

	meta := storage.RunMetadata{
		Engine:             s.cfg.Engine,
		Preset:             preset,
		Timestamp:          time.Now(),
		Dt:                 s.cfg.Dt,
		Ticks:              s.cfg.Ticks,
		Steps:              res.Steps,
		K1:                 s.cfg.Controller.K1,
		FMax:               s.cfg.Controller.FMax,
		SelfContact:        s.opts.Contact.Policy.String(),
		SelfCollision:      res.SelfCollision,
		FirstSelfCollision: res.FirstSelfCollision,
		Metrics:            res.Metrics,
	}
	id, err := st.Save(ctx, meta, tr)
	if err != nil {
		return "", err
	}
	logger.Info("run saved", "id", id)
	return id, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := prepare(cmd)
	if err != nil {
		return err
	}

	var renderer engine.Renderer = sim.NopRenderer{}
	var frame *viz.Renderer
	if show {
		frame = viz.NewRenderer(s.cfg.Robot, 40, 20)
		renderer = frame
	}

	trace := metrics.NewTrace()
	loop := &sim.FixedLoop{Ticks: s.cfg.Ticks}

	fmt.Printf("running %d ticks on %s...\n", s.cfg.Ticks, s.cfg.Engine)
	start := time.Now()
	res, err := sim.Run(ctx, s.eng, s.builder, renderer, loop, s.opts, metrics.Observers(metrics.Standard(), trace)...)
	if err != nil && res == nil {
		return err
	}
	elapsed := time.Since(start)

	if frame != nil {
		fmt.Println(frame.Frame())
	}
	printResult(res, elapsed)

	if !noSave {
		id, saveErr := saveRun(ctx, s, res, trace)
		if saveErr != nil {
			return saveErr
		}
		fmt.Printf("run id: %s\n", id)
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := prepare(cmd)
	if err != nil {
		return err
	}

	renderer := viz.NewRenderer(s.cfg.Robot, 40, 20)
	l, err := sim.Start(s.eng, s.builder, renderer, s.opts)
	if err != nil {
		return err
	}
	defer l.Close()

	trace := metrics.NewTrace()
	ms := metrics.Standard()
	for _, o := range metrics.Observers(ms, trace) {
		l.Driver().AddObserver(o)
	}

	loop := &viz.LiveLoop{
		Driver:   l.Driver(),
		Tuner:    l.Driver().Servo(),
		Renderer: renderer,
		Title:    fmt.Sprintf("bipedsim / %s", s.cfg.Engine),
		FPS:      frameRate,
		MaxTicks: ticks,
		Theme:    viz.GetTheme(theme),
	}
	runErr := l.Run(ctx, loop)
	res := l.Driver().Result()
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	printResult(res, 0)

	if noSave || res.Steps == 0 {
		return nil
	}
	s.cfg.Controller.K1 = l.Driver().Servo().GetParams()["k1"]
	id, err := saveRun(context.Background(), s, res, trace)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", id)
	return nil
}

func printResult(res *sim.Result, elapsed time.Duration) {
	flag := lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")).Render("no")
	if res.SelfCollision {
		flag = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")).Bold(true).
			Render(fmt.Sprintf("yes (first at step %d)", res.FirstSelfCollision))
	}
	if elapsed > 0 {
		fmt.Printf("completed in %v\n", elapsed)
	}
	fmt.Printf("steps: %d (%.2fs simulated)\n", res.Steps, res.SimTime)
	fmt.Printf("self collision: %s\n", flag)
	fmt.Printf("contacts: %d ground pairs, %d points, %d self pairs, %d jointed pairs skipped\n",
		res.Contacts.Ground, res.Contacts.Points, res.Contacts.Self, res.Contacts.Jointed)
	printMetrics(res.Metrics)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(st)

	runs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENGINE\tTIME\tSTEPS\tDT\tK1\tSELF")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%.2f\t%v\n",
			run.ID,
			run.Engine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.K1,
			run.SelfCollision,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(st)

	meta, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "engine\t%s\n", meta.Engine)
	if meta.Preset != "" {
		fmt.Fprintf(w, "preset\t%s\n", meta.Preset)
	}
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "steps\t%d of %d\n", meta.Steps, meta.Ticks)
	fmt.Fprintf(w, "dt\t%.4fs\n", meta.Dt)
	fmt.Fprintf(w, "k1 / fmax\t%.2f / %.1f\n", meta.K1, meta.FMax)
	fmt.Fprintf(w, "self contact\t%s\n", meta.SelfContact)
	if meta.SelfCollision {
		fmt.Fprintf(w, "self collision\tyes, step %d\n", meta.FirstSelfCollision)
	} else {
		fmt.Fprintf(w, "self collision\tno\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printMetrics(meta.Metrics)
	return nil
}

func selectedJoints() ([]biped.Key, error) {
	if len(joints) == 0 {
		return []biped.Key{
			biped.K(biped.Right, biped.KneePitch),
			biped.K(biped.Left, biped.KneePitch),
		}, nil
	}
	keys := make([]biped.Key, 0, len(joints))
	for _, name := range joints {
		k, err := biped.ParseKey(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func loadRun(ctx context.Context, runID string) (*storage.RunMetadata, *metrics.Trace, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer storage.CloseIfSupported(st)

	meta, err := st.Load(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrace(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	if tr.Len() == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	keys, err := selectedJoints()
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("engine: %s\n", meta.Engine)
	fmt.Printf("samples: %d\n\n", tr.Len())

	for _, k := range keys {
		data := tr.Series(k)
		if data == nil {
			return fmt.Errorf("joint %s not recorded", k)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s angle [deg]", k)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return export.JSON(os.Stdout, *meta, tr)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	keys, err := selectedJoints()
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p, err := export.JointPlot(tr, keys, meta.ID)
	if err != nil {
		return err
	}
	out := pngOut
	if out == "" {
		out = meta.ID + ".png"
	}
	if err := export.SavePNG(p, pngWidth, pngHeight, out); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	if len(k1Range) != 3 || k1Range[2] < 1 {
		return fmt.Errorf("--k1-range wants lo,hi,count")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eval := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		trial := *cfg
		trial.Controller.K1 = params["k1"]
		trial.Controller.FMax = params["fmax"]
		opts, err := trial.ToOptions()
		if err != nil {
			return nil, err
		}
		opts.Logger = logger.With("k1", params["k1"], "fmax", params["fmax"])
		eng, builder, err := backend.New(trial.Engine, trial.Robot)
		if err != nil {
			return nil, err
		}
		res, err := sim.Run(ctx, eng, builder, sim.NopRenderer{}, &sim.FixedLoop{Ticks: trial.Ticks}, opts,
			metrics.Observers(metrics.Standard())...)
		if err != nil {
			return nil, err
		}
		if res.SelfCollision {
			logger.Warn("trial collided with itself", "k1", params["k1"], "fmax", params["fmax"], "step", res.FirstSelfCollision)
			return nil, nil
		}
		return res.Metrics, nil
	}

	g := optim.NewGridSearch([]string{"k1", "fmax"}, [][]float64{
		optim.Range(k1Range[0], k1Range[1], int(k1Range[2])),
		fMaxValues,
	})
	const metric = "tracking_rms_deg"
	best, val, err := g.Search(cmd.Context(), eval, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K1\tFMAX\tTRACKING RMS [deg]")
	for _, t := range g.Trials() {
		fmt.Fprintf(w, "%.3f\t%.1f\t%.4f\n", t.Params["k1"], t.Params["fmax"], t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: k1=%.3f fmax=%.1f (%s %.4f)\n", best["k1"], best["fmax"], metric, val)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	keys, err := selectedJoints()
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%d samples, dt %.4fs)\n\n", meta.ID, tr.Len(), meta.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOINT\tFINAL\tTARGET\tSETTLED AT\tOVERSHOOT\tPEAK FREQ\tAMPLITUDE")
	for _, k := range keys {
		angles := tr.Series(k)
		targets := tr.TargetSeries(k)
		if len(angles) == 0 || len(targets) == 0 {
			return fmt.Errorf("joint %s not recorded", k)
		}
		target := targets[len(targets)-1]
		settled := "never"
		if i := analysis.SettlingStep(angles, targets, settleTol); i >= 0 {
			settled = fmt.Sprintf("%.2fs", tr.Times[i])
		}
		freq, amp := analysis.DominantFrequency(angles, meta.Dt)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%.2f\t%.2fHz\t%.3f\n",
			k, angles[len(angles)-1], target, settled, analysis.Overshoot(angles, target), freq, amp)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), sc, base, automation.SimRunner(logger), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSTEPS\tSELF\tTRACKING RMS\tEFFORT")
	for i, r := range results {
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.4f\t%.4f\n", name, r.Result.Steps, r.Result.SelfCollision,
			r.Result.Metrics["tracking_rms_deg"], r.Result.Metrics["control_effort"])
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
		Workers:      workers,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, automation.SimRunner(logger), logger)
	if err != nil {
		return err
	}

	clean, collided := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d, clean: %d, self collision: %d\n", len(results), clean, collided)
	for _, r := range results {
		if !r.SelfCollision {
			continue
		}
		right, left := r.Pose.Legs()
		fmt.Printf("  trial %d collided at step %d\n    right %v\n    left  %v\n", r.TrialID, r.FirstStep,
			roundDegrees(right), roundDegrees(left))
	}
	return nil
}

func roundDegrees(a [biped.JointsPerLeg]float64) [biped.JointsPerLeg]float64 {
	for i := range a {
		a[i] = math.Round(a[i]*10) / 10
	}
	return a
}
