package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spherebox/internal/analysis"
	"github.com/san-kum/spherebox/internal/audio"
	"github.com/san-kum/spherebox/internal/automation"
	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/gui"
	"github.com/san-kum/spherebox/internal/integrators"
	"github.com/san-kum/spherebox/internal/logging"
	"github.com/san-kum/spherebox/internal/metrics"
	"github.com/san-kum/spherebox/internal/optim"
	"github.com/san-kum/spherebox/internal/physics"
	"github.com/san-kum/spherebox/internal/sim"
	"github.com/san-kum/spherebox/internal/sphere"
	"github.com/san-kum/spherebox/internal/storage"
	"github.com/san-kum/spherebox/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger

	preset     string
	configFile string
	numSpheres int
	integrator string
	field      string
	dt         float64
	duration   float64
	seed       int64
	noSave     bool

	theme     string
	sound     bool
	rankBy    string
	limit     int
	frameIdx  int
	svgPath   string
	numRuns   int
	seedStart int64
	sphereIdx int
	axis      int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	gridSpecs  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spherebox",
		Short: "spheres bouncing in a box",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(viz.NewMenu(theme))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spherebox", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&theme, "theme", "retro", "live view theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "retro", "theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "play a pad and a ping per contact")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&rankBy, "by", "", "rank runs by a metric")
	listCmd.Flags().IntVar(&limit, "limit", 10, "number of ranked runs")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sphere coordinates and energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "draw one recorded frame",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index, negative counts from the end")
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the frame as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce spectrum, phase portrait, speeds and divergence",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&sphereIdx, "sphere", 0, "sphere index")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "axis (0=x, 1=y, 2=z)")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "3D window with raylib",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
				if config.GetPreset(name) == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
				}
			}
			synth, stop := startSound()
			defer stop()
			var s gui.Sonifier
			if synth != nil {
				s = synth
			}
			gui.Run(name, s)
			return nil
		},
	}
	guiCmd.Flags().BoolVar(&sound, "sound", false, "play a pad and a ping per contact")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one setting and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "drag", "setting or field parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to plot")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search for the settings minimising a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "grid axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.Presets[name]
				fmt.Printf("  %-10s %d spheres, %s, field %s\n", name, cfg.Spheres.Count, cfg.Integrator, cfg.Field.Name)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare integrators on the same configuration",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addSimFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration over many seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, snapshotCmd, analyzeCmd, scenarioCmd, sweepCmd, tuneCmd, presetsCmd, benchCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&numSpheres, "spheres", config.DefaultSpheres, "number of spheres")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().StringVar(&field, "field", "none", "force field, fields combine with + ("+strings.Join(physics.Names(), ", ")+")")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
}

// resolveConfig layers the preset, the config file and any flags the user
// set, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("spheres") {
		cfg.Spheres.Count = numSpheres
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("field") {
		cfg.Field.Name = field
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	motion, runCfg, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	s := sim.New(motion)
	s.SetLogger(logger)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d spheres (%s, field %s)...\n", cfg.Spheres.Count, cfg.Integrator, cfg.Field.Name)
	start := time.Now()
	result, runErr := s.Run(ctx, runCfg)
	elapsed := time.Since(start)

	var re *sim.RunError
	if runErr != nil && !errors.As(runErr, &re) {
		return runErr
	}
	if re != nil {
		logger.Warn("run stopped early", "step", re.Step, "time", re.Time, "err", re.Wrapped)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Default() {
		if v, ok := result.Metrics[m.Name()]; ok {
			fmt.Printf("  %s: %.6f\n", m.Name(), v)
		}
	}

	if !noSave {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		runID, err := st.Save(name, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return runErr
}

// openStore opens the run directory together with its catalog.
func openStore() (*storage.Store, func(), error) {
	st := storage.New(dataDir)
	st.SetLogger(logger)
	if err := st.Init(); err != nil {
		return nil, nil, err
	}
	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return nil, nil, err
	}
	st.SetCatalog(cat)
	return st, func() {
		if err := cat.Close(); err != nil {
			logger.Warn("closing catalog", "err", err)
		}
	}, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	synth, stop := startSound()
	defer stop()
	var sonifier viz.Sonifier
	if synth != nil {
		sonifier = synth
	}

	if len(args) == 0 {
		return viz.Run(viz.NewMenu(theme).WithSound(sonifier))
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	motion, runCfg, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(motion, runCfg.Dt, args[0]).WithTheme(theme).WithSound(sonifier))
}

// startSound plays a synth when --sound is set. The synth is nil when
// sound is off or no audio device could be opened.
func startSound() (*audio.Synth, func()) {
	if !sound {
		return nil, func() {}
	}
	synth := audio.NewSynth()
	player := audio.NewPlayer(synth)
	if err := player.Start(); err != nil {
		logger.Warn("audio unavailable", "err", err)
		return nil, func() {}
	}
	return synth, func() {
		if err := player.Stop(); err != nil {
			logger.Warn("stopping audio", "err", err)
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	if rankBy != "" {
		return rankRuns(cmd.Context())
	}

	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSPHERES\tDURATION\tDT\tINTEG\tFIELD\tCONTACTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Spheres,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Field,
			run.Collisions,
		)
	}
	return w.Flush()
}

func rankRuns(ctx context.Context) error {
	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.Top(ctx, rankBy, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no runs with metric %s\n", rankBy)
		return nil
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00cccc")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("#", "ID", "PRESET", "INTEG", "SPHERES", "SEED", strings.ToUpper(rankBy))
	for i, e := range entries {
		t.Row(fmt.Sprint(i+1), e.ID, e.Preset, e.Integrator, fmt.Sprint(e.Spheres), fmt.Sprint(e.Seed), fmt.Sprintf("%.6g", e.Value))
	}
	fmt.Println(t)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("spheres: %d\n", meta.Spheres)
	fmt.Printf("samples: %d\n\n", len(frames))

	const maxSpheres = 3
	axes := []string{"x", "y", "z"}
	for i := 0; i < min(maxSpheres, meta.Spheres); i++ {
		series := make([][]float64, 3)
		for axis := range series {
			series[axis] = make([]float64, len(frames))
			for f, fr := range frames {
				series[axis][f] = float64(fr.Positions[i][axis])
			}
		}
		graph := asciigraph.PlotMany(series,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
			asciigraph.SeriesLegends(axes...),
			asciigraph.Caption(fmt.Sprintf("sphere %d position", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	radius := float32(config.DefaultRadius)
	if meta.Config != nil {
		radius = float32(meta.Config.Spheres.Radius)
	}
	energy := make([]float64, len(frames))
	for f, fr := range frames {
		energy[f] = frameEnergy(fr, radius)
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	return nil
}

func frameSpheres(fr sim.Frame, radius float32) []sphere.Sphere {
	out := make([]sphere.Sphere, len(fr.Positions))
	for i := range out {
		out[i] = sphere.Sphere{Pos: fr.Positions[i], Vel: fr.Velocities[i], R: radius}
	}
	return out
}

func frameEnergy(fr sim.Frame, radius float32) float64 {
	var total float64
	for _, s := range frameSpheres(fr, radius) {
		total += metrics.SphereKinetic(s)
	}
	return total
}

func snapshot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(frames))
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	box := cfg.Bounds()
	size := box.Size()
	cam := viz.NewCamera(box.Center(), max(size.X(), size.Y(), size.Z())/2)
	canvas := viz.NewCanvas(60, 24)
	viz.DrawScene(canvas, cam, box, frameSpheres(frames[idx], float32(cfg.Spheres.Radius)))

	fmt.Printf("run %s, frame %d, t=%.3fs\n", meta.ID, idx, frames[idx].Time)
	fmt.Print(canvas.String())

	if svgPath == "" {
		return nil
	}
	err = storage.ExportFile(svgPath, func(w io.Writer) error {
		_, err := io.WriteString(w, viz.CanvasToSVG(canvas, 6, "#00ff00"))
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	base, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (%d spheres, field %s, dt=%.4f, duration=%.1fs)\n\n",
		base.Spheres.Count, base.Field.Name, base.Dt, base.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tTIME\tSTEPS/SEC\tENERGY DRIFT\tCONTACTS")

	for _, name := range integrators.Names() {
		cfg := base.Clone()
		cfg.Integrator = name
		cfg.RecordEvery = cfg.Steps() + 1

		motion, runCfg, err := sim.FromConfig(cfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		s := sim.New(motion)
		drift := metrics.NewEnergyDrift()
		s.AddMetric(drift)

		start := time.Now()
		result, err := s.Run(context.Background(), runCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.3e\t%d\n",
			name, result.StepsTaken, elapsed.Round(time.Microsecond),
			float64(result.StepsTaken)/elapsed.Seconds(), drift.Value(), result.Collisions)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be positive, got %d", numRuns)
	}

	ens := sim.NewEnsemble(cfg, numRuns, seedStart, metrics.Default)
	ens.SetLogger(logger)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d...\n", numRuns, seedStart)
	start := time.Now()
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	summary := sim.Summarize(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, m := range metrics.Default() {
		s, ok := summary[m.Name()]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", m.Name(), s.Mean, s.Std, s.Min, s.Max)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames to analyze", args[0])
	}
	if sphereIdx < 0 || sphereIdx >= meta.Spheres {
		return fmt.Errorf("sphere %d out of range [0, %d)", sphereIdx, meta.Spheres)
	}
	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis must be 0, 1 or 2, got %d", axis)
	}
	name := string("xyz"[axis])
	sampleDt := frames[1].Time - frames[0].Time

	coord := make([]float64, len(frames))
	for i, f := range frames {
		coord[i] = float64(f.Positions[sphereIdx][axis])
	}
	if ps := analysis.PowerSpectrum(coord); len(ps) > 2 {
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (sphere %d, %s)", sphereIdx, name)),
		))
	}
	fmt.Printf("\ndominant frequency: %.4f Hz\n\n", analysis.DominantFrequency(coord, sampleDt))

	fmt.Printf("phase portrait (%s vs v%s):\n", name, name)
	fmt.Println(analysis.NewPhasePortrait(frames, sphereIdx, axis).ToASCII(60, 16))

	last := frames[len(frames)-1]
	speeds := make([]float64, len(last.Velocities))
	for i, v := range last.Velocities {
		speeds[i] = float64(v.Len())
	}
	mean, std := analysis.Moments(speeds)
	fmt.Printf("final speeds: mean %.4f, std %.4f\n", mean, std)
	h := analysis.SpeedHistogram(speeds, 8)
	for i, c := range h.Counts {
		fmt.Printf("  %6.2f - %6.2f  %s\n", h.Edges[i], h.Edges[i+1], strings.Repeat("█", int(c)))
	}

	if meta.Config == nil {
		return nil
	}
	opts, err := meta.Config.Options()
	if err != nil {
		return err
	}
	motion, _, err := sim.FromConfig(meta.Config)
	if err != nil {
		return err
	}
	d, err := analysis.Diverge(opts, motion.Spheres(), 1e-4, float32(meta.Dt), min(meta.Steps, 2000))
	if err != nil {
		return err
	}
	fmt.Printf("\nlyapunov estimate: %.4f /s\n", d.Exponent(float64(meta.Config.Extent())/10))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunScenario(ctx, sc, metrics.Default, logger)

	var st *storage.Store
	for _, r := range results {
		if !r.Step.Save {
			continue
		}
		if st == nil {
			var closeStore func()
			st, closeStore, err = openStore()
			if err != nil {
				return err
			}
			defer closeStore()
		}
		name := r.Step.Preset
		if name == "" {
			name = "scenario"
		}
		runID, err := st.Save(name, r.Config, r.Result)
		if err != nil {
			return err
		}
		logger.Info("saved scenario step", "step", r.Step.Name, "run", runID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tINTEG\tFIELD\tCONTACTS\tKINETIC\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.3e\n",
			r.Step.Name, r.Config.Integrator, r.Config.Field.Name, r.Result.Collisions,
			r.Result.Metrics["kinetic_energy"], r.Result.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}
	points, err := automation.RunSweep(ctx, base, sweep, metrics.Default, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(metricName))
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Metrics[metricName]
		fmt.Fprintf(w, "%.4g\t%.6g\n", p.Value, series[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("%s vs %s", metricName, sweepParam)),
	))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}
	base, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	grid, err := optim.ParseGrid(gridSpecs)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d grid points for the smallest %s...\n", grid.Size(), metricName)
	params, best, err := grid.Search(ctx, base, metrics.Default, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", metricName, best)
	for _, spec := range gridSpecs {
		name, _, _ := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		fmt.Printf("  %s = %g\n", name, params[name])
	}
	return nil
}
