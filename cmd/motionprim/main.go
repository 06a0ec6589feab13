package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/movlab/motionprim/internal/align"
	"github.com/movlab/motionprim/internal/analysis"
	"github.com/movlab/motionprim/internal/calibrate"
	"github.com/movlab/motionprim/internal/config"
	"github.com/movlab/motionprim/internal/dmp"
	"github.com/movlab/motionprim/internal/metrics"
	"github.com/movlab/motionprim/internal/motion"
	"github.com/movlab/motionprim/internal/ode"
	"github.com/movlab/motionprim/internal/storage"
	"github.com/movlab/motionprim/internal/synth"
	"github.com/movlab/motionprim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	// gen
	genStart    []float64
	genGoal     []float64
	genDuration float64
	genSamples  int
	genOut      string

	// fit
	minBasis       int
	maxBasis       int
	sensitivity    float64
	velocityCutoff float64
	modelOut       string

	// reproduce
	repStart    []float64
	repGoal     []float64
	repDuration float64
	repDt       float64
	integrator  string
	goalTol     float64
	runName     string

	// align
	alignWindow int
	alignOut    string

	// analyze / plot
	dim int

	// play
	frameRate int

	// export
	exportFormat string
	exportOut    string
)

// main registers the motionprim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "motionprim",
		Short: "learn and replay motions from demonstration",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named configuration preset")

	genCmd := &cobra.Command{
		Use:   "gen [shape]",
		Short: fmt.Sprintf("generate a synthetic demonstration (%s)", strings.Join(synth.Names(), ", ")),
		Args:  cobra.ExactArgs(1),
		RunE:  generateDemo,
	}
	genCmd.Flags().Float64SliceVar(&genStart, "start", []float64{0}, "start position")
	genCmd.Flags().Float64SliceVar(&genGoal, "goal", []float64{1}, "goal position")
	genCmd.Flags().Float64Var(&genDuration, "time", 1.0, "duration in seconds")
	genCmd.Flags().IntVar(&genSamples, "samples", 100, "number of samples")
	genCmd.Flags().StringVar(&genOut, "out", "demo.json", "output file")

	fitCmd := &cobra.Command{
		Use:   "fit [demo.json]",
		Short: "fit a movement primitive to a demonstration",
		Args:  cobra.ExactArgs(1),
		RunE:  fitModel,
	}
	fitCmd.Flags().IntVar(&minBasis, "min-basis", calibrate.Default().MinBasis, "kernel count floor")
	fitCmd.Flags().IntVar(&maxBasis, "max-basis", calibrate.Default().MaxBasis, "kernel count cap")
	fitCmd.Flags().Float64Var(&sensitivity, "sensitivity", calibrate.Default().Sensitivity, "velocity reversal threshold (fraction of range)")
	fitCmd.Flags().Float64Var(&velocityCutoff, "velocity-cutoff", calibrate.Default().VelocityCutoff, "still-tail threshold (fraction of peak speed)")
	fitCmd.Flags().StringVar(&modelOut, "out", "model.json", "output model file")

	reproduceCmd := &cobra.Command{
		Use:   "reproduce [model.json]",
		Short: "reproduce a motion toward new boundaries",
		Args:  cobra.ExactArgs(1),
		RunE:  reproduceModel,
	}
	reproduceCmd.Flags().Float64SliceVar(&repStart, "start", nil, "start position (default: demonstrated)")
	reproduceCmd.Flags().Float64SliceVar(&repGoal, "goal", nil, "goal position (default: demonstrated)")
	reproduceCmd.Flags().Float64Var(&repDuration, "time", 0, "duration in seconds (default: demonstrated)")
	reproduceCmd.Flags().Float64Var(&repDt, "dt", 0, "integration step (default: from config)")
	reproduceCmd.Flags().StringVar(&integrator, "integrator", "", "integration scheme (euler, rk4)")
	reproduceCmd.Flags().Float64Var(&goalTol, "tolerance", 0, "goal convergence tolerance (default: from config)")
	reproduceCmd.Flags().StringVar(&runName, "name", "", "run name (default: model file stem)")

	alignCmd := &cobra.Command{
		Use:   "align [demo.json...]",
		Short: "average repeated demonstrations of one motion",
		Args:  cobra.MinimumNArgs(1),
		RunE:  alignDemos,
	}
	alignCmd.Flags().IntVar(&alignWindow, "window", 0, "warp band half-width in samples (0 = unconstrained)")
	alignCmd.Flags().StringVar(&alignOut, "out", "aligned.json", "output file")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a reproduction run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a reproduction run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}
	playCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and speed analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&dim, "dim", 0, "dimension to analyze")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list reproduction runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, csv, svg)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(genCmd, fitCmd, reproduceCmd, alignCmd, plotCmd, playCmd, analyzeCmd, listCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges defaults, the named preset, the config file, and
// command-line flags, in rising order of precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		clone := *p
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("min-basis") {
		cfg.Calibrate.MinBasis = minBasis
	}
	if flags.Changed("max-basis") {
		cfg.Calibrate.MaxBasis = maxBasis
	}
	if flags.Changed("sensitivity") {
		cfg.Calibrate.Sensitivity = sensitivity
	}
	if flags.Changed("velocity-cutoff") {
		cfg.Calibrate.VelocityCutoff = velocityCutoff
	}
	if flags.Changed("dt") {
		cfg.Reproduce.Dt = repDt
	}
	if flags.Changed("tolerance") {
		cfg.Reproduce.GoalTolerance = goalTol
	}
	if flags.Changed("integrator") {
		cfg.Reproduce.Integrator = integrator
	}
	if flags.Changed("fps") {
		cfg.Play.FPS = frameRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generateDemo(cmd *cobra.Command, args []string) error {
	builder, err := synth.Lookup(args[0])
	if err != nil {
		return err
	}

	d, err := builder(motion.State(genStart), motion.State(genGoal), genDuration, genSamples)
	if err != nil {
		return err
	}
	if err := storage.SaveDemonstration(genOut, d); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d samples, %d dims, %.2fs)\n", genOut, d.Len(), d.Dims(), d.Duration())
	return nil
}

func fitModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	d, err := storage.LoadDemonstration(args[0])
	if err != nil {
		return fmt.Errorf("failed to load demonstration: %w", err)
	}

	fmt.Printf("fitting %s (%d samples, %d dims)...\n", args[0], d.Len(), d.Dims())
	start := time.Now()

	model, err := dmp.Fit(d, cfg.ToCalibrate())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := storage.SaveModel(modelOut, model); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("time constant: %.4fs (demonstrated %.4fs)\n\n", model.Canonical.Tau, model.Canonical.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tKERNELS\tSTART\tGOAL")
	for d := 0; d < model.Dims(); d++ {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\n", d, len(model.Sets[d]), model.Start[d], model.Goal[d])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nmodel: %s\n", modelOut)
	return nil
}

func reproduceModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	model, err := storage.LoadModel(args[0])
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	rep, err := dmp.NewReproducer(model)
	if err != nil {
		return err
	}
	switch cfg.Reproduce.Integrator {
	case "euler":
		rep.SetIntegrator(ode.NewEuler())
	case "rk4":
		// reproducer default
	}
	rep.SetGoalTolerance(cfg.Reproduce.GoalTolerance)

	req := reproduceRequest(model, repStart, repGoal, repDuration, cfg.Reproduce.Dt)

	rep.AddMetric(metrics.NewPathLength())
	rep.AddMetric(metrics.NewMaxSpeed())
	rep.AddMetric(metrics.NewGoalDistance(req.Goal))

	fmt.Printf("reproducing %s...\n", args[0])
	start := time.Now()

	traj, err := rep.Run(req)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := runName
	if name == "" {
		name = fileStem(args[0])
	}
	runID, err := st.Save(name, cfg.Reproduce.Integrator, cfg.Reproduce.Dt, rep.MetricValues(), traj)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", traj.Len())
	fmt.Println("\nmetrics:")
	for name, val := range rep.MetricValues() {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

// reproduceRequest assembles the reproduction request from the command-line
// flags. Boundary flags left unset fall back to the model's demonstrated
// start and goal.
func reproduceRequest(model *dmp.Model, start, goal []float64, duration, dt float64) dmp.Request {
	req := dmp.Request{
		Start:    model.Start.Clone(),
		Goal:     model.Goal.Clone(),
		Duration: duration,
		Dt:       dt,
	}
	if len(start) > 0 {
		req.Start = motion.State(start)
	}
	if len(goal) > 0 {
		req.Goal = motion.State(goal)
	}
	return req
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func alignDemos(cmd *cobra.Command, args []string) error {
	demos := make([]*motion.Demonstration, 0, len(args))
	for _, path := range args {
		d, err := storage.LoadDemonstration(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		demos = append(demos, d)
	}

	avg, err := align.Average(demos, &align.Options{Window: alignWindow})
	if err != nil {
		return err
	}
	if err := storage.SaveDemonstration(alignOut, avg); err != nil {
		return err
	}

	fmt.Printf("averaged %d demonstrations into %s (%d samples)\n", len(demos), alignOut, avg.Len())
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", tr.Len())

	fmt.Print(viz.SeriesPlot(tr, 10, 80))

	if tr.Dims() >= 2 {
		fmt.Println("path (x0 vs x1)")
		fmt.Println(viz.PathPlot(tr, 40, 12))
	}
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return viz.Run(meta.Name, tr, cfg.Play.FPS)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if tr.Len() < 2 {
		return fmt.Errorf("no data")
	}
	if dim < 0 || dim >= tr.Dims() {
		return fmt.Errorf("dimension %d out of range (run has %d)", dim, tr.Dims())
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("name: %s\n\n", meta.Name)

	rate := float64(tr.Len()-1) / tr.Duration()
	spec := analysis.PowerSpectrum(tr.Series(dim), rate)

	plotData := spec.Amps
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/4]
	}
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (x%d)", dim)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, amp := spec.Dominant()
	fmt.Printf("dominant frequency: %.3f hz (amplitude %.4f)\n", freq, amp)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	at, speed := analysis.PeakSpeed(tr)
	fmt.Printf("peak speed: %.4f at %.3fs\n", speed, at)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tDIMS\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Dims,
			run.Integrator,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch exportFormat {
	case "json":
		return storage.ExportJSON(out, meta.Name, meta.Integrator, meta.Dt, meta.Metrics, tr)
	case "csv":
		return storage.WriteCSV(out, tr)
	case "svg":
		return viz.WriteSVG(out, tr, 800, 600)
	default:
		return fmt.Errorf("unknown format: %s (json, csv, svg)", exportFormat)
	}
}
