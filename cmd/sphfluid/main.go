package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphfluid/internal/analysis"
	"github.com/san-kum/sphfluid/internal/automation"
	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/export"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/scene"
	"github.com/san-kum/sphfluid/internal/storage"
	"github.com/san-kum/sphfluid/internal/stream"
	"github.com/san-kum/sphfluid/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string

	preset    string
	sceneFile string
	duration  float64
	workers   int
	useGrid   bool
	noSave    bool

	outFile string
	scale   float64

	addr      string
	withColor bool

	exportScene bool
	plotFields  []string

	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	sweepParallel int

	analyzeField string
	settleFrac   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sphfluid",
		Short:         "2D smoothed particle hydrodynamics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr, logLevel, logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file replacing the configured scene")
		cmd.Flags().Float64Var(&duration, "time", 0, "simulated duration (0 keeps the configured value)")
		cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per step")
		cmd.Flags().BoolVar(&useGrid, "grid", false, "use the uniform neighbour grid")
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save its stats",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render the scene after --time seconds to png or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	sceneFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "frame.png", "output file (.png or .svg)")
	renderCmd.Flags().Float64Var(&scale, "scale", 1, "svg pixel scale")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream frames to browsers over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&withColor, "color", true, "send particle colours")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run stats",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotFields, "fields", []string{"kinetic_energy", "max_speed", "mean_density"}, "stats to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&exportScene, "scene", false, "print the final scene instead of metadata")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "compare worker counts and neighbour search",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	sceneFlags(benchCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one parameter across a range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runParamSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "viscosity", "parameter to sweep ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 250, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 0, "concurrent runs (0 = all)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeField, "field", "kinetic_energy", "stat to analyze")
	analyzeCmd.Flags().Float64Var(&settleFrac, "settle", 0.05, "settled once the stat stays below this fraction of its peak")

	rootCmd.AddCommand(runCmd, renderCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd, benchCmd, batchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from, in order, the preset
// argument or flag, the config file and the defaults, then applies the
// command-line overrides.
func loadConfig(args []string) (string, *config.Config, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	switch {
	case name != "":
		cfg = config.GetPreset(name)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return "", nil, err
		}
		cfg = c
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	default:
		cfg = config.GetPreset("dambreak")
		name = "dambreak"
	}

	if sceneFile != "" {
		data, err := os.ReadFile(sceneFile)
		if err != nil {
			return "", nil, err
		}
		cfg.Scene = string(data)
	}
	if duration > 0 {
		cfg.Run.Duration = duration
	}
	if workers > 0 {
		cfg.Simulation.Workers = workers
	}
	if useGrid {
		cfg.Simulation.UseGrid = true
	}
	return name, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(name, cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d particles, h=%g, %.2fs\n",
		name, exp.Simulation().Len(), cfg.Simulation.SmoothingRadius, cfg.Run.Duration)

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}

	fmt.Printf("steps: %d  sim time: %.4f  wall: %v\n", result.Steps, result.Sim.Time(), result.Elapsed)
	if last, ok := lastStats(result.Stats); ok {
		fmt.Printf("max speed: %.4f  kinetic energy: %.4g  mean density: %.4g\n",
			last.MaxSpeed, last.KineticEnergy, last.MeanDensity)
	}

	if noSave {
		return runErr
	}

	st := storage.New(dataDir)
	meta := storage.RunMetadata{
		Name:            name,
		SmoothingRadius: result.Sim.SmoothingRadius(),
		Gravity:         result.Sim.Gravity(),
		Particles:       result.Sim.Len(),
		Duration:        result.Sim.Time(),
		FrameTime:       cfg.FrameTime(),
		Workers:         cfg.Simulation.Workers,
		UseGrid:         cfg.Simulation.UseGrid,
		Metrics:         result.Metrics,
	}
	runID, err := st.Save(meta, result.Stats, result.Scene)
	if err != nil {
		return errors.Join(runErr, err)
	}
	fmt.Printf("saved: %s\n", runID)
	return runErr
}

func lastStats(stats []metrics.Stats) (metrics.Stats, bool) {
	if len(stats) == 0 {
		return metrics.Stats{}, false
	}
	return stats[len(stats)-1], true
}

func renderScene(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if duration == 0 {
		cfg.Run.Duration = 0
	}

	exp, err := experiment.New(name, cfg, slog.Default())
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	frame, err := result.Sim.Render(cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(outFile)) {
	case ".svg":
		_, err = f.WriteString(export.FrameToSVG(frame, scale))
	case ".png":
		err = export.WritePNG(f, frame)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(outFile))
	}
	if err != nil {
		return err
	}

	fmt.Printf("rendered %s at t=%.4f (%d particles, %d pixels lit) to %s\n",
		name, result.Sim.Time(), result.Sim.Len(), frame.Count(), outFile)
	return f.Close()
}

func runLive(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := cfg.Options()
	opts.Logger = slog.New(slog.DiscardHandler)
	sim, err := scene.Construct(cfg.Simulation.SmoothingRadius, cfg.Scene, opts)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(sim, name, cfg.Scene, cfg.FrameTime()))
}

func serve(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := cfg.Options()
	opts.Logger = slog.Default()
	sim, err := scene.Construct(cfg.Simulation.SmoothingRadius, cfg.Scene, opts)
	if err != nil {
		return err
	}

	hub := stream.NewHub(slog.Default())
	defer hub.Close()
	srv := &http.Server{
		Addr:              addr,
		Handler:           stream.NewMux(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("serving", "addr", addr, "scene", name, "particles", sim.Len())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return stream.Run(ctx, sim, hub, cfg.FrameTime(), withColor)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdown)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tDURATION\tH\tWORKERS\tGRID")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%g\t%d\t%t\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.SmoothingRadius,
			run.Workers,
			run.UseGrid,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	if len(stats) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(stats))

	for _, field := range plotFields {
		data, err := metrics.Series(stats, field)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(field, "_", " ")+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if exportScene {
		text, err := st.LoadScene(runID)
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tH\tGRAVITY\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", name, p.Simulation.SmoothingRadius, p.Simulation.Gravity, p.Description)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if duration == 0 {
		cfg.Run.Duration = 0.5
	}

	counts := []int{1, 2, 4, 8}
	if workers > 0 {
		counts = []int{workers}
	}
	variants := experiment.WorkerVariants(cfg, counts, []bool{false, true})

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s for %.2fs of simulated time\n\n", name, cfg.Run.Duration)

	// One variant at a time so the timings do not compete for cores.
	results, err := experiment.Sweep(ctx, variants, 1, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			r.Name, r.Sim.Len(), r.Steps, r.Elapsed.Round(time.Millisecond),
			float64(r.Steps)/r.Elapsed.Seconds())
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, slog.Default())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPARTICLES\tSTEPS\tSIM TIME\tPEAK SPEED\tSAVED")
	for i, r := range results {
		saved := "-"
		if sc.Steps[i].Save {
			meta := storage.RunMetadata{
				Name:            r.Name,
				SmoothingRadius: r.Sim.SmoothingRadius(),
				Gravity:         r.Sim.Gravity(),
				Particles:       r.Sim.Len(),
				Duration:        r.Sim.Time(),
				Metrics:         r.Metrics,
			}
			if saved, err = st.Save(meta, r.Stats, r.Scene); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4g\t%s\n",
			r.Name, r.Sim.Len(), r.Steps, r.Sim.Time(), r.Metrics["peak_speed"], saved)
	}
	return w.Flush()
}

func runParamSweep(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		Steps:    sweepSteps,
		Parallel: sweepParallel,
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s over %s in [%g, %g]\n\n", sweepParam, name, sweepMin, sweepMax)
	results, err := automation.RunSweep(ctx, sweep, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tPEAK SPEED\tKINETIC ENERGY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.4g\t%.4g\n", r.Value, r.Steps, r.PeakSpeed, r.KineticEnergy)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	data, err := metrics.Series(stats, analyzeField)
	if err != nil {
		return err
	}

	frameTime := meta.FrameTime
	if frameTime <= 0 && len(stats) > 1 {
		frameTime = meta.Duration / float64(len(stats)-1)
	}

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, analyzeField)

	sp, err := analysis.PowerSpectrum(data, frameTime)
	if err != nil {
		return err
	}
	plotData := sp.Power[1:]
	if len(plotData) > 80 {
		plotData = plotData[:80]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+analyzeField+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := sp.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if idx := analysis.SettlingIndex(data, settleFrac); idx >= 0 {
		fmt.Printf("settled below %.0f%% of peak at t=%.3f s\n", settleFrac*100, stats[idx].Time)
	} else {
		fmt.Printf("did not settle below %.0f%% of peak\n", settleFrac*100)
	}
	return nil
}
