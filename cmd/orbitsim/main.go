package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt       float64
	duration float64
	theta    float64
	g        float64
	seed     int64
	solver   string
	track    int
	sample   int

	// Live view world span in model units.
	span float64

	// Theta values for the sweep command.
	thetaList string

	// Snapshot output path.
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "gravitational n-body sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "solar", "preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless simulation and store the series",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "opening angle")
	runCmd.Flags().Float64Var(&g, "g", config.DefaultG, "gravitational constant")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().StringVar(&solver, "solver", "", "force solver (direct|barneshut)")
	runCmd.Flags().IntVar(&track, "track", -1, "body index to record positions for")
	runCmd.Flags().IntVar(&sample, "sample", 10, "record a sample every N steps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&solver, "solver", "", "force solver (direct|barneshut)")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	liveCmd.Flags().Float64Var(&span, "span", 120, "world width across the view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to csv on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the dominant orbital period of the tracked body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the direct and tree solvers on the same scene",
		RunE:  benchSolvers,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure tree accuracy across opening angles",
		RunE:  sweepTheta,
	}
	sweepCmd.Flags().StringVar(&thetaList, "thetas", "0.1,0.3,0.5,0.7,1.0", "comma-separated opening angles")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "simulate briefly and write trajectories as svg",
		RunE:  snapshotScene,
	}
	snapshotCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	snapshotCmd.Flags().Float64Var(&duration, "time", 20.0, "simulated time before the snapshot")
	snapshotCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	snapshotCmd.Flags().StringVar(&outFile, "out", "orbits.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, analyzeCmd, benchCmd, sweepCmd, snapshotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file, then any flags the
// user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("theta") {
		cfg.Theta = theta
	}
	if cmd.Flags().Changed("g") {
		cfg.G = g
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("solver") {
		cfg.Solver = solver
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s scene (%d bodies, %s solver)...\n",
		preset, len(s.Bodies()), s.Solver())
	start := time.Now()

	ms := metrics.Defaults(cfg.G, cfg.Softening)
	result, err := sim.Run(context.Background(), s, ms, sim.RunConfig{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		SampleEvery: sample,
		Track:       track,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:   preset,
		Solver:   s.Solver().String(),
		Seed:     cfg.Seed,
		G:        cfg.G,
		Theta:    cfg.Theta,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Bodies:   len(s.Bodies()),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "  %s\t%.6e\n", name, val)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	return viz.RunLive(s, span)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSOLVER\tBODIES\tDURATION\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1fs\t%.4fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Solver,
			run.Bodies,
			run.Duration,
			run.Dt,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  solver: %s  bodies: %d\n", meta.Preset, meta.Solver, meta.Bodies)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, plot := range []struct {
		caption string
		data    []float64
	}{
		{"total energy", series.Energy},
		{"momentum magnitude", series.Momentum},
	} {
		graph := asciigraph.Plot(plot.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(plot.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	tracked := len(series.Tracked) == len(series.Times)
	header := []string{"time", "energy", "momentum"}
	if tracked {
		header = append(header, "x", "y", "z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(series.Energy[i], 'f', 6, 64),
			strconv.FormatFloat(series.Momentum[i], 'f', 6, 64),
		}
		if tracked {
			p := series.Tracked[i]
			row = append(row,
				strconv.FormatFloat(p[0], 'f', 6, 64),
				strconv.FormatFloat(p[1], 'f', 6, 64),
				strconv.FormatFloat(p[2], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Tracked) == 0 {
		return fmt.Errorf("run %s has no tracked body; rerun with --track", runID)
	}

	fmt.Printf("orbital analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s  tracked samples: %d\n\n", meta.Preset, len(series.Tracked))

	xs := make([]float64, len(series.Tracked))
	for i, p := range series.Tracked {
		xs[i] = p[0]
	}

	ps := analysis.PowerSpectrum(xs)
	plotData := ps
	if len(plotData) > 128 {
		plotData = plotData[:128]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (tracked x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := meta.Dt
	if len(series.Times) > 1 {
		sampleDt = series.Times[1] - series.Times[0]
	}
	period := analysis.DominantPeriod(xs, sampleDt)
	if period == 0 {
		fmt.Println("no dominant period found")
		return nil
	}
	fmt.Printf("dominant period: %.3f s\n", period)
	return nil
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	steps := 60

	fmt.Printf("timing %d steps per scene\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tSOLVER\tTIME\tSTEPS/SEC")

	for _, name := range []string{"sparse", "solar", "swarm"} {
		for _, sv := range []string{"direct", "barneshut"} {
			cfg := config.GetPreset(name)
			cfg.Solver = sv
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			s, err := sim.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < steps; i++ {
				s.Step(cfg.Dt)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%s\t%v\t%.0f\n",
				name, len(s.Bodies()), sv, elapsed,
				float64(steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	steps := int(duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		s.Step(cfg.Dt)
	}
	if !s.Valid() {
		return fmt.Errorf("simulation diverged before the snapshot")
	}

	svg := export.TrajectoriesToSVG(s.Bodies(), 1200, 1200)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies, %.1fs simulated)\n", outFile, len(s.Bodies()), duration)
	return nil
}

func sweepTheta(cmd *cobra.Command, args []string) error {
	var thetas []float64
	for _, part := range strings.Split(thetaList, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("bad theta %q: %w", part, err)
		}
		thetas = append(thetas, v)
	}

	build := func(th float64) (*sim.Simulation, error) {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		cfg.Theta = th
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		return sim.New(cfg)
	}

	results, err := sim.ThetaSweep(build, thetas)
	if err != nil {
		return err
	}

	fmt.Printf("tree accuracy vs direct summation (%s scene)\n\n", preset)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tMAX_ERR\tMEAN_ERR")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%.3e\t%.3e\n", r.Theta, r.MaxErr, r.MeanErr)
	}
	return w.Flush()
}
