package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/config"
	"github.com/san-kum/steersim/internal/export"
	"github.com/san-kum/steersim/internal/injector"
	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/sim"
	"github.com/san-kum/steersim/internal/steering"
	"github.com/san-kum/steersim/internal/storage"
	"github.com/san-kum/steersim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	// run overrides
	preset   string
	name     string
	timeStep float64
	duration float64
	// batch
	workers int
	// plot
	field string
	// svg
	outFile   string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "steersim",
		Short:         "kinematic steering behavior simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "output_data", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scenario file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	runCmd.Flags().StringVar(&name, "name", "", "run name (output directory)")
	runCmd.Flags().Float64Var(&timeStep, "time-step", config.DefaultTimeStep, "seconds per tick")
	runCmd.Flags().Float64Var(&duration, "duration", config.DefaultDuration, "seconds to simulate")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml...]",
		Short: "run several scenarios concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "scenarios simulated at once")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump-preset [name]",
		Short: "print a built-in scenario as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpPreset,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot each mover of a run over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "speed", "speed|x|y|accel")

	svgCmd := &cobra.Command{
		Use:   "svg [run]",
		Short: "render a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	watchCmd := &cobra.Command{
		Use:   "watch [run]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  watchRun,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [run]",
		Short: "check a run's trajectories against its checksum",
		Args:  cobra.ExactArgs(1),
		RunE:  verifyRun,
	}

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, presetsCmd, dumpCmd, plotCmd, svgCmd, watchCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() (*injector.App, func(), error) {
	return injector.InitializeApp(injector.DataDir(dataDir), injector.LogLevel(logLevel))
}

func loadScenario(cmd *cobra.Command, args []string) (*config.Scenario, error) {
	var sc *config.Scenario
	switch {
	case preset != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a scenario file or --preset, not both")
	case preset != "":
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		sc, err = config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
	default:
		return nil, fmt.Errorf("need a scenario file or --preset")
	}

	if cmd.Flags().Changed("name") {
		sc.Name = name
	}
	if cmd.Flags().Changed("time-step") {
		sc.TimeStep = timeStep
	}
	if cmd.Flags().Changed("duration") {
		sc.Duration = duration
	}
	return sc, sc.Validate()
}

// finish writes a simulated run to the store and prints its summary.
func finish(app *injector.App, s *sim.Simulation, rec *output.Recorder, seconds float64) error {
	if err := s.WriteOutputFiles(app.Store.RunDir(s.Name())); err != nil {
		return err
	}
	meta, err := app.Store.SaveMetadata(s.Summary(), seconds, rec.Checksum())
	if err != nil {
		return err
	}
	printSummary(meta)
	return nil
}

func printSummary(meta *storage.RunMetadata) {
	fmt.Printf("run: %s (%s)\n", meta.Name, meta.ID)
	fmt.Printf("ticks: %d  simulated: %.3fs  movers: %d\n", meta.Ticks, float64(meta.Ticks)*meta.TimeStep, meta.Movers)
	fmt.Printf("checksum: %s\n", meta.Checksum)

	keys := make([]string, 0, len(meta.Metrics))
	for k := range meta.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-20s %10.3f\n", k, meta.Metrics[k])
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.Store.Init(); err != nil {
		return err
	}

	rec := output.NewRecorder(app.Log)
	s, err := app.Builder.Build(sc, rec)
	if err != nil {
		return err
	}
	if err := s.Simulate(sc.Duration); err != nil {
		return err
	}
	return finish(app, s, rec, sc.Duration)
}

func runBatch(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.Store.Init(); err != nil {
		return err
	}

	seen := make(map[string]string, len(args))
	recs := make([]*output.Recorder, len(args))
	runs := make([]sim.Run, len(args))
	for i, path := range args {
		sc, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if prev, ok := seen[sc.Name]; ok {
			return fmt.Errorf("%s and %s both write run %q", prev, path, sc.Name)
		}
		seen[sc.Name] = path

		recs[i] = output.NewRecorder(app.Log)
		s, err := app.Builder.Build(sc, recs[i])
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		runs[i] = sim.Run{Sim: s, Seconds: sc.Duration}
	}

	app.Log.Info("batch", zap.Int("scenarios", len(runs)), zap.Int("workers", workers))
	if _, err := sim.NewEnsemble(workers, runs...).Run(context.Background()); err != nil {
		return err
	}

	for i, r := range runs {
		if err := finish(app, r.Sim, recs[i], r.Seconds); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := app.Store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tTIME\tDURATION\tSTEP\tTICKS\tMOVERS\tCHECKSUM")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.3fs\t%d\t%d\t%s\n",
			run.Name,
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.TimeStep,
			run.Ticks,
			run.Movers,
			run.Checksum,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMOVERS\tPATHS\tSTEP\tDURATION")
	for _, n := range config.ListPresets() {
		sc := config.GetPreset(n)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3fs\t%.1fs\n", n, len(sc.Movers), len(sc.Paths), sc.TimeStep, sc.Duration)
	}
	return w.Flush()
}

func dumpPreset(cmd *cobra.Command, args []string) error {
	sc := config.GetPreset(args[0])
	if sc == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	data, err := config.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func sampleValue(s output.Trajectory) (float64, error) {
	switch field {
	case "speed":
		return math.Hypot(s.VelX, s.VelY), nil
	case "x":
		return s.PosX, nil
	case "y":
		return s.PosY, nil
	case "accel":
		return math.Hypot(s.AccX, s.AccY), nil
	default:
		return 0, fmt.Errorf("unknown field: %s (speed|x|y|accel)", field)
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	runName := args[0]

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	meta, err := app.Store.Load(runName)
	if err != nil {
		return err
	}
	samples, err := app.Store.LoadTrajectories(runName)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	byMover, ids := export.GroupByMover(samples)
	for _, id := range ids {
		track := byMover[id]
		data := make([]float64, len(track))
		for i, s := range track {
			v, err := sampleValue(s)
			if err != nil {
				return err
			}
			data[i] = v
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("mover %d (%s): %s vs time", id, steering.Name(track[0].BehaviorID), field)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	runName := args[0]

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	samples, err := app.Store.LoadTrajectories(runName)
	if err != nil {
		return err
	}
	paths, lines, err := app.Store.LoadPaths(runName)
	if err != nil {
		return err
	}

	svg := export.SceneToSVG(samples, paths, lines, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", runName)
	}

	path := outFile
	if path == "" {
		path = runName + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func watchRun(cmd *cobra.Command, args []string) error {
	runName := args[0]

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	samples, err := app.Store.LoadTrajectories(runName)
	if err != nil {
		return err
	}
	paths, lines, err := app.Store.LoadPaths(runName)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewReplay(runName, samples, paths, lines))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func verifyRun(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	meta, err := app.Store.Verify(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%s)\n", meta.Name, meta.Checksum)
	return nil
}
