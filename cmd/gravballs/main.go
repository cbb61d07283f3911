package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/gravballs/internal/automation"
	"github.com/san-kum/gravballs/internal/config"
	"github.com/san-kum/gravballs/internal/logging"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
	"github.com/san-kum/gravballs/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir  string
	logLevel string

	dt         float64
	duration   float64
	seed       int64
	preset     string
	configFile string
	scenario   string
	numBalls   int
	frameRate  int
	listenAddr string

	gravity     float64
	restitution float64
	entropy     float64
	blackHole   bool
	magnetic    bool

	log *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravballs",
		Short: "3d bouncing ball playground",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if log != nil {
				return nil
			}
			var err error
			log, err = logging.New(headlessLogOptions())
			return err
		},
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravballs", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the live 3d viewer",
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "choose and tune a preset before starting the viewer",
		RunE:  runPick,
	}
	pickCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	pickCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a headless simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scripted scenario file (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and population of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the energy curve to an svg file")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput for several ball counts",
		RunE:  benchWorld,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same scene over a range of seeds",
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cpus)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "simulate headlessly and render the final frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotWorld,
	}
	addRunFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&imgWidth, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&imgHeight, "height", 600, "image height")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal canvas instead of vector shapes")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one scene parameter and summarize each point",
		Long:  fmt.Sprintf("sweep one scene parameter: %v", automation.SweepParams()),
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of points")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the world to websocket viewers",
		RunE:  serveWorld,
	}
	addLiveFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8080", "listen address")

	rootCmd.AddCommand(liveCmd, pickCmd, runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd,
		presetsCmd, benchCmd, ensembleCmd, snapshotCmd, sweepCmd, serveCmd)

	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	cmd.Flags().IntVar(&numBalls, "balls", 0, "initial ball count (0 = scene default)")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&numBalls, "balls", 0, "initial ball count (0 = scene default)")
	cmd.Flags().Float64Var(&gravity, "gravity", -9.8, "vertical gravity")
	cmd.Flags().Float64Var(&restitution, "restitution", 0.9, "bounciness in [0,1]")
	cmd.Flags().Float64Var(&entropy, "entropy", 0, "random velocity jitter")
	cmd.Flags().BoolVar(&blackHole, "black-hole", false, "enable the central black hole")
	cmd.Flags().BoolVar(&magnetic, "magnetic", false, "enable magnetic walls")
}

// resolveConfig layers the configuration: defaults, then the preset, then
// the config file, then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.LoadPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if f.Changed("time") {
		cfg.Run.Duration = duration
	}
	if f.Changed("seed") || cfg.Run.Seed == 0 {
		cfg.Run.Seed = seed
	}
	if f.Changed("balls") {
		cfg.Scene.InitialBalls = numBalls
		if cfg.Scene.MaxBalls > 0 && numBalls > cfg.Scene.MaxBalls {
			cfg.Scene.MaxBalls = numBalls
		}
	}
	if f.Changed("gravity") {
		cfg.Scene.SetGravity(gravity)
	}
	if f.Changed("restitution") {
		cfg.Scene.SetRestitution(restitution)
	}
	if f.Changed("entropy") {
		cfg.Scene.SetEntropy(entropy)
	}
	if f.Changed("black-hole") {
		cfg.Scene.BlackHole = blackHole
	}
	if f.Changed("magnetic") {
		cfg.Scene.MagneticWalls = magnetic
	}
}

// newSimulator builds a populated world for cfg seeded with s.
func newSimulator(cfg *config.Config, s int64) *sim.Simulator {
	w := physics.NewWorld(cfg.ToScene(), rand.New(rand.NewSource(s)))
	w.Reset()
	return sim.New(w)
}

// headlessLogOptions selects JSON lines on stderr for every command that does
// not own the terminal.
func headlessLogOptions() logging.Options {
	return logging.Options{Level: logLevel}
}

// viewerOptions routes the viewer's log output to a file, since the
// terminal belongs to the UI while it runs.
func viewerOptions() (viz.Options, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return viz.Options{}, err
	}
	fileLog, err := logging.New(logging.Options{
		Level:   logLevel,
		Console: true,
		Path:    filepath.Join(dataDir, "live.log"),
	})
	if err != nil {
		return viz.Options{}, err
	}
	return viz.Options{
		FPS:        frameRate,
		Logger:     fileLog,
		RecordPath: filepath.Join(dataDir, fmt.Sprintf("recording-%d.gif", time.Now().Unix())),
	}, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := viewerOptions()
	if err != nil {
		return err
	}
	defer opts.Logger.Sync()

	opts.Logger.Info("starting viewer",
		zap.Int64("seed", cfg.Run.Seed),
		zap.Int("balls", cfg.Scene.InitialBalls),
		zap.String("mode", cfg.Scene.Mode()))
	return viz.Run(newSimulator(cfg, cfg.Run.Seed), opts)
}

func runPick(cmd *cobra.Command, args []string) error {
	opts, err := viewerOptions()
	if err != nil {
		return err
	}
	defer opts.Logger.Sync()
	return viz.RunPicker(seed, opts)
}
