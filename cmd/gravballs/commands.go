package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravballs/internal/automation"
	"github.com/san-kum/gravballs/internal/config"
	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/export"
	"github.com/san-kum/gravballs/internal/metrics"
	"github.com/san-kum/gravballs/internal/server"
	"github.com/san-kum/gravballs/internal/sim"
	"github.com/san-kum/gravballs/internal/storage"
	"github.com/san-kum/gravballs/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	svgPath string

	numRuns int
	workers int

	imgWidth  int
	imgHeight int
	braille   bool

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func runSimulation(cmd *cobra.Command, args []string) error {
	name := "run"
	if len(args) > 0 {
		name = args[0]
	}

	var player *automation.Player
	var cfg *config.Config
	if scenario != "" {
		sc, err := automation.LoadScenario(scenario)
		if err != nil {
			return err
		}
		if cfg, err = sc.Config(); err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		player = automation.NewPlayer(sc)
		if len(args) == 0 && sc.Name != "" {
			name = sc.Name
		}
	} else {
		var err error
		if cfg, err = resolveConfig(cmd); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := newSimulator(cfg, cfg.Run.Seed)
	for _, m := range metrics.Defaults(cfg.Scene.Gravity, cfg.Scene.BoxSize) {
		s.AddMetric(m)
	}
	if player != nil {
		s.AddDriver(player)
	}

	log.Info("running simulation",
		zap.String("name", name),
		zap.Int64("seed", cfg.Run.Seed),
		zap.Float64("dt", cfg.Run.Dt),
		zap.Float64("duration", cfg.Run.Duration),
		zap.String("mode", cfg.Scene.Mode()))
	start := time.Now()

	result, err := s.Run(context.Background(), cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn("run stopped early", zap.Error(e))
	}

	runID, err := st.Save(storage.RunMetadata{
		Name:     name,
		Seed:     cfg.Run.Seed,
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		Scene:    cfg.Scene,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  collisions: %d  consumed: %d  balls left: %d\n",
		result.StepsTaken, result.Collisions, result.Consumed, s.World().BodyCount())
	fmt.Printf("checksum: %016x\n", result.Checksum)
	if player != nil {
		fmt.Printf("actions fired: %d\n", player.Fired())
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
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
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tMODE\tSTEPS\tCOLLISIONS\tCONSUMED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Scene.Mode(),
			run.Steps,
			run.Collisions,
			run.Consumed,
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Scene.Mode())
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(dynamo.Sample) float64
	}{
		{"kinetic energy", func(s dynamo.Sample) float64 { return s.KineticEnergy }},
		{"max speed", func(s dynamo.Sample) float64 { return s.MaxSpeed }},
		{"balls", func(s dynamo.Sample) float64 { return float64(s.Balls) }},
		{"sparks", func(s dynamo.Sample) float64 { return float64(s.Sparks) }},
	}
	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}

	if svgPath != "" {
		svg := export.SeriesToSVG(samples, series[0].value, 800, 300, string(viz.ThemeForMode(meta.Scene.Mode()).Primary))
		if svg == "" {
			return fmt.Errorf("%w: need at least two samples to draw %s", dynamo.ErrNoSamples, runID)
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRAVITY\tBALLS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%s\n", name, p.Config.Scene.Gravity, p.Config.Scene.InitialBalls, p.Description)
	}
	return w.Flush()
}

func benchWorld(cmd *cobra.Command, args []string) error {
	counts := []int{10, 25, 50, 100}
	run := dynamo.DefaultConfig()
	run.Duration = 5.0

	fmt.Printf("benchmarking %d steps per scene\n\n", sim.StepCount(run))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BALLS\tSTEPS\tCOLLISIONS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		cfg := config.DefaultConfig()
		cfg.Scene.InitialBalls = n

		s := newSimulator(cfg, 42)
		start := time.Now()
		result, err := s.Run(context.Background(), run)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, result.StepsTaken, result.Collisions, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	factory := func(s int64) (*sim.Simulator, error) {
		sm := newSimulator(cfg, s)
		for _, m := range metrics.Defaults(cfg.Scene.Gravity, cfg.Scene.BoxSize) {
			sm.AddMetric(m)
		}
		return sm, nil
	}
	ens := sim.NewEnsemble(factory, numRuns, cfg.Run.Seed)
	if workers > 0 {
		ens.SetWorkers(workers)
	}

	log.Info("running ensemble", zap.Int("runs", numRuns), zap.Int64("seed_start", cfg.Run.Seed))
	start := time.Now()
	results, err := ens.Run(context.Background(), cfg.SimConfig())
	if err != nil {
		return err
	}
	fmt.Printf("completed %d runs in %v\n\n", len(results), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tCOLLISIONS\tCONSUMED\tENERGY\tCONTAINMENT\tERRORS\tCHECKSUM")
	var meanEnergy float64
	for i, r := range results {
		meanEnergy += r.Metrics["energy"]
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.3f\t%.3f\t%d\t%016x\n",
			cfg.Run.Seed+int64(i),
			r.StepsTaken,
			r.Collisions,
			r.Consumed,
			r.Metrics["energy"],
			r.Metrics["containment"],
			len(r.Errors),
			r.Checksum,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(results) > 0 {
		fmt.Printf("\nmean energy: %.4f\n", meanEnergy/float64(len(results)))
	}
	return nil
}

func snapshotWorld(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s := newSimulator(cfg, cfg.Run.Seed)
	if _, err := s.Run(context.Background(), cfg.SimConfig()); err != nil {
		return err
	}

	cam := viz.NewCamera(0)
	var svg string
	if braille {
		canvas := viz.NewCanvas(imgWidth/8, imgHeight/16)
		viz.DrawWorld(canvas, s.World(), cam, s.Cursor())
		svg = export.CanvasToSVG(canvas, 4, string(viz.ThemeForMode(cfg.Scene.Mode()).Primary))
	} else {
		svg = export.WorldToSVG(s.World(), cam, imgWidth, imgHeight)
	}

	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d balls, %d sparks at t=%.2fs)\n",
		args[0], s.World().BodyCount(), s.World().SparkCount(), s.World().Time())
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBALLS\tMEAN KE\tMAX KE\tCOLLISIONS\tCONSUMED\tERRORS\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%.3f\t%.3f\t%d\t%d\t%d\n",
			r.ParamValue, r.FinalBalls, r.MeanEnergy, r.MaxEnergy, r.Collisions, r.Consumed, r.Instabilities)
	}
	return w.Flush()
}

func serveWorld(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.New(newSimulator(cfg, cfg.Run.Seed), frameRate, log)
	fmt.Printf("streaming on ws://%s/ws (ctrl-c to stop)\n", listenAddr)
	return srv.ListenAndServe(ctx, listenAddr)
}
