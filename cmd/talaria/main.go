package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/vortexlabs/talaria/internal/analysis"
	"github.com/vortexlabs/talaria/internal/config"
	"github.com/vortexlabs/talaria/internal/metrics"
	"github.com/vortexlabs/talaria/internal/reactor"
	"github.com/vortexlabs/talaria/internal/sim"
	"github.com/vortexlabs/talaria/internal/storage"
	"github.com/vortexlabs/talaria/internal/viz"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	dt          float64
	duration    float64
	seed        int64
	sampleEvery int
	viscosity   float64
	magnetRPM   float64
	adhesion    float64
	noNoise     bool
	frameRate   int

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "talaria",
		Short: "filament growth reactor simulator",
		Long: `Talaria simulates a single catalytic particle growing a filament
inside a rotating fluid under magnetic confinement and inductive
heating, and reports on growth yield, control stability and
mechanical failures.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".talaria", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [profile]",
		Short: "run a growth simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [profile]",
		Short: "run with a live terminal dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "lift-velocity frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list operating profiles",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListProfiles() {
				s, _ := config.Profile(name)
				fmt.Printf("%-10s viscosity=%g Pa.s  magnet=%g RPM  adhesion=%.0f nN  duration=%.0f s\n",
					name, s.Reactor.Viscosity, s.Reactor.MagnetRPM,
					s.Reactor.AdhesionLimit*1e9, s.Run.Duration)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, analyzeCmd, listCmd, exportCmd, profilesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "settings file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep override (s)")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration override (s)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed (default: current time)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "steps between history samples")
	cmd.Flags().Float64Var(&viscosity, "viscosity", 0, "fluid viscosity override (Pa.s)")
	cmd.Flags().Float64Var(&magnetRPM, "magnet-rpm", 0, "magnet rotation override (RPM)")
	cmd.Flags().Float64Var(&adhesion, "adhesion", 0, "adhesion limit override (N)")
	cmd.Flags().BoolVar(&noNoise, "no-noise", false, "disable sensor noise")
}

// resolveSettings layers profile, config file and flags, in that order.
func resolveSettings(cmd *cobra.Command, args []string) (*config.Settings, error) {
	name := config.DefaultProfile
	if len(args) > 0 {
		name = args[0]
	}

	var s *config.Settings
	var err error
	if configFile != "" {
		s, err = config.Load(configFile)
	} else {
		s, err = config.Profile(name)
	}
	if err != nil {
		return nil, err
	}
	if len(args) > 0 && configFile != "" {
		return nil, fmt.Errorf("give either a profile argument or --config, not both")
	}

	if cmd.Flags().Changed("dt") {
		s.Reactor.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		s.Run.Duration = duration
	}
	if cmd.Flags().Changed("sample-every") {
		s.Run.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("viscosity") {
		s.Reactor.Viscosity = viscosity
	}
	if cmd.Flags().Changed("magnet-rpm") {
		s.Reactor.MagnetRPM = magnetRPM
	}
	if cmd.Flags().Changed("adhesion") {
		s.Reactor.AdhesionLimit = adhesion
	}
	if cmd.Flags().Changed("seed") {
		s.Run.Seed = seed
	} else if s.Run.Seed == 0 {
		s.Run.Seed = time.Now().UnixNano()
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func buildEngine(s *config.Settings) (*reactor.Engine, error) {
	noise := reactor.Noise(nil)
	if !noNoise {
		rng := rand.New(rand.NewSource(s.Run.Seed))
		noise = reactor.SensorNoise(rng, s.Reactor.NoiseStd)
	}
	return reactor.New(s.Reactor, noise)
}

// progressTable prints the original validation-run console table:
// one row every ~4% of the run plus one row per snap.
type progressTable struct {
	steps    int
	interval int
	count    int
}

func newProgressTable(steps int) *progressTable {
	interval := steps / 25
	if interval == 0 {
		interval = 1
	}
	fmt.Printf("%6s | %9s | %9s | %9s | %10s | %6s | %8s | %8s | %7s\n",
		"Time", "Progress", "Height Z", "Length", "Vel (Act)", "Power", "Bubble r", "Tension", "Status")
	fmt.Printf("%6s | %9s | %9s | %9s | %10s | %6s | %8s | %8s | %7s\n",
		"[s]", "[%]", "[mm]", "[mm]", "[mm/s]", "Unit", "[µm]", "[nN]", "")
	fmt.Println(strings.Repeat("-", 100))
	return &progressTable{steps: steps, interval: interval}
}

func (p *progressTable) OnStep(res reactor.StepResult, t float64) {
	i := p.count
	p.count++
	if !res.Broke && i%p.interval != 0 && i != p.steps-1 {
		return
	}
	status := "OK"
	if res.Broke {
		status = "!!!SNAP"
	}
	fmt.Printf("%6.1f | %8.1f%% | %9.2f | %9.2f | %10.3f | %6.1f | %8.1f | %8.1f | %7s\n",
		t, float64(i)/float64(p.steps)*100,
		res.Position.Z*1000, res.FilamentLength*1000,
		res.VerticalVelocity*1000, res.PowerInput,
		res.VaporRadius*1e6, res.Tension*1e9, status)
}

func printDashboard(s *config.Settings) {
	line := strings.Repeat("=", 100)
	fmt.Println(line)
	fmt.Printf("  TALARIA GROWTH RUN — %s PROFILE\n", strings.ToUpper(s.Profile))
	fmt.Println(line)
	fmt.Printf("  Fluid Viscosity : %g Pa.s\n", s.Reactor.Viscosity)
	fmt.Printf("  Adhesion Limit  : %.1f nN\n", s.Reactor.AdhesionLimit*1e9)
	fmt.Printf("  Lift Speed      : %.2f mm/s\n", s.Reactor.LiftSpeed*1000)
	fmt.Printf("  Fluid Rotation  : %g RPM\n", s.Reactor.FluidRPM)
	fmt.Printf("  Magnet Rotation : %g RPM\n", s.Reactor.MagnetRPM)
	fmt.Printf("  Growth Rate     : %.1f µm/s\n", s.Reactor.GrowthRate*1e6)
	fmt.Printf("  Duration        : %.0f s\n", s.Run.Duration)
	fmt.Println(line)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}

	engine, err := buildEngine(s)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	printDashboard(s)
	logger.Debug("engine initialized", "seed", s.Run.Seed, "dt", s.Reactor.Dt)

	runner := sim.New(engine)
	runner.AddMetric(metrics.NewTrackingError())
	runner.AddMetric(metrics.NewPowerSaturation(s.Reactor.PowerMax))
	runner.AddMetric(metrics.NewPeakTension())
	steps := int(s.Run.Duration / s.Reactor.Dt)
	runner.AddObserver(newProgressTable(steps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := runner.Run(ctx, sim.Config{
		Duration:    s.Run.Duration,
		SampleEvery: s.Run.SampleEvery,
		Seed:        s.Run.Seed,
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("run interrupted", "steps", result.StepsTaken)
		} else {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("Simulation complete in %v.\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Total snaps:       %d\n", result.Breaks)
	fmt.Printf("Max length:        %.2f mm\n", result.MaxLength*1000)
	fmt.Printf("Final height:      %.2f mm\n", result.Final.Position.Z*1000)
	for name, val := range result.Metrics {
		fmt.Printf("%-18s %.6g\n", name+":", val)
	}

	runID, err := st.Save(s.Profile, s.Reactor.Dt, s.Run.Duration, s.Run.Seed, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Info("run saved", "id", runID, "samples", len(result.Samples))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	engine, err := buildEngine(s)
	if err != nil {
		return err
	}

	model := viz.NewModel(engine, s.Profile, s.Run.Duration, frameRate)
	_, err = tea.NewProgram(model).Run()
	return err
}

// plotSeries draws one asciigraph panel from a sample column.
func plotSeries(samples []sim.Sample, caption string, pick func(sim.Sample) float64) {
	data := make([]float64, len(samples))
	for i, sm := range samples {
		data[i] = pick(sm)
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	fmt.Printf("run: %s (%s profile, %d samples)\n\n", meta.ID, meta.Profile, len(samples))

	plotSeries(samples, "height z [mm]", func(s sim.Sample) float64 { return s.Position.Z * 1000 })
	plotSeries(samples, "filament length [mm]", func(s sim.Sample) float64 { return s.FilamentLength * 1000 })
	plotSeries(samples, "induction power [unit]", func(s sim.Sample) float64 { return s.PowerInput })
	plotSeries(samples, "lift velocity [mm/s]", func(s sim.Sample) float64 { return s.VerticalVelocity * 1000 })
	plotSeries(samples, "target velocity [mm/s]", func(s sim.Sample) float64 { return s.TargetVelocity * 1000 })
	plotSeries(samples, "vapor radius [µm]", func(s sim.Sample) float64 { return s.VaporRadius * 1e6 })
	plotSeries(samples, "tension [nN]", func(s sim.Sample) float64 { return s.Tension * 1e9 })
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples for spectrum analysis")
	}

	vel := make([]float64, len(samples))
	for i, sm := range samples {
		vel[i] = sm.VerticalVelocity
	}

	sampleDt := samples[1].Time - samples[0].Time
	freq, mag := analysis.DominantFrequency(vel, sampleDt)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("velocity samples: %d (every %.3g s)\n", len(vel), sampleDt)
	fmt.Printf("dominant oscillation: %.4g Hz (magnitude %.4g)\n\n", freq, mag)

	spectrum := analysis.PowerSpectrum(analysis.Truncate(vel))
	fmt.Println(asciigraph.Plot(spectrum[1:],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("lift velocity power spectrum"),
	))
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
	fmt.Fprintln(w, "ID\tPROFILE\tTIME\tDURATION\tSNAPS\tMAX LEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%d\t%.2fmm\n",
			run.ID,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Breaks,
			run.MaxLength*1000,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	export, err := st.Export(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
