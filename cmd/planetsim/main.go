package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/san-kum/planetsim/internal/app"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/logging"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	// overrides, applied only when the flag is set
	dt          float64
	duration    float64
	sampleEvery int
	precision   string
	mutual      bool
	stacks      int
	slices      int
	winWidth    int
	winHeight   int

	plane   string
	svgFile string
	outFile string
	dts     []float64
	workers int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "planetsim",
		Short: "two-body orbit simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetLogger(logging.NewText(os.Stderr, verbose))
		},
		// Default to the window when no command given
		RunE:         runWindow,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".planetsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	pf.IntVar(&sampleEvery, "sample-every", 1, "record every n-th step")
	pf.StringVar(&precision, "precision", physics.Single.String(), "integrator precision (single|double)")
	pf.BoolVar(&mutual, "mutual", false, "attractor also feels the orbiter")
	pf.IntVar(&stacks, "stacks", config.DefaultStacks, "sphere latitude bands")
	pf.IntVar(&slices, "slices", config.DefaultSlices, "sphere longitude bands")
	pf.IntVar(&winWidth, "width", config.DefaultWidth, "window width")
	pf.IntVar(&winHeight, "height", config.DefaultHeight, "window height")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run headless and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy|xz|yz)")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the orbit as SVG to this file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit period and shape analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "run headless and write states as CSV",
		Args:  cobra.NoArgs,
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "run headless and write states as JSON",
		Args:  cobra.NoArgs,
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	convergenceCmd := &cobra.Command{
		Use:   "convergence",
		Short: "compare step sizes on the same initial state",
		Args:  cobra.NoArgs,
		RunE:  runConvergence,
	}
	convergenceCmd.Flags().Float64SliceVar(&dts, "dts", []float64{0.04, 0.02, 0.01, 0.005}, "step sizes")
	convergenceCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration, or save it with -o",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	configCmd.Flags().StringVarP(&outFile, "out", "o", "", "write yaml to this file")

	rootCmd.AddCommand(runCmd, simulateCmd, liveCmd, tuiCmd, listCmd, plotCmd, analyzeCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, convergenceCmd, presetsCmd, configCmd)
	return rootCmd
}

// resolveConfig builds the configuration for a command: a preset or a config
// file (not both), then any explicitly set flags. name labels stored runs.
func resolveConfig(cmd *cobra.Command) (cfg *config.Config, name string, err error) {
	switch {
	case preset != "" && configFile != "":
		return nil, "", errors.New("use either --preset or --config, not both")
	case preset != "":
		cfg, err = config.GetPreset(preset)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		name = preset
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	default:
		cfg, name = config.DefaultConfig(), "default"
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("sample-every") {
		cfg.Sim.SampleEvery = sampleEvery
	}
	if flags.Changed("precision") {
		cfg.Physics.Precision = precision
	}
	if flags.Changed("mutual") {
		cfg.Physics.Mutual = mutual
	}
	if flags.Changed("stacks") {
		cfg.Render.Stacks = stacks
	}
	if flags.Changed("slices") {
		cfg.Render.Slices = slices
	}
	if flags.Changed("width") {
		cfg.Window.Width = winWidth
	}
	if flags.Changed("height") {
		cfg.Window.Height = winHeight
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logging.Logger().Info("opening window", "config", name)
	return app.Run(cmd.Context(), cfg)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg, name)
}
