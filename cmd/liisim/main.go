package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/database"
	"github.com/san-kum/liisim/internal/experiment"
	"github.com/san-kum/liisim/internal/export"
	"github.com/san-kum/liisim/internal/htm"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/storage"
	"github.com/san-kum/liisim/internal/substance"
	"github.com/san-kum/liisim/internal/viz"
)

var (
	dataDir    string
	dbDir      string
	logLevel   string
	theme      string
	configFile string
	preset     string

	model       string
	material    string
	mixture     string
	stateKind   string
	integrator  string
	dt          float64
	duration    float64
	adaptive    bool
	tolerance   float64
	pressure    float64
	gasTemp     float64
	temperature float64
	diameter    float64
	diameters   []float64

	outFile string
	svgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "liisim",
		Short:         "laser-induced incandescence heat transfer and pyrometry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".liisim", "run store directory")
	rootCmd.PersistentFlags().StringVar(&dbDir, "db", "", "substance database directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logger.InfoLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeIncandescent.Name, "report color theme")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "check that the configured model has every property it needs",
		RunE:  checkModel,
	}
	addModelFlags(checkCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the cooling of one particle",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	addRunFlags(runCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "simulate several initial particle sizes concurrently",
		RunE:  runEnsemble,
	}
	addModelFlags(ensembleCmd)
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().Float64SliceVar(&diameters, "diameters", nil, "initial diameters in m")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot temperature and diameter of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the temperature trace as svg")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.Models()
			if len(args) == 1 {
				models = args
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list materials, gases and gas mixtures in the database",
		RunE:  listMaterials,
	}
	materialsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(checkCmd, runCmd, ensembleCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, materialsCmd)
	addPyrometryCommands(rootCmd)
	addAutomationCommands(rootCmd)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusFail.Render("error:"), err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&model, "model", "musikhin", "heat transfer model: "+fmt.Sprint(htm.Variants()))
	cmd.Flags().StringVar(&material, "material", "soot", "particle material")
	cmd.Flags().StringVar(&mixture, "mixture", "argon", "gas mixture")
	cmd.Flags().StringVar(&stateKind, "state", "diameter", "second state variable: diameter or mass")
	cmd.Flags().Float64Var(&pressure, "pressure", config.DefaultPressure, "gas pressure in Pa")
	cmd.Flags().Float64Var(&gasTemp, "gas-temp", config.DefaultGasTemp, "gas temperature in K")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator: euler, rk4, rk45")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in s")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in s")
	cmd.Flags().BoolVar(&adaptive, "adaptive", true, "adaptive step size")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive step tolerance")
	cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "initial particle temperature in K")
	cmd.Flags().Float64Var(&diameter, "diameter", config.DefaultDiameter, "initial particle diameter in m")
}

// loadConfig applies the preset, then the config file, then every flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		m := model
		p := config.GetPreset(m, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(m))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("model") {
		cfg.Model = model
	}
	if changed("material") {
		cfg.Material = material
	}
	if changed("mixture") {
		cfg.Mixture = mixture
	}
	if changed("state") {
		cfg.State = stateKind
	}
	if changed("pressure") {
		cfg.Process.Pressure = pressure
	}
	if changed("gas-temp") {
		cfg.Process.GasTemperature = gasTemp
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("time") {
		cfg.Duration = duration
	}
	if changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if changed("tol") {
		cfg.Tolerance = tolerance
	}
	if changed("temp") {
		cfg.InitState.Temperature = temperature
	}
	if changed("diameter") {
		cfg.InitState.Diameter = diameter
	}
	if changed("diameters") {
		cfg.InitState.Diameters = diameters
	}
	if dbDir != "" {
		cfg.Database = dbDir
	}
	if !changed("log-level") && cfg.LogLevel != "" {
		logLevel = cfg.LogLevel
	}
	return cfg, nil
}

func loadDatabase(cfg *config.Config, log *logger.Logger) (*substance.Registry, error) {
	reg, err := database.NewLoader(cfg.Database, log).Load()
	if err != nil {
		return nil, fmt.Errorf("load database %s: %w", cfg.Database, err)
	}
	return reg, nil
}

func setup(cmd *cobra.Command) (*config.Config, *substance.Registry, *logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.Get(logLevel)
	reg, err := loadDatabase(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, log, nil
}

func checkModel(cmd *cobra.Command, args []string) error {
	cfg, reg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	m, err := experiment.BuildModel(cfg, reg)
	if err != nil {
		fmt.Println(viz.Availability(cfg.Model, err))
		return fmt.Errorf("model %s cannot be built", cfg.Model)
	}
	availErr := m.CheckAvailability()
	fmt.Println(viz.Availability(fmt.Sprintf("%s (%s in %s)", cfg.Model, cfg.Material, cfg.Mixture), availErr))
	if availErr != nil {
		return fmt.Errorf("model %s unavailable", cfg.Model)
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, reg, log)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Println(viz.Banner(fmt.Sprintf("running %s: %s in %s", cfg.Model, cfg.Material, cfg.Mixture)))
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.NewRunMetadata(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	fmt.Println(viz.RunSummary(result))
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if len(cfg.InitState.Diameters) == 0 {
		return fmt.Errorf("no diameters given: use --diameters or init_state.diameters")
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, reg, log)
	if err := exp.Setup(); err != nil {
		return err
	}

	start := time.Now()
	results, err := exp.RunEnsemble(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%d runs completed in %v\n\n", len(results), time.Since(start))

	for i, res := range results {
		meta := storage.NewRunMetadata(cfg)
		meta.Diameter = cfg.InitState.Diameters[i]
		runID, err := st.Save(meta, res)
		if err != nil {
			return err
		}
		log.Debugw("ensemble run saved", "diameter", meta.Diameter, "id", runID)
	}

	fmt.Println(viz.Ensemble(cfg.InitState.Diameters, results, 40))
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
	fmt.Fprintln(w, "ID\tMODEL\tMATERIAL\tGAS\tTIME\tT0\tD0\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.0f K\t%.1f nm\t%d\n",
			run.ID,
			run.Model,
			run.Material,
			run.Mixture,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Temperature,
			run.Diameter*1e9,
			run.Steps,
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
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s in %s)\n", meta.Model, meta.Material, meta.Mixture)
	fmt.Printf("samples: %d\n\n", trace.Len())

	fmt.Println(viz.Plot(trace.Temperature, "temperature [K]", viz.DefaultPlotHeight, viz.DefaultPlotWidth))
	fmt.Println()
	fmt.Println(viz.Plot(viz.Scaled(trace.Diameter, 1e9), "diameter [nm]", viz.DefaultPlotHeight/2, viz.DefaultPlotWidth))
	fmt.Println()
	fmt.Println(viz.Metrics(meta.Metrics))

	if svgFile != "" {
		if err := export.WriteTraceSVG(svgFile, trace, false, 800, 400); err != nil {
			return err
		}
		fmt.Printf("\nsvg written to %s\n", svgFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := storage.ExportFromTrace(*meta, trace)
	if outFile == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outFile)
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	cfg, reg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("database: " + cfg.Database))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tDETAIL")
	for _, name := range reg.MaterialNames() {
		m, _ := reg.Material(name)
		fmt.Fprintf(w, "material\t%s\tE(m) at %v nm\n", name, m.Em.Wavelengths())
	}
	for _, name := range reg.GasNames() {
		g, _ := reg.Gas(name)
		fmt.Fprintf(w, "gas\t%s\tM = %.5g kg/mol\n", name, g.Molar())
	}
	for _, name := range reg.MixtureNames() {
		mix, _ := reg.Mixture(name)
		detail := fmt.Sprintf("%d components", len(mix.Components))
		if err := mix.Validate(); err != nil {
			detail += " (" + err.Error() + ")"
		}
		fmt.Fprintf(w, "mixture\t%s\t%s\n", name, detail)
	}
	return w.Flush()
}
