package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/liisim/internal/automation"
	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/optim"
	"github.com/san-kum/liisim/internal/storage"
	"github.com/san-kum/liisim/internal/viz"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	grid       []string
	metricName string
	target     float64

	trials         int
	seed           int64
	tempSpread     float64
	diameterSpread float64
)

func addAutomationCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per value of a parameter",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "pressure", "parameter: "+strings.Join(config.Params(), ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1e4, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1e6, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "cooling_time", "metric to report")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search parameters so a metric matches a target",
		Example: "  liisim search --grid pressure=1e4:1e6:10 --metric cooling_time --target 2e-7",
		RunE:    runSearch,
	}
	addModelFlags(searchCmd)
	addRunFlags(searchCmd)
	searchCmd.Flags().StringSliceVar(&grid, "grid", nil, "name=min:max:n, repeatable")
	searchCmd.Flags().StringVar(&metricName, "metric", "cooling_time", "metric to match")
	searchCmd.Flags().Float64Var(&target, "target", math.NaN(), "target metric value (default minimize)")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the initial temperature and diameter randomly",
		RunE:  runMonteCarlo,
	}
	addModelFlags(mcCmd)
	addRunFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	mcCmd.Flags().Float64Var(&tempSpread, "temp-spread", 0.05, "relative sd of the initial temperature")
	mcCmd.Flags().Float64Var(&diameterSpread, "diameter-spread", 0.1, "relative sd of the initial diameter")
	mcCmd.Flags().StringVar(&metricName, "metric", "cooling_time", "metric to summarize")

	root.AddCommand(scenarioCmd, sweepCmd, searchCmd, mcCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log := logger.Get(logLevel)

	cfg := config.DefaultConfig()
	if dbDir != "" {
		cfg.Database = dbDir
	}
	reg, err := loadDatabase(cfg, log)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, reg, st, log)
	for _, r := range results {
		fmt.Println(viz.BoxWithTitle(r.Name, viz.RunSummary(r.Result)))
		if r.RunID != "" {
			fmt.Printf("saved as %s\n", r.RunID)
		}
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, reg, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSTATUS\n", strings.ToUpper(sweepParam), metricName)
	values := make([]float64, 0, len(results))
	for _, r := range results {
		status := viz.StatusOK.Render("ok")
		if r.Err != nil {
			status = viz.StatusWarn.Render(r.Err.Error())
		}
		v := r.Metrics[metricName]
		values = append(values, v)
		fmt.Fprintf(w, "%.4g\t%.4g\t%s\n", r.ParamValue, v, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println(viz.Plot(values, metricName, viz.DefaultPlotHeight/2, viz.DefaultPlotWidth))
	return nil
}

// parseGrid reads name=min:max:n.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, s := range specs {
		name, rng, ok := strings.Cut(s, "=")
		parts := strings.Split(rng, ":")
		if !ok || len(parts) != 3 {
			return nil, nil, fmt.Errorf("bad grid %q, want name=min:max:n", s)
		}
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return nil, nil, fmt.Errorf("bad grid %q, want name=min:max:n", s)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, optim.Linspace(lo, hi, n))
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	objective := optim.Minimize(metricName)
	if !math.IsNaN(target) {
		objective = optim.Match(metricName, target)
	}
	best, all, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), optim.ExperimentRunner(cfg, reg, log), objective)
	if err != nil {
		return err
	}

	failed := 0
	for _, p := range all {
		if p.Err != nil {
			failed++
		}
	}
	var sb strings.Builder
	for _, n := range names {
		fmt.Fprintf(&sb, "%s = %.4g\n", n, best.Params[n])
	}
	fmt.Fprintf(&sb, "objective = %.4g\n", best.Value)
	fmt.Fprintf(&sb, "evaluated %d points, %d failed", len(all), failed)
	fmt.Println(viz.BoxWithTitle("best "+metricName, sb.String()))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, reg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:              cfg,
		TemperatureSpread: tempSpread,
		DiameterSpread:    diameterSpread,
		NumTrials:         trials,
		Seed:              seed,
	}, reg, log)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	mean, std, n := automation.MetricStats(results, metricName)
	fmt.Println(viz.Metrics(map[string]float64{
		"trials":              float64(len(results)),
		"stable":              float64(stable),
		"unstable":            float64(unstable),
		metricName + " mean":  mean,
		metricName + " sd":    std,
		metricName + " count": float64(n),
	}))
	return nil
}
