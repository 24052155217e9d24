package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/experiment"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/pyrometry"
	"github.com/san-kum/liisim/internal/signal"
	"github.com/san-kum/liisim/internal/storage"
	"github.com/san-kum/liisim/internal/viz"
)

var (
	emSource     string
	channelsFile string
	filterFile   string
	wl1, wl2     int
	calibrate    bool
	bandpass     bool
	weighted     bool
	carryForward bool
	wavelengths  []int
	bandwidth    int
	synthDt      float64
)

// channelFile is the YAML shape of --channels.
type channelFile struct {
	Channels []signal.Channel `yaml:"channels"`
	Filter   *signal.Filter   `yaml:"filter,omitempty"`
}

func addPyrometryCommands(root *cobra.Command) {
	twoColorCmd := &cobra.Command{
		Use:   "two-color [signals.csv]",
		Short: "ratio pyrometry from two channels",
		Args:  cobra.ExactArgs(1),
		RunE:  runTwoColor,
	}
	addPyrometryFlags(twoColorCmd)
	twoColorCmd.Flags().IntVar(&wl1, "wl1", 0, "first channel wavelength in nm (default first column)")
	twoColorCmd.Flags().IntVar(&wl2, "wl2", 0, "second channel wavelength in nm (default second column)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [signals.csv]",
		Short: "fit Planck's law to all channels per time sample",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpectrum,
	}
	addPyrometryFlags(spectrumCmd)
	spectrumCmd.Flags().BoolVar(&calibrate, "calibrate", false, "estimate per-channel calibration factors and refit")
	spectrumCmd.Flags().BoolVar(&bandpass, "bandpass", false, "integrate over channel bandwidths")
	spectrumCmd.Flags().BoolVar(&weighted, "weighted", false, "weight the fit with sd_ columns")
	spectrumCmd.Flags().BoolVar(&carryForward, "carry-forward", false, "start each fit from the previous result")
	spectrumCmd.Flags().StringVar(&filterFile, "filter", "", "filter transmission yaml")

	synthCmd := &cobra.Command{
		Use:   "synth [run_id]",
		Short: "write the incandescence signals a stored run would produce",
		Args:  cobra.ExactArgs(1),
		RunE:  runSynth,
	}
	synthCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	synthCmd.Flags().StringVar(&material, "material", "soot", "spectroscopic material")
	synthCmd.Flags().StringVar(&emSource, "em-source", "tabulated", "E(m) source: tabulated, continuous, drude")
	synthCmd.Flags().IntSliceVar(&wavelengths, "wavelengths", []int{450, 550, 650, 750}, "channel wavelengths in nm")
	synthCmd.Flags().IntVar(&bandwidth, "bandwidth", 0, "channel full bandwidth in nm")
	synthCmd.Flags().Float64Var(&synthDt, "dt", 1e-9, "sample spacing in s")
	synthCmd.Flags().StringVarP(&outFile, "output", "o", "", "output csv (default stdout)")

	root.AddCommand(twoColorCmd, spectrumCmd, synthCmd)
}

func addPyrometryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&material, "material", "soot", "spectroscopic material")
	cmd.Flags().StringVar(&emSource, "em-source", "tabulated", "E(m) source: tabulated, continuous, drude")
	cmd.Flags().StringVar(&channelsFile, "channels", "", "channel settings yaml (bandwidth, calibration, gain, offset)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the temperature trace to this csv")
}

func pyrometryConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("material") {
		cfg.Spectroscopic = material
	}
	if cmd.Flags().Changed("em-source") {
		cfg.Pyrometry.EmSource = emSource
	}
	if f := cmd.Flags().Lookup("bandpass"); f != nil && f.Changed {
		cfg.Pyrometry.Bandpass = bandpass
	}
	if f := cmd.Flags().Lookup("weighted"); f != nil && f.Changed {
		cfg.Pyrometry.Weighted = weighted
	}
	if f := cmd.Flags().Lookup("carry-forward"); f != nil && f.Changed {
		cfg.Pyrometry.CarryForward = carryForward
	}
	return cfg, nil
}

func newCalculator(cmd *cobra.Command) (*pyrometry.Calculator, *config.Config, error) {
	cfg, err := pyrometryConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log := logger.Get(logLevel)
	reg, err := loadDatabase(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	c, err := experiment.NewCalculator(cfg, reg, log)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

// readSignals loads the measurement and applies the channel settings file,
// matched by wavelength.
func readSignals(path string, c *pyrometry.Calculator) (*signal.Set, error) {
	set, err := signal.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	if channelsFile == "" {
		return set, nil
	}

	data, err := os.ReadFile(channelsFile)
	if err != nil {
		return nil, err
	}
	var cf channelFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", channelsFile, err)
	}
	for _, ch := range cf.Channels {
		if i := set.Index(ch.Wavelength); i >= 0 {
			set.Channels[i] = ch
		}
	}
	if cf.Filter != nil {
		c.Filter = signal.NewFilter(cf.Filter.Name, cf.Filter.Transmission)
	}
	return set.Corrected(), nil
}

func readFilter(c *pyrometry.Calculator) error {
	if filterFile == "" {
		return nil
	}
	data, err := os.ReadFile(filterFile)
	if err != nil {
		return err
	}
	var f signal.Filter
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", filterFile, err)
	}
	c.Filter = signal.NewFilter(f.Name, f.Transmission)
	return nil
}

func report(t *pyrometry.Temperature) error {
	fmt.Println(viz.Temperature(t))
	if t.Len() > 0 {
		fmt.Println()
		fmt.Println(viz.Plot(t.Signal.Data, "temperature [K]", viz.DefaultPlotHeight, viz.DefaultPlotWidth))
	}
	if outFile == "" || t.Len() == 0 {
		return nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return signal.WriteColumns(f, []string{"temperature"}, []*signal.Signal{t.Signal})
}

func runTwoColor(cmd *cobra.Command, args []string) error {
	c, _, err := newCalculator(cmd)
	if err != nil {
		return err
	}
	set, err := readSignals(args[0], c)
	if err != nil {
		return err
	}
	if set.Len() < 2 {
		return fmt.Errorf("%w: two-color needs 2, got %d", pyrometry.ErrTooFewChannels, set.Len())
	}

	i, j := 0, 1
	if wl1 != 0 {
		i = set.Index(wl1)
	}
	if wl2 != 0 {
		j = set.Index(wl2)
	}
	t, err := c.CalcTemperatureFromTwoColor(set, i, j)
	if err != nil {
		return err
	}
	return report(t)
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	c, cfg, err := newCalculator(cmd)
	if err != nil {
		return err
	}
	if err := readFilter(c); err != nil {
		return err
	}
	set, err := readSignals(args[0], c)
	if err != nil {
		return err
	}

	opt := experiment.SpectrumOptions(cfg)
	var t *pyrometry.Temperature
	if calibrate {
		t, err = c.CalcTemperatureFromSpectrumCalibrated(set, opt)
	} else {
		t, err = c.CalcTemperatureFromSpectrum(set, opt)
	}
	if err != nil {
		return err
	}
	return report(t)
}

// runSynth turns a stored temperature and diameter trace into channel
// signals proportional to d^3 times the Planck intensity.
func runSynth(cmd *cobra.Command, args []string) error {
	c, _, err := newCalculator(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	temp, err := signal.FromSamples(trace.Times, trace.Temperature, synthDt)
	if err != nil {
		return err
	}
	diam, err := signal.FromSamples(trace.Times, trace.Diameter, synthDt)
	if err != nil {
		return err
	}

	set := &signal.Set{}
	for _, wl := range wavelengths {
		set.Channels = append(set.Channels, signal.Channel{Wavelength: wl, Bandwidth: bandwidth, Calibration: 1, PMTGain: 1})
	}
	if err := c.CheckEmSource(set.Channels); err != nil {
		return err
	}

	d0 := diam.Data[0]
	names := make([]string, len(set.Channels))
	for k, ch := range set.Channels {
		names[k] = strconv.Itoa(ch.Wavelength)
		sig := &signal.Signal{Start: temp.Start, Dt: temp.Dt, Data: make([]float64, temp.Len())}
		for i, T := range temp.Data {
			r := diam.Data[i] / d0
			if !(r > 0) {
				continue
			}
			sig.Data[i] = c.PlanckBandpass(float64(ch.Wavelength), ch.HalfBandwidth(), T, r*r*r)
		}
		set.Signals = append(set.Signals, sig)
	}

	if outFile == "" {
		return signal.WriteCSV(os.Stdout, set)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := signal.WriteColumns(f, names, set.Signals); err != nil {
		return err
	}
	fmt.Printf("wrote %d channels, %d samples to %s\n", set.Len(), temp.Len(), outFile)
	return nil
}
