package pyrometry

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/signal"
)

var _ = Describe("CalcTemperatureFromSpectrum", func() {
	var (
		c     *Calculator
		temps []float64
		set   *signal.Set
		opt   SpectrumOptions
	)

	BeforeEach(func() {
		c = NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		temps = temperatureProfile(12, 3600, 2200)
		set = synthesize(c, temps, testWavelengths, testScale)
		opt = DefaultSpectrumOptions()
	})

	It("recovers the temperature profile", func() {
		res, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Len()).To(Equal(len(temps)))
		Expect(res.Fits).To(HaveLen(len(temps)))
		for i, f := range res.Fits {
			Expect(f.Valid).To(BeTrue(), "sample %d", i)
			Expect(res.Signal.Data[i]).To(BeNumerically("~", temps[i], 1e-3))
			Expect(f.Scale).To(BeNumerically("~", testScale, testScale*1e-6))
			Expect(f.Iterations).NotTo(BeEmpty())
		}
	})

	It("gives the same answer when carrying the fit forward", func() {
		opt.CarryForward = true
		seq, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).NotTo(HaveOccurred())

		opt.CarryForward = false
		par, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).NotTo(HaveOccurred())

		for i := range temps {
			Expect(seq.Signal.Data[i]).To(BeNumerically("~", par.Signal.Data[i], 1e-3))
		}
	})

	It("marks samples without enough light as zero and continues", func() {
		for k := 1; k < set.Len(); k++ {
			set.Signals[k].Data[3] = 0
		}
		set.Signals[0].Data[7] = math.NaN()

		res, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Signal.Data[3]).To(Equal(0.0))
		Expect(res.Fits[3].Valid).To(BeFalse())
		Expect(res.Signal.Data[7]).To(BeNumerically("~", temps[7], 1e-2))
		Expect(res.Valid()).To(Equal(len(temps) - 1))
	})

	It("keeps every valid temperature inside the bracket", func() {
		hot := synthesize(c, []float64{7000, 250, 3000}, testWavelengths, testScale)
		res, err := c.CalcTemperatureFromSpectrum(hot, opt)
		Expect(err).NotTo(HaveOccurred())
		for _, T := range res.Signal.Data {
			if T != 0 {
				Expect(T).To(BeNumerically(">=", MinTemperature))
				Expect(T).To(BeNumerically("<=", MaxTemperature))
			}
		}
	})

	It("uses standard deviations as weights", func() {
		for _, s := range set.Signals {
			s.Stdev = make([]float64, s.Len())
			for i, v := range s.Data {
				s.Stdev[i] = 0.01 * v
			}
		}
		opt.Weighted = true
		res, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Signal.Data[0]).To(BeNumerically("~", temps[0], 1e-3))
	})

	It("fits with bandpass integration", func() {
		c.Source = EmContinuous
		c.Material = sootMaterial()
		c.Material.EmFunc = c.Material.Em.Values[450]
		for i := range set.Channels {
			set.Channels[i].Bandwidth = 10
		}
		opt.Bandpass = true
		banded := &signal.Set{Channels: set.Channels}
		for _, ch := range set.Channels {
			data := make([]float64, len(temps))
			for i, T := range temps {
				data[i] = c.PlanckBandpass(float64(ch.Wavelength), ch.HalfBandwidth(), T, testScale)
			}
			banded.Signals = append(banded.Signals, signal.New(0, 1e-9, data))
		}
		res, err := c.CalcTemperatureFromSpectrum(banded, opt)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Signal.Data[5]).To(BeNumerically("~", temps[5], 1e-2))
	})

	It("fits tabulated E(m) with bandpass over unequal bandwidths", func() {
		Expect(c.Source).To(Equal(EmTabulated))
		for i, bw := range []int{10, 20, 40, 80} {
			set.Channels[i].Bandwidth = bw
		}
		opt.Bandpass = true
		banded := &signal.Set{Channels: set.Channels}
		for _, ch := range set.Channels {
			data := make([]float64, len(temps))
			for i, T := range temps {
				data[i] = c.PlanckBandpass(float64(ch.Wavelength), ch.HalfBandwidth(), T, testScale)
			}
			banded.Signals = append(banded.Signals, signal.New(0, 1e-9, data))
		}
		res, err := c.CalcTemperatureFromSpectrum(banded, opt)
		Expect(err).NotTo(HaveOccurred())
		for _, i := range []int{0, 5, 11} {
			Expect(res.Signal.Data[i]).To(BeNumerically("~", temps[i], 1))
		}
	})

	It("rejects a set with more channels than signals", func() {
		set.Signals = set.Signals[:3]
		_, err := c.CalcTemperatureFromSpectrum(set, opt)
		Expect(err).To(MatchError(ErrSignalCount))
		_, err = c.CalcTemperatureFromSpectrumCalibrated(set, opt)
		Expect(err).To(MatchError(ErrSignalCount))
	})

	It("estimates the scaling factor from the peak", func() {
		s, ok := c.estimateScale(set, opt)
		Expect(ok).To(BeTrue())
		Expect(s).To(BeNumerically(">", 0))
		// The peak sample is 3600 K, so the 3000 K guess overshoots.
		Expect(s).To(BeNumerically(">", testScale))
	})

	It("rejects configuration problems before fitting", func() {
		one := &signal.Set{Channels: set.Channels[:1], Signals: set.Signals[:1]}
		_, err := c.CalcTemperatureFromSpectrum(one, opt)
		Expect(err).To(MatchError(ErrTooFewChannels))

		set.Channels[2].Wavelength = 532
		_, err = c.CalcTemperatureFromSpectrum(set, opt)
		var missing *MissingEmError
		Expect(err).To(BeAssignableToTypeOf(missing))
	})
})

var _ = Describe("CalcTemperatureFromSpectrumCalibrated", func() {
	var (
		c     *Calculator
		temps []float64
		opt   SpectrumOptions
	)

	BeforeEach(func() {
		c = NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		temps = temperatureProfile(10, 3400, 2400)
		opt = DefaultSpectrumOptions()
	})

	It("needs at least three channels", func() {
		set := synthesize(c, temps, []int{450, 650}, testScale)
		_, err := c.CalcTemperatureFromSpectrumCalibrated(set, opt)
		Expect(err).To(MatchError(ErrTooFewChannels))
	})

	It("leaves consistent channels untouched", func() {
		set := synthesize(c, temps, testWavelengths, testScale)
		res, err := c.CalcTemperatureFromSpectrumCalibrated(set, opt)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Calibration).To(HaveLen(len(testWavelengths)))
		for _, f := range res.Calibration {
			Expect(f).To(BeNumerically("~", 1, 1e-6))
		}
		for i, T := range res.Signal.Data {
			Expect(T).To(BeNumerically("~", temps[i], 1e-2))
		}
	})

	It("normalises the factors to a unit geometric mean", func() {
		set := synthesize(c, temps, testWavelengths, testScale)
		gains := []float64{1.2, 0.9, 1.0, 0.95}
		for k, g := range gains {
			set.Signals[k].Scale(g)
		}
		res, err := c.CalcTemperatureFromSpectrumCalibrated(set, opt)
		Expect(err).NotTo(HaveOccurred())

		logs := make([]float64, len(res.Calibration))
		for i, f := range res.Calibration {
			logs[i] = math.Log(f)
		}
		Expect(floats.Sum(logs)).To(BeNumerically("~", 0, 1e-9))
		Expect(res.Valid()).To(BeNumerically(">", 0))
		// The over-reading channel is turned down relative to the others.
		Expect(res.Calibration[0]).To(BeNumerically("<", res.Calibration[1]))
	})

	It("fails when nothing can be fitted", func() {
		set := synthesize(c, temps, testWavelengths, testScale)
		for _, s := range set.Signals {
			for i := range s.Data {
				s.Data[i] = 0
			}
		}
		_, err := c.CalcTemperatureFromSpectrumCalibrated(set, opt)
		Expect(err).To(MatchError(ErrCalibrationFailed))
		Expect(err).To(MatchError(ErrNoValidSamples))
	})
})
