package pyrometry

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/signal"
)

var _ = Describe("TwoColor", func() {
	It("matches the closed form for equal intensities", func() {
		Expect(TwoColor(1, 1, 450e-9, 650e-9, 1, 1)).To(BeNumerically("~", 4458.857277705381, 1e-6))
	})

	It("returns exactly zero for non-positive intensities", func() {
		Expect(TwoColor(0, 1, 450e-9, 650e-9, 1, 1)).To(Equal(0.0))
		Expect(TwoColor(1, 0, 450e-9, 650e-9, 1, 1)).To(Equal(0.0))
		Expect(TwoColor(-2, 1, 450e-9, 650e-9, 1, 1)).To(Equal(0.0))
		Expect(TwoColor(math.NaN(), 1, 450e-9, 650e-9, 1, 1)).To(Equal(0.0))
	})

	It("clamps into the physical bracket", func() {
		c := NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		hot := c.TwoColor(c.Planck(450, 9000, 1), c.Planck(650, 9000, 1), 450, 650)
		cold := c.TwoColor(c.Planck(450, 200, 1), c.Planck(650, 200, 1), 450, 650)
		Expect(hot).To(Equal(MaxTemperature))
		Expect(cold).To(Equal(MinTemperature))
	})

	It("recovers a Planck temperature within the Wien approximation", func() {
		c := NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		for _, T := range []float64{1500, 2500, 3500} {
			got := c.TwoColor(c.Planck(450, T, testScale), c.Planck(650, T, testScale), 450, 650)
			Expect(got).To(BeNumerically("~", T, T*1e-3))
		}
	})
})

var _ = Describe("CalcTemperatureFromTwoColor", func() {
	var c *Calculator

	BeforeEach(func() {
		c = NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
	})

	It("produces one temperature per sample with sentinels for dark samples", func() {
		temps := temperatureProfile(10, 3500, 2000)
		set := synthesize(c, temps, []int{450, 650}, testScale)
		set.Signals[1].Data[4] = 0

		res, err := c.CalcTemperatureFromTwoColor(set, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Len()).To(Equal(10))
		Expect(res.Signal.Data[4]).To(Equal(0.0))
		Expect(res.Valid()).To(Equal(9))
		for i, T := range res.Signal.Data {
			if i == 4 {
				continue
			}
			Expect(T).To(BeNumerically("~", temps[i], 5))
		}
	})

	It("aligns signals on different timebases", func() {
		temps := temperatureProfile(21, 3500, 2000)
		set := synthesize(c, temps, []int{450, 650}, testScale)
		coarse := set.Signals[1]
		set.Signals[1] = coarse.Resample(0, 2e-9, 11)

		res, err := c.CalcTemperatureFromTwoColor(set, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Signal.Dt).To(Equal(2e-9))
		Expect(res.Len()).To(Equal(11))
	})

	It("returns an empty result when E(m) is missing", func() {
		set := synthesize(c, []float64{3000, 2900}, []int{450, 532}, testScale)
		res, err := c.CalcTemperatureFromTwoColor(set, 0, 1)
		Expect(err).To(HaveOccurred())
		Expect(res.Len()).To(Equal(0))

		var missing *MissingEmError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Wavelength).To(Equal(532))
	})

	It("rejects bad channel indices", func() {
		set := synthesize(c, []float64{3000}, []int{450, 650}, testScale)
		_, err := c.CalcTemperatureFromTwoColor(set, 0, 0)
		Expect(err).To(MatchError(ErrChannelIndex))
		_, err = c.CalcTemperatureFromTwoColor(set, 0, 2)
		Expect(err).To(MatchError(ErrChannelIndex))
	})

	It("rejects channels without signals", func() {
		set := synthesize(c, []float64{3000}, []int{450, 650}, testScale)
		set.Channels = append(set.Channels, signal.Channel{Wavelength: 750})
		_, err := c.CalcTemperatureFromTwoColor(set, 0, 2)
		Expect(err).To(MatchError(ErrSignalCount))
	})
})

var _ = Describe("signal set helpers", func() {
	It("keeps channel order when aligned", func() {
		set := &signal.Set{
			Channels: []signal.Channel{{Wavelength: 650}, {Wavelength: 450}},
			Signals:  []*signal.Signal{signal.New(0, 1, []float64{1, 2}), signal.New(0, 1, []float64{3, 4})},
		}
		a, err := set.Aligned()
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Channels[0].Wavelength).To(Equal(650))
	})
})
