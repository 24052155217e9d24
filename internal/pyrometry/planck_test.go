package pyrometry

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/signal"
)

var _ = Describe("Planck", func() {
	var c *Calculator

	BeforeEach(func() {
		c = NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
	})

	It("follows the radiation law", func() {
		lambda, T := 650e-9, 3000.0
		want := 2.0 * 0.3 / lambda * constants.C1 / math.Pow(lambda, 5) / (math.Exp(constants.C2/(lambda*T)) - 1)
		Expect(PlanckIntensity(lambda, T, 2, 0.3)).To(BeNumerically("~", want, want*1e-12))
		Expect(c.Planck(650, T, 2)).To(BeNumerically("~", want, want*1e-12))
	})

	It("is zero for non-physical input", func() {
		Expect(PlanckIntensity(0, 3000, 1, 1)).To(Equal(0.0))
		Expect(PlanckIntensity(650e-9, 0, 1, 1)).To(Equal(0.0))
	})

	It("reduces to the center value for a zero bandwidth", func() {
		Expect(c.PlanckBandpass(650, 0, 2500, 1)).To(Equal(c.Planck(650, 2500, 1)))
	})

	It("averages the band for a finite bandwidth", func() {
		c = NewCalculator(sootMaterial(property.Record{Name: "Em_func", Type: "const", Values: []float64{0.3}}), EmContinuous, logger.Nop())
		center := c.Planck(650, 2500, 1)
		band := c.PlanckBandpass(650, 5, 2500, 1)
		Expect(band).To(BeNumerically("~", center, center*0.01))
	})

	It("holds tabulated E(m) at the center value across the band", func() {
		center := c.Planck(650, 2500, 1)
		for _, hb := range []int{5, 10} {
			band := c.PlanckBandpass(650, hb, 2500, 1)
			Expect(band).To(BeNumerically("~", center, center*0.01), "half bandwidth %d", hb)
		}
	})

	It("weights the band with the filter transmission", func() {
		c.Filter = signal.NewFilter("nd", map[int]float64{600: 0.5, 700: 0.5})
		want := 0.5 * c.Planck(650, 2500, 1)
		Expect(c.PlanckBandpass(650, 0, 2500, 1)).To(BeNumerically("~", want, want*1e-12))
	})
})
