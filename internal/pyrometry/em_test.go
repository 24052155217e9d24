package pyrometry

import (
	"errors"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/signal"
)

func channels(wls ...int) []signal.Channel {
	out := make([]signal.Channel, len(wls))
	for i, wl := range wls {
		out[i] = signal.Channel{Wavelength: wl}
	}
	return out
}

var _ = Describe("CheckEmSource", func() {
	It("accepts a complete table", func() {
		c := NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		Expect(c.CheckEmSource(channels(testWavelengths...))).To(Succeed())
	})

	It("reports every channel missing from the table", func() {
		c := NewCalculator(sootMaterial(), EmTabulated, logger.Nop())
		err := c.CheckEmSource(channels(450, 500, 532, 650))
		errs := multierr.Errors(err)
		Expect(errs).To(HaveLen(2))

		var first, second *MissingEmError
		Expect(errors.As(errs[0], &first)).To(BeTrue())
		Expect(errors.As(errs[1], &second)).To(BeTrue())
		Expect([]int{first.Channel, second.Channel}).To(Equal([]int{1, 2}))
		Expect([]int{first.Wavelength, second.Wavelength}).To(Equal([]int{500, 532}))
	})

	It("requires a usable function for the continuous source", func() {
		c := NewCalculator(sootMaterial(), EmContinuous, logger.Nop())
		Expect(c.CheckEmSource(channels(450))).To(MatchError(ErrEmFunction))

		c.Material = sootMaterial(property.Record{Name: "Em_func", Type: "optics_lambda", Values: []float64{0.2, 1e-4}})
		Expect(c.CheckEmSource(channels(450))).To(Succeed())
		Expect(c.Em(500, 3000)).To(BeNumerically("~", 0.25, 1e-12))
	})

	It("requires both Drude parameters", func() {
		c := NewCalculator(sootMaterial(), EmDrude, logger.Nop())
		err := c.CheckEmSource(channels(450))
		Expect(multierr.Errors(err)).To(HaveLen(2))
		Expect(err).To(MatchError(ErrDrudeParameters))
	})

	It("fails without a material", func() {
		c := NewCalculator(nil, EmTabulated, logger.Nop())
		Expect(c.CheckEmSource(channels(450))).To(MatchError(ErrNoMaterial))
		Expect(c.Em(450, 3000)).To(Equal(0.0))
	})
})

var _ = Describe("ParseEmSource", func() {
	It("round trips the names", func() {
		for _, s := range []EmSource{EmTabulated, EmContinuous, EmDrude} {
			got, err := ParseEmSource(s.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(s))
		}
		_, err := ParseEmSource("mie")
		Expect(err).To(MatchError(ErrUnknownEmSource))
	})
})

var _ = Describe("DrudeEm", func() {
	It("matches the dielectric function directly", func() {
		lambda, wp, tau := 532e-9, 1.4e16, 5e-16
		w := 2 * constants.Pi * constants.SpeedOfLight / lambda
		eps := 1 - complex(wp*wp, 0)/complex(w*w, w/tau)
		want := imag((eps - 1) / (eps + 2))

		Expect(DrudeEm(lambda, wp, tau)).To(BeNumerically("~", want, 1e-12))
		Expect(cmplx.IsNaN(eps)).To(BeFalse())
		Expect(want).To(BeNumerically(">", 0))
	})

	It("is zero for a non-positive wavelength", func() {
		Expect(DrudeEm(0, 1e16, 1e-15)).To(Equal(0.0))
	})

	It("evaluates through the calculator with wavelength in nm", func() {
		mat := sootMaterial(
			property.Record{Name: "omega_p", Type: "const", Values: []float64{1.4e16}},
			property.Record{Name: "tau", Type: "const", Values: []float64{5e-16}},
		)
		c := NewCalculator(mat, EmDrude, logger.Nop())
		Expect(c.CheckEmSource(channels(532))).To(Succeed())
		Expect(c.Em(532, 3000)).To(Equal(DrudeEm(532e-9, 1.4e16, 5e-16)))
	})

	It("returns zero with a rate-limited warning when parameters are missing", func() {
		core, logs := observer.New(zapcore.WarnLevel)
		c := NewCalculator(sootMaterial(), EmDrude, logger.FromZap(zap.New(core)))

		for i := 0; i < 5; i++ {
			Expect(c.Em(532, 3000)).To(Equal(0.0))
		}
		Expect(logs.FilterMessageSnippet("Drude").Len()).To(Equal(1))
	})

	It("stays finite across the visible range", func() {
		for wl := 400.0; wl <= 900; wl += 50 {
			v := DrudeEm(wl*1e-9, 1.4e16, 5e-16)
			Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
		}
	})
})
