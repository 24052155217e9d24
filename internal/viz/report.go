package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/san-kum/liisim/internal/pyrometry"
	"github.com/san-kum/liisim/internal/sim"
)

// Availability renders the result of an availability check, one line per
// problem.
func Availability(name string, err error) string {
	if err == nil {
		return StatusOK.Render("✓") + " " + name + " is available"
	}
	errs := multierr.Errors(err)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s is unavailable (%d problems)", StatusFail.Render("✗"), name, len(errs))
	for _, e := range errs {
		b.WriteString("\n  " + StatusFail.Render("•") + " " + e.Error())
	}
	return b.String()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6g", v)
}

// Metrics renders name/value pairs sorted by name.
func Metrics(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, MetricLabel.Render(name)+MetricValue.Render(formatValue(metrics[name])))
	}
	return strings.Join(lines, "\n")
}

// RunSummary renders the outcome of a single run.
func RunSummary(res *sim.Result) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("run") + "\n")
	fmt.Fprintf(&b, "%s%d\n", MetricLabel.Render("steps"), res.StepsTaken)
	if res.Rejected > 0 {
		fmt.Fprintf(&b, "%s%d\n", MetricLabel.Render("shortened steps"), res.Rejected)
	}
	if err := res.Err(); err != nil {
		b.WriteString(StatusWarn.Render("ended early: ") + err.Error() + "\n")
	}
	b.WriteString(Metrics(res.Metrics))
	return b.String()
}

// Ensemble renders one row per particle size: temperature sparkline and
// mass loss.
func Ensemble(diameters []float64, results []*sim.Result, width int) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-10s %-*s %s", "d0 [nm]", width, "temperature", "mass loss")) + "\n")
	for i, res := range results {
		if res == nil || i >= len(diameters) {
			continue
		}
		loss := res.Metrics["mass_loss"]
		fmt.Fprintf(&b, "%-10.1f %s %s %5.1f%%\n",
			diameters[i]*1e9,
			SparklineChart(res.Temperature, width),
			ProgressBar(loss, 20),
			loss*100,
		)
	}
	return b.String()
}

// Temperature renders a summary of a pyrometry result.
func Temperature(t *pyrometry.Temperature) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(t.Method) + "\n")
	fmt.Fprintf(&b, "%s%d\n", MetricLabel.Render("samples"), t.Len())

	valid := t.Valid()
	status := StatusOK
	if valid < t.Len() {
		status = StatusWarn
	}
	if valid == 0 {
		status = StatusFail
	}
	fmt.Fprintf(&b, "%s%s\n", MetricLabel.Render("valid"), status.Render(fmt.Sprintf("%d", valid)))

	if t.Len() > 0 {
		_, peak := t.Signal.Peak()
		fmt.Fprintf(&b, "%s%s\n", MetricLabel.Render("peak [K]"), MetricValue.Render(formatValue(peak)))
	}

	if len(t.Fits) > 0 {
		converged := 0
		chi2 := 0.0
		for _, f := range t.Fits {
			if f.Converged {
				converged++
			}
			chi2 += f.Chi2
		}
		fmt.Fprintf(&b, "%s%d/%d\n", MetricLabel.Render("converged"), converged, len(t.Fits))
		fmt.Fprintf(&b, "%s%s\n", MetricLabel.Render("mean chi2"), MetricValue.Render(formatValue(chi2/float64(len(t.Fits)))))
	}

	for i, f := range t.Calibration {
		fmt.Fprintf(&b, "%s%s\n", MetricLabel.Render(fmt.Sprintf("calibration %d", i)), MetricValue.Render(formatValue(f)))
	}
	return strings.TrimRight(b.String(), "\n")
}
