package simulate

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"

	"github.com/gocarina/gocsv"
)

// WriteSamples writes the report's sample series as CSV with a header row.
func WriteSamples(w io.Writer, report *Report) error {
	if len(report.Series) == 0 {
		return fmt.Errorf("report for %s has no samples", report.Scenario)
	}
	if err := gocsv.Marshal(report.Series, w); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	return nil
}

// FormatReport generates a human-readable markdown report.
func FormatReport(report *Report) string {
	var b strings.Builder

	b.WriteString("# Hearts Simulation Report\n\n")
	b.WriteString(fmt.Sprintf("**Scenario:** `%s`: %s\n", report.Scenario, report.Description))
	b.WriteString(fmt.Sprintf("**Seed:** %d\n", report.Seed))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt))

	cfg := report.Config
	b.WriteString("## Configuration\n\n")
	b.WriteString("| Setting | Value |\n")
	b.WriteString("|---------|-------|\n")
	b.WriteString(fmt.Sprintf("| Max Particles | %d |\n", cfg.MaxParticles))
	b.WriteString(fmt.Sprintf("| Throttle | %s |\n", timeutil.FormatDuration(cfg.ThrottleDelay)))
	b.WriteString(fmt.Sprintf("| Lifetime | %s |\n", timeutil.FormatDuration(cfg.Lifetime)))
	b.WriteString(fmt.Sprintf("| Reap Interval | %s |\n", timeutil.FormatDuration(cfg.ReapInterval)))
	b.WriteString(fmt.Sprintf("| Burst Size | %d to %d |\n\n", cfg.BurstMin, cfg.BurstMax-1))

	s := report.Stats
	b.WriteString("## Lifecycle\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Virtual Time | %s |\n", timeutil.FormatDuration(time.Duration(report.DurationMs)*time.Millisecond)))
	b.WriteString(fmt.Sprintf("| Tasks Run | %d |\n", report.Tasks))
	b.WriteString(fmt.Sprintf("| Spawned | %d |\n", s.Spawned))
	b.WriteString(fmt.Sprintf("| Dropped At Capacity | %d |\n", s.Dropped))
	b.WriteString(fmt.Sprintf("| Suppressed | %d |\n", s.Suppressed))
	b.WriteString(fmt.Sprintf("| Bursts | %d |\n", s.Bursts))
	b.WriteString(fmt.Sprintf("| Expired | %d |\n", s.Expired))
	b.WriteString(fmt.Sprintf("| Evicted | %d |\n", s.Evicted))
	b.WriteString(fmt.Sprintf("| Pruned | %d |\n", s.Pruned))
	b.WriteString(fmt.Sprintf("| Cleared | %d |\n", s.Cleared))
	b.WriteString(fmt.Sprintf("| Reap Passes | %d |\n\n", s.Reaps))

	b.WriteString("## Population\n\n")
	b.WriteString(fmt.Sprintf("- **Samples:** %d\n", report.Samples))
	b.WriteString(fmt.Sprintf("- **Peak:** %d\n", report.PeakLen))
	b.WriteString(fmt.Sprintf("- **Mean:** %.2f (σ %.2f)\n", report.MeanLen, report.StdDevLen))
	b.WriteString(fmt.Sprintf("- **Trend:** %+.2f particles/sec\n", report.Trend))
	b.WriteString(fmt.Sprintf("- **Final:** %d\n\n", report.FinalLen))

	if len(report.Events) > 0 {
		b.WriteString("## Timeline\n\n")
		for _, e := range report.Events {
			b.WriteString(fmt.Sprintf("- `%s` %s\n", e.At, e.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Invariants\n\n")
	if report.OK() {
		b.WriteString("All invariants held.\n")
	} else {
		for _, v := range report.Violations {
			b.WriteString(fmt.Sprintf("- **⚠ VIOLATION:** %s\n", v))
		}
	}

	return b.String()
}
