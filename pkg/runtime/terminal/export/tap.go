package export

import (
	"fmt"
	"strings"

	"github.com/de-tools/speed-report/pkg/models/domain"
)

// TAPRenderer prints the report as a TAP version 13 stream. Every row is an
// assertion and the speed gate is the last one.
type TAPRenderer struct{}

func (TAPRenderer) Render(report domain.Report, threshold float64) (string, error) {
	var b strings.Builder
	b.WriteString("TAP version 13\n")

	n := 0
	sections := []struct {
		name    string
		section domain.Section
	}{
		{"Overview", report.Overview},
		{"Loading Experience", report.LoadingExperience},
		{"Statistics", report.Statistics},
		{"Rule Results", report.RuleSetResults},
	}
	for _, s := range sections {
		if len(s.section) == 0 {
			continue
		}
		fmt.Fprintf(&b, "# %s\n", s.name)
		for _, row := range s.section {
			n++
			fmt.Fprintf(&b, "ok %d - %s: %s\n", n, escapeDescription(row.Label), escapeDescription(formatValue(row.Value)))
		}
	}

	n++
	b.WriteString("# Threshold\n")
	score, ok := speedScore(report)
	switch {
	case !ok:
		fmt.Fprintf(&b, "not ok %d - Speed score missing\n", n)
	case score < threshold:
		fmt.Fprintf(&b, "not ok %d - Speed score %s is below threshold %s\n",
			n, domain.FormatNumber(score), domain.FormatNumber(threshold))
		fmt.Fprintf(&b, "  ---\n  score: %s\n  threshold: %s\n  ...\n",
			domain.FormatNumber(score), domain.FormatNumber(threshold))
	default:
		fmt.Fprintf(&b, "ok %d - Speed score %s meets threshold %s\n",
			n, domain.FormatNumber(score), domain.FormatNumber(threshold))
	}

	fmt.Fprintf(&b, "1..%d", n)
	return b.String(), nil
}

// '#' starts a directive in a TAP description.
func escapeDescription(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "#", `\#`)
}
