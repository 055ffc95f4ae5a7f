package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/de-tools/speed-report/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth int
	MaxWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 20,
		MaxWidth:   80,
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F8C8D"))
)

const cliTemplate = `{{title "Summary"}}

{{range .Overview}}{{row .Label .Value}}
{{end}}{{verdict}}
{{if .LoadingExperience}}
{{title "Loading Experience"}}

{{range .LoadingExperience}}{{row .Label .Value}}
{{end}}{{end}}{{if .Statistics}}
{{title "Page Statistics"}}

{{table .Statistics}}{{end}}{{if .RuleSetResults}}
{{title "Rule Impact"}}

{{table .RuleSetResults}}{{end}}`

// CLIRenderer prints the report for a terminal. The speed score is colored
// according to whether it meets the threshold.
type CLIRenderer struct {
	config TableConfig
}

func NewCLIRenderer() *CLIRenderer {
	return &CLIRenderer{config: DefaultTableConfig()}
}

func (r *CLIRenderer) Render(report domain.Report, threshold float64) (string, error) {
	score, hasScore := speedScore(report)
	passed := hasScore && score >= threshold

	funcMap := template.FuncMap{
		"title": func(s string) string {
			return titleStyle.Render(s)
		},
		"row": func(label string, value any) string {
			text := formatValue(value)
			if label == "Speed" && hasScore {
				text = scoreStyle(passed).Render(text)
			}
			return fmt.Sprintf("%-*s %s", r.config.LabelWidth, label+":", text)
		},
		"verdict": func() string {
			limit := "Threshold: " + domain.FormatNumber(threshold)
			if passed {
				return mutedStyle.Render(limit) + " " + passStyle.Render("passed")
			}
			return mutedStyle.Render(limit) + " " + failStyle.Render("failed")
		},
		"table": r.table,
	}

	t, err := template.New("report").Funcs(funcMap).Parse(cliTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (r *CLIRenderer) table(section domain.Section) (string, error) {
	var buf bytes.Buffer
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: r.config.MaxWidth,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	table := tablewriter.NewTable(&buf,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader([]string{"Name", "Value"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	for _, row := range section {
		if err := table.Append([]string{row.Label, formatValue(row.Value)}); err != nil {
			return "", fmt.Errorf("failed to add row %q: %w", row.Label, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return buf.String(), nil
}

func scoreStyle(passed bool) lipgloss.Style {
	if passed {
		return passStyle
	}
	return failStyle
}
