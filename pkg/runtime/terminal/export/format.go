package export

import (
	"fmt"

	"github.com/de-tools/speed-report/pkg/models/domain"
)

// Format identifies one of the supported report renderers.
type Format int

const (
	FormatCLI Format = iota
	FormatJSON
	FormatTAP
)

var formatNames = map[Format]string{
	FormatCLI:  "cli",
	FormatJSON: "json",
	FormatTAP:  "tap",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name to a Format. Unknown names fall back to
// FormatCLI so a bad flag never prevents a report from being printed.
func ParseFormat(name string) Format {
	switch name {
	case "json":
		return FormatJSON
	case "tap":
		return FormatTAP
	default:
		return FormatCLI
	}
}

// FormatNames lists the accepted format names.
func FormatNames() []string {
	return []string{FormatCLI.String(), FormatJSON.String(), FormatTAP.String()}
}

// Renderer turns the report sections into the final output text.
type Renderer interface {
	Render(report domain.Report, threshold float64) (string, error)
}

// NewRenderer returns the renderer for f. Unknown values get the CLI renderer.
func NewRenderer(f Format) Renderer {
	switch f {
	case FormatJSON:
		return JSONRenderer{}
	case FormatTAP:
		return TAPRenderer{}
	default:
		return NewCLIRenderer()
	}
}

func formatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return domain.FormatNumber(n)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func speedScore(report domain.Report) (float64, bool) {
	v, ok := report.Overview.Lookup("Speed")
	if !ok {
		return 0, false
	}
	score, ok := v.(float64)
	return score, ok
}
