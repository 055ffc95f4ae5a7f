package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/speed-report/pkg/models/domain"
)

// JSONRenderer prints the report as an indented JSON document. The threshold
// is not part of the document.
type JSONRenderer struct{}

type jsonDocument struct {
	Overview          domain.Section `json:"overview"`
	LoadingExperience domain.Section `json:"loadingExperience"`
	Statistics        domain.Section `json:"statistics"`
	RuleResults       domain.Section `json:"ruleResults"`
}

func (JSONRenderer) Render(report domain.Report, _ float64) (string, error) {
	doc := jsonDocument{
		Overview:          report.Overview,
		LoadingExperience: report.LoadingExperience,
		Statistics:        report.Statistics,
		RuleResults:       report.RuleSetResults,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
