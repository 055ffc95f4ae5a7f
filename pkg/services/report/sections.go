package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/models/domain"
)

const (
	CategorySpeed     = "SPEED"
	CategoryUsability = "USABILITY"
)

// Overview lists the analyzed URL, the strategy and the category scores.
// Usability is only present when the analysis scored it.
func Overview(url, strategy string, scores map[string]api.Score) (domain.Section, error) {
	speed, ok := scores[CategorySpeed]
	if !ok {
		return nil, fmt.Errorf("ruleGroups.%s.score: %w", CategorySpeed, domain.ErrMissingField)
	}

	section := domain.Section{
		{Label: "URL", Value: url},
		{Label: "Strategy", Value: strategy},
		{Label: "Speed", Value: speed.Score},
	}
	if usability, ok := scores[CategoryUsability]; ok {
		section = append(section, domain.LabeledValue{Label: "Usability", Value: usability.Score})
	}
	return section, nil
}

// LoadingExperience lists the overall category followed by the metric medians
// in the order the analysis returned them.
func LoadingExperience(data *api.LoadingExperience) domain.Section {
	if data == nil {
		return domain.Section{}
	}

	section := make(domain.Section, 0, len(data.Metrics)+1)
	section = append(section, domain.LabeledValue{Label: "overall_category", Value: data.OverallCategory})
	for _, metric := range data.Metrics {
		section = append(section, domain.LabeledValue{
			Label: metric.Key,
			Value: domain.FormatNumber(metric.Value.Median) + " ms",
		})
	}
	return section
}

// Statistics lists the page statistics sorted by name. Byte counts are humanized.
func Statistics(stats api.OrderedMap[any]) (domain.Section, error) {
	section := make(domain.Section, 0, len(stats))
	for _, stat := range stats {
		value := stat.Value
		if strings.Contains(stat.Key, "Bytes") {
			n, err := toNumber(stat.Value)
			if err != nil {
				return nil, fmt.Errorf("pageStats.%s: %w", stat.Key, err)
			}
			value = HumanizeBytes(n)
		}
		section = append(section, domain.LabeledValue{Label: stat.Key, Value: value})
	}
	sortByLabel(section)
	return section, nil
}

// RuleSetResults lists the impact of each rule sorted by rule name.
func RuleSetResults(rules api.OrderedMap[api.RuleResult]) domain.Section {
	section := make(domain.Section, 0, len(rules))
	for _, rule := range rules {
		section = append(section, domain.LabeledValue{
			Label: rule.Key,
			Value: CeilHundredths(rule.Value.RuleImpact),
		})
	}
	sortByLabel(section)
	return section
}

// Extract builds all four report sections from an analysis.
func Extract(analysis *api.Analysis, strategy string) (domain.Report, error) {
	if analysis == nil {
		return domain.Report{}, fmt.Errorf("analysis: %w", domain.ErrMissingField)
	}

	overview, err := Overview(HumanizeURL(analysis.ID), strategy, analysis.RuleGroups)
	if err != nil {
		return domain.Report{}, err
	}

	statistics, err := Statistics(analysis.PageStats)
	if err != nil {
		return domain.Report{}, err
	}

	return domain.Report{
		Overview:          overview,
		LoadingExperience: LoadingExperience(analysis.LoadingExperience),
		Statistics:        statistics,
		RuleSetResults:    RuleSetResults(analysis.FormattedResults.RuleResults),
	}, nil
}

func sortByLabel(section domain.Section) {
	slices.SortStableFunc(section, func(a, b domain.LabeledValue) int {
		return strings.Compare(a.Label, b.Label)
	})
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number: %w", n, domain.ErrInvalidField)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected value %v: %w", v, domain.ErrInvalidField)
	}
}
