package export

import "github.com/de-tools/speed-report/pkg/models/domain"

func sampleReport(speed float64) domain.Report {
	return domain.Report{
		Overview: domain.Section{
			{Label: "URL", Value: "example.com"},
			{Label: "Strategy", Value: "mobile"},
			{Label: "Speed", Value: speed},
		},
		LoadingExperience: domain.Section{
			{Label: "overall_category", Value: "FAST"},
		},
		Statistics: domain.Section{
			{Label: "numberResources", Value: 42.0},
		},
		RuleSetResults: domain.Section{
			{Label: "MinifyCss", Value: 0.5},
		},
	}
}
