package api

// Analysis is the body returned by the PageSpeed Insights v4 runPagespeed
// endpoint. Only the fields used for reporting are mapped.
type Analysis struct {
	ID                string             `json:"id"`
	ResponseCode      int                `json:"responseCode"`
	Title             string             `json:"title"`
	RuleGroups        map[string]Score   `json:"ruleGroups"`
	LoadingExperience *LoadingExperience `json:"loadingExperience,omitempty"`
	PageStats         OrderedMap[any]    `json:"pageStats"`
	FormattedResults  FormattedResults   `json:"formattedResults"`
}

type Score struct {
	Score float64 `json:"score"`
}

type LoadingExperience struct {
	ID              string             `json:"id"`
	OverallCategory string             `json:"overall_category"`
	Metrics         OrderedMap[Metric] `json:"metrics"`
}

type Metric struct {
	Median   float64 `json:"median"`
	Category string  `json:"category"`
}

type FormattedResults struct {
	Locale      string                 `json:"locale"`
	RuleResults OrderedMap[RuleResult] `json:"ruleResults"`
}

type RuleResult struct {
	LocalizedRuleName string   `json:"localizedRuleName"`
	RuleImpact        float64  `json:"ruleImpact"`
	Groups            []string `json:"groups"`
}

// APIError is the error envelope returned by Google APIs.
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
