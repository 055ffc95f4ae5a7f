package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/models/domain"
)

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockArchive) Save(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func newAnalysis(speed float64) *api.Analysis {
	return &api.Analysis{
		ID: "https://www.example.com/",
		RuleGroups: map[string]api.Score{
			CategorySpeed:     {Score: speed},
			CategoryUsability: {Score: 99},
		},
		LoadingExperience: &api.LoadingExperience{
			OverallCategory: "FAST",
			Metrics: api.OrderedMap[api.Metric]{
				{Key: "FIRST_CONTENTFUL_PAINT_MS", Value: api.Metric{Median: 1200}},
			},
		},
		PageStats: api.OrderedMap[any]{
			{Key: "numberResources", Value: 42.0},
			{Key: "htmlResponseBytes", Value: "1536"},
		},
		FormattedResults: api.FormattedResults{
			RuleResults: api.OrderedMap[api.RuleResult]{
				{Key: "MinifyCss", Value: api.RuleResult{RuleImpact: 0.5}},
				{Key: "AvoidLandingPageRedirects", Value: api.RuleResult{RuleImpact: 12.341}},
			},
		},
	}
}

func threshold(v float64) *float64 {
	return &v
}

func TestService_Generate_JSON(t *testing.T) {
	var out bytes.Buffer
	svc := NewService(&out, nil)

	err := svc.Generate(context.Background(), Params{Format: "json", Strategy: "mobile"}, newAnalysis(85))
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Len(t, doc, 4)
	assert.Equal(t, "example.com", doc["overview"]["URL"])
	assert.Equal(t, 85.0, doc["overview"]["Speed"])
	assert.Equal(t, "1.54 kB", doc["statistics"]["htmlResponseBytes"])
	assert.Equal(t, 12.35, doc["ruleResults"]["AvoidLandingPageRedirects"])
}

func TestService_Generate_ThresholdNotMet(t *testing.T) {
	var out bytes.Buffer
	archive := new(mockArchive)
	svc := NewService(&out, archive)

	err := svc.Generate(context.Background(), Params{
		Format:   "json",
		Strategy: "mobile",
		Download: true,
	}, newAnalysis(65))

	var thresholdErr *domain.ThresholdError
	require.True(t, errors.As(err, &thresholdErr))
	assert.Equal(t, 70.0, thresholdErr.Threshold)
	assert.Equal(t, 65.0, thresholdErr.Score)
	assert.Contains(t, err.Error(), "70")
	assert.Contains(t, err.Error(), "65")

	// The report is printed before the gate fails.
	assert.Contains(t, out.String(), `"overview"`)
	archive.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestService_Generate_ExplicitThreshold(t *testing.T) {
	svc := NewService(&bytes.Buffer{}, nil)

	err := svc.Generate(context.Background(), Params{Threshold: threshold(50)}, newAnalysis(65))
	assert.NoError(t, err)

	err = svc.Generate(context.Background(), Params{Threshold: threshold(90)}, newAnalysis(85))
	var thresholdErr *domain.ThresholdError
	assert.True(t, errors.As(err, &thresholdErr))
}

func TestService_Generate_NaNThresholdUsesDefault(t *testing.T) {
	svc := NewService(&bytes.Buffer{}, nil)

	err := svc.Generate(context.Background(), Params{Threshold: threshold(math.NaN())}, newAnalysis(10))

	var thresholdErr *domain.ThresholdError
	require.True(t, errors.As(err, &thresholdErr))
	assert.Equal(t, 70.0, thresholdErr.Threshold)
}

func TestService_Generate_UnknownFormatFallsBackToCLI(t *testing.T) {
	var out bytes.Buffer
	svc := NewService(&out, nil)

	err := svc.Generate(context.Background(), Params{Format: "xml", Strategy: "mobile"}, newAnalysis(85))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Summary")
	assert.Contains(t, out.String(), "example.com")
	assert.False(t, strings.HasPrefix(out.String(), "{"))
}

func TestService_Generate_OptimizedLink(t *testing.T) {
	var out bytes.Buffer
	svc := NewService(&out, nil)

	err := svc.Generate(context.Background(), Params{Format: "json", Strategy: "mobile", Optimized: true}, newAnalysis(85))
	require.NoError(t, err)

	link := HumanizeURL(OptimizeURL("https://www.example.com/", "mobile"))
	assert.Contains(t, out.String(), "\nHere are your optimized images: "+link+"\n")
	assert.Contains(t, link, "developers.google.com/speed/pagespeed/insights/optimizeContents?")
}

func TestService_Generate_Download(t *testing.T) {
	archive := new(mockArchive)
	resourceURL := OptimizeURL("https://www.example.com/", "desktop")
	archive.On("Download", mock.Anything, resourceURL).Return([]byte("zip"), nil)
	archive.On("Save", []byte("zip")).Return(nil)

	svc := NewService(&bytes.Buffer{}, archive)
	err := svc.Generate(context.Background(), Params{Strategy: "desktop", Download: true}, newAnalysis(85))

	require.NoError(t, err)
	archive.AssertExpectations(t)
}

func TestService_Generate_DownloadFailure(t *testing.T) {
	archive := new(mockArchive)
	archive.On("Download", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	svc := NewService(&bytes.Buffer{}, archive)
	err := svc.Generate(context.Background(), Params{Strategy: "mobile", Download: true}, newAnalysis(85))

	assert.EqualError(t, err, "connection reset")
	archive.AssertNotCalled(t, "Save", mock.Anything)
}

func TestService_Generate_DownloadWithoutArchive(t *testing.T) {
	svc := NewService(&bytes.Buffer{}, nil)
	err := svc.Generate(context.Background(), Params{Download: true}, newAnalysis(85))
	assert.Error(t, err)
}

func TestService_Generate_MissingSpeed(t *testing.T) {
	var out bytes.Buffer
	analysis := newAnalysis(85)
	delete(analysis.RuleGroups, CategorySpeed)

	err := NewService(&out, nil).Generate(context.Background(), Params{}, analysis)

	assert.True(t, errors.Is(err, domain.ErrMissingField))
	var thresholdErr *domain.ThresholdError
	assert.False(t, errors.As(err, &thresholdErr))
	assert.Empty(t, out.String())
}

func TestOptimizeURL(t *testing.T) {
	assert.Equal(t,
		"https://developers.google.com/speed/pagespeed/insights/optimizeContents?strategy=mobile&url=https%3A%2F%2Fexample.com%2F",
		OptimizeURL("https://example.com/", "mobile"))
}

func TestResolveThreshold(t *testing.T) {
	assert.Equal(t, 70.0, ResolveThreshold(nil))
	assert.Equal(t, 42.0, ResolveThreshold(threshold(42)))
	assert.Equal(t, 70.0, ResolveThreshold(threshold(math.NaN())))
	assert.Equal(t, 70.0, ResolveThreshold(threshold(math.Inf(-1))))
	assert.Equal(t, 70.0, ResolveThreshold(threshold(math.Inf(1))))
}
