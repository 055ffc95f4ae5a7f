package terminal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/models/domain"
	"github.com/de-tools/speed-report/pkg/store/client"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req client.Request) (*api.Analysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.Analysis), args.Error(1)
}

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
	return m.Called(data).Error(0)
}

func analysis(speed float64) *api.Analysis {
	return &api.Analysis{
		ID:         "http://example.com/",
		RuleGroups: map[string]api.Score{"SPEED": {Score: speed}},
	}
}

func newTestCLI(analyzer *mockAnalyzer, archive *mockArchive) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cli := NewCLI(Options{
		Analyzer: analyzer,
		Archive:  archive,
		Output:   &out,
		ErrOut:   &errOut,
		Version:  "1.2.3",
	})
	return cli, &out, &errOut
}

func TestCLI_Report_JSON(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, client.Request{
		URL:      "http://example.com",
		Strategy: "desktop",
		Locale:   "en_US",
	}).Return(analysis(90), nil)

	cli, out, _ := newTestCLI(analyzer, new(mockArchive))
	err := cli.ExecuteContext(context.Background(), "report", "example.com", "--format", "json", "--strategy", "desktop")

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"Strategy": "desktop"`)
	analyzer.AssertExpectations(t)
}

func TestCLI_Report_ThresholdNotMet(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysis(65), nil)
	archive := new(mockArchive)

	cli, out, _ := newTestCLI(analyzer, archive)
	err := cli.ExecuteContext(context.Background(), "report", "https://example.com", "--format", "tap", "--download")

	var thresholdErr *domain.ThresholdError
	require.True(t, errors.As(err, &thresholdErr))
	assert.Contains(t, out.String(), "not ok")
	archive.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)

	var printed bytes.Buffer
	PrintError(&printed, err)
	assert.Equal(t, "Threshold of 70 not met with score of 65\n", printed.String())
}

func TestCLI_Report_Download(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysis(95), nil)
	archive := new(mockArchive)
	archive.On("Download", mock.Anything, mock.Anything).Return([]byte("zip"), nil)
	archive.On("Save", []byte("zip")).Return(nil)

	cli, _, _ := newTestCLI(analyzer, archive)
	err := cli.ExecuteContext(context.Background(), "report", "example.com", "--download", "--threshold", "90")

	require.NoError(t, err)
	archive.AssertExpectations(t)
}

func TestCLI_Report_AnalyzeFailure(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	cli, out, _ := newTestCLI(analyzer, nil)
	err := cli.ExecuteContext(context.Background(), "report", "example.com")

	require.Error(t, err)
	assert.Empty(t, out.String())

	var printed bytes.Buffer
	PrintError(&printed, err)
	assert.Equal(t, "Error: failed to analyze http://example.com: boom\n", printed.String())
}

func TestCLI_Report_RequiresURL(t *testing.T) {
	cli, _, _ := newTestCLI(new(mockAnalyzer), nil)
	assert.Error(t, cli.ExecuteContext(context.Background(), "report"))
}

func TestCLI_Version(t *testing.T) {
	cli, out, _ := newTestCLI(new(mockAnalyzer), nil)
	require.NoError(t, cli.ExecuteContext(context.Background(), "version"))
	assert.Equal(t, "1.2.3\n", out.String())
}

func TestPrintError_Wrapped(t *testing.T) {
	var printed bytes.Buffer
	PrintError(&printed, fmt.Errorf("report: %w", &domain.ThresholdError{Threshold: 80, Score: 79.5}))
	assert.Equal(t, "report: Threshold of 80 not met with score of 79.5\n", printed.String())
}
