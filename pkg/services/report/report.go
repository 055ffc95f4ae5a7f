package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"

	"github.com/rs/zerolog"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/models/domain"
	"github.com/de-tools/speed-report/pkg/runtime/terminal/export"
)

const (
	DefaultThreshold = 70

	optimizeContentsURL = "https://developers.google.com/speed/pagespeed/insights/optimizeContents?"
)

// Params control how a report is rendered and what happens after it is printed.
type Params struct {
	Format    string
	Strategy  string
	Threshold *float64 // nil selects DefaultThreshold
	Optimized bool
	Download  bool
}

// Archive fetches the optimized resources bundle and stores it locally.
type Archive interface {
	Download(ctx context.Context, url string) ([]byte, error)
	Save(data []byte) error
}

// Service renders analyses and applies the speed threshold.
type Service struct {
	writer  io.Writer
	archive Archive
}

// NewService creates a report service printing to writer. archive may be nil
// when downloads are never requested.
func NewService(writer io.Writer, archive Archive) *Service {
	if writer == nil {
		writer = os.Stdout
	}
	return &Service{writer: writer, archive: archive}
}

// Generate prints the report for analysis. The report is always printed
// before the threshold is checked, so a *domain.ThresholdError still leaves
// the full output behind.
func (s *Service) Generate(ctx context.Context, params Params, analysis *api.Analysis) error {
	logger := zerolog.Ctx(ctx)

	format := export.ParseFormat(params.Format)
	if params.Format != "" && params.Format != format.String() {
		logger.Debug().Str("requested", params.Format).Msg("unknown format, using cli")
	}
	renderer := export.NewRenderer(format)
	threshold := ResolveThreshold(params.Threshold)

	report, err := Extract(analysis, params.Strategy)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out, err := renderer.Render(report, threshold)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.writer, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	resourceURL := OptimizeURL(analysis.ID, params.Strategy)
	if params.Optimized {
		if _, err := fmt.Fprintln(s.writer, "\nHere are your optimized images:", HumanizeURL(resourceURL)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	score := analysis.RuleGroups[CategorySpeed].Score
	if score < threshold {
		logger.Debug().
			Float64("score", score).
			Float64("threshold", threshold).
			Msg("threshold not met")
		return &domain.ThresholdError{Threshold: threshold, Score: score}
	}

	if !params.Download {
		return nil
	}
	if s.archive == nil {
		return errors.New("download requested but no archive store is configured")
	}

	logger.Debug().Str("url", resourceURL).Msg("downloading optimized resources")
	data, err := s.archive.Download(ctx, resourceURL)
	if err != nil {
		return err
	}
	return s.archive.Save(data)
}

// ResolveThreshold returns the threshold to gate on. Unset, NaN and infinite
// values resolve to DefaultThreshold.
func ResolveThreshold(threshold *float64) float64 {
	if threshold == nil || math.IsNaN(*threshold) || math.IsInf(*threshold, 0) {
		return DefaultThreshold
	}
	return *threshold
}

// OptimizeURL builds the link to the optimized resources bundle for a site.
func OptimizeURL(site, strategy string) string {
	q := url.Values{}
	q.Set("url", site)
	q.Set("strategy", strategy)
	return optimizeContentsURL + q.Encode()
}
