package report

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/models/domain"
	"github.com/de-tools/speed-report/pkg/runtime/terminal/export"
	reportsvc "github.com/de-tools/speed-report/pkg/services/report"
	"github.com/de-tools/speed-report/pkg/store/client"
)

const defaultStrategy = "mobile"

// Analyzer fetches a PageSpeed analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req client.Request) (*api.Analysis, error)
}

type Handler struct {
	analyzer Analyzer
	apiKey   string
}

func NewHandler(analyzer Analyzer, apiKey string) *Handler {
	return &Handler{
		analyzer: analyzer,
		apiKey:   apiKey,
	}
}

// GetReport renders the report for the url query parameter. A speed score
// below the threshold still returns the report, with 422 instead of 200.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	target := strings.TrimSpace(query.Get("url"))
	if target == "" {
		http.Error(w, "missing 'url' query parameter", http.StatusBadRequest)
		return
	}

	strategy := query.Get("strategy")
	if strategy == "" {
		strategy = defaultStrategy
	}

	params := reportsvc.Params{
		Format:    query.Get("format"),
		Strategy:  strategy,
		Threshold: parseThreshold(query.Get("threshold")),
	}

	analysis, err := h.analyzer.Analyze(ctx, client.Request{
		URL:      target,
		Strategy: strategy,
		Locale:   query.Get("locale"),
		APIKey:   h.apiKey,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Str("url", target).
			Msg("failed to analyze page")
		http.Error(w, "failed to analyze page", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	status := http.StatusOK
	err = reportsvc.NewService(&buf, nil).Generate(ctx, params, analysis)
	var thresholdErr *domain.ThresholdError
	switch {
	case errors.As(err, &thresholdErr):
		status = http.StatusUnprocessableEntity
	case err != nil:
		logger.Error().
			Err(err).
			Str("url", target).
			Msg("failed to generate report")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if export.ParseFormat(params.Format) == export.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to write report")
	}
}

func parseThreshold(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
