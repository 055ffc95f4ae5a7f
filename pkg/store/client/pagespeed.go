package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/de-tools/speed-report/pkg/models/api"
)

const DefaultBaseURL = "https://www.googleapis.com/pagespeedonline/v4/runPagespeed"

// Request describes a single PageSpeed analysis.
type Request struct {
	URL      string
	Strategy string
	Locale   string
	APIKey   string
}

type PageSpeed struct {
	baseURL string
	client  *http.Client
}

type Option func(*PageSpeed)

func WithBaseURL(baseURL string) Option {
	return func(p *PageSpeed) {
		p.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(p *PageSpeed) {
		p.client = client
	}
}

func NewPageSpeed(opts ...Option) *PageSpeed {
	p := &PageSpeed{
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze runs the PageSpeed analysis for req.URL.
func (p *PageSpeed) Analyze(ctx context.Context, req Request) (*api.Analysis, error) {
	logger := zerolog.Ctx(ctx)

	if req.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	query := url.Values{}
	query.Set("url", req.URL)
	if req.Strategy != "" {
		query.Set("strategy", req.Strategy)
	}
	if req.Locale != "" {
		query.Set("locale", req.Locale)
	}
	if req.APIKey != "" {
		query.Set("key", req.APIKey)
	}

	endpoint := p.baseURL + "?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pagespeed request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	logger.Debug().Str("url", req.URL).Str("strategy", req.Strategy).Msg("requesting pagespeed analysis")
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call pagespeed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pagespeed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, body)
	}

	var analysis api.Analysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pagespeed response: %w", err)
	}
	return &analysis, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pagespeed returned %d: %s", e.StatusCode, e.Message)
}

func responseError(status int, body []byte) error {
	var apiErr api.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &StatusError{StatusCode: status, Message: apiErr.Error.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &StatusError{StatusCode: status, Message: msg}
}
