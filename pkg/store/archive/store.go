package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileName is the name the optimized resources bundle is saved under.
const FileName = "optimized.zip"

type Settings struct {
	// Dir defaults to the current working directory.
	Dir    string
	Client *http.Client
}

// Store downloads the optimized resources bundle and writes it to disk.
type Store struct {
	path   string
	client *http.Client
}

func NewStore(settings Settings) *Store {
	dir := settings.Dir
	if dir == "" {
		dir = "."
	}
	client := settings.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		path:   filepath.Join(dir, FileName),
		client: client,
	}
}

func (s *Store) Download(ctx context.Context, url string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download optimized resources: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download optimized resources: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read optimized resources: %w", err)
	}
	return data, nil
}

// Save writes data to the archive path, replacing any existing file.
func (s *Store) Save(data []byte) error {
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save optimized resources: %w", err)
	}
	return nil
}
