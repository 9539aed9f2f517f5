package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/storage"
)

// Manager fetches a completed generation's exported file from the provider's
// CDN and persists it through the file store.
type Manager struct {
	httpClient *http.Client
	store      *storage.FileStore
}

// NewManager constructs a Manager writing into the given store.
func NewManager(store *storage.FileStore, httpClient *http.Client) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Manager{httpClient: httpClient, store: store}
}

// FetchAndStore downloads fileURL and writes it under fileName, returning the
// storage key. Remote and local failures both wrap domain.ErrDownloadFailure.
func (m *Manager) FetchAndStore(ctx context.Context, fileURL, fileName string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil || parsed.Scheme == "" {
		return "", fmt.Errorf("%w: invalid file url", domain.ErrDownloadFailure)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrDownloadFailure, err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch file: %v", domain.ErrDownloadFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: fetch status %d", domain.ErrDownloadFailure, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read file: %v", domain.ErrDownloadFailure, err)
	}
	key, err := m.store.Write(ctx, fileName, data)
	if err != nil {
		return "", fmt.Errorf("%w: store file: %v", domain.ErrDownloadFailure, err)
	}
	return key, nil
}
