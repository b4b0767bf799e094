package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteIndex is the destination of batch transfers. Transfer sends one
// materialized batch; ListBatches returns the names of batches the remote
// currently holds, for gap detection.
type RemoteIndex interface {
	Transfer(ctx context.Context, batch *Batch) error
	ListBatches(ctx context.Context) ([]string, error)
}

// Verify interface compliance
var _ RemoteIndex = (*HTTPRemote)(nil)

// HTTPRemote implements RemoteIndex over a JSON HTTP API.
type HTTPRemote struct {
	baseURL    string
	httpClient *http.Client
}

// RemoteConfig holds remote index connection configuration.
type RemoteConfig struct {
	// BaseURL is the remote index endpoint (e.g. http://localhost:8000)
	BaseURL string

	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultRemoteConfig returns sensible defaults.
func DefaultRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// NewHTTPRemote creates a new HTTP-backed RemoteIndex.
func NewHTTPRemote(cfg RemoteConfig) *HTTPRemote {
	return &HTTPRemote{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// transferRequest is the wire shape of one batch.
type transferRequest struct {
	Name       string              `json:"name"`
	IDs        []string            `json:"ids"`
	Texts      []string            `json:"texts"`
	Metadatas  []map[string]string `json:"metadatas"`
	Embeddings [][]float32         `json:"embeddings,omitempty"`
}

// Transfer uploads one batch. The caller owns timeout and outcome handling;
// Transfer reports errors without retrying.
func (r *HTTPRemote) Transfer(ctx context.Context, batch *Batch) error {
	body, err := json.Marshal(transferRequest{
		Name:       batch.Name(),
		IDs:        batch.ids,
		Texts:      batch.texts,
		Metadatas:  batch.metadatas,
		Embeddings: batch.embeddings,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/batches/%s", r.baseURL, batch.Name())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("batch transfer failed: %s - %s", resp.Status, string(respBody))
	}

	return nil
}

// listResponse is the wire shape of the remote's batch listing.
type listResponse struct {
	Batches []string `json:"batches"`
}

// ListBatches returns the names of batches present on the remote.
func (r *HTTPRemote) ListBatches(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/batches", r.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("batch listing failed: %s - %s", resp.Status, string(respBody))
	}

	var listed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, err
	}
	return listed.Batches, nil
}
