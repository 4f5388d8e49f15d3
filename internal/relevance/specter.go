// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance ranks a collected corpus by embedding similarity to
// the target paper. Implements: prd009-relevance (R1-R3);
//
//	docs/ARCHITECTURE § Relevance.
package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/draft-engine/internal/httputil"
	"github.com/pdiddy/draft-engine/pkg/types"
)

// specterEndpoint is the SPECTER document-embedding service. Declared as a
// var so tests can substitute an httptest server.
var specterEndpoint = "https://model-apis.semanticscholar.org/specter/v1/invoke"

const (
	defaultBatchSize = 16
	defaultTimeout   = 30 * time.Second
)

// EmbedItem is one paper sent to the embedding service. The JSON field
// names are the service's request schema.
type EmbedItem struct {
	ID       string `json:"paper_id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

// Embedder computes document vectors for a batch of papers. The ranker
// depends on this interface; SpecterClient is the production
// implementation and tests substitute stubs.
type Embedder interface {
	Embed(ctx context.Context, items []EmbedItem) (map[string][]float64, error)
}

// SpecterClient calls the SPECTER embedding service over HTTP, splitting
// requests into fixed-size batches. Any non-200 response is a hard error
// for the whole call; the ranker catches it and degrades (R2.3).
type SpecterClient struct {
	Client    *http.Client
	Endpoint  string
	BatchSize int
	UserAgent string
}

// NewSpecterClient builds a client from config, filling defaults for any
// zero-valued setting.
func NewSpecterClient(cfg types.EmbeddingConfig) *SpecterClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = specterEndpoint
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &SpecterClient{
		Client:    &http.Client{Timeout: timeout},
		Endpoint:  endpoint,
		BatchSize: batch,
		UserAgent: cfg.UserAgent,
	}
}

// Embed sends items in batches and returns vectors keyed by paper ID.
// A failure in any batch fails the whole call; partial results are not
// returned.
func (c *SpecterClient) Embed(ctx context.Context, items []EmbedItem) (map[string][]float64, error) {
	batch := c.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	vectors := make(map[string][]float64, len(items))
	for start := 0; start < len(items); start += batch {
		end := start + batch
		if end > len(items) {
			end = len(items)
		}
		if err := c.embedBatch(ctx, items[start:end], vectors); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

func (c *SpecterClient) embedBatch(ctx context.Context, items []EmbedItem, vectors map[string][]float64) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return fmt.Errorf("embedding service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service returned HTTP %d", resp.StatusCode)
	}

	var sr specterResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fmt.Errorf("parsing embedding response: %w", err)
	}

	for _, pred := range sr.Preds {
		vectors[pred.ID] = pred.Embedding
	}
	return nil
}

// SPECTER service JSON structures.
type specterResponse struct {
	Preds []specterPred `json:"preds"`
}

type specterPred struct {
	ID        string    `json:"paper_id"`
	Embedding []float64 `json:"embedding"`
}
