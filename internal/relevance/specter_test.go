// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/draft-engine/pkg/types"
)

func specterTestServer(t *testing.T, batches *[][]EmbedItem) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items []EmbedItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			t.Errorf("decoding request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*batches = append(*batches, items)

		resp := specterResponse{}
		for _, item := range items {
			resp.Preds = append(resp.Preds, specterPred{
				ID:        item.ID,
				Embedding: []float64{float64(len(item.Title)), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

// --- Batching ---

func TestSpecterEmbedBatches(t *testing.T) {
	var batches [][]EmbedItem
	ts := specterTestServer(t, &batches)
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 2}

	items := make([]EmbedItem, 5)
	for i := range items {
		items[i] = EmbedItem{ID: fmt.Sprintf("p%d", i), Title: strings.Repeat("t", i+1)}
	}

	vectors, err := c.Embed(context.Background(), items)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	// 5 items at batch size 2 means 3 requests: 2+2+1.
	if len(batches) != 3 {
		t.Fatalf("len(batches) = %d, want 3", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 || len(batches[2]) != 1 {
		t.Errorf("batch sizes = %d,%d,%d, want 2,2,1",
			len(batches[0]), len(batches[1]), len(batches[2]))
	}
	if len(vectors) != 5 {
		t.Fatalf("len(vectors) = %d, want 5", len(vectors))
	}
	if vectors["p2"][0] != 3 {
		t.Errorf("vectors[p2] = %v, want title-length vector", vectors["p2"])
	}
}

func TestSpecterEmbedRequestShape(t *testing.T) {
	var capturedBody []byte
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		var items []json.RawMessage
		body := json.NewDecoder(r.Body)
		body.Decode(&items)
		if len(items) > 0 {
			capturedBody = items[0]
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"preds":[]}`)
	}))
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 16, UserAgent: "draft-engine-test"}
	_, err := c.Embed(context.Background(), []EmbedItem{
		{ID: "target_paper", Title: "T", Abstract: "A"},
	})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if capturedReq.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", capturedReq.Method)
	}
	if got := capturedReq.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := capturedReq.Header.Get("User-Agent"); got != "draft-engine-test" {
		t.Errorf("User-Agent = %q", got)
	}

	var fields map[string]string
	if err := json.Unmarshal(capturedBody, &fields); err != nil {
		t.Fatalf("Unmarshal item: %v", err)
	}
	// The service's request schema uses paper_id.
	if fields["paper_id"] != "target_paper" {
		t.Errorf("paper_id = %q, want %q", fields["paper_id"], "target_paper")
	}
	if fields["title"] != "T" || fields["abstract"] != "A" {
		t.Errorf("item = %v, want title and abstract fields", fields)
	}
}

func TestSpecterEmbedEmptyInput(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		fmt.Fprint(w, `{"preds":[]}`)
	}))
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 16}
	vectors, err := c.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 0 {
		t.Errorf("len(vectors) = %d, want 0", len(vectors))
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0 for empty input", requests)
	}
}

// --- Error cases ---

func TestSpecterEmbedHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 16}
	_, err := c.Embed(context.Background(), []EmbedItem{{ID: "a", Title: "A"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %q, want substring %q", err.Error(), "HTTP 500")
	}
}

func TestSpecterEmbedFailedBatchFailsCall(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var items []EmbedItem
		json.NewDecoder(r.Body).Decode(&items)
		resp := specterResponse{}
		for _, item := range items {
			resp.Preds = append(resp.Preds, specterPred{ID: item.ID, Embedding: []float64{1}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 1}
	_, err := c.Embed(context.Background(), []EmbedItem{{ID: "a"}, {ID: "b"}})
	if err == nil {
		t.Fatal("expected error when a later batch fails")
	}
}

func TestSpecterEmbedMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{invalid`)
	}))
	defer ts.Close()

	c := &SpecterClient{Client: ts.Client(), Endpoint: ts.URL, BatchSize: 16}
	_, err := c.Embed(context.Background(), []EmbedItem{{ID: "a"}})
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want substring 'parsing'", err.Error())
	}
}

// --- Construction ---

func TestNewSpecterClientDefaults(t *testing.T) {
	c := NewSpecterClient(types.EmbeddingConfig{})
	if c.Endpoint != specterEndpoint {
		t.Errorf("Endpoint = %q, want default", c.Endpoint)
	}
	if c.BatchSize != 16 {
		t.Errorf("BatchSize = %d, want 16", c.BatchSize)
	}
	if c.Client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", c.Client.Timeout)
	}
}

func TestNewSpecterClientOverrides(t *testing.T) {
	c := NewSpecterClient(types.EmbeddingConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		Endpoint:   "https://embeddings.internal/invoke",
		BatchSize:  4,
	})
	if c.Endpoint != "https://embeddings.internal/invoke" {
		t.Errorf("Endpoint = %q", c.Endpoint)
	}
	if c.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", c.BatchSize)
	}
	if c.Client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.Client.Timeout)
	}
}
