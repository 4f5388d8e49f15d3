// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/draft-engine/internal/httputil"
	"github.com/pdiddy/draft-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

// semanticFields requests abstract, tldr, SPECTER embedding, and external
// identifiers alongside the basic metadata.
const semanticFields = "title,abstract,venue,year,authors,tldr,embedding,externalIds"

// SemanticScholarAdapter queries the Semantic Scholar graph API (R2.1).
// It is the only provider that returns document embeddings with its
// results, so its records arrive pre-scored for relevance ranking.
type SemanticScholarAdapter struct {
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (a *SemanticScholarAdapter) Name() string { return "semantic_scholar" }

// Search queries Semantic Scholar for up to limit papers matching keyword.
func (a *SemanticScholarAdapter) Search(ctx context.Context, keyword string, limit int, cfg types.ReferencesConfig) ([]types.PaperRecord, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}
	if limit <= 0 {
		return nil, nil
	}

	params := url.Values{
		"query":  {keyword},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if a.APIKey != "" {
		req.Header.Set("x-api-key", a.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var records []types.PaperRecord
	for _, paper := range sr.Data {
		raw := RawRecord{
			Title:       paper.Title,
			Abstract:    paper.Abstract,
			Venue:       paper.Venue,
			ExternalIDs: paper.ExternalIDs,
		}
		for _, au := range paper.Authors {
			raw.Authors = append(raw.Authors, au.Name)
		}
		if paper.Year > 0 {
			raw.Year = strconv.Itoa(paper.Year)
		}
		if paper.TLDR != nil {
			raw.ShortSummary = paper.TLDR.Text
		}
		if paper.Embedding != nil {
			raw.Embedding = paper.Embedding.Vector
		}

		rec, err := Normalize(raw, cfg.ShortSummaries)
		if err != nil {
			// Untitled record; skip it and keep the rest.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string             `json:"paperId"`
	Title       string             `json:"title"`
	Abstract    string             `json:"abstract"`
	Venue       string             `json:"venue"`
	Year        int                `json:"year"`
	Authors     []semanticAuthor   `json:"authors"`
	TLDR        *semanticTLDR      `json:"tldr"`
	Embedding   *semanticEmbedding `json:"embedding"`
	ExternalIDs ExternalIDs        `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticTLDR struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type semanticEmbedding struct {
	Model  string    `json:"model"`
	Vector []float64 `json:"vector"`
}
