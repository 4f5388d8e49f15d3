// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/draft-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv Atom API (R2.2). arXiv supplies neither
// venues nor embeddings, so its records rank only after an explicit
// embedding call scores them.
type ArxivAdapter struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (a *ArxivAdapter) Name() string { return "arxiv" }

// Search queries arXiv for up to limit papers matching keyword, sorted by
// the API's own relevance order.
func (a *ArxivAdapter) Search(ctx context.Context, keyword string, limit int, cfg types.ReferencesConfig) ([]types.PaperRecord, error) {
	terms := strings.Fields(keyword)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if limit <= 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, strings.Join(terms, "+"), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.PaperRecord
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		raw := RawRecord{
			Title:       entry.Title,
			Abstract:    entry.Summary,
			ExternalIDs: ExternalIDs{ArXiv: arxivID},
		}
		for _, au := range entry.Authors {
			raw.Authors = append(raw.Authors, strings.TrimSpace(au.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			raw.Year = strconv.Itoa(t.Year())
		}

		rec, err := Normalize(raw, cfg.ShortSummaries)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
