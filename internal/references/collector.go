// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/draft-engine/pkg/types"
)

// Adapter searches a single bibliographic source. Each provider (Semantic
// Scholar, arXiv, OpenAlex) implements this interface so any one of them
// can fail without taking the others down.
type Adapter interface {
	Name() string
	Search(ctx context.Context, keyword string, limit int, cfg types.ReferencesConfig) ([]types.PaperRecord, error)
}

// KeywordGroup holds the papers collected under one search keyword.
type KeywordGroup struct {
	Keyword string
	Papers  []types.PaperRecord
}

// Corpus is the working collection for one generation request: papers
// grouped by the keyword that found them, in keyword-iteration order.
// Duplicate IDs may exist across groups until Flatten.
type Corpus struct {
	Groups []KeywordGroup
}

// Add appends papers under the given keyword, extending the existing group
// when the keyword was already seen.
func (c *Corpus) Add(keyword string, papers []types.PaperRecord) {
	for i := range c.Groups {
		if c.Groups[i].Keyword == keyword {
			c.Groups[i].Papers = append(c.Groups[i].Papers, papers...)
			return
		}
	}
	c.Groups = append(c.Groups, KeywordGroup{Keyword: keyword, Papers: papers})
}

// Len returns the raw record count across all groups, duplicates included.
func (c Corpus) Len() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Papers)
	}
	return n
}

// Flatten returns the corpus as a single list with duplicate IDs removed.
// The first occurrence in keyword-iteration order wins; later duplicates
// are dropped silently.
func (c Corpus) Flatten() []types.PaperRecord {
	seen := make(map[string]bool)
	var flat []types.PaperRecord
	for _, g := range c.Groups {
		for _, p := range g.Papers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			flat = append(flat, p)
		}
	}
	return flat
}

// Collect queries every adapter for every keyword in budget order and
// accumulates the results into a Corpus. Provider failures are warnings on
// w, never errors: an adapter that fails contributes nothing for that
// keyword and collection moves on. Collect errors only on a malformed
// budget or an empty adapter list. An empty corpus is a valid result.
func Collect(ctx context.Context, budget KeywordBudget, adapters []Adapter, cfg types.ReferencesConfig, w io.Writer) (Corpus, error) {
	if err := budget.Validate(); err != nil {
		return Corpus{}, err
	}
	if len(adapters) == 0 {
		return Corpus{}, fmt.Errorf("no provider adapters configured")
	}

	var corpus Corpus
	first := true
	for _, kq := range budget {
		corpus.Add(kq.Keyword, nil)
		for _, a := range adapters {
			if !first && cfg.InterProviderDelay > 0 {
				time.Sleep(cfg.InterProviderDelay)
			}
			first = false

			papers, err := a.Search(ctx, kq.Keyword, kq.Quota, cfg)
			if err != nil {
				fmt.Fprintf(w, "warning: provider %s failed for %q: %v\n", a.Name(), kq.Keyword, err)
				continue
			}
			corpus.Add(kq.Keyword, papers)
		}
	}
	return corpus, nil
}
