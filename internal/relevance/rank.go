// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/draft-engine/pkg/types"
)

// targetPaperID keys the target title+description in embedding requests.
const targetPaperID = "target_paper"

// ScoredPaper is a PaperRecord with its cosine similarity to the target.
// Score is meaningful only when Scored is true; unscored papers sort after
// every scored one, keeping their collection order.
type ScoredPaper struct {
	types.PaperRecord `yaml:",inline"`

	Score  float64 `json:"similarity_score" yaml:"similarity_score"`
	Scored bool    `json:"scored" yaml:"scored"`
}

// Unranked wraps papers as ScoredPapers in their input order without
// scoring, for callers that skip ranking entirely.
func Unranked(papers []types.PaperRecord) []ScoredPaper {
	out := make([]ScoredPaper, len(papers))
	for i, p := range papers {
		out[i] = ScoredPaper{PaperRecord: p}
	}
	return out
}

// Papers strips the scores back off, preserving order.
func Papers(ranked []ScoredPaper) []types.PaperRecord {
	out := make([]types.PaperRecord, len(ranked))
	for i, r := range ranked {
		out[i] = r.PaperRecord
	}
	return out
}

// Rank orders papers by cosine similarity to the target title+description.
// It embeds the target and any candidate lacking a vector in one batched
// call, then sorts descending by similarity; candidates that still lack a
// vector keep their relative order after all scored ones.
//
// Embedding-service failure is never fatal: Rank logs a warning to w and
// returns the papers unscored in input order, so generation proceeds with
// unranked references (R3.2).
func Rank(ctx context.Context, papers []types.PaperRecord, title, description string, emb Embedder, ledger *types.UsageLedger, w io.Writer) []ScoredPaper {
	out := Unranked(papers)
	if len(papers) == 0 {
		return out
	}

	items := []EmbedItem{{ID: targetPaperID, Title: title, Abstract: description}}
	for _, p := range papers {
		if len(p.Embedding) == 0 {
			items = append(items, EmbedItem{ID: p.ID, Title: p.Title, Abstract: p.Abstract})
		}
	}

	vectors, err := emb.Embed(ctx, items)
	if err != nil {
		fmt.Fprintf(w, "warning: embedding service unavailable, keeping collection order: %v\n", err)
		return out
	}
	if ledger != nil {
		ledger.EmbeddingRequests++
		ledger.EmbeddedItems += len(items)
	}

	target := vectors[targetPaperID]
	if len(target) == 0 {
		fmt.Fprintf(w, "warning: no embedding returned for target paper, keeping collection order\n")
		return out
	}

	for i := range out {
		vec := out[i].Embedding
		if len(vec) == 0 {
			vec = vectors[out[i].ID]
			out[i].Embedding = vec
		}
		if len(vec) == 0 {
			continue
		}
		out[i].Score = CosineSimilarity(vec, target)
		out[i].Scored = true
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scored != out[j].Scored {
			return out[i].Scored
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// CosineSimilarity returns dot(u,v) / (||u|| * ||v||). A zero-norm vector
// or a dimension mismatch yields 0.0 rather than an error.
func CosineSimilarity(u, v []float64) float64 {
	if len(u) == 0 || len(u) != len(v) {
		return 0.0
	}
	var dot, nu, nv float64
	for i := range u {
		dot += u[i] * v[i]
		nu += u[i] * u[i]
		nv += v[i] * v[i]
	}
	if nu == 0 || nv == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(nu) * math.Sqrt(nv))
}

// FormatTable writes ranked papers as a human-readable table to w.
func FormatTable(ranked []ScoredPaper, w io.Writer) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No references found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-24s  %-56s  %-4s  %s\n",
		"Rank", "Key", "Title", "Year", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range ranked {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		score := "-"
		if r.Scored {
			score = fmt.Sprintf("%.3f", r.Score)
		}
		fmt.Fprintf(w, "%-4d  %-24s  %-56s  %-4s  %s\n",
			i+1, truncate(r.ID, 24), title, r.Year, score)
	}

	fmt.Fprintf(w, "\n%d references\n", len(ranked))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
