// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt selects ranked references into a token-bounded map of
// citation key to abstract, the reference material injected into a
// generation prompt. Implements: prd009-relevance (R4).
package prompt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pdiddy/draft-engine/internal/relevance"
	"github.com/pdiddy/draft-engine/pkg/types"
)

// defaultEncoding matches the GPT-4 model family tokenizer.
const defaultEncoding = "cl100k_base"

// TokenCounter counts model tokens in a text.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts with a tiktoken encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding ("" means cl100k_base).
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = defaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// ApproxCounter estimates tokens at four characters each. It stands in
// when the tiktoken encoding cannot be loaded (e.g. offline), trading
// budget precision for keeping the pipeline alive.
type ApproxCounter struct{}

// Count returns a character-based token estimate.
func (ApproxCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

// Select walks the ranked list in order, accumulating citation key →
// abstract until the token budget is reached. The candidate that crosses
// the budget is included, not excluded. Papers with empty abstracts are
// admitted with an empty string value and cost nothing, so their citation
// keys stay usable. A budget of zero or less yields an empty map. Select
// never fails; the ledger, when non-nil, receives the token total.
func Select(ranked []relevance.ScoredPaper, maxTokens int, counter TokenCounter, ledger *types.UsageLedger) map[string]string {
	prompts := make(map[string]string)
	if maxTokens <= 0 {
		return prompts
	}

	tokens := 0
	for _, p := range ranked {
		if _, ok := prompts[p.ID]; ok {
			continue
		}
		prompts[p.ID] = p.Abstract
		if p.Abstract != "" {
			tokens += counter.Count(p.Abstract)
		}
		if tokens >= maxTokens {
			break
		}
	}

	if ledger != nil {
		ledger.PromptTokens += tokens
		ledger.SelectedPapers += len(prompts)
	}
	return prompts
}
