// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// UsageLedger accumulates external-service usage for one generation
// request. Stages receive a ledger, add their own counts, and the caller
// reads the totals afterwards; there is no process-wide accounting state.
type UsageLedger struct {
	// EmbeddingRequests counts logical calls to the embedding service.
	EmbeddingRequests int `json:"embedding_requests" yaml:"embedding_requests"`

	// EmbeddedItems counts papers (including the target) sent for embedding.
	EmbeddedItems int `json:"embedded_items" yaml:"embedded_items"`

	// PromptTokens counts model tokens accumulated by prompt-budget selection.
	PromptTokens int `json:"prompt_tokens" yaml:"prompt_tokens"`

	// SelectedPapers counts references admitted into the prompt map.
	SelectedPapers int `json:"selected_papers" yaml:"selected_papers"`
}

// Add folds another ledger's counts into u.
func (u *UsageLedger) Add(other UsageLedger) {
	u.EmbeddingRequests += other.EmbeddingRequests
	u.EmbeddedItems += other.EmbeddedItems
	u.PromptTokens += other.PromptTokens
	u.SelectedPapers += other.SelectedPapers
}
