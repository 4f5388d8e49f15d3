// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the draft-engine pipeline.
// Implements: prd008-references (PaperRecord, R3.1-R3.4);
//
//	prd009-relevance (UsageLedger);
//	see docs/ARCHITECTURE § Data Structures.
package types

// PaperRecord is the canonical form of a paper returned by a provider
// search. Per prd008-references R3.1, the ID doubles as the BibTeX citation
// key and the deduplication key, so it must be derived the same way
// regardless of which provider found the paper.
type PaperRecord struct {
	// ID is the citation key: first-author surname + year + first title
	// word, lowercased (e.g. "mnih2013playing"). Unique within a corpus.
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Authors is the author list in source order, joined with " and "
	// for direct use in a BibTeX author field.
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year as a string. Empty when unknown.
	Year string `json:"year" yaml:"year"`

	// Venue is the journal or conference, sanitized for BibTeX.
	// Defaults to "arXiv preprint" when the provider reports none.
	Venue string `json:"journal" yaml:"journal"`

	// Link is a best-effort external URL resolved from provider
	// cross-reference identifiers (DBLP first, then arXiv). May be empty.
	Link string `json:"link" yaml:"link"`

	// Abstract is the provider abstract or short summary, flattened to a
	// single line. Records without an abstract are still valid; they rank
	// after scored candidates.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Embedding is the document vector supplied by the provider or by an
	// explicit embedding call. Nil when no vector is available.
	Embedding []float64 `json:"embeddings,omitempty" yaml:"embeddings,omitempty"`
}
