package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "draft-engine/0.1"). Per prd008-references R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReferencesConfig holds settings for reference collection.
// Per prd008-references R2.3, R5.1-R5.5.
type ReferencesConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPerKeyword is the default per-keyword fetch quota (default 10).
	MaxPerKeyword int `json:"max_per_keyword" yaml:"max_per_keyword"`

	// EnableArxiv controls whether the arXiv provider is queried.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar provider is queried.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnableOpenAlex controls whether the OpenAlex provider is queried.
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// ShortSummaries substitutes a provider short summary (e.g. the
	// Semantic Scholar tldr) for the abstract when one is available.
	ShortSummaries bool `json:"short_summaries" yaml:"short_summaries"`

	// InterProviderDelay is the delay between consecutive provider calls
	// (default 0; raise it when running without API keys).
	InterProviderDelay time.Duration `json:"inter_provider_delay" yaml:"inter_provider_delay"`
}

// EmbeddingConfig holds settings for the document-embedding service.
// Per prd009-relevance R2.1-R2.3.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint overrides the default SPECTER invocation URL when set.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// BatchSize is the number of papers embedded per request (default 16).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// PromptConfig holds settings for prompt-budget selection.
// Per prd009-relevance R4.1-R4.3.
type PromptConfig struct {
	// Encoding names the tiktoken encoding used to count tokens
	// (default "cl100k_base", matching the GPT-4 model family).
	Encoding string `json:"encoding" yaml:"encoding"`

	// MaxTokens bounds the reference material injected into a generation
	// prompt (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	References ReferencesConfig `json:"references" yaml:"references"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	Prompt     PromptConfig     `json:"prompt" yaml:"prompt"`
}
