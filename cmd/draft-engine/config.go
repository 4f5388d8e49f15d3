// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/draft-engine/internal/secrets"
	"github.com/pdiddy/draft-engine/pkg/types"
)

// pipelineConfig maps viper settings into the typed pipeline config.
// Secrets fill API keys and endpoints when the config file leaves them
// blank; explicit config always wins.
func pipelineConfig() types.PipelineConfig {
	viper.SetDefault("references.timeout", "30s")
	viper.SetDefault("references.user_agent", "draft-engine/"+version)
	viper.SetDefault("references.max_per_keyword", 10)
	viper.SetDefault("references.enable_arxiv", true)
	viper.SetDefault("references.enable_semantic_scholar", true)
	viper.SetDefault("references.enable_openalex", false)
	viper.SetDefault("references.inter_provider_delay", "0s")
	viper.SetDefault("embedding.timeout", "30s")
	viper.SetDefault("embedding.batch_size", 16)
	viper.SetDefault("prompt.encoding", "cl100k_base")
	viper.SetDefault("prompt.max_tokens", 2048)

	return types.PipelineConfig{
		References: types.ReferencesConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("references.timeout"),
				UserAgent: viper.GetString("references.user_agent"),
			},
			MaxPerKeyword:         viper.GetInt("references.max_per_keyword"),
			EnableArxiv:           viper.GetBool("references.enable_arxiv"),
			EnableSemanticScholar: viper.GetBool("references.enable_semantic_scholar"),
			EnableOpenAlex:        viper.GetBool("references.enable_openalex"),
			SemanticScholarAPIKey: secrets.Get(loadedSecrets, secrets.KeySemanticScholar,
				viper.GetString("references.semantic_scholar_api_key")),
			OpenAlexEmail: secrets.Get(loadedSecrets, secrets.KeyOpenAlexEmail,
				viper.GetString("references.openalex_email")),
			ShortSummaries:     viper.GetBool("references.short_summaries"),
			InterProviderDelay: viper.GetDuration("references.inter_provider_delay"),
		},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("embedding.timeout"),
				UserAgent: viper.GetString("references.user_agent"),
			},
			Endpoint: secrets.Get(loadedSecrets, secrets.KeySpecterEndpoint,
				viper.GetString("embedding.endpoint")),
			BatchSize: viper.GetInt("embedding.batch_size"),
		},
		Prompt: types.PromptConfig{
			Encoding:  viper.GetString("prompt.encoding"),
			MaxTokens: viper.GetInt("prompt.max_tokens"),
		},
	}
}
