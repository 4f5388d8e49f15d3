// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/draft-engine/internal/prompt"
	"github.com/pdiddy/draft-engine/internal/references"
	"github.com/pdiddy/draft-engine/internal/relevance"
	"github.com/pdiddy/draft-engine/pkg/types"
)

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Collect, rank, and select references for a paper title",
	Long: `References runs the full reference pipeline: it expands the given
keywords with pairwise combinations, queries the enabled bibliographic
providers for each keyword, deduplicates the results, ranks them by
embedding similarity to the target title and description, writes a BibTeX
bibliography, and selects a token-bounded citation-key-to-abstract map
for generation prompts.

Provider and embedding failures degrade rather than abort: a failed
provider is skipped with a warning, and an unreachable embedding service
leaves the corpus in collection order.`,
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().String("title", "", "target paper title (required)")
	referencesCmd.Flags().String("description", "", "short description of the target paper")
	referencesCmd.Flags().String("keywords", "", "search keywords as kw[:quota],kw[:quota],... (required)")
	referencesCmd.Flags().Int("max-kw-refs", 0, "default per-keyword quota (overrides config)")
	referencesCmd.Flags().Bool("tldr", false, "use short machine-generated summaries instead of abstracts")
	referencesCmd.Flags().Int("max-tokens", 0, "token budget for selected abstracts (overrides config)")
	referencesCmd.Flags().String("bib", "ref.bib", "BibTeX output path")
	referencesCmd.Flags().String("corpus", "", "optional corpus JSON output path")
	referencesCmd.Flags().String("prompts", "", "optional prompt-map JSON output path")
	referencesCmd.Flags().String("csl", "", "optional CSL-YAML output path")
	referencesCmd.Flags().Bool("skip-rank", false, "skip embedding-based ranking, keep collection order")

	referencesCmd.MarkFlagRequired("title")
	referencesCmd.MarkFlagRequired("keywords")

	rootCmd.AddCommand(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	keywordSpec, _ := cmd.Flags().GetString("keywords")
	maxKwRefs, _ := cmd.Flags().GetInt("max-kw-refs")
	tldr, _ := cmd.Flags().GetBool("tldr")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	bibPath, _ := cmd.Flags().GetString("bib")
	corpusPath, _ := cmd.Flags().GetString("corpus")
	promptsPath, _ := cmd.Flags().GetString("prompts")
	cslPath, _ := cmd.Flags().GetString("csl")
	skipRank, _ := cmd.Flags().GetBool("skip-rank")

	cfg := pipelineConfig()
	if maxKwRefs > 0 {
		cfg.References.MaxPerKeyword = maxKwRefs
	}
	if tldr {
		cfg.References.ShortSummaries = true
	}
	if maxTokens > 0 {
		cfg.Prompt.MaxTokens = maxTokens
	}

	budget, err := references.ParseKeywordSpec(keywordSpec, cfg.References.MaxPerKeyword)
	if err != nil {
		return err
	}
	expanded := references.Expand(budget)

	adapters := buildAdapters(cfg.References)
	if len(adapters) == 0 {
		return fmt.Errorf("all providers disabled; enable at least one in configuration")
	}

	ctx := cmd.Context()
	corpus, err := references.Collect(ctx, expanded, adapters, cfg.References, os.Stderr)
	if err != nil {
		return err
	}
	papers := corpus.Flatten()
	fmt.Fprintf(os.Stderr, "Collected %d records across %d keywords (%d unique)\n",
		corpus.Len(), len(expanded), len(papers))

	var ledger types.UsageLedger
	var ranked []relevance.ScoredPaper
	if skipRank {
		ranked = relevance.Unranked(papers)
	} else {
		emb := relevance.NewSpecterClient(cfg.Embedding)
		ranked = relevance.Rank(ctx, papers, title, description, emb, &ledger, os.Stderr)
	}

	var counter prompt.TokenCounter
	counter, err = prompt.NewTiktokenCounter(cfg.Prompt.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, falling back to character estimate\n", err)
		counter = prompt.ApproxCounter{}
	}
	prompts := prompt.Select(ranked, cfg.Prompt.MaxTokens, counter, &ledger)

	ids, err := references.WriteBibTeX(bibPath, relevance.Papers(ranked))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", len(ids), bibPath)

	if corpusPath != "" {
		if err := references.WriteCorpusJSON(corpusPath, relevance.Papers(ranked)); err != nil {
			return err
		}
	}
	if promptsPath != "" {
		data, err := json.MarshalIndent(prompts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling prompt map: %w", err)
		}
		if err := os.WriteFile(promptsPath, data, 0o644); err != nil {
			return fmt.Errorf("writing prompt map %s: %w", promptsPath, err)
		}
	}
	if cslPath != "" {
		f, err := os.Create(cslPath)
		if err != nil {
			return fmt.Errorf("creating CSL output %s: %w", cslPath, err)
		}
		defer f.Close()
		if err := references.FormatCSL(relevance.Papers(ranked), f); err != nil {
			return err
		}
	}

	relevance.FormatTable(ranked, os.Stdout)
	fmt.Fprintf(os.Stderr,
		"Usage: %d embedding requests (%d items), %d prompt tokens across %d selected papers\n",
		ledger.EmbeddingRequests, ledger.EmbeddedItems, ledger.PromptTokens, ledger.SelectedPapers)
	return nil
}

// buildAdapters assembles the enabled provider adapters in query order.
// Semantic Scholar goes first: its records carry embeddings, and Flatten
// keeps the first occurrence of a duplicate, so the embedded copy wins.
func buildAdapters(cfg types.ReferencesConfig) []references.Adapter {
	client := &http.Client{Timeout: cfg.Timeout}

	var adapters []references.Adapter
	if cfg.EnableSemanticScholar {
		adapters = append(adapters, &references.SemanticScholarAdapter{
			Client: client,
			APIKey: cfg.SemanticScholarAPIKey,
		})
	}
	if cfg.EnableArxiv {
		adapters = append(adapters, &references.ArxivAdapter{Client: client})
	}
	if cfg.EnableOpenAlex {
		adapters = append(adapters, &references.OpenAlexAdapter{
			Client: client,
			Email:  cfg.OpenAlexEmail,
		})
	}
	return adapters
}
