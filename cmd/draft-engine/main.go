// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the draft-engine CLI.
// Implements: prd008-references, prd009-relevance (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/draft-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the draft-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "draft-engine",
	Short: "Reference collection and relevance ranking for paper drafting",
	Long: `draft-engine collects candidate literature for a paper title from
bibliographic APIs (Semantic Scholar, arXiv, OpenAlex), deduplicates it,
ranks it by embedding similarity to the target paper, and emits a BibTeX
bibliography plus a token-bounded reference map for generation prompts.

The drafting loop itself (section text, LaTeX assembly, packaging) consumes
these outputs and lives elsewhere.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./draft-engine.yaml or ~/.config/draft-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("draft-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "draft-engine"))
		}
	}

	viper.SetEnvPrefix("DRAFT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
