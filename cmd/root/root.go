// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"jweber/bonscan/internal/aiextract"
	"jweber/bonscan/internal/aldiparser"
	"jweber/bonscan/internal/categorizer"
	"jweber/bonscan/internal/config"
	"jweber/bonscan/internal/edekaparser"
	"jweber/bonscan/internal/genericparser"
	"jweber/bonscan/internal/lidlparser"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/reweparser"
	"jweber/bonscan/internal/store"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	UseAI  bool
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg holds the loaded configuration after PersistentPreRunE
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bonscan",
		Short: "A CLI tool to parse OCR'd supermarket receipts and categorize their items.",
		Long: `bonscan parses the OCR text of German supermarket receipts (REWE, EDEKA,
Lidl, ALDI and a generic fallback), reconciles item sums against the printed
total, assigns each item to a spending category and can fall back to AI
providers when deterministic parsing under-extracts.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bonscan!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

			// Set the configured logger for all parsers
			reweparser.SetLogger(Log)
			edekaparser.SetLogger(Log)
			lidlparser.SetLogger(Log)
			aldiparser.SetLogger(Log)
			genericparser.SetLogger(Log)
			return nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific categorize command flags
	ItemName string

	// Specific mappings command flags
	Keyword      string
	CategoryName string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input OCR text file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.UseAI, "ai", false, "Use the AI fallback chain on discrepancies")
}

// MappingsPath returns the configured category mapping file location.
func MappingsPath() string {
	return filepath.Join(Cfg.Data.Directory, Cfg.Data.MappingsFile)
}

// ReceiptsPath returns the configured receipt database location.
func ReceiptsPath() string {
	return filepath.Join(Cfg.Data.Directory, Cfg.Data.ReceiptsFile)
}

// OpenResolver opens the mapping store and builds the category resolver
// over it.
func OpenResolver() (*categorizer.Resolver, error) {
	mappingStore := store.NewMappingStore(MappingsPath(), Log)
	return categorizer.NewResolver(mappingStore, Log)
}

// OpenReceiptStore opens the bbolt receipt database.
func OpenReceiptStore() (*store.BoltReceiptStore, error) {
	return store.NewBoltReceiptStore(ReceiptsPath())
}

// BuildChain assembles the provider fallback chain from the configuration.
// Provider order is fixed: OpenAI, then Ollama, then Gemini. The returned
// cleanup func releases provider clients and must be called even when the
// chain is never used. An empty chain is an error.
func BuildChain(ctx context.Context) (*aiextract.Chain, func(), error) {
	timeout := time.Duration(Cfg.AI.TimeoutSeconds) * time.Second

	var providers []aiextract.Provider
	cleanup := func() {}

	if Cfg.AI.OpenAI.Enabled && Cfg.AI.OpenAI.APIKey != "" {
		providers = append(providers,
			aiextract.NewOpenAIProvider(Cfg.AI.OpenAI.BaseURL, Cfg.AI.OpenAI.Model, Cfg.AI.OpenAI.APIKey, timeout))
	}
	if Cfg.AI.Ollama.Enabled {
		providers = append(providers,
			aiextract.NewOllamaProvider(Cfg.AI.Ollama.BaseURL, Cfg.AI.Ollama.Model, timeout))
	}
	if Cfg.AI.Gemini.Enabled && Cfg.AI.Gemini.APIKey != "" {
		gemini, err := aiextract.NewGeminiProvider(ctx, Cfg.AI.Gemini.APIKey, Cfg.AI.Gemini.Model)
		if err != nil {
			Log.WithError(err).Warn("Skipping Gemini provider")
		} else {
			providers = append(providers, gemini)
			cleanup = func() {
				if err := gemini.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close Gemini client")
				}
			}
		}
	}

	if len(providers) == 0 {
		return nil, cleanup, fmt.Errorf("no AI providers configured: set OPENAI_API_KEY, GEMINI_API_KEY or enable ollama")
	}
	return aiextract.NewChain(providers, timeout, Log), cleanup, nil
}
