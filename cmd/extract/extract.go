// Package extract handles direct AI extraction commands
package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jweber/bonscan/cmd/root"
	"jweber/bonscan/internal/logging"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract receipt items with the AI provider chain only",
	Long: `Send OCR text straight through the AI provider fallback chain, bypassing
the vendor parsers, and print the extracted items. Useful for receipts no
deterministic parser can handle.`,
	RunE: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file is required")
	}

	ocrText, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	ctx := context.Background()
	chain, cleanup, err := root.BuildChain(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	result, err := chain.Extract(ctx, string(ocrText))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	root.Log.Info("Extraction succeeded",
		logging.Field{Key: "provider", Value: result.Provider},
		logging.Field{Key: "items", Value: len(result.Items)},
		logging.Field{Key: "failed_providers", Value: len(result.ProviderErrors)})

	for _, item := range result.Items {
		fmt.Printf("%-40s %-15s %8s\n", item.Name, item.Category, item.Price.StringFixed(2))
	}
	return nil
}
