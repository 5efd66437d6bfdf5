// Package scan handles the end-to-end receipt scanning command
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jweber/bonscan/cmd/root"
	"jweber/bonscan/internal/common"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/parsererror"
	"jweber/bonscan/internal/pipeline"
)

// Cmd represents the scan command
var Cmd = &cobra.Command{
	Use:   "scan",
	Short: "Parse an OCR'd receipt, categorize its items and store the result",
	Long: `Parse the OCR text of a receipt with the matching vendor parser, reconcile
the item sum against the printed total, categorize every item and persist the
receipt. With --ai, a detected discrepancy triggers AI re-extraction of the
receipt text.`,
	RunE: scanFunc,
}

func scanFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file is required")
	}

	ocrText, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	resolver, err := root.OpenResolver()
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}

	repo, err := root.OpenReceiptStore()
	if err != nil {
		return fmt.Errorf("opening receipt database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close receipt database")
		}
	}()

	ctx := context.Background()

	var chain pipeline.Extractor
	if root.SharedFlags.UseAI {
		aiChain, cleanup, err := root.BuildChain(ctx)
		defer cleanup()
		if err != nil {
			return err
		}
		chain = aiChain
	}

	p := pipeline.New(repo, resolver, chain, root.Cfg.AI.MaxAttempts, root.Log)

	receipt, err := p.Scan(ctx, string(ocrText))
	if err != nil {
		var validationErr *parsererror.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("receipt could not be parsed: %w", err)
		}
		return err
	}

	for receipt.DiscrepancyDetected && chain != nil {
		root.Log.Warn("Total discrepancy detected, re-extracting with AI",
			logging.Field{Key: "receipt", Value: receipt.ID})

		receipt, err = p.Reextract(ctx, receipt, string(ocrText))
		if err != nil {
			var exhausted *parsererror.RetriesExhaustedError
			if errors.As(err, &exhausted) {
				root.Log.Warn("AI re-extraction attempts exhausted, keeping flagged receipt",
					logging.Field{Key: "receipt", Value: exhausted.ReceiptID})
				break
			}
			return err
		}
	}

	root.Log.Info("Receipt stored",
		logging.Field{Key: "receipt", Value: receipt.ID},
		logging.Field{Key: "store", Value: receipt.StoreName},
		logging.Field{Key: "items", Value: len(receipt.Items)},
		logging.Field{Key: "total", Value: receipt.TotalAmount.StringFixed(2)},
		logging.Field{Key: "discrepancy", Value: receipt.DiscrepancyDetected})

	if root.SharedFlags.Output != "" {
		if err := common.WriteReceiptCSV(receipt, root.SharedFlags.Output, root.Log); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		root.Log.Info("Wrote item CSV", logging.Field{Key: "file", Value: root.SharedFlags.Output})
	}
	return nil
}
