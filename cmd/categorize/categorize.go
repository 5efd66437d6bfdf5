// Package categorize handles item categorization commands
package categorize

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jweber/bonscan/cmd/root"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/pipeline"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Resolve the category for a product name",
	Long: `Resolve a product name against the category mapping table: exact keyword
match first, then substring match, falling back to Other. With --ai, an
unresolved name is sent to the AI chain and the proposed mappings are
learned.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.ItemName, "name", "n", "", "Product name to categorize")
	_ = Cmd.MarkFlagRequired("name")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	resolver, err := root.OpenResolver()
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}

	category := resolver.Resolve(root.ItemName)
	root.Log.Info("Resolved category",
		logging.Field{Key: "name", Value: root.ItemName},
		logging.Field{Key: "category", Value: string(category)})

	if category != models.CategoryOther || !root.SharedFlags.UseAI {
		fmt.Println(category)
		return nil
	}

	ctx := context.Background()
	chain, cleanup, err := root.BuildChain(ctx)
	defer cleanup()
	if err != nil {
		return err
	}

	p := pipeline.New(nil, resolver, chain, root.Cfg.AI.MaxAttempts, root.Log)
	mappings, err := p.Learn(ctx, root.ItemName)
	if err != nil {
		return fmt.Errorf("AI classification failed: %w", err)
	}
	for _, m := range mappings {
		root.Log.Info("Learned mapping",
			logging.Field{Key: "keyword", Value: m.Keyword},
			logging.Field{Key: "category", Value: string(m.Category)})
	}

	fmt.Println(resolver.Resolve(root.ItemName))
	return nil
}
