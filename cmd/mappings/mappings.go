// Package mappings handles category mapping table commands
package mappings

import (
	"fmt"

	"github.com/spf13/cobra"

	"jweber/bonscan/cmd/root"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
)

// Cmd represents the mappings command group
var Cmd = &cobra.Command{
	Use:   "mappings",
	Short: "Inspect and extend the category mapping table",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored keyword-to-category mappings in match order",
	RunE:  listFunc,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a keyword-to-category mapping",
	Long: `Append a mapping to the table. Later entries never shadow earlier ones for
exact matches; for substring matches the longer keyword wins.`,
	RunE: addFunc,
}

func init() {
	addCmd.Flags().StringVarP(&root.Keyword, "keyword", "k", "", "Keyword to match (required)")
	addCmd.Flags().StringVarP(&root.CategoryName, "category", "c", "", "Target category (required)")
	_ = addCmd.MarkFlagRequired("keyword")
	_ = addCmd.MarkFlagRequired("category")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	resolver, err := root.OpenResolver()
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}

	for _, m := range resolver.Mappings() {
		fmt.Printf("%-30s %s\n", m.Keyword, m.Category)
	}
	return nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	resolver, err := root.OpenResolver()
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}

	if !models.IsValidCategory(root.CategoryName) {
		return fmt.Errorf("unknown category %q, valid categories: %v", root.CategoryName, models.AllCategories)
	}

	mapping := models.NewCategoryMapping(root.Keyword, models.ParseCategory(root.CategoryName))
	if err := resolver.Learn([]models.CategoryMapping{mapping}); err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	root.Log.Info("Mapping added",
		logging.Field{Key: "keyword", Value: mapping.Keyword},
		logging.Field{Key: "category", Value: string(mapping.Category)})
	return nil
}
