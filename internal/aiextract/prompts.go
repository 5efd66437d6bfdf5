package aiextract

import (
	"strings"

	"jweber/bonscan/internal/models"
)

func categoryList() string {
	names := make([]string, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// ExtractionPrompt is the fixed instruction prompt for receipt extraction.
// It enumerates the closed category set and the two accepted output formats.
func ExtractionPrompt() string {
	return `You extract purchased items from OCR'd German supermarket receipt text.

Return the items as a markdown table with exactly these columns:

| Name | Category | Price |

Rules:
1. Category must be exactly one of: ` + categoryList() + `
2. Price is the line total in euros as a plain decimal with a dot (e.g. 1.29)
3. One row per purchased item; skip deposits, discounts, totals and payment lines
4. Keep the item name as printed on the receipt
5. Alternatively you may answer with a JSON object {"items":[{"name":...,"category":...,"price":...}]}
6. Return only the table or the JSON object, no explanation`
}

// ClassificationPrompt is the fixed instruction prompt for classifying free
// product descriptions into (keyword, category) pairs.
func ClassificationPrompt() string {
	return `You classify grocery product descriptions into categories.

For each product in the input, return one line of a markdown table with exactly these columns:

| Keyword | Category |

Rules:
1. Category must be exactly one of: ` + categoryList() + `
2. Keyword is the lowercase product word a future receipt line would contain
3. Return only the table, no explanation`
}
