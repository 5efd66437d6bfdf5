package aiextract

import (
	"encoding/json"
	"strings"

	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/priceutils"
)

// itemsDocument is the accepted JSON response shape. Price stays a raw token
// because providers answer with numbers or quoted strings interchangeably;
// the price validator handles both.
type itemsDocument struct {
	Items []struct {
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Price    json.RawMessage `json:"price"`
	} `json:"items"`
}

// ParseItems parses provider completion text into validated items. It
// accepts a JSON object ({"items":[...]}) or a markdown pipe table with
// Name|Category|Price columns, in that order of preference. Content that
// matches neither yields zero items; only the provider call itself failing
// counts as an error.
func ParseItems(content string) []ExtractedItem {
	cleaned := stripFences(content)

	if items, ok := parseItemsJSON(cleaned); ok {
		return items
	}
	return parseItemsTable(cleaned)
}

func parseItemsJSON(content string) ([]ExtractedItem, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	var doc itemsDocument
	if err := json.Unmarshal([]byte(content[start:end+1]), &doc); err != nil {
		return nil, false
	}

	items := make([]ExtractedItem, 0, len(doc.Items))
	for _, raw := range doc.Items {
		name := strings.TrimSpace(raw.Name)
		price, ok := priceutils.ParsePrice(string(raw.Price))
		if name == "" || !ok {
			continue
		}
		items = append(items, ExtractedItem{
			Name:     name,
			Category: models.ParseCategory(raw.Category),
			Price:    price,
		})
	}
	return items, true
}

func parseItemsTable(content string) []ExtractedItem {
	var items []ExtractedItem
	for _, line := range strings.Split(content, "\n") {
		cells, ok := tableCells(line, 3)
		if !ok {
			continue
		}

		name := cells[0]
		price, priceOK := priceutils.ParsePrice(cells[2])
		if name == "" || !priceOK {
			continue
		}
		items = append(items, ExtractedItem{
			Name:     name,
			Category: models.ParseCategory(cells[1]),
			Price:    price,
		})
	}
	return items
}

// ParseMappings parses classification output, a Keyword|Category pipe table,
// into normalized category mappings.
func ParseMappings(content string) []models.CategoryMapping {
	var mappings []models.CategoryMapping
	for _, line := range strings.Split(stripFences(content), "\n") {
		cells, ok := tableCells(line, 2)
		if !ok {
			continue
		}
		keyword := models.NormalizeKeyword(cells[0])
		if keyword == "" {
			continue
		}
		mappings = append(mappings, models.CategoryMapping{
			Keyword:  keyword,
			Category: models.ParseCategory(cells[1]),
		})
	}
	return mappings
}

// tableCells splits a markdown table row into exactly want cells, rejecting
// header and separator rows.
func tableCells(line string, want int) ([]string, bool) {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "|") {
		return nil, false
	}

	parts := strings.Split(strings.Trim(line, "|"), "|")
	if len(parts) != want {
		return nil, false
	}

	cells := make([]string, 0, want)
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}

	if isHeaderRow(cells) || isSeparatorRow(cells) {
		return nil, false
	}
	return cells, true
}

func isHeaderRow(cells []string) bool {
	for _, c := range cells {
		switch strings.ToLower(c) {
		case "name", "category", "price", "keyword":
			return true
		}
	}
	return false
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

// stripFences removes surrounding markdown code fences from completion text.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
