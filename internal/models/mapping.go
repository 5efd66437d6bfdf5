package models

import "strings"

// CategoryMapping is a persisted keyword-to-category association used for
// deterministic item classification. Keywords are stored normalized
// (lowercase, trimmed); duplicates are allowed and iteration order over the
// stored list decides substring-match ties.
type CategoryMapping struct {
	Keyword  string   `yaml:"keyword" json:"keyword"`
	Category Category `yaml:"category" json:"category"`
}

// NewCategoryMapping builds a mapping with the keyword normalized.
func NewCategoryMapping(keyword string, category Category) CategoryMapping {
	return CategoryMapping{
		Keyword:  NormalizeKeyword(keyword),
		Category: category,
	}
}

// NormalizeKeyword lowercases and trims a keyword or item name for matching.
func NormalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
