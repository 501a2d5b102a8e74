package types

import (
	"strings"
)

// Category is the research domain a paper is classified into
type Category string

const (
	CategorySemiconductor Category = "semiconductor"
	CategoryBiomedical    Category = "biomedical"
	CategoryCybersecurity Category = "cybersecurity"
	CategoryAIML          Category = "ai_ml"
	CategoryChemistry     Category = "chemistry"
	CategoryNuclear       Category = "nuclear"
)

// AllCategories returns the closed set of research categories
func AllCategories() []Category {
	return []Category{
		CategoryBiomedical,
		CategorySemiconductor,
		CategoryAIML,
		CategoryCybersecurity,
		CategoryChemistry,
		CategoryNuclear,
	}
}

// categorySynonyms maps free-text labels seen in model output to canonical categories
var categorySynonyms = map[string]Category{
	"life_sciences":    CategoryBiomedical,
	"ai_hardware":      CategorySemiconductor,
	"ai":               CategoryAIML,
	"ml":               CategoryAIML,
	"machine_learning": CategoryAIML,
	"security":         CategoryCybersecurity,
	"materials":        CategoryChemistry,
	"radiological":     CategoryNuclear,
}

// IsValid checks if the category is one of the canonical values
func (c Category) IsValid() bool {
	switch c {
	case CategorySemiconductor,
		CategoryBiomedical,
		CategoryCybersecurity,
		CategoryAIML,
		CategoryChemistry,
		CategoryNuclear:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// NormalizeCategory matches a free-text label case-insensitively against the canonical
// categories and their known synonyms. Unrecognized labels return ("", false).
func NormalizeCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}

	if c := Category(key); c.IsValid() {
		return c, true
	}
	if c, ok := categorySynonyms[key]; ok {
		return c, true
	}
	return "", false
}

// FindCategory returns the first canonical category id contained in s (case-insensitive).
// It is used for single-purpose classification replies, which may wrap the id in prose.
func FindCategory(s string) (Category, bool) {
	lowered := strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if strings.Contains(lowered, string(c)) {
			return c, true
		}
	}
	return "", false
}
