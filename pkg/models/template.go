package models

import "fmt"

// TemplateCategory is the watcher field a template fragment fills in.
type TemplateCategory string

const (
	CategoryInput     TemplateCategory = "input"
	CategoryCondition TemplateCategory = "condition"
	CategoryTransform TemplateCategory = "transform"
)

// AllTemplateCategories is the fixed set of categories, in load order.
var AllTemplateCategories = []TemplateCategory{CategoryInput, CategoryCondition, CategoryTransform}

// ParseTemplateCategory validates a category name.
func ParseTemplateCategory(s string) (TemplateCategory, error) {
	for _, c := range AllTemplateCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown template category %q (want one of: input, condition, transform)", s)
}

// Template is a reusable watcher fragment. Read-only outside the store.
type Template struct {
	ID       string                 `json:"id"`
	Category TemplateCategory       `json:"category"`
	Title    string                 `json:"title,omitempty"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// TemplateCache maps category → template id → template.
type TemplateCache map[TemplateCategory]map[string]Template

// NewTemplateCache returns a cache with an empty subtree for every category.
func NewTemplateCache() TemplateCache {
	cache := make(TemplateCache, len(AllTemplateCategories))
	for _, c := range AllTemplateCategories {
		cache[c] = make(map[string]Template)
	}
	return cache
}

// Count returns the number of templates cached under a category.
func (c TemplateCache) Count(category TemplateCategory) int {
	return len(c[category])
}
