package report

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps item descriptions containing any of its keywords to a
// category. Rules are applied in order; the first match wins.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

const OtherCategory = "other"

// DefaultCategoryRules returns the built-in item categorization rules.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Category: "raw materials", Keywords: []string{"raw material", "fabric", "cloth", "steel", "cement", "timber"}},
		{Category: "transport", Keywords: []string{"diesel", "petrol", "fuel", "transport", "delivery", "courier"}},
		{Category: "utilities", Keywords: []string{"electricity", "water bill", "internet", "phone", "recharge"}},
		{Category: "rent", Keywords: []string{"rent", "lease"}},
		{Category: "wages", Keywords: []string{"salary", "wages", "labour", "labor"}},
		{Category: "food", Keywords: []string{"chai", "tea", "lunch", "snacks", "food"}},
		{Category: "equipment", Keywords: []string{"machine", "printer", "tool", "equipment"}},
	}
}

// LoadCategoryRules reads categorization rules from a YAML file. An empty
// file falls back to the defaults.
func LoadCategoryRules(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category rules: %w", err)
	}

	var doc struct {
		Categories []CategoryRule `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing category rules: %w", err)
	}

	if len(doc.Categories) == 0 {
		return DefaultCategoryRules(), nil
	}

	return doc.Categories, nil
}

// Categorize assigns an item description to the first rule whose keyword it
// contains, case insensitively.
func Categorize(rules []CategoryRule, item string) string {
	lowered := strings.ToLower(item)

	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Category
			}
		}
	}

	return OtherCategory
}
