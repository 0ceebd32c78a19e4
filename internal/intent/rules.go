package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the keyword sets the rule pass matches against, in priority
// order: GST beats invoice beats expense.
type Rules struct {
	GSTKeywords     []string `yaml:"gst_keywords"`
	InvoiceKeywords []string `yaml:"invoice_keywords"`
	ExpenseKeywords []string `yaml:"expense_keywords"`
}

// DefaultRules returns the built-in keyword sets.
func DefaultRules() Rules {
	return Rules{
		GSTKeywords:     []string{"gst", "tax", "hsn", "invoice fields", "input tax credit"},
		InvoiceKeywords: []string{"invoice for", "bill to"},
		ExpenseKeywords: []string{"spent", "paid", "expense of", "bought"},
	}
}

// LoadRules reads keyword sets from a YAML file. Empty sets fall back to the
// built-in defaults so a partial file cannot silently disable a rule.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}

	defaults := DefaultRules()

	if len(rules.GSTKeywords) == 0 {
		rules.GSTKeywords = defaults.GSTKeywords
	}

	if len(rules.InvoiceKeywords) == 0 {
		rules.InvoiceKeywords = defaults.InvoiceKeywords
	}

	if len(rules.ExpenseKeywords) == 0 {
		rules.ExpenseKeywords = defaults.ExpenseKeywords
	}

	return rules, nil
}
