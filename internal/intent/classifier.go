package intent

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects how the classifier resolves text that the keyword rules did
// not match.
type Mode string

const (
	// ModeRule answers fallback when no keyword matches.
	ModeRule Mode = "rule"
	// ModeModel delegates unmatched text to the generation collaborator.
	ModeModel Mode = "model"
)

// Generator is the slice of the generation collaborator the classifier needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

const modelPassTokens = 20

// Classifier maps normalized input text to an Intent. The rule pass is
// deterministic and side-effect free; the optional model pass clamps anything
// the model says that is not exactly one of the four labels to fallback.
type Classifier struct {
	rules     Rules
	mode      Mode
	generator Generator
}

func NewClassifier(rules Rules, mode Mode, generator Generator) *Classifier {
	return &Classifier{
		rules:     rules,
		mode:      mode,
		generator: generator,
	}
}

func (c *Classifier) Classify(ctx context.Context, text string) (Intent, error) {
	lowered := strings.ToLower(text)

	switch {
	case containsAny(lowered, c.rules.GSTKeywords):
		return GSTQuery, nil
	case containsAny(lowered, c.rules.InvoiceKeywords):
		return InvoiceCreate, nil
	case containsAny(lowered, c.rules.ExpenseKeywords):
		return ExpenseRecord, nil
	}

	if c.mode != ModeModel || c.generator == nil {
		return Fallback, nil
	}

	return c.modelPass(ctx, text)
}

func (c *Classifier) modelPass(ctx context.Context, text string) (Intent, error) {
	prompt := fmt.Sprintf(
		"Classify the intent of the following message as exactly one of: "+
			"expense_record, invoice_create, gst_query, fallback.\n"+
			"Reply with a single line of the form \"Intent: <label>\".\n"+
			"MESSAGE: %s", text)

	reply, err := c.generator.Generate(ctx, prompt, modelPassTokens)
	if err != nil {
		return Fallback, err
	}

	label := Intent(lastLabelLine(reply))
	if !label.Valid() {
		// Never pass unvalidated model output through as an Intent.
		return Fallback, nil
	}

	return label, nil
}

// lastLabelLine extracts the candidate label from a model reply: the last
// non-empty line, lowered, with an optional "Intent:" prefix stripped.
func lastLabelLine(reply string) string {
	lines := strings.Split(reply, "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		line = strings.ToLower(line)
		line = strings.TrimPrefix(line, "intent:")

		return strings.TrimSpace(line)
	}

	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}
