package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rgoyals/bahikhata/internal/intent"
)

// ErrExtractionFailed means both the first generation attempt and the one
// repair attempt produced unparsable output. Nothing may be persisted from a
// failed extraction.
var ErrExtractionFailed = errors.New("could not extract structured record from model output")

// Kind names the record shape an extraction targets.
type Kind string

const (
	KindExpense Kind = "expense"
	KindInvoice Kind = "invoice"
)

// Result is the structured outcome of one extraction. Fields holds whatever
// the model produced; missing fields stay absent rather than defaulted so
// validation can reject incomplete records.
type Result struct {
	Kind         Kind
	Fields       map[string]any
	RawModelText string
}

// Generator is the slice of the generation collaborator the engine needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

const (
	expenseTokens = 150
	invoiceTokens = 200
	repairTokens  = 120
)

// Engine turns free-text model replies into structured records. Generation
// models are unreliable at strict JSON, so a failed parse earns exactly one
// repair call before the extraction is abandoned.
type Engine struct {
	generator Generator
}

func NewEngine(generator Generator) *Engine {
	return &Engine{generator: generator}
}

func (e *Engine) Extract(ctx context.Context, it intent.Intent, sourceText string) (*Result, error) {
	var (
		kind   Kind
		prompt string
		tokens int
	)

	switch it {
	case intent.ExpenseRecord:
		kind = KindExpense
		prompt = fmt.Sprintf(
			"Extract expense JSON only from the following text. "+
				"The JSON should contain 'date', 'item', and 'amount'. TEXT: %s", sourceText)
		tokens = expenseTokens
	case intent.InvoiceCreate:
		kind = KindInvoice
		prompt = fmt.Sprintf(
			"Generate invoice JSON from the following text. "+
				"The JSON should contain 'date', 'customer_name', and 'amount'. TEXT: %s", sourceText)
		tokens = invoiceTokens
	default:
		return nil, fmt.Errorf("no extraction defined for intent %q", it)
	}

	reply, err := e.generator.Generate(ctx, prompt, tokens)
	if err != nil {
		return nil, err
	}

	fields, parseErr := parseObject(reply)
	if parseErr == nil {
		return &Result{Kind: kind, Fields: fields, RawModelText: reply}, nil
	}

	slog.Info("first extraction parse failed, issuing repair call", "kind", kind, "error", parseErr)

	repaired, err := e.generator.Generate(ctx, "Reformat to valid JSON only: "+reply, repairTokens)
	if err != nil {
		return nil, err
	}

	fields, parseErr = parseObject(repaired)
	if parseErr != nil {
		return nil, ErrExtractionFailed
	}

	return &Result{Kind: kind, Fields: fields, RawModelText: repaired}, nil
}

// parseObject parses a model reply as a single JSON object, tolerating
// markdown fences and chatter around the braces.
func parseObject(reply string) (map[string]any, error) {
	clean := cleanModelJSON(reply)

	var fields map[string]any
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}

	return fields, nil
}

// cleanModelJSON strips ``` wrappers and keeps only the outermost object when
// the model ignored the JSON-only instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}

		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// Amount reads the amount field as a number. Numeric strings like "1,000.50"
// are accepted; anything else reports absence.
func (r *Result) Amount() (float64, bool) {
	v, ok := r.Fields["amount"]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// Date reads the date field, accepting the formats generation models commonly
// produce for Indian receipts.
func (r *Result) Date() (time.Time, bool) {
	v, ok := r.Fields["date"]
	if !ok {
		return time.Time{}, false
	}

	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}

	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// StringField reads a field as a trimmed string; absent or non-string values
// report absence.
func (r *Result) StringField(key string) (string, bool) {
	v, ok := r.Fields[key]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(s), true
}
