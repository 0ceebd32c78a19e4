package extract

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rgoyals/bahikhata/internal/validation"
)

// One schema per record kind. The required fields are the minimum a record
// needs before persistence; the optional properties are fields the model
// often volunteers and that are kept when present.
const (
	expenseSchema = `{
		"type": "object",
		"required": ["date", "item", "amount"],
		"properties": {
			"date": {"type": "string", "minLength": 1},
			"item": {"type": "string", "minLength": 1},
			"amount": {"type": ["number", "string"]},
			"vendor": {"type": "string"},
			"category": {"type": "string"},
			"payment_method": {"type": "string"},
			"gst_applicable": {"type": "boolean"},
			"currency": {"type": "string"},
			"notes": {"type": "string"}
		}
	}`

	invoiceSchema = `{
		"type": "object",
		"required": ["date", "customer_name", "amount"],
		"properties": {
			"date": {"type": "string", "minLength": 1},
			"customer_name": {"type": "string", "minLength": 1},
			"amount": {"type": ["number", "string"]},
			"due_date": {"type": "string"},
			"gst_pct": {"type": "number"},
			"status": {"type": "string"},
			"currency": {"type": "string"},
			"items": {"type": "array"}
		}
	}`
)

var schemas = map[Kind]*gojsonschema.Schema{}

func init() {
	for kind, raw := range map[Kind]string{
		KindExpense: expenseSchema,
		KindInvoice: invoiceSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("compiling %s schema: %v", kind, err))
		}

		schemas[kind] = schema
	}
}

// Validate checks an extraction result against its kind's schema. The first
// offending field is reported by name so the caller can surface it.
func Validate(res *Result) error {
	schema, ok := schemas[res.Kind]
	if !ok {
		return fmt.Errorf("no schema for extraction kind %q", res.Kind)
	}

	outcome, err := schema.Validate(gojsonschema.NewGoLoader(res.Fields))
	if err != nil {
		return fmt.Errorf("validating %s fields: %w", res.Kind, err)
	}

	if outcome.Valid() {
		return nil
	}

	first := outcome.Errors()[0]

	field := first.Field()
	if prop, ok := first.Details()["property"].(string); ok {
		field = prop
	}

	return &validation.Error{Field: field, Reason: first.Description()}
}
