package intent

// Intent is the classified purpose of an inbound message. It drives the
// orchestration branch taken for the request.
type Intent string

const (
	ExpenseRecord Intent = "expense_record"
	InvoiceCreate Intent = "invoice_create"
	GSTQuery      Intent = "gst_query"
	Fallback      Intent = "fallback"
)

// Valid reports whether i is one of the four allowed labels.
func (i Intent) Valid() bool {
	switch i {
	case ExpenseRecord, InvoiceCreate, GSTQuery, Fallback:
		return true
	default:
		return false
	}
}
