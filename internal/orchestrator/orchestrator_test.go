package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/extract"
	"github.com/rgoyals/bahikhata/internal/intent"
	"github.com/rgoyals/bahikhata/internal/invoice"
	"github.com/rgoyals/bahikhata/internal/upstream"
	"github.com/rgoyals/bahikhata/internal/validation"
)

type fixture struct {
	transcriber *MockTranscriber
	recognizer  *MockRecognizer
	classifier  *MockClassifier
	extractor   *MockExtractor
	generator   *MockGenerator
	augmenter   *MockAugmenter
	expenses    *MockExpenseCreator
	invoices    *MockInvoiceCreator
	sender      *MockSender
	svc         *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		transcriber: NewMockTranscriber(ctrl),
		recognizer:  NewMockRecognizer(ctrl),
		classifier:  NewMockClassifier(ctrl),
		extractor:   NewMockExtractor(ctrl),
		generator:   NewMockGenerator(ctrl),
		augmenter:   NewMockAugmenter(ctrl),
		expenses:    NewMockExpenseCreator(ctrl),
		invoices:    NewMockInvoiceCreator(ctrl),
		sender:      NewMockSender(ctrl),
	}

	f.svc = NewService(Params{
		Transcriber: f.transcriber,
		Recognizer:  f.recognizer,
		Classifier:  f.classifier,
		Extractor:   f.extractor,
		Generator:   f.generator,
		Augmenter:   f.augmenter,
		Expenses:    f.expenses,
		Invoices:    f.invoices,
		Sender:      f.sender,
	})

	return f
}

func TestHandle_ExpenseText(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New()
	expenseID := uuid.New()
	date := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	f.classifier.EXPECT().
		Classify(gomock.Any(), "paid 1000 for raw materials").
		Return(intent.ExpenseRecord, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.ExpenseRecord, "paid 1000 for raw materials").
		Return(&extract.Result{Kind: extract.KindExpense, Fields: map[string]any{
			"date": "2025-04-01", "item": "raw materials", "amount": float64(1000),
		}}, nil)
	f.expenses.EXPECT().
		Create(gomock.Any(), ownerID, expense.CreateParams{Date: date, Item: "raw materials", Amount: 1000}).
		Return(&expense.Expense{ID: expenseID, Date: date, Item: "raw materials", Amount: 1000, OwnerID: ownerID}, nil)
	f.sender.EXPECT().
		Send(gomock.Any(), "919900112233", "Expense recorded: raw materials for 1000").
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "paid 1000 for raw materials",
		ReplyTo: "919900112233",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	assert.Equal(t, intent.ExpenseRecord, outcome.Intent)
	assert.Equal(t, "Expense recorded: raw materials for 1000", outcome.Reply)
	assert.Equal(t, "sent_stub", outcome.DeliveryStatus)
	require.NotNil(t, outcome.ExpenseID)
	assert.Equal(t, expenseID, *outcome.ExpenseID)
	assert.Nil(t, outcome.InvoiceID)
}

func TestHandle_InvoiceText(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New()
	invoiceID := uuid.New()
	date := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.InvoiceCreate, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.InvoiceCreate, gomock.Any()).
		Return(&extract.Result{Kind: extract.KindInvoice, Fields: map[string]any{
			"date": "2025-04-02", "customer_name": "Sharma Traders", "amount": float64(5000),
		}}, nil)
	f.invoices.EXPECT().
		Create(gomock.Any(), ownerID, invoice.CreateParams{Date: date, CustomerName: "Sharma Traders", Amount: 5000}).
		Return(&invoice.Invoice{ID: invoiceID, Date: date, CustomerName: "Sharma Traders", Amount: 5000, OwnerID: ownerID}, nil)
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), "Invoice created for Sharma Traders for 5000").
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "invoice for Sharma Traders of 5000",
		ReplyTo: "919900112233",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	assert.Equal(t, intent.InvoiceCreate, outcome.Intent)
	require.NotNil(t, outcome.InvoiceID)
	assert.Equal(t, invoiceID, *outcome.InvoiceID)
}

func TestHandle_AudioIsTranscribedBeforeClassification(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New()

	f.transcriber.EXPECT().
		Transcribe(gomock.Any(), []byte("opus-bytes"), "note.ogg").
		Return("spent 200 on chai", nil)
	f.classifier.EXPECT().
		Classify(gomock.Any(), "spent 200 on chai").
		Return(intent.Fallback, nil)
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), ApologyReply).
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:    "audio",
		Audio:     []byte("opus-bytes"),
		AudioName: "note.ogg",
		ReplyTo:   "919900112233",
		OwnerID:   ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, intent.Fallback, outcome.Intent)
}

func TestHandle_TranscriptionDownStopsPipeline(t *testing.T) {
	f := newFixture(t)

	unavailable := &upstream.UnavailableError{
		Collaborator: upstream.CollaboratorASR,
		Err:          errors.New("connection refused"),
	}
	f.transcriber.EXPECT().
		Transcribe(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", unavailable)

	// Classifier, extractor and sender must not be called.
	_, err := f.svc.Handle(context.Background(), Input{
		Origin:  "audio",
		Audio:   []byte("opus-bytes"),
		OwnerID: uuid.New(),
	})

	var uerr *upstream.UnavailableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, upstream.CollaboratorASR, uerr.Collaborator)
}

func TestHandle_ImageGoesThroughClassifier(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New()
	date := time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC)

	f.recognizer.EXPECT().
		Read(gomock.Any(), []byte("jpeg-bytes")).
		Return("paid 450 for diesel 03/04/2025", nil)
	f.classifier.EXPECT().
		Classify(gomock.Any(), "paid 450 for diesel 03/04/2025").
		Return(intent.ExpenseRecord, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.ExpenseRecord, gomock.Any()).
		Return(&extract.Result{Kind: extract.KindExpense, Fields: map[string]any{
			"date": "03/04/2025", "item": "diesel", "amount": float64(450),
		}}, nil)
	f.expenses.EXPECT().
		Create(gomock.Any(), ownerID, expense.CreateParams{Date: date, Item: "diesel", Amount: 450}).
		Return(&expense.Expense{ID: uuid.New(), Date: date, Item: "diesel", Amount: 450, OwnerID: ownerID}, nil)
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "image",
		Image:   []byte("jpeg-bytes"),
		ReplyTo: "919900112233",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, intent.ExpenseRecord, outcome.Intent)
}

func TestHandle_GSTQuery(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), "what is the gst rate on tea").
		Return(intent.GSTQuery, nil)
	f.augmenter.EXPECT().
		Prompt(gomock.Any(), "what is the gst rate on tea").
		Return("Based on the following context, answer the question.\nCONTEXT: GST on tea is 5%.\nQUESTION: what is the gst rate on tea")
	f.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any(), 250).
		Return("GST on tea is 5%.", nil)
	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), "GST on tea is 5%.").
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "what is the gst rate on tea",
		ReplyTo: "919900112233",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, intent.GSTQuery, outcome.Intent)
	assert.Equal(t, "GST on tea is 5%.", outcome.Reply)
}

func TestHandle_FallbackApology(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.Fallback, nil)
	f.sender.EXPECT().
		Send(gomock.Any(), "919900112233", ApologyReply).
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "hello there",
		ReplyTo: "919900112233",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, ApologyReply, outcome.Reply)
}

func TestHandle_EmptyTextSkipsClassification(t *testing.T) {
	f := newFixture(t)

	f.sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), ApologyReply).
		Return("sent_stub", nil)

	outcome, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "   ",
		ReplyTo: "919900112233",
		OwnerID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, intent.Fallback, outcome.Intent)
}

func TestHandle_IncompleteExtractionPersistsNothing(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.ExpenseRecord, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.ExpenseRecord, gomock.Any()).
		Return(&extract.Result{Kind: extract.KindExpense, Fields: map[string]any{
			"date": "2025-04-01", "item": "chai",
		}}, nil)

	// Expense creator and sender must not be called.
	_, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "paid for chai",
		ReplyTo: "919900112233",
		OwnerID: uuid.New(),
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestHandle_NonNumericAmountPersistsNothing(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.ExpenseRecord, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.ExpenseRecord, gomock.Any()).
		Return(&extract.Result{Kind: extract.KindExpense, Fields: map[string]any{
			"date": "2025-04-01", "item": "raw materials", "amount": "₹1000",
		}}, nil)

	// A currency-prefixed amount passes the schema as a string but must not
	// be stored as zero. Expense creator and sender must not be called.
	_, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "paid 1000 for raw materials",
		ReplyTo: "919900112233",
		OwnerID: uuid.New(),
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestHandle_UnparsableDatePersistsNothing(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.InvoiceCreate, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.InvoiceCreate, gomock.Any()).
		Return(&extract.Result{Kind: extract.KindInvoice, Fields: map[string]any{
			"date": "next tuesday", "customer_name": "Sharma Traders", "amount": float64(5000),
		}}, nil)

	_, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "invoice for Sharma Traders of 5000",
		OwnerID: uuid.New(),
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
	assert.Contains(t, verr.Reason, "unrecognized date format")
}

func TestHandle_ExtractionFailureStopsBeforePersistence(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), gomock.Any()).
		Return(intent.ExpenseRecord, nil)
	f.extractor.EXPECT().
		Extract(gomock.Any(), intent.ExpenseRecord, gomock.Any()).
		Return(nil, extract.ErrExtractionFailed)

	_, err := f.svc.Handle(context.Background(), Input{
		Origin:  "text",
		Text:    "paid something somewhere",
		OwnerID: uuid.New(),
	})
	assert.ErrorIs(t, err, extract.ErrExtractionFailed)
}
