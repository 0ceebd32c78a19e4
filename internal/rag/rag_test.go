package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgoyals/bahikhata/internal/rag"
)

type fakeRetriever struct {
	context string
	err     error
}

func (r *fakeRetriever) Retrieve(_ context.Context, _ string) (string, error) {
	return r.context, r.err
}

func TestAugmenter_WithContext(t *testing.T) {
	augmenter := rag.NewAugmenter(&fakeRetriever{context: "GST on tea is 5%."})

	prompt := augmenter.Prompt(context.Background(), "what is the gst rate on tea")

	assert.Contains(t, prompt, "Based on the following context")
	assert.Contains(t, prompt, "GST on tea is 5%.")
	assert.Contains(t, prompt, "QUESTION: what is the gst rate on tea")
}

func TestAugmenter_DegradesOnRetrievalError(t *testing.T) {
	augmenter := rag.NewAugmenter(&fakeRetriever{err: errors.New("connection refused")})

	prompt := augmenter.Prompt(context.Background(), "what is the gst rate on tea")

	assert.Equal(t, "Answer concisely: what is the gst rate on tea", prompt)
}

func TestAugmenter_DegradesOnEmptyContext(t *testing.T) {
	augmenter := rag.NewAugmenter(&fakeRetriever{context: "   "})

	prompt := augmenter.Prompt(context.Background(), "is hsn code mandatory")

	assert.Equal(t, "Answer concisely: is hsn code mandatory", prompt)
}

func TestAugmenter_NilRetriever(t *testing.T) {
	augmenter := rag.NewAugmenter(nil)

	prompt := augmenter.Prompt(context.Background(), "what is input tax credit")

	assert.Equal(t, "Answer concisely: what is input tax credit", prompt)
}
