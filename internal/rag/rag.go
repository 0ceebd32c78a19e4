package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Retriever is the slice of the retrieval collaborator the augmenter needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Augmenter builds grounded prompts for knowledge questions. Retrieval is
// best effort: when the collaborator is down or returns nothing the augmenter
// degrades to an unaugmented prompt instead of failing the request.
type Augmenter struct {
	retriever Retriever
}

func NewAugmenter(retriever Retriever) *Augmenter {
	return &Augmenter{retriever: retriever}
}

// Prompt returns the prompt to send to the generation collaborator for the
// given question, augmented with retrieved context when available.
func (a *Augmenter) Prompt(ctx context.Context, question string) string {
	if a.retriever == nil {
		return degradedPrompt(question)
	}

	retrieved, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		slog.Warn("retrieval unavailable, answering without context", "error", err)
		return degradedPrompt(question)
	}

	retrieved = strings.TrimSpace(retrieved)
	if retrieved == "" {
		slog.Info("retrieval returned no context, answering without it")
		return degradedPrompt(question)
	}

	return fmt.Sprintf(
		"Based on the following context, answer the question.\nCONTEXT: %s\nQUESTION: %s",
		retrieved, question)
}

func degradedPrompt(question string) string {
	return "Answer concisely: " + question
}
