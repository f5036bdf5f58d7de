// Package retrieval turns a natural-language query into the most relevant
// reference documents by embedding it and searching the vector index.
package retrieval

import (
	"context"
	"fmt"

	"wellmate-chatbot/pkg"
)

// Embedder produces an embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher answers nearest-neighbour queries over stored documents.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, k int) ([]pkg.Document, error)
}

// Retriever composes an embedder with a document index.
type Retriever struct {
	Embedder Embedder
	Index    Searcher
}

// New constructs a Retriever.
func New(embedder Embedder, index Searcher) *Retriever {
	return &Retriever{Embedder: embedder, Index: index}
}

// TopDocuments returns up to k documents most similar to the query. Zero
// results is a valid outcome.
func (r *Retriever) TopDocuments(ctx context.Context, query string, k int) ([]pkg.Document, error) {
	embedding, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	docs, err := r.Index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}
