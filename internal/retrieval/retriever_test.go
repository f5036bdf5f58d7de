package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellmate-chatbot/pkg"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeIndex struct {
	docs []pkg.Document
	err  error
	gotK int
	got  []float32
}

func (f *fakeIndex) Search(ctx context.Context, embedding []float32, k int) ([]pkg.Document, error) {
	f.got = embedding
	f.gotK = k
	return f.docs, f.err
}

func TestTopDocuments(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.5, 0.25}}
	index := &fakeIndex{docs: []pkg.Document{{ID: "d1", Title: "flu", Content: "rest"}}}
	r := New(embedder, index)

	docs, err := r.TopDocuments(context.Background(), "what helps with flu?", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, []float32{0.5, 0.25}, index.got)
	assert.Equal(t, 1, index.gotK)
}

func TestTopDocumentsZeroHits(t *testing.T) {
	r := New(&fakeEmbedder{vec: []float32{0.1}}, &fakeIndex{})

	docs, err := r.TopDocuments(context.Background(), "nothing matches", 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestTopDocumentsEmbedError(t *testing.T) {
	r := New(&fakeEmbedder{err: errors.New("quota exceeded")}, &fakeIndex{})

	_, err := r.TopDocuments(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestTopDocumentsSearchError(t *testing.T) {
	r := New(&fakeEmbedder{vec: []float32{0.1}}, &fakeIndex{err: errors.New("connection refused")})

	_, err := r.TopDocuments(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search documents")
}
