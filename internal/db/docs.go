package db

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"wellmate-chatbot/pkg"
)

// DocumentIndex stores reference documents with their embedding vectors and
// answers nearest-neighbour queries over them. Cosine distance matches the
// metric the corpus was indexed with.
type DocumentIndex struct {
	DB *sql.DB
}

// NewDocumentIndex constructs a DocumentIndex from an existing sql.DB.
func NewDocumentIndex(db *sql.DB) *DocumentIndex { return &DocumentIndex{DB: db} }

// Search returns up to k documents nearest to the query vector, nearest
// first. An empty result is a valid outcome, not an error.
func (i *DocumentIndex) Search(ctx context.Context, embedding []float32, k int) ([]pkg.Document, error) {
	rows, err := i.DB.QueryContext(ctx,
		`SELECT id, title, content
         FROM documents
         ORDER BY embedding <=> $1
         LIMIT $2`,
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []pkg.Document
	for rows.Next() {
		var d pkg.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Upsert inserts or replaces a document and its embedding.
func (i *DocumentIndex) Upsert(ctx context.Context, doc pkg.Document, embedding []float32) error {
	_, err := i.DB.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, embedding)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (id) DO UPDATE
         SET title = EXCLUDED.title, content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
		doc.ID, doc.Title, doc.Content, pgvector.NewVector(embedding),
	)
	return err
}
