// Command ingest embeds reference documents and loads them into the
// documents table so the chat pipeline has something to retrieve. The
// document title is the file name without its extension.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wellmate-chatbot/internal/config"
	"wellmate-chatbot/internal/db"
	"wellmate-chatbot/internal/llm"
	"wellmate-chatbot/pkg"

	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "docs", "directory of .txt/.md documents to ingest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer dbConn.Close()
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	index := db.NewDocumentIndex(dbConn)
	llmClient, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.ChatModel, cfg.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct llm client")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to read document directory")
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to read document")
			continue
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		embedding, err := llmClient.Embed(ctx, text)
		if err != nil {
			cancel()
			log.Error().Err(err).Str("file", path).Msg("failed to embed document")
			continue
		}
		doc := pkg.Document{
			ID:      uuid.NewString(),
			Title:   strings.TrimSuffix(entry.Name(), ext),
			Content: text,
		}
		err = index.Upsert(ctx, doc, embedding)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to store document")
			continue
		}
		log.Info().Str("title", doc.Title).Msg("ingested document")
		ingested++
	}
	log.Info().Int("documents", ingested).Msg("ingest complete")
}
