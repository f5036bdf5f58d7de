package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wellmate-chatbot/internal/config"
	"wellmate-chatbot/internal/core"
	"wellmate-chatbot/internal/db"
	httpserver "wellmate-chatbot/internal/http"
	"wellmate-chatbot/internal/llm"
	"wellmate-chatbot/internal/retrieval"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg.LogLevel)

	// Open database connection
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer dbConn.Close()

	// Verify connection and apply schema
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Construct all dependencies once at startup; handlers receive them
	// explicitly and nothing is rebuilt per request.
	repo := db.NewRepository(dbConn)
	index := db.NewDocumentIndex(dbConn)
	llmClient, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.ChatModel, cfg.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct llm client")
	}
	retriever := retrieval.New(llmClient, index)
	pipeline := core.NewPipeline(llmClient, retriever, cfg.MaxHistory)

	server := httpserver.NewServer(repo, pipeline, cfg.StaticDir)
	router := httpserver.NewRouter(server, cfg.SecretKey, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	waitForShutdown(srv)
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
