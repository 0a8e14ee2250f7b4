package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docqa/internal/config"
	"docqa/internal/http"
	"docqa/internal/ingest"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/storage"
	"docqa/internal/vectorindex"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Chunk store initialized", "path", cfg.DBPath)

	chunkRepo := storage.NewChunkRepo(db)
	index := vectorindex.NewHandle(cfg.IndexPath, cfg.EmbeddingVectorSize)
	slog.Info("Vector index handle ready", "path", cfg.IndexPath, "dim", cfg.EmbeddingVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	generator := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	pipeline := ingest.NewPipeline(chunkRepo, embedder, index)
	engine := rag.NewEngine(embedder, index, chunkRepo, generator, cfg.TopK)
	slog.Info("Retrieval engine initialized", "top_k", cfg.TopK)

	router := http.NewRouter(&http.Deps{
		Pipeline:  pipeline,
		Engine:    engine,
		Store:     chunkRepo,
		DB:        db,
		UploadDir: cfg.UploadDir,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
