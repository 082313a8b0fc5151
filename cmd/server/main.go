// Package main runs the pdfrag server: REST API, MCP endpoint and
// health check on a single port.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/docquery/pdfrag/internal/api"
	"github.com/docquery/pdfrag/internal/chunker"
	"github.com/docquery/pdfrag/internal/config"
	"github.com/docquery/pdfrag/internal/embedding"
	"github.com/docquery/pdfrag/internal/extract"
	"github.com/docquery/pdfrag/internal/ingest"
	"github.com/docquery/pdfrag/internal/llm"
	mcpserver "github.com/docquery/pdfrag/internal/mcp"
	"github.com/docquery/pdfrag/internal/registry"
	"github.com/docquery/pdfrag/internal/retrieval"
	"github.com/docquery/pdfrag/internal/storage"
)

func main() {
	// Load .env if present (local development), ignore if missing.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared process-wide clients, constructed once and injected.
	store, err := storage.NewClient(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Embedder.Dimension)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	embeddingClient, err := embedding.NewClient(embedding.ClientConfig{
		BaseURL: cfg.Embedder.BaseURL,
		APIKey:  cfg.EmbedderAPIKey(),
	})
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient,
		cfg.Embedder.Model, cfg.Embedder.Dimension, cfg.Embedder.BatchSize)

	splitter, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatalf("invalid chunking config: %v", err)
	}

	var answerer api.Answerer
	if key := cfg.LLMAPIKey(); key != "" {
		llmClient, err := llm.NewClient(llm.ClientConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  key,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			log.Fatalf("failed to create completion client: %v", err)
		}
		answerer = llmClient
	} else {
		logger.Warn("no completion API key set, /ask disabled",
			"env", cfg.LLM.APIKeyEnv)
	}

	prefix := cfg.Qdrant.CollectionPrefix
	pipeline := ingest.NewPipeline(extract.NewPDFExtractor(), splitter, embedder, store, prefix, logger)
	aggregator := retrieval.NewAggregator(store, embedder, prefix, logger)
	reg := registry.New(store, prefix)

	apiServer := api.NewServer(store, pipeline, aggregator, reg, answerer, prefix, logger)
	mcpSrv := mcpserver.NewServer(&mcpserver.Config{
		Searcher: aggregator,
		Registry: reg,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apiServer.Register(router)
	router.GET("/", gin.WrapF(mcpserver.NewLandingHandler()))
	router.Any("/mcp", gin.WrapH(mcpSrv.HTTPHandler()))

	addr := "0.0.0.0:" + cfg.Server.Port
	logger.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
