// Package main provides the ragctl CLI for managing the PDF index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docquery/pdfrag/internal/chunker"
	"github.com/docquery/pdfrag/internal/config"
	"github.com/docquery/pdfrag/internal/embedding"
	"github.com/docquery/pdfrag/internal/extract"
	"github.com/docquery/pdfrag/internal/ingest"
	"github.com/docquery/pdfrag/internal/llm"
	"github.com/docquery/pdfrag/internal/registry"
	"github.com/docquery/pdfrag/internal/retrieval"
	"github.com/docquery/pdfrag/internal/storage"
)

var (
	configPath string
	queryLimit int
	askLimit   int
)

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Manage the PDF retrieval index",
	Long: `CLI for the pdfrag pipeline: ingest PDF documents into Qdrant,
run semantic queries and manage the indexed document set.

Environment variables:
  QDRANT_HOST     Qdrant hostname (default: localhost)
  QDRANT_PORT     Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY  API key for the embedding backend (required)
  GROQ_API_KEY    API key for the completion backend (ask only)`,
}

// app bundles the shared clients each command needs. Everything is
// built once per invocation from the loaded config.
type app struct {
	cfg        *config.Config
	store      *storage.Client
	pipeline   *ingest.Pipeline
	aggregator *retrieval.Aggregator
	registry   *registry.Registry
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := storage.NewClient(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Embedder.Dimension)
	if err != nil {
		return nil, err
	}

	client, err := embedding.NewClient(embedding.ClientConfig{
		BaseURL: cfg.Embedder.BaseURL,
		APIKey:  cfg.EmbedderAPIKey(),
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	embedder := embedding.NewEmbedder(client,
		cfg.Embedder.Model, cfg.Embedder.Dimension, cfg.Embedder.BatchSize)

	splitter, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger := slog.Default()
	prefix := cfg.Qdrant.CollectionPrefix

	return &app{
		cfg:        cfg,
		store:      store,
		pipeline:   ingest.NewPipeline(extract.NewPDFExtractor(), splitter, embedder, store, prefix, logger),
		aggregator: retrieval.NewAggregator(store, embedder, prefix, logger),
		registry:   registry.New(store, prefix),
	}, nil
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.pdf> [more.pdf...]",
	Short: "Index one or more PDF files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		ctx := context.Background()
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			result, err := a.pipeline.Ingest(ctx, filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			if result.Chunks == 0 {
				fmt.Printf("%s: no extractable text, skipped\n", path)
				continue
			}
			fmt.Printf("%s: %d chunks indexed as %s (%s)\n",
				path, result.Chunks, result.DocumentID, result.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run a semantic search across all indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		results, err := a.aggregator.Search(context.Background(), args[0], queryLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results. Is anything indexed yet?")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. [%.4f] %s (chunk %d/%d)\n%s\n\n",
				i+1, r.Score, r.Filename, r.ChunkIndex+1, r.TotalChunks, r.Text)
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question grounded in the indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		llmClient, err := llm.NewClient(llm.ClientConfig{
			BaseURL: a.cfg.LLM.BaseURL,
			APIKey:  a.cfg.LLMAPIKey(),
			Model:   a.cfg.LLM.Model,
		})
		if err != nil {
			return err
		}

		ctx := context.Background()
		results, err := a.aggregator.Search(ctx, args[0], askLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No documents have been uploaded yet or no relevant information found.")
			return nil
		}

		answer, err := llmClient.Answer(ctx, retrieval.BuildContext(results), args[0])
		if err != nil {
			return err
		}

		fmt.Println(answer)
		fmt.Println("\nSources:")
		for i, r := range results {
			if i == 3 {
				break
			}
			fmt.Printf("%d. %s (chunk %d)\n", i+1, r.Filename, r.ChunkIndex+1)
		}
		return nil
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage indexed documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		docs, err := a.registry.List(context.Background())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents indexed.")
			return nil
		}
		for _, doc := range docs {
			fmt.Printf("%s  %s  (%d chunks)\n", doc.ID, doc.Filename, doc.Chunks)
		}
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete an indexed document and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		if err := a.registry.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check store health and index totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.store.Close()

		ctx := context.Background()
		if err := a.store.Health(ctx); err != nil {
			return err
		}
		fmt.Println("Qdrant healthy")

		docs, err := a.registry.List(ctx)
		if err != nil {
			return err
		}
		var total uint64
		for _, doc := range docs {
			total += doc.Chunks
		}
		fmt.Printf("Documents: %d\nChunks: %d\n", len(docs), total)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 10, "maximum number of results")
	askCmd.Flags().IntVar(&askLimit, "limit", 5, "maximum number of context chunks")

	docsCmd.AddCommand(docsListCmd, docsDeleteCmd)
	rootCmd.AddCommand(ingestCmd, queryCmd, askCmd, docsCmd, statusCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
