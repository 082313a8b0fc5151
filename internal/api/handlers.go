package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docquery/pdfrag/internal/ingest"
	"github.com/docquery/pdfrag/internal/registry"
	"github.com/docquery/pdfrag/internal/retrieval"
	"github.com/docquery/pdfrag/internal/storage"
)

// HealthChecker reports vector store reachability. Ingestion and query
// endpoints are gated on it: an unreachable store is surfaced as 503,
// distinct from "reachable but found nothing".
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Ingestor runs the indexing pipeline for one document.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, data []byte) (*ingest.Result, error)
}

// Searcher executes a balanced multi-collection query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]storage.SearchResult, error)
}

// Registry lists and deletes indexed documents.
type Registry interface {
	List(ctx context.Context) ([]registry.Document, error)
	Delete(ctx context.Context, id string) error
}

// Answerer produces a grounded answer from context and query.
type Answerer interface {
	Answer(ctx context.Context, contextStr, query string) (string, error)
}

// Server holds the handler dependencies. All of them are process-wide
// singletons constructed once at the composition root.
type Server struct {
	health   HealthChecker
	pipeline Ingestor
	searcher Searcher
	registry Registry
	answerer Answerer
	prefix   string
	logger   *slog.Logger
}

// NewServer creates the API server. answerer may be nil when no
// completion backend is configured; /ask then responds 503.
func NewServer(
	health HealthChecker,
	pipeline Ingestor,
	searcher Searcher,
	reg Registry,
	answerer Answerer,
	prefix string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		health:   health,
		pipeline: pipeline,
		searcher: searcher,
		registry: reg,
		answerer: answerer,
		prefix:   prefix,
		logger:   logger,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.health.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "qdrant_connected": true})
}

// handleUpload accepts one PDF, responds immediately and indexes in
// the background. Completion is observed by polling GET /documents;
// there is no callback.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are allowed"})
		return
	}

	if err := s.health.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	docID := storage.CollectionName(s.prefix, file.Filename)
	filename := file.Filename

	// Fire and forget: the request context dies with the response, so
	// the background ingestion runs on its own context.
	go func() {
		if _, err := s.pipeline.Ingest(context.Background(), filename, data); err != nil {
			s.logger.Error("background ingestion failed",
				"filename", filename, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message":     "PDF uploaded successfully",
		"document_id": docID,
		"filename":    filename,
		"status":      "processing",
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if err := s.health.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	results, err := s.searcher.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}
	if s.answerer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no completion backend configured"})
		return
	}

	if err := s.health.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	results, err := s.searcher.Search(c.Request.Context(), req.Question, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"answer":  "No documents have been uploaded yet or no relevant information found.",
			"sources": []storage.SearchResult{},
		})
		return
	}

	answer, err := s.answerer.Answer(c.Request.Context(), retrieval.BuildContext(results), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer, "sources": results})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	id := c.Param("id")
	if err := s.registry.Delete(c.Request.Context(), id); err != nil {
		// An unreachable store is not the caller's fault.
		if errors.Is(err, storage.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document " + id + " deleted successfully"})
}
