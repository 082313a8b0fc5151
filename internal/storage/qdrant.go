// Package storage wraps the Qdrant vector index. It is the sole owner
// of persisted chunks and embeddings; the rest of the pipeline holds
// no copy once an upsert succeeds.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// upsertBatchSize caps points per upsert request.
const upsertBatchSize = 100

// Client wraps the Qdrant gRPC client with connection management,
// health checks and dimension validation.
type Client struct {
	client    *qdrant.Client
	host      string
	port      int
	dimension int
}

// NewClient connects to Qdrant and validates reachability with
// exponential backoff, failing fast if the store stays unreachable.
// dimension is the vector length every collection is created with and
// every upsert and search is validated against.
func NewClient(host string, port, dimension int) (*Client, error) {
	grpcClient, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	c := &Client{
		client:    grpcClient,
		host:      host,
		port:      port,
		dimension: dimension,
	}

	if err := c.healthCheckWithRetry(context.Background()); err != nil {
		grpcClient.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return c, nil
}

// healthCheckWithRetry probes the store with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (c *Client) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return c.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single reachability probe. Callers gate ingestion
// and query on this: nothing proceeds against an unreachable store.
func (c *Client) Health(ctx context.Context) error {
	result, err := c.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("%w: invalid health response", ErrStoreUnavailable)
	}
	return nil
}

// Dimension reports the vector length this client validates against.
func (c *Client) Dimension() int { return c.dimension }

// EnsureCollection creates the collection with cosine distance if it
// does not exist. Idempotent: an existing collection with the same
// vector size is a no-op, while a conflicting vector size fails with
// ErrCollectionCreateFailed and leaves the original untouched.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimension int) error {
	exists, err := c.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if exists {
		info, err := c.client.GetCollectionInfo(ctx, name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
		if params != nil && params.GetSize() != uint64(dimension) {
			return fmt.Errorf("%w: collection %q has vector size %d, requested %d",
				ErrCollectionCreateFailed, name, params.GetSize(), dimension)
		}
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCollectionCreateFailed, err)
	}
	return nil
}

// PointID derives a stable point id from the document id and chunk
// index, so retried upserts overwrite instead of duplicating.
func PointID(documentID string, chunkIndex int) string {
	key := fmt.Sprintf("%s_%d", documentID, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// UpsertChunks stores chunks in the given collection, batched in
// groups of 100 with wait enabled so points are visible once the call
// returns. Every embedding is validated against the configured
// dimension before anything is written.
func (c *Client) UpsertChunks(ctx context.Context, collection string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) != c.dimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(chunk.Embedding), c.dimension)
		}
	}

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(chunks))
		batch := chunks[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, chunk := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(PointID(chunk.DocumentID, chunk.ChunkIndex)),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"document_id":  chunk.DocumentID,
					"filename":     chunk.Filename,
					"chunk_index":  chunk.ChunkIndex,
					"total_chunks": chunk.TotalChunks,
					"text":         chunk.Text,
				}),
			}
		}

		if err := c.upsertWithRetry(ctx, collection, points); err != nil {
			return fmt.Errorf("%w: batch %d-%d: %v", ErrUpsertFailed, i, end, err)
		}
	}

	return nil
}

// upsertWithRetry performs one upsert request with exponential backoff.
func (c *Client) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// Search returns up to limit hits from one collection, ordered by
// descending similarity score. An empty result is valid and distinct
// from failure.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchResult, error) {
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), c.dimension)
	}

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %v", ErrSearchFailed, collection, err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			Score:       point.Score,
			DocumentID:  payload["document_id"].GetStringValue(),
			Filename:    payload["filename"].GetStringValue(),
			ChunkIndex:  int(payload["chunk_index"].GetIntegerValue()),
			TotalChunks: int(payload["total_chunks"].GetIntegerValue()),
			Text:        payload["text"].GetStringValue(),
		})
	}

	return results, nil
}

// ListCollections returns the names of all collections starting with
// prefix. Connection errors propagate as ErrStoreUnavailable, never as
// an empty list.
func (c *Client) ListCollections(ctx context.Context, prefix string) ([]string, error) {
	names, err := c.client.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var matched []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// DeleteCollection removes a collection and all its points. Deleting a
// collection that does not exist is not an error.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	exists, err := c.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		return nil
	}
	if err := c.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrStoreUnavailable, name, err)
	}
	return nil
}

// CountPoints reports how many points a collection currently holds.
// Used to observe ingestion progress against TotalChunks.
func (c *Client) CountPoints(ctx context.Context, collection string) (uint64, error) {
	info, err := c.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return info.GetPointsCount(), nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
