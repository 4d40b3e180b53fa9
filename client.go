// Package docdex is an embeddable local document index: deterministic hashed
// bag-of-words embeddings, an in-memory vector store with best-effort JSON
// snapshot persistence, and top-k cosine similarity queries, all safe for
// concurrent use.
package docdex

import (
	"context"
	"fmt"

	"github.com/docdex/docdex/internal/domain"
	"github.com/docdex/docdex/internal/embedding"
	"github.com/docdex/docdex/internal/metrics"
	"github.com/docdex/docdex/internal/store"
	indexuc "github.com/docdex/docdex/internal/usecase/index"
)

// Hit is a single query result.
type Hit struct {
	ID    string
	Text  string
	Score float64
}

// Stats describes the current state of the index.
type Stats struct {
	Documents  int
	Dimensions int
	DataPath   string
}

// Client is the docdex SDK entry point. All methods are safe for concurrent
// use; upserts serialize against each other while queries run in parallel.
type Client struct {
	index *indexuc.Service
}

// New creates a docdex Client. Without WithDataPath the index is memory-only.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions:  embedding.DefaultDimensions,
		defaultTopK: indexuc.DefaultTopK,
	}
	for _, o := range opts {
		o(cfg)
	}

	hashbow, err := embedding.NewHashBOW(cfg.dimensions)
	if err != nil {
		return nil, fmt.Errorf("docdex: create embedder: %w", err)
	}

	var embedder domain.Embedder = hashbow
	if cfg.instrumented {
		metrics.RegisterIndexMetrics()
		embedder = embedding.NewInstrumented(hashbow, cfg.logger)
	}

	st := store.Load(cfg.dataPath, cfg.logger)
	svc := indexuc.New(st, embedder, hashbow.Dimensions(), cfg.logger).
		WithDefaultTopK(cfg.defaultTopK)

	return &Client{index: svc}, nil
}

// Upsert inserts or replaces a document. Returns true if the document was
// created, false if an existing one was updated.
func (c *Client) Upsert(ctx context.Context, id, text string) (bool, error) {
	created, err := c.index.Upsert(ctx, id, text)
	if err != nil {
		return false, fmt.Errorf("docdex: upsert: %w", err)
	}
	return created, nil
}

// Query returns the top-k documents by cosine similarity, best first.
// Non-positive k falls back to the configured default.
func (c *Client) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	hits, err := c.index.Query(ctx, text, k)
	if err != nil {
		return nil, fmt.Errorf("docdex: query: %w", err)
	}
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{ID: h.ID, Text: h.Text, Score: h.Score}
	}
	return out, nil
}

// Embed vectorizes text without touching the index.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := c.index.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("docdex: embed: %w", err)
	}
	return v, nil
}

// BatchEmbed vectorizes multiple texts without touching the index.
func (c *Client) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	vs, err := c.index.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("docdex: batch embed: %w", err)
	}
	return vs, nil
}

// Stats reports the current index state.
func (c *Client) Stats(ctx context.Context) Stats {
	st := c.index.Stats(ctx)
	return Stats{Documents: st.Documents, Dimensions: st.Dimensions, DataPath: st.DataPath}
}

// Save forces a snapshot write. Normally unnecessary: every upsert already
// attempts a best-effort save. The write goes through the index service's
// lock, so it serializes against in-flight upserts. No-op for memory-only
// clients.
func (c *Client) Save() error {
	if err := c.index.Save(); err != nil {
		return fmt.Errorf("docdex: save: %w", err)
	}
	return nil
}
