// Package index mediates concurrent access to one document store and
// exposes upsert, query, and embed as atomic operations.
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docdex/docdex/internal/domain"
	"github.com/docdex/docdex/internal/metrics"
)

// DefaultTopK is the result count used when a query asks for k <= 0.
const DefaultTopK = 5

// Service wraps a Repository behind a reader-writer lock: any number of
// queries proceed together, an upsert excludes everything else until its
// mutation and best-effort save complete. Embed-only calls touch no shared
// state and take no lock.
type Service struct {
	mu          sync.RWMutex
	repo        Repository
	embedder    domain.Embedder
	dims        int
	defaultTopK int
	logger      *zap.Logger
}

// New creates an index service.
func New(repo Repository, embedder domain.Embedder, dims int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		embedder:    embedder,
		dims:        dims,
		defaultTopK: DefaultTopK,
		logger:      logger,
	}
}

// WithDefaultTopK configures the k used for non-positive query limits.
func (s *Service) WithDefaultTopK(k int) *Service {
	if k > 0 {
		s.defaultTopK = k
	}
	return s
}

// Upsert validates the document, vectorizes its text, and inserts or
// replaces it in the store. Returns true if the document was created,
// false if updated. Validation failures leave the store untouched.
//
// The embedding is computed before the write lock is taken; it is a pure
// function of the text, so the lock only covers mutate plus save.
func (s *Service) Upsert(ctx context.Context, id, text string) (bool, error) {
	if id == "" {
		metrics.IndexUpsertsTotal.WithLabelValues("rejected").Inc()
		return false, domain.ErrEmptyDocumentID
	}
	if text == "" {
		metrics.IndexUpsertsTotal.WithLabelValues("rejected").Inc()
		return false, domain.ErrEmptyDocumentText
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		metrics.IndexUpsertsTotal.WithLabelValues("rejected").Inc()
		return false, fmt.Errorf("vectorize document: %w", err)
	}

	s.mu.Lock()
	created := s.repo.Upsert(domain.Document{ID: id, Text: text, Vector: vector})
	docs := s.repo.Len()
	s.mu.Unlock()

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.IndexUpsertsTotal.WithLabelValues(outcome).Inc()
	metrics.IndexDocuments.Set(float64(docs))

	s.logger.Info("document upserted",
		zap.String("id", id),
		zap.Bool("created", created),
		zap.Int("documents", docs),
	)
	return created, nil
}

// Query embeds the query text and returns the top-k hits by cosine
// similarity, best first. Non-positive k is clamped to the default.
// An empty store yields an empty result, not an error.
func (s *Service) Query(ctx context.Context, text string, k int) ([]domain.Hit, error) {
	if k <= 0 {
		k = s.defaultTopK
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	start := time.Now()
	s.mu.RLock()
	hits := s.repo.TopK(vector, k)
	s.mu.RUnlock()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	if hits == nil {
		hits = []domain.Hit{}
	}
	return hits, nil
}

// Embed vectorizes text without touching the store. Fully concurrent with
// all other operations.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return v, nil
}

// BatchEmbed vectorizes multiple texts without touching the store.
func (s *Service) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		vs, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("batch embed: %w", err)
		}
		return vs, nil
	}
	vs, err := domain.BatchFallback(ctx, s.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}
	return vs, nil
}

// Save forces a snapshot write. It takes the write lock so the file write
// cannot interleave with an in-flight upsert's own save.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Save(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Stats reports the current index state.
func (s *Service) Stats(context.Context) domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		Documents:  s.repo.Len(),
		Dimensions: s.dims,
		DataPath:   s.repo.Path(),
	}
}
