// Package store holds the authoritative in-memory document collection with
// best-effort snapshot persistence.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/docdex/docdex/internal/domain"
	"github.com/docdex/docdex/internal/metrics"
)

// Store owns the full set of documents. Documents keep insertion order so
// that equal-score query results stay deterministic across runs.
//
// Store performs no locking of its own; the index service serializes access.
type Store struct {
	docs   []domain.Document
	byID   map[string]int
	path   string // empty = memory-only, changes are lost on restart
	logger *zap.Logger
}

// Load opens a store bound to path. A missing or unparseable snapshot yields
// an empty store bound to that path for future saves; it never fails the
// caller. An empty path yields an unbound, memory-only store.
func Load(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{byID: make(map[string]int), path: path, logger: logger}
	if path == "" {
		return s
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read snapshot, starting empty", zap.String("path", path), zap.Error(err))
		}
		return s
	}

	records, err := decodeSnapshot(data)
	if err != nil {
		logger.Warn("failed to parse snapshot, starting empty", zap.String("path", path), zap.Error(err))
		return s
	}

	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		s.put(domain.Document{ID: rec.ID, Text: rec.Text, Vector: rec.Emb})
	}
	logger.Info("snapshot loaded", zap.String("path", path), zap.Int("documents", len(s.docs)))
	return s
}

// Upsert inserts or replaces the document with doc.ID and attempts a
// best-effort save. Returns true if the document was created, false if
// replaced. The replace is a single slot assignment: no reader that runs
// after Upsert returns can observe a half-updated document.
func (s *Store) Upsert(doc domain.Document) bool {
	created := s.put(doc)
	s.trySave()
	return created
}

func (s *Store) put(doc domain.Document) bool {
	if i, ok := s.byID[doc.ID]; ok {
		s.docs[i] = doc
		return false
	}
	s.byID[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc)
	return true
}

// TopK scores every document against query by dot product and returns the k
// best hits in descending score order. Ties keep insertion order (stable
// sort). k <= 0 returns nil.
//
// This is a full linear scan, the correctness oracle for this index; at the
// intended scale it beats maintaining an approximate structure.
func (s *Store) TopK(query []float32, k int) []domain.Hit {
	if k <= 0 || len(s.docs) == 0 {
		return nil
	}

	hits := make([]domain.Hit, len(s.docs))
	for i, doc := range s.docs {
		hits[i] = domain.Hit{ID: doc.ID, Text: doc.Text, Score: domain.Dot(query, doc.Vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (domain.Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Document{}, false
	}
	return s.docs[i], true
}

// Len returns the number of stored documents.
func (s *Store) Len() int { return len(s.docs) }

// Path returns the bound snapshot location, empty for memory-only stores.
func (s *Store) Path() string { return s.path }

// Save serializes all documents to the bound path, creating parent
// directories as needed. Plain overwrite: the last successful write wins.
// No-op for unbound stores.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	data, err := encodeSnapshot(s.docs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// trySave is the best-effort durability step after a mutation. The in-memory
// collection stays the source of truth for the running process, so a failed
// save is logged and swallowed, never surfaced to the caller.
func (s *Store) trySave() {
	if s.path == "" {
		return
	}
	if err := s.Save(); err != nil {
		metrics.SnapshotSavesTotal.WithLabelValues("error").Inc()
		s.logger.Warn("snapshot save failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	metrics.SnapshotSavesTotal.WithLabelValues("ok").Inc()
}
