package docdex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docdex/docdex/internal/domain"
)

func TestClient_UpsertQueryRoundTrip(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	created, err := c.Upsert(ctx, "doc1", "the cat sat")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if _, err := c.Upsert(ctx, "doc2", "the dog sat"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := c.Query(ctx, "cat", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "doc1" {
		t.Fatalf("expected doc1, got %+v", hits)
	}
}

func TestClient_ValidationErrors(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Upsert(ctx, "", "text"); !errors.Is(err, domain.ErrEmptyDocumentID) {
		t.Errorf("empty id: got %v", err)
	}
	if _, err := c.Upsert(ctx, "id", ""); !errors.Is(err, domain.ErrEmptyDocumentText) {
		t.Errorf("empty text: got %v", err)
	}
}

func TestClient_PersistenceAcrossClients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	c1, err := New(WithDataPath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c1.Upsert(ctx, "doc1", "persisted text"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	c2, err := New(WithDataPath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stats := c2.Stats(ctx)
	if stats.Documents != 1 {
		t.Fatalf("expected 1 document after reload, got %d", stats.Documents)
	}
	if stats.DataPath != path {
		t.Errorf("expected data path %q, got %q", path, stats.DataPath)
	}
}

func TestClient_EmbedProperties(t *testing.T) {
	c, err := New(WithDimensions(256))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	a, err := c.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := c.Embed(ctx, "world hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("token order must not affect the embedding")
		}
	}

	zero, err := c.Embed(ctx, "")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(zero) != 256 {
		t.Fatalf("expected 256 dims, got %d", len(zero))
	}
	for _, x := range zero {
		if x != 0 {
			t.Fatal("empty text must embed to the zero vector")
		}
	}

	var sum float64
	for _, x := range a {
		sum += float64(x) * float64(x)
	}
	if norm := math.Sqrt(sum); math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("non-empty embedding norm = %v, want 1.0", norm)
	}
}

func TestClient_InvalidDimensions(t *testing.T) {
	if _, err := New(WithDimensions(300)); !errors.Is(err, domain.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestClient_BatchEmbed(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vs, err := c.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("batch embed: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vs))
	}
}

func TestClient_ConcurrentUpsertsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	c, err := New(WithDataPath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Save serializes against in-flight upserts through the service lock;
	// the race detector keeps this honest.
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := c.Upsert(ctx, fmt.Sprintf("doc%d", i), fmt.Sprintf("document number %d", i)); err != nil {
				t.Errorf("upsert %d: %v", i, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if err := c.Save(); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	if err := c.Save(); err != nil {
		t.Fatalf("final save: %v", err)
	}

	reloaded, err := New(WithDataPath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := reloaded.Stats(ctx).Documents; got != n {
		t.Fatalf("expected %d documents after reload, got %d", n, got)
	}
}

func TestClient_WithMetricsRegistersCollectors(t *testing.T) {
	// Construction registers the collectors; a second instrumented client
	// must not panic on duplicate registration.
	for i := 0; i < 2; i++ {
		c, err := New(WithMetrics())
		if err != nil {
			t.Fatalf("New #%d: %v", i, err)
		}
		if _, err := c.Upsert(context.Background(), "doc1", "text"); err != nil {
			t.Fatalf("upsert #%d: %v", i, err)
		}
	}
}

func TestClient_SaveMemoryOnlyIsNoOp(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
}
