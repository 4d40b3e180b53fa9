package index

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docdex/docdex/internal/domain"
	"github.com/docdex/docdex/internal/embedding"
	"github.com/docdex/docdex/internal/store"
)

func newService(t *testing.T, path string) *Service {
	t.Helper()
	emb, err := embedding.NewHashBOW(256)
	if err != nil {
		t.Fatalf("NewHashBOW: %v", err)
	}
	return New(store.Load(path, nil), emb, emb.Dimensions(), nil)
}

func TestUpsert_ValidationRejects(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "", "text"); !errors.Is(err, domain.ErrEmptyDocumentID) {
		t.Errorf("empty id: got %v, want ErrEmptyDocumentID", err)
	}
	if _, err := svc.Upsert(ctx, "doc1", ""); !errors.Is(err, domain.ErrEmptyDocumentText) {
		t.Errorf("empty text: got %v, want ErrEmptyDocumentText", err)
	}

	// Rejected upserts leave the store untouched.
	if stats := svc.Stats(ctx); stats.Documents != 0 {
		t.Errorf("expected empty store after rejections, got %d documents", stats.Documents)
	}
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	created, err := svc.Upsert(ctx, "doc1", "the cat sat")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}

	created, err = svc.Upsert(ctx, "doc1", "the cat stood")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created {
		t.Error("expected created=false on update")
	}
	if stats := svc.Stats(ctx); stats.Documents != 1 {
		t.Errorf("expected 1 document, got %d", stats.Documents)
	}
}

func TestQuery_RanksAndLimits(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	mustUpsert(t, svc, "doc1", "the cat sat")
	mustUpsert(t, svc, "doc2", "the dog sat")

	hits, err := svc.Query(ctx, "cat", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].ID != "doc1" {
		t.Errorf("expected doc1, got %s", hits[0].ID)
	}

	all, err := svc.Query(ctx, "cat", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(all))
	}
	if all[0].Score < all[1].Score {
		t.Error("hits not in descending score order")
	}
	if all[0].ID != "doc1" {
		t.Errorf("expected doc1 to outscore doc2 for \"cat\", got %s first", all[0].ID)
	}
}

func TestQuery_ClampsNonPositiveK(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		mustUpsert(t, svc, fmt.Sprintf("doc%d", i), fmt.Sprintf("text number %d", i))
	}

	for _, k := range []int{0, -3} {
		hits, err := svc.Query(ctx, "text", k)
		if err != nil {
			t.Fatalf("query k=%d: %v", k, err)
		}
		if len(hits) != DefaultTopK {
			t.Errorf("k=%d: expected default %d hits, got %d", k, DefaultTopK, len(hits))
		}
	}
}

func TestQuery_EmptyStoreReturnsEmptyList(t *testing.T) {
	svc := newService(t, "")
	hits, err := svc.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if hits == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestEmbed_NoStoreAccess(t *testing.T) {
	svc := newService(t, "")
	v, err := svc.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(v) != 256 {
		t.Fatalf("expected 256 dims, got %d", len(v))
	}
}

func TestBatchEmbed(t *testing.T) {
	svc := newService(t, "")
	vs, err := svc.BatchEmbed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("batch embed: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vs))
	}
}

func TestUpsert_PersistsThroughRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	svc := newService(t, path)
	mustUpsert(t, svc, "doc1", "survives restart")

	restarted := newService(t, path)
	hits, err := restarted.Query(ctx, "survives", 1)
	if err != nil {
		t.Fatalf("query after restart: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "doc1" {
		t.Fatalf("expected doc1 after restart, got %+v", hits)
	}
	if hits[0].Text != "survives restart" {
		t.Errorf("unexpected text %q", hits[0].Text)
	}
}

func TestConcurrentUpserts_DistinctIDs(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Upsert(ctx, fmt.Sprintf("doc%d", i), fmt.Sprintf("document number %d", i)); err != nil {
				t.Errorf("upsert %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	hits, err := svc.Query(ctx, "document", n)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != n {
		t.Fatalf("expected %d hits, got %d", n, len(hits))
	}
	seen := make(map[string]bool, n)
	for _, h := range hits {
		if seen[h.ID] {
			t.Fatalf("duplicate id %s in results", h.ID)
		}
		seen[h.ID] = true
	}
}

func TestConcurrentUpserts_SameIDSerialize(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()

	texts := []string{"writer one content", "writer two content", "writer three content"}
	var wg sync.WaitGroup
	for _, text := range texts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			if _, err := svc.Upsert(ctx, "contested", text); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(text)
	}
	wg.Wait()

	hits, err := svc.Query(ctx, "content", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected exactly 1 document, got %d", len(hits))
	}
	// The final text must be one writer's value, never an interleaving.
	found := false
	for _, text := range texts {
		if hits[0].Text == text {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("final text %q is not any writer's value", hits[0].Text)
	}
}

func TestSave_SerializesWithUpserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	svc := newService(t, path)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Upsert(ctx, fmt.Sprintf("doc%d", i), "snapshot race content"); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if err := svc.Save(); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	if err := svc.Save(); err != nil {
		t.Fatalf("final save: %v", err)
	}
	restarted := newService(t, path)
	if got := restarted.Stats(ctx).Documents; got != n {
		t.Fatalf("expected %d documents after reload, got %d", n, got)
	}
}

func TestConcurrentQueriesAndUpserts(t *testing.T) {
	svc := newService(t, "")
	ctx := context.Background()
	mustUpsert(t, svc, "seed", "seed document")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Upsert(ctx, fmt.Sprintf("doc%d", i), "some document text"); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := svc.Query(ctx, "document", 5); err != nil {
				t.Errorf("query: %v", err)
			}
		}()
	}
	wg.Wait()
}

func mustUpsert(t *testing.T, svc *Service, id, text string) {
	t.Helper()
	if _, err := svc.Upsert(context.Background(), id, text); err != nil {
		t.Fatalf("upsert %s: %v", id, err)
	}
}
