// Package embedding implements deterministic local text vectorization.
package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/docdex/docdex/internal/domain"
)

// DefaultDimensions is the embedding width used when none is configured.
const DefaultDimensions = 256

// normEpsilon is the lower clamp for the L2 norm before division.
const normEpsilon = 1e-6

// HashBOW is a hashed bag-of-words embedder. Each whitespace token is
// FNV-1a hashed into one of dims buckets; the bucket histogram is then
// L2-normalized. It is a pure function of the input text: no vocabulary,
// no model state, identical output across processes.
//
// Token order is irrelevant and hash collisions between distinct tokens
// are accepted.
type HashBOW struct {
	dims int
	mask uint64
}

// NewHashBOW creates an embedder producing vectors of the given width.
// dims must be a positive power of two so bucket assignment stays a
// single bitmask over the token hash.
func NewHashBOW(dims int) (*HashBOW, error) {
	if dims <= 0 || dims&(dims-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidDimensions, dims)
	}
	return &HashBOW{dims: dims, mask: uint64(dims - 1)}, nil
}

// Dimensions returns the embedding width.
func (e *HashBOW) Dimensions() int { return e.dims }

// Embed vectorizes text. The error return satisfies domain.Embedder and is
// always nil. Empty text yields the zero vector.
func (e *HashBOW) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dims)
	for _, tok := range strings.Fields(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		v[h.Sum64()&e.mask]++
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Max(math.Sqrt(sum), normEpsilon)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v, nil
}

// BatchEmbed vectorizes each text independently.
func (e *HashBOW) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	return domain.BatchFallback(ctx, e, texts)
}

var (
	_ domain.Embedder      = (*HashBOW)(nil)
	_ domain.BatchEmbedder = (*HashBOW)(nil)
)
