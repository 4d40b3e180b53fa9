package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder vectorizes multiple texts in one call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// BatchFallback calls Embed once per text. Safety net for embedders
// without a native batch path.
func BatchFallback(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dot returns the dot product of two vectors. For L2-normalized inputs this
// is their cosine similarity. Extra components on the longer vector are
// ignored so that snapshots written with a different dimension still score.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
