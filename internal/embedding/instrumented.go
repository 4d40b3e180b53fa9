package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docdex/docdex/internal/domain"
	"github.com/docdex/docdex/internal/metrics"
)

// Instrumented decorates an Embedder with Prometheus metrics and debug logging.
type Instrumented struct {
	inner  domain.Embedder
	logger *zap.Logger
}

// NewInstrumented wraps inner with observability.
func NewInstrumented(inner domain.Embedder, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, logger: logger}
}

// Embed delegates to the inner embedder and records duration.
func (e *Instrumented) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	v, err := e.inner.Embed(ctx, text)
	if err != nil {
		metrics.EmbedRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed: %w", err)
	}

	elapsed := time.Since(start)
	metrics.EmbedRequestsTotal.WithLabelValues("ok").Inc()
	metrics.EmbedDuration.Observe(elapsed.Seconds())

	e.logger.Debug("text embedded",
		zap.Int("text_len", len(text)),
		zap.Int("dimensions", len(v)),
		zap.Duration("elapsed", elapsed),
	)
	return v, nil
}

// BatchEmbed delegates batch calls, falling back to per-text Embed when the
// inner embedder has no native batch path.
func (e *Instrumented) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if be, ok := e.inner.(domain.BatchEmbedder); ok {
		start := time.Now()
		vs, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			metrics.EmbedRequestsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("batch embed: %w", err)
		}
		metrics.EmbedRequestsTotal.WithLabelValues("ok").Inc()
		metrics.EmbedDuration.Observe(time.Since(start).Seconds())
		return vs, nil
	}
	return domain.BatchFallback(ctx, e, texts)
}

var (
	_ domain.Embedder      = (*Instrumented)(nil)
	_ domain.BatchEmbedder = (*Instrumented)(nil)
)
