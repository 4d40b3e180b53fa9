package docdex

import "go.uber.org/zap"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	dataPath     string
	dimensions   int
	defaultTopK  int
	logger       *zap.Logger
	instrumented bool
}

// WithDataPath binds the index to a snapshot file. The file is loaded on
// creation (missing or corrupt snapshots yield an empty index) and rewritten
// best-effort after every upsert.
func WithDataPath(path string) Option {
	return func(c *clientConfig) {
		c.dataPath = path
	}
}

// WithDimensions sets the embedding width. Must be a power of two.
// Default is 256.
func WithDimensions(dims int) Option {
	return func(c *clientConfig) {
		c.dimensions = dims
	}
}

// WithDefaultTopK sets the result count used when Query is called with k <= 0.
func WithDefaultTopK(k int) Option {
	return func(c *clientConfig) {
		c.defaultTopK = k
	}
}

// WithLogger attaches a zap logger. Default is no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics wraps the embedder with Prometheus instrumentation and
// registers the index collectors with the default registry. Registration is
// idempotent, so multiple instrumented clients in one process are fine.
func WithMetrics() Option {
	return func(c *clientConfig) {
		c.instrumented = true
	}
}
