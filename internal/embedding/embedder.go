// Package embedding provides query and catalog text embedding via an
// external OpenAI-compatible provider, with caching.
package embedding

import (
	"context"
	"errors"
)

// ErrProvider marks failures of the external embedding call. It is a
// distinct, retryable failure kind: callers must never confuse it with an
// empty result set.
var ErrProvider = errors.New("embedding provider failure")

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
