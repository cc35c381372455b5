package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings API. The call is an
// opaque remote operation that may fail or time out; failures are wrapped
// in ErrProvider and carry no side effects on other requests.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	dimensions int
}

// OpenAIConfig configures the provider endpoint.
type OpenAIConfig struct {
	BaseURL    string
	Token      string
	Model      string
	Dimensions int
}

// NewOpenAIEmbedder creates a provider-backed embedder. Token may be "none"
// for local OpenAI-compatible services without authentication.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	opts := []openai.Option{
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	token := cfg.Token
	if token == "" {
		token = "none"
	}
	opts = append(opts, openai.WithToken(token))

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &OpenAIEmbedder{embedder: embedder, dimensions: cfg.Dimensions}, nil
}

// Embed returns the embedding vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrProvider)
	}
	return vecs[0], nil
}

// EmbedBatch returns embeddings for texts, in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrProvider, len(vecs), len(texts))
	}
	return vecs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
