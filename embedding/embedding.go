// Package embedding converts chunk texts to float32 vectors through any
// OpenAI-compatible embedding server (vLLM, Ollama, ONNX runtime servers, or
// OpenAI itself).
//
// The pipeline only depends on the Embedder interface; the zero-configuration
// fallback is a no-op embedder so chunking works without a server.
//
// Usage:
//
//	emb := embedding.New(embedding.Config{
//	    Endpoint: "http://localhost:8003",
//	    Model:    "multilingual-e5-large",
//	})
//	vecs, err := emb.EmbedBatch(ctx, chunkTexts)
package embedding

import (
	"context"
	"log/slog"
	"time"
)

// Embedder converts texts to vectors.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimension, or 0 before the first call
	// when auto-detection is configured.
	Dimension() int

	// Model returns the model name requests are issued for.
	Model() string
}

// Config configures the embedding client.
type Config struct {
	// Endpoint is the base URL of the embedding server. Empty selects the
	// no-op embedder.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Model is the model name sent with each request.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Dimension is the expected vector dimension. 0 auto-detects on first call.
	Dimension int `json:"dimension,omitempty" yaml:"dimension,omitempty"`

	// BatchSize caps the number of texts per HTTP request. Default 32.
	BatchSize int `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`

	// Timeout per HTTP request. Default 30s.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Logger for debug/error messages. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates an Embedder from config. An empty endpoint yields a no-op
// embedder producing zero vectors of the configured dimension.
func New(cfg Config) Embedder {
	cfg.defaults()
	if cfg.Endpoint == "" {
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 768
		}
		return &noopEmbedder{dim: dim, model: cfg.Model}
	}
	return newHTTPClient(cfg)
}

type noopEmbedder struct {
	dim   int
	model string
}

func (n *noopEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, n.dim)
	}
	return out, nil
}

func (n *noopEmbedder) Dimension() int { return n.dim }
func (n *noopEmbedder) Model() string  { return n.model }
