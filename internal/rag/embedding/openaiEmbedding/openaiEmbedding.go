// Package openaiEmbedding talks to any OpenAI compatible /v1/embeddings
// endpoint: OpenAI itself, HuggingFace TEI or Ollama.
package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	openai "github.com/sashabaranov/go-openai"
)

var logger = logger_i.NewLogger("openai_embedding")

type client struct {
	api   *openai.Client
	model string
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func New(cfg Config) (embedding.Embedder, error) {
	if cfg.Model == "" {
		return nil, errors.New("embedding model is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}
	logger.Info("OpenAI embedding client created", "model", cfg.Model, "baseURL", clientConfig.BaseURL)
	return &client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: cfg.Model,
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			return nil, embedding.ErrEmptyText
		}
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: chunks,
	})
	if err != nil {
		logger.FromContext(ctx).Error("Error getting embeddings", "error", err)
		return nil, fmt.Errorf("embeddings api: %w", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, fmt.Errorf("embeddings api returned %d vectors for %d inputs", len(resp.Data), len(chunks))
	}

	// the api may answer out of order
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		v := make([]float32, len(d.Embedding))
		for j, x := range d.Embedding {
			v[j] = float32(x)
		}
		out[i] = embedding.Normalize(v)
	}
	return out, nil
}
