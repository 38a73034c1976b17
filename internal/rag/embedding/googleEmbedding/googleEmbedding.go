package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("google_embedding")
var once sync.Once
var embeddingClient *client
var initErr error
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi      *genai.Client
	model      string
	retryDelay time.Duration
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		initErr = err
		return
	}
	embeddingClient = &client{
		genAi:      c,
		model:      modelName,
		retryDelay: config.EmbeddingRetryDelay,
	}
	logger.Info("Google Embedding client created", "model", modelName)
}

// GetGoogleEmbeddingClient returns the process wide client, created on first use.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	once.Do(func() {
		if modelName == "" {
			modelName = config.GoogleEmbeddingModel
		}
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		if initErr == nil {
			initErr = errors.New("google embedding client unavailable")
		}
		return nil, initErr
	}
	return embeddingClient, nil
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// doRetry reports a quota error. The Gemini API answers over REST, so
// exhaustion arrives as an APIError with status 429.
func doRetry(err error, log *logger_i.Logger) bool {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return false
	}
	if apiErr.Code != http.StatusTooManyRequests {
		return false
	}
	log.Error("Rate limit hit", "error", err)
	return true
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query),
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_QUERY"})
	if err != nil {
		logger.FromContext(ctx).Error("Error getting query embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("google embedding returned no vectors")
	}
	return embedding.Normalize(result.Embeddings[0].Values), nil
}

// BatchEmbedding retries once after a pause when the quota is exhausted.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.FromContext(ctx).With("batch", len(chunks))

	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil && doRetry(err, log) {
		log.Debug("Retrying after delay", "delay", c.retryDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
		res, err = c.doCall(ctx, getContent(chunks))
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, fmt.Errorf("google embeddings: %w", err)
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, embedding.Normalize(r.Values))
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}
