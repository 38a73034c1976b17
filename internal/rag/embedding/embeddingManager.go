package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/akolanti/ChatPDF/internal/config"
)

// Embedder turns text into L2-normalized vectors of a fixed width.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

var ErrEmptyText = errors.New("cannot embed empty text")

// Normalize scales v to unit length in place. Zero vectors are left alone.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// EmbedAll calls the embedder in batches of config.EmbedBatch and checks that
// every text came back with a vector.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += config.EmbedBatch {
		end := min(i+config.EmbedBatch, len(texts))

		vectors, err := e.BatchEmbedding(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(vectors) != end-i {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(vectors), end-i)
		}
		for j, v := range vectors {
			if len(v) == 0 {
				return nil, fmt.Errorf("embedding missing for text %d", i+j)
			}
		}
		out = append(out, vectors...)
	}
	return out, nil
}
