package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
)

// Retriever answers similarity queries over one built index with MMR
// re-ranking (k=2 out of fetch_k=4, lambda 0.5).
type Retriever struct {
	index    vectorDB.Index
	embedder embedding.Embedder
	k        int
	fetchK   int
	lambda   float32
}

func NewRetriever(index vectorDB.Index, embedder embedding.Embedder) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
		k:        config.RetrieverK,
		fetchK:   config.RetrieverFetchK,
		lambda:   config.MMRLambda,
	}
}

func (r *Retriever) Search(ctx context.Context, query string) ([]commonModels.DocChunk, error) {
	start := time.Now()
	vector, err := r.embedder.GetEmbedding(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	start = time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()
	docs, err := vectorDB.SearchMMR(ctx, r.index, vector, r.k, r.fetchK, r.lambda)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return docs, nil
}

func (r *Retriever) Count() int {
	return r.index.Count()
}

// Close drops the backing collection.
func (r *Retriever) Close(ctx context.Context) error {
	return r.index.Drop(ctx)
}
