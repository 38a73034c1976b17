package vectorDB

import (
	"context"
	"fmt"

	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
)

// Build embeds every chunk and loads them into a fresh index from factory.
// A failed build drops the half filled collection.
func Build(ctx context.Context, factory Factory, embedder embedding.Embedder, name string, chunks []commonModels.DocChunk) (Index, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyIndex
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk
	}
	vectors, err := embedding.EmbedAll(ctx, embedder, texts)
	if err != nil {
		return nil, err
	}

	idx, err := factory.NewIndex(ctx, name, len(vectors[0]))
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", name, err)
	}
	if err := idx.Add(ctx, chunks, vectors); err != nil {
		_ = idx.Drop(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("fill index %s: %w", name, err)
	}
	return idx, nil
}

// SearchMMR pulls fetchK neighbours (clamped to the index size) and keeps the
// k that balance relevance against redundancy.
func SearchMMR(ctx context.Context, idx Index, query []float32, k, fetchK int, lambda float32) ([]commonModels.DocChunk, error) {
	fetchK = min(fetchK, idx.Count())
	if fetchK <= 0 || k <= 0 {
		return []commonModels.DocChunk{}, nil
	}

	candidates, err := idx.Query(ctx, query, fetchK)
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Vector
	}

	order := MaxMarginalRelevance(query, vectors, k, lambda)
	out := make([]commonModels.DocChunk, 0, len(order))
	for _, i := range order {
		out = append(out, candidates[i].Chunk)
	}
	return out, nil
}
