package rag_test

import (
	"context"
	"sort"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
)

// MockIndex implements vectorDB.Index with a brute force scan.
type MockIndex struct {
	chunks  []commonModels.DocChunk
	vectors [][]float32
	Dropped bool

	OnAdd   func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnQuery func(ctx context.Context, vector []float32, fetchK int) ([]vectorDB.Candidate, error)
}

func (m *MockIndex) Add(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnAdd != nil {
		return m.OnAdd(ctx, chunks, vectors)
	}
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *MockIndex) Query(ctx context.Context, vector []float32, fetchK int) ([]vectorDB.Candidate, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, fetchK)
	}
	out := make([]vectorDB.Candidate, len(m.chunks))
	for i := range m.chunks {
		var dot float32
		for j := range vector {
			dot += vector[j] * m.vectors[i][j]
		}
		out[i] = vectorDB.Candidate{Chunk: m.chunks[i], Vector: m.vectors[i], Score: dot}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out[:min(fetchK, len(out))], nil
}

func (m *MockIndex) Count() int { return len(m.chunks) }

func (m *MockIndex) Drop(ctx context.Context) error {
	m.Dropped = true
	return nil
}

// MockFactory hands out MockIndex values and remembers the last one.
type MockFactory struct {
	Last      *MockIndex
	OnNew     func(ctx context.Context, name string, dim int) (vectorDB.Index, error)
	Dimension int
}

func (f *MockFactory) NewIndex(ctx context.Context, name string, dim int) (vectorDB.Index, error) {
	f.Dimension = dim
	if f.OnNew != nil {
		return f.OnNew(ctx, name, dim)
	}
	f.Last = &MockIndex{}
	return f.Last, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{1, 0}, nil
}

// MockLLM implements llm.Provider and records every prompt it was given.
type MockLLM struct {
	Calls      [][]chatModel.Turn
	OnGenerate func(ctx context.Context, messages []chatModel.Turn) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, messages []chatModel.Turn) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, messages)
	}
	return "mocked llm response", nil
}
