// Package chromemDB keeps the index in process memory with chromem-go. It is
// the default backend: one collection per upload set, gone on restart.
package chromemDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/philippgille/chromem-go"
)

var logger = logger_i.NewLogger("chromem")

// vectors always arrive pre-computed
func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("chromem index expects precomputed embeddings")
}

type Factory struct {
	db *chromem.DB
}

func NewFactory() *Factory {
	return &Factory{db: chromem.NewDB()}
}

type index struct {
	db         *chromem.DB
	collection *chromem.Collection

	mu      sync.RWMutex
	vectors map[string][]float32
}

func (f *Factory) NewIndex(ctx context.Context, name string, dimension int) (vectorDB.Index, error) {
	c, err := f.db.CreateCollection(name, map[string]string{"dimension": fmt.Sprint(dimension)}, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	logger.FromContext(ctx).Debug("collection created", "name", name)
	return &index{db: f.db, collection: c, vectors: make(map[string][]float32)}, nil
}

func (i *index) Add(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if err := vectorDB.CheckBatch(chunks, vectors); err != nil {
		return err
	}
	docs := make([]chromem.Document, len(chunks))
	for n, chunk := range chunks {
		docs[n] = chromem.Document{
			ID:        chunk.ChunkId,
			Content:   chunk.Chunk,
			Metadata:  vectorDB.ChunkMetadata(chunk),
			Embedding: vectors[n],
		}
	}
	// inserts stay serial
	if err := i.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	i.mu.Lock()
	for n, chunk := range chunks {
		i.vectors[chunk.ChunkId] = vectors[n]
	}
	i.mu.Unlock()
	return nil
}

func (i *index) Query(ctx context.Context, vector []float32, fetchK int) ([]vectorDB.Candidate, error) {
	fetchK = min(fetchK, i.collection.Count())
	if fetchK <= 0 {
		return []vectorDB.Candidate{}, nil
	}
	results, err := i.collection.QueryEmbedding(ctx, vector, fetchK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]vectorDB.Candidate, 0, len(results))
	for _, r := range results {
		out = append(out, vectorDB.Candidate{
			Chunk:  vectorDB.ChunkFromMetadata(r.ID, r.Content, r.Metadata),
			Vector: i.vectors[r.ID],
			Score:  r.Similarity,
		})
	}
	return out, nil
}

func (i *index) Count() int {
	return i.collection.Count()
}

func (i *index) Drop(ctx context.Context) error {
	if err := i.db.DeleteCollection(i.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}
