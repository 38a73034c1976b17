package chromemDB

import (
	"context"
	"testing"

	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
)

func chunks(texts ...string) []commonModels.DocChunk {
	out := make([]commonModels.DocChunk, len(texts))
	for i, t := range texts {
		out[i] = commonModels.DocChunk{
			Doc:     commonModels.Document{Id: "d", Name: "sky.pdf"},
			ChunkId: t,
			Chunk:   t,
			PageNum: i + 1,
		}
	}
	return out
}

func TestIndex_AddQueryDrop(t *testing.T) {
	ctx := context.Background()
	f := NewFactory()

	idx, err := f.NewIndex(ctx, "session-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	vectors := [][]float32{
		embedding.Normalize([]float32{0.9, 0.1}),
		embedding.Normalize([]float32{0.9, 0.12}),
		embedding.Normalize([]float32{0.8, -0.6}),
		embedding.Normalize([]float32{-1, 0}),
	}
	if err := idx.Add(ctx, chunks("a", "b", "c", "d"), vectors); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if idx.Count() != 4 {
		t.Fatalf("count got %d", idx.Count())
	}

	got, err := idx.Query(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("fetchK should clamp to 4, got %d", len(got))
	}
	if got[0].Chunk.ChunkId != "a" || got[0].Chunk.Doc.Name != "sky.pdf" || got[0].Chunk.PageNum != 1 {
		t.Errorf("unexpected top hit %+v", got[0].Chunk)
	}
	if len(got[0].Vector) != 2 {
		t.Errorf("candidate vector missing")
	}

	picked, err := vectorDB.SearchMMR(ctx, idx, []float32{1, 0}, 2, 4, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(picked) != 2 || picked[0].ChunkId != "a" || picked[1].ChunkId != "c" {
		t.Errorf("mmr picked %+v", picked)
	}

	if err := idx.Drop(ctx); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if f.db.GetCollection("session-1", nil) != nil {
		t.Error("collection still present after Drop")
	}
}

func TestIndex_MismatchedBatch(t *testing.T) {
	idx, _ := NewFactory().NewIndex(context.Background(), "bad", 2)
	if err := idx.Add(context.Background(), chunks("a", "b"), [][]float32{{1, 0}}); err == nil {
		t.Error("expected mismatch error")
	}
}
