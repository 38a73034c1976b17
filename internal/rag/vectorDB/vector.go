package vectorDB

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
)

var ErrEmptyIndex = errors.New("index holds no chunks")

// Candidate is one nearest-neighbour hit with the vector MMR needs.
type Candidate struct {
	Chunk  commonModels.DocChunk
	Vector []float32
	Score  float32
}

// Index is one built collection. It is filled once by Add and only read
// afterwards; a new upload set gets a new Index.
type Index interface {
	Add(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, fetchK int) ([]Candidate, error)
	Count() int
	Drop(ctx context.Context) error
}

type Factory interface {
	NewIndex(ctx context.Context, name string, dimension int) (Index, error)
}

const (
	keyDocId      = "source_doc_id"
	keyDocName    = "doc_name"
	keyPage       = "page_num"
	keyChunkOrder = "chunk_order"
	keyIngestedAt = "ingested_at"
	keyDocType    = "content_type"
)

// ChunkMetadata flattens the chunk provenance for stores that only keep strings.
func ChunkMetadata(chunk commonModels.DocChunk) map[string]string {
	return map[string]string{
		keyDocId:      chunk.Doc.Id,
		keyDocName:    chunk.Doc.Name,
		keyPage:       strconv.Itoa(chunk.PageNum),
		keyChunkOrder: strconv.Itoa(chunk.ChunkPageOrder),
		keyIngestedAt: strconv.FormatInt(chunk.Doc.LastIngestTimestamp.Unix(), 10),
		keyDocType:    string(chunk.Doc.ContentType),
	}
}

func ChunkFromMetadata(id, content string, md map[string]string) commonModels.DocChunk {
	page, _ := strconv.Atoi(md[keyPage])
	order, _ := strconv.Atoi(md[keyChunkOrder])
	ingested, _ := strconv.ParseInt(md[keyIngestedAt], 10, 64)
	return commonModels.DocChunk{
		Doc: commonModels.Document{
			Id:                  md[keyDocId],
			Name:                md[keyDocName],
			LastIngestTimestamp: time.Unix(ingested, 0),
			ContentType:         commonModels.DocType(md[keyDocType]),
		},
		ChunkId:        id,
		Chunk:          content,
		PageNum:        page,
		ChunkPageOrder: order,
	}
}

func CheckBatch(chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	return nil
}
