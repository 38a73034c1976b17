package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

var (
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrNoText              = errors.New("no extractable text in upload set")
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// LoadUploads persists the upload set under the session scratch directory,
// extracts and splits every file and returns the chunks of the whole set in
// upload order. The first file that fails aborts the batch. Saved files are
// removed before return.
func LoadUploads(ctx context.Context, scratchDir, sessionId string, uploads []commonModels.Upload) ([]commonModels.DocChunk, []commonModels.Document, error) {
	log := logger.FromContext(ctx).With("sessionId", sessionId)
	if len(uploads) == 0 {
		return nil, nil, ErrNoText
	}
	for _, upload := range uploads {
		if name := filepath.Base(upload.Name); getDocType(name) == commonModels.ERR {
			return nil, nil, fmt.Errorf("%s: %w", name, ErrUnsupportedDocument)
		}
	}

	dir := SessionDir(scratchDir, sessionId)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create scratch dir: %w", err)
	}

	var allChunks []commonModels.DocChunk
	docs := make([]commonModels.Document, 0, len(uploads))
	for i, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		res, err := loadFile(dir, i, upload, log)
		if err != nil {
			return nil, nil, err
		}
		allChunks = append(allChunks, res.chunks...)
		docs = append(docs, res.doc)
	}
	if len(allChunks) == 0 {
		return nil, nil, ErrNoText
	}
	log.Info("Upload set ingested", "documents", len(docs), "chunks", len(allChunks))
	return allChunks, docs, nil
}

type fileResult struct {
	doc    commonModels.Document
	chunks []commonModels.DocChunk
}

// loadFile saves one upload, extracts its pages and splits them. The saved
// copy is removed whatever the outcome.
func loadFile(dir string, slot int, upload commonModels.Upload, log *logger_i.Logger) (fileResult, error) {
	name := filepath.Base(upload.Name)
	docType := getDocType(name)

	path := filepath.Join(dir, strconv.FormatInt(time.Now().UnixNano(), 10)+"-"+strconv.Itoa(slot)+"-"+name)
	if err := os.WriteFile(path, upload.Data, 0o640); err != nil {
		return fileResult{}, fmt.Errorf("save %s: %w", name, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("Error removing file", "path", path, "error", err)
		}
	}()
	log.Debug("Saved upload", "filename", name, "path", path, "bytes", len(upload.Data))

	rawPages, err := extractText(path, docType)
	if err != nil {
		log.Error("Error extracting document", "filename", name, "error", err)
		return fileResult{}, fmt.Errorf("parse %s: %w", name, err)
	}

	doc := commonModels.Document{
		Id:                  newChunkId(),
		Name:                name,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}
	chunks, err := PrepareChunks(rawPages, doc)
	if err != nil {
		return fileResult{}, fmt.Errorf("split %s: %w", name, err)
	}
	log.Debug("Processed document", "filename", name, "pages", len(rawPages), "chunks", len(chunks))
	return fileResult{doc: doc, chunks: chunks}, nil
}

func SessionDir(scratchDir, sessionId string) string {
	return filepath.Join(scratchDir, sessionId)
}

// RemoveSessionDir drops whatever is left of a session on disk.
func RemoveSessionDir(scratchDir, sessionId string) error {
	return os.RemoveAll(SessionDir(scratchDir, sessionId))
}
