package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// paragraph, line, sentence, word, hard cut
var separators = []string{"\n\n", "\n", ". ", " ", ""}

func newSplitter(size int) textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(0),
		textsplitter.WithSeparators(separators),
	)
}

// splitTextIntoChunks cuts text into pieces of at most limit-overlap-1
// characters at the best boundary available, then carries the tail of each
// chunk into the next one. Chunks stay within limit and neighbours share at
// least overlap characters.
func splitTextIntoChunks(text string, limit int, overlap int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	body := limit
	if overlap > 0 && overlap < limit/2 {
		body = limit - overlap - 1
	} else {
		overlap = 0
	}

	parts, err := newSplitter(body).SplitText(text)
	if err != nil {
		return nil, err
	}
	pieces := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			pieces = append(pieces, p)
		}
	}
	return withOverlap(pieces, limit, overlap), nil
}

// withOverlap prefixes every piece with the tail of the chunk before it.
// The splitter's own overlap is whole units only and falls to zero once a
// paragraph is longer than the overlap.
func withOverlap(pieces []string, limit, overlap int) []string {
	if overlap == 0 || len(pieces) < 2 {
		return pieces
	}
	chunks := make([]string, len(pieces))
	chunks[0] = pieces[0]
	for i := 1; i < len(pieces); i++ {
		budget := limit - 1 - utf8.RuneCountInString(pieces[i])
		chunks[i] = carryTail(chunks[i-1], overlap, budget) + " " + pieces[i]
	}
	return chunks
}

// carryTail returns the last least runes of prev, widened back to the start
// of a word while it stays within most runes. A prev shorter than least is
// returned whole.
func carryTail(prev string, least, most int) string {
	runes := []rune(prev)
	n := len(runes)
	if n <= least {
		return prev
	}
	most = max(most, least)
	start := n - least
	for start > 0 && n-start < most && !(unicode.IsSpace(runes[start-1]) && !unicode.IsSpace(runes[start])) {
		start--
	}
	return string(runes[start:])
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX, commonModels.TXT:
		return extractDocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, contentType)
	}
}

func newChunkId() string {
	return uuid.New().String()
}

// PrepareChunks splits every page on its own so chunks never straddle pages.
func PrepareChunks(pages []rawPage, doc commonModels.Document) ([]commonModels.DocChunk, error) {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		stringChunks, err := splitTextIntoChunks(page.Content, config.ChunkSize, config.ChunkOverlap)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page.Number, err)
		}

		for i, text := range stringChunks {
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        newChunkId(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}

	return allChunks, nil
}
