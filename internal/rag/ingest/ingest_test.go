package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/testutil"
)

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"REPORT.PDF", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.odt", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"image.png", commonModels.ERR},
		{"noextension", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func longText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%04d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplitTextIntoChunks(t *testing.T) {
	text := longText(800) // ~7200 characters

	chunks, err := splitTextIntoChunks(text, config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(chunks) < 5 {
		t.Fatalf("Expected at least 5 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > config.ChunkSize {
			t.Errorf("chunk %d has %d characters", i, n)
		}
	}

	// neighbours share the tail of the previous chunk
	for i := 0; i < len(chunks)-1; i++ {
		words := strings.Fields(chunks[i])
		last := words[len(words)-1]
		if !strings.Contains(chunks[i+1], last) {
			t.Errorf("chunk %d does not carry overlap %q from chunk %d", i+1, last, i)
		}
	}
}

// paragraphs groups numbered sentences into paragraphs of about 540 characters.
func paragraphs(sentences, perParagraph int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		if i > 0 {
			if i%perParagraph == 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		}
		fmt.Fprintf(&b, "Sentence number %d carries a little more descriptive detail.", i)
	}
	return b.String()
}

// sharedRunes is the longest suffix of a that b starts with.
func sharedRunes(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	for n := min(len(ra), len(rb)); n > 0; n-- {
		if string(ra[len(ra)-n:]) == string(rb[:n]) {
			return n
		}
	}
	return 0
}

func TestSplitTextIntoChunks_ParagraphedProse(t *testing.T) {
	text := paragraphs(120, 9)

	chunks, err := splitTextIntoChunks(text, config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(chunks) < 4 {
		t.Fatalf("Expected at least 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > config.ChunkSize {
			t.Errorf("chunk %d has %d characters", i, n)
		}
	}
	for i := 0; i < len(chunks)-1; i++ {
		if n := sharedRunes(chunks[i], chunks[i+1]); n < config.ChunkOverlap {
			t.Errorf("chunks %d and %d share %d characters", i, i+1, n)
		}
	}

	joined := strings.Join(chunks, " ")
	for _, i := range []int{0, 26, 27, 61, 119} {
		if want := fmt.Sprintf("Sentence number %d carries", i); !strings.Contains(joined, want) {
			t.Errorf("lost %q", want)
		}
	}
}

func TestSplitTextIntoChunks_Short(t *testing.T) {
	chunks, err := splitTextIntoChunks("The sky is blue.", config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0] != "The sky is blue." {
		t.Errorf("unexpected chunks %q", chunks)
	}

	empty, _ := splitTextIntoChunks("   \n ", config.ChunkSize, config.ChunkOverlap)
	if len(empty) != 0 {
		t.Errorf("blank text should give no chunks, got %q", empty)
	}
}

func TestSplitTextIntoChunks_IndivisibleUnit(t *testing.T) {
	unit := strings.Repeat("x", config.ChunkSize*2)
	chunks, err := splitTextIntoChunks(unit, config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(chunks, "") == "" {
		t.Fatal("no content returned for a single long token")
	}
}

func TestPrepareChunks(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content."},
		{Number: 2, Content: ""},
		{Number: 3, Content: "Page three content."},
	}
	doc := commonModels.Document{Id: "doc-1", Name: "a.pdf"}

	chunks, err := PrepareChunks(pages, doc)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (empty page skipped), got %d", len(chunks))
	}
	if chunks[0].Doc.Id != "doc-1" || chunks[0].PageNum != 1 || chunks[0].ChunkPageOrder != 0 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
	if chunks[1].PageNum != 3 {
		t.Errorf("chunk 1 page got %d, want 3", chunks[1].PageNum)
	}
	if chunks[0].ChunkId == "" || chunks[0].ChunkId == chunks[1].ChunkId {
		t.Errorf("chunk ids must be unique and non-empty")
	}
}

func TestLoadUploads_PDF(t *testing.T) {
	scratch := t.TempDir()
	uploads := []commonModels.Upload{
		{Name: "sky.pdf", Data: testutil.BuildPDF("The sky is blue.", "Grass is green.")},
		{Name: "sea.pdf", Data: testutil.BuildPDF("The sea is salty.")},
	}

	chunks, docs, err := LoadUploads(context.Background(), scratch, "s1", uploads)
	if err != nil {
		t.Fatalf("LoadUploads failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Chunk, "sky is blue") || chunks[0].Doc.Name != "sky.pdf" || chunks[0].PageNum != 1 {
		t.Errorf("chunk 0 got %+v", chunks[0])
	}
	if chunks[1].PageNum != 2 {
		t.Errorf("chunk 1 page got %d", chunks[1].PageNum)
	}

	entries, err := os.ReadDir(SessionDir(scratch, "s1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("saved uploads were not removed: %d left", len(entries))
	}
}

func TestLoadUploads_FailFast(t *testing.T) {
	scratch := t.TempDir()
	tests := []struct {
		name    string
		uploads []commonModels.Upload
		wantErr error
	}{
		{"nothing uploaded", nil, ErrNoText},
		{"unsupported", []commonModels.Upload{
			{Name: "ok.pdf", Data: testutil.BuildPDF("fine")},
			{Name: "image.png", Data: []byte{0x89, 0x50}},
		}, ErrUnsupportedDocument},
		{"blank pages", []commonModels.Upload{{Name: "blank.pdf", Data: testutil.BuildPDF("   ")}}, ErrNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadUploads(context.Background(), scratch, "s2", tt.uploads)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got err %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadUploads_CorruptPDF(t *testing.T) {
	uploads := []commonModels.Upload{
		{Name: "good.pdf", Data: testutil.BuildPDF("The sky is blue.")},
		{Name: "broken.pdf", Data: []byte("%PDF-1.4 this is not a pdf")},
	}
	chunks, _, err := LoadUploads(context.Background(), t.TempDir(), "s3", uploads)
	if err == nil {
		t.Fatal("expected corrupt pdf to fail the batch")
	}
	if !strings.Contains(err.Error(), "broken.pdf") {
		t.Errorf("error should name the file: %v", err)
	}
	if chunks != nil {
		t.Errorf("no partial chunks expected, got %d", len(chunks))
	}
}

func TestLoadUploads_Text(t *testing.T) {
	uploads := []commonModels.Upload{{Name: "notes.txt", Data: []byte("Plain notes about the sky.")}}
	chunks, docs, err := LoadUploads(context.Background(), t.TempDir(), "s4", uploads)
	if err != nil {
		t.Fatalf("LoadUploads failed: %v", err)
	}
	if len(chunks) != 1 || docs[0].ContentType != commonModels.TXT {
		t.Fatalf("unexpected result %+v %+v", chunks, docs)
	}
}

func TestRemoveSessionDir(t *testing.T) {
	scratch := t.TempDir()
	dir := SessionDir(scratch, "gone")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := RemoveSessionDir(scratch, "gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("session dir still present")
	}
}

func TestLoadUploads_KeepsUploadOrder(t *testing.T) {
	var uploads []commonModels.Upload
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("f%02d.pdf", i)
		uploads = append(uploads, commonModels.Upload{Name: name, Data: testutil.BuildPDF("document " + name)})
	}
	// same file name twice must not collide on disk
	uploads = append(uploads, commonModels.Upload{Name: "f00.pdf", Data: testutil.BuildPDF("second copy")})

	chunks, docs, err := LoadUploads(context.Background(), t.TempDir(), "s5", uploads)
	if err != nil {
		t.Fatalf("LoadUploads failed: %v", err)
	}
	if len(docs) != len(uploads) || len(chunks) != len(uploads) {
		t.Fatalf("got %d docs %d chunks for %d uploads", len(docs), len(chunks), len(uploads))
	}
	for i, d := range docs {
		if d.Name != uploads[i].Name || chunks[i].Doc.Id != d.Id {
			t.Errorf("slot %d: doc %s chunk doc %s", i, d.Name, chunks[i].Doc.Name)
		}
	}
}
