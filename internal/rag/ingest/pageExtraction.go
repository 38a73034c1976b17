package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func extractPDF(path string) (pages []rawPage, err error) {
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	logger.Debug("extractPDF", "path", path, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// .odt, .docx, .rtf and plain text come back as one page
func extractDocxTxtRtf(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page parser panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timer := time.NewTimer(config.PageExtractTimeout)
	defer timer.Stop()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errors.New("page extraction timed out")
	}
}
