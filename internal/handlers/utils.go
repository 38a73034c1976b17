package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/akolanti/ChatPDF/internal/adapter"
	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.FromContext(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string, retry bool) {
	writeJsonResponse(w, httpCode, adapter.ToErrorResponse(httpCode, message, retry))
}

// readUploads loads every part under the "documents" field into memory.
func readUploads(form *multipart.Form) ([]commonModels.Upload, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File["documents"]
	uploads := make([]commonModels.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, commonModels.Upload{Name: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, config.MaxUploadSize))
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
