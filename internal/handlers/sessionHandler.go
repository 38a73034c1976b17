package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/ChatPDF/internal/rag"
	"github.com/akolanti/ChatPDF/internal/rag/ingest"
	"github.com/akolanti/ChatPDF/internal/session"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

// SessionHandler exposes the orchestrator over HTTP.
type SessionHandler struct {
	orchestrator session.Orchestrator
}

func NewSessionHandler(orchestrator session.Orchestrator) *SessionHandler {
	logRH.Info("Starting session handler")
	return &SessionHandler{orchestrator: orchestrator}
}

// statusFor maps a service error to the status code, client message and
// retry hint sent back. The raw error is only logged.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, session.ErrNoDocuments), errors.Is(err, session.ErrNoQuery):
		return http.StatusBadRequest, err.Error(), false
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found", false
	case errors.Is(err, ingest.ErrUnsupportedDocument), errors.Is(err, ingest.ErrNoText):
		return http.StatusUnprocessableEntity, causeMessage(err), false
	}
	switch rag.FailedStep(err) {
	case rag.StepIngest:
		return http.StatusUnprocessableEntity, "Could not read the uploaded documents", false
	case rag.StepQueryTransform, rag.StepRetrieval, rag.StepGeneration, rag.StepIndexBuild:
		return http.StatusInternalServerError, "The model backend failed, please try again", true
	}
	return http.StatusInternalServerError, "Internal error", false
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, message, retry := statusFor(err)
	log := logRH.FromContext(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		log.Warn("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	WriteErrorResponse(w, code, message, retry)
}

func causeMessage(err error) string {
	var se *rag.StepError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
