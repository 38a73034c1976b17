package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/ChatPDF/internal/adapter"
	"github.com/akolanti/ChatPDF/internal/adapter/utils"
	"github.com/akolanti/ChatPDF/internal/api"
	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
)

// GetHealth godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /healthz [get]
func (h *SessionHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok", Sessions: h.orchestrator.Sessions().Count()})
}

// CreateSession godoc
// @Summary      Open a chat session
// @Description  Creates an empty session. The transcript starts with the assistant greeting.
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  api.SessionResponse
// @Router       /sessions [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	s := h.orchestrator.Sessions().Create()
	writeJsonResponse(w, http.StatusCreated, adapter.ToSessionResponse(s))
}

// GetSession godoc
// @Summary      Get a session
// @Description  Returns the transcript and the documents currently indexed.
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.SessionResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	s, err := h.orchestrator.Sessions().Get(utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(s))
}

// DeleteSession godoc
// @Summary      End a session
// @Description  Drops the session index, its conversation history and any scratch files.
// @Tags         Sessions
// @Param        id   path      string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Router       /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	if err := h.orchestrator.Sessions().Delete(r.Context(), utils.GetChiURLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostDocuments godoc
// @Summary      Upload the session's documents
// @Description  Replaces the session's document set and rebuilds its index. Any file that fails to parse aborts the whole upload and the previous index stays active.
// @Tags         Sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "Session ID"
// @Param        documents  formData  file    true  "One or more PDF files"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse  "No files or payload too large"
// @Failure      404  {object}  api.ErrorResponse
// @Failure      422  {object}  api.ErrorResponse  "A file could not be parsed"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /sessions/{id}/documents [post]
func (h *SessionHandler) PostDocuments(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if _, err := h.orchestrator.Sessions().Get(id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request", false)
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads, err := readUploads(r.MultipartForm)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file", false)
		return
	}

	docs, err := h.orchestrator.Upload(r.Context(), id, uploads)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(id, docs))
}

// Chat godoc
// @Summary      Ask a question
// @Description  Rewrites the question against the conversation, retrieves the two most relevant chunks and answers from them. A multipart request may carry new documents under "documents"; they replace the session's set before the question is answered.
// @Tags         Sessions
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string           true   "Session ID"
// @Param        request    body      api.ChatRequest  false  "User message (json)"
// @Param        message    formData  string           false  "User message (multipart)"
// @Param        documents  formData  file             false  "PDF files to index before answering (multipart)"
// @Success      200  {object}  api.ChatResponse
// @Failure      400  {object}  api.ErrorResponse  "No documents uploaded or empty message"
// @Failure      404  {object}  api.ErrorResponse
// @Failure      422  {object}  api.ErrorResponse  "A file could not be parsed"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /sessions/{id}/chat [post]
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")

	var (
		message string
		uploads []commonModels.Upload
	)
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
		if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request", false)
			return
		}
		defer r.MultipartForm.RemoveAll()

		var err error
		if uploads, err = readUploads(r.MultipartForm); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file", false)
			return
		}
		message = r.FormValue("message")
	} else {
		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			if err := Body.Close(); err != nil {
				logRH.Error("Couldn't close the chat request body", "error", err)
			}
		}(r.Body)
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
			logRH.FromContext(r.Context()).Warn("Bad chat request", "error", err)
			WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", false)
			return
		}
		message = requestData.Message
	}

	ex, err := h.orchestrator.HandleTurn(r.Context(), id, uploads, message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(id, ex))
}
