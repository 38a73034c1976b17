// Package mcpServer exposes session turns as MCP tools so agents can query
// uploaded documents.
package mcpServer

import (
	"context"
	"net/http"

	"github.com/akolanti/ChatPDF/internal/adapter"
	"github.com/akolanti/ChatPDF/internal/api"
	"github.com/akolanti/ChatPDF/internal/session"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "chatpdf"
	serverVersion = "v1.0.0"
)

type AskInput struct {
	SessionId string `json:"session_id" jsonschema:"session that holds the uploaded documents"`
	Question  string `json:"question" jsonschema:"question to answer from the documents"`
}

type TranscriptInput struct {
	SessionId string `json:"session_id" jsonschema:"session to read"`
}

type TranscriptOutput struct {
	SessionId  string     `json:"session_id"`
	Transcript []api.Turn `json:"transcript"`
}

type handlers struct {
	orchestrator session.Orchestrator
	logger       *logger_i.Logger
}

// NewServer registers the document tools against orchestrator.
func NewServer(orchestrator session.Orchestrator) *mcp.Server {
	h := &handlers{orchestrator: orchestrator, logger: logger_i.NewLogger("MCP")}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question from the PDF documents uploaded to a chat session. Follow-up questions are resolved against the session's conversation.",
	}, h.askDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_transcript",
		Description: "Return the visible transcript of a chat session, greeting included.",
	}, h.sessionTranscript)

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (h *handlers) askDocuments(ctx context.Context, req *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, api.ChatResponse, error) {
	ex, err := h.orchestrator.Ask(ctx, in.SessionId, in.Question)
	if err != nil {
		h.logger.FromContext(ctx).Warn("ask_documents failed", "sessionId", in.SessionId, "error", err)
		return nil, api.ChatResponse{}, err
	}
	return nil, adapter.ToChatResponse(in.SessionId, ex), nil
}

func (h *handlers) sessionTranscript(ctx context.Context, req *mcp.CallToolRequest, in TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
	turns, err := h.orchestrator.Transcript(in.SessionId)
	if err != nil {
		return nil, TranscriptOutput{}, err
	}
	return nil, TranscriptOutput{SessionId: in.SessionId, Transcript: adapter.ToTurns(turns)}, nil
}
