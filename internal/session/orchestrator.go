package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNoDocuments = errors.New(config.NoDocumentsPrompt)
	ErrNoQuery     = errors.New(config.QueryPlaceholder)
	errClosed      = errors.New("session already ended")
)

// Exchange is one completed question/answer round.
type Exchange struct {
	User        chatModel.Turn
	Assistant   chatModel.Turn
	SearchQuery string
	Sources     []commonModels.DocChunk
}

// Orchestrator drives the per session flow: upload -> index -> turns.
type Orchestrator interface {
	Sessions() *Manager
	// Upload replaces the session's document set and rebuilds its retriever.
	Upload(ctx context.Context, sessionId string, uploads []commonModels.Upload) ([]commonModels.Document, error)
	// Ask answers one user input against the current retriever. It is
	// HandleTurn without uploads.
	Ask(ctx context.Context, sessionId, input string) (Exchange, error)
	// HandleTurn is Upload (when uploads are present) followed by Ask.
	HandleTurn(ctx context.Context, sessionId string, uploads []commonModels.Upload, input string) (Exchange, error)
	Transcript(sessionId string) ([]chatModel.Turn, error)
}

type orchestrator struct {
	rag     rag.Service
	manager *Manager
	logger  *logger_i.Logger
}

func NewOrchestrator(service rag.Service, manager *Manager) Orchestrator {
	return &orchestrator{
		rag:     service,
		manager: manager,
		logger:  logger_i.NewLogger("Session Orchestrator"),
	}
}

func (o *orchestrator) Sessions() *Manager {
	return o.manager
}

func (o *orchestrator) Upload(ctx context.Context, sessionId string, uploads []commonModels.Upload) (docs []commonModels.Document, err error) {
	s, err := o.manager.Get(sessionId)
	if err != nil {
		return nil, err
	}
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	ctx, span := telemetry.Start(ctx, telemetry.SpanMain, attribute.String("session.id", s.Id))
	defer func() { telemetry.End(span, err) }()
	return o.upload(ctx, s, uploads)
}

func (o *orchestrator) upload(ctx context.Context, s *Session, uploads []commonModels.Upload) (docs []commonModels.Document, err error) {
	ctx, span := telemetry.Start(ctx, telemetry.SpanSetUp, attribute.String("session.id", s.Id))
	defer func() { telemetry.End(span, err) }()

	if s.isClosed() {
		return nil, errClosed
	}
	if len(uploads) == 0 {
		return nil, ErrNoDocuments
	}

	retriever, docs, err := o.rag.BuildRetriever(ctx, s.Id, uploads)
	if err != nil {
		// the previous index, if any, keeps serving
		return nil, err
	}
	if old := s.swapRetriever(retriever, docs); old != nil {
		if err := old.Close(ctx); err != nil {
			o.logger.FromContext(ctx).Warn("dropping previous index failed", "sessionId", s.Id, "error", err)
		}
	}
	o.logger.FromContext(ctx).Info("documents indexed", "sessionId", s.Id, "documents", len(docs))
	return docs, nil
}

func (o *orchestrator) Ask(ctx context.Context, sessionId, input string) (Exchange, error) {
	return o.HandleTurn(ctx, sessionId, nil, input)
}

func (o *orchestrator) HandleTurn(ctx context.Context, sessionId string, uploads []commonModels.Upload, input string) (ex Exchange, err error) {
	s, err := o.manager.Get(sessionId)
	if err != nil {
		return ex, err
	}
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	ctx, span := telemetry.Start(ctx, telemetry.SpanMain, attribute.String("session.id", s.Id))
	defer func() { telemetry.End(span, err) }()

	if len(uploads) > 0 {
		// both inputs are needed before anything gets indexed
		if strings.TrimSpace(input) == "" {
			return ex, ErrNoQuery
		}
		if _, err = o.upload(ctx, s, uploads); err != nil {
			return ex, err
		}
	}
	return o.ask(ctx, s, input)
}

func (o *orchestrator) ask(ctx context.Context, s *Session, input string) (ex Exchange, err error) {
	if s.isClosed() {
		return ex, errClosed
	}
	retriever := s.currentRetriever()
	if retriever == nil {
		return ex, ErrNoDocuments
	}
	if strings.TrimSpace(input) == "" {
		return ex, ErrNoQuery
	}

	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.CaptureTurnMetrics(status, time.Since(start))
	}()

	user := chatModel.UserTurn(input)
	s.appendTranscript(user)

	history, err := o.manager.history.History(ctx, s.Id)
	if err != nil {
		return ex, err
	}
	res, err := o.rag.Answer(ctx, retriever, history, input)
	if err != nil {
		return ex, err
	}

	assistant := chatModel.AssistantTurn(res.Answer)
	if err = o.manager.history.Append(ctx, s.Id, user, assistant); err != nil {
		return ex, err
	}
	s.appendTranscript(assistant)

	return Exchange{User: user, Assistant: assistant, SearchQuery: res.SearchQuery, Sources: res.Sources}, nil
}

func (o *orchestrator) Transcript(sessionId string) ([]chatModel.Turn, error) {
	s, err := o.manager.Get(sessionId)
	if err != nil {
		return nil, err
	}
	return s.Transcript(), nil
}
