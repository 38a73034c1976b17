package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/internal/rag/ingest"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"go.opentelemetry.io/otel/attribute"
)

// Service is what the session layer sees of the pipeline. The struct behind
// it keeps the embedder, index factory and model client private so tests can
// swap them.
type Service interface {
	// BuildRetriever ingests an upload set into a brand new index.
	BuildRetriever(ctx context.Context, sessionId string, uploads []commonModels.Upload) (*Retriever, []commonModels.Document, error)
	// Answer runs rewrite, retrieval and generation for one user input.
	Answer(ctx context.Context, retriever *Retriever, history []chatModel.Turn, input string) (Result, error)
}

type Result struct {
	Answer      string
	SearchQuery string
	Sources     []commonModels.DocChunk
}

type service struct {
	factory     vectorDB.Factory
	llmProvider llm.Provider
	embedder    embedding.Embedder
	scratchDir  string
	logger      *logger_i.Logger
}

func NewService(factory vectorDB.Factory, provider llm.Provider, em embedding.Embedder, scratchDir string) Service {
	return &service{
		factory:     factory,
		llmProvider: provider,
		embedder:    em,
		scratchDir:  scratchDir,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) BuildRetriever(ctx context.Context, sessionId string, uploads []commonModels.Upload) (r *Retriever, docs []commonModels.Document, err error) {
	ctx, span := telemetry.Start(ctx, telemetry.SpanGetRetriever, attribute.Int("uploads", len(uploads)))
	defer func() { telemetry.End(span, err) }()

	chunks, docs, err := ingest.LoadUploads(ctx, s.scratchDir, sessionId, uploads)
	if err != nil {
		return nil, nil, stepError(ctx, s.logger, StepIngest, err)
	}
	span.SetAttributes(attribute.Int("chunks", len(chunks)))

	start := time.Now()
	name := fmt.Sprintf("%s-%d", sessionId, time.Now().UnixNano())
	index, err := vectorDB.Build(ctx, s.factory, s.embedder, name, chunks)
	metrics.CaptureExecutionMetrics("index_build", time.Since(start))
	if err != nil {
		return nil, nil, stepError(ctx, s.logger, StepIndexBuild, err)
	}

	s.logger.FromContext(ctx).Info("retriever ready", "sessionId", sessionId, "index", name, "chunks", index.Count())
	return NewRetriever(index, s.embedder), docs, nil
}

func (s *service) Answer(ctx context.Context, retriever *Retriever, history []chatModel.Turn, input string) (res Result, err error) {
	ctx, span := telemetry.Start(ctx, telemetry.SpanResponseTime)
	defer func() { telemetry.End(span, err) }()

	messages := make([]chatModel.Turn, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, chatModel.UserTurn(input))

	query, err := TransformQuery(ctx, s.llmProvider, messages)
	if err != nil {
		return res, stepError(ctx, s.logger, StepQueryTransform, err)
	}
	res.SearchQuery = query

	docs, err := retriever.Search(ctx, query)
	if err != nil {
		return res, stepError(ctx, s.logger, StepRetrieval, err)
	}
	res.Sources = docs

	answer, err := GenerateAnswer(ctx, s.llmProvider, docs, history, input)
	if err != nil {
		return res, stepError(ctx, s.logger, StepGeneration, err)
	}
	res.Answer = answer
	return res, nil
}
