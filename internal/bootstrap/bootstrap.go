// Package bootstrap turns Settings into a running pipeline: embedder, index
// backend, model client, history store and the session orchestrator.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/customHttpClient"
	"github.com/akolanti/ChatPDF/internal/data/store"
	"github.com/akolanti/ChatPDF/internal/rag"
	"github.com/akolanti/ChatPDF/internal/rag/embedding"
	"github.com/akolanti/ChatPDF/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ChatPDF/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/ChatPDF/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/internal/rag/llm/gemini"
	"github.com/akolanti/ChatPDF/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ChatPDF/internal/rag/llm/tgi"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB/chromemDB"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ChatPDF/internal/session"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

var logger = logger_i.NewLogger("bootstrap")

type App struct {
	Settings     config.Settings
	Orchestrator session.Orchestrator
	// closeServices stops the redis and qdrant watchers.
	closeServices context.CancelFunc
}

// Close ends every open session, then releases the backends.
func (a *App) Close(ctx context.Context) {
	a.Orchestrator.Sessions().Close(ctx)
	a.closeServices()
}

// Build wires the pipeline under the "Initialize" span. Backends that need a
// network connection degrade to their in-process counterpart when unreachable.
func Build(ctx context.Context, s config.Settings) (app *App, err error) {
	ctx, span := telemetry.Start(ctx, telemetry.SpanInitialize)
	defer func() { telemetry.End(span, err) }()

	serviceContext, closeServices := context.WithCancel(context.WithoutCancel(ctx))
	defer func() {
		if err != nil {
			closeServices()
		}
	}()

	embedder, err := NewEmbedder(serviceContext, s)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	provider, err := NewProvider(serviceContext, s)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	factory := NewIndexFactory(serviceContext, s)
	history := store.NewHistoryStore(serviceContext, s.History)

	service := rag.NewService(factory, provider, embedder, s.ScratchDir)
	manager := session.NewManager(history, s.ScratchDir)

	logger.Info("pipeline ready",
		"llm", s.LLM.Provider, "embedding", s.Embedding.Provider,
		"index", s.Index.Backend, "history", s.History.Backend)
	return &App{
		Settings:      s,
		Orchestrator:  session.NewOrchestrator(service, manager),
		closeServices: closeServices,
	}, nil
}

func NewEmbedder(ctx context.Context, s config.Settings) (embedding.Embedder, error) {
	switch s.Embedding.Provider {
	case "openai":
		model := s.Embedding.Model
		if model == "" {
			model = config.OpenAIEmbeddingModel
		}
		return openaiEmbedding.New(openaiEmbedding.Config{
			BaseURL:    s.Embedding.BaseURL,
			APIKey:     s.Embedding.APIKey,
			Model:      model,
			HTTPClient: customHttpClient.NewClient(s.LLM.RequestTimeout),
		})
	case "google":
		// empty model falls back to config.GoogleEmbeddingModel
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, s.Embedding.Model, s.Embedding.APIKey)
	case "hash":
		if s.Embedding.Model != "" {
			logger.Warn("embedding model is ignored by the hash embedder", "model", s.Embedding.Model)
		}
		return hashEmbedding.New(config.HashEmbeddingDim), nil
	}
	return nil, fmt.Errorf("unknown embedding provider %q", s.Embedding.Provider)
}

func NewProvider(ctx context.Context, s config.Settings) (llm.Provider, error) {
	params := llm.DefaultParams()
	switch s.LLM.Provider {
	case "tgi":
		return tgi.New(s.LLM.InferenceURL, s.LLM.APIKey, customHttpClient.NewClient(s.LLM.RequestTimeout), params), nil
	case "openai":
		return openaiLLM.New(s.LLM.InferenceURL, s.LLM.APIKey, s.LLM.Model, customHttpClient.NewClient(s.LLM.RequestTimeout), params), nil
	case "gemini":
		model := s.LLM.Model
		if model == config.Defaults().LLM.Model {
			model = config.GeminiModelName
		}
		return gemini.GetGeminiClient(ctx, model, s.LLM.APIKey, params)
	}
	return nil, fmt.Errorf("unknown llm provider %q", s.LLM.Provider)
}

// NewIndexFactory returns qdrant when configured and reachable, chromem otherwise.
func NewIndexFactory(ctx context.Context, s config.Settings) vectorDB.Factory {
	if s.Index.Backend == "qdrant" {
		holder, err := qdrantDB.GetQuadrantClient(ctx, s.Index.QdrantHost, s.Index.QdrantPort)
		if err == nil {
			return holder
		}
		logger.Warn("qdrant unavailable, indexing in process", "error", err)
	}
	return chromemDB.NewFactory()
}
