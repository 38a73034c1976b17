package bootstrap

import (
	"context"
	"testing"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/ChatPDF/internal/rag/llm/tgi"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB/chromemDB"
)

func TestBuild_Defaults(t *testing.T) {
	s := config.Defaults()
	s.ScratchDir = t.TempDir()

	app, err := Build(context.Background(), s)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer app.Close(context.Background())

	sess := app.Orchestrator.Sessions().Create()
	if len(sess.Transcript()) != 1 {
		t.Error("new session should hold the greeting")
	}
}

func TestSelection(t *testing.T) {
	ctx := context.Background()
	s := config.Defaults()

	em, err := NewEmbedder(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := em.(*hashEmbedding.Embedder); !ok {
		t.Errorf("default embedder got %T", em)
	}

	p, err := NewProvider(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*tgi.Client); !ok {
		t.Errorf("default provider got %T", p)
	}

	s.Index.Backend = "qdrant"
	s.Index.QdrantHost = "127.0.0.1"
	s.Index.QdrantPort = 1 // nothing listens here
	if _, ok := NewIndexFactory(ctx, s).(*chromemDB.Factory); !ok {
		t.Error("unreachable qdrant should fall back to chromem")
	}

	s.LLM.Provider = "bard"
	if _, err := NewProvider(ctx, s); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestNewEmbedder_ModelDefaults(t *testing.T) {
	ctx := context.Background()
	s := config.Defaults()

	s.Embedding.Model = "ignored-by-hash"
	if _, err := NewEmbedder(ctx, s); err != nil {
		t.Errorf("hash embedder with a model set: %v", err)
	}

	s.Embedding.Provider = "openai"
	s.Embedding.Model = ""
	s.Embedding.BaseURL = "http://127.0.0.1:1/v1"
	if _, err := NewEmbedder(ctx, s); err != nil {
		t.Errorf("openai embedder should fall back to %s: %v", config.OpenAIEmbeddingModel, err)
	}
}
