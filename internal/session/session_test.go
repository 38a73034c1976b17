package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/data/store"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag"
	"github.com/akolanti/ChatPDF/internal/rag/embedding/hashEmbedding"
	ragmocks "github.com/akolanti/ChatPDF/internal/rag/rag_test"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB/chromemDB"
	"github.com/akolanti/ChatPDF/internal/session"
	"github.com/akolanti/ChatPDF/internal/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// skyModel answers from whatever context it is handed and condenses follow
// ups to a fixed search query.
func skyModel() *ragmocks.MockLLM {
	return &ragmocks.MockLLM{OnGenerate: func(ctx context.Context, msgs []chatModel.Turn) (string, error) {
		last := msgs[len(msgs)-1]
		if last.Content == rag.RewritePrompt {
			return "sky colour", nil
		}
		if msgs[0].Role == chatModel.RoleSystem && strings.Contains(msgs[0].Content, "sky") {
			return "The sky is blue.", nil
		}
		return "I don't know", nil
	}}
}

type fixture struct {
	orch    session.Orchestrator
	history *store.InMemoryHistoryStore
	model   *ragmocks.MockLLM
	dir     string
}

func newFixture(t *testing.T, model *ragmocks.MockLLM) fixture {
	t.Helper()
	dir := t.TempDir()
	history := store.InitInMemoryHistoryStore()
	svc := rag.NewService(chromemDB.NewFactory(), model, hashEmbedding.New(config.HashEmbeddingDim), dir)
	return fixture{
		orch:    session.NewOrchestrator(svc, session.NewManager(history, dir)),
		history: history,
		model:   model,
		dir:     dir,
	}
}

func skyUpload() []commonModels.Upload {
	return []commonModels.Upload{{Name: "facts.pdf", Data: testutil.BuildPDF("The sky is blue.", "Grass is green.")}}
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()

	transcript, err := f.orch.Transcript(s.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(transcript) != 1 || transcript[0].Content != config.Greeting {
		t.Fatalf("new session should open with the greeting, got %+v", transcript)
	}

	docs, err := f.orch.Upload(ctx, s.Id, skyUpload())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "facts.pdf" {
		t.Errorf("docs got %+v", docs)
	}

	ex, err := f.orch.Ask(ctx, s.Id, "What color is the sky?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if ex.Assistant.Content != "The sky is blue." {
		t.Errorf("answer got %q", ex.Assistant.Content)
	}
	if ex.SearchQuery != "What color is the sky?" {
		t.Errorf("first turn must search with the raw input, got %q", ex.SearchQuery)
	}
	if len(f.model.Calls) != 1 {
		t.Errorf("first turn should skip the rewrite call, got %d calls", len(f.model.Calls))
	}

	if _, err := f.orch.Ask(ctx, s.Id, "and at night?"); err != nil {
		t.Fatalf("second Ask failed: %v", err)
	}
	if len(f.model.Calls) != 3 {
		t.Errorf("follow up should rewrite then answer, got %d calls", len(f.model.Calls))
	}

	hist, _ := f.history.History(ctx, s.Id)
	if len(hist) != 4 {
		t.Errorf("history should hold two exchanges, got %d turns", len(hist))
	}
	transcript, _ = f.orch.Transcript(s.Id)
	if len(transcript) != 5 {
		t.Errorf("transcript got %d turns", len(transcript))
	}

	if err := f.orch.Sessions().Delete(ctx, s.Id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.orch.Sessions().Get(s.Id); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("deleted session still reachable: %v", err)
	}
	hist, _ = f.history.History(ctx, s.Id)
	if len(hist) != 0 {
		t.Errorf("history not cleared: %+v", hist)
	}
}

func TestOrchestrator_Guards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()

	if _, err := f.orch.Ask(ctx, s.Id, "anything"); !errors.Is(err, session.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
	if _, err := f.orch.Upload(ctx, s.Id, nil); !errors.Is(err, session.ErrNoDocuments) {
		t.Errorf("empty upload: expected ErrNoDocuments, got %v", err)
	}
	if _, err := f.orch.Upload(ctx, s.Id, skyUpload()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orch.Ask(ctx, s.Id, "   "); !errors.Is(err, session.ErrNoQuery) {
		t.Errorf("expected ErrNoQuery, got %v", err)
	}
	if len(f.model.Calls) != 0 {
		t.Errorf("guards must not reach the model, got %d calls", len(f.model.Calls))
	}
	if _, err := f.orch.Ask(ctx, "missing", "hi"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestOrchestrator_FailedUploadKeepsIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()

	if _, err := f.orch.Upload(ctx, s.Id, skyUpload()); err != nil {
		t.Fatal(err)
	}
	_, err := f.orch.Upload(ctx, s.Id, []commonModels.Upload{{Name: "virus.exe", Data: []byte("MZ")}})
	if rag.FailedStep(err) != rag.StepIngest {
		t.Fatalf("expected an ingestion failure, got %v", err)
	}
	if !s.HasDocuments() || len(s.Documents()) != 1 {
		t.Fatal("previous documents should survive a failed upload")
	}
	if _, err := f.orch.Ask(ctx, s.Id, "What color is the sky?"); err != nil {
		t.Errorf("Ask after failed upload: %v", err)
	}
}

func TestOrchestrator_FailedAnswerNotRemembered(t *testing.T) {
	ctx := context.Background()
	model := &ragmocks.MockLLM{OnGenerate: func(ctx context.Context, msgs []chatModel.Turn) (string, error) {
		return "", errors.New("inference server down")
	}}
	f := newFixture(t, model)
	s := f.orch.Sessions().Create()
	if _, err := f.orch.Upload(ctx, s.Id, skyUpload()); err != nil {
		t.Fatal(err)
	}

	_, err := f.orch.Ask(ctx, s.Id, "What color is the sky?")
	if rag.FailedStep(err) != rag.StepGeneration {
		t.Fatalf("expected a generation failure, got %v", err)
	}
	hist, _ := f.history.History(ctx, s.Id)
	if len(hist) != 0 {
		t.Errorf("failed turn leaked into history: %+v", hist)
	}
	transcript := s.Transcript()
	if len(transcript) != 2 || transcript[1].Role != chatModel.RoleUser {
		t.Errorf("transcript should show the question only, got %+v", transcript)
	}
}

func TestOrchestrator_HandleTurnSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()
	if _, err := f.orch.HandleTurn(context.Background(), s.Id, skyUpload(), "What color is the sky?"); err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, sp := range recorder.Ended() {
		byName[sp.Name()] = sp
	}
	for _, name := range []string{"Main", "Set up", "get retriever", "Get query transform chain", "Response time"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing span %q", name)
		}
	}
	main, setUp := byName["Main"], byName["Set up"]
	if main != nil && setUp != nil && setUp.Parent().SpanID() != main.SpanContext().SpanID() {
		t.Error("Set up should be a child of Main")
	}
}

func TestOrchestrator_HandleTurnNeedsQueryBeforeIndexing(t *testing.T) {
	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()

	_, err := f.orch.HandleTurn(context.Background(), s.Id, skyUpload(), "  ")
	if !errors.Is(err, session.ErrNoQuery) {
		t.Fatalf("expected ErrNoQuery, got %v", err)
	}
	if s.HasDocuments() {
		t.Error("documents were indexed for a turn without a question")
	}
	if len(f.model.Calls) != 0 {
		t.Errorf("model reached %d times", len(f.model.Calls))
	}
}

func TestOrchestrator_UploadAndAskOpenMain(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	f := newFixture(t, skyModel())
	s := f.orch.Sessions().Create()
	if _, err := f.orch.Upload(ctx, s.Id, skyUpload()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orch.Ask(ctx, s.Id, "What color is the sky?"); err != nil {
		t.Fatal(err)
	}

	roots := 0
	for _, sp := range recorder.Ended() {
		if sp.Name() != "Main" {
			continue
		}
		roots++
		if sp.Parent().IsValid() {
			t.Errorf("Main should be the root span, parent %v", sp.Parent().SpanID())
		}
	}
	if roots != 2 {
		t.Errorf("want a Main span for Upload and for Ask, got %d", roots)
	}
}
