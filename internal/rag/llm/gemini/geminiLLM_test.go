package gemini

import (
	"testing"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	system, contents := toContents([]chatModel.Turn{
		chatModel.SystemTurn("Answer from context."),
		chatModel.UserTurn("What color is the sky?"),
		chatModel.AssistantTurn("Blue."),
		chatModel.UserTurn("Why?"),
	})
	if system == nil || system.Parts[0].Text != "Answer from context." {
		t.Fatalf("system instruction got %+v", system)
	}
	if len(contents) != 3 {
		t.Fatalf("got %d contents", len(contents))
	}
	if contents[1].Role != string(genai.RoleModel) || contents[2].Role != string(genai.RoleUser) {
		t.Errorf("roles got %s, %s", contents[1].Role, contents[2].Role)
	}
}

func TestGenerationConfig(t *testing.T) {
	c := &llmClient{params: llm.DefaultParams()}
	cfg := c.generationConfig(nil)
	if cfg.MaxOutputTokens != 512 || *cfg.TopK != 1 || *cfg.Temperature != float32(0.01) {
		t.Errorf("config got %+v", cfg)
	}
}
