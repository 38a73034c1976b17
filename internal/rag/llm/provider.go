package llm

import (
	"context"
	"strings"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
)

// Provider completes a chat transcript. The last turn is normally the user input.
type Provider interface {
	Generate(ctx context.Context, messages []chatModel.Turn) (string, error)
}

// Params are the decoding settings sent with every request.
type Params struct {
	MaxNewTokens      int
	TopK              int
	TopP              float64
	TypicalP          float64
	Temperature       float64
	RepetitionPenalty float64
}

func DefaultParams() Params {
	return Params{
		MaxNewTokens:      config.MaxNewTokens,
		TopK:              config.TopK,
		TopP:              config.TopP,
		TypicalP:          config.TypicalP,
		Temperature:       config.Temperature,
		RepetitionPenalty: config.RepetitionPenalty,
	}
}

// RenderBuffer flattens turns into the plain transcript text-generation
// servers expect, one "Role: content" entry per line.
func RenderBuffer(messages []chatModel.Turn) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, rolePrefix(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func rolePrefix(r chatModel.Role) string {
	switch r {
	case chatModel.RoleSystem:
		return "System"
	case chatModel.RoleAssistant:
		return "AI"
	default:
		return "Human"
	}
}
