package chatModel

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// HistoryStore keeps the model-facing conversation of a session in order.
type HistoryStore interface {
	History(ctx context.Context, sessionId string) ([]Turn, error)
	Append(ctx context.Context, sessionId string, turns ...Turn) error
	Clear(ctx context.Context, sessionId string) error
}
