package rag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const RewritePrompt = "Given the above conversation, generate a search query to look up in order to get information relevant to the conversation. Only respond with the query, nothing else."

var ErrNoMessages = errors.New("no messages to build a search query from")

// TransformQuery turns the conversation into a standalone search query. A
// conversation of exactly one message is used verbatim; anything longer is
// condensed by the model.
func TransformQuery(ctx context.Context, provider llm.Provider, messages []chatModel.Turn) (query string, err error) {
	ctx, span := telemetry.Start(ctx, telemetry.SpanQueryTransform, attribute.Int("messages", len(messages)))
	defer func() { telemetry.End(span, err) }()

	switch len(messages) {
	case 0:
		return "", ErrNoMessages
	case 1:
		return messages[0].Content, nil
	}

	prompt := make([]chatModel.Turn, 0, len(messages)+1)
	prompt = append(prompt, messages...)
	prompt = append(prompt, chatModel.UserTurn(RewritePrompt))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_transform", time.Since(start)) }()
	out, err := provider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	query = strings.TrimSpace(out)
	if query == "" {
		// an empty rewrite would fail to embed; search with the raw input instead
		query = messages[len(messages)-1].Content
	}
	return query, nil
}
