package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
)

const SystemTemplate = `Answer the user's questions based on the below context.
If the context doesn't contain any relevant information to the question, don't make something up and just say "I don't know":

<context>
{context}
</context>
`

// BuildAnswerPrompt lays out the system message with the retrieved context,
// then the prior turns, then the new input.
func BuildAnswerPrompt(docs []commonModels.DocChunk, history []chatModel.Turn, input string) []chatModel.Turn {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Chunk
	}
	system := strings.Replace(SystemTemplate, "{context}", strings.Join(texts, "\n\n"), 1)

	messages := make([]chatModel.Turn, 0, len(history)+2)
	messages = append(messages, chatModel.SystemTurn(system))
	messages = append(messages, history...)
	messages = append(messages, chatModel.UserTurn(input))
	return messages
}

func GenerateAnswer(ctx context.Context, provider llm.Provider, docs []commonModels.DocChunk, history []chatModel.Turn, input string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()
	return provider.Generate(ctx, BuildAnswerPrompt(docs, history, input))
}
