// Package openaiLLM speaks the chat completions API, which TGI (Messages API),
// vLLM and OpenAI all expose.
package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type llmClient struct {
	client    openai.Client
	modelName string
	params    llm.Params
}

func New(baseURL, apiKey, modelName string, httpClient *http.Client, params llm.Params) llm.Provider {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	logger.Info("OpenAI compatible client created", "baseURL", baseURL, "model", modelName)
	return &llmClient{
		client:    openai.NewClient(opts...),
		modelName: modelName,
		params:    params,
	}
}

func toMessages(turns []chatModel.Turn) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case chatModel.RoleSystem:
			out = append(out, openai.SystemMessage(t.Content))
		case chatModel.RoleAssistant:
			out = append(out, openai.AssistantMessage(t.Content))
		default:
			out = append(out, openai.UserMessage(t.Content))
		}
	}
	return out
}

func (c *llmClient) Generate(ctx context.Context, messages []chatModel.Turn) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    toMessages(messages),
		MaxTokens:   openai.Int(int64(c.params.MaxNewTokens)),
		Temperature: openai.Float(c.params.Temperature),
		TopP:        openai.Float(c.params.TopP),
	})
	if err != nil {
		logger.FromContext(ctx).Error("chat completion failed", "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
