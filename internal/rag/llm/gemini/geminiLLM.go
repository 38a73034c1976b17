package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	params    llm.Params
}

var logger = logger_i.NewLogger("llm_gemini")
var geminiClient *llmClient
var initErr error
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string, params llm.Params) (llm.Provider, error) {
	once.Do(func() {
		newGeminiClient(ctx, modelName, apikey, params)
	})

	if geminiClient == nil {
		return nil, initErr
	}
	return geminiClient, nil
}

func newGeminiClient(ctx context.Context, modelName string, apikey string, params llm.Params) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		initErr = err
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName, params: params}
	logger.Info("Gemini client created", "model", modelName)
}

// toContents moves system turns into the system instruction, gemini has no
// system role inside the conversation.
func toContents(messages []chatModel.Turn) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chatModel.RoleSystem:
			system = append(system, m.Content)
		case chatModel.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

func (c *llmClient) generationConfig(system *genai.Content) *genai.GenerateContentConfig {
	temperature := float32(c.params.Temperature)
	topP := float32(c.params.TopP)
	topK := float32(c.params.TopK)
	return &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       &temperature,
		TopP:              &topP,
		TopK:              &topK,
		MaxOutputTokens:   int32(c.params.MaxNewTokens),
	}
}

func (c *llmClient) Generate(ctx context.Context, messages []chatModel.Turn) (string, error) {
	system, contents := toContents(messages)
	if len(contents) == 0 {
		return "", errors.New("gemini needs at least one non-system message")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, c.generationConfig(system))
	if err != nil {
		logger.FromContext(ctx).Error("gemini generate failed", "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}
