// Package tgi calls a HuggingFace text-generation-inference server on its
// native generate route.
package tgi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

var logger = logger_i.NewLogger("llm_tgi")

type Client struct {
	url    string
	token  string
	http   *http.Client
	params llm.Params
}

type parameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	TopK              int     `json:"top_k"`
	TopP              float64 `json:"top_p"`
	TypicalP          float64 `json:"typical_p"`
	Temperature       float64 `json:"temperature"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	ReturnFullText    bool    `json:"return_full_text"`
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

func New(url, token string, httpClient *http.Client, params llm.Params) *Client {
	return &Client{url: url, token: token, http: httpClient, params: params}
}

func (c *Client) Generate(ctx context.Context, messages []chatModel.Turn) (string, error) {
	log := logger.FromContext(ctx)
	body, err := json.Marshal(request{
		Inputs: llm.RenderBuffer(messages),
		Parameters: parameters{
			MaxNewTokens:      c.params.MaxNewTokens,
			TopK:              c.params.TopK,
			TopP:              c.params.TopP,
			TypicalP:          c.params.TypicalP,
			Temperature:       c.params.Temperature,
			RepetitionPenalty: c.params.RepetitionPenalty,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("inference request failed", "error", err)
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		log.Error("inference server error", "status", resp.StatusCode, "body", truncate(raw))
		return "", fmt.Errorf("inference server returned %d: %s", resp.StatusCode, truncate(raw))
	}

	gen, err := decode(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(gen.GeneratedText), nil
}

// decode accepts both the single object and the list form of the response.
func decode(raw []byte) (generation, error) {
	trimmed := bytes.TrimSpace(raw)
	var gen generation
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []generation
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return gen, fmt.Errorf("decode inference response: %w", err)
		}
		if len(list) == 0 {
			return gen, errors.New("inference server returned no generations")
		}
		gen = list[0]
	} else if err := json.Unmarshal(trimmed, &gen); err != nil {
		return gen, fmt.Errorf("decode inference response: %w", err)
	}
	if gen.Error != "" {
		return gen, fmt.Errorf("inference server: %s", gen.Error)
	}
	return gen, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
