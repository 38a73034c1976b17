package tgi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/rag/llm"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		want     string
		wantErr  bool
	}{
		{"object form", 200, `{"generated_text":" Blue. "}`, "Blue.", false},
		{"list form", 200, `[{"generated_text":"Blue."}]`, "Blue.", false},
		{"empty list", 200, `[]`, "", true},
		{"server error", 503, `{"error":"loading"}`, "", true},
		{"error body on 200", 200, `{"error":"input too long"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got request
			var auth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			c := New(srv.URL, "hf_token", srv.Client(), llm.DefaultParams())
			answer, err := c.Generate(context.Background(), []chatModel.Turn{
				chatModel.SystemTurn("ctx"),
				chatModel.UserTurn("What color is the sky?"),
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if answer != tt.want {
				t.Errorf("answer got %q want %q", answer, tt.want)
			}
			if auth != "Bearer hf_token" {
				t.Errorf("auth header got %q", auth)
			}
			if !strings.HasSuffix(got.Inputs, "Human: What color is the sky?") {
				t.Errorf("inputs got %q", got.Inputs)
			}
			p := got.Parameters
			if p.MaxNewTokens != 512 || p.TopK != 1 || p.Temperature != 0.01 || p.RepetitionPenalty != 1.03 || p.ReturnFullText {
				t.Errorf("parameters got %+v", p)
			}
		})
	}
}
