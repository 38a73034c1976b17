package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.LLM.Provider != "tgi" || s.Embedding.Provider != "hash" || s.Index.Backend != "chromem" {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.History.TTL != 24*time.Hour {
		t.Errorf("history ttl got %v", s.History.TTL)
	}
	if s.Embedding.Model != "" {
		t.Errorf("hash embedder takes no model, default got %q", s.Embedding.Model)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := "service_name: from-file\nllm:\n  provider: openai\n  inference_url: http://file:8080/v1\nindex:\n  backend: qdrant\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SVC_NAME", "from-env")
	t.Setenv("TOKENIZER_NAME", "BAAI/bge-small-en-v1.5")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ServiceName != "from-env" {
		t.Errorf("env should win over file, got %s", s.ServiceName)
	}
	if s.LLM.Provider != "openai" || s.LLM.InferenceURL != "http://file:8080/v1" {
		t.Errorf("file values lost: %+v", s.LLM)
	}
	if s.Index.Backend != "qdrant" || s.Index.QdrantPort != 6334 {
		t.Errorf("index settings got %+v", s.Index)
	}
	if s.Embedding.Model != "BAAI/bge-small-en-v1.5" {
		t.Errorf("embedding model got %s", s.Embedding.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"unknown llm", func(s *Settings) { s.LLM.Provider = "bard" }, true},
		{"gemini without key", func(s *Settings) { s.LLM.Provider = "gemini" }, true},
		{"tgi without url", func(s *Settings) { s.LLM.InferenceURL = "" }, true},
		{"unknown index", func(s *Settings) { s.Index.Backend = "faiss" }, true},
		{"unknown history", func(s *Settings) { s.History.Backend = "mongo" }, true},
		{"no scratch dir", func(s *Settings) { s.ScratchDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
