package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds everything that changes between deployments. Algorithm
// parameters stay in the constants next door.
type Settings struct {
	ServiceName string `yaml:"service_name"`
	ListenAddr  string `yaml:"listen_addr"`
	IsProd      bool   `yaml:"is_prod"`
	AuthToken   string `yaml:"auth_token"`
	ScratchDir  string `yaml:"scratch_dir"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`

	LLM       LLMSettings       `yaml:"llm"`
	Embedding EmbeddingSettings `yaml:"embedding"`
	Index     IndexSettings     `yaml:"index"`
	History   HistorySettings   `yaml:"history"`
}

type LLMSettings struct {
	Provider       string        `yaml:"provider"` // tgi | openai | gemini
	InferenceURL   string        `yaml:"inference_url"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type EmbeddingSettings struct {
	Provider string `yaml:"provider"` // hash | openai | google
	Model    string `yaml:"model"`    // empty picks the provider default; hash has no model
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

type IndexSettings struct {
	Backend    string `yaml:"backend"` // chromem | qdrant
	QdrantHost string `yaml:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port"`
}

type HistorySettings struct {
	Backend       string        `yaml:"backend"` // memory | redis
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	TTL           time.Duration `yaml:"ttl"`
}

func Defaults() Settings {
	return Settings{
		ServiceName: "chatpdf",
		ListenAddr:  ":3000",
		ScratchDir:  "tmp",
		LLM: LLMSettings{
			Provider:       "tgi",
			InferenceURL:   "http://127.0.0.1:8080",
			Model:          "tgi",
			RequestTimeout: 2 * time.Minute,
		},
		Embedding: EmbeddingSettings{
			Provider: "hash",
		},
		Index: IndexSettings{
			Backend:    "chromem",
			QdrantHost: "127.0.0.1",
			QdrantPort: 6334,
		},
		History: HistorySettings{
			Backend:   "memory",
			RedisAddr: "127.0.0.1:6379",
			TTL:       24 * time.Hour,
		},
	}
}

// Load resolves settings as defaults, then the yaml file at path (skipped when
// path is empty or missing), then the environment.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&s)
	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch s.LLM.Provider {
	case "tgi", "openai":
		if s.LLM.InferenceURL == "" {
			return errors.New("llm inference url is required")
		}
	case "gemini":
		if s.LLM.APIKey == "" {
			return errors.New("gemini needs an api key")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", s.LLM.Provider)
	}
	switch s.Embedding.Provider {
	case "hash", "openai", "google":
	default:
		return fmt.Errorf("unknown embedding provider %q", s.Embedding.Provider)
	}
	switch s.Index.Backend {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("unknown index backend %q", s.Index.Backend)
	}
	switch s.History.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown history backend %q", s.History.Backend)
	}
	if s.ScratchDir == "" {
		return errors.New("scratch dir is required")
	}
	return nil
}

func applyEnv(s *Settings) {
	setString(&s.ServiceName, "SVC_NAME")
	setString(&s.ListenAddr, "LISTEN_ADDR")
	setString(&s.AuthToken, "AUTH_TOKEN")
	setString(&s.ScratchDir, "SCRATCH_DIR")
	setString(&s.OTLPEndpoint, "OTLP_ENDPOINT")
	if v, err := strconv.ParseBool(os.Getenv("IS_PROD")); err == nil {
		s.IsProd = v
	}

	setString(&s.LLM.Provider, "LLM_PROVIDER")
	setString(&s.LLM.InferenceURL, "INFERENCE_SERVER_URL")
	setString(&s.LLM.Model, "LLM_MODEL")
	setString(&s.LLM.APIKey, "HUGGINGFACEHUB_API_TOKEN")
	setString(&s.LLM.APIKey, "LLM_API_KEY")

	setString(&s.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&s.Embedding.Model, "TOKENIZER_NAME")
	setString(&s.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	setString(&s.Embedding.APIKey, "EMBEDDING_API_KEY")

	setString(&s.Index.Backend, "INDEX_BACKEND")
	setString(&s.Index.QdrantHost, "QDRANT_HOST")
	if port, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		s.Index.QdrantPort = port
	}

	setString(&s.History.Backend, "HISTORY_BACKEND")
	setString(&s.History.RedisAddr, "REDIS_ADDR")
	setString(&s.History.RedisPassword, "REDIS_PASSWORD")
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
