package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//splitter
	ChunkSize    = 1500 //characters
	ChunkOverlap = 200
	EmbedBatch   = 100

	//retriever: top 2 out of a pool of 4, mmr re-ranked
	RetrieverK       = 2
	RetrieverFetchK  = 4
	MMRLambda        = float32(0.5)
	HashEmbeddingDim = 384 //same width as the small sentence-transformer models

	EmbeddingOutputDimensionality int32 = 768
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "sentence-transformers/all-MiniLM-L6-v2" //as served by TEI
	GeminiModelName                     = "gemini-2.5-flash-lite"
	EmbeddingRetryDelay                 = 5 * time.Second

	//decoding parameters - near deterministic
	MaxNewTokens      = 512
	TopK              = 1
	TopP              = 0.95
	TypicalP          = 0.95
	Temperature       = 0.01
	RepetitionPenalty = 1.03

	//ui prompts
	Greeting          = "How can I help you?"
	NoDocumentsPrompt = "Please upload PDF documents to continue!"
	QueryPlaceholder  = "Ask me anything!"

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 5 * time.Minute //index rebuild + generation are synchronous
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	MaxUploadSize = 32 << 20 //32mb

	//page extraction guard
	PageExtractTimeout = 10 * time.Second

	//vectorDB
	QdrantUseTLS    = false
	QdrantPoolSize  = 1
	QdrantUserAgent = "chatpdf"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis has 16 DB we can use
	RedisHistoryStore = 1
	RedisPingTimeout  = 3 * time.Second
)
