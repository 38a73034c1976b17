package api

import "time"

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Please upload PDF documents to continue!"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Turn struct {
	Role    string `json:"role" example:"assistant"`
	Content string `json:"content" example:"How can I help you?"`
}

type Document struct {
	Id          string    `json:"id"`
	Name        string    `json:"name" example:"report.pdf"`
	ContentType string    `json:"content_type" example:"PDF"`
	IngestedAt  time.Time `json:"ingested_at"`
}

type Source struct {
	DocumentName string `json:"document_name" example:"report.pdf"`
	Page         int    `json:"page" example:"3"`
	ChunkId      string `json:"chunk_id"`
	Content      string `json:"content"`
}

type SessionResponse struct {
	Id         string     `json:"id" example:"0b8f0c8e-6f0e-4c57-9a61-3b0c2b9d1f51"`
	CreatedAt  time.Time  `json:"created_at"`
	Documents  []Document `json:"documents"`
	Transcript []Turn     `json:"transcript"`
}

type UploadResponse struct {
	SessionId string     `json:"session_id"`
	Documents []Document `json:"documents"`
}

type ChatResponse struct {
	SessionId   string   `json:"session_id"`
	Question    string   `json:"question" example:"What color is the sky?"`
	Answer      string   `json:"answer" example:"The sky is blue."`
	SearchQuery string   `json:"search_query"`
	Sources     []Source `json:"sources"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Sessions int    `json:"sessions"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}
