package adapter

import (
	"github.com/akolanti/ChatPDF/internal/api"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/session"
)

func ToSessionResponse(s *session.Session) api.SessionResponse {
	return api.SessionResponse{
		Id:         s.Id,
		CreatedAt:  s.CreatedAt,
		Documents:  ToDocuments(s.Documents()),
		Transcript: ToTurns(s.Transcript()),
	}
}

func ToUploadResponse(sessionId string, docs []commonModels.Document) api.UploadResponse {
	return api.UploadResponse{SessionId: sessionId, Documents: ToDocuments(docs)}
}

func ToChatResponse(sessionId string, ex session.Exchange) api.ChatResponse {
	sources := make([]api.Source, 0, len(ex.Sources))
	for _, c := range ex.Sources {
		sources = append(sources, api.Source{
			DocumentName: c.Doc.Name,
			Page:         c.PageNum,
			ChunkId:      c.ChunkId,
			Content:      c.Chunk,
		})
	}
	return api.ChatResponse{
		SessionId:   sessionId,
		Question:    ex.User.Content,
		Answer:      ex.Assistant.Content,
		SearchQuery: ex.SearchQuery,
		Sources:     sources,
	}
}

func ToDocuments(docs []commonModels.Document) []api.Document {
	out := make([]api.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, api.Document{
			Id:          d.Id,
			Name:        d.Name,
			ContentType: string(d.ContentType),
			IngestedAt:  d.LastIngestTimestamp,
		})
	}
	return out
}

func ToTurns(turns []chatModel.Turn) []api.Turn {
	out := make([]api.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, api.Turn{Role: string(t.Role), Content: t.Content})
	}
	return out
}

func ToErrorResponse(code int, message string, retry bool) api.ErrorResponse {
	return api.ErrorResponse{Code: code, Message: message, Retry: retry}
}
