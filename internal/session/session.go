package session

import (
	"sync"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag"
)

// Session groups one upload set, its index and one conversation.
type Session struct {
	Id        string
	CreatedAt time.Time

	// turnMu serializes uploads and turns; dataMu guards the fields below
	// so the transcript stays readable while a turn is running.
	turnMu sync.Mutex
	dataMu sync.RWMutex

	docs       []commonModels.Document
	retriever  *rag.Retriever
	transcript []chatModel.Turn
	closed     bool
}

func newSession(id string) *Session {
	return &Session{Id: id, CreatedAt: time.Now()}
}

// prologue seeds the display transcript with the greeting on first use.
// Caller holds dataMu.
func (s *Session) prologue() {
	if len(s.transcript) == 0 {
		s.transcript = append(s.transcript, chatModel.AssistantTurn(config.Greeting))
	}
}

func (s *Session) Transcript() []chatModel.Turn {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.prologue()
	out := make([]chatModel.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Documents() []commonModels.Document {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]commonModels.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *Session) HasDocuments() bool {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.retriever != nil
}

func (s *Session) currentRetriever() *rag.Retriever {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.retriever
}

// swapRetriever installs r and returns the one it replaced.
func (s *Session) swapRetriever(r *rag.Retriever, docs []commonModels.Document) *rag.Retriever {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	old := s.retriever
	s.retriever = r
	s.docs = docs
	return old
}

func (s *Session) appendTranscript(turns ...chatModel.Turn) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.prologue()
	s.transcript = append(s.transcript, turns...)
}

func (s *Session) isClosed() bool {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.closed
}
