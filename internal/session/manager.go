package session

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/internal/rag/ingest"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns every live session of the process.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	history    chatModel.HistoryStore
	scratchDir string
	logger     *logger_i.Logger
}

func NewManager(history chatModel.HistoryStore, scratchDir string) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		history:    history,
		scratchDir: scratchDir,
		logger:     logger_i.NewLogger("Session Manager"),
	}
}

func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String())
	s.Transcript()

	m.mu.Lock()
	m.sessions[s.Id] = s
	m.mu.Unlock()

	metrics.SessionOpened()
	m.logger.Info("session created", "sessionId", s.Id)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete ends a session: its index is dropped, the model history cleared and
// the scratch directory removed. A turn in flight finishes first.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	metrics.SessionClosed()

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.dataMu.Lock()
	s.closed = true
	s.dataMu.Unlock()

	log := m.logger.FromContext(ctx).With("sessionId", id)
	var errs []error
	if old := s.swapRetriever(nil, nil); old != nil {
		if err := old.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.history.Clear(ctx, id); err != nil {
		errs = append(errs, err)
	}
	if err := ingest.RemoveSessionDir(m.scratchDir, id); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		log.Error("session cleanup incomplete", "error", err)
		return err
	}
	log.Info("session ended")
	return nil
}

// Close ends every session, used on shutdown.
func (m *Manager) Close(ctx context.Context) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		_ = m.Delete(ctx, id)
	}
}
