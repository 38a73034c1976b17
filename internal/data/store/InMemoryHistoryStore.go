package store

import (
	"context"
	"sync"

	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem HistoryStore")

type InMemoryHistoryStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]chatModel.Turn
}

func InitInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]chatModel.Turn),
	}
}

// History returns a copy so callers can append to it freely.
func (store *InMemoryHistoryStore) History(ctx context.Context, sessionId string) ([]chatModel.Turn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	turns := store.chatMap[sessionId]
	out := make([]chatModel.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (store *InMemoryHistoryStore) Append(ctx context.Context, sessionId string, turns ...chatModel.Turn) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[sessionId] = append(store.chatMap[sessionId], turns...)
	inMemLogger.FromContext(ctx).Debug("saved turns", "sessionId", sessionId, "count", len(turns))
	return nil
}

func (store *InMemoryHistoryStore) Clear(ctx context.Context, sessionId string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	delete(store.chatMap, sessionId)
	return nil
}
