package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/data/redisStore"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

const historyKeyPrefix = "history:"

type RedisHistoryStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logger_i.Logger
}

func newRedisHistoryStore(store *redisStore.Store, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  store,
		ttl:    ttl,
		logger: logger_i.NewLogger("HistoryStore"),
	}
}

// NewHistoryStore picks the backend from settings. Redis that does not answer
// a ping degrades to the in-memory store.
func NewHistoryStore(ctx context.Context, s config.HistorySettings) chatModel.HistoryStore {
	if s.Backend != "redis" {
		return InitInMemoryHistoryStore()
	}
	rs := redisStore.GetRedisStore(ctx, redisStore.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       config.RedisHistoryStore,
	})
	if rs == nil {
		inMemLogger.Warn("redis unavailable, history falls back to memory", "addr", s.RedisAddr)
		return InitInMemoryHistoryStore()
	}
	return newRedisHistoryStore(rs, s.TTL)
}

func historyKey(sessionId string) string {
	return historyKeyPrefix + sessionId
}

func (s *RedisHistoryStore) History(ctx context.Context, sessionId string) ([]chatModel.Turn, error) {
	log := s.logger.FromContext(ctx).With("sessionId", sessionId)
	raw, err := s.store.ListGetAll(ctx, historyKey(sessionId))
	if s.store.IsNil(err) {
		return []chatModel.Turn{}, nil
	} else if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, fmt.Errorf("load history: %w", err)
	}

	turns := make([]chatModel.Turn, 0, len(raw))
	for _, item := range raw {
		var turn chatModel.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisHistoryStore) Append(ctx context.Context, sessionId string, turns ...chatModel.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, data)
	}
	if err := s.store.ListPushWithTTL(ctx, historyKey(sessionId), s.ttl, values...); err != nil {
		s.logger.FromContext(ctx).Error("error saving turns", "sessionId", sessionId, "error", err)
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *RedisHistoryStore) Clear(ctx context.Context, sessionId string) error {
	return s.store.Del(ctx, historyKey(sessionId))
}

// TestHistoryStore builds a store over a caller supplied client.
func TestHistoryStore(store *redisStore.Store, ttl time.Duration) *RedisHistoryStore {
	return newRedisHistoryStore(store, ttl)
}
