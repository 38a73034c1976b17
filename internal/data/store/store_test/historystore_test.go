package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/data/redisStore"
	"github.com/akolanti/ChatPDF/internal/data/store"
	"github.com/akolanti/ChatPDF/internal/domain/chatModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisHistoryStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rs := redisStore.NewTestStore(client)
	historyStore := store.TestHistoryStore(rs, time.Hour)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	sessionId := "session-abc"

	t.Run("Empty history", func(t *testing.T) {
		turns, err := historyStore.History(ctx, sessionId)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(turns) != 0 {
			t.Errorf("expected no turns, got %d", len(turns))
		}
	})

	t.Run("Append keeps order", func(t *testing.T) {
		err := historyStore.Append(ctx, sessionId,
			chatModel.UserTurn("What color is the sky?"),
			chatModel.AssistantTurn("Blue."))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := historyStore.Append(ctx, sessionId, chatModel.UserTurn("Why?")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		turns, err := historyStore.History(ctx, sessionId)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		want := []chatModel.Turn{
			{Role: chatModel.RoleUser, Content: "What color is the sky?"},
			{Role: chatModel.RoleAssistant, Content: "Blue."},
			{Role: chatModel.RoleUser, Content: "Why?"},
		}
		if len(turns) != len(want) {
			t.Fatalf("got %d turns, want %d", len(turns), len(want))
		}
		for i := range want {
			if turns[i] != want[i] {
				t.Errorf("turn %d: got %+v, want %+v", i, turns[i], want[i])
			}
		}
	})

	t.Run("Append sets ttl", func(t *testing.T) {
		ttl, err := rs.TTL(ctx, "history:"+sessionId)
		if err != nil {
			t.Fatalf("TTL failed: %v", err)
		}
		if ttl != time.Hour {
			t.Errorf("ttl got %v, want 1h", ttl)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := historyStore.Clear(ctx, sessionId); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		exists, err := rs.Exists(ctx, "history:"+sessionId)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("history still exists after Clear")
		}
	})
}

func TestInMemoryHistoryStore(t *testing.T) {
	historyStore := store.InitInMemoryHistoryStore()
	ctx := context.Background()

	_ = historyStore.Append(ctx, "a", chatModel.UserTurn("hi"), chatModel.AssistantTurn("hello"))
	_ = historyStore.Append(ctx, "b", chatModel.UserTurn("other"))

	turns, _ := historyStore.History(ctx, "a")
	if len(turns) != 2 || turns[1].Content != "hello" {
		t.Fatalf("unexpected history: %+v", turns)
	}

	// callers must not be able to mutate the stored slice
	turns[0].Content = "changed"
	again, _ := historyStore.History(ctx, "a")
	if again[0].Content != "hi" {
		t.Errorf("store leaked its backing slice")
	}

	_ = historyStore.Clear(ctx, "a")
	if turns, _ := historyStore.History(ctx, "a"); len(turns) != 0 {
		t.Errorf("expected cleared history, got %d turns", len(turns))
	}
	if turns, _ := historyStore.History(ctx, "b"); len(turns) != 1 {
		t.Errorf("clear touched another session")
	}
}

func TestInMemoryHistoryStore_Race(t *testing.T) {
	historyStore := store.InitInMemoryHistoryStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = historyStore.Append(ctx, "race", chatModel.UserTurn("q"))
			_, _ = historyStore.History(ctx, "race")
		}()
	}
	wg.Wait()

	turns, _ := historyStore.History(ctx, "race")
	if len(turns) != workers {
		t.Errorf("got %d turns, want %d", len(turns), workers)
	}
}

func TestNewHistoryStore_FallsBackWhenRedisDown(t *testing.T) {
	s := config.Defaults().History
	s.Backend = "redis"
	s.RedisAddr = "127.0.0.1:1"

	historyStore := store.NewHistoryStore(context.Background(), s)
	if _, ok := historyStore.(*store.InMemoryHistoryStore); !ok {
		t.Errorf("expected in-memory fallback, got %T", historyStore)
	}
}
