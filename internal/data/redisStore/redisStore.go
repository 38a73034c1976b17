package redisStore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    = logger_i.NewLogger("Redis Store")
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// GetRedisStore hands out one client per logical db. It returns nil when redis
// cannot be reached so callers can fall back to an in-process store.
func GetRedisStore(ctx context.Context, opts Options) *Store {

	mu.RLock()
	instance, exists := instances[opts.DB]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[opts.DB]; exists {
		return instance
	}
	return createNewStore(ctx, opts)
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for db, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "db", db, "error", err)
		}
		delete(instances, db)
	}
	logger.Info("Redis Store Closed successfully")
}

func createNewStore(ctx context.Context, opts Options) *Store {
	log := logger.With("db", strconv.Itoa(opts.DB), "addr", opts.Addr)
	newClient := redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    opts.DB,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.RedisPingTimeout)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		log.Error("Redis is offline", "error", err)
		_ = newClient.Close()
		return nil
	}

	log.Info("Redis client init successfully")

	newStore := &Store{
		client: newClient,
		Type:   opts.DB,
	}

	instances[opts.DB] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore wraps an existing client, used with miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
