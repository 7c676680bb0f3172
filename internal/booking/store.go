package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "booking:draft:"

// ErrCorruptDraft marks a stored payload that no longer parses. Callers treat
// it as "no draft found"; it exists so they can log the occurrence.
var ErrCorruptDraft = errors.New("corrupt draft payload")

type Store interface {
	Load(ctx context.Context, key string) (Draft, bool, error)
	Save(ctx context.Context, key string, d Draft) error
	Delete(ctx context.Context, key string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string) (Draft, bool, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, err
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, false, ErrCorruptDraft
	}
	return d, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+key, raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, draftKeyPrefix+key).Err()
}

// MemoryStore backs the wizard when Redis is not configured. Values are kept
// as JSON so corrupt-payload behavior matches the Redis store.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (Draft, bool, error) {
	s.mu.Lock()
	raw, ok := s.drafts[key]
	s.mu.Unlock()
	if !ok {
		return Draft{}, false, nil
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, false, ErrCorruptDraft
	}
	return d, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.drafts, key)
	s.mu.Unlock()
	return nil
}
