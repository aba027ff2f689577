// Package oauthstate keeps the single-use anti-forgery state values issued
// when an OAuth flow starts.
package oauthstate

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers issued states until they are consumed or expire.
type Store interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume reports whether state was issued and not yet used, and removes it.
	Consume(ctx context.Context, state string) (bool, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, key(state), "1", ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.client.GetDel(ctx, key(state)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func key(state string) string {
	return "oauth_state:" + state
}

// MemoryStore is used when no Redis address is configured. States do not
// survive a restart and are not shared between instances.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.states {
		if !now.Before(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return s.now().Before(exp), nil
}
