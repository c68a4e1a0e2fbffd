// internal/session/store.go
// Opaque key-value side channel for session state: the backend credential and
// the promoter's selected store. Redis-backed when available, in-memory
// otherwise; neither is the system of record for anything.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNoSession means the session key is unknown or expired.
var ErrNoSession = errors.New("session not found")

// KVStore persists per-session values under a session key.
type KVStore interface {
	SaveCredential(ctx context.Context, sessionID, credential string) error
	Credential(ctx context.Context, sessionID string) (string, error)
	SaveStoreID(ctx context.Context, sessionID, storeID string) error
	StoreID(ctx context.Context, sessionID string) (string, error)
	DeleteStoreID(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps session state in redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func credentialKey(sessionID string) string { return "session:" + sessionID + ":credential" }
func storeIDKey(sessionID string) string    { return "session:" + sessionID + ":store" }

func (s *RedisStore) SaveCredential(ctx context.Context, sessionID, credential string) error {
	return s.client.Set(ctx, credentialKey(sessionID), credential, s.ttl).Err()
}

func (s *RedisStore) Credential(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, credentialKey(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	return val, err
}

func (s *RedisStore) SaveStoreID(ctx context.Context, sessionID, storeID string) error {
	return s.client.Set(ctx, storeIDKey(sessionID), storeID, s.ttl).Err()
}

func (s *RedisStore) StoreID(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, storeIDKey(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	return val, err
}

func (s *RedisStore) DeleteStoreID(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, storeIDKey(sessionID)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, credentialKey(sessionID), storeIDKey(sessionID)).Err()
}

// MemoryStore is the fallback when redis is not configured. Sessions do not
// survive a restart, which only costs operators a re-login.
type MemoryStore struct {
	mu          sync.RWMutex
	credentials map[string]string
	storeIDs    map[string]string
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		credentials: make(map[string]string),
		storeIDs:    make(map[string]string),
	}
}

func (s *MemoryStore) SaveCredential(ctx context.Context, sessionID, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[sessionID] = credential
	return nil
}

func (s *MemoryStore) Credential(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[sessionID]
	if !ok {
		return "", ErrNoSession
	}
	return cred, nil
}

func (s *MemoryStore) SaveStoreID(ctx context.Context, sessionID, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeIDs[sessionID] = storeID
	return nil
}

func (s *MemoryStore) StoreID(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.storeIDs[sessionID]
	if !ok {
		return "", ErrNoSession
	}
	return id, nil
}

func (s *MemoryStore) DeleteStoreID(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.storeIDs, sessionID)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, sessionID)
	delete(s.storeIDs, sessionID)
	return nil
}
