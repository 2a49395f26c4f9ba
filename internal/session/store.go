// Package session persists the single opaque bearer token of the signed-in user.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// TokenKey is the storage key the token lives under in every backend.
const TokenKey = "auth_token"

// Store keeps one token. Get returns "" when there is no session.
type Store interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisAddr  string
	RedisKey   string
}

// Open builds the configured store. The returned close func releases the backend.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		s, err := NewSQLiteStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, opts.RedisAddr, opts.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}

// normalize treats blank tokens as no session.
func normalize(token string) string {
	if strings.TrimSpace(token) == "" {
		return ""
	}
	return token
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Get(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return normalize(m.token), nil
}

func (m *MemoryStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
