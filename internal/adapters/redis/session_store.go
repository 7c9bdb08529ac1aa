// Package redis provides Redis-backed adapters for session persistence.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// SessionStorage persists a single client's session under two keys: the
// bearer token and the serialized principal record. The pair is written
// and removed together; a read that finds only one of the two reports
// the session as absent.
type SessionStorage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStorage = (*SessionStorage)(nil)

// NewSessionStorage creates a session storage scoped by key prefix,
// typically one prefix per client. A zero ttl means keys do not expire.
func NewSessionStorage(client redis.UniversalClient, prefix string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStorage) tokenKey() string { return s.prefix + "token" }
func (s *SessionStorage) userKey() string  { return s.prefix + "user" }

// Write stores the token and record atomically so a crash between the
// two writes can never leave a half-persisted session.
func (s *SessionStorage) Write(ctx context.Context, token string, record []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), token, s.ttl)
	pipe.Set(ctx, s.userKey(), record, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write session: %w", err)
	}
	return nil
}

// Read fetches both keys in one round trip. Partial presence, from an
// expired key or an interrupted clear, reads as no session.
func (s *SessionStorage) Read(ctx context.Context) (string, []byte, bool, error) {
	vals, err := s.client.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil {
		return "", nil, false, fmt.Errorf("redis read session: %w", err)
	}

	token, tokenOK := vals[0].(string)
	record, recordOK := vals[1].(string)
	if !tokenOK || !recordOK || token == "" {
		return "", nil, false, nil
	}
	return token, []byte(record), true, nil
}

// Clear removes both keys. Deleting keys that do not exist is not an
// error.
func (s *SessionStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
