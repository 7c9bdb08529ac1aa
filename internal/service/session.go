package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	apperrors "github.com/peopledesk/hrm-ui-api/internal/errors"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// persistedSession is the serialized record written under the "user" key
// of the storage collaborator. The token is persisted separately; a
// reader treats one key without the other as absent.
type persistedSession struct {
	Principal     domainauth.Principal `json:"principal"`
	EstablishedAt time.Time            `json:"established_at"`
}

// SessionStore owns the authenticated context of one client. It holds at
// most one session; establishing a new one atomically replaces any prior
// one. No other component mutates the session.
//
// The mutex is the single critical section guarding the "at most one
// session, atomically replaced" invariant; every mutation is visible to
// every subsequent Current call.
type SessionStore struct {
	mu      sync.Mutex
	storage ports.SessionStorage
	logger  *slog.Logger
	current *domainauth.Session
}

// NewSessionStore builds a store and restores any persisted session.
// Persisted data that fails structural validation (bad JSON, missing
// fields, unknown role, partial key presence) is discarded and the store
// starts absent; a partially-valid principal is never exposed. Storage
// read failures also start absent rather than surfacing an error, so the
// admission pipeline always has a session state to consult.
func NewSessionStore(ctx context.Context, storage ports.SessionStorage, logger *slog.Logger) *SessionStore {
	s := &SessionStore{storage: storage, logger: logger}
	s.restore(ctx)
	return s
}

func (s *SessionStore) restore(ctx context.Context) {
	token, record, ok, err := s.storage.Read(ctx)
	if err != nil {
		s.log().WarnContext(ctx, "session restore failed, starting unauthenticated", "error", err)
		return
	}
	if !ok {
		return
	}

	var stored persistedSession
	if unmarshalErr := json.Unmarshal(record, &stored); unmarshalErr != nil {
		s.discard(ctx, "unparsable session record", unmarshalErr)
		return
	}
	if token == "" {
		s.discard(ctx, "persisted session missing token", nil)
		return
	}
	if validateErr := stored.Principal.Validate(); validateErr != nil {
		s.discard(ctx, "persisted principal failed validation", validateErr)
		return
	}

	s.current = &domainauth.Session{
		Token:         token,
		Principal:     stored.Principal,
		EstablishedAt: stored.EstablishedAt,
	}
}

func (s *SessionStore) discard(ctx context.Context, reason string, cause error) {
	s.log().WarnContext(ctx, "discarding persisted session", "reason", reason, "error", cause)
	if err := s.storage.Clear(ctx); err != nil {
		s.log().WarnContext(ctx, "clearing invalid persisted session failed", "error", err)
	}
}

// Establish replaces the current session and persists it. The principal
// is validated at this boundary; an unknown role is rejected here rather
// than allowed to flow into admission comparisons.
func (s *SessionStore) Establish(ctx context.Context, token string, principal domainauth.Principal) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, apperrors.Validation("session token is required")
	}
	if err := principal.Validate(); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid principal")
	}

	sess := domainauth.Session{
		Token:         token,
		Principal:     principal,
		EstablishedAt: time.Now().UTC(),
	}

	record, err := json.Marshal(persistedSession{
		Principal:     sess.Principal,
		EstablishedAt: sess.EstablishedAt,
	})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if writeErr := s.storage.Write(ctx, token, record); writeErr != nil {
		return domainauth.Session{}, fmt.Errorf("persist session: %w", writeErr)
	}
	s.current = &sess

	return sess, nil
}

// Clear removes the current session and its persisted form. The
// in-memory session is dropped first so the logout is visible to every
// subsequent admission check even when the storage removal fails.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// Current returns the session, if any. Pure read.
func (s *SessionStore) Current() (domainauth.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domainauth.Session{}, false
	}
	return *s.current, true
}

func (s *SessionStore) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
