// Package devauth provides a config-driven credential provider for
// local development. It short-circuits the OAuth flow by redirecting
// straight back to the callback handler with locally generated state
// and nonce, and mints a signed token for the configured identity.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// Config controls the dev provider. SigningKey and the identity fields
// are required; Groups may be empty to exercise the no-role path.
type Config struct {
	UserID          string
	DisplayName     string
	Email           string
	Department      string
	Groups          []string
	SigningKey      string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.CredentialProvider for local development.
type Provider struct {
	identity        domainauth.Identity
	signingKey      []byte
	sessionDuration time.Duration
}

var _ ports.CredentialProvider = (*Provider)(nil)

// NewProvider constructs a dev credential provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.DisplayName == "" {
		return nil, errors.New("dev auth: DisplayName is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.SigningKey == "" {
		return nil, errors.New("dev auth: SigningKey is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			DisplayName: cfg.DisplayName,
			Email:       cfg.Email,
			Department:  cfg.Department,
			Groups:      append([]string(nil), cfg.Groups...),
		},
		signingKey:      []byte(cfg.SigningKey),
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and random state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The callback handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the code and returns a credential for the configured
// identity with a freshly minted HS256 token.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.Credential, error) {
	expiresAt := time.Now().Add(p.sessionDuration)
	claims := jwt.MapClaims{
		"sub":    p.identity.UserID,
		"name":   p.identity.DisplayName,
		"email":  p.identity.Email,
		"groups": p.identity.Groups,
		"iat":    time.Now().Unix(),
		"exp":    expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return ports.Credential{}, fmt.Errorf("sign dev token: %w", err)
	}

	return ports.Credential{
		Identity:  p.identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
