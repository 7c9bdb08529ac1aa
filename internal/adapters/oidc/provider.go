// Package oidc provides the OIDC/OAuth2 credential provider.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// defaultGroupsExpr extracts groups from the common "groups" claim.
const defaultGroupsExpr = "groups"

// Provider implements ports.CredentialProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	groupsExpr string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

var _ ports.CredentialProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC provider. GroupsExpr
// is a JMESPath expression evaluated against the raw token claims to
// extract the principal's group list; identity providers disagree on
// where they put it ("groups", "memberof", "realm_access.roles").
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	GroupsExpr   string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. It performs a single
// discovery fetch up front.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	groupsExpr := cfg.GroupsExpr
	if groupsExpr == "" {
		groupsExpr = defaultGroupsExpr
	}
	if _, err := jmespath.Compile(groupsExpr); err != nil {
		return nil, fmt.Errorf("compile groups expression: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		logoutURL:  cfg.LogoutURL,
		groupsExpr: groupsExpr,
		httpClient: httpClient,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: cfg.ClientID})

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       strings.Fields(cfg.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// LogoutURL returns the provider's end-session URL, if configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.Credential, error) {
	if in.Code == "" {
		return ports.Credential{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return ports.Credential{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return ports.Credential{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return ports.Credential{}, fmt.Errorf("exchange code for token: %w", err)
	}

	claims, err := p.verifiedClaims(ctx, token, in.Nonce)
	if err != nil {
		return ports.Credential{}, err
	}

	identity, err := p.identityFromClaims(claims)
	if err != nil {
		return ports.Credential{}, err
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return ports.Credential{
		Identity:  identity,
		Token:     token.AccessToken,
		ExpiresAt: expiresAt,
	}, nil
}

// verifiedClaims verifies the id_token against the issuer keys and the
// expected nonce, then returns its raw claim map.
func (p *Provider) verifiedClaims(ctx context.Context, tok *oauth2.Token, expectedNonce string) (map[string]any, error) {
	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" {
		return nil, errors.New("missing id_token in token response")
	}

	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if expectedNonce != "" && idTok.Nonce != expectedNonce {
		return nil, errors.New("invalid nonce")
	}

	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id_token claims: %w", err)
	}
	return claims, nil
}

func (p *Provider) identityFromClaims(claims map[string]any) (domainauth.Identity, error) {
	identity := domainauth.Identity{
		UserID:      claimString(claims, "preferred_username", "sub"),
		DisplayName: claimString(claims, "name"),
		Email:       claimString(claims, "email"),
		Department:  claimString(claims, "department"),
	}
	if identity.DisplayName == "" {
		identity.DisplayName = strings.TrimSpace(
			claimString(claims, "given_name") + " " + claimString(claims, "family_name"))
	}
	if identity.UserID == "" {
		return domainauth.Identity{}, errors.New("id_token carries no subject")
	}

	groups, err := p.extractGroups(claims)
	if err != nil {
		return domainauth.Identity{}, err
	}
	identity.Groups = groups
	return identity, nil
}

// extractGroups evaluates the configured JMESPath expression against
// the claim map. A result that is nil or not a string list yields no
// groups, which the role mapper treats as no role.
func (p *Provider) extractGroups(claims map[string]any) ([]string, error) {
	result, err := jmespath.Search(p.groupsExpr, claims)
	if err != nil {
		return nil, fmt.Errorf("evaluate groups expression: %w", err)
	}

	switch v := result.(type) {
	case nil:
		return nil, nil
	case []any:
		groups := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				groups = append(groups, s)
			}
		}
		return groups, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	default:
		return nil, nil
	}
}

// claimString returns the first non-empty string claim among keys.
func claimString(claims map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := claims[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// generateRandomString generates a URL-safe random string of exact
// length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
