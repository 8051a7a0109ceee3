package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/storage/sqlite"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure TokenProvider implements the interface.
var _ driven.TokenProvider = (*TokenProvider)(nil)

// expirySkew treats tokens expiring this soon as already expired, so a token
// never dies mid-pipeline.
const expirySkew = time.Minute

// TokenProvider serves access tokens from the credential store, refreshing
// through the identity platform when the stored token is stale.
type TokenProvider struct {
	config      Config
	credentials *sqlite.CredentialStore

	mu     sync.Mutex
	cached *oauth2.Token
}

// NewTokenProvider creates a token provider over the stored credentials.
func NewTokenProvider(config Config, credentials *sqlite.CredentialStore) *TokenProvider {
	return &TokenProvider{config: config, credentials: credentials}
}

// GetToken returns a valid access token, refreshing and re-persisting it when
// needed. Returns ErrNotLoggedIn when no credential exists.
func (p *TokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Until(p.cached.Expiry) > expirySkew {
		return p.cached.AccessToken, nil
	}

	cred, err := p.credentials.First(ctx)
	if errors.Is(err, sqlite.ErrCredentialNotFound) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}

	if time.Until(cred.Expiry) > expirySkew {
		p.cached = &oauth2.Token{AccessToken: cred.AccessToken, Expiry: cred.Expiry}
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", ErrNotLoggedIn
	}

	logger.Debugf("auth: refreshing access token for %s", cred.Account)
	conf := p.config.oauthConfig()
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = cred.RefreshToken
	}
	if err := p.credentials.Save(ctx, &sqlite.Credential{
		Account:      cred.Account,
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       token.Expiry,
		Scopes:       strings.Join(conf.Scopes, " "),
	}); err != nil {
		return "", err
	}

	p.cached = token
	return token.AccessToken, nil
}
