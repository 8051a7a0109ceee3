// Package auth implements the Microsoft identity-platform authorization-code
// flow with PKCE and serves bearer tokens to the Graph connectors. Tokens are
// persisted so a login survives across runs; refresh happens lazily on use.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/storage/sqlite"
	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// DefaultScopes cover everything the tool touches. Requesting them all at
// login avoids incremental consent prompts later.
var DefaultScopes = []string{
	"openid",
	"offline_access",
	"User.Read",
	"Calendars.ReadWrite",
	"MailboxSettings.ReadWrite",
	"Files.ReadWrite",
}

// Config identifies the Azure app registration used for sign-in.
type Config struct {
	ClientID string
	// TenantID restricts sign-in to one directory; empty allows any account.
	TenantID string
	// RedirectPort is the localhost port the browser is sent back to.
	RedirectPort int
	Scopes       []string

	// endpointBase overrides the identity platform base URL in tests.
	endpointBase string
}

// ErrNotLoggedIn indicates no usable credential exists.
var ErrNotLoggedIn = errors.New("auth: not logged in, run 'oof auth login'")

func (c Config) oauthConfig() *oauth2.Config {
	tenant := c.TenantID
	if tenant == "" {
		tenant = "common"
	}
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	port := c.RedirectPort
	if port == 0 {
		port = 53682
	}

	base := c.endpointBase
	if base == "" {
		base = "https://login.microsoftonline.com/" + tenant + "/oauth2/v2.0"
	}
	return &oauth2.Config{
		ClientID: c.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + "/authorize",
			TokenURL: base + "/token",
		},
		RedirectURL: fmt.Sprintf("http://localhost:%d/callback", port),
		Scopes:      scopes,
	}
}

// Authenticator runs interactive logins and manages stored credentials.
type Authenticator struct {
	config      Config
	credentials *sqlite.CredentialStore
}

// NewAuthenticator creates an authenticator persisting into the given store.
func NewAuthenticator(config Config, credentials *sqlite.CredentialStore) *Authenticator {
	return &Authenticator{config: config, credentials: credentials}
}

// Login runs the browser-based code flow. The announce callback receives the
// authorization URL for the user to open; Login blocks until the redirect
// arrives or ctx is cancelled. Returns the signed-in account.
func (a *Authenticator) Login(ctx context.Context, announce func(authURL string)) (string, error) {
	conf := a.config.oauthConfig()
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	port := strings.TrimPrefix(conf.RedirectURL[strings.LastIndex(conf.RedirectURL, ":"):], ":")
	port = strings.TrimSuffix(port, "/callback")
	listener, err := net.Listen("tcp", "127.0.0.1:"+port)
	if err != nil {
		return "", fmt.Errorf("listen on redirect port: %w", err)
	}
	defer listener.Close()

	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)
	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if query.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				results <- callbackResult{err: errors.New("auth: state mismatch")}
				return
			}
			if errCode := query.Get("error"); errCode != "" {
				http.Error(w, errCode, http.StatusBadRequest)
				results <- callbackResult{err: fmt.Errorf("auth: %s: %s", errCode, query.Get("error_description"))}
				return
			}
			fmt.Fprintln(w, "Signed in. You can close this tab and return to the terminal.")
			results <- callbackResult{code: query.Get("code")}
		}),
	}
	go func() { _ = server.Serve(listener) }()
	defer server.Close()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	announce(authURL)

	var code string
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.err != nil {
			return "", result.err
		}
		code = result.code
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	account, err := a.resolveAccount(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}

	if err := a.credentials.Save(ctx, &sqlite.Credential{
		Account:      account,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       strings.Join(conf.Scopes, " "),
	}); err != nil {
		return "", err
	}

	logger.Debugf("auth: signed in as %s", account)
	return account, nil
}

// resolveAccount asks Graph who the token belongs to.
func (a *Authenticator) resolveAccount(ctx context.Context, accessToken string) (string, error) {
	client := microsoft.NewClient(staticToken(accessToken), microsoft.ServiceMailbox)
	info, err := microsoft.NewProfileService(client).Me(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve account: %w", err)
	}
	return info.Email(), nil
}

// Status returns the stored credential, or ErrNotLoggedIn.
func (a *Authenticator) Status(ctx context.Context) (*sqlite.Credential, error) {
	cred, err := a.credentials.First(ctx)
	if errors.Is(err, sqlite.ErrCredentialNotFound) {
		return nil, ErrNotLoggedIn
	}
	return cred, err
}

// Logout removes the stored credential for the account.
func (a *Authenticator) Logout(ctx context.Context, account string) error {
	return a.credentials.Delete(ctx, account)
}

// staticToken adapts a raw access token to the token provider port.
type staticToken string

func (t staticToken) GetToken(_ context.Context) (string, error) {
	return string(t), nil
}
