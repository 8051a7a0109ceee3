package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrCredentialNotFound indicates no credential is stored for the account.
var ErrCredentialNotFound = errors.New("sqlite: credential not found")

// Credential is one stored OAuth token set.
type Credential struct {
	Account      string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scopes       string
	UpdatedAt    time.Time
}

// CredentialStore reads and writes stored credentials.
type CredentialStore struct {
	db *sql.DB
}

// Save upserts the credential for its account.
func (s *CredentialStore) Save(ctx context.Context, cred *Credential) error {
	query := `
INSERT INTO credentials (account, access_token, refresh_token, expiry, scopes, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(account) DO UPDATE SET
	access_token = excluded.access_token,
	refresh_token = excluded.refresh_token,
	expiry = excluded.expiry,
	scopes = excluded.scopes,
	updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		cred.Account, cred.AccessToken, cred.RefreshToken,
		cred.Expiry.UTC(), cred.Scopes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load returns the credential for the account, or ErrCredentialNotFound.
func (s *CredentialStore) Load(ctx context.Context, account string) (*Credential, error) {
	query := `
SELECT account, access_token, refresh_token, expiry, scopes, updated_at
FROM credentials WHERE account = ?`

	var cred Credential
	err := s.db.QueryRowContext(ctx, query, account).Scan(
		&cred.Account, &cred.AccessToken, &cred.RefreshToken,
		&cred.Expiry, &cred.Scopes, &cred.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &cred, nil
}

// First returns the single stored credential when exactly one account is
// known, which is the normal single-user case.
func (s *CredentialStore) First(ctx context.Context) (*Credential, error) {
	query := `
SELECT account, access_token, refresh_token, expiry, scopes, updated_at
FROM credentials ORDER BY updated_at DESC LIMIT 1`

	var cred Credential
	err := s.db.QueryRowContext(ctx, query).Scan(
		&cred.Account, &cred.AccessToken, &cred.RefreshToken,
		&cred.Expiry, &cred.Scopes, &cred.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &cred, nil
}

// Delete removes the credential for the account. Deleting a missing account
// is not an error.
func (s *CredentialStore) Delete(ctx context.Context, account string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE account = ?`, account); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
