package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"task-service/models"

	"github.com/jmoiron/sqlx"
)

// TokenStore persists opaque bearer tokens, one active token per user.
// A login reuses the existing key; there is no expiry or rotation.
type TokenStore struct {
	db *sqlx.DB
}

// NewTokenStore creates a token store.
func NewTokenStore(db *sqlx.DB) *TokenStore {
	return &TokenStore{db: db}
}

// generateTokenKey generates a cryptographically secure opaque key.
// 20 random bytes, hex encoded: unguessable, carries no structure.
func generateTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue returns the user's token key, creating a token on first login.
// Callers must have verified credentials already; this does not.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	var token models.AuthToken
	err := s.db.GetContext(ctx, &token, "SELECT * FROM auth_tokens WHERE user_id = ?", userID)
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}
	token = models.AuthToken{
		Key:       key,
		UserID:    userID,
		CreatedOn: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO auth_tokens (key, user_id, created_on) VALUES (?, ?, ?)",
		token.Key, token.UserID, token.CreatedOn)
	if err != nil {
		// A concurrent login may have inserted first; the unique index on
		// user_id guarantees a single row, so re-read it.
		var existing models.AuthToken
		if selErr := s.db.GetContext(ctx, &existing, "SELECT * FROM auth_tokens WHERE user_id = ?", userID); selErr == nil {
			return existing.Key, nil
		}
		return "", err
	}
	return token.Key, nil
}

// Resolve maps a token key to its user. Unknown, blank and malformed keys,
// and keys belonging to inactive users, all come back as ErrNotFound.
func (s *TokenStore) Resolve(ctx context.Context, key string) (models.User, error) {
	if key == "" {
		return models.User{}, ErrNotFound
	}
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT u.* FROM users u
		JOIN auth_tokens t ON t.user_id = u.id
		WHERE t.key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, ErrNotFound
	}
	return user, nil
}
