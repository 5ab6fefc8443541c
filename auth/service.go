// Package auth implements credential authentication and bearer-token
// issuance on top of the user and token stores.
package auth

import (
	"context"
	"errors"

	"task-service/models"
	"task-service/password"
	"task-service/store"
)

// ErrInvalidCredentials is returned for every failed login. It never
// discloses whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")

// Service verifies credentials and issues tokens.
type Service struct {
	users  *store.UserStore
	tokens *store.TokenStore
}

// NewService creates an auth service.
func NewService(users *store.UserStore, tokens *store.TokenStore) *Service {
	return &Service{users: users, tokens: tokens}
}

// Authenticate verifies an email/password pair and returns the user.
// A blank password fails before any hash comparison.
func (s *Service) Authenticate(ctx context.Context, email, pw string) (models.User, error) {
	if pw == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, ErrInvalidCredentials
	}
	if !password.Verify(pw, user.Password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and returns the user's token key. Repeat logins
// return the same key; there is one reusable token per user.
func (s *Service) Login(ctx context.Context, email, pw string) (string, error) {
	user, err := s.Authenticate(ctx, email, pw)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(ctx, user.ID)
}
