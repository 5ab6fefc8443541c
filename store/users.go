package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"task-service/models"
	"task-service/password"

	"github.com/jmoiron/sqlx"
)

const minPasswordLength = 8

// UserStore persists user records and owns the credential rules:
// email normalization and uniqueness, the password length policy, hashing.
type UserStore struct {
	db       *sqlx.DB
	hashCost int
}

// NewUserStore creates a user store hashing passwords at the given bcrypt cost.
func NewUserStore(db *sqlx.DB, hashCost int) *UserStore {
	return &UserStore{db: db, hashCost: hashCost}
}

// CreateUserParams carries the fields accepted at registration.
type CreateUserParams struct {
	Name           string
	Email          string
	Password       string
	PreferredTheme string
}

// UpdateUserParams carries the optional profile fields; empty means untouched.
type UpdateUserParams struct {
	Name           string
	Email          string
	Password       string
	PreferredTheme string
}

// normalizeEmail lower-cases the domain portion of an email address.
// The local part keeps its casing: Test2@Example.com -> Test2@example.com.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", newValidationError("email", "email is required")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", newValidationError("email", "enter a valid email address")
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}

func validateTheme(theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return newValidationError("preferred_theme", "must be one of: light, dark")
	}
	return nil
}

// Create validates, hashes the password and persists a new user.
func (s *UserStore) Create(ctx context.Context, p CreateUserParams) (models.User, error) {
	return s.create(ctx, p, false, false)
}

// CreateSuperuser persists a new user with staff and superuser flags set.
func (s *UserStore) CreateSuperuser(ctx context.Context, email, pw string) (models.User, error) {
	return s.create(ctx, CreateUserParams{Email: email, Password: pw}, true, true)
}

func (s *UserStore) create(ctx context.Context, p CreateUserParams, isStaff, isSuperuser bool) (models.User, error) {
	email, err := normalizeEmail(p.Email)
	if err != nil {
		return models.User{}, err
	}
	if utf8.RuneCountInString(p.Password) < minPasswordLength {
		return models.User{}, newValidationError("password", "ensure this field has at least 8 characters")
	}
	if p.PreferredTheme == "" {
		p.PreferredTheme = models.ThemeLight
	}
	if err := validateTheme(p.PreferredTheme); err != nil {
		return models.User{}, err
	}

	if _, err := s.GetByEmail(ctx, email); err == nil {
		return models.User{}, newValidationError("email", "user with this email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashed, err := password.Hash(p.Password, s.hashCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password, preferred_theme, is_active, is_staff, is_superuser, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		p.Name, email, hashed, p.PreferredTheme, isStaff, isSuperuser, now, now)
	if err != nil {
		// The unique index may have fired between the duplicate check and
		// the insert; report the conflict, never the raw constraint text.
		if _, lookupErr := s.GetByEmail(ctx, email); lookupErr == nil {
			return models.User{}, newValidationError("email", "user with this email already exists")
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetByID(ctx, id)
}

// GetByEmail returns the user with the given email, normalized first.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return models.User{}, ErrNotFound
	}
	var user models.User
	err = s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = ?", normalized)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update applies the provided fields to an existing user. A provided
// password is re-validated and re-hashed; a provided email must not collide
// with another user.
func (s *UserStore) Update(ctx context.Context, id int64, p UpdateUserParams) (models.User, error) {
	setParts := []string{}
	args := []interface{}{}

	if p.Name != "" {
		setParts = append(setParts, "name = ?")
		args = append(args, p.Name)
	}
	newEmail := ""
	if p.Email != "" {
		email, err := normalizeEmail(p.Email)
		if err != nil {
			return models.User{}, err
		}
		if existing, err := s.GetByEmail(ctx, email); err == nil && existing.ID != id {
			return models.User{}, newValidationError("email", "user with this email already exists")
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return models.User{}, err
		}
		newEmail = email
		setParts = append(setParts, "email = ?")
		args = append(args, email)
	}
	if p.Password != "" {
		if utf8.RuneCountInString(p.Password) < minPasswordLength {
			return models.User{}, newValidationError("password", "ensure this field has at least 8 characters")
		}
		hashed, err := password.Hash(p.Password, s.hashCost)
		if err != nil {
			return models.User{}, err
		}
		setParts = append(setParts, "password = ?")
		args = append(args, hashed)
	}
	if p.PreferredTheme != "" {
		if err := validateTheme(p.PreferredTheme); err != nil {
			return models.User{}, err
		}
		setParts = append(setParts, "preferred_theme = ?")
		args = append(args, p.PreferredTheme)
	}

	if len(setParts) == 0 {
		return s.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		// The unique index may have fired between the collision check and
		// the update; report the conflict, never the raw constraint text.
		if newEmail != "" {
			if existing, lookupErr := s.GetByEmail(ctx, newEmail); lookupErr == nil && existing.ID != id {
				return models.User{}, newValidationError("email", "user with this email already exists")
			}
		}
		return models.User{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}
