package models

import "time"

// Preferred theme values for a user. The column is a closed enumeration.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User represents a user in the system
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Password       string    `json:"-" db:"password"` // Hashed; omitted from JSON
	PreferredTheme string    `json:"preferred_theme" db:"preferred_theme"`
	IsActive       bool      `json:"-" db:"is_active"`
	IsStaff        bool      `json:"-" db:"is_staff"`
	IsSuperuser    bool      `json:"-" db:"is_superuser"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest represents the POST /user/register body
// Password is plaintext here; it is hashed before storage and never echoed
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PreferredTheme string `json:"preferred_theme,omitempty"`
}

// LoginRequest represents the POST /user/login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the login response carrying the opaque bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest represents PUT/PATCH /user/profile
// All fields optional; omitted fields are left untouched
type UpdateProfileRequest struct {
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Password       string `json:"password,omitempty"` // Plaintext; re-hashed if provided
	PreferredTheme string `json:"preferred_theme,omitempty"`
}

// ProfileResponse is the externally visible user shape for profile endpoints.
// Staff/superuser flags and the password hash are deliberately absent.
type ProfileResponse struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PreferredTheme string `json:"preferred_theme"`
}
