package models

import "time"

// AuthToken represents an issued bearer token.
// The key is an opaque random string with no decodable structure; one row
// per user, reused across logins, validated on every authenticated request.
type AuthToken struct {
	ID        int64     `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedOn time.Time `json:"created_on" db:"created_on"`
}
