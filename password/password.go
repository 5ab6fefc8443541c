// Package password wraps bcrypt hashing for stored credentials.
// Every hash carries a fresh per-record salt, so equal inputs produce
// different digests; verification, not equality, is the check.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used when no cost is configured.
const DefaultCost = 12

// Hash derives a salted one-way digest from a plaintext password.
func Hash(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
// bcrypt compares in constant time internally.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
