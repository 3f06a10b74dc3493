package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Provider identifies how an account was established.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
	ProviderApple    Provider = "apple"
)

// Identity represents the authenticated principal. Adapters map
// provider-specific claims (or password-store rows) into this shape.
type Identity struct {
	Email    string
	Name     string
	Provider Provider
}

// Session is the server-side record persisted for a signed-in user.
// ID is an opaque session identifier carried in a cookie.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  Provider  `json:"provider"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s Session) Expired() bool { return time.Now().After(s.ExpiresAt) }
