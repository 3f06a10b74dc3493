package config

import "strings"

// OAuthProviderConfig contains client credentials for one OAuth/OIDC
// sign-in provider. A provider is offered to users only when both values
// are present.
type OAuthProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// Configured returns true when the provider has usable credentials.
func (p *OAuthProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

func (p *OAuthProviderConfig) sanitize() {
	p.ClientID = strings.TrimSpace(p.ClientID)
	p.ClientSecret = strings.TrimSpace(p.ClientSecret)
}

// AuthConfig groups all authentication-related configuration.
// Email/password accounts are always available; OAuth providers are
// additive and reported by GET /auth/oauth-enabled.
type AuthConfig struct {
	Google OAuthProviderConfig `envPrefix:"GOOGLE_"`
	Apple  OAuthProviderConfig `envPrefix:"APPLE_"`

	// SessionCookieName is the name of the session cookie.
	SessionCookieName string `env:"AUTH_SESSION_COOKIE" envDefault:"clearmed_session"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.Google.sanitize()
	a.Apple.sanitize()
	if a.SessionCookieName == "" {
		a.SessionCookieName = "clearmed_session"
	}
}
