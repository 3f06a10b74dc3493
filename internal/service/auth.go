package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/auth"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike so
	// login failures don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a registration password is too short.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)

	// ErrInvalidEmail is returned for malformed registration emails.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrProviderNotConfigured is returned when an OAuth flow is started for
	// a provider without credentials.
	ErrProviderNotConfigured = errors.New("identity provider is not configured")
)

// SessionStore persists sessions between requests. The Redis adapter is the
// production implementation.
type SessionStore interface {
	Save(ctx context.Context, sess auth.Session) error
	Get(ctx context.Context, id string) (auth.Session, error)
	Delete(ctx context.Context, id string) error
}

// OAuthProvider is one configured OIDC identity provider.
type OAuthProvider interface {
	Name() auth.Provider
	Begin(ctx context.Context) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, code, nonce string) (auth.Identity, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      core.UserRepository
	Sessions   SessionStore
	Providers  []OAuthProvider
	SessionTTL time.Duration

	// NewID overrides session ID generation (tests).
	NewID func() string
}

// AuthService handles password accounts, OAuth sign-in and session
// lifecycle.
type AuthService struct {
	users      core.UserRepository
	sessions   SessionStore
	providers  map[auth.Provider]OAuthProvider
	sessionTTL time.Duration
	newID      func() string
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	providers := make(map[auth.Provider]OAuthProvider, len(opts.Providers))
	for _, p := range opts.Providers {
		providers[p.Name()] = p
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		providers:  providers,
		sessionTTL: ttl,
		newID:      newID,
	}
}

// Register creates a password account and signs the user in.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (auth.Session, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return auth.Session{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return auth.Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := &core.User{Email: email, Name: strings.TrimSpace(name), PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return auth.Session{}, err
	}

	return s.mintSession(ctx, auth.Identity{
		Email:    email,
		Name:     user.Name,
		Provider: auth.ProviderPassword,
	})
}

// Login verifies a password account and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Session, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return auth.Session{}, fmt.Errorf("look up user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return auth.Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return auth.Session{}, ErrInvalidCredentials
	}

	return s.mintSession(ctx, auth.Identity{
		Email:    user.Email,
		Name:     user.Name,
		Provider: auth.ProviderPassword,
	})
}

// Logout removes the session. Unknown session IDs are a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Session fetches a live session by ID.
func (s *AuthService) Session(ctx context.Context, sessionID string) (auth.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// OAuthBegin starts the authorization code flow for one provider.
func (s *AuthService) OAuthBegin(ctx context.Context, provider auth.Provider) (authURL, state, nonce string, err error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", "", "", ErrProviderNotConfigured
	}
	return p.Begin(ctx)
}

// OAuthComplete redeems the provider callback and signs the user in. A user
// row is created on first sign-in so scan history has a stable key.
func (s *AuthService) OAuthComplete(ctx context.Context, provider auth.Provider, code, nonce string) (auth.Session, error) {
	p, ok := s.providers[provider]
	if !ok {
		return auth.Session{}, ErrProviderNotConfigured
	}
	identity, err := p.Exchange(ctx, code, nonce)
	if err != nil {
		return auth.Session{}, fmt.Errorf("oauth exchange: %w", err)
	}
	identity.Email = normalizeEmail(identity.Email)

	err = s.users.Create(ctx, &core.User{Email: identity.Email, Name: identity.Name})
	if err != nil && !errors.Is(err, model.ErrUserExists) {
		return auth.Session{}, fmt.Errorf("create oauth user: %w", err)
	}

	return s.mintSession(ctx, identity)
}

// OAuthEnabled reports which providers have credentials configured. The
// client uses this to decide which sign-in buttons to render.
func (s *AuthService) OAuthEnabled() map[auth.Provider]bool {
	enabled := map[auth.Provider]bool{
		auth.ProviderGoogle: false,
		auth.ProviderApple:  false,
	}
	for name := range s.providers {
		enabled[name] = true
	}
	return enabled
}

func (s *AuthService) mintSession(ctx context.Context, identity auth.Identity) (auth.Session, error) {
	sess := auth.Session{
		ID:        s.newID(),
		Email:     identity.Email,
		Name:      identity.Name,
		Provider:  identity.Provider,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return auth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
