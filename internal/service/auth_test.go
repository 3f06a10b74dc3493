package service

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/auth"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

type authFixture struct {
	users    *core.MockUserRepository
	sessions *MockSessionStore
	google   *MockOAuthProvider
}

func newAuthService(t *testing.T) (*AuthService, *authFixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &authFixture{
		users:    core.NewMockUserRepository(ctrl),
		sessions: NewMockSessionStore(ctrl),
		google:   NewMockOAuthProvider(ctrl),
	}
	f.google.EXPECT().Name().Return(auth.ProviderGoogle).AnyTimes()
	svc := NewAuthService(AuthServiceOptions{
		Users:      f.users,
		Sessions:   f.sessions,
		Providers:  []OAuthProvider{f.google},
		SessionTTL: time.Hour,
		NewID:      func() string { return "sess-1" },
	})
	return svc, f
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates account and session", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		var created *core.User
		f.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *core.User) error {
				created = u
				return nil
			})
		f.sessions.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, sess auth.Session) error {
				assert.Equal(t, "sess-1", sess.ID)
				assert.Equal(t, "pat@example.com", sess.Email)
				assert.Equal(t, auth.ProviderPassword, sess.Provider)
				assert.False(t, sess.Expired())
				return nil
			})

		sess, err := svc.Register(context.Background(), " Pat@Example.COM ", "Pat", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", sess.ID)

		require.NotNil(t, created)
		assert.Equal(t, "pat@example.com", created.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2hunter2")))
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		_, err := svc.Register(context.Background(), "pat@example.com", "Pat", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("malformed email", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		for _, email := range []string{"", "nope", "@example.com", "pat@"} {
			_, err := svc.Register(context.Background(), email, "Pat", "hunter2hunter2")
			assert.ErrorIs(t, err, ErrInvalidEmail, email)
		}
	})

	t.Run("duplicate email surfaces ErrUserExists", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.ErrUserExists)

		_, err := svc.Register(context.Background(), "pat@example.com", "Pat", "hunter2hunter2")
		assert.ErrorIs(t, err, model.ErrUserExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &core.User{Email: "pat@example.com", Name: "Pat", PasswordHash: string(hash)}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "pat@example.com").Return(stored, nil)
		f.sessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		sess, err := svc.Login(context.Background(), "PAT@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "Pat", sess.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "pat@example.com").Return(stored, nil)

		_, err := svc.Login(context.Background(), "pat@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(context.Background(), "ghost@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("oauth-only account has no password", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.users.EXPECT().
			GetByEmail(gomock.Any(), "pat@example.com").
			Return(&core.User{Email: "pat@example.com"}, nil)

		_, err := svc.Login(context.Background(), "pat@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	svc, f := newAuthService(t)

	sess := auth.Session{ID: "sess-1", Email: "pat@example.com", ExpiresAt: time.Now().Add(time.Hour)}
	f.sessions.EXPECT().Get(gomock.Any(), "sess-1").Return(sess, nil)
	got, err := svc.Session(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	f.sessions.EXPECT().Delete(gomock.Any(), "sess-1").Return(nil)
	assert.NoError(t, svc.Logout(context.Background(), "sess-1"))
}

func TestOAuth(t *testing.T) {
	t.Parallel()

	t.Run("begin returns provider auth URL", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.google.EXPECT().Begin(gomock.Any()).Return("https://idp/auth", "st", "nc", nil)

		authURL, state, nonce, err := svc.OAuthBegin(context.Background(), auth.ProviderGoogle)
		require.NoError(t, err)
		assert.Equal(t, "https://idp/auth", authURL)
		assert.Equal(t, "st", state)
		assert.Equal(t, "nc", nonce)
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		_, _, _, err := svc.OAuthBegin(context.Background(), auth.ProviderApple)
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("complete creates user on first sign-in", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		identity := auth.Identity{Email: "Pat@Example.com", Name: "Pat", Provider: auth.ProviderGoogle}
		f.google.EXPECT().Exchange(gomock.Any(), "code-1", "nonce-1").Return(identity, nil)
		f.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *core.User) error {
				assert.Equal(t, "pat@example.com", u.Email)
				assert.Empty(t, u.PasswordHash)
				return nil
			})
		f.sessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		sess, err := svc.OAuthComplete(context.Background(), auth.ProviderGoogle, "code-1", "nonce-1")
		require.NoError(t, err)
		assert.Equal(t, auth.ProviderGoogle, sess.Provider)
		assert.Equal(t, "pat@example.com", sess.Email)
	})

	t.Run("complete tolerates existing user", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.google.EXPECT().
			Exchange(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.Identity{Email: "pat@example.com", Provider: auth.ProviderGoogle}, nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.ErrUserExists)
		f.sessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.OAuthComplete(context.Background(), auth.ProviderGoogle, "c", "n")
		require.NoError(t, err)
	})

	t.Run("exchange failure", func(t *testing.T) {
		t.Parallel()
		svc, f := newAuthService(t)
		f.google.EXPECT().
			Exchange(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.Identity{}, errors.New("bad code"))

		_, err := svc.OAuthComplete(context.Background(), auth.ProviderGoogle, "c", "n")
		require.Error(t, err)
	})

	t.Run("enabled map", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		enabled := svc.OAuthEnabled()
		assert.True(t, enabled[auth.ProviderGoogle])
		assert.False(t, enabled[auth.ProviderApple])
	})
}
