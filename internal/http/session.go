package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/clearmed/clearmed-api/internal/domain/auth"
)

// SessionResolver is the slice of the auth service middleware needs.
type SessionResolver interface {
	Session(ctx context.Context, sessionID string) (auth.Session, error)
}

type sessionCtxKey struct{}

func setSession(ctx context.Context, sess auth.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(auth.Session)
	return sess, ok
}

func sessionFromRequest(r *http.Request, sessions SessionResolver, cookieName string) (auth.Session, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return auth.Session{}, false
	}
	sess, err := sessions.Session(r.Context(), cookie.Value)
	if err != nil || sess.Expired() {
		return auth.Session{}, false
	}
	return sess, true
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
