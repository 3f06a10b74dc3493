package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clearmed/clearmed-api/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Scans *service.ScanService
	Chat  *service.ChatService
	Auth  *service.AuthService

	SessionCookieName string
	CookieDomain      string
	ScanTimeout       time.Duration
	IsDev             bool
	Logger            *slog.Logger
}

// NewRouter wires handlers, per-route auth and the global middleware chain.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scanHandlers := &ScanHandlers{Svc: services.Scans, Logger: logger}
	chatHandlers := &ChatHandlers{Svc: services.Chat, Logger: logger}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieName:   services.SessionCookieName,
		CookieDomain: services.CookieDomain,
		Secure:       !services.IsDev,
		Logger:       logger,
	}

	requireAuth := RequireAuth(services.Auth, services.SessionCookieName)
	optionalAuth := OptionalAuth(services.Auth, services.SessionCookieName)

	mux := http.NewServeMux()

	// Scan routes. The trigger call waits on the workflow engine, so it gets
	// its own request ceiling.
	mux.Handle("POST /api/scan",
		Timeout(services.ScanTimeout)(requireAuth(http.HandlerFunc(scanHandlers.HandleScan))))
	mux.Handle("GET /api/results", http.HandlerFunc(scanHandlers.HandleResults))
	mux.Handle("GET /api/history", requireAuth(http.HandlerFunc(scanHandlers.HandleHistory)))
	mux.Handle("POST /api/history", requireAuth(http.HandlerFunc(scanHandlers.HandleHistoryAppend)))

	// Chat stays available to anonymous users; a session only attributes the
	// conversation.
	mux.Handle("POST /api/chat", optionalAuth(http.HandlerFunc(chatHandlers.HandleChat)))

	// Auth routes.
	mux.Handle("POST /auth/register", http.HandlerFunc(authHandlers.HandleRegister))
	mux.Handle("POST /auth/login", http.HandlerFunc(authHandlers.HandleLogin))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.HandleLogout))
	mux.Handle("GET /auth/me", optionalAuth(http.HandlerFunc(authHandlers.HandleMe)))
	mux.Handle("GET /auth/oauth-enabled", http.HandlerFunc(authHandlers.HandleOAuthEnabled))
	mux.Handle("GET /auth/oauth/{provider}", http.HandlerFunc(authHandlers.HandleOAuthBegin))
	mux.Handle("GET /auth/oauth/{provider}/callback", http.HandlerFunc(authHandlers.HandleOAuthCallback))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
