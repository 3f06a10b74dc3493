package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clearmed/clearmed-api/config"
	httpx "github.com/clearmed/clearmed-api/internal/http"
)

// NewHTTPServer builds the router and the http.Server around it. Timeouts
// leave headroom for the scan path, which waits synchronously on the
// workflow engine.
func NewHTTPServer(cfg config.AppConfig, services *Services, logger *slog.Logger) *http.Server {
	router := httpx.NewRouter(httpx.RouterServices{
		Scans:             services.Scans,
		Chat:              services.Chat,
		Auth:              services.Auth,
		SessionCookieName: cfg.Auth.SessionCookieName,
		CookieDomain:      cfg.HTTP.CookieDomain,
		ScanTimeout:       cfg.HTTP.ScanTimeout,
		IsDev:             cfg.IsDev,
		Logger:            logger,
	})

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTP.ScanTimeout + 10*time.Second,
		WriteTimeout:      cfg.HTTP.ScanTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
