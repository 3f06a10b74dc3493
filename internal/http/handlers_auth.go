package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/clearmed/clearmed-api/internal/domain/auth"
	"github.com/clearmed/clearmed-api/internal/domain/model"
	"github.com/clearmed/clearmed-api/internal/service"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNonceCookie = "oauth_nonce"
	oauthFlowTTL     = 10 * time.Minute
)

// AuthHandlers serves registration, login and the OAuth sign-in flow.
type AuthHandlers struct {
	Svc          *service.AuthService
	CookieName   string
	CookieDomain string
	Secure       bool
	Logger       *slog.Logger
}

// HandleRegister creates a password account and signs the user in.
func (h *AuthHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Svc.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.setSessionCookie(w, sess)
	WriteJSON(w, http.StatusCreated, sessionBody(sess))
}

// HandleLogin verifies credentials and starts a session.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.setSessionCookie(w, sess)
	WriteJSON(w, http.StatusOK, sessionBody(sess))
}

// HandleLogout drops the session server-side and clears the cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.CookieName); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(r.Context(), cookie.Value); err != nil {
			h.Logger.Warn("logout failed", "error", err)
		}
	}
	h.clearCookie(w, h.CookieName)
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleMe returns the signed-in user.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, sessionBody(sess))
}

// HandleOAuthEnabled reports which sign-in providers are configured.
func (h *AuthHandlers) HandleOAuthEnabled(w http.ResponseWriter, r *http.Request) {
	enabled := h.Svc.OAuthEnabled()
	WriteJSON(w, http.StatusOK, map[string]bool{
		"google": enabled[auth.ProviderGoogle],
		"apple":  enabled[auth.ProviderApple],
	})
}

// HandleOAuthBegin redirects to the identity provider, stashing state and
// nonce in short-lived cookies for callback verification.
func (h *AuthHandlers) HandleOAuthBegin(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(r.PathValue("provider"))
	authURL, state, nonce, err := h.Svc.OAuthBegin(r.Context(), provider)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.setFlowCookie(w, oauthStateCookie, state)
	h.setFlowCookie(w, oauthNonceCookie, nonce)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleOAuthCallback finishes the provider flow and starts a session.
func (h *AuthHandlers) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(r.PathValue("provider"))
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_oauth_state",
			Err:     errors.New("state mismatch; restart sign-in"),
		})
		return
	}
	var nonce string
	if nonceCookie, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = nonceCookie.Value
	}

	sess, err := h.Svc.OAuthComplete(r.Context(), provider, code, nonce)
	if err != nil {
		h.Logger.Warn("oauth callback failed", "provider", provider, "error", err)
		h.writeAuthError(w, err)
		return
	}

	h.clearCookie(w, oauthStateCookie)
	h.clearCookie(w, oauthNonceCookie)
	h.setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandlers) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
	case errors.Is(err, model.ErrUserExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "user_exists", Err: err})
	case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidEmail):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
	case errors.Is(err, service.ErrProviderNotConfigured):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "not_configured", Err: err})
	default:
		h.Logger.Error("auth failure", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal_error",
			Err:     errors.New("internal server error"),
		})
	}
}

func sessionBody(sess auth.Session) map[string]any {
	return map[string]any{
		"email":    sess.Email,
		"name":     sess.Name,
		"provider": sess.Provider,
	}
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, sess auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthFlowTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
