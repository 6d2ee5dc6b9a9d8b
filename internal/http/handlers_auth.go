package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	PasswordLogin(ctx context.Context, email, password string) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string)
	SessionTTL() time.Duration
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// PublicOrigin is the externally visible origin used for post-failure
	// login redirects. Relative redirects are used when empty.
	PublicOrigin string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
//
// A rejected or broken login never strands the user on a JSON error page:
// every failure redirects back to the login page with an error code.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.redirectLoginError(w, r, "missing_params")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		h.redirectLoginError(w, r, "invalid_state")
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		h.redirectLoginError(w, r, "missing_nonce")
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		if errors.Is(err, service.ErrDomainNotAllowed) {
			h.redirectLoginError(w, r, "domain_not_allowed")
			return
		}
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		h.redirectLoginError(w, r, "login_failed")
		return
	}

	h.setSessionCookie(w, r, result.Session)
	clearCookie(w, r, oauthStateCookie, h.CookieDomain)
	clearCookie(w, r, oauthNonceCookie, h.CookieDomain)

	redirectURI := h.getPostLoginRedirect(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// PasswordLogin handles the email/password login endpoint.
// POST /auth/password with a JSON body {"email": ..., "password": ...}.
func (h *AuthHandlers) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.PasswordLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
		case errors.Is(err, service.ErrAccountDisabled):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "account_disabled", Err: err})
		default:
			h.logger().ErrorContext(r.Context(), "password login failed", "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "login_failed",
				Err:     errors.New("login failed"),
			})
		}
		return
	}

	h.setSessionCookie(w, r, result.Session)
	WriteJSON(w, http.StatusOK, sessionPayload(result.Session))
}

// Logout handles the logout endpoint.
// POST /auth/logout. Logout always succeeds: whatever the state of the
// server-side session, the client ends up signed out.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		h.Svc.Logout(r.Context(), sessionCookie.Value)
	}
	clearCookie(w, r, SessionCookieName, h.CookieDomain)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		clearCookie(w, r, SessionCookieName, h.CookieDomain)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, sessionPayload(*session))
}

func sessionPayload(s domainauth.Session) map[string]any {
	return map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         s.UserID,
			"email":      s.Email,
			"role":       s.Role,
			"is_active":  s.IsActive,
			"avatar_url": s.AvatarURL,
		},
		"auth_type":  s.AuthType,
		"expires_at": s.ExpiresAt,
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// redirectLoginError sends the browser back to the login page with an error code.
func (h *AuthHandlers) redirectLoginError(w http.ResponseWriter, r *http.Request, errCode string) {
	base := strings.TrimSuffix(h.PublicOrigin, "/")
	http.Redirect(w, r, base+"/login?error="+url.QueryEscape(errCode), http.StatusFound)
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := isSecureRequest(r)
	for name, value := range map[string]string{
		oauthStateCookie:        p.State,
		oauthNonceCookie:        p.Nonce,
		postLoginRedirectCookie: p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieMaxAge,
		})
	}
}

// setSessionCookie writes the auth-session cookie based on the session's expiry.
// The cookie value is only the opaque session id.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie(postLoginRedirectCookie); err == nil {
		redirectURI = safeRedirectPath(redirectCookie.Value)
		clearCookie(w, r, postLoginRedirectCookie, h.CookieDomain)
	}
	return redirectURI
}
