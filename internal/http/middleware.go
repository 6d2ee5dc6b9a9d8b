package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/algocare/ops-console/config"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionGuard resolves the session cookie for protected routes and applies
// the configured invalid-session policy.
//
// The two failure shapes are deliberately distinct:
//   - no cookie at all: the client never authenticated; always fail closed
//     (browser redirect to login, API 401).
//   - cookie present but unresolvable: apply Policy. "redirect" fails closed
//     like above; "anonymous" lets the request continue with no identity.
type SessionGuard struct {
	Auth   AuthServiceInterface
	Policy config.InvalidSessionPolicy
}

// RequireAuth returns a middleware enforcing an authenticated session.
func (g SessionGuard) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, cookiePresent := g.resolveSession(r)
			if session != nil {
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if cookiePresent && g.Policy == config.SessionPolicyAnonymous {
				clearCookie(w, r, SessionCookieName, "")
				next.ServeHTTP(w, r)
				return
			}

			denyUnauthenticated(w, r)
		})
	}
}

// RequireRole returns a middleware enforcing a minimum role. Role checks
// always need an identity, so the anonymous policy cannot satisfy them.
func (g SessionGuard) RequireRole(requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := g.resolveSession(r)
			if session == nil {
				denyUnauthenticated(w, r)
				return
			}

			if !hasRequiredRole(session.Role, requiredRole) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveSession reads the session cookie and resolves it against the store.
// The second return reports whether a cookie was present at all.
func (g SessionGuard) resolveSession(r *http.Request) (*domainauth.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}
	session, err := g.Auth.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil, true
	}
	return session, true
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if isBrowserRequest(r) {
		redirectToLogin(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// hasRequiredRole checks if the user's role meets the required role.
// Role hierarchy: v < rw < admin.
func hasRequiredRole(userRole, requiredRole domainauth.Role) bool {
	roleHierarchy := map[domainauth.Role]int{
		domainauth.RoleViewer:    0,
		domainauth.RoleReadWrite: 1,
		domainauth.RoleAdmin:     2,
	}

	userLevel, userExists := roleHierarchy[userRole]
	requiredLevel, requiredExists := roleHierarchy[requiredRole]
	if !userExists || !requiredExists {
		return false
	}
	return userLevel >= requiredLevel
}

// isBrowserRequest determines whether a request expects an HTML response:
// API routes get JSON errors, everything else navigates.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin sends browser requests to the login entry point with the
// current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
// Protocol-relative "//host" and any backslash are rejected up front: browsers
// treat "\" as "/" when following Location, so "/\evil.com" would otherwise
// become an off-origin redirect.
func safeRedirectPath(candidate string) string {
	if candidate == "" || strings.HasPrefix(candidate, "//") || strings.ContainsRune(candidate, '\\') {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies so deletion works across browsers.
func clearCookie(w http.ResponseWriter, r *http.Request, name, cookieDomain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
