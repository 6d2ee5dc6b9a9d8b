package httpx

const (
	// SessionCookieName is the auth cookie. It carries only the opaque
	// server-side session id.
	SessionCookieName = "auth-session"

	// oauthStateCookie and oauthNonceCookie hold the short-lived values for
	// an in-flight OAuth login.
	oauthStateCookie = "oauth_state"
	oauthNonceCookie = "oauth_nonce"
	// postLoginRedirectCookie remembers where to land after the callback.
	postLoginRedirectCookie = "post_login_redirect"

	// oauthCookieMaxAge bounds how long an in-flight login may take.
	oauthCookieMaxAge = 600 // seconds
)
