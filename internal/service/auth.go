package service

import (
	"context"
	"crypto/md5" //nolint:gosec // avatar identicon lookup, not a security use
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/algocare/ops-console/internal/data"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/ports"
)

var (
	// ErrDomainNotAllowed is returned when an externally verified email fails
	// the domain gate. The provider token is revoked before this is returned.
	ErrDomainNotAllowed = errors.New("domain not allowed")
	// ErrInvalidCredentials is returned for any password login failure that
	// must not reveal whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when credentials are valid but the
	// account has been deactivated.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrSessionExpired is returned when a session exists but its lifetime
	// has elapsed. The stale record is removed before this is returned.
	ErrSessionExpired = errors.New("session expired")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	Users      ports.UserRepository
	Gate       *DomainGate
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// AuthService orchestrates authentication flows: provider exchange, domain
// gating, account reconciliation, role resolution, and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	users      ports.UserRepository
	gate       *DomainGate
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		users:      opts.Users,
		gate:       opts.Gate,
		sessionTTL: ttl,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL
// with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow. The exchanged email must
// pass the domain gate before anything is persisted; a rejected login revokes
// the provider token so no usable external session outlives the decision.
// An accepted identity is reconciled into the users table (keyed by email,
// internal id preserved) and a server-side session is created.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if !s.gate.Allowed(identity.Email) {
		if revokeErr := s.provider.Revoke(ctx, identity.Token); revokeErr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to revoke rejected provider token", "err", revokeErr)
		}
		return nil, ErrDomainNotAllowed
	}

	role := s.roles.Map(identity.Email)

	user, err := s.users.Upsert(ctx, &model.UpsertUserRequest{
		Email:     identity.Email,
		Role:      role,
		AvatarURL: avatarURL(identity.Email),
		AuthID:    identity.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile user: %w", err)
	}

	session, err := s.createSession(ctx, user, domainauth.AuthTypeOAuth)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "login completed", "user_id", user.ID, "role", user.Role)
	}
	return &CompleteLoginResult{Session: *session}, nil
}

// PasswordLogin authenticates with email and password. Failures that would
// reveal account existence all collapse into ErrInvalidCredentials.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*CompleteLoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	session, err := s.createSession(ctx, user, domainauth.AuthTypePassword)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: *session}, nil
}

// GetSession retrieves a session by ID, removing it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session. It never fails from the caller's perspective:
// a missing or already-removed session and a store error alike leave the
// client logged out, so the outcome is reported as success.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to delete session on logout", "err", err)
	}
}

// SessionTTL exposes the configured session lifetime for cookie Max-Age.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) createSession(
	ctx context.Context,
	user *model.User,
	authType domainauth.AuthType,
) (*domainauth.Session, error) {
	session := domainauth.Session{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		Authenticated: true,
		AuthType:      authType,
		IsActive:      user.IsActive,
		AvatarURL:     user.AvatarURL,
		ExpiresAt:     s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// avatarURL derives a deterministic identicon URL from the email address.
func avatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec // identicon hash
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}
