package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/ports"
)

const minPasswordLen = 8

// ErrPasswordTooShort is returned when a new password fails the length policy.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLen)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo   ports.UserRepository // Required: user repository
	Logger *slog.Logger         // Optional: structured logger
}

// UserService provides account administration on top of the user repository.
type UserService struct {
	repo   ports.UserRepository
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("UserRepository is required")
	}
	return &UserService{
		repo:   opts.Repo,
		logger: opts.Logger,
	}
}

// Upsert reconciles a user row keyed by email, preserving its internal id.
func (s *UserService) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	user, err := s.repo.Upsert(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user reconciled", "id", user.ID, "role", user.Role)
	}
	return user, nil
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// List retrieves users with the given options.
func (s *UserService) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	users, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Count returns the total number of users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// SetRole changes a user's role.
func (s *UserService) SetRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, errors.New("role must be one of: admin, rw, v")
	}
	user, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("set user role: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user role changed", "id", id, "role", role)
	}
	return user, nil
}

// SetActive activates or deactivates a user.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*model.User, error) {
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("set user active: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user active flag changed", "id", id, "active", active)
	}
	return user, nil
}

// SetPassword hashes and stores a new password, enabling the password login
// path for the account.
func (s *UserService) SetPassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetPasswordHash(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user password updated", "id", id)
	}
	return nil
}

// Delete removes a user by id. It reports whether a row was removed.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if deleted && s.logger != nil {
		s.logger.InfoContext(ctx, "user deleted", "id", id)
	}
	return deleted, nil
}
