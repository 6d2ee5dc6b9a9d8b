package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/algocare/ops-console/internal/data/pgxutil"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	apperrors "github.com/algocare/ops-console/internal/errors"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailExists is returned when an insert collides with an existing email
	// outside the reconciling upsert path.
	ErrUserEmailExists = errors.New("user email already exists")
)

// UserRepo provides database operations for console accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Upsert reconciles a verified external identity into a user row keyed by
// email. An existing row keeps its internal id, password hash, and avatar;
// only the mutable attributes (role, auth_id, activation, updated_at) are
// refreshed. A new row gets the sentinel password hash and the supplied
// avatar. The account is re-activated on every successful login.
func (r *UserRepo) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				email, password_hash, role, is_active, avatar_url, auth_id, created_at, updated_at
			) VALUES (
				$1, $2, $3, TRUE, $4, $5, $6, $6
			)
			ON CONFLICT (email) DO UPDATE SET
				role = EXCLUDED.role,
				auth_id = EXCLUDED.auth_id,
				is_active = TRUE,
				updated_at = EXCLUDED.updated_at
			RETURNING id, email, password_hash, role, is_active, avatar_url, auth_id, created_at, updated_at
		`,
			strings.TrimSpace(req.Email),
			model.SentinelPasswordHash,
			req.Role,
			req.AvatarURL,
			nullableString(req.AuthID),
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a user by internal id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", email)
}

// List retrieves users with optional filters and pagination, newest first.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query, args := buildUsersListQuery(opts, limit, offset)

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// SetRole updates a user's role.
func (r *UserRepo) SetRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, errors.New("role must be one of: admin, rw, v")
	}
	return r.updateReturning(ctx, `
		UPDATE users SET role = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns, id, role, r.timeProvider.Now().UTC())
}

// SetActive updates a user's activation flag.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) (*model.User, error) {
	return r.updateReturning(ctx, `
		UPDATE users SET is_active = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns, id, active, r.timeProvider.Now().UTC())
}

// SetPasswordHash replaces a user's password hash.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id string, hash string) error {
	if hash == "" {
		return errors.New("password hash cannot be empty")
	}
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
			id, hash, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete deletes a user by id.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const userColumns = `id, email, password_hash, role, is_active, avatar_url, auth_id, created_at, updated_at`

const (
	userGetByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	userGetByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
)

// buildUsersListQuery builds the filtered list query with positional args.
func buildUsersListQuery(opts model.UsersListOptions, limit, offset int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		conds = append(conds, fmt.Sprintf("email ILIKE $%d", nextIdx()))
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
	}
	if opts.Role != nil {
		conds = append(conds, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, *opts.Role)
	}
	if opts.IsActive != nil {
		conds = append(conds, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *opts.IsActive)
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", nextIdx(), nextIdx()+1)
	args = append(args, limit, offset)
	return query, args
}

// getByQuery executes a query and returns a single user.
func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &user, nil
}

func (r *UserRepo) updateReturning(
	ctx context.Context,
	query string,
	args ...any,
) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrUserEmailExists
		}
		return nil, fmt.Errorf("failed to update user: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// nullableString turns an empty string into a NULL parameter.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
