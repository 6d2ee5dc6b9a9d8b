package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	redisadapter "github.com/algocare/ops-console/internal/adapters/redis"
	"github.com/algocare/ops-console/internal/data"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/service"
)

const userCommandTimeout = time.Minute

type userListOptions struct {
	Q        string
	Role     string
	Inactive bool
	Limit    int
	Offset   int
}

type userTargetOptions struct {
	Email string
	ID    string
}

type userSetRoleOptions struct {
	userTargetOptions
	Role string
}

type userSetPasswordOptions struct {
	userTargetOptions
	Password string
	Generate bool
}

type sessionsClearOptions struct {
	Yes bool
}

func runUserList(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserListFlags(args)
	if err != nil {
		return err
	}

	return withUserService(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		listOpts := model.UsersListOptions{
			Limit:  opts.Limit,
			Offset: opts.Offset,
		}
		if opts.Q != "" {
			listOpts.Q = &opts.Q
		}
		if opts.Role != "" {
			role := domainauth.Role(opts.Role)
			if !role.Valid() {
				return fmt.Errorf("invalid role %q; expected admin, rw, or v", opts.Role)
			}
			listOpts.Role = &role
		}
		if opts.Inactive {
			inactive := false
			listOpts.IsActive = &inactive
		}

		list, listErr := users.List(ctx, listOpts)
		if listErr != nil {
			return fmt.Errorf("list users: %w", listErr)
		}

		return printUserTable(os.Stdout, list)
	})
}

func runUserSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserSetRoleFlags(args)
	if err != nil {
		return err
	}

	role := domainauth.Role(opts.Role)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q; expected admin, rw, or v", opts.Role)
	}

	return withUserService(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		u, resolveErr := resolveUser(ctx, users, opts.userTargetOptions)
		if resolveErr != nil {
			return resolveErr
		}

		updated, setErr := users.SetRole(ctx, u.ID, role)
		if setErr != nil {
			return fmt.Errorf("set role: %w", setErr)
		}

		cmdCtx.Logger.Info("role updated", "email", updated.Email, "role", updated.Role)
		return nil
	})
}

func runUserActivate(cmdCtx *commandContext, args []string) error {
	return runUserSetActive(cmdCtx, args, "user-activate", true)
}

func runUserDeactivate(cmdCtx *commandContext, args []string) error {
	return runUserSetActive(cmdCtx, args, "user-deactivate", false)
}

func runUserSetActive(cmdCtx *commandContext, args []string, name string, active bool) error {
	opts, err := parseUserTargetFlags(name, args)
	if err != nil {
		return err
	}

	return withUserService(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		u, resolveErr := resolveUser(ctx, users, opts)
		if resolveErr != nil {
			return resolveErr
		}

		updated, setErr := users.SetActive(ctx, u.ID, active)
		if setErr != nil {
			return fmt.Errorf("set active: %w", setErr)
		}

		cmdCtx.Logger.Info("account status updated", "email", updated.Email, "is_active", updated.IsActive)
		return nil
	})
}

func runUserSetPassword(cmdCtx *commandContext, args []string) error {
	opts, err := parseUserSetPasswordFlags(args)
	if err != nil {
		return err
	}

	password := opts.Password
	if opts.Generate {
		password, err = generatePassword()
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
	}

	return withUserService(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		u, resolveErr := resolveUser(ctx, users, opts.userTargetOptions)
		if resolveErr != nil {
			return resolveErr
		}

		if setErr := users.SetPassword(ctx, u.ID, password); setErr != nil {
			if errors.Is(setErr, service.ErrPasswordTooShort) {
				return setErr
			}
			return fmt.Errorf("set password: %w", setErr)
		}

		cmdCtx.Logger.Info("password updated", "email", u.Email)
		if opts.Generate {
			if printErr := writef(os.Stdout, "Generated password for %s: %s\n", u.Email, password); printErr != nil {
				return fmt.Errorf("print generated password: %w", printErr)
			}
		}
		return nil
	})
}

func runSessionsClear(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsClearFlags(args)
	if err != nil {
		return err
	}

	if !opts.Yes {
		if confirmErr := confirmAction(dbResetConfirmOptions{
			target: "the configured Redis instance",
		}, "sign out every active user"); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, userCommandTimeout)
	defer cancel()

	_, redisClient, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantRedis: true,
	})
	if err != nil {
		return err
	}
	if redisClient == nil {
		if writeErr := writeln(os.Stderr, "Redis client is not available"); writeErr != nil {
			return fmt.Errorf("print redis availability: %w", writeErr)
		}
		return nil
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	store := redisadapter.NewSessionStore(redisClient)
	deleted, err := store.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	cmdCtx.Logger.Info("sessions cleared", "deleted", deleted)
	if printErr := writef(os.Stdout, "Deleted %d session(s)\n", deleted); printErr != nil {
		return fmt.Errorf("print sessions summary: %w", printErr)
	}
	return nil
}

func withUserService(
	cmdCtx *commandContext,
	f func(context.Context, *service.UserService) error,
) error {
	return withDatabase(cmdCtx, userCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		users := service.NewUserService(service.UserServiceOptions{
			Repo:   data.NewUserRepo(db),
			Logger: cmdCtx.Logger,
		})
		return f(ctx, users)
	})
}

func resolveUser(
	ctx context.Context,
	users *service.UserService,
	opts userTargetOptions,
) (*model.User, error) {
	var (
		u   *model.User
		err error
	)
	if opts.ID != "" {
		u, err = users.GetByID(ctx, opts.ID)
	} else {
		u, err = users.GetByEmail(ctx, opts.Email)
	}
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, errors.New("no user matches the given --email/--id")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}

func printUserTable(out io.Writer, list []*model.User) error {
	if len(list) == 0 {
		return writeln(out, "(no users found)")
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Email\tRole\tActive\tLogin\tCreated"); err != nil {
		return fmt.Errorf("write user table header: %w", err)
	}
	for _, u := range list {
		login := "oauth"
		if u.HasPassword() {
			login = "password"
		}
		if err := writef(
			w,
			"%s\t%s\t%t\t%s\t%s\n",
			u.Email,
			u.Role,
			u.IsActive,
			login,
			u.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("write user row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush user table: %w", err)
	}
	return nil
}

func parseUserListFlags(args []string) (userListOptions, error) {
	fs := flag.NewFlagSet("user-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userListOptions
	fs.StringVar(&opts.Q, "q", "", "Filter by email substring (case-insensitive)")
	fs.StringVar(&opts.Role, "role", "", "Filter by role (admin, rw, or v)")
	fs.BoolVar(&opts.Inactive, "inactive", false, "Only show disabled accounts")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum rows to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Offset for paging through results")

	if err := fs.Parse(args); err != nil {
		return userListOptions{}, err
	}

	opts.Q = strings.TrimSpace(opts.Q)
	opts.Role = strings.TrimSpace(opts.Role)
	return opts, nil
}

func parseUserTargetFlags(name string, args []string) (userTargetOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userTargetOptions
	registerUserTargetFlags(fs, &opts)

	if err := fs.Parse(args); err != nil {
		return userTargetOptions{}, err
	}
	if err := validateUserTarget(&opts); err != nil {
		return userTargetOptions{}, err
	}
	return opts, nil
}

func parseUserSetRoleFlags(args []string) (userSetRoleOptions, error) {
	fs := flag.NewFlagSet("user-set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userSetRoleOptions
	registerUserTargetFlags(fs, &opts.userTargetOptions)
	fs.StringVar(&opts.Role, "role", "", "New role (admin, rw, or v)")

	if err := fs.Parse(args); err != nil {
		return userSetRoleOptions{}, err
	}
	if err := validateUserTarget(&opts.userTargetOptions); err != nil {
		return userSetRoleOptions{}, err
	}

	opts.Role = strings.TrimSpace(opts.Role)
	if opts.Role == "" {
		return userSetRoleOptions{}, errors.New("--role is required")
	}
	return opts, nil
}

func parseUserSetPasswordFlags(args []string) (userSetPasswordOptions, error) {
	fs := flag.NewFlagSet("user-set-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts userSetPasswordOptions
	registerUserTargetFlags(fs, &opts.userTargetOptions)
	fs.StringVar(&opts.Password, "password", "", "New password (omit with --generate)")
	fs.BoolVar(&opts.Generate, "generate", false, "Generate a random password and print it")

	if err := fs.Parse(args); err != nil {
		return userSetPasswordOptions{}, err
	}
	if err := validateUserTarget(&opts.userTargetOptions); err != nil {
		return userSetPasswordOptions{}, err
	}

	if opts.Generate && opts.Password != "" {
		return userSetPasswordOptions{}, errors.New("--password and --generate are mutually exclusive")
	}
	if !opts.Generate && opts.Password == "" {
		return userSetPasswordOptions{}, errors.New("either --password or --generate is required")
	}
	return opts, nil
}

func parseSessionsClearFlags(args []string) (sessionsClearOptions, error) {
	fs := flag.NewFlagSet("sessions-clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts sessionsClearOptions
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return sessionsClearOptions{}, err
	}
	return opts, nil
}

func registerUserTargetFlags(fs *flag.FlagSet, opts *userTargetOptions) {
	fs.StringVar(&opts.Email, "email", "", "Email of the target account")
	fs.StringVar(&opts.ID, "id", "", "ID of the target account (alternative to --email)")
}

func validateUserTarget(opts *userTargetOptions) error {
	opts.Email = strings.TrimSpace(opts.Email)
	opts.ID = strings.TrimSpace(opts.ID)
	if opts.Email == "" && opts.ID == "" {
		return errors.New("either --email or --id is required")
	}
	if opts.Email != "" && opts.ID != "" {
		return errors.New("--email and --id are mutually exclusive")
	}
	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
