package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/algocare/ops-console/internal/data/pgxutil"
	"github.com/algocare/ops-console/internal/domain/model"
	apperrors "github.com/algocare/ops-console/internal/errors"
)

var (
	// ErrDeliveryNotFound is returned when a delivery is not found.
	ErrDeliveryNotFound = errors.New("delivery not found")
	// ErrDeliveryOrderNoExists is returned when attempting to create a delivery with a duplicate order number.
	ErrDeliveryOrderNoExists = errors.New("delivery order number already exists")
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// DeliveryRepo provides database operations for tracked shipments.
type DeliveryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDeliveryRepo creates a new DeliveryRepo with real time provider.
func NewDeliveryRepo(db *sql.DB) *DeliveryRepo {
	return &DeliveryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDeliveryRepoWithTimeProvider creates a new DeliveryRepo with a custom time provider (useful for tests).
func NewDeliveryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DeliveryRepo {
	return &DeliveryRepo{DB: db, timeProvider: tp}
}

// Create inserts a new delivery.
func (r *DeliveryRepo) Create(ctx context.Context, req *model.CreateDeliveryRequest) (*model.Delivery, error) {
	if req == nil {
		return nil, errors.New("create delivery request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	priority := false
	if req.Priority != nil {
		priority = *req.Priority
	}

	now := r.timeProvider.Now().UTC()
	var out model.Delivery
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO deliveries (
				order_no, recipient, carrier, tracking_no, status, delayed, priority, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, FALSE, $6, $7, $7
			) RETURNING `+deliveryColumns,
			strings.TrimSpace(req.OrderNo),
			strings.TrimSpace(req.Recipient),
			strings.TrimSpace(req.Carrier),
			strings.TrimSpace(req.TrackingNo),
			req.Status,
			priority,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Delivery])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a delivery by id.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*model.Delivery, error) {
	return r.getByQuery(ctx, deliveryGetByIDQuery, "failed to get delivery by ID", id)
}

// GetByTrackingNo retrieves a delivery by carrier and tracking number.
func (r *DeliveryRepo) GetByTrackingNo(ctx context.Context, carrier, trackingNo string) (*model.Delivery, error) {
	return r.getByQuery(ctx, deliveryGetByTrackingQuery, "failed to get delivery by tracking number", carrier, trackingNo)
}

// List retrieves deliveries with optional filters and sorting.
func (r *DeliveryRepo) List(ctx context.Context, opts model.DeliveriesListOptions) ([]*model.Delivery, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query, args := buildDeliveriesListQuery(opts, limit, offset)

	var rowsOut []model.Delivery
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Delivery])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	res := make([]*model.Delivery, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a delivery. Nil fields are left unchanged.
func (r *DeliveryRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateDeliveryRequest,
) (*model.Delivery, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Delivery
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, deliveryGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Delivery])
			return e
		}
		args = append(args, id)
		query := "UPDATE deliveries SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + deliveryColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Delivery])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete deletes a delivery by id.
func (r *DeliveryRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete delivery: %w", err)
	}
	return rows > 0, nil
}

// StatusCounts aggregates deliveries per status plus the delayed count.
func (r *DeliveryRepo) StatusCounts(ctx context.Context) (*model.DeliveryStatusCounts, error) {
	var out model.DeliveryStatusCounts
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
				count(*) FILTER (WHERE status = 'preparing') AS preparing,
				count(*) FILTER (WHERE status = 'shipped')   AS shipped,
				count(*) FILTER (WHERE status = 'delivered') AS delivered,
				count(*) FILTER (WHERE status = 'canceled')  AS canceled,
				count(*) FILTER (WHERE delayed)              AS delayed
			FROM deliveries`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeliveryStatusCounts])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return &out, nil
}

// --- helpers ---

const deliveryColumns = `id, order_no, recipient, carrier, tracking_no, status, delayed, priority, created_at, updated_at`

const (
	deliveryGetByIDQuery = `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE id = $1`

	deliveryGetByTrackingQuery = `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE carrier = $1 AND tracking_no = $2`
)

// buildUpdateClause builds the SQL SET clause and args for updating a delivery.
func (r *DeliveryRepo) buildUpdateClause(req model.UpdateDeliveryRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Recipient != nil {
		setParts = append(setParts, fmt.Sprintf("recipient = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Recipient))
	}
	if req.Carrier != nil {
		setParts = append(setParts, fmt.Sprintf("carrier = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Carrier))
	}
	if req.TrackingNo != nil {
		setParts = append(setParts, fmt.Sprintf("tracking_no = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.TrackingNo))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.Delayed != nil {
		setParts = append(setParts, fmt.Sprintf("delayed = $%d", nextIdx()))
		args = append(args, *req.Delayed)
	}
	if req.Priority != nil {
		setParts = append(setParts, fmt.Sprintf("priority = $%d", nextIdx()))
		args = append(args, *req.Priority)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// buildDeliveriesListQuery builds the filtered list query with positional args.
func buildDeliveriesListQuery(opts model.DeliveriesListOptions, limit, offset int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		pattern := "%" + strings.TrimSpace(*opts.Q) + "%"
		conds = append(conds, fmt.Sprintf(
			"(order_no ILIKE $%d OR recipient ILIKE $%d OR tracking_no ILIKE $%d)",
			nextIdx(), nextIdx(), nextIdx()))
		args = append(args, pattern)
	}
	if opts.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *opts.Status)
	}
	if opts.Carrier != nil && strings.TrimSpace(*opts.Carrier) != "" {
		conds = append(conds, fmt.Sprintf("carrier = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*opts.Carrier))
	}
	if opts.Delayed != nil {
		conds = append(conds, fmt.Sprintf("delayed = $%d", nextIdx()))
		args = append(args, *opts.Delayed)
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir)

	query := `SELECT ` + deliveryColumns + ` FROM deliveries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortCol, sortDir, nextIdx(), nextIdx()+1)
	args = append(args, limit, offset)
	return query, args
}

// validateSortOptions validates and returns safe sort column and direction.
func validateSortOptions(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"order_no":   "order_no",
			"created_at": "created_at",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}

// getByQuery executes a query and returns a single delivery.
func (r *DeliveryRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Delivery, error) {
	var delivery model.Delivery
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		delivery, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Delivery])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &delivery, nil
}

func (r *DeliveryRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrDeliveryNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDeliveryOrderNoExists
	}
	return apperrors.MapDBError(err)
}
