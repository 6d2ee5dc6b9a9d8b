package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(MapDBError(tt.err)); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	if err := MapDBError(pgx.ErrNoRows); !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name: "with column name",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.UniqueViolation,
				ColumnName: "order_no",
			},
			wantField: "order_no",
		},
		{
			name: "field extracted from detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (email)=(jeff@algocarelab.com) already exists.`,
			},
			wantField: "email",
		},
		{
			name: "no field information",
			pgErr: &pgconn.PgError{
				Code: pgerrcode.UniqueViolation,
			},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Fatalf("MapDBError() should be Conflict, got %v", GetCode(err))
			}
			if got := GetField(err); got != tt.wantField {
				t.Errorf("GetField() = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestMapDBError_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode ErrorCode
	}{
		{name: "foreign key", code: pgerrcode.ForeignKeyViolation, wantCode: ErrCodeForeignKey},
		{name: "check constraint", code: pgerrcode.CheckViolation, wantCode: ErrCodeValidation},
		{name: "not null", code: pgerrcode.NotNullViolation, wantCode: ErrCodeValidation},
		{name: "anything else", code: pgerrcode.SerializationFailure, wantCode: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(&pgconn.PgError{Code: tt.code})
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestMapDBError_PassesThroughUnknown(t *testing.T) {
	plain := errors.New("not a database error")
	if got := MapDBError(plain); !errors.Is(got, plain) {
		t.Errorf("MapDBError() = %v, want original error", got)
	}
}
