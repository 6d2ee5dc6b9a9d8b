package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "resource not found",
			},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"NotFound", NotFound("missing"), ErrCodeNotFound},
		{"NotFoundf", NotFoundf("user %s missing", "u-1"), ErrCodeNotFound},
		{"Conflict", Conflict("duplicate"), ErrCodeConflict},
		{"Validation", Validation("bad input"), ErrCodeValidation},
		{"ValidationField", ValidationField("order_no", "too long"), ErrCodeValidation},
		{"Unauthorized", Unauthorized("no session"), ErrCodeUnauthorized},
		{"Internal", Internal("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
		})
	}

	if f := ValidationField("order_no", "too long").Field; f != "order_no" {
		t.Errorf("ValidationField().Field = %v, want order_no", f)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("db exploded")
	err := Wrap(cause, ErrCodeInternal, "query failed")
	if err.Code != ErrCodeInternal {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeInternal)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap() should preserve the cause chain")
	}

	if Wrap(nil, ErrCodeInternal, "no-op") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, ErrCodeInternal, "no-op %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestCodePredicates(t *testing.T) {
	if !IsNotFound(NotFound("x")) {
		t.Error("IsNotFound() should match NotFound errors")
	}
	if !IsConflict(Conflict("x")) {
		t.Error("IsConflict() should match Conflict errors")
	}
	if !IsValidation(Validation("x")) {
		t.Error("IsValidation() should match Validation errors")
	}
	if !IsUnauthorized(Unauthorized("x")) {
		t.Error("IsUnauthorized() should match Unauthorized errors")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound() should not match plain errors")
	}

	// Predicates see through wrapping.
	wrapped := Wrap(Validation("bad"), ErrCodeInternal, "outer")
	if !IsValidation(wrapped) {
		t.Error("IsValidation() should match a wrapped Validation cause")
	}
}

func TestGetCodeAndField(t *testing.T) {
	if got := GetCode(ValidationField("email", "bad")); got != ErrCodeValidation {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeValidation)
	}
	if got := GetField(ValidationField("email", "bad")); got != "email" {
		t.Errorf("GetField() = %v, want email", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() on plain error = %v, want empty", got)
	}
}
