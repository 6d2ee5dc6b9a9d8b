package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError_ClientErrorsCarryMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrorParams{
		Code:    http.StatusBadRequest,
		ErrCode: "validation_failed",
		Err:     errors.New("order_no is required and cannot be empty"),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"error":"validation_failed","message":"order_no is required and cannot be empty"}`,
		w.Body.String())
}

func TestWriteError_ServerErrorsAreOpaque(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "create_failed",
		Err:     errors.New(`create delivery: connect: connection refused (host db.internal:5432)`),
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"create_failed","message":"internal error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db.internal")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		OrderNo string `json:"order_no"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"order_no":"x","rogue":true}`))
	w := httptest.NewRecorder()

	assert.False(t, DecodeJSON(w, r, &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_json")
}
