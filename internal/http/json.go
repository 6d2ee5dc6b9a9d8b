package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// DecodeJSON reads the request body into dst, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped input. Reports
// false after writing the error response itself.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer before touching the ResponseWriter, so an
// encoding failure can still become a clean 500 instead of a torn body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Client disconnects surface here; nothing left to do.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams. Server-side
// failures (5xx) always carry an opaque message: the underlying error text can
// include driver and connection detail that does not belong in a client body.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := "internal error"
	if p.Code < http.StatusInternalServerError && p.Err != nil {
		msg = p.Err.Error()
	}
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": msg})
}
