package httpx

import (
	"errors"
	"net/http"

	"github.com/algocare/ops-console/internal/data"
	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/service"
)

// UserHandlers provides HTTP handlers for account administration.
// All routes are admin-only; enforcement happens in the router.
type UserHandlers struct {
	Svc *service.UserService
}

const maxUserListLimit = 100

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxUserListLimit)

	opts := model.UsersListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role := domainauth.ParseRole(raw)
		opts.Role = &role
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active := raw == "true"
		opts.IsActive = &active
	}

	users, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	user, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// SetRole handles PUT /api/users/{id}/role.
func (h *UserHandlers) SetRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	var req struct {
		Role domainauth.Role `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.SetRole(r.Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUserNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// SetActive handles PUT /api/users/{id}/active.
func (h *UserHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.SetActive(r.Context(), id, req.Active)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// SetPassword handles PUT /api/users/{id}/password.
func (h *UserHandlers) SetPassword(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetPassword(r.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, data.ErrUserNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
		case errors.Is(err, service.ErrPasswordTooShort):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: errors.New("user not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
