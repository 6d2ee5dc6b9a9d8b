package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/algocare/ops-console/internal/data"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/mocks"
	"github.com/algocare/ops-console/internal/service"
)

func newDeliveryHandlers(t *testing.T) (*DeliveryHandlers, *mocks.MockDeliveryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryRepository(ctrl)
	svc := service.NewDeliveryService(service.DeliveryServiceOptions{Repo: repo})
	return &DeliveryHandlers{Svc: svc}, repo
}

// pathRequest routes the request through a mux so r.PathValue works.
func pathRequest(h http.HandlerFunc, pattern string, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestDeliveryHandlers_Create_Success(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateDeliveryRequest) (*model.Delivery, error) {
			assert.Equal(t, "ORD-2024-0101", req.OrderNo)
			assert.Equal(t, model.DeliveryStatusPreparing, req.Status)
			return &model.Delivery{
				ID:         "d-1",
				OrderNo:    req.OrderNo,
				Recipient:  req.Recipient,
				Carrier:    req.Carrier,
				TrackingNo: req.TrackingNo,
				Status:     req.Status,
			}, nil
		})

	body := strings.NewReader(
		`{"order_no":"ORD-2024-0101","recipient":"Kim","carrier":"cj","tracking_no":"612345678901"}`,
	)
	req := httptest.NewRequest(http.MethodPost, "/api/deliveries", body)
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"order_no":"ORD-2024-0101"`)
}

func TestDeliveryHandlers_Create_OrderNoConflict(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrDeliveryOrderNoExists)

	body := strings.NewReader(
		`{"order_no":"ORD-2024-0101","recipient":"Kim","carrier":"cj","tracking_no":"612345678901"}`,
	)
	req := httptest.NewRequest(http.MethodPost, "/api/deliveries", body)
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"order_no_conflict"`)
}

func TestDeliveryHandlers_Create_ValidationFailure(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	// The repository validates the request and reports the field error.
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("order_no is required and cannot be empty"))

	body := strings.NewReader(`{"recipient":"Kim","carrier":"cj","tracking_no":"612345678901"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/deliveries", body)
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation_failed"`)
}

func TestDeliveryHandlers_Create_MalformedJSON(t *testing.T) {
	handlers, _ := newDeliveryHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/deliveries", strings.NewReader(`{"order_no":`))
	w := httptest.NewRecorder()

	handlers.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"invalid_json"`)
}

func TestDeliveryHandlers_List_ParsesQueryParams(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.DeliveriesListOptions) ([]*model.Delivery, error) {
			assert.Equal(t, 25, opts.Limit)
			assert.Equal(t, 50, opts.Offset)
			require.NotNil(t, opts.Status)
			assert.Equal(t, model.DeliveryStatusShipped, *opts.Status)
			require.NotNil(t, opts.Carrier)
			assert.Equal(t, "cj", *opts.Carrier)
			require.NotNil(t, opts.Delayed)
			assert.True(t, *opts.Delayed)
			assert.Equal(t, "order_no", opts.Sort)
			assert.Equal(t, "asc", opts.Dir)
			return []*model.Delivery{}, nil
		})

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/deliveries?limit=25&offset=50&status=shipped&carrier=cj&delayed=true&sort=order_no&dir=asc",
		nil,
	)
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit":25`)
	assert.Contains(t, w.Body.String(), `"offset":50`)
}

func TestDeliveryHandlers_List_InvalidStatus(t *testing.T) {
	handlers, _ := newDeliveryHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/deliveries?status=returned", nil)
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation_failed"`)
}

func TestDeliveryHandlers_List_ClampsLimit(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.DeliveriesListOptions) ([]*model.Delivery, error) {
			assert.Equal(t, maxDeliveryListLimit, opts.Limit)
			assert.Equal(t, 0, opts.Offset)
			return nil, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/deliveries?limit=9999&offset=-3", nil)
	w := httptest.NewRecorder()

	handlers.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeliveryHandlers_GetByID_NotFound(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrDeliveryNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/deliveries/missing", nil)
	w := pathRequest(handlers.GetByID, "GET /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"delivery_not_found"`)
}

func TestDeliveryHandlers_Update_Success(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().
		Update(gomock.Any(), "d-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, req model.UpdateDeliveryRequest) (*model.Delivery, error) {
			require.NotNil(t, req.Status)
			assert.Equal(t, model.DeliveryStatusDelivered, *req.Status)
			assert.Nil(t, req.Recipient)
			return &model.Delivery{ID: id, Status: *req.Status}, nil
		})

	body := strings.NewReader(`{"status":"delivered"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/deliveries/d-1", body)
	w := pathRequest(handlers.Update, "PUT /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"delivered"`)
}

func TestDeliveryHandlers_Update_InvalidStatus(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().
		Update(gomock.Any(), "d-1", gomock.Any()).
		Return(nil, errors.New("status must be one of: preparing, shipped, delivered, canceled"))

	body := strings.NewReader(`{"status":"teleported"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/deliveries/d-1", body)
	w := pathRequest(handlers.Update, "PUT /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"validation_failed"`)
}

func TestDeliveryHandlers_Delete_Success(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().Delete(gomock.Any(), "d-1").Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/deliveries/d-1", nil)
	w := pathRequest(handlers.Delete, "DELETE /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}

func TestDeliveryHandlers_Delete_NotFound(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/deliveries/missing", nil)
	w := pathRequest(handlers.Delete, "DELETE /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"delivery_not_found"`)
}

func TestDeliveryHandlers_Delete_RepoError(t *testing.T) {
	handlers, repo := newDeliveryHandlers(t)

	repo.EXPECT().Delete(gomock.Any(), "d-1").Return(false, errors.New("pg down"))

	req := httptest.NewRequest(http.MethodDelete, "/api/deliveries/d-1", nil)
	w := pathRequest(handlers.Delete, "DELETE /api/deliveries/{id}", req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"delete_failed"`)
}
