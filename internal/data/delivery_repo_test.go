package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/testutil"
)

func uniqueOrderNo(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createTestDelivery(t *testing.T, repo *DeliveryRepo, req *model.CreateDeliveryRequest) *model.Delivery {
	t.Helper()
	d, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	return d
}

func TestDeliveryRepo_Create_Defaults(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewDeliveryRepo(db)

		d := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo:    uniqueOrderNo("ORD"),
			Recipient:  "  Kim Minsu  ",
			Carrier:    "cj",
			TrackingNo: "612345678901",
		})

		require.NotEmpty(t, d.ID)
		assert.Equal(t, "Kim Minsu", d.Recipient)
		assert.Equal(t, model.DeliveryStatusPreparing, d.Status)
		assert.False(t, d.Delayed)
		assert.False(t, d.Priority)
		assert.NotZero(t, d.CreatedAt)
	})
}

func TestDeliveryRepo_Create_DuplicateOrderNo(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewDeliveryRepo(db)
		orderNo := uniqueOrderNo("DUP")

		createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: orderNo, Recipient: "Kim", Carrier: "cj",
		})

		_, err := repo.Create(context.Background(), &model.CreateDeliveryRequest{
			OrderNo: orderNo, Recipient: "Lee", Carrier: "hanjin",
		})
		require.ErrorIs(t, err, ErrDeliveryOrderNoExists)
	})
}

func TestDeliveryRepo_GetByTrackingNo(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDeliveryRepo(db)

		created := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo:    uniqueOrderNo("TRK"),
			Recipient:  "Kim",
			Carrier:    "cj",
			TrackingNo: "698765432109",
		})

		got, err := repo.GetByTrackingNo(ctx, "cj", "698765432109")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		// Tracking numbers are only unique per carrier.
		_, err = repo.GetByTrackingNo(ctx, "hanjin", "698765432109")
		require.ErrorIs(t, err, ErrDeliveryNotFound)
	})
}

func TestDeliveryRepo_List_FiltersAndSort(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDeliveryRepo(db)

		a := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: "A-" + uniqueOrderNo("LIST"), Recipient: "Kim", Carrier: "cj",
			Status: model.DeliveryStatusShipped,
		})
		b := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: "B-" + uniqueOrderNo("LIST"), Recipient: "Lee", Carrier: "hanjin",
		})
		delayed := true
		_, err := repo.Update(ctx, a.ID, model.UpdateDeliveryRequest{Delayed: &delayed})
		require.NoError(t, err)

		shipped := model.DeliveryStatusShipped
		byStatus, err := repo.List(ctx, model.DeliveriesListOptions{Status: &shipped})
		require.NoError(t, err)
		require.Len(t, byStatus, 1)
		assert.Equal(t, a.ID, byStatus[0].ID)

		byCarrier, err := repo.List(ctx, model.DeliveriesListOptions{Carrier: testutil.StringPtr("hanjin")})
		require.NoError(t, err)
		require.Len(t, byCarrier, 1)
		assert.Equal(t, b.ID, byCarrier[0].ID)

		byDelayed, err := repo.List(ctx, model.DeliveriesListOptions{Delayed: testutil.BoolPtr(true)})
		require.NoError(t, err)
		require.Len(t, byDelayed, 1)
		assert.Equal(t, a.ID, byDelayed[0].ID)

		byQ, err := repo.List(ctx, model.DeliveriesListOptions{Q: testutil.StringPtr("lee")})
		require.NoError(t, err)
		require.Len(t, byQ, 1)
		assert.Equal(t, b.ID, byQ[0].ID)

		sorted, err := repo.List(ctx, model.DeliveriesListOptions{Sort: "order_no", Dir: "asc"})
		require.NoError(t, err)
		require.Len(t, sorted, 2)
		assert.Equal(t, a.ID, sorted[0].ID)
		assert.Equal(t, b.ID, sorted[1].ID)

		// Unknown sort and direction fall back to created_at DESC.
		fallback, err := repo.List(ctx, model.DeliveriesListOptions{Sort: "recipient; DROP TABLE", Dir: "sideways"})
		require.NoError(t, err)
		require.Len(t, fallback, 2)
	})
}

func TestDeliveryRepo_Update_NilFieldsUnchanged(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDeliveryRepo(db)

		created := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo:    uniqueOrderNo("UPD"),
			Recipient:  "Kim",
			Carrier:    "cj",
			TrackingNo: "611111111111",
		})

		delivered := model.DeliveryStatusDelivered
		updated, err := repo.Update(ctx, created.ID, model.UpdateDeliveryRequest{Status: &delivered})
		require.NoError(t, err)
		assert.Equal(t, model.DeliveryStatusDelivered, updated.Status)
		assert.Equal(t, "Kim", updated.Recipient)
		assert.Equal(t, "611111111111", updated.TrackingNo)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

		// An empty update just re-reads the row.
		same, err := repo.Update(ctx, created.ID, model.UpdateDeliveryRequest{})
		require.NoError(t, err)
		assert.True(t, same.UpdatedAt.Equal(updated.UpdatedAt))

		_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", model.UpdateDeliveryRequest{Status: &delivered})
		require.ErrorIs(t, err, ErrDeliveryNotFound)
	})
}

func TestDeliveryRepo_StatusCounts(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDeliveryRepo(db)

		createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: uniqueOrderNo("CNT1"), Recipient: "Kim", Carrier: "cj",
		})
		shippedOne := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: uniqueOrderNo("CNT2"), Recipient: "Lee", Carrier: "cj",
			Status: model.DeliveryStatusShipped,
		})
		createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: uniqueOrderNo("CNT3"), Recipient: "Park", Carrier: "hanjin",
			Status: model.DeliveryStatusDelivered,
		})
		delayed := true
		_, err := repo.Update(ctx, shippedOne.ID, model.UpdateDeliveryRequest{Delayed: &delayed})
		require.NoError(t, err)

		counts, err := repo.StatusCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Preparing)
		assert.Equal(t, 1, counts.Shipped)
		assert.Equal(t, 1, counts.Delivered)
		assert.Equal(t, 0, counts.Canceled)
		assert.Equal(t, 1, counts.Delayed)
	})
}

func TestDeliveryRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDeliveryRepo(db)

		created := createTestDelivery(t, repo, &model.CreateDeliveryRequest{
			OrderNo: uniqueOrderNo("DEL"), Recipient: "Kim", Carrier: "cj",
		})

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, created.ID)
		require.ErrorIs(t, err, ErrDeliveryNotFound)
	})
}
