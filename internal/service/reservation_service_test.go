package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func TestReservationGet_NotFound(t *testing.T) {
	h := newHotel(101)
	_, err := h.reservationService(bookedAt).Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationList_PassesFilter(t *testing.T) {
	h := newHotel(101)
	status := models.StatusCheckedIn
	h.resvRepo.listFn = func(_ context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
		require.NotNil(t, f.Status)
		assert.Equal(t, models.StatusCheckedIn, *f.Status)
		assert.Nil(t, f.RoomID)
		return []models.Reservation{{ID: 1}}, nil
	}

	out, err := h.reservationService(bookedAt).List(context.Background(), repository.ReservationFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestReservationUpdate_MoveIntoTakenRange(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.seedReservation(2, 101, "2025-10-05", "2025-10-07", models.StatusConfirmed)

	_, err := h.reservationService(bookedAt).Update(context.Background(), 2, ReservationUpdate{
		CheckIn: ptr(day("2025-10-02")),
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "2025-10-05", h.reservations[1].CheckIn.String())
}

func TestReservationUpdate_ExtendWithinOwnRange(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)

	r, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{
		CheckOut: ptr(day("2025-10-04")),
		Notes:    ptr("late checkout"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-10-04", r.CheckOut.String())
	assert.Equal(t, "late checkout", r.Notes)
}

func TestReservationUpdate_MoveRoomChecksTargetRoom(t *testing.T) {
	h := newHotel(101, 102)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.seedReservation(2, 102, "2025-10-02", "2025-10-04", models.StatusConfirmed)

	_, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{RoomID: ptr(uint(102))})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{RoomID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{RoomID: ptr(uint(0))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReservationUpdate_NoMoveSkipsCheck(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.resvRepo.hasOverlapFn = func(context.Context, *gorm.DB, uint, time.Time, time.Time, *uint) (bool, error) {
		t.Fatal("availability must not be checked when room and dates are unchanged")
		return false, nil
	}

	r, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{
		TotalAmount:       ptr(300000.0),
		LoyaltyMemberCode: ptr("M9"),
	})
	require.NoError(t, err)
	assert.Equal(t, 300000.0, r.TotalAmount)
	require.NotNil(t, r.LoyaltyMemberCode)
	assert.Equal(t, "M9", *r.LoyaltyMemberCode)
}

func TestReservationUpdate_InvertedRange(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)

	_, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{
		CheckIn: ptr(day("2025-10-05")),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReservationUpdate_NotFound(t *testing.T) {
	h := newHotel(101)
	_, err := h.reservationService(bookedAt).Update(context.Background(), 9, ReservationUpdate{Notes: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

// recordLocks notes every row lock taken, in order.
func recordLocks(h *hotel) *[]string {
	var locks []string
	findRoom, findResv := h.roomRepo.findForUpdate, h.resvRepo.findForUpdateFn
	h.roomRepo.findForUpdate = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
		locks = append(locks, fmt.Sprintf("room %d", id))
		return findRoom(ctx, tx, id)
	}
	h.resvRepo.findForUpdateFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
		locks = append(locks, fmt.Sprintf("reservation %d", id))
		return findResv(ctx, tx, id)
	}
	return &locks
}

func TestReservationWrites_LockRoomsBeforeReservation(t *testing.T) {
	h := newHotel(101, 102)
	h.seedReservation(1, 102, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	locks := recordLocks(h)
	svc := h.reservationService(bookedAt)

	_, err := svc.Update(context.Background(), 1, ReservationUpdate{RoomID: ptr(uint(101))})
	require.NoError(t, err)
	assert.Equal(t, []string{"room 101", "room 102", "reservation 1"}, *locks)

	*locks = nil
	_, err = svc.Update(context.Background(), 1, ReservationUpdate{Notes: ptr("quiet floor")})
	require.NoError(t, err)
	assert.Equal(t, []string{"room 101", "reservation 1"}, *locks)

	*locks = nil
	_, err = svc.UpdateStatus(context.Background(), 1, models.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"room 101", "reservation 1"}, *locks)

	*locks = nil
	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []string{"room 101", "reservation 1"}, *locks)
}

func TestReservationUpdate_MovedMeanwhileIsConflict(t *testing.T) {
	h := newHotel(101, 102)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.resvRepo.findForUpdateFn = func(context.Context, *gorm.DB, uint) (*models.Reservation, error) {
		moved := h.reservations[0]
		moved.RoomID = 102
		return &moved, nil
	}

	_, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{CheckOut: ptr(day("2025-10-04"))})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "2025-10-03", h.reservations[0].CheckOut.String())
}

func TestReservationUpdate_StatusChangePublishes(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	svc := h.reservationService(bookedAt)

	_, err := svc.Update(context.Background(), 1, ReservationUpdate{Notes: ptr("no status change")})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), 1, ReservationUpdate{Status: ptr(models.StatusConfirmed)})
	require.NoError(t, err)
	assert.Empty(t, h.pub.sent)

	r, err := svc.Update(context.Background(), 1, ReservationUpdate{Status: ptr(models.StatusCheckedOut)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, r.Status)

	require.Len(t, h.pub.sent, 1)
	assert.Equal(t, models.RoutingReservationStatusChanged, h.pub.sent[0].key)
	ev, ok := h.pub.sent[0].payload.(models.ReservationEvent)
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, ev.PreviousStatus)
	assert.Equal(t, models.StatusCheckedOut, ev.Status)
	assert.Equal(t, bookedAt, ev.OccurredAt)
}

func TestReservationUpdate_FailureDoesNotPublish(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.resvRepo.updateFn = func(context.Context, *gorm.DB, *models.Reservation) error { return errors.New("connection reset") }

	_, err := h.reservationService(bookedAt).Update(context.Background(), 1, ReservationUpdate{Status: ptr(models.StatusCheckedIn)})
	assert.ErrorIs(t, err, ErrStore)
	assert.Empty(t, h.pub.sent)
}

func TestReservationUpdateStatus_Publishes(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)

	r, err := h.reservationService(bookedAt).UpdateStatus(context.Background(), 1, models.StatusCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, r.Status)

	require.Len(t, h.pub.sent, 1)
	assert.Equal(t, models.RoutingReservationStatusChanged, h.pub.sent[0].key)
	ev, ok := h.pub.sent[0].payload.(models.ReservationEvent)
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, ev.PreviousStatus)
	assert.Equal(t, models.StatusCheckedOut, ev.Status)
	assert.Equal(t, uint(101), ev.RoomID)
	assert.Equal(t, bookedAt, ev.OccurredAt)
}

func TestReservationUpdateStatus_AnyTransition(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusCheckedOut)
	svc := h.reservationService(bookedAt)

	_, err := svc.UpdateStatus(context.Background(), 1, models.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), 1, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, h.pub.sent, 1)
}

func TestReservationUpdateStatus_ReviveCancelledIntoTakenRange(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusCancelled)
	h.seedReservation(2, 101, "2025-10-02", "2025-10-04", models.StatusConfirmed)

	_, err := h.reservationService(bookedAt).UpdateStatus(context.Background(), 1, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, models.StatusCancelled, h.reservations[0].Status)
	assert.Empty(t, h.pub.sent)
}

func TestReservationUpdateStatus_Invalid(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)

	_, err := h.reservationService(bookedAt).UpdateStatus(context.Background(), 1, "Paid")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.reservationService(bookedAt).UpdateStatus(context.Background(), 7, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationDelete_Cascade(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.seedReservation(2, 101, "2025-10-05", "2025-10-07", models.StatusConfirmed)
	h.payments = []models.Payment{{ID: 1, ReservationID: 1}, {ID: 2, ReservationID: 1}, {ID: 3, ReservationID: 2}}
	h.items = []models.InvoiceItem{{ID: 1, ReservationID: 1}, {ID: 2, ReservationID: 2}}

	var order []string
	payDelete, itemDelete, resvDelete := h.payRepo.deleteByResv, h.resvRepo.deleteItemsFn, h.resvRepo.deleteFn
	h.payRepo.deleteByResv = func(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
		order = append(order, "payments")
		return payDelete(ctx, tx, id)
	}
	h.resvRepo.deleteItemsFn = func(ctx context.Context, tx *gorm.DB, id uint) error {
		order = append(order, "items")
		return itemDelete(ctx, tx, id)
	}
	h.resvRepo.deleteFn = func(ctx context.Context, tx *gorm.DB, id uint) error {
		order = append(order, "reservation")
		return resvDelete(ctx, tx, id)
	}

	require.NoError(t, h.reservationService(bookedAt).Delete(context.Background(), 1))

	assert.Equal(t, []string{"payments", "items", "reservation"}, order)
	require.Len(t, h.reservations, 1)
	assert.Equal(t, uint(2), h.reservations[0].ID)
	require.Len(t, h.payments, 1)
	assert.Equal(t, uint(3), h.payments[0].ID)
	require.Len(t, h.items, 1)
	assert.Equal(t, uint(2), h.items[0].ID)

	require.Len(t, h.pub.sent, 1)
	assert.Equal(t, models.RoutingReservationDeleted, h.pub.sent[0].key)
}

func TestReservationDelete_NotFound(t *testing.T) {
	h := newHotel(101)
	h.payments = []models.Payment{{ID: 1, ReservationID: 5}}

	err := h.reservationService(bookedAt).Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, h.payments, 1)
	assert.Empty(t, h.pub.sent)
}

func TestReservationDelete_FailureRollsBack(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	h.payments = []models.Payment{{ID: 1, ReservationID: 1}}
	h.resvRepo.deleteItemsFn = func(context.Context, *gorm.DB, uint) error {
		return errors.New("lock timeout")
	}

	err := h.reservationService(bookedAt).Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStore)
	assert.Len(t, h.payments, 1)
	assert.Len(t, h.reservations, 1)
}

func TestCheckAvailability(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	svc := h.reservationService(bookedAt)
	ctx := context.Background()

	free, err := svc.CheckAvailability(ctx, 101, day("2025-10-02"), day("2025-10-04"), nil)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckAvailability(ctx, 101, day("2025-10-03"), day("2025-10-04"), nil)
	require.NoError(t, err)
	assert.True(t, free, "check-in on the previous check-out day")

	free, err = svc.CheckAvailability(ctx, 101, day("2025-10-02"), day("2025-10-04"), ptr(uint(1)))
	require.NoError(t, err)
	assert.True(t, free, "own reservation is excluded")

	_, err = svc.CheckAvailability(ctx, 999, day("2025-10-02"), day("2025-10-04"), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CheckAvailability(ctx, 101, day("2025-10-04"), day("2025-10-04"), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddItem(t *testing.T) {
	h := newHotel(101)
	h.seedReservation(1, 101, "2025-10-01", "2025-10-03", models.StatusConfirmed)
	svc := h.reservationService(bookedAt)

	item := &models.InvoiceItem{Description: "Minibar", Quantity: 3, UnitPrice: 120}
	require.NoError(t, svc.AddItem(context.Background(), 1, item))
	assert.Equal(t, uint(1), item.ReservationID)
	assert.Equal(t, 360.0, item.Amount)

	items, err := svc.ListItems(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	err = svc.AddItem(context.Background(), 1, &models.InvoiceItem{Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.AddItem(context.Background(), 8, &models.InvoiceItem{Description: "Laundry"})
	assert.ErrorIs(t, err, ErrNotFound)
}
