package utils

import (
	"hrc/src/models"
	"hrc/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockSlot(t *testing.T) {
	f := newFixture(t, 2)

	booking := f.lock(t)

	assert.Equal(t, types.BOOKING_LOCKED, booking.BookingStatus)
	assert.Equal(t, types.STATUS_PENDING, booking.Status)
	assert.Equal(t, types.METHOD_ONLINE, booking.PaymentMethod)
	require.NotNil(t, booking.ExpiresAt)
	assert.WithinDuration(t, f.Now.Add(15*time.Minute), *booking.ExpiresAt, time.Second)
	assert.Nil(t, booking.ReferenceCode)
	assert.Nil(t, booking.QueueNumber)
}

func TestLockSlotFull(t *testing.T) {
	f := newFixture(t, 1)
	f.lock(t)

	_, err := LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, AvailabilityID: f.Slot.ID}, f.Now)

	assert.ErrorIs(t, err, types.ErrSlotFull)
	var count int64
	f.DB.Model(&models.Booking{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLockSlotRejects(t *testing.T) {
	f := newFixture(t, 1)
	missingVariant := uint(999)

	_, err := LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, AvailabilityID: 999}, f.Now)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID + 1, AvailabilityID: f.Slot.ID}, f.Now)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, VariantID: &missingVariant, AvailabilityID: f.Slot.ID}, f.Now)
	assert.ErrorIs(t, err, types.ErrNotFound)

	today := f.addSlot(t, CalendarDate(f.Now), 5)
	_, err = LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, AvailabilityID: today.ID}, f.Now)
	assert.ErrorIs(t, err, types.ErrSlotUnavailable)
}

func TestLockSlotClosedDate(t *testing.T) {
	f := newFixture(t, 3)
	day := int(f.Slot.Date.Weekday())
	require.NoError(t, f.DB.Create(&models.ClosedDate{Type: types.CLOSURE_RECURRING, DayOfWeek: &day}).Error)

	_, err := LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, AvailabilityID: f.Slot.ID}, f.Now)

	assert.ErrorIs(t, err, types.ErrSlotUnavailable)
}

func TestReleaseSlot(t *testing.T) {
	f := newFixture(t, 1)
	booking := f.lock(t)

	released, err := ReleaseSlot(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BOOKING_EXPIRED, released.BookingStatus)

	_, err = ReleaseSlot(booking.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = ReleaseSlot(uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)

	// the released unit is available again
	f.lock(t)
}

func TestExpireLock(t *testing.T) {
	f := newFixture(t, 1)
	booking := f.lock(t)

	expired, err := ExpireLock(booking.ID, f.Now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, types.BOOKING_LOCKED, f.reload(t, booking.ID).BookingStatus)

	expired, err = ExpireLock(booking.ID, f.Now.Add(16*time.Minute))
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, types.BOOKING_EXPIRED, f.reload(t, booking.ID).BookingStatus)

	expired, err = ExpireLock(booking.ID, f.Now.Add(17*time.Minute))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestUpdateBookingDetails(t *testing.T) {
	f := newFixture(t, 1)
	booking := f.lock(t)
	params := &types.UpdateBookingRequestBody{
		GuestName:       "Juan Dela Cruz",
		GuestEmail:      "juan@example.com",
		GuestPhone:      "09171234567",
		MotorcyclePlate: "ABC 1234",
		MotorcycleModel: "Honda Click",
		MotorcycleColor: "Red",
	}

	updated, err := UpdateBookingDetails(booking.ID, params)
	require.NoError(t, err)
	require.NotNil(t, updated.GuestEmail)
	assert.Equal(t, "juan@example.com", *updated.GuestEmail)
	assert.Nil(t, updated.MotorcycleDescription)

	_, err = ReleaseSlot(booking.ID)
	require.NoError(t, err)
	_, err = UpdateBookingDetails(booking.ID, params)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListOpenDates(t *testing.T) {
	f := newFixture(t, 2)
	f.lock(t)
	full := f.addSlot(t, CalendarDate(f.Now).AddDate(0, 0, 3), 1)
	_, err := LockSlot(&types.LockSlotRequestBody{ServiceID: f.Service.ID, AvailabilityID: full.ID}, f.Now)
	require.NoError(t, err)
	f.addSlot(t, CalendarDate(f.Now), 5)
	f.addSlot(t, CalendarDate(f.Now).AddDate(0, 0, -1), 5)
	closedDay := CalendarDate(f.Now).AddDate(0, 0, 4)
	f.addSlot(t, closedDay, 5)
	require.NoError(t, f.DB.Create(&models.ClosedDate{Type: types.CLOSURE_SPECIFIC, Date: &closedDay}).Error)
	open := f.addSlot(t, CalendarDate(f.Now).AddDate(0, 0, 5), 4)

	dates, err := ListOpenDates(f.Service.ID, f.Now)
	require.NoError(t, err)

	require.Len(t, dates, 2)
	assert.Equal(t, f.Slot.ID, dates[0].AvailabilityID)
	assert.Equal(t, 1, dates[0].Remaining)
	assert.Equal(t, FormatDate(f.Slot.Date), dates[0].Date)
	assert.Equal(t, open.ID, dates[1].AvailabilityID)
	assert.Equal(t, 4, dates[1].Remaining)
}
