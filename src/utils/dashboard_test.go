package utils

import (
	"hrc/src/models"
	"hrc/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayDashboard(t *testing.T) {
	f := newFixture(t, 2)
	noon := CalendarDate(f.Now).Add(12 * time.Hour)
	today := f.addSlot(t, CalendarDate(f.Now), 3)

	onSlot := models.Booking{
		ServiceID:      f.Service.ID,
		AvailabilityID: &today.ID,
		Status:         types.STATUS_PENDING,
		BookingStatus:  types.BOOKING_CONFIRMED,
		PaymentMethod:  types.METHOD_ONLINE,
	}
	require.NoError(t, f.DB.Create(&onSlot).Error)
	walkIn, err := CreateWalkIn(walkInBody(f), &f.Staff.ID, noon)
	require.NoError(t, err)
	_, err = AdvanceStatus(walkIn.ID, types.STATUS_IN_PROGRESS, &f.Staff.ID)
	require.NoError(t, err)
	// confirmed for a later day, not part of today
	confirmOne(t, f)

	stats, err := GetTodayStats(noon)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 0, stats.Done)

	count, err := NotificationsCount(noon)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = AdvanceStatus(walkIn.ID, types.STATUS_DONE, &f.Staff.ID)
	require.NoError(t, err)
	pickup, err := PickupPending()
	require.NoError(t, err)
	require.Len(t, pickup, 1)
	assert.Equal(t, walkIn.ID, pickup[0].ID)

	notifications, err := ListNotifications(noon)
	require.NoError(t, err)
	assert.Len(t, notifications.Pending, 1)
	assert.Len(t, notifications.Pickup, 1)
}

func TestListBookings(t *testing.T) {
	f := newFixture(t, 2)
	confirmed := confirmOne(t, f)
	f.lock(t)
	_, err := CreateWalkIn(walkInBody(f), nil, CalendarDate(f.Now).Add(12*time.Hour))
	require.NoError(t, err)

	all, err := ListBookings(&types.BookingQueryFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := ListBookings(&types.BookingQueryFilters{Search: (*confirmed.ReferenceCode)[4:]})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, confirmed.ID, found[0].ID)

	plate, err := ListBookings(&types.BookingQueryFilters{Search: "xyz"})
	require.NoError(t, err)
	assert.Len(t, plate, 1)

	none, err := ListBookings(&types.BookingQueryFilters{Status: string(types.STATUS_DONE)})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditLogs(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, WriteAuditLog(f.DB, &f.Staff.ID, "Tested", "bookings", "1", ""))
	require.NoError(t, WriteAuditLog(f.DB, nil, "Ignored", "bookings", "2", ""))

	logs, err := ListAuditLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, f.Staff.Email, logs[0].User.Email)
}
