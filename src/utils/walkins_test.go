package utils

import (
	"hrc/src/models"
	"hrc/src/types"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkInBody(f *fixture) *types.WalkInRequestBody {
	return &types.WalkInRequestBody{
		GuestName:       "Pedro",
		GuestPhone:      "09181234567",
		ServiceID:       f.Service.ID,
		VariantID:       f.Variant.ID,
		MotorcyclePlate: "XYZ 987",
	}
}

func TestCreateWalkIn(t *testing.T) {
	f := newFixture(t, 1)

	noon := CalendarDate(f.Now).Add(12 * time.Hour)
	first, err := CreateWalkIn(walkInBody(f), &f.Staff.ID, noon)
	require.NoError(t, err)
	second, err := CreateWalkIn(walkInBody(f), &f.Staff.ID, noon.Add(time.Second))
	require.NoError(t, err)

	assert.True(t, first.IsWalkin)
	assert.Equal(t, types.BOOKING_CONFIRMED, first.BookingStatus)
	assert.Equal(t, types.STATUS_PENDING, first.Status)
	assert.Equal(t, types.METHOD_CASH, first.PaymentMethod)
	assert.Nil(t, first.AvailabilityID)
	require.NotNil(t, first.ReferenceCode)
	assert.True(t, strings.HasPrefix(*first.ReferenceCode, "WI-"))
	assert.Equal(t, 1, *first.QueueNumber)
	assert.Equal(t, 2, *second.QueueNumber)

	reloaded := f.reload(t, first.ID)
	require.NotNil(t, reloaded.Payment)
	assert.Equal(t, types.PAYMENT_PAID, reloaded.Payment.Status)
	assert.Equal(t, 1500.0, reloaded.Payment.AmountPaid)
	assert.True(t, reloaded.Payment.IsFullyPaid)

	var audits int64
	f.DB.Model(&models.AuditLog{}).Where("action = ?", "Created walk-in booking").Count(&audits)
	assert.Equal(t, int64(2), audits)
}

func TestCreateWalkInTakesNoSlot(t *testing.T) {
	f := newFixture(t, 1)
	today := f.addSlot(t, CalendarDate(f.Now), 1)

	booking, err := CreateWalkIn(walkInBody(f), nil, CalendarDate(f.Now).Add(12*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, booking.AvailabilityID)

	held, err := CountHolding(f.DB, today.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, held[today.ID])
	assert.NoError(t, DeleteAvailability(today.ID, nil))
}

func TestSlotIgnoresLinkedWalkIns(t *testing.T) {
	f := newFixture(t, 1)
	ref := "WI-LEGACY"
	queue := 5
	walkIn := models.Booking{
		ReferenceCode:  &ref,
		QueueNumber:    &queue,
		ServiceID:      f.Service.ID,
		AvailabilityID: &f.Slot.ID,
		Status:         types.STATUS_PENDING,
		BookingStatus:  types.BOOKING_CONFIRMED,
		IsWalkin:       true,
		PaymentMethod:  types.METHOD_CASH,
	}
	require.NoError(t, f.DB.Create(&walkIn).Error)

	booking := f.lock(t)
	checkout := f.pay(t, booking, types.PAYMENT_FULL)
	confirmed, err := HandlePaymentWebhook(checkout.PaymentID, "PAID", "", f.Now)
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, 1, *confirmed.QueueNumber)
}

func TestCreateWalkInInvalidVariant(t *testing.T) {
	f := newFixture(t, 1)
	body := walkInBody(f)
	body.VariantID = 999

	_, err := CreateWalkIn(body, nil, f.Now)

	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestWalkInReference(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "WI-LOYW3V28", WalkInReference(at))
}
