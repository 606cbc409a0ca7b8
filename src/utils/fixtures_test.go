package utils

import (
	"context"
	"hrc/src/config"
	"hrc/src/db/dbtest"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls []*lib.InvoiceInput
	err   error
}

func (f *fakeGateway) CreateInvoice(ctx context.Context, in *lib.InvoiceInput) (*lib.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &lib.Invoice{ID: "cs_test_" + in.ExternalID[:8], URL: "https://checkout.test/" + in.ExternalID}, nil
}

type fixture struct {
	DB        *gorm.DB
	Now       time.Time
	Gateway   *fakeGateway
	Service   models.Service
	Variant   models.Variant
	Slot      models.Availability
	Staff     models.User
	Confirmed []uuid.UUID
}

// newFixture seeds one active service with a variant and an open slot two
// days ahead with the given capacity.
func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	f := &fixture{
		DB:      dbtest.NewSQLiteDB(t),
		Now:     time.Now().UTC(),
		Gateway: &fakeGateway{},
	}
	config.NewSettings(&config.Settings{
		Port:            "9090",
		LockTTL:         15 * time.Minute,
		SweepInterval:   time.Minute,
		PurgeSchedule:   "0 0 * * 0",
		RetentionWindow: 720 * time.Hour,
		ReferencePrefix: "HRC-",
		Currency:        "php",
	})
	lib.NewPaymentGateway(f.Gateway)
	var mu sync.Mutex
	OnConfirmed = func(id uuid.UUID) {
		mu.Lock()
		defer mu.Unlock()
		f.Confirmed = append(f.Confirmed, id)
	}
	t.Cleanup(func() {
		config.NewSettings(nil)
		lib.NewPaymentGateway(nil)
		OnConfirmed = func(id uuid.UUID) {
			go FinalizeConfirmation(id)
		}
	})

	f.Service = models.Service{Name: "Full Detail", Price: 1000, IsActive: true}
	require.NoError(t, f.DB.Create(&f.Service).Error)
	f.Variant = models.Variant{ServiceID: f.Service.ID, Name: "Big bike", Price: 1500, IsActive: true}
	require.NoError(t, f.DB.Create(&f.Variant).Error)
	f.Slot = f.addSlot(t, CalendarDate(f.Now).AddDate(0, 0, 2), capacity)
	f.Staff = models.User{Name: "Desk", Email: "desk@example.com", Password: "x", Role: types.ROLE_STAFF}
	require.NoError(t, f.DB.Create(&f.Staff).Error)
	return f
}

func (f *fixture) addSlot(t *testing.T, date time.Time, capacity int) models.Availability {
	t.Helper()
	slot := models.Availability{ServiceID: f.Service.ID, Date: date, Capacity: capacity, IsOpen: true}
	require.NoError(t, f.DB.Create(&slot).Error)
	return slot
}

func (f *fixture) lock(t *testing.T) *models.Booking {
	t.Helper()
	return f.lockOn(t, f.Slot)
}

func (f *fixture) lockOn(t *testing.T, slot models.Availability) *models.Booking {
	t.Helper()
	booking, err := LockSlot(&types.LockSlotRequestBody{
		ServiceID:      f.Service.ID,
		AvailabilityID: slot.ID,
	}, f.Now)
	require.NoError(t, err)
	return booking
}

func (f *fixture) pay(t *testing.T, booking *models.Booking, paymentType types.PaymentType) *Checkout {
	t.Helper()
	checkout, err := CreatePayment(context.Background(), &types.CreatePaymentRequestBody{
		BookingID:   booking.ID.String(),
		PaymentType: paymentType,
	}, f.Now)
	require.NoError(t, err)
	return checkout
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) models.Booking {
	t.Helper()
	var booking models.Booking
	require.NoError(t, f.DB.Preload("Payment", scopes.CurrentPayment).First(&booking, "id = ?", id).Error)
	return booking
}
