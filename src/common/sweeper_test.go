package common

import (
	"context"
	"hrc/src/config"
	"hrc/src/db/dbtest"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/types"
	"hrc/src/utils"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SweeperTestSuite struct {
	suite.Suite
	DB      *gorm.DB
	Now     time.Time
	Service models.Service
}

func (s *SweeperTestSuite) SetupTest() {
	s.DB = dbtest.NewSQLiteDB(s.T())
	s.Now = time.Now().UTC()
	s.Service = models.Service{Name: "Wash", Price: 200, IsActive: true}
	s.Require().NoError(s.DB.Create(&s.Service).Error)
}

func (s *SweeperTestSuite) booking(status types.BookingStatus, expiresAt time.Time) models.Booking {
	b := models.Booking{
		ServiceID:     s.Service.ID,
		Status:        types.STATUS_PENDING,
		BookingStatus: status,
		ExpiresAt:     &expiresAt,
		PaymentMethod: types.METHOD_ONLINE,
	}
	s.Require().NoError(s.DB.Create(&b).Error)
	return b
}

func (s *SweeperTestSuite) payment(bookingID uuid.UUID, status types.PaymentStatus) models.Payment {
	p := models.Payment{
		BookingID:   bookingID,
		Amount:      200,
		AmountPaid:  200,
		PaymentType: types.PAYMENT_FULL,
		IsFullyPaid: true,
		Status:      status,
	}
	s.Require().NoError(s.DB.Create(&p).Error)
	return p
}

func (s *SweeperTestSuite) status(id uuid.UUID) types.BookingStatus {
	var b models.Booking
	s.Require().NoError(s.DB.First(&b, "id = ?", id).Error)
	return b.BookingStatus
}

func (s *SweeperTestSuite) TestExpireStaleLocks() {
	stale := s.booking(types.BOOKING_LOCKED, s.Now.Add(-time.Minute))
	fresh := s.booking(types.BOOKING_LOCKED, s.Now.Add(10*time.Minute))
	pay := s.payment(stale.ID, types.PAYMENT_UNPAID)

	n, err := ExpireStaleLocks(s.Now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.Equal(types.BOOKING_EXPIRED, s.status(stale.ID))
	s.Equal(types.BOOKING_LOCKED, s.status(fresh.ID))

	var p models.Payment
	s.Require().NoError(s.DB.First(&p, "id = ?", pay.ID).Error)
	s.Equal(types.PAYMENT_EXPIRED, p.Status)

	n, err = ExpireStaleLocks(s.Now)
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *SweeperTestSuite) TestExpireStaleLocksSkipsConfirmed() {
	confirmed := s.booking(types.BOOKING_CONFIRMED, s.Now.Add(-time.Hour))

	n, err := ExpireStaleLocks(s.Now)
	s.Require().NoError(err)
	s.Equal(int64(0), n)
	s.Equal(types.BOOKING_CONFIRMED, s.status(confirmed.ID))
}

func (s *SweeperTestSuite) TestPurgeExpired() {
	old := s.booking(types.BOOKING_EXPIRED, s.Now.AddDate(0, 0, -40))
	s.payment(old.ID, types.PAYMENT_EXPIRED)
	recent := s.booking(types.BOOKING_EXPIRED, s.Now.AddDate(0, 0, -10))
	confirmed := s.booking(types.BOOKING_CONFIRMED, s.Now.AddDate(0, 0, -40))

	n, err := PurgeExpired(s.Now, 30*24*time.Hour)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	var count int64
	s.DB.Model(&models.Booking{}).Where("id = ?", old.ID).Count(&count)
	s.Equal(int64(0), count)
	s.DB.Model(&models.Payment{}).Where("booking_id = ?", old.ID).Count(&count)
	s.Equal(int64(0), count)
	s.Equal(types.BOOKING_EXPIRED, s.status(recent.ID))
	s.Equal(types.BOOKING_CONFIRMED, s.status(confirmed.ID))
}

type stubGateway struct{}

func (stubGateway) CreateInvoice(ctx context.Context, in *lib.InvoiceInput) (*lib.Invoice, error) {
	return &lib.Invoice{ID: "cs_" + in.ExternalID, URL: "https://checkout.test/" + in.ExternalID}, nil
}

// online prepares a bookable slot and the collaborators a guest checkout needs.
func (s *SweeperTestSuite) online(capacity int) models.Availability {
	config.NewSettings(&config.Settings{LockTTL: 15 * time.Minute, ReferencePrefix: "HRC-", Currency: "php"})
	lib.NewPaymentGateway(stubGateway{})
	var confirmed []uuid.UUID
	utils.OnConfirmed = func(id uuid.UUID) { confirmed = append(confirmed, id) }
	s.T().Cleanup(func() {
		config.NewSettings(nil)
		lib.NewPaymentGateway(nil)
		utils.OnConfirmed = func(id uuid.UUID) { go utils.FinalizeConfirmation(id) }
		s.Empty(confirmed)
	})
	slot := models.Availability{
		ServiceID: s.Service.ID,
		Date:      utils.CalendarDate(s.Now).AddDate(0, 0, 2),
		Capacity:  capacity,
		IsOpen:    true,
	}
	s.Require().NoError(s.DB.Create(&slot).Error)
	return slot
}

func (s *SweeperTestSuite) lockAt(slot models.Availability, at time.Time) (*models.Booking, error) {
	return utils.LockSlot(&types.LockSlotRequestBody{ServiceID: s.Service.ID, AvailabilityID: slot.ID}, at)
}

func (s *SweeperTestSuite) TestSweepFreesCapacity() {
	slot := s.online(1)
	stale, err := s.lockAt(slot, s.Now.Add(-20*time.Minute))
	s.Require().NoError(err)

	// a lapsed lock holds the slot until it is swept
	_, err = s.lockAt(slot, s.Now)
	s.ErrorIs(err, types.ErrSlotFull)

	n, err := ExpireStaleLocks(s.Now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	s.Equal(types.BOOKING_EXPIRED, s.status(stale.ID))

	fresh, err := s.lockAt(slot, s.Now)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_LOCKED, fresh.BookingStatus)
}

func (s *SweeperTestSuite) TestWebhookAfterSweepIsNoop() {
	slot := s.online(1)
	booking, err := s.lockAt(slot, s.Now.Add(-20*time.Minute))
	s.Require().NoError(err)
	checkout, err := utils.CreatePayment(context.Background(), &types.CreatePaymentRequestBody{
		BookingID:   booking.ID.String(),
		PaymentType: types.PAYMENT_FULL,
	}, s.Now.Add(-19*time.Minute))
	s.Require().NoError(err)

	_, err = ExpireStaleLocks(s.Now)
	s.Require().NoError(err)

	confirmed, err := utils.HandlePaymentWebhook(checkout.PaymentID, "PAID", "inv_late", s.Now)
	s.Require().NoError(err)
	s.Nil(confirmed)

	var b models.Booking
	s.Require().NoError(s.DB.First(&b, "id = ?", booking.ID).Error)
	s.Equal(types.BOOKING_EXPIRED, b.BookingStatus)
	s.Nil(b.ReferenceCode)
	s.Nil(b.QueueNumber)

	var p models.Payment
	s.Require().NoError(s.DB.First(&p, "id = ?", checkout.PaymentID).Error)
	s.Equal(types.PAYMENT_EXPIRED, p.Status)
	s.Nil(p.PaidAt)
}

func TestSweeperTestSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

func TestParseEmailPayload(t *testing.T) {
	input := ParseEmailPayload(`{"from":"no-reply@hrc.local","from-name":"HRC","to":["guest@example.com"],"subject":"Booking confirmed","body":"<p>hi</p>","html":true}`)
	require.NotNil(t, input)
	assert.Equal(t, "no-reply@hrc.local", input.From)
	assert.Equal(t, "HRC", input.FromName)
	assert.Equal(t, []string{"guest@example.com"}, input.To)
	assert.Empty(t, input.Bcc)
	assert.True(t, input.Html)

	assert.Nil(t, ParseEmailPayload(`{"from":`))
	assert.Nil(t, ParseEmailPayload(`{"from":"a@b.c","to":[]}`))
}
