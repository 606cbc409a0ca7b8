package utils

import (
	"errors"
	"fmt"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// WalkInReference builds the code printed for walk-in customers.
func WalkInReference(now time.Time) string {
	return "WI-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}

// CreateWalkIn registers a customer served on the spot. Walk-ins are paid in
// cash and confirmed immediately. They take no slot, so they never use slot
// capacity, and they are queued separately from online bookings.
func CreateWalkIn(params *types.WalkInRequestBody, actorID *uint, now time.Time) (*models.Booking, error) {
	now = now.UTC()
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.Scopes(scopes.Active).First(&service, params.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: service %d", types.ErrNotFound, params.ServiceID)
			}
			return err
		}
		var variant models.Variant
		err := tx.
			Scopes(scopes.Active).
			Where("service_id = ?", service.ID).
			First(&variant, params.VariantID).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: invalid variant %d", types.ErrValidation, params.VariantID)
			}
			return err
		}

		start, end := DayRange(now)
		var maxQueue int
		err = tx.
			Model(&models.Booking{}).
			Select("COALESCE(MAX(queue_number), 0)").
			Where("is_walkin = ? AND created_at BETWEEN ? AND ?", true, start, end).
			Scan(&maxQueue).
			Error
		if err != nil {
			return err
		}
		queue := maxQueue + 1
		ref := WalkInReference(now)

		booking = models.Booking{
			ReferenceCode:  &ref,
			QueueNumber:    &queue,
			ServiceID:      service.ID,
			VariantID:      &variant.ID,
			GuestName:      &params.GuestName,
			GuestPhone:     &params.GuestPhone,
			Status:         types.STATUS_PENDING,
			BookingStatus:  types.BOOKING_CONFIRMED,
			IsWalkin:       true,
			PaymentMethod:  types.METHOD_CASH,
			UpdatedBy:      actorID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if params.GuestEmail != "" {
			booking.GuestEmail = &params.GuestEmail
		}
		if params.MotorcyclePlate != "" {
			booking.MotorcyclePlate = &params.MotorcyclePlate
		}
		if params.MotorcycleDescription != "" {
			booking.MotorcycleDescription = &params.MotorcycleDescription
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		amount := round2(variant.Price)
		payment := models.Payment{
			BookingID:        booking.ID,
			Amount:           amount,
			AmountPaid:       amount,
			RemainingBalance: 0,
			PaymentType:      types.PAYMENT_FULL,
			IsFullyPaid:      true,
			Status:           types.PAYMENT_PAID,
			PaidAt:           &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		booking.Payment = &payment

		return WriteAuditLog(tx, actorID, "Created walk-in booking", "bookings", booking.ID.String(), fmt.Sprintf("Walk-in %s for %s", ref, params.GuestName))
	})
	if err != nil {
		return nil, err
	}
	lib.BookingsConfirmed.WithLabelValues("walkin").Inc()
	return &booking, nil
}
