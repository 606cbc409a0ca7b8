package utils

import (
	"errors"
	"fmt"
	"hrc/src/config"
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceCode derives the guest-facing code from the booking id.
func ReferenceCode(id uuid.UUID) string {
	return config.GetSettings().ReferencePrefix + strings.ToUpper(id.String()[:8])
}

// ConfirmBooking moves a locked booking to confirmed and hands out the next
// queue number of its slot. It must run inside tx. ErrNotLocked means another
// writer got there first and the caller should treat the call as a no-op.
func ConfirmBooking(tx *gorm.DB, id uuid.UUID, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", types.ErrNotFound, id.String())
		}
		return nil, err
	}
	if booking.BookingStatus != types.BOOKING_LOCKED {
		return nil, types.ErrNotLocked
	}

	queue := 1
	if booking.AvailabilityID != nil {
		// serializes queue assignment per slot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&models.Availability{}, *booking.AvailabilityID).
			Error; err != nil {
			return nil, err
		}
		var maxQueue int
		if err := tx.
			Model(&models.Booking{}).
			Select("COALESCE(MAX(queue_number), 0)").
			Where("availability_id = ? AND booking_status = ? AND is_walkin = ?", *booking.AvailabilityID, types.BOOKING_CONFIRMED, false).
			Scan(&maxQueue).
			Error; err != nil {
			return nil, err
		}
		queue = maxQueue + 1
	}

	ref := ReferenceCode(booking.ID)
	res := tx.
		Model(&models.Booking{}).
		Where("id = ? AND booking_status = ?", booking.ID, types.BOOKING_LOCKED).
		Updates(map[string]any{
			"booking_status": types.BOOKING_CONFIRMED,
			"reference_code": ref,
			"queue_number":   queue,
			"expires_at":     nil,
			"updated_at":     now.UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.ErrNotLocked
	}
	if err := tx.First(&booking, "id = ?", booking.ID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// AdvanceStatus moves a confirmed booking one step forward in its operational
// status and records the change in the audit log.
func AdvanceStatus(id uuid.UUID, next types.OperationalStatus, actorID *uint) (*models.Booking, error) {
	prev, ok := next.Previous()
	if !ok {
		return nil, fmt.Errorf("%w: status %q", types.ErrValidation, next)
	}
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ? AND status = ?", id, types.BOOKING_CONFIRMED, prev).
			Updates(map[string]any{
				"status":     next,
				"updated_by": actorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&booking, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: booking %s", types.ErrNotFound, id.String())
				}
				return err
			}
			if booking.BookingStatus != types.BOOKING_CONFIRMED {
				return fmt.Errorf("%w: booking is %s", types.ErrInvalidTransition, booking.BookingStatus)
			}
			return fmt.Errorf("%w: %s to %s", types.ErrInvalidTransition, booking.Status, next)
		}
		if err := WriteAuditLog(tx, actorID, fmt.Sprintf("Updated booking status to %s", next), "bookings", id.String(), fmt.Sprintf("Status changed to %s", next)); err != nil {
			return err
		}
		return tx.First(&booking, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func GetBooking(id uuid.UUID) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.
		Preload("Service").
		Preload("Variant").
		Preload("Availability").
		Preload("Payment", scopes.CurrentPayment).
		First(&booking, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", types.ErrNotFound, id.String())
		}
		return nil, err
	}
	return &booking, nil
}

// GetBookingByPaymentID returns the booking paid for by the given payment.
func GetBookingByPaymentID(paymentID uuid.UUID) (*models.Booking, error) {
	db := db.GetDb()
	var payment models.Payment
	if err := db.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment %s", types.ErrNotFound, paymentID.String())
		}
		return nil, err
	}
	return GetBooking(payment.BookingID)
}
