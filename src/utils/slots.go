package utils

import (
	"errors"
	"fmt"
	"hrc/src/config"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockSlot reserves one unit of an availability slot for LockTTL. The slot
// row is locked for the duration of the transaction so that the capacity
// check and the insert cannot interleave with another lock or confirmation.
func LockSlot(params *types.LockSlotRequestBody, now time.Time) (*models.Booking, error) {
	now = now.UTC()
	settings := config.GetSettings()
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var slot models.Availability
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, params.AvailabilityID).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: availability %d", types.ErrNotFound, params.AvailabilityID)
			}
			return err
		}
		if slot.ServiceID != params.ServiceID {
			return fmt.Errorf("%w: availability %d does not belong to service %d", types.ErrValidation, slot.ID, params.ServiceID)
		}
		var service models.Service
		if err := tx.Scopes(scopes.Active).First(&service, params.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: service %d", types.ErrNotFound, params.ServiceID)
			}
			return err
		}
		if params.VariantID != nil {
			var variant models.Variant
			err := tx.
				Scopes(scopes.Active).
				Where("service_id = ?", service.ID).
				First(&variant, *params.VariantID).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: variant %d", types.ErrNotFound, *params.VariantID)
				}
				return err
			}
		}
		closures, err := GetClosedDates(tx)
		if err != nil {
			return err
		}
		if !IsBookable(&slot, closures, CalendarDate(now)) {
			return fmt.Errorf("%w: %s", types.ErrSlotUnavailable, FormatDate(slot.Date))
		}
		held, err := CountHolding(tx, slot.ID)
		if err != nil {
			return err
		}
		if held[slot.ID] >= slot.Capacity {
			return fmt.Errorf("%w: %s", types.ErrSlotFull, FormatDate(slot.Date))
		}

		expiresAt := now.Add(settings.LockTTL)
		booking = models.Booking{
			ServiceID:      service.ID,
			VariantID:      params.VariantID,
			AvailabilityID: &slot.ID,
			Status:         types.STATUS_PENDING,
			BookingStatus:  types.BOOKING_LOCKED,
			ExpiresAt:      &expiresAt,
			PaymentMethod:  types.METHOD_ONLINE,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	lib.BookingsLocked.Inc()
	scheduleLockExpiry(booking.ID, *booking.ExpiresAt)
	return &booking, nil
}

// scheduleLockExpiry expires the lock as soon as it lapses. The sweeper still
// catches anything this misses, e.g. after a restart.
func scheduleLockExpiry(id uuid.UUID, at time.Time) {
	_, err := lib.CreateOneTimeCronJob(fmt.Sprintf("expire_%s", id.String()), at.Add(time.Second), func() {
		if _, err := ExpireLock(id, time.Now()); err != nil {
			log.Printf("Error expiring booking [%s]: %s\n", id.String(), err.Error())
		}
	})
	if err != nil {
		log.Printf("Could not schedule expiry for booking [%s]: %s\n", id.String(), err.Error())
	}
}

// ReleaseSlot expires a locked booking on request. Any other state, including
// a second release, reports not found.
func ReleaseSlot(id uuid.UUID) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ?", id, types.BOOKING_LOCKED).
			Update("booking_status", types.BOOKING_EXPIRED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking %s is not locked", types.ErrNotFound, id.String())
		}
		if err := expirePayments(tx, id); err != nil {
			return err
		}
		return tx.First(&booking, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	lib.BookingsExpired.WithLabelValues("release").Inc()
	return &booking, nil
}

// ExpireLock expires a single lock whose deadline has passed. It reports false
// when the booking was already confirmed, released or swept.
func ExpireLock(id uuid.UUID, now time.Time) (bool, error) {
	db := db.GetDb()
	expired := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ? AND expires_at <= ?", id, types.BOOKING_LOCKED, now.UTC()).
			Update("booking_status", types.BOOKING_EXPIRED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		expired = true
		return expirePayments(tx, id)
	})
	if err == nil && expired {
		lib.BookingsExpired.WithLabelValues("timer").Inc()
	}
	return expired, err
}

// UpdateBookingDetails attaches guest and vehicle details to a locked booking.
func UpdateBookingDetails(id uuid.UUID, params *types.UpdateBookingRequestBody) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var description *string
		if params.MotorcycleDescription != "" {
			description = &params.MotorcycleDescription
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND booking_status = ?", id, types.BOOKING_LOCKED).
			Updates(map[string]any{
				"guest_name":             params.GuestName,
				"guest_email":            params.GuestEmail,
				"guest_phone":            params.GuestPhone,
				"motorcycle_plate":       params.MotorcyclePlate,
				"motorcycle_model":       params.MotorcycleModel,
				"motorcycle_color":       params.MotorcycleColor,
				"motorcycle_description": description,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking %s is not locked", types.ErrNotFound, id.String())
		}
		return tx.First(&booking, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// expirePayments closes the unpaid payment of a booking that lost its lock.
func expirePayments(tx *gorm.DB, bookingIDs ...uuid.UUID) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	return tx.
		Model(&models.Payment{}).
		Where("booking_id IN ? AND status IN ?", bookingIDs, openPaymentStatuses).
		Update("status", types.PAYMENT_EXPIRED).
		Error
}
