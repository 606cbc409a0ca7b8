package common

import (
	"hrc/src/config"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpireStaleLocks moves every lock past its deadline to expired and closes
// the payments left open on those bookings.
func ExpireStaleLocks(now time.Time) (int64, error) {
	now = now.UTC()
	db := db.GetDb()
	var expired int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		err := tx.
			Model(&models.Booking{}).
			Where("booking_status = ? AND expires_at < ?", types.BOOKING_LOCKED, now).
			Pluck("id", &ids).
			Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id IN ? AND booking_status = ?", ids, types.BOOKING_LOCKED).
			Update("booking_status", types.BOOKING_EXPIRED)
		if res.Error != nil {
			return res.Error
		}
		expired = res.RowsAffected
		return tx.
			Model(&models.Payment{}).
			Where("booking_id IN ? AND status IN ?", ids, []types.PaymentStatus{types.PAYMENT_UNPAID, types.PAYMENT_FAILED}).
			Update("status", types.PAYMENT_EXPIRED).
			Error
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		lib.BookingsExpired.WithLabelValues("sweep").Add(float64(expired))
	}
	return expired, nil
}

// PurgeExpired deletes expired bookings whose lock ended before the retention
// window, together with their payments.
func PurgeExpired(now time.Time, retention time.Duration) (int64, error) {
	cutoff := now.UTC().Add(-retention)
	db := db.GetDb()
	var purged int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		err := tx.
			Model(&models.Booking{}).
			Where("booking_status = ? AND expires_at < ?", types.BOOKING_EXPIRED, cutoff).
			Pluck("id", &ids).
			Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("booking_id IN ?", ids).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Booking{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	lib.BookingsPurged.Add(float64(purged))
	return purged, nil
}

func sweep() {
	n, err := ExpireStaleLocks(time.Now())
	if err != nil {
		log.Printf("[Sweeper] Error expiring stale locks: %s\n", err.Error())
		return
	}
	if n > 0 {
		log.Printf("[Sweeper] Expired %d stale booking(s)\n", n)
	}
}

func purge() {
	n, err := PurgeExpired(time.Now(), config.GetSettings().RetentionWindow)
	if err != nil {
		log.Printf("[Sweeper] Error purging expired bookings: %s\n", err.Error())
		return
	}
	log.Printf("[Sweeper] Purged %d expired booking(s)\n", n)
}

// StartSweeper registers the expiry and purge jobs on the shared scheduler.
func StartSweeper() error {
	settings := config.GetSettings()
	if _, err := lib.CreateCronJob("expire_stale_locks", sweep, settings.SweepInterval); err != nil {
		log.Printf("[Sweeper] Could not schedule expiry job: %s\n", err.Error())
		return err
	}
	if _, err := lib.CreateCrontabJob("purge_expired_bookings", settings.PurgeSchedule, purge); err != nil {
		log.Printf("[Sweeper] Could not schedule purge job: %s\n", err.Error())
		return err
	}
	return nil
}
