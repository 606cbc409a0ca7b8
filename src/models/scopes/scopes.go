package scopes

import (
	"hrc/src/types"

	"gorm.io/gorm"
)

func WithID(id any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithBookingStatus(statuses ...types.BookingStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(statuses) == 1 {
			return db.Where("booking_status = ?", statuses[0])
		}
		return db.Where("booking_status IN (?)", statuses)
	}
}

// Holding restricts bookings to those that consume slot capacity. Walk-ins
// never do.
func Holding(db *gorm.DB) *gorm.DB {
	return db.Where("booking_status IN (?) AND is_walkin = ?", types.ActiveBookingStatuses, false)
}

// CurrentPayment keeps one payment per booking: the paid one, else the open
// attempt, else the most recent.
func CurrentPayment(db *gorm.DB) *gorm.DB {
	return db.Where(
		"payments.id = (SELECT p2.id FROM payments p2 WHERE p2.booking_id = payments.booking_id ORDER BY CASE p2.status WHEN ? THEN 0 WHEN ? THEN 2 ELSE 1 END, p2.created_at DESC LIMIT 1)",
		types.PAYMENT_PAID, types.PAYMENT_EXPIRED,
	)
}

func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
