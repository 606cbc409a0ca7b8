package utils

import (
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"strings"
	"time"

	"gorm.io/gorm"
)

type TodayStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type Notifications struct {
	New     []models.Booking `json:"new"`
	Pending []models.Booking `json:"pending"`
	Pickup  []models.Booking `json:"pickup"`
	Expired []models.Booking `json:"expired"`
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Service").
		Preload("Variant").
		Preload("Availability").
		Preload("Payment", scopes.CurrentPayment)
}

// scheduledToday keeps confirmed bookings due today: those on today's slot and
// walk-ins without a slot created today.
func scheduledToday(now time.Time) func(db *gorm.DB) *gorm.DB {
	start, end := DayRange(now)
	today := CalendarDate(now.UTC())
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("LEFT JOIN availability ON availability.id = bookings.availability_id").
			Where("bookings.booking_status = ?", types.BOOKING_CONFIRMED).
			Where(
				db.Session(&gorm.Session{NewDB: true}).
					Where("availability.date = ?", today).
					Or("bookings.availability_id IS NULL AND bookings.created_at BETWEEN ? AND ?", start, end),
			)
	}
}

func TodayBookings(now time.Time) ([]models.Booking, error) {
	db := db.GetDb()
	var bookings []models.Booking
	err := db.
		Model(&models.Booking{}).
		Scopes(scheduledToday(now), withDetails).
		Order("bookings.created_at desc").
		Find(&bookings).
		Error
	return bookings, err
}

func GetTodayStats(now time.Time) (*TodayStats, error) {
	bookings, err := TodayBookings(now)
	if err != nil {
		return nil, err
	}
	stats := TodayStats{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case types.STATUS_PENDING:
			stats.Pending++
		case types.STATUS_IN_PROGRESS:
			stats.InProgress++
		case types.STATUS_DONE, types.STATUS_PICKED_UP:
			stats.Done++
		}
	}
	return &stats, nil
}

// PickupPending lists finished work that has not been collected yet.
func PickupPending() ([]models.Booking, error) {
	db := db.GetDb()
	var bookings []models.Booking
	err := db.
		Model(&models.Booking{}).
		Scopes(withDetails).
		Where("booking_status = ? AND status = ?", types.BOOKING_CONFIRMED, types.STATUS_DONE).
		Order("updated_at desc").
		Find(&bookings).
		Error
	return bookings, err
}

func ListBookings(filters *types.BookingQueryFilters) ([]models.Booking, error) {
	db := db.GetDb()
	q := db.
		Model(&models.Booking{}).
		Scopes(withDetails).
		Where("booking_status = ?", types.BOOKING_CONFIRMED)
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(reference_code) LIKE ? OR LOWER(guest_name) LIKE ? OR LOWER(guest_email) LIKE ? OR LOWER(motorcycle_plate) LIKE ?",
			term, term, term, term,
		)
	}
	var bookings []models.Booking
	err := q.Order("created_at desc").Limit(100).Find(&bookings).Error
	return bookings, err
}

// NotificationsCount is the number of today's bookings that need staff
// attention: not started yet or waiting for pickup.
func NotificationsCount(now time.Time) (int64, error) {
	db := db.GetDb()
	var count int64
	err := db.
		Model(&models.Booking{}).
		Scopes(scheduledToday(now)).
		Where("bookings.status IN ?", []types.OperationalStatus{types.STATUS_PENDING, types.STATUS_DONE}).
		Count(&count).
		Error
	return count, err
}

func ListNotifications(now time.Time) (*Notifications, error) {
	db := db.GetDb()
	start, end := DayRange(now)
	var n Notifications
	err := db.
		Model(&models.Booking{}).
		Scopes(withDetails).
		Where("booking_status = ? AND created_at BETWEEN ? AND ?", types.BOOKING_CONFIRMED, start, end).
		Order("created_at desc").
		Find(&n.New).
		Error
	if err != nil {
		return nil, err
	}
	err = db.
		Model(&models.Booking{}).
		Scopes(scheduledToday(now), withDetails).
		Where("bookings.status = ?", types.STATUS_PENDING).
		Order("bookings.created_at asc").
		Find(&n.Pending).
		Error
	if err != nil {
		return nil, err
	}
	if n.Pickup, err = PickupPending(); err != nil {
		return nil, err
	}
	err = db.
		Model(&models.Booking{}).
		Scopes(withDetails).
		Where("booking_status = ? AND updated_at BETWEEN ? AND ?", types.BOOKING_EXPIRED, start, end).
		Order("updated_at desc").
		Find(&n.Expired).
		Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func ListStaff() ([]models.User, error) {
	db := db.GetDb()
	var users []models.User
	err := db.Model(&models.User{}).Order("name asc").Find(&users).Error
	return users, err
}
