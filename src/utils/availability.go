package utils

import (
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"time"

	"gorm.io/gorm"
)

type OpenDate struct {
	AvailabilityID uint   `json:"availability_id"`
	Date           string `json:"date"`
	Capacity       int    `json:"capacity"`
	Remaining      int    `json:"remaining"`
}

// ListOpenDates projects the bookable dates of a service. Remaining capacity
// is recounted from the bookings table on every call.
func ListOpenDates(serviceId uint, now time.Time) ([]OpenDate, error) {
	db := db.GetDb()
	var slots []models.Availability
	err := db.
		Model(&models.Availability{}).
		Where("service_id = ? AND is_open = ?", serviceId, true).
		Order("date asc").
		Find(&slots).
		Error
	if err != nil {
		return nil, err
	}
	closures, err := GetClosedDates(db)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	held, err := CountHolding(db, ids...)
	if err != nil {
		return nil, err
	}

	today := CalendarDate(now)
	dates := []OpenDate{}
	for _, slot := range slots {
		if !IsBookable(&slot, closures, today) {
			continue
		}
		remaining := slot.Capacity - held[slot.ID]
		if remaining <= 0 {
			continue
		}
		dates = append(dates, OpenDate{
			AvailabilityID: slot.ID,
			Date:           FormatDate(slot.Date),
			Capacity:       slot.Capacity,
			Remaining:      remaining,
		})
	}
	return dates, nil
}

// IsBookable reports whether guests may reserve the slot: open, with capacity,
// strictly after today and not hit by a closure rule.
func IsBookable(slot *models.Availability, closures []models.ClosedDate, today time.Time) bool {
	if !slot.IsOpen || slot.Capacity < 1 {
		return false
	}
	if !CalendarDate(slot.Date).After(today) {
		return false
	}
	return !IsClosed(slot.Date, closures)
}

func IsClosed(date time.Time, closures []models.ClosedDate) bool {
	for _, c := range closures {
		if c.Matches(date) {
			return true
		}
	}
	return false
}

func GetClosedDates(tx *gorm.DB) ([]models.ClosedDate, error) {
	var closures []models.ClosedDate
	err := tx.
		Model(&models.ClosedDate{}).
		Order("created_at desc").
		Find(&closures).
		Error
	return closures, err
}

// CountHolding returns, per availability id, the number of bookings that
// hold capacity.
func CountHolding(tx *gorm.DB, ids ...uint) (map[uint]int, error) {
	counts := map[uint]int{}
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		AvailabilityID uint
		Total          int
	}
	err := tx.
		Model(&models.Booking{}).
		Select("availability_id, COUNT(*) AS total").
		Where("availability_id IN ?", ids).
		Scopes(scopes.Holding).
		Group("availability_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.AvailabilityID] = r.Total
	}
	return counts, nil
}
