package models

import (
	"hrc/src/types"
	"time"
)

// Availability is the capacity of one service on one calendar date.
type Availability struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ServiceID uint      `gorm:"not null;uniqueIndex:idx_availability_service_date" json:"service_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_availability_service_date" json:"date"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	IsOpen    bool      `gorm:"not null" json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Availability) TableName() string {
	return "availability"
}

type ClosedDate struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	Type      types.ClosureType `gorm:"type:varchar(16);not null" json:"type"`
	Date      *time.Time        `gorm:"type:date" json:"date,omitempty"`
	DayOfWeek *int              `json:"day_of_week,omitempty"`
	Reason    *string           `json:"reason,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Matches reports whether the rule closes the given calendar date.
func (c ClosedDate) Matches(date time.Time) bool {
	switch c.Type {
	case types.CLOSURE_SPECIFIC:
		if c.Date == nil {
			return false
		}
		y1, m1, d1 := c.Date.Date()
		y2, m2, d2 := date.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case types.CLOSURE_RECURRING:
		return c.DayOfWeek != nil && *c.DayOfWeek == int(date.Weekday())
	}
	return false
}
