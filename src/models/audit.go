package models

import "time"

type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	Action      string    `gorm:"not null" json:"action"`
	TargetTable string    `json:"target_table"`
	TargetID    string    `json:"target_id"`
	Details     string    `json:"details"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Service{},
		&Variant{},
		&Availability{},
		&ClosedDate{},
		&Booking{},
		&Payment{},
		&AuditLog{},
	}
}
