package models

import "hrc/src/types"

type User struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Name     string     `json:"name,omitempty"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password string     `json:"-"`
	Role     types.Role `gorm:"type:varchar(10);not null" json:"role,omitempty"`

	types.Timestamps
}
