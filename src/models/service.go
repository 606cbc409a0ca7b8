package models

import (
	"hrc/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Service struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Name          string  `gorm:"not null" json:"name"`
	Slug          string  `gorm:"index" json:"slug"`
	Description   *string `json:"description,omitempty"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationHours *int    `json:"duration_hours,omitempty"`
	ImageURL      *string `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive      bool    `gorm:"not null" json:"is_active"`

	Variants []Variant `gorm:"foreignKey:ServiceID" json:"variants,omitempty"`

	types.Timestamps
}

func (s *Service) BeforeSave(tx *gorm.DB) error {
	s.Slug = slug.Make(s.Name)
	return nil
}

type Variant struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	ServiceID     uint    `gorm:"not null;index" json:"service_id"`
	Name          string  `gorm:"not null" json:"name"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationHours *int    `json:"duration_hours,omitempty"`
	IsActive      bool    `gorm:"not null" json:"is_active"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	types.Timestamps
}

func (Variant) TableName() string {
	return "service_variants"
}
