package models

import (
	"hrc/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID                    uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	ReferenceCode         *string                 `gorm:"uniqueIndex" json:"reference_code"`
	QueueNumber           *int                    `json:"queue_number"`
	ServiceID             uint                    `gorm:"not null;index" json:"service_id"`
	VariantID             *uint                   `json:"variant_id"`
	AvailabilityID        *uint                   `gorm:"index" json:"availability_id"`
	GuestName             *string                 `json:"guest_name"`
	GuestEmail            *string                 `json:"guest_email"`
	GuestPhone            *string                 `json:"guest_phone"`
	MotorcyclePlate       *string                 `json:"motorcycle_plate"`
	MotorcycleModel       *string                 `json:"motorcycle_model"`
	MotorcycleColor       *string                 `json:"motorcycle_color"`
	MotorcycleDescription *string                 `json:"motorcycle_description"`
	Status                types.OperationalStatus `gorm:"type:varchar(20);not null" json:"status"`
	BookingStatus         types.BookingStatus     `gorm:"type:varchar(20);not null;index" json:"booking_status"`
	ExpiresAt             *time.Time              `gorm:"index" json:"expires_at"`
	IsWalkin              bool                    `gorm:"column:is_walkin;not null" json:"is_walkin"`
	PaymentMethod         types.PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	QRCode                *string                 `gorm:"column:qr_code" json:"qr_code"`
	UpdatedBy             *uint                   `json:"updated_by,omitempty"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`

	Service      *Service      `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Variant      *Variant      `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Availability *Availability `gorm:"foreignKey:AvailabilityID" json:"availability,omitempty"`
	Payment      *Payment      `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
