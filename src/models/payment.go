package models

import (
	"hrc/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is the gateway-facing record of a booking. Its ID is the external
// id sent to the gateway and echoed back by the webhook. A booking keeps every
// attempt; at most one of them is not expired.
type Payment struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID        uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_payments_active_booking,where:status <> 'expired'" json:"booking_id"`
	Amount           float64             `gorm:"type:decimal(10,2);not null" json:"amount"`
	AmountPaid       float64             `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	RemainingBalance float64             `gorm:"type:decimal(10,2);not null" json:"remaining_balance"`
	PaymentType      types.PaymentType   `gorm:"type:varchar(10);not null" json:"payment_type"`
	IsFullyPaid      bool                `gorm:"not null" json:"is_fully_paid"`
	Status           types.PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	GatewayInvoiceID *string             `gorm:"column:gateway_invoice_id" json:"gateway_invoice_id,omitempty"`
	CheckoutURL      *string             `gorm:"column:checkout_url" json:"checkout_url,omitempty"`
	PaidAt           *time.Time          `json:"paid_at"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
