package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type AppEnv string

const (
	Local      AppEnv = "local"
	Test       AppEnv = "test"
	Production AppEnv = "production"
)

// BookingStatus is the validity of a reservation. It decides whether a booking
// holds slot capacity.
type BookingStatus string

const (
	BOOKING_LOCKED    BookingStatus = "locked"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_EXPIRED   BookingStatus = "expired"
)

// ActiveBookingStatuses are the statuses that count against slot capacity.
var ActiveBookingStatuses = []BookingStatus{BOOKING_LOCKED, BOOKING_CONFIRMED}

// OperationalStatus tracks the work on a confirmed booking. Only staff move it.
type OperationalStatus string

const (
	STATUS_PENDING     OperationalStatus = "pending"
	STATUS_IN_PROGRESS OperationalStatus = "in_progress"
	STATUS_DONE        OperationalStatus = "done"
	STATUS_PICKED_UP   OperationalStatus = "picked_up"
)

// Previous returns the status a booking must be in before moving to s.
func (s OperationalStatus) Previous() (OperationalStatus, bool) {
	switch s {
	case STATUS_IN_PROGRESS:
		return STATUS_PENDING, true
	case STATUS_DONE:
		return STATUS_IN_PROGRESS, true
	case STATUS_PICKED_UP:
		return STATUS_DONE, true
	}
	return "", false
}

type PaymentStatus string

const (
	PAYMENT_UNPAID  PaymentStatus = "unpaid"
	PAYMENT_PAID    PaymentStatus = "paid"
	PAYMENT_FAILED  PaymentStatus = "failed"
	PAYMENT_EXPIRED PaymentStatus = "expired"
)

type PaymentType string

const (
	PAYMENT_FULL PaymentType = "full"
	PAYMENT_HALF PaymentType = "half"
)

type PaymentMethod string

const (
	METHOD_ONLINE PaymentMethod = "online"
	METHOD_CASH   PaymentMethod = "cash"
)

type ClosureType string

const (
	CLOSURE_SPECIFIC  ClosureType = "specific"
	CLOSURE_RECURRING ClosureType = "recurring"
)

type Role string

const (
	ROLE_ADMIN Role = "admin"
	ROLE_STAFF Role = "staff"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type BookingURIParams struct {
	BookingID string `uri:"bookingId" binding:"required,uuid"`
}

type ServiceURIParams struct {
	ServiceID uint `uri:"serviceId" binding:"required"`
}

type VariantURIParams struct {
	ServiceID uint `uri:"serviceId" binding:"required"`
	VariantID uint `uri:"variantId" binding:"required"`
}

type LockSlotRequestBody struct {
	ServiceID      uint  `json:"serviceId" binding:"required"`
	VariantID      *uint `json:"variantId"`
	AvailabilityID uint  `json:"availabilityId" binding:"required"`
}

type ReleaseSlotRequestBody struct {
	BookingID string `json:"bookingId" binding:"required,uuid"`
}

type UpdateBookingRequestBody struct {
	GuestName             string `json:"guestName" binding:"required"`
	GuestEmail            string `json:"guestEmail" binding:"required,email"`
	GuestPhone            string `json:"guestPhone" binding:"required"`
	MotorcyclePlate       string `json:"motorcyclePlate" binding:"required"`
	MotorcycleModel       string `json:"motorcycleModel" binding:"required"`
	MotorcycleColor       string `json:"motorcycleColor" binding:"required"`
	MotorcycleDescription string `json:"motorcycleDescription"`
}

type CreatePaymentRequestBody struct {
	BookingID   string      `json:"bookingId" binding:"required,uuid"`
	PaymentType PaymentType `json:"paymentType" binding:"required,paymenttype"`
}

type UpdateStatusRequestBody struct {
	Status OperationalStatus `json:"status" binding:"required,opstatus"`
}

type WalkInRequestBody struct {
	GuestName             string `json:"guest_name" binding:"required"`
	GuestEmail            string `json:"guest_email" binding:"omitempty,email"`
	GuestPhone            string `json:"guest_phone" binding:"required"`
	ServiceID             uint   `json:"service_id" binding:"required"`
	VariantID             uint   `json:"variant_id" binding:"required"`
	MotorcyclePlate       string `json:"motorcycle_plate"`
	MotorcycleDescription string `json:"motorcycle_description"`
}

type ServiceRequestBody struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	DurationHours *int    `json:"duration_hours" binding:"omitempty,gte=0"`
	ImageURL      string  `json:"image_url" binding:"omitempty,url"`
}

type VariantRequestBody struct {
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	DurationHours *int    `json:"duration_hours" binding:"omitempty,gte=0"`
}

type AvailabilityRequestBody struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required,isodate"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
	IsOpen    *bool  `json:"is_open"`
}

type UpdateAvailabilityRequestBody struct {
	Date     string `json:"date" binding:"omitempty,isodate"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	IsOpen   *bool  `json:"is_open"`
}

type ClosedDateRequestBody struct {
	Type      ClosureType `json:"type" binding:"required,oneof=specific recurring"`
	DayOfWeek *int        `json:"day_of_week" binding:"required_if=Type recurring,omitempty,min=0,max=6"`
	Date      string      `json:"date" binding:"required_if=Type specific,omitempty,isodate"`
	Reason    string      `json:"reason"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type BookingQueryFilters struct {
	Status string `form:"status" binding:"omitempty,oneof=pending in_progress done picked_up"`
	Search string `form:"search"`
}

type AvailabilityQueryFilters struct {
	Date string `form:"date" binding:"omitempty,isodate"`
}

type DetailsQueryFilters struct {
	ExternalID string `form:"external_id" binding:"required,uuid"`
}

type Handler func(payload string)
