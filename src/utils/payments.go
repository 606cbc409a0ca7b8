package utils

import (
	"context"
	"errors"
	"fmt"
	"hrc/src/config"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/models"
	"hrc/src/types"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Checkout struct {
	PaymentID  string `json:"paymentId"`
	InvoiceURL string `json:"invoiceUrl"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PaymentAmounts splits the booking price according to the payment type.
func PaymentAmounts(amount float64, paymentType types.PaymentType) (paid float64, remaining float64) {
	amount = round2(amount)
	paid = amount
	if paymentType == types.PAYMENT_HALF {
		paid = round2(amount * 0.5)
	}
	return paid, round2(amount - paid)
}

func checkoutURL(status string, paymentID uuid.UUID) string {
	frontend := strings.TrimSuffix(os.Getenv("FRONTEND_URL"), "/")
	return fmt.Sprintf("%s/booking/%s?external_id=%s", frontend, status, paymentID.String())
}

// openPaymentStatuses are the attempts that can still be superseded.
var openPaymentStatuses = []types.PaymentStatus{types.PAYMENT_UNPAID, types.PAYMENT_FAILED}

// CreatePayment records the amount owed for a locked booking and opens a
// checkout with the gateway. Earlier open attempts are expired but kept, so a
// checkout the guest already started can still confirm the booking.
func CreatePayment(ctx context.Context, params *types.CreatePaymentRequestBody, now time.Time) (*Checkout, error) {
	bookingID, err := uuid.Parse(params.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", types.ErrValidation)
	}
	db := db.GetDb()
	var booking models.Booking
	var payment models.Payment
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Preload("Service").
			Preload("Variant").
			Where("id = ? AND booking_status = ?", bookingID, types.BOOKING_LOCKED).
			First(&booking).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking %s is not locked", types.ErrNotFound, bookingID.String())
			}
			return err
		}
		if booking.ExpiresAt != nil && !booking.ExpiresAt.After(now.UTC()) {
			return fmt.Errorf("%w: booking %s has expired", types.ErrNotFound, bookingID.String())
		}
		if booking.Service == nil {
			return fmt.Errorf("%w: service %d", types.ErrNotFound, booking.ServiceID)
		}
		amount := booking.Service.Price
		if booking.Variant != nil {
			amount = booking.Variant.Price
		}
		paid, remaining := PaymentAmounts(amount, params.PaymentType)

		err = tx.
			Model(&models.Payment{}).
			Where("booking_id = ? AND status IN ?", booking.ID, openPaymentStatuses).
			Update("status", types.PAYMENT_EXPIRED).
			Error
		if err != nil {
			return err
		}
		payment = models.Payment{
			BookingID:        booking.ID,
			Amount:           round2(amount),
			AmountPaid:       paid,
			RemainingBalance: remaining,
			PaymentType:      params.PaymentType,
			IsFullyPaid:      params.PaymentType == types.PAYMENT_FULL,
			Status:           types.PAYMENT_UNPAID,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	description := booking.Service.Name
	if booking.Variant != nil {
		description = fmt.Sprintf("%s (%s)", booking.Service.Name, booking.Variant.Name)
	}
	input := &lib.InvoiceInput{
		ExternalID:  payment.ID.String(),
		Amount:      payment.AmountPaid,
		Currency:    config.GetSettings().Currency,
		Description: description,
		SuccessURL:  checkoutURL("success", payment.ID),
		FailureURL:  checkoutURL("failed", payment.ID),
	}
	if booking.GuestEmail != nil {
		input.PayerEmail = *booking.GuestEmail
	}
	invoice, err := lib.GetPaymentGateway().CreateInvoice(ctx, input)
	if err != nil {
		log.Printf("[Stripe] Error creating checkout for payment [%s]: %s\n", payment.ID.String(), err.Error())
		if uerr := db.
			Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, types.PAYMENT_UNPAID).
			Update("status", types.PAYMENT_FAILED).
			Error; uerr != nil {
			log.Printf("Error marking payment [%s] as failed: %s\n", payment.ID.String(), uerr.Error())
		}
		return nil, err
	}
	err = db.
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"gateway_invoice_id": invoice.ID,
			"checkout_url":       invoice.URL,
		}).
		Error
	if err != nil {
		return nil, err
	}
	return &Checkout{PaymentID: payment.ID.String(), InvoiceURL: invoice.URL}, nil
}

// HandlePaymentWebhook applies a gateway notification. Only a paid status
// has an effect, and only the first delivery for a still-locked booking
// confirms it. Any attempt of the booking may confirm it, including one that
// a later checkout superseded. Repeated or late deliveries return a nil
// booking and no error.
func HandlePaymentWebhook(externalID string, status string, invoiceID string, now time.Time) (*models.Booking, error) {
	if !strings.EqualFold(status, string(types.PAYMENT_PAID)) {
		lib.PaymentWebhooks.WithLabelValues("ignored").Inc()
		return nil, nil
	}
	paymentID, err := uuid.Parse(externalID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment %s", types.ErrNotFound, externalID)
	}
	now = now.UTC()
	db := db.GetDb()
	var booking *models.Booking
	err = db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %s", types.ErrNotFound, externalID)
			}
			return err
		}
		confirmed, err := ConfirmBooking(tx, payment.BookingID, now)
		if err != nil {
			if errors.Is(err, types.ErrNotLocked) {
				return nil
			}
			return err
		}
		updates := map[string]any{
			"status":  types.PAYMENT_PAID,
			"paid_at": now,
		}
		if invoiceID != "" {
			updates["gateway_invoice_id"] = invoiceID
		}
		// the paid attempt becomes the only active one
		err = tx.
			Model(&models.Payment{}).
			Where("booking_id = ? AND id <> ? AND status IN ?", payment.BookingID, payment.ID, openPaymentStatuses).
			Update("status", types.PAYMENT_EXPIRED).
			Error
		if err != nil {
			return err
		}
		res := tx.
			Model(&models.Payment{}).
			Where("id = ? AND status <> ?", payment.ID, types.PAYMENT_PAID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		booking = confirmed
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			lib.PaymentWebhooks.WithLabelValues("unknown").Inc()
		}
		return nil, err
	}
	if booking == nil {
		lib.PaymentWebhooks.WithLabelValues("duplicate").Inc()
		return nil, nil
	}
	lib.PaymentWebhooks.WithLabelValues("confirmed").Inc()
	lib.BookingsConfirmed.WithLabelValues("online").Inc()
	OnConfirmed(booking.ID)
	return booking, nil
}

func ListPayments() ([]models.Payment, error) {
	db := db.GetDb()
	var payments []models.Payment
	err := db.
		Model(&models.Payment{}).
		Preload("Booking").
		Preload("Booking.Service").
		Order("created_at desc").
		Find(&payments).
		Error
	return payments, err
}

// MarkPaymentFailed records that a checkout ended without payment. The
// booking lock is untouched so the guest may retry until it lapses.
func MarkPaymentFailed(externalID string) error {
	paymentID, err := uuid.Parse(externalID)
	if err != nil {
		return fmt.Errorf("%w: payment %s", types.ErrNotFound, externalID)
	}
	db := db.GetDb()
	return db.
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, types.PAYMENT_UNPAID).
		Update("status", types.PAYMENT_FAILED).
		Error
}
