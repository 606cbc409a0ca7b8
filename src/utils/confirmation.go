package utils

import (
	"context"
	"fmt"
	"hrc/src/db"
	"hrc/src/lib"
	"hrc/src/lib/aws"
	"hrc/src/lib/mailer"
	"hrc/src/models"
	"hrc/src/types"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const QR_ROUTE = "/api/v1/bookings/qr/"
const BOOKINGS_TOPIC = "bookings"

// OnConfirmed runs after a booking is confirmed by payment. The default hands
// the booking to FinalizeConfirmation in the background.
var OnConfirmed = func(id uuid.UUID) {
	go FinalizeConfirmation(id)
}

func AssetsDir() string {
	dir := os.Getenv("ASSETS_DIR")
	if dir == "" {
		dir = "assets"
	}
	return filepath.Join(dir, "qr")
}

func qrObjectKey(name string) string {
	return "qr/" + name
}

// FinalizeConfirmation produces the artifacts of a confirmed booking and tells
// the guest and the staff about it. Nothing here can undo the confirmation,
// failures are logged.
func FinalizeConfirmation(id uuid.UUID) {
	booking, err := GetBooking(id)
	if err != nil {
		log.Printf("[Confirm] Could not load booking [%s]: %s\n", id.String(), err.Error())
		return
	}
	if booking.ReferenceCode == nil {
		log.Printf("[Confirm] Booking [%s] has no reference code\n", id.String())
		return
	}
	ref := *booking.ReferenceCode

	if url, err := StoreQRCode(ref); err != nil {
		log.Printf("[Confirm] Could not store QR code for %s: %s\n", ref, err.Error())
	} else {
		db := db.GetDb()
		if err := db.Model(&models.Booking{}).Where("id = ?", id).Update("qr_code", url).Error; err != nil {
			log.Printf("[Confirm] Could not save QR code for %s: %s\n", ref, err.Error())
		}
	}

	if err := SendConfirmationEmail(booking); err != nil {
		log.Printf("[Confirm] Could not send confirmation email for %s: %s\n", ref, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	title := "New booking confirmed"
	body := fmt.Sprintf("%s confirmed", ref)
	if booking.GuestName != nil {
		body = fmt.Sprintf("%s: %s", ref, *booking.GuestName)
	}
	data := map[string]string{
		"bookingId":     booking.ID.String(),
		"referenceCode": ref,
	}
	if err := lib.SendTopicMessage(ctx, BOOKINGS_TOPIC, title, body, data); err != nil {
		log.Printf("[FCM] Could not notify staff for %s: %s\n", ref, err.Error())
	}
}

// StoreQRCode renders the reference code and returns the URL clients use to
// fetch the image.
func StoreQRCode(ref string) (string, error) {
	name := fmt.Sprintf("%s.jpeg", ref)
	fp, err := lib.GenerateQRCode(ref, AssetsDir(), name)
	if err != nil {
		return "", err
	}
	if aws.S3Enabled() {
		if err := aws.S3UploadAsset(qrObjectKey(name), fp, "image/jpeg"); err != nil {
			return "", err
		}
		if err := os.Remove(fp); err != nil {
			log.Printf("Could not remove local QR code %s: %s\n", fp, err.Error())
		}
	}
	return QR_ROUTE + name, nil
}

// ResolveQRCode returns either a presigned URL to redirect to or the path of
// the local image. Presigned URLs are cached until shortly before they lapse.
func ResolveQRCode(ctx context.Context, name string) (redirect string, path string, err error) {
	name = filepath.Base(name)
	if !aws.S3Enabled() {
		fp := filepath.Join(AssetsDir(), name)
		if _, err := os.Stat(fp); err != nil {
			return "", "", fmt.Errorf("%w: qr code %s", types.ErrNotFound, name)
		}
		return "", fp, nil
	}
	key := fmt.Sprintf("qr:%s", name)
	if cached := lib.CacheGet(ctx, key); cached != "" {
		return cached, "", nil
	}
	url, err := aws.S3PresignAsset(qrObjectKey(name), time.Hour)
	if err != nil {
		return "", "", err
	}
	lib.CacheSet(ctx, key, *url, 50*time.Minute)
	return *url, "", nil
}

func SendConfirmationEmail(booking *models.Booking) error {
	if booking.GuestEmail == nil || *booking.GuestEmail == "" {
		return nil
	}
	from := os.Getenv("EMAIL_SENDER")
	if from == "" {
		from = "no-reply@hrc.local"
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("<p>Your booking is confirmed. Reference code: <b>%s</b></p>", *booking.ReferenceCode))
	if booking.QueueNumber != nil {
		lines = append(lines, fmt.Sprintf("<p>Queue number: %d</p>", *booking.QueueNumber))
	}
	if booking.Service != nil {
		lines = append(lines, fmt.Sprintf("<p>Service: %s</p>", booking.Service.Name))
	}
	if booking.Availability != nil {
		lines = append(lines, fmt.Sprintf("<p>Date: %s</p>", FormatDate(booking.Availability.Date)))
	}
	if p := booking.Payment; p != nil {
		lines = append(lines, fmt.Sprintf("<p>Paid: %s</p>", humanize.CommafWithDigits(p.AmountPaid, 2)))
		if p.RemainingBalance > 0 {
			lines = append(lines, fmt.Sprintf("<p>Balance due on arrival: %s</p>", humanize.CommafWithDigits(p.RemainingBalance, 2)))
		}
	}
	return mailer.NewMailerMessage(&lib.SendMailInput{
		From:     from,
		FromName: "HRC Detailing",
		To:       []string{*booking.GuestEmail},
		Subject:  fmt.Sprintf("Booking confirmed: %s", *booking.ReferenceCode),
		Body:     strings.Join(lines, "\n"),
		Html:     true,
	})
}
