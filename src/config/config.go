package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds the tunables of the booking engine. Values come from the
// environment and fall back to the defaults below.
type Settings struct {
	Port                 string        `envconfig:"PORT" default:"9090"`
	LockTTL              time.Duration `envconfig:"BOOKING_LOCK_TTL" default:"15m"`
	SweepInterval        time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"60s"`
	PurgeSchedule        string        `envconfig:"BOOKING_PURGE_CRON" default:"0 0 * * 0"`
	RetentionWindow      time.Duration `envconfig:"BOOKING_RETENTION" default:"720h"`
	WebhookCallbackToken string        `envconfig:"WEBHOOK_CALLBACK_TOKEN"`
	ReferencePrefix      string        `envconfig:"BOOKING_REFERENCE_PREFIX" default:"HRC-"`
	Currency             string        `envconfig:"CURRENCY" default:"php"`
}

var settings *Settings

func GetSettings() *Settings {
	if settings != nil {
		return settings
	}
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		log.Printf("Error reading settings: %s\n", err.Error())
		panic(err)
	}
	settings = &s
	return settings
}

// NewSettings replaces the active settings.
func NewSettings(s *Settings) {
	settings = s
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func GetAPIEnv() string {
	return os.Getenv("API_ENV")
}

const DATE_FORMAT = "2006-01-02"
