package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSettingsDefaults(t *testing.T) {
	NewSettings(nil)
	t.Cleanup(func() { NewSettings(nil) })
	s := GetSettings()

	assert.Equal(t, 15*time.Minute, s.LockTTL)
	assert.Equal(t, 60*time.Second, s.SweepInterval)
	assert.Equal(t, 30*24*time.Hour, s.RetentionWindow)
	assert.Equal(t, "0 0 * * 0", s.PurgeSchedule)
	assert.Equal(t, "HRC-", s.ReferencePrefix)
}

func TestGetSettingsOverride(t *testing.T) {
	NewSettings(nil)
	t.Setenv("BOOKING_LOCK_TTL", "5m")
	t.Cleanup(func() { NewSettings(nil) })
	s := GetSettings()

	assert.Equal(t, 5*time.Minute, s.LockTTL)
}

func TestGetDSN(t *testing.T) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_NAME", "hrcdb")
	dsn := GetDSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=hrcdb")
}
