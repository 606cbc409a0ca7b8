package lib

import (
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobs(t *testing.T) {
	s, err := gocron.NewScheduler()
	require.NoError(t, err)
	NewScheduler(s)
	t.Cleanup(func() {
		_ = s.Shutdown()
		NewScheduler(nil)
	})

	id, err := CreateCronJob("expire_stale_locks", func() {}, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, *id)

	_, err = CreateCrontabJob("purge_expired_bookings", "0 3 * * *", func() {})
	require.NoError(t, err)

	_, err = CreateOneTimeCronJob("expire_booking", time.Now().Add(time.Hour), func(string) {}, "abc")
	require.NoError(t, err)

	_, err = CreateCrontabJob("broken", "not a crontab", func() {})
	assert.Error(t, err)
}
