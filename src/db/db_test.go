package db

import (
	"hrc/src/models"
	"hrc/src/types"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	cfg := Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), cfg)
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestConfigWritesUTC(t *testing.T) {
	now := Config().NowFunc()

	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestNewDB(t *testing.T) {
	gormDB, _ := NewMockDB()
	NewDB(gormDB)
	defer NewDB(nil)

	assert.Same(t, gormDB, GetDb())
	assert.Equal(t, "postgres", GetDb().Dialector.Name())
}

func TestConditionalUpdateReportsNoRows(t *testing.T) {
	gormDB, mock := NewMockDB()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET "booking_status"=.* WHERE id = .* AND booking_status = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := gormDB.
		Model(&models.Booking{}).
		Where("id = ? AND booking_status = ?", id, types.BOOKING_LOCKED).
		Update("booking_status", types.BOOKING_EXPIRED)

	assert.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdateReportsRow(t *testing.T) {
	gormDB, mock := NewMockDB()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET "status"=.* WHERE id = .* AND status IN .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := gormDB.
		Model(&models.Payment{}).
		Where("id = ? AND status IN ?", id, []types.PaymentStatus{types.PAYMENT_UNPAID, types.PAYMENT_FAILED}).
		Update("status", types.PAYMENT_PAID)

	assert.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
