package utils

import (
	"log"
	"testing"
	"time"
	"tutorhub/src/db"
	"tutorhub/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: conn,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func bookingRow(id uint, status types.BookingStatus, firstSessionDate time.Time, startTime string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "slot_id", "status", "first_session_date", "start_time", "total_amount"}).
		AddRow(id, 3, string(status), firstSessionDate, startTime, 200.0)
}

func TestMarkBookingPaidIdempotent(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	// The second confirmation path (poll vs callback) finds the booking
	// already confirmed and returns without touching anything.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(1, types.BOOKING_CONFIRMED, time.Now().Add(72*time.Hour), "14:00"))
	mock.ExpectCommit()

	sessions, err := MarkBookingPaid(1, nil)
	assert.Nil(t, err)
	assert.Empty(t, sessions)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMarkBookingPaidRejectsTerminalStatus(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(1, types.BOOKING_CANCELLED, time.Now().Add(72*time.Hour), "14:00"))
	mock.ExpectRollback()

	_, err := MarkBookingPaid(1, nil)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMarkBookingPaidNotFound(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := MarkBookingPaid(404, nil)
	assert.ErrorIs(t, err, types.ErrBookingNotFound)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMarkBookingFailedLeavesConfirmedAlone(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(1, types.BOOKING_CONFIRMED, time.Now().Add(72*time.Hour), "14:00"))
	mock.ExpectCommit()

	err := MarkBookingFailed(1, "transaction declined")
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelBlockedInsideCutoff(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(1, types.BOOKING_CONFIRMED, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "10:00"))
	mock.ExpectRollback()

	_, err := CancelConfirmedBooking(1, 5, "changed my mind", now)
	assert.ErrorIs(t, err, types.ErrRefundIneligible)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestNewBookingReference(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref := NewBookingReference()
		assert.Len(t, ref, 13)
		assert.Equal(t, "TH-", ref[:3])
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
