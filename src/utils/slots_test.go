package utils

import (
	"testing"
	"tutorhub/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func slotRow(id uint, available bool, booked bool) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "teacher_id", "price", "is_available", "is_booked"}).
		AddRow(id, 7, 100.0, available, booked)
}

func TestLockSlotTakesRowLock(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "availability_slots" (.+) FOR UPDATE`).
		WillReturnRows(slotRow(3, true, false))

	slot, err := LockSlot(gormDB, 3)
	assert.Nil(t, err)
	assert.Equal(t, uint(3), slot.ID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestLockSlotBooked(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "availability_slots" (.+) FOR UPDATE`).
		WillReturnRows(slotRow(3, true, true))

	_, err := LockSlot(gormDB, 3)
	assert.ErrorIs(t, err, types.ErrSlotUnavailable)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestLockSlotClosed(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "availability_slots" (.+) FOR UPDATE`).
		WillReturnRows(slotRow(3, false, false))

	_, err := LockSlot(gormDB, 3)
	assert.ErrorIs(t, err, types.ErrSlotUnavailable)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestLockSlotMissing(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "availability_slots" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := LockSlot(gormDB, 404)
	assert.ErrorIs(t, err, types.ErrSlotUnavailable)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestReserveSlotClosesAvailability(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(`SELECT (.+) FROM "availability_slots" (.+) FOR UPDATE`).
		WillReturnRows(slotRow(3, true, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "availability_slots" SET "booking_id"=(.+),"is_available"=(.+),"is_booked"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	slot, err := LockSlot(gormDB, 3)
	assert.Nil(t, err)

	err = ReserveSlot(gormDB, slot, 11)
	assert.Nil(t, err)
	assert.False(t, slot.IsAvailable)
	assert.True(t, slot.IsBooked)
	assert.Equal(t, uint(11), *slot.BookingID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestReleaseSlotReopensAvailability(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "availability_slots" SET "booking_id"=(.+),"is_available"=(.+),"is_booked"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ReleaseSlot(gormDB, 3)
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}
