package utils

import (
	"testing"
	"time"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"github.com/stretchr/testify/assert"
)

func TestBuildSessionsSingle(t *testing.T) {
	booking := &models.Booking{
		ID:               7,
		StudentID:        1,
		TeacherID:        2,
		SessionType:      types.SESSION_SINGLE,
		SessionsCount:    1,
		FirstSessionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:        "14:00",
		EndTime:          "16:00",
		Duration:         2,
	}
	sessions := BuildSessions(booking)
	assert.Len(t, sessions, 1)
	assert.Equal(t, uint(1), sessions[0].SessionNumber)
	assert.Equal(t, booking.FirstSessionDate, sessions[0].SessionDate)
	assert.Equal(t, "14:00", sessions[0].StartTime)
	assert.Equal(t, types.SESSION_SCHEDULED, sessions[0].Status)
	assert.Equal(t, uint(7), sessions[0].BookingID)
}

func TestBuildSessionsPackage(t *testing.T) {
	booking := &models.Booking{
		ID:               8,
		SessionType:      types.SESSION_PACKAGE,
		SessionsCount:    4,
		FirstSessionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:        "10:00",
		EndTime:          "11:00",
		Duration:         1,
	}
	sessions := BuildSessions(booking)
	assert.Len(t, sessions, 4)
	for i, s := range sessions {
		assert.Equal(t, uint(i+1), s.SessionNumber)
		expected := booking.FirstSessionDate.AddDate(0, 0, i*7)
		assert.Equal(t, expected, s.SessionDate)
		assert.Equal(t, "10:00", s.StartTime)
		assert.Equal(t, "11:00", s.EndTime)
	}
}

func TestBuildSessionsZeroCountDefaultsToOne(t *testing.T) {
	booking := &models.Booking{
		ID:               9,
		SessionType:      types.SESSION_SINGLE,
		FirstSessionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:        "09:00",
		EndTime:          "10:00",
	}
	sessions := BuildSessions(booking)
	assert.Len(t, sessions, 1)
}

func TestSessionTopic(t *testing.T) {
	booking := &models.Booking{
		SessionType:   types.SESSION_PACKAGE,
		SessionsCount: 4,
		Course:        &models.Course{Title: "Algebra II"},
	}
	assert.Equal(t, "Algebra II (2/4)", sessionTopic(booking, 2))

	booking.SessionType = types.SESSION_SINGLE
	assert.Equal(t, "Algebra II", sessionTopic(booking, 1))

	booking.Course = nil
	assert.Equal(t, "Tutoring session", sessionTopic(booking, 1))
}
