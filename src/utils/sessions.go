package utils

import (
	"fmt"
	"log"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"gorm.io/gorm"
)

// BuildSessions lays out the session plan for a paid booking. A single
// booking yields one session on the first date; a package yields
// sessions_count sessions at weekly offsets, all sharing the booking's
// start/end time of day.
func BuildSessions(booking *models.Booking) []models.Session {
	count := booking.SessionsCount
	if booking.SessionType == types.SESSION_SINGLE || count == 0 {
		count = 1
	}
	sessions := make([]models.Session, 0, count)
	for i := uint(1); i <= count; i++ {
		date := booking.FirstSessionDate.AddDate(0, 0, int(i-1)*7)
		sessions = append(sessions, models.Session{
			BookingID:     booking.ID,
			StudentID:     booking.StudentID,
			TeacherID:     booking.TeacherID,
			SessionNumber: i,
			SessionDate:   date,
			StartTime:     booking.StartTime,
			EndTime:       booking.EndTime,
			Duration:      booking.Duration,
			Status:        types.SESSION_SCHEDULED,
		})
	}
	return sessions
}

// ProvisionSessions creates the session rows inside the caller's
// transaction. Re-provisioning an already provisioned booking is a no-op so
// duplicate payment confirmations cannot double-create sessions.
func ProvisionSessions(tx *gorm.DB, booking *models.Booking) ([]models.Session, error) {
	var count int64
	if err := tx.
		Model(&models.Session{}).
		Where(&models.Session{BookingID: booking.ID}).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count > 0 {
		log.Printf("Booking[%d] already has %d sessions, skipping provision\n", booking.ID, count)
		var existing []models.Session
		err := tx.Where(&models.Session{BookingID: booking.ID}).Order("session_number").Find(&existing).Error
		return existing, err
	}
	sessions := BuildSessions(booking)
	if err := tx.Create(&sessions).Error; err != nil {
		log.Printf("Error provisioning sessions for Booking[%d]: %s\n", booking.ID, err.Error())
		return nil, err
	}
	return sessions, nil
}

// sessionTopic is what both the meeting room and the calendar entry carry.
func sessionTopic(booking *models.Booking, sessionNumber uint) string {
	topic := "Tutoring session"
	if booking.Course != nil {
		topic = booking.Course.Title
	}
	if booking.SessionType == types.SESSION_PACKAGE {
		return fmt.Sprintf("%s (%d/%d)", topic, sessionNumber, booking.SessionsCount)
	}
	return topic
}
