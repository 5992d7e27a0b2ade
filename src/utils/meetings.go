package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"time"
	"tutorhub/src/config"
	"tutorhub/src/db"
	"tutorhub/src/lib"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"google.golang.org/api/calendar/v3"
	"gorm.io/gorm"
)

const (
	// MeetingLeadTime is how far ahead of a session its meeting room is created.
	MeetingLeadTime = 2 * time.Hour
	// MeetingGraceDelay replaces a past-due run time so related writes settle
	// before the job fires.
	MeetingGraceDelay = 5 * time.Minute

	MeetingJobsTopic = "SessionMeetings"
)

// MeetingRunAt computes when the meeting-creation job for a session should
// fire. Late confirmations get a short delay instead of a time in the past.
func MeetingRunAt(sessionStart time.Time, now time.Time) time.Time {
	runAt := sessionStart.Add(-MeetingLeadTime)
	if runAt.Before(now) {
		return now.Add(MeetingGraceDelay)
	}
	return runAt
}

// ScheduleMeetingJobs enqueues one delayed meeting-creation job per session.
// Runs after the confirmation transaction commits; a scheduling failure never
// unwinds a confirmed booking.
func ScheduleMeetingJobs(sessions []models.Session) {
	now := time.Now()
	for _, s := range sessions {
		sessionId := s.ID
		runsAt := MeetingRunAt(s.StartDateTime(), now)
		go func() {
			jobTaskID := uuid.New()
			payloadId := jobTaskID.String()
			jobTask := models.JobTask{
				Name:    fmt.Sprintf("Session_%d_Meeting", sessionId),
				JobType: "OneTimeJobStartDateTime",
				RunsAt:  runsAt,
				PayloadID: payloadId,
				Payload: map[string]any{
					"payloadId":        payloadId,
					"id":               sessionId,
					"producerClientId": "SessionMeetingsProducer",
					"topic":            MeetingJobsTopic,
					"table":            "sessions",
				},
				Source:     "Session",
				SourceType: "table",
				Topic:      MeetingJobsTopic,
			}
			id, err := jobTask.CreateAndEnqueueJobTask(jobTask)
			if err != nil {
				log.Printf("Error creating job for Session: id=%d error=%s\n", sessionId, err.Error())
				return
			}
			log.Printf("Created job for Session[%d] with ID %s\n", sessionId, id)
		}()
	}
}

// CreateMeetingForSession is the delayed unit of work. It is idempotent: a
// session that already carries a meeting_id is left untouched, so re-running
// a completed job is a no-op. On provider failure it retries once
// synchronously; if both attempts fail the error is alerted and returned but
// the booking stays confirmed.
func CreateMeetingForSession(sessionId uint) error {
	db := db.GetDb()
	var session models.Session
	if err := db.
		Preload("Booking").
		Preload("Booking.Course").
		Preload("Teacher").
		Where(&models.Session{ID: sessionId}).
		First(&session).
		Error; err != nil {
		return err
	}
	if session.MeetingID != nil && *session.MeetingID != "" {
		log.Printf("Session[%d] already has meeting %s, skipping\n", sessionId, *session.MeetingID)
		return nil
	}
	if session.Status != types.SESSION_SCHEDULED {
		log.Printf("Session[%d] is %s, not provisioning a meeting\n", sessionId, session.Status)
		return nil
	}

	timezone := config.DefaultTimezone()
	if session.Teacher != nil && session.Teacher.Timezone != "" {
		timezone = session.Teacher.Timezone
	}
	hostEmail := ""
	if session.Teacher != nil {
		hostEmail = session.Teacher.Email
	}
	input := lib.CreateMeetingInput{
		Topic:     sessionTopic(&session.Booking, session.SessionNumber),
		StartTime: session.StartDateTime(),
		Duration:  session.DurationMinutes(),
		HostEmail: hostEmail,
		Timezone:  timezone,
		Password:  lib.NewMeetingPassword(),
	}
	provider := lib.GetMeetingProvider()
	info, err := provider.CreateMeeting(context.Background(), &input)
	if err != nil {
		log.Printf("Meeting creation failed for Session[%d], retrying once: %s\n", sessionId, err.Error())
		info, err = provider.CreateMeeting(context.Background(), &input)
	}
	if err != nil {
		perr := &types.MeetingProvisioningError{SessionID: sessionId, Err: err}
		log.Println(perr.Error())
		go alertMeetingFailure(perr)
		return perr
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Session{}).
			Where(&models.Session{ID: sessionId}).
			Updates(map[string]any{
				"meeting_id": info.MeetingID,
				"join_url":   info.JoinURL,
				"host_url":   info.HostURL,
			}).Error
	})
	if err != nil {
		return err
	}
	log.Printf("Created meeting %s for Session[%d]\n", info.MeetingID, sessionId)

	go addSessionCalendarEvent(&session, &input)
	go createJoinAsset(&session, info)
	return nil
}

func alertMeetingFailure(perr *types.MeetingProvisioningError) {
	topic := os.Getenv("ALERTS_TOPIC")
	if topic == "" {
		topic = "OpsAlerts"
	}
	if err := lib.SNSPublishMessage(lib.WithSuffix(topic), perr.Error()); err != nil {
		log.Printf("Failed to publish alert: %s\n", err.Error())
	}
}

// addSessionCalendarEvent mirrors the session into the service calendar.
// Best effort only.
func addSessionCalendarEvent(session *models.Session, input *lib.CreateMeetingInput) {
	start := session.StartDateTime()
	end := start.Add(time.Duration(session.DurationMinutes()) * time.Minute)
	event := calendar.Event{
		Summary: input.Topic,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(config.MEETING_TIME_FORMAT),
			TimeZone: input.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(config.MEETING_TIME_FORMAT),
			TimeZone: input.Timezone,
		},
	}
	if err := lib.GAPIAddEvent("primary", &event, nil); err != nil {
		log.Printf("Could not add calendar event for Session[%d]: %s\n", session.ID, err.Error())
	}
}

// createJoinAsset renders the join link as a QR image, uploads it and caches
// the signed URL so reminder emails can embed it without hitting S3 again.
func createJoinAsset(session *models.Session, info *lib.MeetingInfo) {
	if info.JoinURL == "" {
		return
	}
	qrc, err := qrcode.New(info.JoinURL)
	if err != nil {
		log.Printf("Could not build qrcode for Session[%d]: %s\n", session.ID, err.Error())
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	tempdir := os.Getenv("TEMP_DIR")
	filename := fmt.Sprintf("session_%d_join", session.ID)
	filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return
	}
	url, err := lib.S3UploadAsset(filename, filepath)
	if err != nil {
		log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
		return
	}
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	rd.SetEx(context.Background(), filename, *url, 2*time.Hour)
}
