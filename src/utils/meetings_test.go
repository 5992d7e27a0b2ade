package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeetingRunAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Plenty of lead time: fire two hours before the session.
	sessionStart := now.Add(26 * time.Hour)
	assert.Equal(t, sessionStart.Add(-MeetingLeadTime), MeetingRunAt(sessionStart, now))

	// Session starts within the lead window: fire after a short grace delay
	// instead of in the past.
	sessionStart = now.Add(30 * time.Minute)
	assert.Equal(t, now.Add(MeetingGraceDelay), MeetingRunAt(sessionStart, now))

	// Exactly at the lead boundary still fires immediately-ish.
	sessionStart = now.Add(MeetingLeadTime)
	assert.Equal(t, now, MeetingRunAt(sessionStart, now))
}
