package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
	"tutorhub/src/config"

	"github.com/tidwall/gjson"
)

type CreateMeetingInput struct {
	Topic string
	// StartTime is wall-clock local time; Timezone carries the zone separately.
	StartTime time.Time
	Duration  int
	HostEmail string
	Timezone  string
	Password  string
}

type MeetingInfo struct {
	MeetingID string
	JoinURL   string
	HostURL   string
}

// MeetingProvider creates video meeting rooms with an external conferencing service
type MeetingProvider interface {
	Name() string
	CreateMeeting(ctx context.Context, input *CreateMeetingInput) (*MeetingInfo, error)
}

var meetingProvider MeetingProvider

func GetMeetingProvider() MeetingProvider {
	if meetingProvider != nil {
		return meetingProvider
	}
	meetingProvider = &HTTPMeetingProvider{
		BaseURL:     os.Getenv("MEETING_API_URL"),
		AccessToken: os.Getenv("MEETING_API_TOKEN"),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
	return meetingProvider
}

// NewMeetingPassword generates a one-off room password.
func NewMeetingPassword() string {
	return randAlnum(8)
}

// NewMeetingProvider Replace provider instance with custom implementation
func NewMeetingProvider(p MeetingProvider) MeetingProvider {
	meetingProvider = p
	return meetingProvider
}

type HTTPMeetingProvider struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
}

func (p *HTTPMeetingProvider) Name() string {
	return "HTTP"
}

func (p *HTTPMeetingProvider) CreateMeeting(ctx context.Context, input *CreateMeetingInput) (*MeetingInfo, error) {
	body, err := json.Marshal(map[string]any{
		"topic":      input.Topic,
		"start_time": input.StartTime.Format(config.MEETING_TIME_FORMAT),
		"duration":   input.Duration,
		"host_email": input.HostEmail,
		"timezone":   input.Timezone,
		"password":   input.Password,
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/meetings", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.AccessToken))
	res, err := p.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[meeting] request failed: %s\n", err.Error())
		return nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("meeting provider returned status %d: %s", res.StatusCode, string(raw))
	}
	data := gjson.ParseBytes(raw)
	info := MeetingInfo{
		MeetingID: data.Get("id").String(),
		JoinURL:   data.Get("join_url").String(),
		HostURL:   data.Get("host_url").String(),
	}
	if info.MeetingID == "" {
		return nil, fmt.Errorf("meeting provider response missing id: %s", string(raw))
	}
	return &info, nil
}
