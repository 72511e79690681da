package meeting

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var ErrNotConfigured = errors.New("zoom: OAuth credentials are not configured")

// ZoomClient talks to the Zoom API via server-to-server OAuth. Access tokens
// are cached in-process and refreshed with a 5-minute expiry buffer.
type ZoomClient struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	Client       *http.Client

	BaseURL  string // API, default https://api.zoom.us/v2
	OAuthURL string // token endpoint, default https://zoom.us/oauth/token

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewZoomClient(accountID, clientID, clientSecret string) *ZoomClient {
	return &ZoomClient{
		AccountID:    accountID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       &http.Client{Timeout: 30 * time.Second},
		BaseURL:      "https://api.zoom.us/v2",
		OAuthURL:     "https://zoom.us/oauth/token",
	}
}

type Meeting struct {
	ID            int64  `json:"id"`
	JoinURL       string `json:"join_url"`
	StartURL      string `json:"start_url"`
	MeetingNumber int64  `json:"meeting_number"`
	Password      string `json:"password,omitempty"`
	Topic         string `json:"topic"`
	Duration      int    `json:"duration"`
	StartTime     string `json:"start_time,omitempty"`
	Timezone      string `json:"timezone"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

func (z *ZoomClient) accessToken(ctx context.Context) (string, error) {
	if z.AccountID == "" || z.ClientID == "" || z.ClientSecret == "" {
		return "", ErrNotConfigured
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if z.token != "" && time.Until(z.expiresAt) > 5*time.Minute {
		return z.token, nil
	}

	tokenURL := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s",
		z.OAuthURL, url.QueryEscape(z.AccountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return "", err
	}
	creds := base64.StdEncoding.EncodeToString([]byte(z.ClientID + ":" + z.ClientSecret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := z.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.ErrorDesc
		if msg == "" {
			msg = decoded.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("zoom: token request failed: %s", msg)
	}

	z.token = decoded.AccessToken
	z.expiresAt = time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	return z.token, nil
}

type createMeetingReq struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time,omitempty"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	HostVideo        bool `json:"host_video"`
	ParticipantVideo bool `json:"participant_video"`
	JoinBeforeHost   bool `json:"join_before_host"`
	MuteUponEntry    bool `json:"mute_upon_entry"`
	WaitingRoom      bool `json:"waiting_room"`
	ApprovalType     int  `json:"approval_type"`
}

// CreateInstantMeeting schedules a meeting that starts now (Zoom type 2)
// rather than a true instant meeting; scheduled meetings honor
// join_before_host reliably, which avoids the waiting-for-host screen.
func (z *ZoomClient) CreateInstantMeeting(ctx context.Context, topic string, duration int) (*Meeting, error) {
	if duration <= 0 {
		duration = 30
	}
	return z.createMeeting(ctx, createMeetingReq{
		Topic:     topicOrDefault(topic),
		Type:      2,
		StartTime: time.Now().UTC().Format(time.RFC3339),
		Duration:  duration,
		Timezone:  "America/Phoenix",
		Settings:  openSettings(),
	})
}

func (z *ZoomClient) CreateScheduledMeeting(ctx context.Context, topic, startTime string, duration int, timezone string) (*Meeting, error) {
	if duration <= 0 {
		duration = 60
	}
	if timezone == "" {
		timezone = "America/Phoenix"
	}
	return z.createMeeting(ctx, createMeetingReq{
		Topic:     topicOrDefault(topic),
		Type:      2,
		StartTime: startTime,
		Duration:  duration,
		Timezone:  timezone,
		Settings:  openSettings(),
	})
}

func topicOrDefault(topic string) string {
	if topic == "" {
		return "ECMO Bridge Meeting"
	}
	return topic
}

// physicians join without a host and without a waiting room
func openSettings() meetingSettings {
	return meetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    false,
		WaitingRoom:      false,
		ApprovalType:     0,
	}
}

func (z *ZoomClient) createMeeting(ctx context.Context, body createMeetingReq) (*Meeting, error) {
	token, err := z.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/users/me/meetings", z.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return nil, fmt.Errorf("zoom: api error: %s", apiErr.Message)
	}

	var m Meeting
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}
	if m.MeetingNumber == 0 {
		m.MeetingNumber = m.ID
	}
	return &m, nil
}
