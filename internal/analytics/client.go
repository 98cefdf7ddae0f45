package analytics

import (
	"context"
	"fmt"

	"roomkit/internal/api"
)

// MeetingReport is the comprehensive per-meeting analytics payload.
type MeetingReport struct {
	MeetingID        string  `json:"meeting_id"`
	DurationMinutes  float64 `json:"duration_minutes"`
	ParticipantCount int     `json:"participant_count"`
	PeakParticipants int     `json:"peak_participants"`
	AverageRating    float64 `json:"average_rating"`
	ChatMessages     int     `json:"chat_messages"`
	HandRaises       int     `json:"hand_raises"`
}

type ParticipantReport struct {
	UserID          string  `json:"user_id"`
	MeetingID       string  `json:"meeting_id"`
	MinutesPresent  float64 `json:"minutes_present"`
	SpeakingMinutes float64 `json:"speaking_minutes"`
	CameraOnPercent float64 `json:"camera_on_percent"`
}

type HostReport struct {
	MeetingID       string `json:"meeting_id"`
	MutesIssued     int    `json:"mutes_issued"`
	RemovalsIssued  int    `json:"removals_issued"`
	CoHostsAssigned int    `json:"cohosts_assigned"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Comprehensive(ctx context.Context, meetingID string) (*MeetingReport, error) {
	var report MeetingReport
	if err := c.api.Get(fmt.Sprintf("/api/analytics/comprehensive/%s", meetingID), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ParticipantStats(ctx context.Context, meetingID, userID string) (*ParticipantReport, error) {
	var report ParticipantReport
	if err := c.api.Get(fmt.Sprintf("/api/analytics/participant/%s/%s", meetingID, userID), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) HostStats(ctx context.Context, meetingID string) (*HostReport, error) {
	var report HostReport
	if err := c.api.Get(fmt.Sprintf("/api/analytics/host/%s", meetingID), &report); err != nil {
		return nil, err
	}
	return &report, nil
}
