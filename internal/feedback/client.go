package feedback

import (
	"context"

	"roomkit/internal/api"
)

// Submission is the client-side feedback record. Wire casing follows
// the backend (Meeting_ID, Feedback_Type, ...).
type Submission struct {
	MeetingID    string `json:"Meeting_ID" validate:"required"`
	UserID       string `json:"User_ID" validate:"required"`
	Rating       int    `json:"Rating" validate:"required,min=1,max=5"`
	Comments     string `json:"Comments" validate:"max=4000"`
	FeedbackType string `json:"Feedback_Type" validate:"required,oneof=General Technical Content Other"`
}

type createResponse struct {
	FeedbackID string `json:"Feedback_ID"`
}

// fieldCheck is one entry of the server-side validation response.
type fieldCheck struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

type record struct {
	FeedbackID string `json:"Feedback_ID"`
	MeetingID  string `json:"Meeting_ID"`
	UserID     string `json:"User_ID"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Create submits the feedback and returns the server-assigned id.
func (c *Client) Create(ctx context.Context, sub Submission) (string, error) {
	var resp createResponse
	if err := c.api.Post("/api/feedback/create", sub, &resp); err != nil {
		return "", err
	}
	return resp.FeedbackID, nil
}

// Validate runs server-side validation and returns messages for the
// fields that failed, keyed by field name.
func (c *Client) Validate(ctx context.Context, sub Submission) (map[string]string, error) {
	var resp map[string]fieldCheck
	if err := c.api.Post("/api/feedback/validate", sub, &resp); err != nil {
		return nil, err
	}

	invalid := make(map[string]string)
	for field, check := range resp {
		if !check.IsValid {
			invalid[field] = check.Message
		}
	}
	return invalid, nil
}

// Exists reports whether the user already submitted feedback for the
// meeting. The backend has no dedicated endpoint; the list is scanned
// client-side.
func (c *Client) Exists(ctx context.Context, meetingID, userID string) (bool, error) {
	var records []record
	if err := c.api.Get("/api/feedback/feedbacks", &records); err != nil {
		return false, err
	}
	for _, r := range records {
		if r.MeetingID == meetingID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
