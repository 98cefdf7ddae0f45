package faceauth

import (
	"context"

	"roomkit/internal/api"
)

type VerifyRequest struct {
	UserID string `json:"user_id"`
	// Image is the base64-encoded capture frame.
	Image string `json:"image"`
}

// Decision is the allow/deny verdict with the embedding distance and
// the derived confidence.
type Decision struct {
	Allowed    bool    `json:"allowed"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
	Status     string  `json:"status"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Verify(ctx context.Context, userID, imageBase64 string) (*Decision, error) {
	var decision Decision
	req := VerifyRequest{UserID: userID, Image: imageBase64}
	if err := c.api.Post("/api/face/verify", req, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}
