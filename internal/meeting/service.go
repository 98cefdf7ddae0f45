package meeting

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"roomkit/internal/api"
)

var validate = validator.New()

// Service is the client side of the backend's meeting API: pre-join
// validation, join/leave/end, and the authoritative participant list.
type Service struct {
	api    *api.Client
	tokens *TokenService
}

func NewService(apiClient *api.Client, tokens *TokenService) *Service {
	return &Service{
		api:    apiClient,
		tokens: tokens,
	}
}

// Validate checks a meeting code before joining.
func (s *Service) Validate(ctx context.Context, code string) (*PreJoinCheck, error) {
	var resp struct {
		Success bool         `json:"success"`
		Data    PreJoinCheck `json:"data"`
	}
	req := struct {
		MeetingCode string `json:"meeting_code"`
	}{MeetingCode: code}

	if err := s.api.Post("/api/v1/meetings/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Join enters the meeting. With a self-hosted token service the join
// token is minted locally; otherwise the backend issues it.
func (s *Service) Join(ctx context.Context, req JoinRequest) (*JoinInfo, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var resp struct {
		Success bool     `json:"success"`
		Data    JoinInfo `json:"data"`
	}
	if err := s.api.Post("/api/v1/meetings/join", req, &resp); err != nil {
		return nil, err
	}
	info := resp.Data

	if s.tokens != nil && s.tokens.Enabled() {
		identity := req.GuestName
		if identity == "" {
			identity = fmt.Sprintf("guest_%s", req.MeetingCode)
		}
		token, err := s.tokens.JoinToken(info.Meeting.RoomName, identity, identity, info.Role)
		if err != nil {
			return nil, err
		}
		info.Token = token
		info.WsURL = s.tokens.ServerURL()
	}

	return &info, nil
}

func (s *Service) Leave(ctx context.Context, meetingID string) error {
	return s.api.Post(fmt.Sprintf("/api/v1/meetings/%s/leave", meetingID), nil, nil)
}

// End terminates the meeting for everyone. The backend enforces that
// only the host may do this.
func (s *Service) End(ctx context.Context, meetingID string) error {
	return s.api.Post(fmt.Sprintf("/api/v1/meetings/%s/end", meetingID), nil, nil)
}

// Participants fetches the authoritative participant list.
func (s *Service) Participants(ctx context.Context, meetingID string) ([]Participant, error) {
	var resp struct {
		Success bool          `json:"success"`
		Data    []Participant `json:"data"`
	}
	if err := s.api.Get(fmt.Sprintf("/api/v1/meetings/%s/participants", meetingID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// LoaderFor binds a meeting id into the loader shape the command
// layer refreshes from.
func (s *Service) LoaderFor(meetingID string) RosterLoaderFunc {
	return func(ctx context.Context) ([]Participant, error) {
		return s.Participants(ctx, meetingID)
	}
}
