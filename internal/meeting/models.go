package meeting

import "time"

// Meeting mirrors the backend's meeting resource as the client
// consumes it.
type Meeting struct {
	ID               string     `json:"id"`
	MeetingCode      string     `json:"meeting_code"`
	RoomName         string     `json:"room_name"`
	HostID           string     `json:"host_id"`
	HostName         string     `json:"host_name,omitempty"`
	Title            string     `json:"title"`
	MeetingType      string     `json:"meeting_type"`
	MaxParticipants  int        `json:"max_participants"`
	IsActive         bool       `json:"is_active"`
	RequiresAuth     bool       `json:"requires_auth"`
	AllowGuests      bool       `json:"allow_guests"`
	CreatedAt        time.Time  `json:"created_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	ParticipantCount int        `json:"participant_count,omitempty"`
}

type JoinRequest struct {
	MeetingCode  string `json:"meeting_code" validate:"required"`
	GuestName    string `json:"guest_name,omitempty"`
	AudioEnabled bool   `json:"audio_enabled"`
	VideoEnabled bool   `json:"video_enabled"`
}

type PreJoinCheck struct {
	Valid            bool     `json:"valid"`
	Meeting          *Meeting `json:"meeting,omitempty"`
	RequiresAuth     bool     `json:"requires_auth"`
	ParticipantCount int      `json:"participant_count"`
	HostName         string   `json:"host_name,omitempty"`
}

// JoinInfo is everything needed to enter the room: the LiveKit token,
// the server URL and the granted role.
type JoinInfo struct {
	Token   string  `json:"token"`
	Meeting Meeting `json:"meeting"`
	WsURL   string  `json:"ws_url"`
	Role    Role    `json:"role"`
}
