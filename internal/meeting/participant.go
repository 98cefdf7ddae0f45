package meeting

import (
	"encoding/json"
	"math"
	"strconv"
)

type Role string

const (
	RoleHost        Role = "host"
	RoleCoHost      Role = "co-host"
	RoleParticipant Role = "participant"
)

// Participant is the canonical roster entry. The backend exposes the
// same participant under several field-naming conventions (id /
// user_id / User_ID, full_name / name / displayName); all of that is
// folded into one shape here, at the ingestion boundary, so the rest
// of the client never repeats alias resolution.
type Participant struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	AudioEnabled  bool   `json:"audio_enabled"`
	VideoEnabled  bool   `json:"video_enabled"`
	ScreenSharing bool   `json:"screen_sharing"`
	HandRaised    bool   `json:"hand_raised"`
}

func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "User " + p.ID
}

func (p Participant) IsHost() bool {
	return p.Role == RoleHost
}

// HasHostPrivileges reports whether the participant may issue
// participant-control commands.
func (p Participant) HasHostPrivileges() bool {
	return p.Role == RoleHost || p.Role == RoleCoHost
}

func (p *Participant) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          interface{} `json:"id"`
		UserID      interface{} `json:"user_id"`
		UserIDAlt   interface{} `json:"User_ID"`
		FullName    string      `json:"full_name"`
		FullNameAlt string      `json:"Full_Name"`
		Name        string      `json:"name"`
		DisplayCc   string      `json:"displayName"`
		Display     string      `json:"display_name"`
		Role        string      `json:"role"`
		IsHost      bool        `json:"isHost"`
		Audio       *bool       `json:"audio_enabled"`
		AudioAlt    *bool       `json:"isAudioEnabled"`
		Video       *bool       `json:"video_enabled"`
		VideoAlt    *bool       `json:"isVideoEnabled"`
		Screen      bool        `json:"screen_sharing"`
		HandRaised  bool        `json:"hand_raised"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = firstID(raw.ID, raw.UserID, raw.UserIDAlt)
	p.Name = firstNonEmpty(raw.FullName, raw.FullNameAlt, raw.Name, raw.DisplayCc, raw.Display)

	switch Role(raw.Role) {
	case RoleHost, RoleCoHost, RoleParticipant:
		p.Role = Role(raw.Role)
	default:
		p.Role = RoleParticipant
	}
	if raw.IsHost {
		p.Role = RoleHost
	}

	p.AudioEnabled = firstBool(raw.Audio, raw.AudioAlt)
	p.VideoEnabled = firstBool(raw.Video, raw.VideoAlt)
	p.ScreenSharing = raw.Screen
	p.HandRaised = raw.HandRaised
	return nil
}

func firstID(candidates ...interface{}) string {
	for _, c := range candidates {
		if s := coerceID(c); s != "" {
			return s
		}
	}
	return ""
}

// coerceID stringifies an identifier that may arrive as a JSON string
// or number.
func coerceID(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstBool(candidates ...*bool) bool {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return false
}
