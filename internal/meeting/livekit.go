package meeting

import (
	"time"

	"github.com/livekit/protocol/auth"

	"roomkit/config"
)

// TokenService mints LiveKit join tokens locally. It is only enabled
// for self-hosted deployments where the client is trusted with the
// API key; otherwise tokens come from the backend join endpoint.
type TokenService struct {
	cfg config.LiveKitConfig
}

func NewTokenService(cfg config.LiveKitConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) Enabled() bool {
	return s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// ServerURL returns the websocket URL participants connect to.
func (s *TokenService) ServerURL() string {
	if s.cfg.PublicHost != "" {
		return s.cfg.PublicHost
	}
	return s.cfg.Host
}

// JoinToken generates a room join token. Hosts and co-hosts get the
// room-admin grant so they can issue participant-control commands.
func (s *TokenService) JoinToken(roomName, identity, name string, role Role) (string, error) {
	at := auth.NewAccessToken(s.cfg.APIKey, s.cfg.APISecret)

	canPublish := true
	canSubscribe := true
	canPublishData := true

	roomAdmin := role == RoleHost || role == RoleCoHost

	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           roomName,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
		RoomAdmin:      roomAdmin,
	}

	at.SetVideoGrant(grant).
		SetIdentity(identity).
		SetName(name).
		SetMetadata(string(role)).
		SetValidFor(24 * time.Hour)

	return at.ToJWT()
}
