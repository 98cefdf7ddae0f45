package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"roomkit/pkg/errors"
	"roomkit/pkg/logger"
)

// Signal types this client reacts to. The envelope matches the
// backend's call-signaling socket.
const (
	TypeScreenShareRequest = "screen_share_request"
	TypeScreenShareStopped = "screen_share_stopped"
	TypeHandRaise          = "hand_raise"
	TypeHandLower          = "hand_lower"
	TypeMeetingEnded       = "meeting_ended"
)

type Signal struct {
	Type       string          `json:"type"`
	FromID     string          `json:"from_id"`
	ToID       string          `json:"to_id"`
	RoomName   string          `json:"room_name,omitempty"`
	CallID     string          `json:"call_id,omitempty"`
	CallerName string          `json:"caller_name,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type Handler func(Signal)

// Client is the receive side of the backend's signaling socket.
// Handlers are registered per signal type before Run; reconnection is
// the caller's policy.
type Client struct {
	url   string
	token string
	log   *logger.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
}

func NewClient(url, token string, log *logger.Logger) *Client {
	return &Client{
		url:      url,
		token:    token,
		log:      log,
		handlers: make(map[string][]Handler),
	}
}

// On registers a handler for a signal type.
func (c *Client) On(signalType string, h Handler) {
	c.mu.Lock()
	c.handlers[signalType] = append(c.handlers[signalType], h)
	c.mu.Unlock()
}

// Run connects and reads until the connection drops or ctx is
// cancelled.
func (c *Client) Run(ctx context.Context) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return errors.TransportUnavailable(err.Error())
	}
	defer conn.Close()

	// Close unblocks the read loop on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var sig Signal
		if err := conn.ReadJSON(&sig); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.Dispatch(sig)
	}
}

// Dispatch routes a signal to its handlers. Unknown types are logged
// and dropped.
func (c *Client) Dispatch(sig Signal) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers[sig.Type]...)
	c.mu.Unlock()

	if len(handlers) == 0 {
		c.log.Debug("unhandled signal type: ", sig.Type)
		return
	}
	for _, h := range handlers {
		h(sig)
	}
}
