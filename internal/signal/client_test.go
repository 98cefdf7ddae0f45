package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomkit/pkg/logger"
)

func TestDispatchRoutesByType(t *testing.T) {
	c := NewClient("ws://unused", "", logger.New("test"))

	var raises, stops []Signal
	c.On(TypeHandRaise, func(s Signal) { raises = append(raises, s) })
	c.On(TypeScreenShareStopped, func(s Signal) { stops = append(stops, s) })

	c.Dispatch(Signal{Type: TypeHandRaise, FromID: "u1"})
	c.Dispatch(Signal{Type: TypeScreenShareStopped, FromID: "u2", CallerName: "Alice"})
	c.Dispatch(Signal{Type: TypeHandRaise, FromID: "u3"})

	require.Len(t, raises, 2)
	assert.Equal(t, "u1", raises[0].FromID)
	assert.Equal(t, "u3", raises[1].FromID)

	require.Len(t, stops, 1)
	assert.Equal(t, "Alice", stops[0].CallerName)
}

func TestDispatchMultipleHandlers(t *testing.T) {
	c := NewClient("ws://unused", "", logger.New("test"))

	var order []string
	c.On(TypeMeetingEnded, func(Signal) { order = append(order, "first") })
	c.On(TypeMeetingEnded, func(Signal) { order = append(order, "second") })

	c.Dispatch(Signal{Type: TypeMeetingEnded})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatchUnknownTypeIsDropped(t *testing.T) {
	c := NewClient("ws://unused", "", logger.New("test"))

	called := false
	c.On(TypeHandRaise, func(Signal) { called = true })

	c.Dispatch(Signal{Type: "poll_started"})
	assert.False(t, called)
}

func TestSignalEnvelopeDecode(t *testing.T) {
	raw := `{"type":"screen_share_request","from_id":"u1","to_id":"u2","room_name":"daily","data":{"quality":"hd"}}`

	var sig Signal
	require.NoError(t, json.Unmarshal([]byte(raw), &sig))
	assert.Equal(t, TypeScreenShareRequest, sig.Type)
	assert.Equal(t, "u1", sig.FromID)
	assert.Equal(t, "u2", sig.ToID)
	assert.Equal(t, "daily", sig.RoomName)
	assert.JSONEq(t, `{"quality":"hd"}`, string(sig.Data))
}
