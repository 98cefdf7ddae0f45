package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogsIndependentFlags(t *testing.T) {
	d := NewDialogs()

	d.OpenLeaveDialog()
	d.OpenShareDialog()
	assert.True(t, d.IsOpen(DialogLeave))
	assert.True(t, d.IsOpen(DialogShare))

	d.CloseLeaveDialog()
	assert.False(t, d.IsOpen(DialogLeave))
	assert.True(t, d.IsOpen(DialogShare))
}

func TestDialogsRecordingGateResolvesOnce(t *testing.T) {
	d := NewDialogs()

	gate := d.OpenRecordingDialog()
	require.True(t, d.IsOpen(DialogRecording))
	require.True(t, d.RecordingPending())

	d.CloseRecordingDialog(RecordingResult{Confirmed: true, Name: "standup"})
	assert.False(t, d.IsOpen(DialogRecording))
	assert.False(t, d.RecordingPending())

	select {
	case res := <-gate.Result():
		assert.True(t, res.Confirmed)
		assert.Equal(t, "standup", res.Name)
	default:
		t.Fatal("gate did not resolve")
	}

	// A second close resolves nothing.
	d.CloseRecordingDialog(RecordingResult{Confirmed: true, Name: "again"})
	select {
	case res := <-gate.Result():
		t.Fatalf("gate resolved twice: %+v", res)
	default:
	}
}

func TestDialogsRecordingGateCancel(t *testing.T) {
	d := NewDialogs()
	gate := d.OpenRecordingDialog()

	d.CloseRecordingDialog(RecordingResult{})
	res := <-gate.Result()
	assert.False(t, res.Confirmed)
	assert.Empty(t, res.Name)
}

func TestDialogsReopenGetsFreshGate(t *testing.T) {
	d := NewDialogs()

	first := d.OpenRecordingDialog()
	second := d.OpenRecordingDialog()
	d.CloseRecordingDialog(RecordingResult{Confirmed: true, Name: "weekly"})

	// Only the latest gate resolves.
	select {
	case res := <-second.Result():
		assert.Equal(t, "weekly", res.Name)
	default:
		t.Fatal("latest gate did not resolve")
	}
	select {
	case <-first.Result():
		t.Fatal("stale gate resolved")
	default:
	}
}

func TestDialogsCloseAllLeavesGatePending(t *testing.T) {
	d := NewDialogs()
	gate := d.OpenRecordingDialog()
	d.OpenLeaveDialog()
	d.OpenScreenShareStoppedDialog("Alice")

	d.CloseAllDialogs()

	assert.False(t, d.IsOpen(DialogRecording))
	assert.False(t, d.IsOpen(DialogLeave))
	assert.False(t, d.IsOpen(DialogScreenShareStopped))
	assert.Empty(t, d.ScreenShareStoppedBy())
	assert.False(t, d.RecordingPending())

	// The gate is dropped without a result; its holder would hit
	// their own timeout.
	select {
	case res := <-gate.Result():
		t.Fatalf("force-close resolved the gate: %+v", res)
	case <-time.After(20 * time.Millisecond):
	}

	// Closing after the force-close is a no-op for the old gate.
	d.CloseRecordingDialog(RecordingResult{Confirmed: true})
	select {
	case <-gate.Result():
		t.Fatal("dropped gate resolved after close")
	default:
	}
}

func TestDialogsCoHostSelection(t *testing.T) {
	d := NewDialogs()

	_, _, ok := d.CoHostSelection()
	assert.False(t, ok)

	target := Participant{ID: "42", Name: "Bob", Role: RoleParticipant}
	d.OpenCoHostDialog(target, CoHostPromote)
	assert.True(t, d.IsOpen(DialogCoHost))

	got, action, ok := d.CoHostSelection()
	require.True(t, ok)
	assert.Equal(t, target, got)
	assert.Equal(t, CoHostPromote, action)

	d.CloseCoHostDialog()
	assert.False(t, d.IsOpen(DialogCoHost))
	_, _, ok = d.CoHostSelection()
	assert.False(t, ok)
}

func TestDialogsMeetingLinkPopup(t *testing.T) {
	d := NewDialogs()

	visible, minimized := d.MeetingLinkPopup()
	assert.True(t, visible)
	assert.False(t, minimized)

	d.MinimizeMeetingLinkPopup()
	visible, minimized = d.MeetingLinkPopup()
	assert.False(t, visible)
	assert.True(t, minimized)

	d.RestoreMeetingLinkPopup()
	visible, minimized = d.MeetingLinkPopup()
	assert.True(t, visible)
	assert.False(t, minimized)
}

func TestDialogsScreenShareStopped(t *testing.T) {
	d := NewDialogs()

	d.OpenScreenShareStoppedDialog("Alice")
	assert.True(t, d.IsOpen(DialogScreenShareStopped))
	assert.Equal(t, "Alice", d.ScreenShareStoppedBy())

	d.CloseScreenShareStoppedDialog()
	assert.False(t, d.IsOpen(DialogScreenShareStopped))
	assert.Empty(t, d.ScreenShareStoppedBy())
}
