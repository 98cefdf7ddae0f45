package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowReplacesCurrentNotification(t *testing.T) {
	c := NewCenter()

	c.Error("mute failed")
	c.Success("Muted Alice's microphone")

	n, visible := c.Current()
	assert.True(t, visible)
	assert.Equal(t, "Muted Alice's microphone", n.Message)
	assert.Equal(t, SeveritySuccess, n.Severity)
}

func TestHide(t *testing.T) {
	c := NewCenter()
	c.Info("joining meeting")
	c.Hide()

	_, visible := c.Current()
	assert.False(t, visible)
}

func TestShowTimedAutoDismisses(t *testing.T) {
	c := NewCenter()
	c.ShowTimed("whiteboard tab closed", SeverityInfo, 10*time.Millisecond)

	_, visible := c.Current()
	assert.True(t, visible)

	assert.Eventually(t, func() bool {
		_, visible := c.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestNewNotificationSupersedesDismissTimer(t *testing.T) {
	c := NewCenter()
	c.ShowTimed("first", SeverityInfo, 10*time.Millisecond)
	c.Show("second", SeverityWarning)

	time.Sleep(50 * time.Millisecond)

	n, visible := c.Current()
	assert.True(t, visible, "replacement must not be dismissed by the stale timer")
	assert.Equal(t, "second", n.Message)
}

func TestObserverSeesChanges(t *testing.T) {
	c := NewCenter()

	var seen []string
	c.OnChange(func(n Notification, visible bool) {
		if visible {
			seen = append(seen, n.Message)
		}
	})

	c.Info("a")
	c.Error("b")
	c.Hide()

	assert.Equal(t, []string{"a", "b"}, seen)
}
