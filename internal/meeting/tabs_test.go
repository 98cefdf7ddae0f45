package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roomkit/internal/notify"
)

func TestTabsStartWithMeeting(t *testing.T) {
	tabs := NewTabs(notify.NewCenter())
	assert.Equal(t, []string{TabMeeting}, tabs.Tabs())
	assert.Equal(t, TabMeeting, tabs.ActiveTab())
}

func TestTabsAddAndSwitch(t *testing.T) {
	tabs := NewTabs(notify.NewCenter())

	tabs.AddTab("whiteboard")
	assert.Equal(t, []string{TabMeeting, "whiteboard"}, tabs.Tabs())
	assert.Equal(t, "whiteboard", tabs.ActiveTab())

	// Re-adding does not duplicate, only activates.
	tabs.SwitchTo(TabMeeting)
	tabs.AddTab("whiteboard")
	assert.Equal(t, []string{TabMeeting, "whiteboard"}, tabs.Tabs())
	assert.Equal(t, "whiteboard", tabs.ActiveTab())
}

func TestTabsMeetingNotClosable(t *testing.T) {
	center := notify.NewCenter()
	tabs := NewTabs(center)

	tabs.CloseTab(TabMeeting)
	assert.Equal(t, []string{TabMeeting}, tabs.Tabs())
	assert.True(t, tabs.IsOpen(TabMeeting))

	_, visible := center.Current()
	assert.False(t, visible, "closing the meeting tab should not notify")
}

func TestTabsCloseActiveReactivatesMeeting(t *testing.T) {
	center := notify.NewCenter()
	tabs := NewTabs(center)

	tabs.AddTab("notes")
	tabs.AddTab("whiteboard")
	assert.Equal(t, "whiteboard", tabs.ActiveTab())

	tabs.CloseTab("whiteboard")
	assert.Equal(t, TabMeeting, tabs.ActiveTab())
	assert.False(t, tabs.IsOpen("whiteboard"))
	assert.True(t, tabs.IsOpen("notes"))

	n, visible := center.Current()
	assert.True(t, visible)
	assert.Equal(t, "whiteboard tab closed", n.Message)
	assert.Equal(t, notify.SeverityInfo, n.Severity)
}

func TestTabsCloseInactiveKeepsActive(t *testing.T) {
	tabs := NewTabs(notify.NewCenter())

	tabs.AddTab("notes")
	tabs.AddTab("whiteboard")
	tabs.CloseTab("notes")

	assert.Equal(t, "whiteboard", tabs.ActiveTab())
	assert.Equal(t, []string{TabMeeting, "whiteboard"}, tabs.Tabs())
}

func TestTabsCloseMissingIsQuiet(t *testing.T) {
	center := notify.NewCenter()
	tabs := NewTabs(center)

	tabs.CloseTab("ghost")
	_, visible := center.Current()
	assert.False(t, visible)
}

func TestTabTitle(t *testing.T) {
	tabs := NewTabs(nil)
	assert.Equal(t, "Meeting", tabs.TabTitle("meeting"))
	assert.Equal(t, "Whiteboard", tabs.TabTitle("whiteboard"))
	assert.Empty(t, tabs.TabTitle(""))
}
