package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func openCount(p *Panels) int {
	count := 0
	for _, id := range allPanels {
		if p.IsOpen(id) {
			count++
		}
	}
	return count
}

func TestPanelsMutualExclusion(t *testing.T) {
	p := NewPanels()

	sequences := [][]PanelID{
		{PanelChat},
		{PanelChat, PanelParticipants},
		{PanelChat, PanelParticipants, PanelSettings, PanelMenu},
		{PanelReactions, PanelHandRaise, PanelReactions},
		{PanelMenu, PanelChat, PanelMenu, PanelSettings, PanelParticipants},
	}

	for _, seq := range sequences {
		for _, id := range seq {
			p.Open(id)
			assert.True(t, p.IsOpen(id))
			assert.LessOrEqual(t, openCount(p), 1, "more than one panel open after opening %s", id)
		}
		last := seq[len(seq)-1]
		got, ok := p.OpenPanel()
		assert.True(t, ok)
		assert.Equal(t, last, got)
		p.CloseAll()
		assert.Equal(t, 0, openCount(p))
	}
}

func TestPanelsToggle(t *testing.T) {
	p := NewPanels()

	p.Toggle(PanelChat)
	assert.True(t, p.IsOpen(PanelChat))

	p.Toggle(PanelChat)
	assert.False(t, p.IsOpen(PanelChat))
	_, ok := p.OpenPanel()
	assert.False(t, ok)

	p.Toggle(PanelChat)
	p.Toggle(PanelParticipants)
	assert.False(t, p.IsOpen(PanelChat))
	assert.True(t, p.IsOpen(PanelParticipants))
}

func TestPanelsParticipantsDoubleClick(t *testing.T) {
	p := NewPanels()
	now := time.Unix(1000, 0)
	p.SetClock(func() time.Time { return now })

	// First click opens.
	p.ClickParticipants()
	assert.True(t, p.IsOpen(PanelParticipants))

	// Second click inside the window closes.
	now = now.Add(200 * time.Millisecond)
	p.ClickParticipants()
	assert.False(t, p.IsOpen(PanelParticipants))

	// Third click still inside the window does nothing: the panel is
	// closed and a double click never opens it.
	now = now.Add(200 * time.Millisecond)
	p.ClickParticipants()
	assert.False(t, p.IsOpen(PanelParticipants))

	// A click after the window behaves as a fresh toggle.
	now = now.Add(doubleClickWindow + time.Millisecond)
	p.ClickParticipants()
	assert.True(t, p.IsOpen(PanelParticipants))
}

func TestPanelsParticipantsSlowClicksToggle(t *testing.T) {
	p := NewPanels()
	now := time.Unix(2000, 0)
	p.SetClock(func() time.Time { return now })

	for i := 0; i < 4; i++ {
		p.ClickParticipants()
		wantOpen := i%2 == 0
		assert.Equal(t, wantOpen, p.IsOpen(PanelParticipants), "click %d", i)
		now = now.Add(time.Second)
	}
}

func TestPanelsHandleKey(t *testing.T) {
	p := NewPanels()

	p.HandleKey("c", true, false)
	assert.True(t, p.IsOpen(PanelChat))

	p.HandleKey("c", true, false)
	assert.False(t, p.IsOpen(PanelChat))

	// No modifier, no effect.
	p.HandleKey("c", false, false)
	assert.False(t, p.IsOpen(PanelChat))

	// Input focus swallows the shortcut.
	p.HandleKey("c", true, true)
	assert.False(t, p.IsOpen(PanelChat))

	p.HandleKey("p", true, false)
	assert.True(t, p.IsOpen(PanelParticipants))

	p.HandleKey("Escape", false, false)
	assert.Equal(t, 0, openCount(p))
}

func TestPanelsEscapeLeavesSettings(t *testing.T) {
	p := NewPanels()
	p.Open(PanelSettings)

	p.HandleKey("Escape", false, false)
	assert.True(t, p.IsOpen(PanelSettings))
}

func TestPanelsPointerDownDismissal(t *testing.T) {
	p := NewPanels()

	p.Open(PanelChat)
	p.HandlePointerDown()
	assert.False(t, p.IsOpen(PanelChat))

	// Exempt surfaces suppress dismissal.
	p.Open(PanelChat)
	p.HandlePointerDown(SurfaceChatPanel)
	assert.True(t, p.IsOpen(PanelChat))

	p.HandlePointerDown(SurfaceControlButton)
	assert.True(t, p.IsOpen(PanelChat))

	// One exempt surface among several is enough.
	p.HandlePointerDown("videoGrid", SurfaceOverlay)
	assert.True(t, p.IsOpen(PanelChat))

	// Settings is not dismissed by outside clicks.
	p.Open(PanelSettings)
	p.HandlePointerDown()
	assert.True(t, p.IsOpen(PanelSettings))
}

func TestPanelsSweepKeepsMostRecent(t *testing.T) {
	p := NewPanels()
	now := time.Unix(3000, 0)
	p.SetClock(func() time.Time { return now })

	p.Open(PanelChat)
	now = now.Add(time.Second)
	p.Open(PanelMenu)

	// Force an inconsistent state and run any mutation; the sweep
	// keeps only the most recently opened panel.
	p.mu.Lock()
	p.open[PanelChat] = true
	p.sweepLocked()
	p.mu.Unlock()

	assert.False(t, p.IsOpen(PanelChat))
	assert.True(t, p.IsOpen(PanelMenu))
}
