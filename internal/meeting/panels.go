package meeting

import (
	"sync"
	"time"
)

type PanelID string

const (
	PanelChat         PanelID = "chat"
	PanelParticipants PanelID = "participants"
	PanelReactions    PanelID = "reactions"
	PanelHandRaise    PanelID = "handRaise"
	PanelSettings     PanelID = "settings"
	PanelMenu         PanelID = "menu"
)

var allPanels = []PanelID{PanelChat, PanelParticipants, PanelReactions, PanelHandRaise, PanelSettings, PanelMenu}

// A second click on the participants trigger inside this window is a
// double click: it closes the panel and never opens it.
const doubleClickWindow = 400 * time.Millisecond

// Surface identifies a recognized UI region for outside-click
// dismissal. Pointer-downs on any of these leave panels alone.
type Surface string

const (
	SurfaceControlButton     Surface = "controlButton"
	SurfaceChatPanel         Surface = "chatPanel"
	SurfaceParticipantsPanel Surface = "participantsPanel"
	SurfaceReactionsPanel    Surface = "reactionsPanel"
	SurfaceHandRaisePanel    Surface = "handRaisePanel"
	SurfaceMenu              Surface = "menuSurface"
	SurfaceOverlay           Surface = "overlay"
)

var dismissExempt = map[Surface]bool{
	SurfaceControlButton:     true,
	SurfaceChatPanel:         true,
	SurfaceParticipantsPanel: true,
	SurfaceReactionsPanel:    true,
	SurfaceHandRaisePanel:    true,
	SurfaceMenu:              true,
	SurfaceOverlay:           true,
}

// Panels coordinates the mutually exclusive side panels. At most one
// panel is open at any time; opening one force-closes the rest.
type Panels struct {
	mu       sync.Mutex
	open     map[PanelID]bool
	openedAt map[PanelID]time.Time

	lastParticipantsClick time.Time

	now func() time.Time
}

func NewPanels() *Panels {
	return &Panels{
		open:     make(map[PanelID]bool),
		openedAt: make(map[PanelID]time.Time),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (p *Panels) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
}

func (p *Panels) IsOpen(id PanelID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open[id]
}

// OpenPanel returns the currently open panel, if any.
func (p *Panels) OpenPanel() (PanelID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range allPanels {
		if p.open[id] {
			return id, true
		}
	}
	return "", false
}

// Open closes every other panel, then opens id.
func (p *Panels) Open(id PanelID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openLocked(id)
}

// Toggle opens id (closing the rest) if it is closed, closes it
// otherwise.
func (p *Panels) Toggle(id PanelID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggleLocked(id)
}

func (p *Panels) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range allPanels {
		p.open[id] = false
	}
}

// ClickParticipants is the participants-trigger click handler. A
// repeat click within the double-click window closes the panel if it
// is open and otherwise does nothing; a single click toggles.
func (p *Panels) ClickParticipants() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastParticipantsClick) < doubleClickWindow {
		if p.open[PanelParticipants] {
			p.open[PanelParticipants] = false
			p.sweepLocked()
		}
	} else {
		p.toggleLocked(PanelParticipants)
	}
	p.lastParticipantsClick = now
}

// HandleKey routes global keyboard shortcuts. Shortcuts are ignored
// while an input surface has focus.
func (p *Panels) HandleKey(key string, ctrlOrMeta, inputFocused bool) {
	if inputFocused {
		return
	}
	switch {
	case key == "c" && ctrlOrMeta:
		p.Toggle(PanelChat)
	case key == "p" && ctrlOrMeta:
		p.ClickParticipants()
	case key == "Escape":
		p.mu.Lock()
		if p.open[PanelChat] || p.open[PanelParticipants] || p.open[PanelReactions] || p.open[PanelHandRaise] {
			for _, id := range allPanels {
				p.open[id] = false
			}
		}
		p.mu.Unlock()
	}
}

// HandlePointerDown dismisses open panels on an outside click. The
// surfaces are the recognized regions under the pointer; any exempt
// surface suppresses dismissal. Settings is dialog-like and is not
// dismissed by outside clicks.
func (p *Panels) HandlePointerDown(surfaces ...Surface) {
	for _, s := range surfaces {
		if dismissExempt[s] {
			return
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range []PanelID{PanelChat, PanelParticipants, PanelMenu, PanelHandRaise, PanelReactions} {
		p.open[id] = false
	}
}

func (p *Panels) openLocked(id PanelID) {
	for _, other := range allPanels {
		p.open[other] = other == id
	}
	p.openedAt[id] = p.now()
	p.sweepLocked()
}

func (p *Panels) toggleLocked(id PanelID) {
	if p.open[id] {
		p.open[id] = false
		p.sweepLocked()
		return
	}
	p.openLocked(id)
}

// sweepLocked is the consistency check run after every mutation: if
// more than one panel flag is set, only the most recently opened one
// survives.
func (p *Panels) sweepLocked() {
	var open []PanelID
	for _, id := range allPanels {
		if p.open[id] {
			open = append(open, id)
		}
	}
	if len(open) <= 1 {
		return
	}

	keep := open[0]
	for _, id := range open[1:] {
		if p.openedAt[id].After(p.openedAt[keep]) {
			keep = id
		}
	}
	for _, id := range open {
		p.open[id] = id == keep
	}
}
