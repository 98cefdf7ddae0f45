package meeting

import (
	"strings"
	"sync"

	"roomkit/internal/notify"
)

// TabMeeting is the permanent tab: always present, never closable.
const TabMeeting = "meeting"

// Tabs owns the ordered set of open top-level views and the active
// one. Ordering is insertion order; there is no reordering.
type Tabs struct {
	mu       sync.Mutex
	tabs     []string
	active   string
	notifier *notify.Center
}

func NewTabs(notifier *notify.Center) *Tabs {
	return &Tabs{
		tabs:     []string{TabMeeting},
		active:   TabMeeting,
		notifier: notifier,
	}
}

// AddTab appends the tab if absent and makes it active either way.
func (t *Tabs) AddTab(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.containsLocked(name) {
		t.tabs = append(t.tabs, name)
	}
	t.active = name
}

// SwitchTo activates the tab, adding it first if it is missing.
func (t *Tabs) SwitchTo(name string) {
	t.AddTab(name)
}

// CloseTab removes the tab. Closing the meeting tab is a no-op;
// closing the active tab reactivates the meeting tab.
func (t *Tabs) CloseTab(name string) {
	if name == TabMeeting {
		return
	}

	t.mu.Lock()
	removed := false
	for i, tab := range t.tabs {
		if tab == name {
			t.tabs = append(t.tabs[:i], t.tabs[i+1:]...)
			removed = true
			break
		}
	}
	if t.active == name {
		t.active = TabMeeting
	}
	t.mu.Unlock()

	if removed && t.notifier != nil {
		t.notifier.Info(name + " tab closed")
	}
}

func (t *Tabs) IsOpen(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.containsLocked(name)
}

func (t *Tabs) ActiveTab() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tabs) Tabs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.tabs...)
}

func (t *Tabs) TabTitle(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (t *Tabs) containsLocked(name string) bool {
	for _, tab := range t.tabs {
		if tab == name {
			return true
		}
	}
	return false
}
