package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Center holds the single visible transient notification. Showing a
// new one replaces whatever is on screen and supersedes its dismiss
// timer.
type Center struct {
	mu       sync.Mutex
	current  Notification
	visible  bool
	gen      uint64
	observer func(Notification, bool)
}

func NewCenter() *Center {
	return &Center{}
}

// OnChange registers a renderer callback invoked after every state
// change with the current notification and its visibility.
func (c *Center) OnChange(fn func(Notification, bool)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

func (c *Center) Show(message string, severity Severity) {
	c.mu.Lock()
	c.gen++
	c.current = Notification{Message: message, Severity: severity}
	c.visible = true
	c.notifyLocked()
	c.mu.Unlock()
}

// ShowTimed shows a notification that auto-dismisses after duration,
// unless another notification replaces it first.
func (c *Center) ShowTimed(message string, severity Severity, duration time.Duration) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.current = Notification{Message: message, Severity: severity}
	c.visible = true
	c.notifyLocked()
	c.mu.Unlock()

	time.AfterFunc(duration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.visible = false
		c.notifyLocked()
	})
}

func (c *Center) Hide() {
	c.mu.Lock()
	c.gen++
	c.visible = false
	c.notifyLocked()
	c.mu.Unlock()
}

func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.visible
}

func (c *Center) Success(message string) { c.Show(message, SeveritySuccess) }
func (c *Center) Error(message string)   { c.Show(message, SeverityError) }
func (c *Center) Warning(message string) { c.Show(message, SeverityWarning) }
func (c *Center) Info(message string)    { c.Show(message, SeverityInfo) }

func (c *Center) notifyLocked() {
	if c.observer != nil {
		c.observer(c.current, c.visible)
	}
}
