package media

import (
	"context"
	"errors"
	"sync"

	"roomkit/pkg/logger"
)

var (
	ErrAcquireInProgress = errors.New("media acquisition already in progress")
	ErrClosed            = errors.New("media acquirer is closed")
)

// Track is a live device capture (camera or microphone).
type Track interface {
	Kind() string
	Stop()
}

// DeviceProvider opens the actual devices. The real implementation
// talks to the media SDK; tests substitute their own.
type DeviceProvider interface {
	OpenTracks(ctx context.Context) ([]Track, error)
}

// Acquirer ties device acquisition to the owning view's lifetime.
// Duplicate requests are rejected while one is in flight, and Close
// stops everything, including tracks that finish opening after the
// teardown.
type Acquirer struct {
	mu         sync.Mutex
	provider   DeviceProvider
	tracks     []Track
	requesting bool
	closed     bool
	log        *logger.Logger
}

func NewAcquirer(provider DeviceProvider, log *logger.Logger) *Acquirer {
	return &Acquirer{
		provider: provider,
		log:      log,
	}
}

// Acquire opens the devices, or returns the already-open tracks.
func (a *Acquirer) Acquire(ctx context.Context) ([]Track, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	if a.tracks != nil {
		tracks := a.tracks
		a.mu.Unlock()
		return tracks, nil
	}
	if a.requesting {
		a.mu.Unlock()
		return nil, ErrAcquireInProgress
	}
	a.requesting = true
	a.mu.Unlock()

	tracks, err := a.provider.OpenTracks(ctx)

	a.mu.Lock()
	a.requesting = false
	if err != nil {
		a.mu.Unlock()
		return nil, err
	}
	if a.closed {
		a.mu.Unlock()
		// Torn down while the devices were opening.
		stopAll(tracks)
		return nil, ErrClosed
	}
	a.tracks = tracks
	a.mu.Unlock()

	return tracks, nil
}

// Release stops and forgets the current tracks. The acquirer can be
// reused afterwards.
func (a *Acquirer) Release() {
	a.mu.Lock()
	tracks := a.tracks
	a.tracks = nil
	a.mu.Unlock()

	if len(tracks) > 0 {
		a.log.Debug("releasing ", len(tracks), " media tracks")
		stopAll(tracks)
	}
}

// Close is the mandatory teardown when the consuming view goes away.
func (a *Acquirer) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.Release()
}

func (a *Acquirer) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracks != nil
}

func stopAll(tracks []Track) {
	for _, t := range tracks {
		t.Stop()
	}
}
