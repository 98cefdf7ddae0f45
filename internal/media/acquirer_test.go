package media

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomkit/pkg/logger"
)

type fakeTrack struct {
	mu      sync.Mutex
	kind    string
	stopped bool
}

func (t *fakeTrack) Kind() string { return t.kind }

func (t *fakeTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTrack) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeProvider struct {
	mu    sync.Mutex
	opens int
	err   error

	// gate, when set, blocks OpenTracks until released
	gate chan struct{}

	tracks []*fakeTrack
}

func (p *fakeProvider) OpenTracks(ctx context.Context) ([]Track, error) {
	p.mu.Lock()
	p.opens++
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if p.err != nil {
		return nil, p.err
	}

	audio := &fakeTrack{kind: "audio"}
	video := &fakeTrack{kind: "video"}
	p.mu.Lock()
	p.tracks = append(p.tracks, audio, video)
	p.mu.Unlock()
	return []Track{audio, video}, nil
}

func (p *fakeProvider) openCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

func TestAcquireReusesOpenTracks(t *testing.T) {
	provider := &fakeProvider{}
	a := NewAcquirer(provider, logger.New("test"))

	first, err := a.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, a.Active())

	second, err := a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.openCount(), "open tracks are reused, not reopened")
}

func TestAcquireRejectsConcurrentRequest(t *testing.T) {
	provider := &fakeProvider{gate: make(chan struct{})}
	a := NewAcquirer(provider, logger.New("test"))

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := a.Acquire(context.Background())
		done <- err
	}()
	<-started

	// Wait until the first request is actually in flight.
	require.Eventually(t, func() bool {
		return provider.openCount() == 1
	}, time.Second, time.Millisecond)

	_, err := a.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrAcquireInProgress)

	close(provider.gate)
	require.NoError(t, <-done)
	assert.True(t, a.Active())
}

func TestCloseDuringAcquireStopsTracks(t *testing.T) {
	provider := &fakeProvider{gate: make(chan struct{})}
	a := NewAcquirer(provider, logger.New("test"))

	done := make(chan error, 1)
	go func() {
		_, err := a.Acquire(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool {
		return provider.openCount() == 1
	}, time.Second, time.Millisecond)

	a.Close()
	close(provider.gate)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.False(t, a.Active())

	// The tracks that finished opening after teardown were stopped.
	provider.mu.Lock()
	tracks := append([]*fakeTrack(nil), provider.tracks...)
	provider.mu.Unlock()
	require.Len(t, tracks, 2)
	for _, tr := range tracks {
		assert.True(t, tr.isStopped(), "%s track left running", tr.Kind())
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	provider := &fakeProvider{}
	a := NewAcquirer(provider, logger.New("test"))

	first, err := a.Acquire(context.Background())
	require.NoError(t, err)

	a.Release()
	assert.False(t, a.Active())
	for _, tr := range first {
		assert.True(t, tr.(*fakeTrack).isStopped())
	}

	_, err = a.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, provider.openCount())
}

func TestAcquireAfterClose(t *testing.T) {
	a := NewAcquirer(&fakeProvider{}, logger.New("test"))
	a.Close()

	_, err := a.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAcquireProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("permission denied by user")}
	a := NewAcquirer(provider, logger.New("test"))

	_, err := a.Acquire(context.Background())
	require.Error(t, err)
	assert.False(t, a.Active())

	// The failed attempt does not wedge the acquirer.
	provider.err = nil
	_, err = a.Acquire(context.Background())
	assert.NoError(t, err)
}
