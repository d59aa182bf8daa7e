package browser

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/ai-wrapper/views"
)

type fakeTarget struct {
	mu      sync.Mutex
	calls   []string
	bounds  views.Viewport
	closed  bool
	block   chan struct{}
	failNav bool
}

func (f *fakeTarget) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeTarget) navigate(url string) error {
	if f.block != nil {
		<-f.block
	}
	f.record("navigate " + url)
	if f.failNav {
		return errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	return nil
}

func (f *fakeTarget) setVisible(visible bool) error {
	if visible {
		f.record("show")
	} else {
		f.record("hide")
	}
	return nil
}

func (f *fakeTarget) setBounds(v views.Viewport) error {
	f.mu.Lock()
	f.bounds = v
	f.mu.Unlock()
	f.record("bounds")
	return nil
}

func (f *fakeTarget) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTarget) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestSurface_RunsOperationsInOrder(t *testing.T) {
	target := &fakeTarget{}
	s := newSurface("gemini", target, 8)
	defer s.Close()

	s.Load("https://gemini.google.com/app")
	s.Show()
	s.SetBounds(views.Viewport{Y: 50, Width: 1200, Height: 750})
	s.Hide()

	require.Eventually(t, func() bool { return len(target.snapshot()) == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"navigate https://gemini.google.com/app", "show", "bounds", "hide"}, target.snapshot())
	target.mu.Lock()
	defer target.mu.Unlock()
	assert.Equal(t, views.Viewport{Y: 50, Width: 1200, Height: 750}, target.bounds)
}

func TestSurface_CallsDoNotBlockOnSlowPage(t *testing.T) {
	target := &fakeTarget{block: make(chan struct{})}
	s := newSurface("claude", target, 4)

	done := make(chan struct{})
	go func() {
		s.Load("https://claude.ai")
		s.Show()
		s.Hide()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("surface calls blocked behind a pending navigation")
	}

	close(target.block)
	require.Eventually(t, func() bool { return len(target.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestSurface_FullQueueDrops(t *testing.T) {
	target := &fakeTarget{block: make(chan struct{})}
	s := newSurface("runway", target, 1)

	s.Load("https://runwayml.com")
	for i := 0; i < 10; i++ {
		s.Show()
	}
	close(target.block)
	require.NoError(t, s.Close())
}

func TestSurface_NavigationErrorKeepsWorker(t *testing.T) {
	target := &fakeTarget{failNav: true}
	s := newSurface("pika", target, 8)
	defer s.Close()

	s.Load("https://pika.art")
	s.Show()

	require.Eventually(t, func() bool { return len(target.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestSurface_CloseIsIdempotent(t *testing.T) {
	target := &fakeTarget{}
	s := newSurface("dalle", target, 8)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, target.closed)

	s.Show()
	assert.Empty(t, target.snapshot())
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Positive(t, o.NavigationTimeout)
	assert.Positive(t, o.QueueSize)
	assert.Equal(t, 1200, o.Width)
	assert.Equal(t, 800, o.Height)

	o = Options{Width: 640, QueueSize: 2}.withDefaults()
	assert.Equal(t, 640, o.Width)
	assert.Equal(t, 2, o.QueueSize)
}
