package browser

import (
	"sync"

	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/views"
)

// target is the page-level work a surface performs. The rod implementation
// lives in page.go.
type target interface {
	navigate(url string) error
	setVisible(visible bool) error
	setBounds(v views.Viewport) error
	close() error
}

type op struct {
	name string
	run  func(target) error
}

// surface serializes page operations on a worker goroutine so callers on
// the UI loop never wait on a DevTools round trip.
type surface struct {
	id     string
	target target
	ops    chan op
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
	log    common.Logger
}

func newSurface(id string, t target, queueSize int) *surface {
	s := &surface{
		id:     id,
		target: t,
		ops:    make(chan op, queueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		log:    common.GetLogger().Named("browser"),
	}
	go s.run()
	return s
}

func (s *surface) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case o := <-s.ops:
			if err := o.run(s.target); err != nil {
				s.log.Debug("%s: %s failed: %v", s.id, o.name, err)
			}
		}
	}
}

func (s *surface) enqueue(name string, fn func(target) error) {
	select {
	case <-s.quit:
		return
	default:
	}
	select {
	case s.ops <- op{name: name, run: fn}:
	default:
		s.log.Warn("%s: queue full, dropping %s", s.id, name)
	}
}

// Load starts navigating to url.
func (s *surface) Load(url string) {
	s.enqueue("load", func(t target) error { return t.navigate(url) })
}

// Show brings the session's window up.
func (s *surface) Show() {
	s.enqueue("show", func(t target) error { return t.setVisible(true) })
}

// Hide minimizes the session's window. The page keeps running.
func (s *surface) Hide() {
	s.enqueue("hide", func(t target) error { return t.setVisible(false) })
}

// SetBounds moves and resizes the session's window.
func (s *surface) SetBounds(v views.Viewport) {
	s.enqueue("bounds", func(t target) error { return t.setBounds(v) })
}

// Close stops the worker, dropping queued work, and releases the page.
func (s *surface) Close() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		<-s.done
		err = s.target.close()
	})
	return err
}
