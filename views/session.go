package views

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
)

// Surface is an isolated browsing context. Implementations must not block:
// each call queues work and returns.
type Surface interface {
	// Load starts navigating to url.
	Load(url string)
	// Show makes the context visible.
	Show()
	// Hide takes the context off screen. It keeps loading in the background.
	Hide()
	// SetBounds places the context inside the host window.
	SetBounds(v Viewport)
	// Close releases the context.
	Close() error
}

// Backend opens browsing contexts. Each opened Surface must be isolated from
// the host and from every other Surface: no shared cookies, storage, or
// script namespace.
type Backend interface {
	Open(ctx context.Context, svc catalog.ServiceDescriptor) (Surface, error)
	Close() error
}

// Session is the browsing context bound to one service. It lives for the
// whole process.
type Session struct {
	Descriptor catalog.ServiceDescriptor

	surface Surface
	visible bool
	bounds  Viewport
}

// ID returns the service id.
func (s *Session) ID() string {
	return s.Descriptor.ID
}

// Visible reports whether this session is the one on screen.
func (s *Session) Visible() bool {
	return s.visible
}

// Bounds returns the last viewport applied to the session.
func (s *Session) Bounds() Viewport {
	return s.bounds
}

func (s *Session) show() {
	s.visible = true
	s.surface.Show()
}

func (s *Session) hide() {
	s.visible = false
	s.surface.Hide()
}

func (s *Session) place(v Viewport) {
	s.bounds = v
	s.surface.SetBounds(v)
}

// Pool creates and owns one Session per service id.
type Pool struct {
	backend  Backend
	sessions map[string]*Session
	log      common.Logger
}

// NewPool returns an empty pool that opens sessions through backend.
func NewPool(backend Backend) *Pool {
	return &Pool{
		backend:  backend,
		sessions: make(map[string]*Session),
		log:      common.GetLogger().Named("pool"),
	}
}

// CreateAll opens one session per descriptor and starts loading its URL
// without waiting for the load to finish. A repeated id replaces the earlier
// session. Any backend failure aborts and is returned wrapped in
// common.ErrSessionCreate.
func (p *Pool) CreateAll(ctx context.Context, descriptors []catalog.ServiceDescriptor) error {
	for _, d := range descriptors {
		surface, err := p.backend.Open(ctx, d)
		if err != nil {
			return fmt.Errorf("%w %s: %w", common.ErrSessionCreate, d.ID, err)
		}
		if old, ok := p.sessions[d.ID]; ok {
			p.log.Warn("session %s registered twice, replacing %s with %s", d.ID, old.Descriptor.URL, d.URL)
			if err := old.surface.Close(); err != nil {
				p.log.Warn("close replaced session %s: %v", d.ID, err)
			}
		}
		surface.Load(d.URL)
		p.sessions[d.ID] = &Session{Descriptor: d, surface: surface}
		p.log.Debug("session %s created for %s", d.ID, d.URL)
	}
	return nil
}

// Get looks up a session by service id.
func (p *Pool) Get(id string) (*Session, bool) {
	s, ok := p.sessions[id]
	return s, ok
}

// Len returns the number of sessions.
func (p *Pool) Len() int {
	return len(p.sessions)
}

// IDs returns the registered service ids, sorted.
func (p *Pool) IDs() []string {
	ids := make([]string, 0, len(p.sessions))
	for id := range p.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close releases every session and then the backend.
func (p *Pool) Close() error {
	var errs []error
	for id, s := range p.sessions {
		if err := s.surface.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	p.sessions = make(map[string]*Session)
	if p.backend != nil {
		if err := p.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
