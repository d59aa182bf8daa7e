package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yllada/ai-wrapper/adblock"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/views"
)

// Options configure the Chrome process shared by every session.
type Options struct {
	// Bin is the Chrome executable. Empty lets the launcher find or
	// download one.
	Bin       string
	Headless  bool
	UserAgent string
	// Width and Height size the initial windows.
	Width  int
	Height int

	NavigationTimeout time.Duration
	QueueSize         int
}

func (o Options) withDefaults() Options {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = common.NavigationTimeout
	}
	if o.QueueSize <= 0 {
		o.QueueSize = common.SurfaceQueueSize
	}
	if o.Width <= 0 {
		o.Width = common.DefaultWindowWidth
	}
	if o.Height <= 0 {
		o.Height = common.DefaultWindowHeight
	}
	return o
}

// Backend owns one Chrome process and opens an incognito context per
// session.
type Backend struct {
	opts     Options
	filter   *adblock.Blocklist
	launcher *launcher.Launcher
	browser  *rod.Browser
	log      common.Logger

	mu       sync.Mutex
	surfaces []*surface
	closed   bool
}

// Launch starts Chrome and connects to it. Cancelling ctx kills Chrome.
// filter may be nil.
func Launch(ctx context.Context, opts Options, filter *adblock.Blocklist) (*Backend, error) {
	opts = opts.withDefaults()
	log := common.GetLogger().Named("browser")

	l := launcher.New().
		Headless(opts.Headless).
		Set("window-size", strconv.Itoa(opts.Width)+","+strconv.Itoa(opts.Height)).
		Set("no-first-run").
		Set("no-default-browser-check")
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrBrowserLaunch, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: connect: %w", common.ErrBrowserLaunch, err)
	}
	log.Info("chrome connected at %s", controlURL)

	return &Backend{
		opts:     opts,
		filter:   filter,
		launcher: l,
		browser:  b,
		log:      log,
	}, nil
}

// Open creates an incognito context with a single page for svc. The page is
// left blank; the pool starts the navigation.
func (b *Backend) Open(ctx context.Context, svc catalog.ServiceDescriptor) (views.Surface, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, common.ErrSessionClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank", NewWindow: true})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if b.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.opts.UserAgent}); err != nil {
			b.log.Warn("%s: user agent override failed: %v", svc.ID, err)
		}
	}

	t := &rodTarget{
		context:    incognito,
		page:       page,
		navTimeout: b.opts.NavigationTimeout,
	}
	if b.filter != nil {
		router, err := interceptRequests(page, svc.ID, b.filter, b.log)
		if err != nil {
			t.close()
			return nil, fmt.Errorf("request filter: %w", err)
		}
		t.router = router
	}

	s := newSurface(svc.ID, t, b.opts.QueueSize)
	s.Hide()

	b.mu.Lock()
	b.surfaces = append(b.surfaces, s)
	b.mu.Unlock()
	return s, nil
}

// Close releases every opened surface and shuts Chrome down.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	surfaces := b.surfaces
	b.surfaces = nil
	b.mu.Unlock()

	var errs []error
	for _, s := range surfaces {
		errs = append(errs, s.Close())
	}
	errs = append(errs, b.browser.Close())
	b.launcher.Cleanup()
	if b.filter != nil {
		b.log.Debug("request filter cancelled %d requests", b.filter.Blocked())
	}
	return errors.Join(errs...)
}
