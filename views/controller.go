package views

import (
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
)

// Host reports the current size of the host window's content area.
type Host interface {
	ContentBounds() Bounds
}

// FixedHost is a Host whose size never changes, used when there is no
// native window to query.
type FixedHost Bounds

// ContentBounds returns the fixed size.
func (h FixedHost) ContentBounds() Bounds {
	return Bounds(h)
}

// TabsNotifier receives the ordered service list of a newly active mode.
type TabsNotifier interface {
	TabsUpdated(services []catalog.ServiceDescriptor)
}

// TabsNotifierFunc adapts a function to TabsNotifier.
type TabsNotifierFunc func(services []catalog.ServiceDescriptor)

// TabsUpdated calls f.
func (f TabsNotifierFunc) TabsUpdated(services []catalog.ServiceDescriptor) {
	f(services)
}

// ActiveState is the mode and service currently shown.
// ServiceID is always one of Mode's services.
type ActiveState struct {
	Mode      catalog.Mode
	ServiceID string
}

// Controller applies mode and tab switches. It must only be used from the
// UI event loop.
type Controller struct {
	catalog      *catalog.Catalog
	pool         *Pool
	host         Host
	notifier     TabsNotifier
	chromeHeight int

	state   ActiveState
	visible *Session

	onTabActivated func(mode, serviceID string)
	log            common.Logger
}

// NewController returns a controller positioned on the first service of the
// catalog's first mode. Nothing is shown until Start or a switch is called.
func NewController(cat *catalog.Catalog, pool *Pool, host Host, notifier TabsNotifier, chromeHeight int) *Controller {
	first := cat.First()
	state := ActiveState{Mode: first}
	if svc, ok := first.First(); ok {
		state.ServiceID = svc.ID
	}
	return &Controller{
		catalog:      cat,
		pool:         pool,
		host:         host,
		notifier:     notifier,
		chromeHeight: chromeHeight,
		state:        state,
		log:          common.GetLogger().Named("views"),
	}
}

// SetOnTabActivated registers a callback run after every successful tab
// switch.
func (c *Controller) SetOnTabActivated(callback func(mode, serviceID string)) {
	c.onTabActivated = callback
}

// Start shows the catalog's first mode.
func (c *Controller) Start() {
	c.SwitchMode(c.catalog.First().Name)
}

// State returns the active mode and service.
func (c *Controller) State() ActiveState {
	return c.state
}

// Visible returns the session currently on screen.
func (c *Controller) Visible() (*Session, bool) {
	return c.visible, c.visible != nil
}

// Catalog returns the catalog the controller switches over.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// SwitchMode activates the named mode, announces its tab set, and shows its
// first service. Unknown names are ignored.
func (c *Controller) SwitchMode(name string) {
	mode, ok := c.catalog.Mode(name)
	if !ok {
		c.log.Debug("ignoring switch to unknown mode %q", name)
		return
	}
	first, ok := mode.First()
	if !ok {
		return
	}

	c.state = ActiveState{Mode: mode, ServiceID: first.ID}
	c.log.Info("mode %s active", mode.Name)

	if c.notifier != nil {
		services := make([]catalog.ServiceDescriptor, len(mode.Services))
		copy(services, mode.Services)
		c.notifier.TabsUpdated(services)
	}

	c.SwitchTab(first.ID)
}

// SwitchTab shows the session registered under serviceID and hides the one
// shown before it. Ids with no session are ignored. So are ids of sessions
// that belong only to other modes: showing any registered session would
// leave the active service outside the active mode, so this is narrower
// than a plain registry lookup. Call SwitchMode first to reach them.
func (c *Controller) SwitchTab(serviceID string) {
	next, ok := c.pool.Get(serviceID)
	if !ok {
		c.log.Debug("ignoring switch to unknown service %q", serviceID)
		return
	}
	if !c.state.Mode.Contains(serviceID) {
		c.log.Debug("ignoring switch to %q outside mode %s", serviceID, c.state.Mode.Name)
		return
	}

	if c.visible != nil && c.visible != next {
		c.visible.hide()
	}
	if !next.visible {
		next.show()
	}
	c.visible = next
	next.place(LayoutFor(c.host.ContentBounds(), c.chromeHeight))

	c.state.ServiceID = serviceID
	c.log.Debug("tab %s visible at %+v", serviceID, next.bounds)

	if c.onTabActivated != nil {
		c.onTabActivated(c.state.Mode.Name, serviceID)
	}
}

// HandleResize re-places the visible session for new host bounds.
func (c *Controller) HandleResize(b Bounds) {
	if c.visible == nil {
		return
	}
	c.visible.place(LayoutFor(b, c.chromeHeight))
}
