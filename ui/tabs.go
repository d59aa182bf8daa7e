package ui

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/views"
)

// tabState tracks which tab of the current set is marked active.
type tabState struct {
	ids    []string
	active int
}

// reset replaces the tab set and marks the first entry active.
func (s *tabState) reset(services []catalog.ServiceDescriptor) {
	s.ids = s.ids[:0]
	for _, svc := range services {
		s.ids = append(s.ids, svc.ID)
	}
	s.active = 0
	if len(s.ids) == 0 {
		s.active = -1
	}
}

// activate marks id active and reports its index, or -1 if id is not in
// the current set.
func (s *tabState) activate(id string) int {
	for i, existing := range s.ids {
		if existing == id {
			s.active = i
			return i
		}
	}
	return -1
}

// TabStrip renders one button per service of the active mode. It is the
// GTK TabsNotifier.
type TabStrip struct {
	box      *gtk.Box
	buttons  []*gtk.Button
	state    tabState
	onSelect func(serviceID string)
}

var _ views.TabsNotifier = (*TabStrip)(nil)

// NewTabStrip creates an empty strip. onSelect runs after a tab is clicked.
func NewTabStrip(onSelect func(serviceID string)) *TabStrip {
	ts := &TabStrip{
		box:      gtk.NewBox(gtk.OrientationHorizontal, 2),
		onSelect: onSelect,
	}
	ts.box.AddCSSClass("tab-strip")
	return ts
}

// Widget returns the container to pack into the window.
func (ts *TabStrip) Widget() *gtk.Box {
	return ts.box
}

// TabsUpdated rebuilds the strip for services and marks the first active.
func (ts *TabStrip) TabsUpdated(services []catalog.ServiceDescriptor) {
	for _, btn := range ts.buttons {
		ts.box.Remove(btn)
	}
	ts.buttons = ts.buttons[:0]
	ts.state.reset(services)

	for _, svc := range services {
		ts.buttons = append(ts.buttons, ts.newTab(svc))
	}
	ts.render()
}

func (ts *TabStrip) newTab(svc catalog.ServiceDescriptor) *gtk.Button {
	id := svc.ID

	content := gtk.NewBox(gtk.OrientationHorizontal, 6)
	icon := gtk.NewLabel(catalog.Icon(id))
	icon.AddCSSClass("tab-icon")
	content.Append(icon)
	content.Append(gtk.NewLabel(catalog.Label(id)))

	btn := gtk.NewButton()
	btn.SetChild(content)
	btn.AddCSSClass("tab")
	btn.AddCSSClass("flat")
	btn.SetTooltipText(svc.URL)
	btn.ConnectClicked(func() {
		ts.SetActive(id)
		if ts.onSelect != nil {
			ts.onSelect(id)
		}
	})
	ts.box.Append(btn)
	return btn
}

// SetActive highlights id. Unknown ids leave the strip unchanged.
func (ts *TabStrip) SetActive(id string) {
	if ts.state.activate(id) < 0 {
		return
	}
	ts.render()
}

func (ts *TabStrip) render() {
	for i, btn := range ts.buttons {
		if i == ts.state.active {
			btn.AddCSSClass("active")
		} else {
			btn.RemoveCSSClass("active")
		}
	}
}
