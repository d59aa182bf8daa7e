// Package ui provides the graphical user interface for AI Wrapper.
// This file contains the system tray indicator.
package ui

import (
	"fmt"
	"sync"

	"fyne.io/systray"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
)

var (
	iconReady    = GenerateIcon(ReadyIconStyle())
	iconStarting = GenerateIcon(StartingIconStyle())
)

// TrayIndicator mirrors the modes and tabs in the system tray so a session
// can be brought up while the window is hidden.
//
// systray delivers clicks on its own goroutines; every action is passed to
// the GTK main loop with glib.IdleAdd.
type TrayIndicator struct {
	app *Application

	mu           sync.Mutex
	ready        bool
	statusItem   *systray.MenuItem
	activeItem   *systray.MenuItem
	panelItem    *systray.MenuItem
	modeItems    map[string]*systray.MenuItem
	serviceItems map[string]map[string]*systray.MenuItem
}

// NewTrayIndicator creates a tray indicator for app.
func NewTrayIndicator(app *Application) *TrayIndicator {
	return &TrayIndicator{
		app:          app,
		modeItems:    make(map[string]*systray.MenuItem),
		serviceItems: make(map[string]map[string]*systray.MenuItem),
	}
}

// Run starts the tray. It blocks, so call it from a goroutine.
func (t *TrayIndicator) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayIndicator) onReady() {
	systray.SetIcon(iconStarting)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName + " - starting")

	t.mu.Lock()
	defer t.mu.Unlock()

	t.statusItem = systray.AddMenuItem("Starting sessions...", "Session status")
	t.statusItem.Disable()
	t.activeItem = systray.AddMenuItem("", "Visible service")
	t.activeItem.Disable()
	t.activeItem.Hide()

	systray.AddSeparator()

	for _, mode := range t.app.catalog.Modes() {
		t.addMode(mode)
	}

	systray.AddSeparator()

	t.panelItem = systray.AddMenuItemCheckbox("Local AI Panel", "Show or hide the local model panel", false)
	t.onClick(t.panelItem, func() {
		if t.app.window != nil {
			t.app.window.ToggleLocalPanel()
		}
	})

	showItem := systray.AddMenuItem("Open "+common.AppName, "Show main window")
	t.onClick(showItem, t.app.showWindow)

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Close "+common.AppName)
	go func() {
		for range quitItem.ClickedCh {
			glib.IdleAdd(t.app.Quit)
			systray.Quit()
		}
	}()

	t.ready = true
}

// addMode adds a submenu for mode with one checkbox per service. Callers
// hold t.mu.
func (t *TrayIndicator) addMode(mode catalog.Mode) {
	name := mode.Name
	modeItem := systray.AddMenuItem(catalog.ModeTitle(name), "Switch to "+catalog.ModeTitle(name))
	t.modeItems[name] = modeItem
	t.serviceItems[name] = make(map[string]*systray.MenuItem)

	openItem := modeItem.AddSubMenuItem("Open "+catalog.ModeTitle(name), "")
	t.onClick(openItem, func() { t.app.switchMode(name) })

	for _, svc := range mode.Services {
		id := svc.ID
		label := fmt.Sprintf("%s  %s", catalog.Icon(id), catalog.Label(id))
		item := modeItem.AddSubMenuItemCheckbox(label, svc.URL, false)
		t.serviceItems[name][id] = item
		t.onClick(item, func() { t.app.switchTo(name, id) })
	}
}

// onClick runs fn on the GTK main loop for every click of item.
func (t *TrayIndicator) onClick(item *systray.MenuItem, fn func()) {
	go func() {
		for range item.ClickedCh {
			glib.IdleAdd(fn)
		}
	}()
}

func (t *TrayIndicator) onExit() {
	common.LogInfo("Tray indicator cleanup completed")
}

// SetReady switches the icon once sessions are running.
func (t *TrayIndicator) SetReady(sessions int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	systray.SetIcon(iconReady)
	systray.SetTooltip(fmt.Sprintf("%s - %d sessions", common.AppName, sessions))
	t.statusItem.SetTitle(fmt.Sprintf("%d sessions running", sessions))
}

// SetActive checks the visible service and its mode.
func (t *TrayIndicator) SetActive(mode, serviceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}

	for name, item := range t.modeItems {
		title := catalog.ModeTitle(name)
		if name == mode {
			title = "● " + title
		}
		item.SetTitle(title)
	}
	for name, items := range t.serviceItems {
		for id, item := range items {
			if name == mode && id == serviceID {
				item.Check()
			} else {
				item.Uncheck()
			}
		}
	}

	t.activeItem.SetTitle(fmt.Sprintf("%s › %s", catalog.ModeTitle(mode), catalog.Label(serviceID)))
	t.activeItem.Show()
}

// SetPanelVisible mirrors the local panel state.
func (t *TrayIndicator) SetPanelVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	if visible {
		t.panelItem.Check()
	} else {
		t.panelItem.Uncheck()
	}
}

// Quit removes the tray icon.
func (t *TrayIndicator) Quit() {
	systray.Quit()
}
