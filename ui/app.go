package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/config"
	"github.com/yllada/ai-wrapper/keyring"
	"github.com/yllada/ai-wrapper/shell"
	"github.com/yllada/ai-wrapper/views"
)

// Application represents the main application
type Application struct {
	app     *adw.Application
	config  *config.Config
	catalog *catalog.Catalog
	version string

	window     *MainWindow
	tray       *TrayIndicator
	controller *views.Controller
	sessions   *shell.Sessions
	chat       *shell.Chat
	creds      *keyring.Store

	ctx      context.Context
	cancel   context.CancelFunc
	fatal    error
	shutdown bool
}

// NewApplication creates the GTK application for cfg and cat.
func NewApplication(cfg *config.Config, cat *catalog.Catalog, version string) *Application {
	app := adw.NewApplication(common.AppID, gio.ApplicationFlagsNone)
	ctx, cancel := context.WithCancel(context.Background())

	application := &Application{
		app:     app,
		config:  cfg,
		catalog: cat,
		version: version,
		ctx:     ctx,
		cancel:  cancel,
	}

	app.ConnectActivate(application.onActivate)
	app.ConnectShutdown(application.onShutdown)

	return application
}

// Run runs the application and returns the process exit code. A session
// startup failure always yields 1.
func (a *Application) Run(args []string) int {
	code := a.app.Run(args)
	if a.fatal != nil {
		return 1
	}
	return code
}

func (a *Application) onActivate() {
	if a.window != nil {
		a.showWindow()
		return
	}

	a.ApplyTheme(a.config.Theme)
	a.setupAppIcon()
	LoadStyles()

	a.window = NewMainWindow(a)
	a.window.Show()

	a.tray = NewTrayIndicator(a)
	go a.tray.Run()

	a.openChat()

	a.window.SetStatus("Starting sessions...")
	go a.startSessions()
}

// openChat wires the local AI panel. The panel stays disabled when the
// history database cannot be opened.
func (a *Application) openChat() {
	creds, err := keyring.Open("")
	if err != nil {
		common.LogWarn("Credential store unavailable: %v", err)
	} else {
		a.creds = creds
	}

	historyPath, err := shell.HistoryPath()
	if err == nil {
		var store common.CredentialStore
		if a.creds != nil {
			store = a.creds
		}
		a.chat, err = shell.OpenChat(a.ctx, a.config, store, historyPath)
	}
	if err != nil {
		common.LogWarn("Local AI panel disabled: %v", err)
		a.window.localPanel.SetUnavailable(err.Error())
		return
	}
	a.window.localPanel.Attach(a.chat)
}

// startSessions launches the browser off the main loop and hands the pool
// to the controller once every session exists.
func (a *Application) startSessions() {
	sessions, err := shell.StartSessions(a.ctx, a.config, a.catalog)
	glib.IdleAdd(func() {
		if a.shutdown {
			sessions.Close()
			return
		}
		if err != nil {
			a.fail(err)
			return
		}
		a.sessions = sessions
		a.controller = views.NewController(a.catalog, sessions.Pool, a.window, a.window.tabs, a.config.Window.ChromeHeight)
		a.controller.SetOnTabActivated(a.onTabActivated)
		a.controller.Start()

		a.tray.SetReady(sessions.Pool.Len())
		a.window.SetStatus(fmt.Sprintf("%d sessions ready", sessions.Pool.Len()))
	})
}

// fail reports a fatal startup error once and quits.
func (a *Application) fail(err error) {
	if a.fatal != nil {
		return
	}
	a.fatal = err
	common.LogError("Session startup failed: %v", err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", common.BinaryName, err)
	a.Quit()
}

func (a *Application) onTabActivated(mode, serviceID string) {
	a.window.SetActive(mode, serviceID)
	a.tray.SetActive(mode, serviceID)
}

func (a *Application) onShutdown() {
	a.shutdown = true
	a.cancel()
	if a.window != nil {
		a.window.localPanel.Stop()
	}

	if err := a.sessions.Close(); err != nil {
		common.LogWarn("Error closing sessions: %v", err)
	}
	if err := a.chat.Close(); err != nil {
		common.LogWarn("Error closing chat: %v", err)
	}
	defaultNotifier.Close()
	if a.tray != nil {
		a.tray.Quit()
	}
	common.LogInfo("Application shut down")
}

// switchMode is the UI entry point for mode buttons and the tray.
func (a *Application) switchMode(name string) {
	if a.controller == nil {
		return
	}
	a.controller.SwitchMode(name)
}

// switchTab is the UI entry point for tab clicks.
func (a *Application) switchTab(serviceID string) {
	if a.controller == nil {
		return
	}
	a.controller.SwitchTab(serviceID)
}

// switchTo shows serviceID of mode, switching mode first when needed.
func (a *Application) switchTo(mode, serviceID string) {
	if a.controller == nil {
		return
	}
	if a.controller.State().Mode.Name != mode {
		a.controller.SwitchMode(mode)
	}
	a.controller.SwitchTab(serviceID)
	a.showWindow()
}

// stepTab moves the active tab by delta within the current mode, wrapping.
func (a *Application) stepTab(delta int) {
	if a.controller == nil {
		return
	}
	state := a.controller.State()
	services := state.Mode.Services
	for i, svc := range services {
		if svc.ID == state.ServiceID {
			next := (i + delta + len(services)) % len(services)
			a.controller.SwitchTab(services[next].ID)
			return
		}
	}
}

func (a *Application) handleResize() {
	if a.controller == nil || a.window == nil {
		return
	}
	a.controller.HandleResize(a.window.ContentBounds())
}

func (a *Application) setupAppIcon() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	iconTheme := gtk.IconThemeGetForDisplay(display)
	if iconTheme == nil {
		return
	}

	if execPath, err := os.Executable(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(filepath.Dir(execPath), "assets", "icons"))
	}
	if cwd, err := os.Getwd(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(cwd, "assets", "icons"))
	}

	gtk.WindowSetDefaultIconName(common.BinaryName)
}

// ApplyTheme sets the libadwaita color scheme.
// Supported values: "auto" (system default), "light", "dark"
func (a *Application) ApplyTheme(theme string) {
	manager := adw.StyleManagerGetDefault()
	if manager == nil {
		return
	}

	switch theme {
	case common.ThemeLight:
		manager.SetColorScheme(adw.ColorSchemeForceLight)
	case common.ThemeDark:
		manager.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		manager.SetColorScheme(adw.ColorSchemeDefault)
	}
}

// notify sends a desktop notification when enabled.
func (a *Application) notify(title, message string, failed bool) {
	if !a.config.ShowNotifications {
		return
	}
	if failed {
		NotifyError(title, message)
		return
	}
	NotifySuccess(title, message)
}

func (a *Application) showWindow() {
	if a.window != nil {
		a.window.window.Present()
	}
}

// Quit closes the application
func (a *Application) Quit() {
	a.app.Quit()
}

// RequestQuit quits from any goroutine.
func (a *Application) RequestQuit() {
	glib.IdleAdd(a.Quit)
}
