package ui

import (
	"fmt"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/integration"
	"github.com/yllada/ai-wrapper/views"
)

// MainWindow is the shell window: the chrome bar with mode buttons and
// tabs, the content area over which the visible session is placed, and
// the local AI panel.
type MainWindow struct {
	app         *Application
	window      *gtk.ApplicationWindow
	headerBar   *gtk.HeaderBar
	modeButtons map[string]*gtk.Button
	tabs        *TabStrip
	localPanel  *LocalPanel

	serviceIcon  *gtk.Label
	serviceTitle *gtk.Label
	serviceURL   *gtk.Label
	statusLabel  *gtk.Label
}

var _ views.Host = (*MainWindow)(nil)

// NewMainWindow creates the main window.
func NewMainWindow(app *Application) *MainWindow {
	mw := &MainWindow{
		app:         app,
		modeButtons: make(map[string]*gtk.Button),
	}

	cfg := app.config
	mw.window = gtk.NewApplicationWindow(&app.app.Application)
	mw.window.SetTitle(common.AppName)
	mw.window.SetDefaultSize(cfg.Window.Width, cfg.Window.Height)
	mw.window.SetSizeRequest(common.MinWindowWidth, common.MinWindowHeight)
	mw.window.SetIconName(common.BinaryName)
	mw.window.AddCSSClass("shell")

	// With a tray the sessions outlive the window.
	mw.window.SetHideOnClose(cfg.MinimizeToTray)

	mw.localPanel = NewLocalPanel(app.ctx, cfg.Ollama.Models, cfg.Ollama.Model)
	mw.tabs = NewTabStrip(app.switchTab)

	mw.createLayout()
	mw.setupActions()

	for _, property := range resizeProperties {
		mw.window.NotifyProperty(property, func() {
			// Wait for the new allocation.
			glib.IdleAdd(app.handleResize)
		})
	}

	return mw
}

func (mw *MainWindow) createLayout() {
	mw.headerBar = gtk.NewHeaderBar()
	mw.headerBar.AddCSSClass("chrome-bar")

	modeBox := gtk.NewBox(gtk.OrientationHorizontal, 4)
	for _, name := range mw.app.catalog.ModeNames() {
		btn := gtk.NewButtonWithLabel(catalog.ModeTitle(name))
		btn.AddCSSClass("mode-button")
		btn.ConnectClicked(func() {
			mw.app.switchMode(name)
		})
		mw.modeButtons[name] = btn
		modeBox.Append(btn)
	}
	mw.headerBar.PackStart(modeBox)

	menuButton := gtk.NewMenuButton()
	menuButton.SetIconName("open-menu-symbolic")
	menuButton.SetTooltipText("Menu")
	menuButton.SetMenuModel(mw.createMenu())
	mw.headerBar.PackEnd(menuButton)

	panelButton := gtk.NewButton()
	panelButton.SetIconName("system-run-symbolic")
	panelButton.SetTooltipText("Local AI (F9)")
	panelButton.ConnectClicked(mw.ToggleLocalPanel)
	mw.headerBar.PackEnd(panelButton)

	mw.window.SetTitlebar(mw.headerBar)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 0)

	tabScroll := gtk.NewScrolledWindow()
	tabScroll.SetPolicy(gtk.PolicyAutomatic, gtk.PolicyNever)
	tabScroll.SetChild(mw.tabs.Widget())
	mainBox.Append(tabScroll)

	body := gtk.NewBox(gtk.OrientationHorizontal, 0)
	body.SetVExpand(true)
	body.Append(mw.createContent())
	body.Append(mw.localPanel.Widget())
	mainBox.Append(body)

	mw.statusLabel = gtk.NewLabel("")
	mw.statusLabel.SetXAlign(0)
	mw.statusLabel.AddCSSClass("status-bar")
	mainBox.Append(mw.statusLabel)

	mw.window.SetChild(mainBox)
}

// createContent builds the area the visible session is placed over.
func (mw *MainWindow) createContent() *gtk.Box {
	content := gtk.NewBox(gtk.OrientationVertical, 8)
	content.SetHExpand(true)
	content.SetVExpand(true)
	content.SetVAlign(gtk.AlignCenter)
	content.AddCSSClass("session-placeholder")

	mw.serviceIcon = gtk.NewLabel(catalog.FallbackIcon)
	mw.serviceIcon.AddCSSClass("title-1")
	content.Append(mw.serviceIcon)

	mw.serviceTitle = gtk.NewLabel("Starting sessions...")
	mw.serviceTitle.AddCSSClass("title-3")
	content.Append(mw.serviceTitle)

	mw.serviceURL = gtk.NewLabel("")
	mw.serviceURL.AddCSSClass("session-url")
	mw.serviceURL.SetSelectable(true)
	content.Append(mw.serviceURL)

	return content
}

func (mw *MainWindow) createMenu() *gio.Menu {
	menu := gio.NewMenu()

	integrateSection := gio.NewMenu()
	integrateSection.Append("Add to Applications Menu", "app.integrate-desktop")
	integrateSection.Append("Create Launcher Script", "app.integrate-launcher")
	menu.AppendSection("", &integrateSection.MenuModel)

	viewSection := gio.NewMenu()
	viewSection.Append("Local AI Panel", "app.local-panel")
	viewSection.Append("Preferences", "app.preferences")
	menu.AppendSection("", &viewSection.MenuModel)

	appSection := gio.NewMenu()
	appSection.Append("About", "app.about")
	appSection.Append("Quit", "app.quit")
	menu.AppendSection("", &appSection.MenuModel)

	return menu
}

// setupActions registers the application actions and their shortcuts.
func (mw *MainWindow) setupActions() {
	app := mw.app.app

	mw.addAction("integrate-desktop", nil, mw.onIntegrateDesktop)
	mw.addAction("integrate-launcher", nil, mw.onIntegrateLauncher)

	mw.addAction("local-panel", []string{"F9"}, mw.ToggleLocalPanel)
	mw.addAction("preferences", []string{"<Control>comma"}, mw.onPreferences)
	mw.addAction("about", nil, mw.onAbout)
	mw.addAction("quit", []string{"<Control>q"}, mw.app.Quit)

	mw.addAction("next-tab", []string{"<Control>Tab", "<Control>Page_Down"}, func() { mw.app.stepTab(1) })
	mw.addAction("prev-tab", []string{"<Control><Shift>Tab", "<Control>Page_Up"}, func() { mw.app.stepTab(-1) })

	// Ctrl+1..9 selects a mode by position.
	modeAction := gio.NewSimpleAction("mode", glib.NewVariantType("s"))
	modeAction.ConnectActivate(func(param *glib.Variant) {
		if param != nil {
			mw.app.switchMode(param.String())
		}
	})
	app.AddAction(modeAction)
	for i, name := range mw.app.catalog.ModeNames() {
		if i >= 9 {
			break
		}
		detailed := fmt.Sprintf("app.mode('%s')", name)
		app.SetAccelsForAction(detailed, []string{fmt.Sprintf("<Control>%d", i+1)})
	}
}

func (mw *MainWindow) addAction(name string, accels []string, fn func()) {
	action := gio.NewSimpleAction(name, nil)
	action.ConnectActivate(func(_ *glib.Variant) {
		fn()
	})
	mw.app.app.AddAction(action)
	if len(accels) > 0 {
		mw.app.app.SetAccelsForAction("app."+name, accels)
	}
}

// Show displays the window.
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// SetStatus updates the status text.
func (mw *MainWindow) SetStatus(text string) {
	if mw.statusLabel != nil {
		mw.statusLabel.SetText(text)
	}
}

// resizeProperties are the window properties whose change moves the
// content area. Maximizing and fullscreen leave the default size alone.
var resizeProperties = []string{"default-width", "default-height", "maximized", "fullscreened"}

// ContentBounds reports the area below the title bar, minus the local
// panel when it is open.
func (mw *MainWindow) ContentBounds() views.Bounds {
	defaultWidth, defaultHeight := mw.window.DefaultSize()
	return contentBounds(mw.window.Width(), mw.window.Height(), defaultWidth, defaultHeight, mw.localPanel.Visible())
}

// contentBounds prefers the allocated window size, which follows maximize
// and fullscreen, and falls back to the default size before the first
// allocation.
func contentBounds(width, height, defaultWidth, defaultHeight int, panelVisible bool) views.Bounds {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	if panelVisible {
		width -= common.LocalPanelWidth
	}
	return views.Bounds{Width: width, Height: height}
}

// SetActive highlights mode and serviceID and describes the visible session.
func (mw *MainWindow) SetActive(mode, serviceID string) {
	for name, btn := range mw.modeButtons {
		if name == mode {
			btn.AddCSSClass("active")
		} else {
			btn.RemoveCSSClass("active")
		}
	}
	mw.tabs.SetActive(serviceID)

	mw.serviceIcon.SetText(catalog.Icon(serviceID))
	mw.serviceTitle.SetText(catalog.Label(serviceID))
	if session, ok := mw.app.controller.Visible(); ok {
		mw.serviceURL.SetText(session.Descriptor.URL)
		b := session.Bounds()
		mw.SetStatus(fmt.Sprintf("%s › %s  (%dx%d at %d,%d)",
			catalog.ModeTitle(mode), catalog.Label(serviceID), b.Width, b.Height, b.X, b.Y))
	}
	mw.window.SetTitle(fmt.Sprintf("%s - %s", catalog.Label(serviceID), common.AppName))
}

// ToggleLocalPanel shows or hides the local AI panel and re-places the
// visible session.
func (mw *MainWindow) ToggleLocalPanel() {
	visible := !mw.localPanel.Visible()
	mw.localPanel.SetVisible(visible)
	if mw.app.tray != nil {
		mw.app.tray.SetPanelVisible(visible)
	}
	mw.app.handleResize()
}

func (mw *MainWindow) onIntegrateDesktop() {
	mw.integrate("Desktop Entry", func(i *integration.Integrator) (string, error) {
		return i.DesktopEntry()
	})
}

func (mw *MainWindow) onIntegrateLauncher() {
	mw.integrate("Launcher Script", func(i *integration.Integrator) (string, error) {
		return i.LauncherScript()
	})
}

// integrate runs one integration step and reports the outcome with a
// dialog and a notification.
func (mw *MainWindow) integrate(what string, run func(*integration.Integrator) (string, error)) {
	integrator, err := integration.New()
	var path string
	if err == nil {
		path, err = run(integrator)
	}
	if err != nil {
		common.LogError("%s failed: %v", what, err)
		mw.showError(what+" Failed", err.Error())
		mw.app.notify(what+" Failed", err.Error(), true)
		return
	}

	common.LogInfo("%s written to %s", what, path)
	mw.showInfo(what+" Created", "Written to:\n"+path)
	mw.app.notify(what+" Created", path, false)
	mw.SetStatus(what + " created")
}

func (mw *MainWindow) onPreferences() {
	NewPreferencesDialog(mw).Show()
}

func (mw *MainWindow) onAbout() {
	about := gtk.NewAboutDialog()
	about.SetTransientFor(&mw.window.Window)
	about.SetModal(true)

	about.SetProgramName(common.AppName)
	about.SetLogoIconName(common.BinaryName)
	about.SetVersion(mw.app.version)
	about.SetComments("Your AI services side by side, each in its own isolated session.")
	about.SetWebsite("https://github.com/yllada/ai-wrapper")
	about.SetWebsiteLabel("GitHub Repository")
	about.SetLicenseType(gtk.LicenseMITX11)
	about.SetAuthors([]string{"Yadian Llada Lopez <yadian@y3lcorp.com>"})

	about.Show()
}

// showError displays an error dialog.
func (mw *MainWindow) showError(title, message string) {
	mw.showMessage(title, message, "dialog-error-symbolic")
}

// showInfo displays an information dialog.
func (mw *MainWindow) showInfo(title, message string) {
	mw.showMessage(title, message, "dialog-information-symbolic")
}

func (mw *MainWindow) showMessage(title, message, iconName string) {
	window := gtk.NewWindow()
	window.SetTitle(title)
	window.SetTransientFor(&mw.window.Window)
	window.SetModal(true)
	window.SetDefaultSize(350, 150)
	window.SetResizable(false)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 12)
	mainBox.SetMarginTop(common.DialogMargin)
	mainBox.SetMarginBottom(common.DialogMargin)
	mainBox.SetMarginStart(common.DialogMargin)
	mainBox.SetMarginEnd(common.DialogMargin)
	mainBox.SetHAlign(gtk.AlignCenter)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(48)
	mainBox.Append(icon)

	titleLabel := gtk.NewLabel(title)
	titleLabel.AddCSSClass("heading")
	mainBox.Append(titleLabel)

	msgLabel := gtk.NewLabel(message)
	msgLabel.SetWrap(true)
	msgLabel.SetMaxWidthChars(40)
	msgLabel.SetSelectable(true)
	mainBox.Append(msgLabel)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.SetHAlign(gtk.AlignCenter)
	okBtn.SetMarginTop(12)
	okBtn.ConnectClicked(func() {
		window.Close()
	})
	mainBox.Append(okBtn)

	window.SetChild(mainBox)
	window.Show()
}
