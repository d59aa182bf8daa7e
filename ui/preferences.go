// Package ui provides the graphical user interface for AI Wrapper.
// This file contains the PreferencesDialog component for application settings.
package ui

import (
	"strings"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/config"
	"github.com/yllada/ai-wrapper/keyring"
)

// PreferencesDialog represents the preferences dialog.
type PreferencesDialog struct {
	window         *gtk.Window
	mainWindow     *MainWindow
	config         *config.Config
	minimizeSwitch *gtk.Switch
	notifySwitch   *gtk.Switch
	themeDropDown  *gtk.DropDown
	themeIDs       []string
	endpointEntry  *gtk.Entry
	tokenEntry     *gtk.PasswordEntry
	clearToken     bool
}

// NewPreferencesDialog creates a new preferences dialog.
func NewPreferencesDialog(mainWindow *MainWindow) *PreferencesDialog {
	pd := &PreferencesDialog{
		mainWindow: mainWindow,
		config:     mainWindow.app.config,
	}

	pd.build()
	return pd
}

func (pd *PreferencesDialog) build() {
	pd.window = gtk.NewWindow()
	pd.window.SetTitle("Settings")
	pd.window.SetTransientFor(&pd.mainWindow.window.Window)
	pd.window.SetModal(true)
	pd.window.SetDefaultSize(500, 620)
	pd.window.SetResizable(false)

	rootBox := gtk.NewBox(gtk.OrientationVertical, 0)

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetVExpand(true)
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 20)
	mainBox.SetMarginTop(common.DialogMargin)
	mainBox.SetMarginBottom(16)
	mainBox.SetMarginStart(common.DialogMargin)
	mainBox.SetMarginEnd(common.DialogMargin)

	// Window
	windowSection := pd.createSection("Window", "window-new-symbolic")
	windowCard := pd.createCard()

	pd.minimizeSwitch = gtk.NewSwitch()
	pd.minimizeSwitch.SetActive(pd.config.MinimizeToTray)
	pd.minimizeSwitch.SetVAlign(gtk.AlignCenter)
	windowCard.Append(pd.createSettingRow(
		"Minimize to Tray",
		"Keep sessions running in the system tray when the window is closed",
		pd.minimizeSwitch,
	))

	windowSection.Append(windowCard)
	mainBox.Append(windowSection)

	// Notifications
	notifySection := pd.createSection("Notifications", "preferences-system-notifications-symbolic")
	notifyCard := pd.createCard()

	pd.notifySwitch = gtk.NewSwitch()
	pd.notifySwitch.SetActive(pd.config.ShowNotifications)
	pd.notifySwitch.SetVAlign(gtk.AlignCenter)
	notifyCard.Append(pd.createSettingRow(
		"Desktop Notifications",
		"Report desktop integration and install results",
		pd.notifySwitch,
	))

	notifySection.Append(notifyCard)
	mainBox.Append(notifySection)

	// Appearance
	appearSection := pd.createSection("Appearance", "preferences-desktop-theme-symbolic")
	appearCard := pd.createCard()

	pd.themeIDs = []string{common.ThemeAuto, common.ThemeLight, common.ThemeDark}
	themeModel := gtk.NewStringList([]string{"System Default", "Light", "Dark"})
	pd.themeDropDown = gtk.NewDropDown(themeModel, nil)
	pd.themeDropDown.SetSelected(pd.findThemeIndex(pd.config.Theme))
	pd.themeDropDown.SetVAlign(gtk.AlignCenter)
	pd.themeDropDown.AddCSSClass("flat")
	appearCard.Append(pd.createSettingRow(
		"Theme",
		"Color scheme of the shell chrome",
		pd.themeDropDown,
	))

	appearSection.Append(appearCard)
	mainBox.Append(appearSection)

	// Local AI
	localSection := pd.createSection("Local AI", "system-run-symbolic")
	localCard := pd.createCard()

	pd.endpointEntry = gtk.NewEntry()
	pd.endpointEntry.SetText(pd.config.Ollama.Endpoint)
	pd.endpointEntry.SetVAlign(gtk.AlignCenter)
	pd.endpointEntry.SetWidthChars(22)
	localCard.Append(pd.createSettingRow(
		"Endpoint",
		"Ollama server address; applies after restart",
		pd.endpointEntry,
	))

	localCard.Append(pd.createSeparator())

	pd.tokenEntry = gtk.NewPasswordEntry()
	pd.tokenEntry.SetShowPeekIcon(true)
	pd.tokenEntry.SetVAlign(gtk.AlignCenter)
	tokenDesc := "Bearer token for a remote endpoint"
	if pd.mainWindow.app.creds != nil && pd.mainWindow.app.creds.Exists(keyring.OllamaTokenKey) {
		tokenDesc = "A token is saved; enter a new one to replace it"
	}
	localCard.Append(pd.createSettingRow("Access Token", tokenDesc, pd.tokenEntry))

	clearBtn := gtk.NewButtonWithLabel("Forget Token")
	clearBtn.AddCSSClass("flat")
	clearBtn.SetHAlign(gtk.AlignEnd)
	clearBtn.SetMarginEnd(16)
	clearBtn.SetMarginBottom(10)
	clearBtn.ConnectClicked(func() {
		pd.clearToken = true
		pd.tokenEntry.SetText("")
		clearBtn.SetSensitive(false)
	})
	localCard.Append(clearBtn)

	localSection.Append(localCard)
	mainBox.Append(localSection)

	scrolled.SetChild(mainBox)
	rootBox.Append(scrolled)

	buttonBar := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBar.SetHAlign(gtk.AlignEnd)
	buttonBar.SetMarginTop(16)
	buttonBar.SetMarginBottom(20)
	buttonBar.SetMarginStart(common.DialogMargin)
	buttonBar.SetMarginEnd(common.DialogMargin)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		pd.window.Close()
	})
	buttonBar.Append(cancelBtn)

	saveBtn := gtk.NewButtonWithLabel("Save")
	saveBtn.AddCSSClass("suggested-action")
	saveBtn.ConnectClicked(func() {
		pd.savePreferences()
		pd.window.Close()
	})
	buttonBar.Append(saveBtn)

	rootBox.Append(buttonBar)

	pd.window.SetChild(rootBox)
}

// createSection creates a section with icon and title.
func (pd *PreferencesDialog) createSection(title string, iconName string) *gtk.Box {
	section := gtk.NewBox(gtk.OrientationVertical, 8)

	// Header with icon
	headerBox := gtk.NewBox(gtk.OrientationHorizontal, 8)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(18)
	icon.AddCSSClass("dim-label")
	headerBox.Append(icon)

	label := gtk.NewLabel(title)
	label.SetXAlign(0)
	label.AddCSSClass("heading")
	label.AddCSSClass("dim-label")
	headerBox.Append(label)

	section.Append(headerBox)

	return section
}

// createCard creates a styled card container for settings.
func (pd *PreferencesDialog) createCard() *gtk.Box {
	card := gtk.NewBox(gtk.OrientationVertical, 0)
	card.AddCSSClass("card")
	card.AddCSSClass("preferences-card")
	return card
}

// createSettingRow creates a row with title, description, and widget.
func (pd *PreferencesDialog) createSettingRow(title string, description string, widget gtk.Widgetter) *gtk.Box {
	row := gtk.NewBox(gtk.OrientationHorizontal, 12)
	row.SetMarginTop(14)
	row.SetMarginBottom(14)
	row.SetMarginStart(16)
	row.SetMarginEnd(16)

	// Text container (title + description)
	textBox := gtk.NewBox(gtk.OrientationVertical, 4)
	textBox.SetHExpand(true)

	titleLabel := gtk.NewLabel(title)
	titleLabel.SetXAlign(0)
	titleLabel.AddCSSClass("settings-title")
	textBox.Append(titleLabel)

	descLabel := gtk.NewLabel(description)
	descLabel.SetXAlign(0)
	descLabel.AddCSSClass("dim-label")
	descLabel.AddCSSClass("caption")
	descLabel.SetWrap(true)
	descLabel.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	textBox.Append(descLabel)

	row.Append(textBox)
	row.Append(widget)

	return row
}

// createSeparator creates a styled separator for cards.
func (pd *PreferencesDialog) createSeparator() *gtk.Separator {
	sep := gtk.NewSeparator(gtk.OrientationHorizontal)
	sep.SetMarginStart(16)
	sep.SetMarginEnd(16)
	return sep
}

// findThemeIndex returns the index of a theme ID, or 0 if not found.
func (pd *PreferencesDialog) findThemeIndex(themeID string) uint {
	for i, id := range pd.themeIDs {
		if id == themeID {
			return uint(i)
		}
	}
	return 0
}

// savePreferences applies and persists the dialog values.
func (pd *PreferencesDialog) savePreferences() {
	app := pd.mainWindow.app

	pd.config.MinimizeToTray = pd.minimizeSwitch.Active()
	pd.config.ShowNotifications = pd.notifySwitch.Active()
	pd.mainWindow.window.SetHideOnClose(pd.config.MinimizeToTray)

	themeIdx := pd.themeDropDown.Selected()
	if int(themeIdx) < len(pd.themeIDs) {
		pd.config.Theme = pd.themeIDs[themeIdx]
		app.ApplyTheme(pd.config.Theme)
	}

	if endpoint := strings.TrimSpace(pd.endpointEntry.Text()); endpoint != "" {
		pd.config.Ollama.Endpoint = endpoint
	}

	if err := pd.saveToken(); err != nil {
		pd.mainWindow.showError("Error", "Could not save token: "+err.Error())
		return
	}

	if err := pd.config.Save(); err != nil {
		pd.mainWindow.showError("Error", "Could not save preferences: "+err.Error())
		return
	}

	pd.mainWindow.SetStatus("Settings saved")
}

// saveToken stores, replaces or forgets the endpoint token and hands it to
// the running client.
func (pd *PreferencesDialog) saveToken() error {
	app := pd.mainWindow.app
	token := strings.TrimSpace(pd.tokenEntry.Text())
	if app.creds == nil || (token == "" && !pd.clearToken) {
		return nil
	}

	if token == "" {
		if err := app.creds.Delete(keyring.OllamaTokenKey); err != nil {
			return err
		}
	} else if err := app.creds.Store(keyring.OllamaTokenKey, token); err != nil {
		return err
	}

	if app.chat != nil {
		app.chat.Client.SetToken(token)
	}
	return nil
}

// Show displays the preferences dialog.
func (pd *PreferencesDialog) Show() {
	pd.window.Show()
}
