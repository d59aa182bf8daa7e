// Package ui provides the graphical user interface for AI Wrapper.
//
// The window is a libadwaita application. Its header bar holds one button
// per mode; below it a tab strip lists the services of the active mode.
// Each service runs in its own browser session, and the session controller
// places the visible one over the content area.
//
// # Components
//
//   - Application: lifecycle, startup of the sessions and the chat stack
//   - MainWindow: chrome bar, content area, dialogs and menu actions
//   - TabStrip: the views.TabsNotifier of the GTK front end
//   - LocalPanel: chat with a local Ollama model
//   - TrayIndicator: modes and tabs in the system tray
//   - BusNotifier: notifications over org.freedesktop.Notifications
//
// # Thread Safety
//
// GTK and the session controller must only be touched from the main loop.
// Work started on other goroutines (browser startup, tray clicks, chat
// replies) hands its result back with glib.IdleAdd:
//
//	go func() {
//	    status := client.CheckStatus()
//	    glib.IdleAdd(func() {
//	        panel.applyStatus(status)
//	    })
//	}()
//
// # File Organization
//
//   - app.go: application lifecycle and session startup
//   - main_window.go: window layout, menu and dialogs
//   - tabs.go: tab strip
//   - local_panel.go: local AI chat panel
//   - tray.go: system tray indicator
//   - icons.go: tray icon generation
//   - styles.go: CSS
//   - notifications.go: desktop notifications
//   - preferences.go: settings dialog
package ui
