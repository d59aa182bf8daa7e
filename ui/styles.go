// Package ui provides the graphical user interface for AI Wrapper.
// This file contains the CSS styles for the shell chrome.
package ui

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// appCSS styles the chrome bar, tab strip and local AI panel. The window
// background matches the dark pages of the hosted services.
const appCSS = `
window.shell {
    background-color: #131314;
    color: #e3e3e3;
}

/* Chrome bar */
.chrome-bar {
    background-color: #1e1f20;
    border-bottom: 1px solid alpha(#ffffff, 0.08);
    padding: 0 8px;
}

.mode-button {
    border-radius: 16px;
    padding: 4px 14px;
    font-weight: 500;
    background-color: transparent;
    color: alpha(#e3e3e3, 0.7);
}

.mode-button:hover {
    background-color: alpha(#ffffff, 0.08);
}

.mode-button.active {
    background-color: #8ab4f8;
    color: #131314;
}

/* Tab strip */
.tab {
    border-radius: 8px 8px 0 0;
    padding: 4px 12px;
    background-color: transparent;
    color: alpha(#e3e3e3, 0.7);
}

.tab:hover {
    background-color: alpha(#ffffff, 0.06);
}

.tab.active {
    background-color: #131314;
    color: #ffffff;
    border-bottom: 2px solid #8ab4f8;
}

.tab-icon {
    font-size: 14px;
}

/* Content area */
.session-placeholder {
    opacity: 0.6;
}

.session-url {
    font-family: monospace;
    font-size: 12px;
    opacity: 0.5;
}

/* Local AI panel */
.local-panel {
    background-color: #1e1f20;
    border-left: 1px solid alpha(#ffffff, 0.08);
    padding: 12px;
}

.status-dot {
    min-width: 10px;
    min-height: 10px;
    border-radius: 5px;
    background-color: #757575;
}

.status-dot.installed {
    background-color: #2ec27e;
}

.status-dot.missing {
    background-color: #e01b24;
}

.message {
    border-radius: 12px;
    padding: 8px 12px;
    margin: 4px 0;
}

.message.user {
    background-color: #2d4a7a;
    margin-left: 32px;
}

.message.assistant {
    background-color: #2a2b2d;
    margin-right: 32px;
}

.message.error {
    background-color: alpha(#e01b24, 0.2);
    color: #f66151;
}

.status-bar {
    border-top: 1px solid alpha(#ffffff, 0.08);
    padding: 4px 12px;
    font-size: 12px;
    opacity: 0.8;
}

entry {
    border-radius: 6px;
    min-height: 34px;
}

.preferences-card {
    border-radius: 12px;
}
`

// LoadStyles registers the application CSS on the default display.
func LoadStyles() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(appCSS)

	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}
