// Package common provides shared constants, types, and utilities
// used across the AI Wrapper application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "com.aiwrapper.app"
	// AppName is the display name of the application.
	AppName = "AI Wrapper"
	// BinaryName is the name of the installed executable.
	BinaryName = "ai-wrapper"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "ai-wrapper"
)

// File names used by the application.
const (
	ConfigFileName      = "config.yaml"
	CredentialsFileName = ".credentials"
	HistoryFileName     = "chat-history.db"
	LogFileName         = "ai-wrapper.log"
	DesktopFileName     = "ai-wrapper.desktop"
	LauncherScriptName  = "ai-wrapper-launch"
)

// Layout of the shell window.
const (
	// ChromeHeight is the vertical space reserved for the mode and tab bar.
	ChromeHeight = 50
	// DefaultWindowWidth is the default main window width.
	DefaultWindowWidth = 1200
	// DefaultWindowHeight is the default main window height.
	DefaultWindowHeight = 800
	// MinWindowWidth is the minimum window width.
	MinWindowWidth = 480
	// MinWindowHeight is the minimum window height.
	MinWindowHeight = 320
	// DialogMargin is the standard margin for dialog content.
	DialogMargin = 24
	// LocalPanelWidth is the width of the local AI side panel.
	LocalPanelWidth = 340
	// TrayIconSize is the size of the system tray icon.
	TrayIconSize = 22
)

// Local model defaults.
const (
	// DefaultOllamaEndpoint is where a local Ollama daemon listens.
	DefaultOllamaEndpoint = "http://localhost:11434"
	// DefaultOllamaModel is preselected in the model picker.
	DefaultOllamaModel = "llama3"
	// OllamaInstallScript is piped to sh by the installer.
	OllamaInstallScript = "https://ollama.com/install.sh"
	// ChatTimeout bounds a single non-streaming generate call.
	ChatTimeout = 120 * time.Second
	// InstallTimeout bounds the Ollama install script.
	InstallTimeout = 10 * time.Minute
	// StatusCheckDelay is how long after startup the panel probes Ollama.
	StatusCheckDelay = 1 * time.Second
)

// Browser defaults.
const (
	// NavigationTimeout bounds the initial load of a session page.
	NavigationTimeout = 45 * time.Second
	// SurfaceQueueSize is the number of pending operations per session.
	SurfaceQueueSize = 32
)

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)
