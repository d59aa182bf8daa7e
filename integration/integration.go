// Package integration installs AI Wrapper into the user's desktop: a menu
// entry and a shell launcher on PATH.
package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yllada/ai-wrapper/common"
)

// Integrator writes desktop files under Home.
type Integrator struct {
	// Home is the user's home directory.
	Home string
	// Executable is the command the entry and launcher run.
	Executable string
}

// New returns an Integrator for the current user and binary.
func New() (*Integrator, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIntegration, err)
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIntegration, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return &Integrator{Home: home, Executable: exe}, nil
}

// DesktopEntryPath is where DesktopEntry writes.
func (i *Integrator) DesktopEntryPath() string {
	return filepath.Join(i.Home, ".local", "share", "applications", common.DesktopFileName)
}

// LauncherPath is where LauncherScript writes.
func (i *Integrator) LauncherPath() string {
	return filepath.Join(i.Home, ".local", "bin", common.LauncherScriptName)
}

// DesktopEntry writes a freedesktop menu entry and returns its path.
func (i *Integrator) DesktopEntry() (string, error) {
	content := strings.Join([]string{
		"[Desktop Entry]",
		"Name=" + common.AppName,
		"Comment=Premium AI Client",
		"Exec=" + quoteExec(i.Executable),
		"Icon=utilities-terminal",
		"Terminal=false",
		"Type=Application",
		"Categories=Utility;Accessory;",
		"StartupWMClass=" + common.AppID,
		"",
	}, "\n")

	path := i.DesktopEntryPath()
	if err := writeFile(path, content, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LauncherScript writes an executable script that starts the app detached
// from the calling terminal, and returns its path.
func (i *Integrator) LauncherScript() (string, error) {
	content := strings.Join([]string{
		"#!/bin/sh",
		quoteShell(i.Executable) + ` "$@" > /dev/null 2>&1 &`,
		"",
	}, "\n")

	path := i.LauncherPath()
	if err := writeFile(path, content, 0755); err != nil {
		return "", err
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0755); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrIntegration, err)
	}
	return path, nil
}

func writeFile(path, content string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIntegration, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIntegration, err)
	}
	return nil
}

// quoteExec quotes an Exec= argument for a freedesktop desktop entry. A %
// becomes %% so it is not read as a field code. The string-value escape
// applies on top of the argument quoting, which doubles every backslash.
func quoteExec(s string) string {
	s = strings.ReplaceAll(s, "%", "%%")
	if strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
		s = `"` + r.Replace(s) + `"`
	}
	return strings.ReplaceAll(s, `\`, `\\`)
}

func quoteShell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
