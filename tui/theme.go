package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	Title      lipgloss.Style
	Mode       lipgloss.Style
	ActiveMode lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Muted      lipgloss.Style
	User       lipgloss.Style
	Assistant  lipgloss.Style
	Error      lipgloss.Style
	Panel      lipgloss.Style
}

func defaultTheme() theme {
	accent := lipgloss.Color("#8AB4F8")
	muted := lipgloss.Color("#7D7D7D")
	background := lipgloss.Color("#131314")

	return theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Mode: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(muted),
		ActiveMode: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(background).
			Background(accent),
		Tab: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(muted),
		ActiveTab: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Underline(true).
			Foreground(accent),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		User: lipgloss.NewStyle().
			Foreground(accent),
		Assistant: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0055")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
	}
}
