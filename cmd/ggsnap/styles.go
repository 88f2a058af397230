package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	colorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
)

// swatch はキャラクターのテーマカラーで名前を表示します。
func swatch(name, color string) string {
	if color == "" {
		return name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(name)
}
