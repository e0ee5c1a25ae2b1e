package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name   string
	Scene  lipgloss.Color
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Alert  lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "retro",
		Scene:  lipgloss.Color("#00ff00"),
		Header: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#ccffcc"),
		Muted:  lipgloss.Color("#005500"),
		Alert:  lipgloss.Color("#ffff00"),
	},
	{
		Name:   "ocean",
		Scene:  lipgloss.Color("#00a8cc"),
		Header: lipgloss.Color("#ffd700"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#335577"),
		Alert:  lipgloss.Color("#ff4444"),
	},
	{
		Name:   "minimal",
		Scene:  lipgloss.Color("#ffffff"),
		Header: lipgloss.Color("#0088ff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#555555"),
		Alert:  lipgloss.Color("#ffaa00"),
	},
}

// ThemeIndex returns the position of the named theme, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	scene, stats, header, label, value, muted, alert lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		scene:  lipgloss.NewStyle().Foreground(t.Scene).Padding(1, 2),
		stats:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(42),
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(14),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		alert:  lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
	}
}
