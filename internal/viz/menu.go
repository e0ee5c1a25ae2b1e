package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/sim"
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Menu picks a preset and then hands over to the live view.
type Menu struct {
	presets []string
	cursor  int
	theme   string
	sound   Sonifier
	live    *Model
	err     error
}

func NewMenu(theme string) Menu {
	return Menu{presets: config.ListPresets(), theme: theme}
}

// WithSound passes s on to the live view.
func (m Menu) WithSound(s Sonifier) Menu {
	m.sound = s
	return m
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg := config.GetPreset(name)
	motion, runCfg, err := sim.FromConfig(cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	live := NewModel(motion, runCfg.Dt, name).WithTheme(m.theme).WithSound(m.sound)
	m.live = &live
	return m, live.Init()
}

func describe(cfg *config.Config) string {
	return fmt.Sprintf("%d spheres, %s, field %s", cfg.Spheres.Count, cfg.Integrator, cfg.Field.Name)
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("SPHEREBOX") + "\n    " + menuSub.Render("spheres in a box") + "\n    " + menuSub.Render("────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := describe(config.Presets[name])
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuSub.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// Run starts a full-screen program with mouse motion reporting.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
