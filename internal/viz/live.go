package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spherebox/internal/metrics"
	"github.com/san-kum/spherebox/internal/sphere"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300
	frameInterval   = time.Second / 60

	// radians of rotation per terminal cell dragged
	dragSensitivity = 0.05
	keyRotation     = 0.1
)

type TickMsg time.Time

// Sonifier receives the state of every step, for audio feedback.
type Sonifier interface {
	Update(energy float64, contacts int)
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the Bubble Tea model of the live view. Every tick advances the
// motion by dt (times the speed multiplier) and redraws it.
type Model struct {
	motion     *sphere.Motion
	title      string
	dt         float32
	speed      int
	t          float64
	running    bool
	canvas     *Canvas
	camera     *Camera
	theme      int
	showHelp   bool
	dragging   bool
	lastX      int
	lastY      int
	collisions int
	energy     []float64
	sound      Sonifier
}

func NewModel(motion *sphere.Motion, dt float64, title string) Model {
	box := motion.Bounds()
	size := box.Size()
	extent := max(size.X(), size.Y(), size.Z()) / 2

	return Model{
		motion:  motion,
		title:   title,
		dt:      float32(dt),
		speed:   1,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(box.Center(), extent),
		energy:  make([]float64, 0, historyCapacity),
	}
}

// WithTheme returns m using the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = ThemeIndex(name)
	return m
}

// WithSound returns m reporting every step to s.
func (m Model) WithSound(s Sonifier) Model {
	m.sound = s
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "s":
			if !m.running {
				m.step()
			}
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "left", "h":
			m.camera.Rotate(-keyRotation, 0)
		case "right", "l":
			m.camera.Rotate(keyRotation, 0)
		case "up", "k":
			m.camera.Rotate(0, -keyRotation)
		case "down", "j":
			m.camera.Rotate(0, keyRotation)
		case "]":
			m.speed = min(m.speed*2, 32)
		case "[":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			for i := 0; i < m.speed; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

// mouse turns left-button drags into camera yaw and pitch, and the wheel
// into zoom.
func (m *Model) mouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.camera.ZoomIn()
	case msg.Button == tea.MouseButtonWheelDown:
		m.camera.ZoomOut()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.lastX, m.lastY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		m.camera.Rotate(float32(dx)*dragSensitivity, float32(dy)*dragSensitivity)
		m.lastX, m.lastY = msg.X, msg.Y
	}
}

func (m *Model) step() {
	m.motion.Update(m.dt)
	m.t += float64(m.dt)
	m.collisions += m.motion.CollisionCount()

	e := metrics.Kinetic(m.motion)
	m.energy = append(m.energy, e)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	if m.sound != nil {
		m.sound.Update(e, m.motion.CollisionCount())
	}
}

func (m *Model) reset() {
	m.motion.Reset()
	m.t = 0
	m.collisions = 0
	m.energy = m.energy[:0]
}

func (m Model) View() string {
	st := Themes[m.theme].styles()

	m.canvas.Clear()
	DrawScene(m.canvas, m.camera, m.motion.Bounds(), m.motion.Spheres())
	sceneView := st.scene.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(st.alert.Render(status) + st.muted.Render(fmt.Sprintf("  x%d", m.speed)) + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.value.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Spheres", fmt.Sprintf("%d", m.motion.Len()))
	row("Contacts", fmt.Sprintf("%d (total %d)", m.motion.CollisionCount(), m.collisions))
	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.3f", m.energy[len(m.energy)-1]))
	}
	if counts := m.motion.IterCounts(); counts != nil {
		peak := 0
		for _, n := range counts {
			peak = max(peak, n)
		}
		row("RK4 substeps", fmt.Sprintf("%d", peak))
	}
	row("Camera", fmt.Sprintf("yaw %.2f pitch %.2f", m.camera.Yaw, m.camera.Pitch))

	s.WriteString(st.muted.Render("\n──────────────────────\nSP:Pause R:Reset Q:Quit\ndrag/arrows:Rotate ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, sceneView, st.stats.Render(s.String()))

	if m.showHelp {
		return st.value.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space       pause / resume
  S           single step while paused
  R           reset to the initial spheres
  Mouse drag  rotate the camera
  Arrows/hjkl rotate the camera
  + / -       zoom (or mouse wheel)
  [ / ]       slower / faster
  T           cycle themes
  Q           quit`
