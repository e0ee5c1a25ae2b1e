package analysis

import (
	"strings"

	"github.com/san-kum/spherebox/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the trajectory of one sphere along one axis, position
// against velocity.
type PhasePortrait struct {
	Sphere, Axis int
	Points       []Point
}

// NewPhasePortrait reads sphere i's coordinate on axis from frames. It
// returns nil if the sphere or axis does not exist.
func NewPhasePortrait(frames []sim.Frame, i, axis int) *PhasePortrait {
	if axis < 0 || axis > 2 || i < 0 {
		return nil
	}
	portrait := &PhasePortrait{Sphere: i, Axis: axis, Points: make([]Point, 0, len(frames))}
	for _, f := range frames {
		if i >= len(f.Positions) {
			return nil
		}
		portrait.Points = append(portrait.Points, Point{
			X: float64(f.Positions[i][axis]),
			Y: float64(f.Velocities[i][axis]),
		})
	}
	return portrait
}

// ToASCII plots the portrait on a width x height character grid.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}
	return scatter(p.Points, width, height)
}

// PoincareSection holds a sphere's (position, velocity) on a second axis
// each time it crosses a plane on the first one in the positive direction.
type PoincareSection struct {
	Points []Point
}

func NewPoincareSection(frames []sim.Frame, i, crossAxis int, plane float64, recordAxis int) *PoincareSection {
	section := &PoincareSection{}
	if len(frames) == 0 || i < 0 || i >= len(frames[0].Positions) {
		return section
	}

	prev := float64(frames[0].Positions[i][crossAxis])
	for _, f := range frames[1:] {
		curr := float64(f.Positions[i][crossAxis])
		if prev < plane && curr >= plane {
			section.Points = append(section.Points, Point{
				X: float64(f.Positions[i][recordAxis]),
				Y: float64(f.Velocities[i][recordAxis]),
			})
		}
		prev = curr
	}
	return section
}

func (s *PoincareSection) ToASCII(width, height int) string {
	if s == nil || len(s.Points) == 0 {
		return "No crossings detected"
	}
	return scatter(s.Points, width, height)
}

func scatter(points []Point, width, height int) string {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes where they cross the plot
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
