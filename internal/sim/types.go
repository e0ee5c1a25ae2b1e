package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/sphere"
)

// Metric accumulates a scalar over the ticks of a run. Observe is called
// after every Update.
type Metric interface {
	Name() string
	Observe(m *sphere.Motion, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(m *sphere.Motion, t float64)
}

type Config struct {
	Dt          float64
	Duration    float64
	RecordEvery int
}

func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidRun, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidRun, c.Duration)
	}
	return nil
}

// Frame is a snapshot of every sphere at one instant.
type Frame struct {
	Time       float64
	Positions  []mgl32.Vec3
	Velocities []mgl32.Vec3
	Collisions int
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
}

// Last returns the final recorded frame.
func (r *Result) Last() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
