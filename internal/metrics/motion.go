package metrics

import (
	"github.com/san-kum/spherebox/internal/sim"
	"github.com/san-kum/spherebox/internal/sphere"
)

// Collisions counts contacts over the run.
type Collisions struct {
	total int
}

func NewCollisions() *Collisions { return &Collisions{} }

func (c *Collisions) Name() string                        { return "collisions" }
func (c *Collisions) Observe(m *sphere.Motion, _ float64) { c.total += m.CollisionCount() }
func (c *Collisions) Value() float64                      { return float64(c.total) }
func (c *Collisions) Reset()                              { c.total = 0 }

// MaxSpeed is the largest sphere speed seen.
type MaxSpeed struct {
	max float32
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (s *MaxSpeed) Name() string { return "max_speed" }

func (s *MaxSpeed) Observe(m *sphere.Motion, _ float64) {
	for _, v := range m.Velocities() {
		s.max = max(s.max, v.Len())
	}
}

func (s *MaxSpeed) Value() float64 { return float64(s.max) }
func (s *MaxSpeed) Reset()         { s.max = 0 }

// PeakIterCount is the largest RK4 substep count any sphere reached. It
// stays zero for other integrators.
type PeakIterCount struct {
	peak int
}

func NewPeakIterCount() *PeakIterCount { return &PeakIterCount{} }

func (p *PeakIterCount) Name() string { return "peak_iter_count" }

func (p *PeakIterCount) Observe(m *sphere.Motion, _ float64) {
	for _, n := range m.IterCounts() {
		p.peak = max(p.peak, n)
	}
}

func (p *PeakIterCount) Value() float64 { return float64(p.peak) }
func (p *PeakIterCount) Reset()         { p.peak = 0 }

// Default returns a fresh set of the standard run metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewCollisions(),
		NewContainment(),
		NewMaxSpeed(),
		NewPeakIterCount(),
	}
}
