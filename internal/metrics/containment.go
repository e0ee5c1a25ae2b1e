package metrics

import (
	"github.com/san-kum/spherebox/internal/sphere"
)

// Containment is the fraction of ticks that ended with every centre inside
// the box. Contacts resolved after the wall pass can push a centre out
// until the next tick.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(m *sphere.Motion, t float64) {
	c.samples++
	box := m.Bounds()
	for _, p := range m.Positions() {
		if !box.Contains(p) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
