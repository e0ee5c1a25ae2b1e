package metrics

import (
	"math"

	"github.com/san-kum/spherebox/internal/sphere"
)

// Mass of a sphere with unit density, up to the constant 4π/3.
func mass(s sphere.Sphere) float64 {
	r := float64(s.R)
	return r * r * r
}

// SphereKinetic is the kinetic energy of one sphere.
func SphereKinetic(s sphere.Sphere) float64 {
	v := float64(s.Vel.Len())
	return 0.5 * mass(s) * v * v
}

// Kinetic is the total kinetic energy of the spheres, with mass r³.
func Kinetic(m *sphere.Motion) float64 {
	total := 0.0
	for _, s := range m.Spheres() {
		total += SphereKinetic(s)
	}
	return total
}

// KineticEnergy is the mean total kinetic energy over the run.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(m *sphere.Motion, t float64) {
	e.totalEnergy += Kinetic(m)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of kinetic energy from the
// first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(m *sphere.Motion, t float64) {
	energy := Kinetic(m)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
