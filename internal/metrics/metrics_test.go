package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/sim"
	"github.com/san-kum/spherebox/internal/sphere"
)

func motion(t *testing.T, opts sphere.Options, spheres ...sphere.Sphere) *sphere.Motion {
	t.Helper()
	m, err := sphere.FromSpheres(opts, spheres)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestKineticEnergy(t *testing.T) {
	m := motion(t, sphere.Options{Bounds: sphere.Cube(5)},
		sphere.Sphere{Vel: mgl32.Vec3{3, 4, 0}, R: 1},
		sphere.Sphere{Pos: mgl32.Vec3{3, 3, 3}, Vel: mgl32.Vec3{0, 0, 1}, R: 2},
	)
	ke := NewKineticEnergy()

	ke.Observe(m, 0)

	// 0.5*1*25 + 0.5*8*1
	if math.Abs(ke.Value()-16.5) > 1e-6 {
		t.Errorf("kinetic energy = %f, want 16.5", ke.Value())
	}

	ke.Reset()
	if ke.Value() != 0 {
		t.Error("reset did not clear")
	}
}

func TestEnergyConservedByBounces(t *testing.T) {
	m, err := sphere.New(sphere.Options{N: 10, Bounds: sphere.Cube(3), Radius: 0.5, Speed: 4, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New(m)
	s.AddMetric(NewEnergyDrift())
	s.AddMetric(NewCollisions())

	result, err := s.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 5})
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics["collisions"] == 0 {
		t.Fatal("expected some contacts in a crowded box")
	}
	if drift := result.Metrics["energy_drift"]; drift > 1e-4 {
		t.Errorf("energy drift %g, walls and contacts should preserve speed", drift)
	}
}

func TestContainment(t *testing.T) {
	inside := motion(t, sphere.Options{Bounds: sphere.Cube(5)}, sphere.Sphere{R: 1})
	pushed := motion(t, sphere.Options{Bounds: sphere.Cube(5)},
		sphere.Sphere{Pos: mgl32.Vec3{5, 0, 0}, R: 1},
		sphere.Sphere{Pos: mgl32.Vec3{4.5, 0, 0}, R: 1},
	)
	pushed.Update(0)

	c := NewContainment()
	if c.Value() != 1 {
		t.Errorf("empty containment = %f, want 1", c.Value())
	}

	c.Observe(inside, 0)
	c.Observe(inside, 0)
	c.Observe(pushed, 0)
	c.Observe(inside, 0)

	if math.Abs(c.Value()-0.75) > 1e-9 {
		t.Errorf("containment = %f, want 0.75", c.Value())
	}
}

func TestMaxSpeed(t *testing.T) {
	m := motion(t, sphere.Options{Bounds: sphere.Cube(5)},
		sphere.Sphere{Vel: mgl32.Vec3{1, 0, 0}, R: 1},
		sphere.Sphere{Pos: mgl32.Vec3{3, 3, 3}, Vel: mgl32.Vec3{0, -6, 8}, R: 1},
	)
	s := NewMaxSpeed()
	s.Observe(m, 0)

	if math.Abs(s.Value()-10) > 1e-5 {
		t.Errorf("max speed = %f, want 10", s.Value())
	}
}

func TestPeakIterCount(t *testing.T) {
	plain := motion(t, sphere.Options{Bounds: sphere.Cube(5)}, sphere.Sphere{R: 1})
	rk := motion(t, sphere.Options{Bounds: sphere.Cube(5), Integrator: "rk4", IterCount: 4}, sphere.Sphere{R: 1})

	p := NewPeakIterCount()
	p.Observe(plain, 0)
	if p.Value() != 0 {
		t.Errorf("peak = %f without rk4", p.Value())
	}
	p.Observe(rk, 0)
	if p.Value() != 4 {
		t.Errorf("peak = %f, want 4", p.Value())
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
