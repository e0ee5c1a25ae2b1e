package sphere

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/integrators"
)

type constField mgl32.Vec3

func (c constField) Accel(integrators.State[mgl32.Vec3], Box) mgl32.Vec3 { return mgl32.Vec3(c) }

func mustMotion(t *testing.T, opts Options, spheres ...Sphere) *Motion {
	t.Helper()
	m, err := FromSpheres(opts, spheres)
	if err != nil {
		t.Fatalf("FromSpheres: %v", err)
	}
	return m
}

func TestBoxReflect(t *testing.T) {
	box := Cube(5)

	tests := []struct {
		name    string
		in      Sphere
		wantPos mgl32.Vec3
		wantVel mgl32.Vec3
	}{
		{
			name:    "past max x",
			in:      Sphere{Pos: mgl32.Vec3{5.5, 0, 0}, Vel: mgl32.Vec3{2, 0, 0}, R: 1},
			wantPos: mgl32.Vec3{5, 0, 0},
			wantVel: mgl32.Vec3{-2, 0, 0},
		},
		{
			name:    "past min y",
			in:      Sphere{Pos: mgl32.Vec3{0, -7, 0}, Vel: mgl32.Vec3{1, -3, 1}, R: 1},
			wantPos: mgl32.Vec3{0, -5, 0},
			wantVel: mgl32.Vec3{1, 3, 1},
		},
		{
			name:    "corner on all axes",
			in:      Sphere{Pos: mgl32.Vec3{6, -6, 9}, Vel: mgl32.Vec3{1, -1, 2}, R: 1},
			wantPos: mgl32.Vec3{5, -5, 5},
			wantVel: mgl32.Vec3{-1, 1, -2},
		},
		{
			name:    "inside is untouched",
			in:      Sphere{Pos: mgl32.Vec3{1, 2, 3}, Vel: mgl32.Vec3{4, 5, 6}, R: 1},
			wantPos: mgl32.Vec3{1, 2, 3},
			wantVel: mgl32.Vec3{4, 5, 6},
		},
		{
			name:    "outside moving inward still flips",
			in:      Sphere{Pos: mgl32.Vec3{0, 0, 5.1}, Vel: mgl32.Vec3{0, 0, -1}, R: 1},
			wantPos: mgl32.Vec3{0, 0, 5},
			wantVel: mgl32.Vec3{0, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.in
			box.Reflect(&s)
			if s.Pos != tt.wantPos {
				t.Errorf("pos = %v, want %v", s.Pos, tt.wantPos)
			}
			if s.Vel != tt.wantVel {
				t.Errorf("vel = %v, want %v", s.Vel, tt.wantVel)
			}
		})
	}
}

func TestUpdateReflectsOffWall(t *testing.T) {
	m := mustMotion(t, Options{Bounds: Cube(5)},
		Sphere{Pos: mgl32.Vec3{5.5, 0, 0}, Vel: mgl32.Vec3{2, 0, 0}, R: 1})

	m.Update(0.1)

	s := m.Spheres()[0]
	if s.Pos.X() != 5 {
		t.Errorf("pos.x = %f, want 5", s.Pos.X())
	}
	if s.Vel.X() != -2 {
		t.Errorf("vel.x = %f, want -2", s.Vel.X())
	}
}

func TestCollideHeadOn(t *testing.T) {
	a := Sphere{Pos: mgl32.Vec3{0, 0, 0}, Vel: mgl32.Vec3{1, 0, 0}, R: 1}
	b := Sphere{Pos: mgl32.Vec3{1, 0, 0}, Vel: mgl32.Vec3{-1, 0, 0}, R: 1}

	if !Collide(&a, &b) {
		t.Fatal("expected contact")
	}

	// normal points from b to a: (-1, 0, 0), midpoint (0.5, 0, 0)
	if a.Pos != (mgl32.Vec3{1.5, 0, 0}) {
		t.Errorf("a.Pos = %v", a.Pos)
	}
	if b.Pos != (mgl32.Vec3{-0.5, 0, 0}) {
		t.Errorf("b.Pos = %v", b.Pos)
	}
	// reflect then negate keeps the normal component
	if a.Vel != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("a.Vel = %v", a.Vel)
	}
	if b.Vel != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("b.Vel = %v", b.Vel)
	}
}

func TestCollideFlipsTangential(t *testing.T) {
	a := Sphere{Pos: mgl32.Vec3{0, 0, 0}, Vel: mgl32.Vec3{1, 1, 0}, R: 1}
	b := Sphere{Pos: mgl32.Vec3{1.5, 0, 0}, Vel: mgl32.Vec3{0, 0, 2}, R: 1}

	Collide(&a, &b)

	if !a.Vel.ApproxEqual(mgl32.Vec3{1, -1, 0}) {
		t.Errorf("a.Vel = %v, want [1 -1 0]", a.Vel)
	}
	if !b.Vel.ApproxEqual(mgl32.Vec3{0, 0, -2}) {
		t.Errorf("b.Vel = %v, want [0 0 -2]", b.Vel)
	}
}

func TestCollideSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl32.Vec3
		r    float32
	}{
		{"shallow", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1.9, 0, 0}, 1},
		{"deep", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.01, 0.02, 0}, 1},
		{"diagonal", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1.5, 1.5, 1.5}, 0.5},
		{"large radius", mgl32.Vec3{-2, 3, 0}, mgl32.Vec3{2, 3, 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Sphere{Pos: tt.a, R: tt.r}
			b := Sphere{Pos: tt.b, R: tt.r}
			if !Collide(&a, &b) {
				t.Fatal("expected contact")
			}
			dist := a.Pos.Sub(b.Pos).Len()
			if math.Abs(float64(dist-2)) > 1e-5 {
				t.Errorf("separation = %f, want 2", dist)
			}
			mid := tt.a.Add(tt.b).Mul(0.5)
			if !a.Pos.Add(b.Pos).Mul(0.5).ApproxEqualThreshold(mid, 1e-5) {
				t.Errorf("midpoint moved")
			}
		})
	}
}

func TestCollideNoContact(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl32.Vec3
	}{
		{"apart", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2.5, 0, 0}},
		{"touching", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 2, 0}},
		{"coincident", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Sphere{Pos: tt.a, Vel: mgl32.Vec3{1, 0, 0}, R: 1}
			b := Sphere{Pos: tt.b, Vel: mgl32.Vec3{0, 1, 0}, R: 1}
			if Collide(&a, &b) {
				t.Fatal("unexpected contact")
			}
			if a.Pos != tt.a || b.Pos != tt.b {
				t.Error("positions changed")
			}
			if a.Vel != (mgl32.Vec3{1, 0, 0}) || b.Vel != (mgl32.Vec3{0, 1, 0}) {
				t.Error("velocities changed")
			}
		})
	}
}

func TestUpdateSequentialContacts(t *testing.T) {
	m := mustMotion(t, Options{Bounds: Cube(10)},
		Sphere{Pos: mgl32.Vec3{0, 0, 0}, R: 1},
		Sphere{Pos: mgl32.Vec3{1, 0, 0}, R: 1},
		Sphere{Pos: mgl32.Vec3{2, 0, 0}, R: 1},
	)

	m.Update(0)

	if m.CollisionCount() != 3 {
		t.Errorf("collisions = %d, want 3", m.CollisionCount())
	}
	want := []mgl32.Vec3{{2.75, 0, 0}, {1.125, 0, 0}, {-0.875, 0, 0}}
	for i, p := range m.Positions() {
		if !p.ApproxEqualThreshold(want[i], 1e-5) {
			t.Errorf("sphere %d at %v, want %v", i, p, want[i])
		}
	}
}

func TestUpdateSingleSphereStaysInside(t *testing.T) {
	box := Box{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{4, 2, 1}}
	m, err := New(Options{N: 1, Bounds: box, Radius: 0.5, Speed: 20, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		m.Update(0.05)
		if p := m.Positions()[0]; !box.Contains(p) {
			t.Fatalf("step %d: %v escaped %v", i, p, box)
		}
	}
}

func TestNewDeterministic(t *testing.T) {
	opts := Options{N: 8, Bounds: Cube(5), Radius: 0.5, Speed: 3, Seed: 42}
	m1, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	m2, _ := New(opts)

	if m1.Len() != 8 {
		t.Fatalf("len = %d, want 8", m1.Len())
	}
	for i, s := range m1.Spheres() {
		if s != m2.Spheres()[i] {
			t.Errorf("sphere %d differs between runs with equal seeds", i)
		}
		if !opts.Bounds.Contains(s.Pos) {
			t.Errorf("sphere %d at %v outside bounds", i, s.Pos)
		}
		speed := s.Vel.Len()
		if speed <= 0 || speed > opts.Speed+1e-5 {
			t.Errorf("sphere %d speed %f outside (0, %f]", i, speed, opts.Speed)
		}
		if s.R != 0.5 {
			t.Errorf("sphere %d radius %f", i, s.R)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no spheres", Options{N: 0, Bounds: Cube(5), Radius: 1}},
		{"zero radius", Options{N: 2, Bounds: Cube(5), Radius: 0}},
		{"negative speed", Options{N: 2, Bounds: Cube(5), Radius: 1, Speed: -1}},
		{"flat box", Options{N: 2, Bounds: Box{Max: mgl32.Vec3{1, 0, 1}}, Radius: 1}},
		{"unknown integrator", Options{N: 2, Bounds: Cube(5), Radius: 1, Integrator: "leapfrog"}},
		{"negative iter count", Options{N: 2, Bounds: Cube(5), Radius: 1, IterCount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestPositionsIsACopy(t *testing.T) {
	m := mustMotion(t, Options{Bounds: Cube(5)}, Sphere{Pos: mgl32.Vec3{1, 1, 1}, R: 1})

	p := m.Positions()
	p[0] = mgl32.Vec3{9, 9, 9}

	if m.Positions()[0] != (mgl32.Vec3{1, 1, 1}) {
		t.Error("Positions exposed internal storage")
	}
}

func TestReset(t *testing.T) {
	m, err := New(Options{N: 4, Bounds: Cube(5), Radius: 1, Speed: 5, Seed: 3, Integrator: "rk4",
		Field:         constField{0, -1, 0},
		IterThreshold: func(mgl32.Vec3) int { return 6 },
	})
	if err != nil {
		t.Fatal(err)
	}
	start := m.Spheres()

	for i := 0; i < 50; i++ {
		m.Update(0.02)
	}
	m.Reset()

	for i, s := range m.Spheres() {
		if s != start[i] {
			t.Errorf("sphere %d not restored", i)
		}
	}
	for i, n := range m.IterCounts() {
		if n != 1 {
			t.Errorf("sphere %d iterCount = %d after reset", i, n)
		}
	}
}

func TestRK4ModeMatchesFreeFall(t *testing.T) {
	g := constField{0, -9.81, 0}
	m := mustMotion(t, Options{Bounds: Cube(100), Integrator: "rk4", Field: g, IterCount: 3},
		Sphere{Pos: mgl32.Vec3{0, 50, 0}, Vel: mgl32.Vec3{1, 0, 0}, R: 1})

	for i := 0; i < 10; i++ {
		m.Update(0.1)
	}

	want := mgl32.Vec3{1, 50 - 0.5*9.81, 0}
	if p := m.Positions()[0]; !p.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("position = %v, want %v", p, want)
	}
	if counts := m.IterCounts(); len(counts) != 1 || counts[0] != 3 {
		t.Errorf("iterCounts = %v, want [3]", counts)
	}
}

func TestIterCountsOnlyForRK4(t *testing.T) {
	for _, name := range []string{"", "euler", "verlet"} {
		m := mustMotion(t, Options{Bounds: Cube(5), Integrator: name, Field: constField{}},
			Sphere{R: 1})
		if m.IterCounts() != nil {
			t.Errorf("%q: expected nil iterCounts", name)
		}
	}
}
