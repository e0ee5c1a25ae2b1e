package sphere

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/integrators"
)

var ErrInvalidOptions = errors.New("sphere: invalid options")

// Options configures a Motion.
type Options struct {
	N      int
	Bounds Box
	Radius float32
	Speed  float32
	Seed   int64

	// Integrator selects how centres advance. The empty name, or "euler"
	// without a Field, is the plain position advance pos += vel*dt.
	Integrator string
	Field      Field

	// RK4 tuning, ignored by the other integrators. Zero keeps the defaults.
	IterCount     int
	MaxIterCount  int
	IterThreshold func(accel mgl32.Vec3) int
}

func (o Options) validateBounds() error {
	for axis := 0; axis < 3; axis++ {
		if !(o.Bounds.Min[axis] < o.Bounds.Max[axis]) {
			return fmt.Errorf("%w: bounds min %v not below max %v", ErrInvalidOptions, o.Bounds.Min, o.Bounds.Max)
		}
	}
	if o.IterCount < 0 || o.MaxIterCount < 0 {
		return fmt.Errorf("%w: negative substep count", ErrInvalidOptions)
	}
	return nil
}

// Motion owns a fixed set of spheres moving inside a box. The number of
// spheres never changes after construction.
//
// A Motion is not safe for concurrent use.
type Motion struct {
	spheres    []Sphere
	initial    []Sphere
	bounds     Box
	steppers   []integrators.Stepper[mgl32.Vec3, Box]
	collisions int
}

// New places opts.N spheres uniformly inside the bounds with random
// directions and speeds in (0, opts.Speed].
func New(opts Options) (*Motion, error) {
	if opts.N < 1 {
		return nil, fmt.Errorf("%w: need at least one sphere, got %d", ErrInvalidOptions, opts.N)
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %f", ErrInvalidOptions, opts.Radius)
	}
	if opts.Speed < 0 {
		return nil, fmt.Errorf("%w: speed must not be negative, got %f", ErrInvalidOptions, opts.Speed)
	}
	if err := opts.validateBounds(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	b := opts.Bounds
	spheres := make([]Sphere, opts.N)
	for i := range spheres {
		var pos, dir mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			pos[axis] = b.Min[axis] + rng.Float32()*(b.Max[axis]-b.Min[axis])
			dir[axis] = float32(rng.NormFloat64())
		}
		if dir.Len() == 0 {
			dir = mgl32.Vec3{1, 0, 0}
		}
		speed := opts.Speed * (1 - rng.Float32())
		spheres[i] = Sphere{Pos: pos, Vel: dir.Normalize().Mul(speed), R: opts.Radius}
	}

	return build(opts, spheres)
}

// FromSpheres builds a Motion over explicit spheres. opts.N, Radius, Speed
// and Seed are ignored.
func FromSpheres(opts Options, spheres []Sphere) (*Motion, error) {
	if len(spheres) == 0 {
		return nil, fmt.Errorf("%w: no spheres", ErrInvalidOptions)
	}
	for i, s := range spheres {
		if s.R <= 0 {
			return nil, fmt.Errorf("%w: sphere %d radius %f", ErrInvalidOptions, i, s.R)
		}
	}
	if err := opts.validateBounds(); err != nil {
		return nil, err
	}

	own := make([]Sphere, len(spheres))
	copy(own, spheres)
	return build(opts, own)
}

func build(opts Options, spheres []Sphere) (*Motion, error) {
	m := &Motion{
		spheres: spheres,
		initial: make([]Sphere, len(spheres)),
		bounds:  opts.Bounds,
	}
	copy(m.initial, spheres)

	if opts.Integrator == "" || (opts.Integrator == "euler" && opts.Field == nil) {
		return m, nil
	}

	var accel integrators.AccelFunc[mgl32.Vec3, Box]
	if opts.Field != nil {
		accel = opts.Field.Accel
	}

	m.steppers = make([]integrators.Stepper[mgl32.Vec3, Box], len(spheres))
	for i := range m.steppers {
		st, err := integrators.New(opts.Integrator, accel)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		if rk, ok := st.(*integrators.RK4[mgl32.Vec3, Box]); ok {
			if opts.IterCount > 0 {
				rk.IterCount = opts.IterCount
			}
			if opts.MaxIterCount > 0 {
				rk.MaxIterCount = opts.MaxIterCount
			}
			rk.IterThreshold = opts.IterThreshold
		}
		m.steppers[i] = st
	}
	return m, nil
}

// Update advances every sphere by dt, reflects them off the box walls and
// then resolves contacts pair by pair in index order. A sphere can be
// moved by several contacts in one update.
func (m *Motion) Update(dt float32) {
	for i := range m.spheres {
		m.advance(i, dt)
	}
	for i := range m.spheres {
		m.bounds.Reflect(&m.spheres[i])
	}

	m.collisions = 0
	n := len(m.spheres)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if Collide(&m.spheres[i], &m.spheres[j]) {
				m.collisions++
			}
		}
	}
}

func (m *Motion) advance(i int, dt float32) {
	s := &m.spheres[i]
	if m.steppers == nil {
		s.Pos = s.Pos.Add(s.Vel.Mul(dt))
		return
	}
	st := integrators.State[mgl32.Vec3]{X: s.Pos, V: s.Vel}
	m.steppers[i].Integrate(&st, m.bounds, dt)
	s.Pos, s.Vel = st.X, st.V
}

// Positions returns the sphere centres in index order.
func (m *Motion) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.spheres))
	for i, s := range m.spheres {
		out[i] = s.Pos
	}
	return out
}

func (m *Motion) Velocities() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.spheres))
	for i, s := range m.spheres {
		out[i] = s.Vel
	}
	return out
}

// Spheres returns a copy of the current spheres.
func (m *Motion) Spheres() []Sphere {
	out := make([]Sphere, len(m.spheres))
	copy(out, m.spheres)
	return out
}

func (m *Motion) Len() int    { return len(m.spheres) }
func (m *Motion) Bounds() Box { return m.bounds }

// CollisionCount is the number of contacts resolved by the last Update.
func (m *Motion) CollisionCount() int { return m.collisions }

// IterCounts returns the current RK4 substep count of each sphere, or nil
// when the spheres are not driven by RK4.
func (m *Motion) IterCounts() []int {
	if m.steppers == nil {
		return nil
	}
	var out []int
	for _, st := range m.steppers {
		rk, ok := st.(*integrators.RK4[mgl32.Vec3, Box])
		if !ok {
			return nil
		}
		out = append(out, rk.IterCount)
	}
	return out
}

// Reset restores the spheres to their construction state and clears any
// adaptive integrator memory.
func (m *Motion) Reset() {
	copy(m.spheres, m.initial)
	m.collisions = 0
	for _, st := range m.steppers {
		if r, ok := st.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}
