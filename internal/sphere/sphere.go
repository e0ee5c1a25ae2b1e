package sphere

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/integrators"
)

// Sphere is a rigid sphere. R must be positive.
type Sphere struct {
	Pos mgl32.Vec3
	Vel mgl32.Vec3
	R   float32
}

// Box is an axis-aligned bounding volume for sphere centres.
type Box struct {
	Min, Max mgl32.Vec3
}

// Cube returns a box spanning [-half, half] on every axis.
func Cube(half float32) Box {
	return Box{
		Min: mgl32.Vec3{-half, -half, -half},
		Max: mgl32.Vec3{half, half, half},
	}
}

func (b Box) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }
func (b Box) Size() mgl32.Vec3   { return b.Max.Sub(b.Min) }

// Contains reports whether p lies inside the closed box.
func (b Box) Contains(p mgl32.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Reflect clamps s into the box on each axis it has left, negating the
// matching velocity component. Axes are handled independently in x, y, z
// order.
func (b Box) Reflect(s *Sphere) {
	for axis := 0; axis < 3; axis++ {
		if s.Pos[axis] > b.Max[axis] {
			s.Pos[axis] = b.Max[axis]
			s.Vel[axis] = -s.Vel[axis]
		}
		if s.Pos[axis] < b.Min[axis] {
			s.Pos[axis] = b.Min[axis]
			s.Vel[axis] = -s.Vel[axis]
		}
	}
}

// Field is an acceleration acting on a sphere centre.
type Field interface {
	Accel(s integrators.State[mgl32.Vec3], box Box) mgl32.Vec3
}

// reflect mirrors v about the plane with unit normal n.
func reflect(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * n.Dot(v)))
}

// Collide resolves a contact between a and b. The pair is pushed apart to
// unit distance either side of their midpoint along the contact normal and
// both velocities are reflected about the normal and negated. Coincident
// centres have no normal and are left untouched. It reports whether the
// pair was in contact.
func Collide(a, b *Sphere) bool {
	diff := a.Pos.Sub(b.Pos)
	dist := diff.Len()
	if dist >= a.R+b.R || dist == 0 {
		return false
	}

	normal := diff.Mul(1 / dist)
	mid := a.Pos.Add(b.Pos).Mul(0.5)

	a.Pos = mid.Sub(normal)
	b.Pos = mid.Add(normal)
	a.Vel = reflect(a.Vel, normal).Mul(-1)
	b.Vel = reflect(b.Vel, normal).Mul(-1)
	return true
}
