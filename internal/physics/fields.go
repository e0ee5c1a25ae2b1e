package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/integrators"
	"github.com/san-kum/spherebox/internal/sphere"
)

const (
	DefaultGravity   = 9.81
	DefaultSpringK   = 2.0
	DefaultDragCoeff = 0.1
)

// Configurable fields expose their coefficients by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// None applies no acceleration.
type None struct{}

func (None) Accel(integrators.State[mgl32.Vec3], sphere.Box) mgl32.Vec3 { return mgl32.Vec3{} }

// Gravity pulls along -Y with magnitude G.
type Gravity struct {
	G float32
}

func NewGravity() *Gravity { return &Gravity{G: DefaultGravity} }

func (g *Gravity) Accel(integrators.State[mgl32.Vec3], sphere.Box) mgl32.Vec3 {
	return mgl32.Vec3{0, -g.G, 0}
}

func (g *Gravity) GetParams() map[string]float64 {
	return map[string]float64{"gravity": float64(g.G)}
}

func (g *Gravity) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		g.G = float32(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// Spring is a Hooke pull towards the centre of the box.
type Spring struct {
	K float32
}

func NewSpring() *Spring { return &Spring{K: DefaultSpringK} }

func (s *Spring) Accel(st integrators.State[mgl32.Vec3], box sphere.Box) mgl32.Vec3 {
	return box.Center().Sub(st.X).Mul(s.K)
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{"stiffness": float64(s.K)}
}

func (s *Spring) SetParam(name string, value float64) error {
	switch name {
	case "stiffness":
		s.K = float32(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// Drag is linear in velocity.
type Drag struct {
	K float32
}

func NewDrag() *Drag { return &Drag{K: DefaultDragCoeff} }

func (d *Drag) Accel(st integrators.State[mgl32.Vec3], _ sphere.Box) mgl32.Vec3 {
	return st.V.Mul(-d.K)
}

func (d *Drag) GetParams() map[string]float64 {
	return map[string]float64{"drag": float64(d.K)}
}

func (d *Drag) SetParam(name string, value float64) error {
	switch name {
	case "drag":
		d.K = float32(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// Sum adds the accelerations of its fields.
type Sum []sphere.Field

func (s Sum) Accel(st integrators.State[mgl32.Vec3], box sphere.Box) mgl32.Vec3 {
	var a mgl32.Vec3
	for _, f := range s {
		a = a.Add(f.Accel(st, box))
	}
	return a
}

func (s Sum) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for _, f := range s {
		if c, ok := f.(Configurable); ok {
			for k, v := range c.GetParams() {
				out[k] = v
			}
		}
	}
	return out
}

// SetParam sets name on every member that has it.
func (s Sum) SetParam(name string, value float64) error {
	found := false
	for _, f := range s {
		c, ok := f.(Configurable)
		if !ok {
			continue
		}
		if _, has := c.GetParams()[name]; has {
			if err := c.SetParam(name, value); err != nil {
				return err
			}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}
