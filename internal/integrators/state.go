package integrators

// Vector is a vector space over float32 scalars. mgl32.Vec2, Vec3 and Vec4
// satisfy it as-is.
type Vector[T any] interface {
	Add(T) T
	Mul(float32) T
}

// Scalar is a one-dimensional Vector.
type Scalar float32

func (s Scalar) Add(o Scalar) Scalar  { return s + o }
func (s Scalar) Mul(c float32) Scalar { return s * Scalar(c) }

// State is a generalized position and velocity pair.
type State[T Vector[T]] struct {
	X, V T
}

// Derivative is the rate of change of a State.
type Derivative[T Vector[T]] struct {
	DX, DV T
}

func (d Derivative[T]) Scale(s float32) Derivative[T] {
	return Derivative[T]{DX: d.DX.Mul(s), DV: d.DV.Mul(s)}
}

// Stepper advances a State in place by dt.
type Stepper[T Vector[T], D any] interface {
	Integrate(state *State[T], data D, dt float32)
}

// AccelFunc returns the acceleration of a state given external data.
type AccelFunc[T Vector[T], D any] func(State[T], D) T
