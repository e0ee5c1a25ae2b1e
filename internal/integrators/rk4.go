package integrators

// DefaultMaxIterCount bounds the adaptive substep count.
const DefaultMaxIterCount = 100

// RK4 is a fourth-order Runge-Kutta stepper with an adaptive substep count.
//
// Each Integrate call splits the step into IterCount substeps. Every substep
// samples the four stages with derivatives prescaled by 1/IterCount and then
// applies the averaged derivative over the full dt. The last stage of a
// substep seeds the first stage of the next one. IterCount persists between
// calls; use Reset for reproducible runs.
//
// An RK4 is not safe for concurrent use.
type RK4[T Vector[T], D any] struct {
	// Acceleration is required.
	Acceleration AccelFunc[T, D]
	// IterThreshold maps the current acceleration to a wanted substep count.
	// When nil the substep count never changes.
	IterThreshold func(T) int
	// OnEvaluate observes the state at the start of every substep.
	OnEvaluate func(State[T])

	IterCount    int
	MaxIterCount int
}

func NewRK4[T Vector[T], D any](accel func(State[T], D) T) *RK4[T, D] {
	return &RK4[T, D]{
		Acceleration: accel,
		IterCount:    1,
		MaxIterCount: DefaultMaxIterCount,
	}
}

// Reset drops the adaptive memory.
func (r *RK4[T, D]) Reset() {
	r.IterCount = 1
}

func (r *RK4[T, D]) evaluate(initial State[T], d Derivative[T], data D, dt float32) Derivative[T] {
	state := State[T]{
		X: initial.X.Add(d.DX.Mul(dt)),
		V: initial.V.Add(d.DV.Mul(dt)),
	}
	return Derivative[T]{DX: state.V, DV: r.Acceleration(state, data)}
}

// adapt updates IterCount from the heuristic. Exceeding MaxIterCount is
// treated as a runaway state: the count is clamped and the velocity zeroed.
func (r *RK4[T, D]) adapt(state *State[T], data D) {
	next := r.IterThreshold(r.Acceleration(*state, data))
	if next >= r.IterCount {
		r.IterCount = next
	} else {
		r.IterCount /= 2
	}

	if r.IterCount > r.MaxIterCount {
		r.IterCount = r.MaxIterCount
		var zero T
		state.V = zero
	}
	if r.IterCount < 1 {
		r.IterCount = 1
	}
}

func (r *RK4[T, D]) Integrate(state *State[T], data D, dt float32) {
	if r.IterThreshold != nil {
		r.adapt(state, data)
	}
	// zero-value RK4 without a heuristic
	if r.IterCount < 1 {
		r.IterCount = 1
	}

	inter := 1 / float32(r.IterCount)
	halfDt := dt * 0.5

	var init Derivative[T]
	for i := 0; i < r.IterCount; i++ {
		if r.OnEvaluate != nil {
			r.OnEvaluate(*state)
		}

		a := r.evaluate(*state, init, data, 0).Scale(inter)
		b := r.evaluate(*state, a, data, halfDt).Scale(inter)
		c := r.evaluate(*state, b, data, halfDt).Scale(inter)
		d := r.evaluate(*state, c, data, dt).Scale(inter)
		init = d

		dxdt := a.DX.Add(b.DX.Add(c.DX).Mul(2)).Add(d.DX).Mul(1.0 / 6.0)
		dvdt := a.DV.Add(b.DV.Add(c.DV).Mul(2)).Add(d.DV).Mul(1.0 / 6.0)

		state.X = state.X.Add(dxdt.Mul(dt))
		state.V = state.V.Add(dvdt.Mul(dt))
	}
}
