package integrators

// Verlet is a velocity Verlet stepper.
type Verlet[T Vector[T], D any] struct {
	Acceleration AccelFunc[T, D]
}

func NewVerlet[T Vector[T], D any](accel func(State[T], D) T) *Verlet[T, D] {
	return &Verlet[T, D]{Acceleration: accel}
}

func (v *Verlet[T, D]) Integrate(state *State[T], data D, dt float32) {
	acc := v.Acceleration(*state, data)
	halfDt := 0.5 * dt

	x := state.X.Add(state.V.Mul(dt)).Add(acc.Mul(halfDt * dt))
	accNew := v.Acceleration(State[T]{X: x, V: state.V}, data)

	state.X = x
	state.V = state.V.Add(acc.Add(accNew).Mul(halfDt))
}

// Euler is an explicit Euler stepper. Without an acceleration it only
// advances the position.
type Euler[T Vector[T], D any] struct {
	Acceleration AccelFunc[T, D]
}

func NewEuler[T Vector[T], D any](accel func(State[T], D) T) *Euler[T, D] {
	return &Euler[T, D]{Acceleration: accel}
}

func (e *Euler[T, D]) Integrate(state *State[T], data D, dt float32) {
	if e.Acceleration == nil {
		state.X = state.X.Add(state.V.Mul(dt))
		return
	}
	acc := e.Acceleration(*state, data)
	state.X = state.X.Add(state.V.Mul(dt))
	state.V = state.V.Add(acc.Mul(dt))
}
