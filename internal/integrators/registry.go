package integrators

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var names = []string{"euler", "rk4", "verlet"}

// Names lists the steppers New accepts.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// New returns the named stepper driven by accel. A nil accel means no
// acceleration at all.
func New[T Vector[T], D any](name string, accel AccelFunc[T, D]) (Stepper[T, D], error) {
	switch name {
	case "euler", "":
		return NewEuler[T, D](accel), nil
	case "rk4":
		return NewRK4[T, D](orZero(accel)), nil
	case "verlet":
		return NewVerlet[T, D](orZero(accel)), nil
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownIntegrator, name, Names())
}

func orZero[T Vector[T], D any](accel AccelFunc[T, D]) AccelFunc[T, D] {
	if accel != nil {
		return accel
	}
	return func(State[T], D) T {
		var zero T
		return zero
	}
}
