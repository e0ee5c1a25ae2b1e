package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func springAccel(s State[mgl32.Vec3], k float32) mgl32.Vec3 {
	return s.X.Mul(-k)
}

func benchStepper(b *testing.B, st Stepper[mgl32.Vec3, float32]) {
	s := State[mgl32.Vec3]{X: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 1, 0}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.Integrate(&s, 1, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchStepper(b, NewEuler(springAccel))
}

func BenchmarkRK4(b *testing.B) {
	benchStepper(b, NewRK4(springAccel))
}

func BenchmarkRK4_Substeps16(b *testing.B) {
	integ := NewRK4(springAccel)
	integ.IterCount = 16
	benchStepper(b, integ)
}

func BenchmarkRK4_Adaptive(b *testing.B) {
	integ := NewRK4(springAccel)
	integ.IterThreshold = func(a mgl32.Vec3) int { return int(a.Len()*8) + 1 }
	benchStepper(b, integ)
}

func BenchmarkVerlet(b *testing.B) {
	benchStepper(b, NewVerlet(springAccel))
}
