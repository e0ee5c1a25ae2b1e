package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/integrators"
	"github.com/san-kum/spherebox/internal/sphere"
)

func drifting(t *testing.T) *sphere.Motion {
	t.Helper()
	m, err := sphere.FromSpheres(sphere.Options{Bounds: sphere.Cube(10)}, []sphere.Sphere{
		{Pos: mgl32.Vec3{0, 0, 0}, Vel: mgl32.Vec3{1, 0, 0}, R: 0.5},
		{Pos: mgl32.Vec3{0, 5, 0}, Vel: mgl32.Vec3{0, 0, -1}, R: 0.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSimulatorRun(t *testing.T) {
	sim := New(drifting(t))

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	last := result.Last()
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}
	if !last.Positions[0].ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("sphere 0 at %v, want [1 0 0]", last.Positions[0])
	}
	if !last.Positions[1].ApproxEqualThreshold(mgl32.Vec3{0, 5, -1}, 1e-5) {
		t.Errorf("sphere 1 at %v, want [0 5 -1]", last.Positions[1])
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	sim := New(drifting(t))

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, RecordEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(result.Frames))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(drifting(t))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidRun) {
				t.Errorf("expected ErrInvalidRun, got %v", err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(drifting(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Step != 0 {
		t.Errorf("expected RunError at step 0, got %v", err)
	}
	if result == nil || len(result.Frames) != 1 {
		t.Error("expected the initial frame in the partial result")
	}
}

type blowUp struct{}

func (blowUp) Accel(integrators.State[mgl32.Vec3], sphere.Box) mgl32.Vec3 {
	return mgl32.Vec3{float32(math.Inf(1)), 0, 0}
}

func TestSimulatorUnstable(t *testing.T) {
	m, err := sphere.FromSpheres(sphere.Options{Bounds: sphere.Cube(10), Integrator: "verlet", Field: blowUp{}},
		[]sphere.Sphere{{R: 1}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(m).Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(m *sphere.Motion, time float64) {
	t.count++
	t.sum += float64(m.Positions()[0].X())
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ times []float64 }

func (o *countingObserver) OnStep(_ *sphere.Motion, t float64) { o.times = append(o.times, t) }

func TestSimulatorMetrics(t *testing.T) {
	sim := New(drifting(t))

	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	// mean of x = 0.1, 0.2, ..., 1.0
	if math.Abs(result.Metrics["test"]-0.55) > 1e-5 {
		t.Errorf("expected mean 0.55, got %f", result.Metrics["test"])
	}
	if len(obs.times) != 10 {
		t.Errorf("observer saw %d steps", len(obs.times))
	}
}
