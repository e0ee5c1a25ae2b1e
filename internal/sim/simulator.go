package sim

import (
	"context"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/logging"
	"github.com/san-kum/spherebox/internal/sphere"
)

type Simulator struct {
	motion    *sphere.Motion
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(motion *sphere.Motion) *Simulator {
	return &Simulator{
		motion:    motion,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Motion() *sphere.Motion { return s.motion }

// Run ticks the motion for cfg.Steps() updates. On cancellation or
// instability the partial result is returned together with a *RunError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := cfg.Steps()
	result := &Result{
		Frames:  make([]Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dt := float32(cfg.Dt)
	t := 0.0
	result.Frames = append(result.Frames, s.frame(t))

	s.logger.Info("run started", "spheres", s.motion.Len(), "steps", steps, "dt", cfg.Dt)

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = &RunError{Step: i, Time: t, Wrapped: ctx.Err()}
		default:
		}
		if runErr != nil {
			break
		}

		s.motion.Update(dt)
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++
		result.Collisions += s.motion.CollisionCount()

		if !finite(s.motion.Positions()) {
			runErr = &RunError{Step: i, Time: t, Wrapped: ErrUnstable}
			break
		}

		for _, m := range s.metrics {
			m.Observe(s.motion, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.motion, t)
		}

		if (i+1)%every == 0 {
			result.Frames = append(result.Frames, s.frame(t))
		}
		s.logger.Log(ctx, logging.LevelTrace, "tick", "step", i, "t", t, "collisions", s.motion.CollisionCount())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.logger.Warn("run stopped", "err", runErr, "steps", result.StepsTaken)
		return result, runErr
	}
	s.logger.Info("run complete", "steps", result.StepsTaken, "collisions", result.Collisions, "frames", len(result.Frames))
	return result, nil
}

func (s *Simulator) frame(t float64) Frame {
	return Frame{
		Time:       t,
		Positions:  s.motion.Positions(),
		Velocities: s.motion.Velocities(),
		Collisions: s.motion.CollisionCount(),
	}
}

func finite(ps []mgl32.Vec3) bool {
	for _, p := range ps {
		for _, c := range p {
			f := float64(c)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}
