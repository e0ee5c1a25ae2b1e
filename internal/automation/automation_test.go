package automation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/metrics"
	"github.com/san-kum/spherebox/internal/sim"
)

var quiet = slog.New(slog.DiscardHandler)

const scenarioYAML = `
name: drag comparison
description: the same spheres with and without drag
steps:
  - name: free
    seed: 3
    set:
      spheres: 4
      duration: 0.2
  - name: damped
    field: drag
    integrator: rk4
    seed: 3
    set:
      spheres: 4
      duration: 0.2
      drag: 0.5
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "drag comparison" || len(sc.Steps) != 2 {
		t.Fatalf("scenario = %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc, metrics.Default, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	damped := results[1]
	if damped.Config.Field.Params["drag"] != 0.5 || damped.Config.Integrator != "rk4" {
		t.Errorf("step config = %+v", damped.Config)
	}
	if !damped.Step.Save || results[0].Step.Save {
		t.Error("save flags not carried")
	}

	free, drag := results[0].Result.Metrics["kinetic_energy"], damped.Result.Metrics["kinetic_energy"]
	if !(drag < free) {
		t.Errorf("drag kinetic energy %f not below free %f", drag, free)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected an error for a scenario without steps")
	}
}

func TestScenarioStepErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Preset: "nope"}},
		{"unknown field", ScenarioStep{Field: "magnetism"}},
		{"bad setting", ScenarioStep{Set: map[string]float64{"dt": -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.step.Config(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSweepValues(t *testing.T) {
	vals, err := Sweep{Param: "drag", Min: 0, Max: 1, NumSteps: 5}.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("values = %v, want %v", vals, want)
			break
		}
	}

	if _, err := (Sweep{Param: "drag", NumSteps: 1}).Values(); !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("err = %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Spheres.Count = 2
	base.Duration = 0.1
	base.Seed = 1

	points, err := RunSweep(context.Background(), base, Sweep{Param: "spheres", Min: 1, Max: 3, NumSteps: 3},
		func() []sim.Metric { return []sim.Metric{metrics.NewCollisions()} }, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 || points[2].Value != 3 {
		t.Fatalf("points = %+v", points)
	}
	if points[0].Metrics["collisions"] != 0 {
		t.Errorf("one sphere collided: %v", points[0].Metrics)
	}
	if base.Spheres.Count != 2 {
		t.Error("sweep modified the base config")
	}
}
