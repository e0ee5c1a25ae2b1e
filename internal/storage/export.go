package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

type ExportData struct {
	ID         string             `json:"id"`
	Integrator string             `json:"integrator"`
	Field      string             `json:"field"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Positions  [][][3]float32     `json:"positions"`
	Velocities [][][3]float32     `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

func vecs(vs []mgl32.Vec3) [][3]float32 {
	out := make([][3]float32, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:         meta.ID,
		Integrator: meta.Integrator,
		Field:      meta.Field,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      meta.Steps,
		Times:      make([]float64, len(frames)),
		Positions:  make([][][3]float32, len(frames)),
		Velocities: make([][][3]float32, len(frames)),
		Metrics:    meta.Metrics,
	}
	for i, f := range frames {
		data.Times[i] = f.Time
		data.Positions[i] = vecs(f.Positions)
		data.Velocities[i] = vecs(f.Velocities)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies the stored frames of a run to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return WriteFramesCSV(w, frames)
}

// ExportFile creates path and fills it with export.
func ExportFile(path string, export func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
