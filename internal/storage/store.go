package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
	catalog *Catalog
	logger  *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: slog.New(slog.DiscardHandler)}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetCatalog indexes every saved run in c as well.
func (s *Store) SetCatalog(c *Catalog) { s.catalog = c }

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Field      string             `json:"field"`
	Spheres    int                `json:"spheres"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config"`
}

func (s *Store) Save(preset string, cfg *config.Config, result *sim.Result) (string, error) {
	if preset == "" {
		preset = "custom"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     preset,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Field:      cfg.Field.Name,
		Spheres:    cfg.Spheres.Count,
		Steps:      result.StepsTaken,
		Collisions: result.Collisions,
		Metrics:    result.Metrics,
		Config:     cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}

	if s.catalog != nil {
		if err := s.catalog.Record(meta); err != nil {
			return "", fmt.Errorf("catalog %s: %w", runID, err)
		}
	}

	s.logger.Info("run saved", "id", runID, "frames", len(result.Frames), "dir", runDir)
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFramesCSV writes one row per frame: time, then x, y, z, vx, vy, vz for
// each sphere in index order.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time"}
	for i := range frames[0].Positions {
		for _, c := range []string{"x", "y", "z", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", c, i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(f.Time, 'f', 6, 64))
		for i, p := range f.Positions {
			v := f.Velocities[i]
			for _, c := range [6]float32{p[0], p[1], p[2], v[0], v[1], v[2]} {
				row = append(row, strconv.FormatFloat(float64(c), 'g', -1, 32))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every run under the base directory, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

func ReadFramesCSV(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	cols := len(records[0])
	if (cols-1)%6 != 0 {
		return nil, fmt.Errorf("frames: %d columns is not time plus six per sphere", cols)
	}
	n := (cols - 1) / 6

	frames := make([]sim.Frame, 0, len(records)-1)
	for line, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("frames line %d: %w", line+2, err)
		}
		f := sim.Frame{
			Time:       t,
			Positions:  make([]mgl32.Vec3, n),
			Velocities: make([]mgl32.Vec3, n),
		}
		for i := 0; i < n; i++ {
			for c := 0; c < 6; c++ {
				v, err := strconv.ParseFloat(record[1+i*6+c], 32)
				if err != nil {
					return nil, fmt.Errorf("frames line %d: %w", line+2, err)
				}
				if c < 3 {
					f.Positions[i][c] = float32(v)
				} else {
					f.Velocities[i][c-3] = float32(v)
				}
			}
		}
		frames = append(frames, f)
	}

	return frames, nil
}
