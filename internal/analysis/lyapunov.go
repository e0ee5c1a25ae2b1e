package analysis

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spherebox/internal/sphere"
)

var ErrNoSpheres = errors.New("analysis: no spheres to perturb")

// Divergence records the separation between a motion and a copy whose
// first sphere was nudged along x.
type Divergence struct {
	Initial     float64
	Times       []float64
	Separations []float64
}

// Diverge runs both motions for steps updates of dt. The separation is
// the root mean square distance between matching sphere centres.
func Diverge(opts sphere.Options, spheres []sphere.Sphere, eps, dt float32, steps int) (*Divergence, error) {
	if len(spheres) == 0 {
		return nil, ErrNoSpheres
	}

	base, err := sphere.FromSpheres(opts, spheres)
	if err != nil {
		return nil, err
	}
	nudged := make([]sphere.Sphere, len(spheres))
	copy(nudged, spheres)
	nudged[0].Pos = nudged[0].Pos.Add(mgl32.Vec3{eps, 0, 0})
	pert, err := sphere.FromSpheres(opts, nudged)
	if err != nil {
		return nil, err
	}

	d := &Divergence{
		Initial:     separation(base.Positions(), pert.Positions()),
		Times:       make([]float64, 0, steps),
		Separations: make([]float64, 0, steps),
	}
	for step := 1; step <= steps; step++ {
		base.Update(dt)
		pert.Update(dt)
		d.Times = append(d.Times, float64(step)*float64(dt))
		d.Separations = append(d.Separations, separation(base.Positions(), pert.Positions()))
	}
	return d, nil
}

func separation(a, b []mgl32.Vec3) float64 {
	sum := 0.0
	for i := range a {
		diff := float64(a[i].Sub(b[i]).Len())
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(a)))
}

// Exponent estimates the largest Lyapunov exponent as the least squares
// slope of ln(separation) over time, using only samples below saturation.
// A positive value means nearby starts drift apart exponentially.
func (d *Divergence) Exponent(saturation float64) float64 {
	var ts, logs []float64
	for i, sep := range d.Separations {
		if sep <= 0 {
			continue
		}
		if sep >= saturation {
			break
		}
		ts = append(ts, d.Times[i])
		logs = append(logs, math.Log(sep))
	}
	if len(ts) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope
}
