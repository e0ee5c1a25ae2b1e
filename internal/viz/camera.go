package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/sphere"
)

const (
	minZoom = 0.2
	maxZoom = 8
)

// Camera orbits a target. Yaw turns about the world Y axis, pitch about the
// camera X axis.
type Camera struct {
	Target   mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Zoom     float32
	Extent   float32
	Distance float32
}

// NewCamera frames a scene of the given half extent around target.
func NewCamera(target mgl32.Vec3, extent float32) *Camera {
	return &Camera{
		Target:   target,
		Yaw:      0.6,
		Pitch:    0.35,
		Zoom:     1,
		Extent:   extent,
		Distance: 4 * extent,
	}
}

// Rotate adds to yaw and pitch. Pitch stays short of the poles.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	const limit = math.Pi/2 - 0.05
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -limit, limit)
}

func (c *Camera) ZoomIn()  { c.Zoom = min(maxZoom, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = max(minZoom, c.Zoom/1.2) }

func (c *Camera) view() mgl32.Mat3 {
	return mgl32.Rotate3DX(c.Pitch).Mul3(mgl32.Rotate3DY(c.Yaw))
}

// Project maps p to dot coordinates on a w x h surface. scale is the number
// of dots per world unit at p's depth; ok is false behind the camera.
func (c *Camera) Project(p mgl32.Vec3, w, h int) (x, y int, depth, scale float32, ok bool) {
	r := c.view().Mul3x1(p.Sub(c.Target))
	if r.Z() >= c.Distance*0.95 {
		return 0, 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - r.Z())
	fit := float32(min(w, h)) / (2.5 * c.Extent)
	scale = fit * c.Zoom * persp
	x = w/2 + int(r.X()*scale)
	y = h/2 - int(r.Y()*scale)
	return x, y, r.Z(), scale, true
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func corners(b sphere.Box) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				out[i][axis] = b.Max[axis]
			} else {
				out[i][axis] = b.Min[axis]
			}
		}
	}
	return out
}

// DrawScene draws the box wireframe and an outline for every sphere,
// farthest first.
func DrawScene(c *Canvas, cam *Camera, box sphere.Box, spheres []sphere.Sphere) {
	w, h := c.DotsWide(), c.DotsHigh()

	cs := corners(box)
	for _, e := range boxEdges {
		x0, y0, _, _, ok0 := cam.Project(cs[e[0]], w, h)
		x1, y1, _, _, ok1 := cam.Project(cs[e[1]], w, h)
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	type disc struct {
		x, y, r int
		depth   float32
	}
	discs := make([]disc, 0, len(spheres))
	for _, s := range spheres {
		x, y, depth, scale, ok := cam.Project(s.Pos, w, h)
		if !ok {
			continue
		}
		discs = append(discs, disc{x, y, int(s.R*scale + 0.5), depth})
	}
	sort.Slice(discs, func(i, j int) bool { return discs[i].depth < discs[j].depth })
	for _, d := range discs {
		c.DrawCircle(d.x, d.y, d.r)
	}
}
