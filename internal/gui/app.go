package gui

import (
	"fmt"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/spherebox/internal/config"
	"github.com/san-kum/spherebox/internal/metrics"
	"github.com/san-kum/spherebox/internal/physics"
	"github.com/san-kum/spherebox/internal/sim"
	"github.com/san-kum/spherebox/internal/sphere"
)

// Theme colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColBox     = rl.NewColor(90, 90, 90, 255)
	ColError   = rl.NewColor(255, 80, 80, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 200
)

// Sonifier receives the state of every step, for audio feedback.
type Sonifier interface {
	Update(energy float64, contacts int)
}

type App struct {
	Motion *sphere.Motion
	Config *config.Config
	Preset string
	Time   float64
	Steps  int

	Camera               rl.Camera3D
	yaw, pitch, distance float32

	Running  bool
	InMenu   bool
	InConfig bool
	Presets  []string
	Selected int

	Params    map[string]float64
	ParamKeys []string
	ParamSel  int

	Telemetry   []float64
	ShowVectors bool
	Sound       Sonifier
	Font        rl.Font
	err         error
}

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "spherebox")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp starts in the preset menu, or straight in the named preset when
// preset is not empty.
func NewApp(preset string, sound Sonifier) *App {
	app := &App{
		Presets:     config.ListPresets(),
		InMenu:      preset == "",
		Telemetry:   make([]float64, 0, maxTelemetry),
		ShowVectors: false,
		Sound:       sound,
		Font:        rl.GetFontDefault(),
		yaw:         0.6,
		pitch:       0.35,
	}
	if preset != "" {
		app.loadPreset(preset)
		app.InConfig = !app.start()
	}
	return app
}

// Run opens the window and blocks until it is closed. preset must name a
// known preset or be empty.
func Run(preset string, sound Sonifier) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(preset, sound).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return
		}
		a.Draw()
	}
}

// loadPreset prepares the config screen for a preset.
func (a *App) loadPreset(name string) {
	a.Preset = name
	a.Config = config.GetPreset(name)
	a.err = nil

	a.Params = map[string]float64{
		"spheres": float64(a.Config.Spheres.Count),
		"radius":  a.Config.Spheres.Radius,
		"speed":   a.Config.Spheres.Speed,
		"dt":      a.Config.Dt,
	}
	if f, err := physics.New(a.Config.Field.Name, a.Config.Field.Params); err == nil {
		if c, ok := f.(physics.Configurable); ok {
			for k, v := range c.GetParams() {
				a.Params[k] = v
			}
		}
	}
	a.ParamKeys = a.ParamKeys[:0]
	for k := range a.Params {
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
	a.ParamSel = 0
}

// start applies the edited parameters and builds the motion.
func (a *App) start() bool {
	cfg := a.Config.Clone()
	for _, k := range a.ParamKeys {
		if err := cfg.Set(k, a.Params[k]); err != nil {
			a.err = err
			return false
		}
	}
	motion, _, err := sim.FromConfig(cfg)
	if err != nil {
		a.err = err
		return false
	}

	a.Config = cfg
	a.Motion = motion
	a.Time = 0
	a.Steps = 0
	a.Telemetry = a.Telemetry[:0]
	a.err = nil
	a.distance = 3 * cfg.Extent()
	a.Running = true
	a.updateCamera()
	return true
}

func (a *App) updateCamera() {
	target := a.Motion.Bounds().Center()
	cp := float32(math.Cos(float64(a.pitch)))
	offset := rl.NewVector3(
		a.distance*cp*float32(math.Sin(float64(a.yaw))),
		a.distance*float32(math.Sin(float64(a.pitch))),
		a.distance*cp*float32(math.Cos(float64(a.yaw))),
	)
	tgt := rl.NewVector3(target.X(), target.Y(), target.Z())
	a.Camera = rl.NewCamera3D(
		rl.Vector3Add(tgt, offset),
		tgt,
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
}

// Update handles input and advances the motion. It reports whether the
// app should quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	if a.InMenu {
		a.updateMenu()
		return false
	}
	if a.InConfig {
		a.updateConfig()
		return false
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Motion.Reset()
		a.Time = 0
		a.Steps = 0
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.ShowVectors = !a.ShowVectors
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		a.yaw -= d.X * 0.005
		a.pitch = float32(math.Max(-1.5, math.Min(1.5, float64(a.pitch+d.Y*0.005))))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.distance = float32(math.Max(1, float64(a.distance*(1-0.1*wheel))))
	}
	a.updateCamera()

	if a.Running {
		a.step()
	}
	return false
}

func (a *App) step() {
	a.Motion.Update(float32(a.Config.Dt))
	a.Time += a.Config.Dt
	a.Steps++

	e := metrics.Kinetic(a.Motion)
	a.Telemetry = append(a.Telemetry, e)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	if a.Sound != nil {
		a.Sound.Update(e, a.Motion.CollisionCount())
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected - 1 + len(a.Presets)) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadPreset(a.Presets[a.Selected])
		a.InMenu = false
		a.InConfig = true
		a.Running = false
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if a.start() {
			a.InConfig = false
		}
		return
	}
	if len(a.ParamKeys) == 0 {
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel = (a.ParamSel - 1 + len(a.ParamKeys)) % len(a.ParamKeys)
	}

	key := a.ParamKeys[a.ParamSel]
	step := paramStep(key)
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] -= step
	}
}

func paramStep(key string) float64 {
	switch key {
	case "spheres":
		return 1
	case "dt":
		return 0.001
	default:
		return 0.1
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	switch {
	case a.InMenu:
		a.drawMenu()
	case a.InConfig:
		a.drawConfig()
	default:
		a.drawSim()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func vec(v [3]float32) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func (a *App) drawSim() {
	rl.BeginMode3D(a.Camera)

	box := a.Motion.Bounds()
	size := box.Size()
	rl.DrawCubeWires(vec(box.Center()), size.X(), size.Y(), size.Z(), ColBox)

	spheres := a.Motion.Spheres()
	top := float32(0)
	for _, s := range spheres {
		top = max(top, s.Vel.Len())
	}
	for _, s := range spheres {
		shade := uint8(120)
		if top > 0 {
			shade = uint8(120 + 135*s.Vel.Len()/top)
		}
		rl.DrawSphere(vec(s.Pos), s.R, rl.NewColor(shade, shade, shade, 255))
		rl.DrawSphereWires(vec(s.Pos), s.R, 8, 8, rl.NewColor(30, 30, 30, 255))
		if a.ShowVectors {
			rl.DrawLine3D(vec(s.Pos), vec(s.Pos.Add(s.Vel.Mul(0.5))), ColSelect)
		}
	}

	rl.EndMode3D()
}

func (a *App) drawHUD() {
	a.drawText("spherebox", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s  %s  field %s", a.Preset, a.Config.Integrator, a.Config.Field.Name), 180, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText(fmt.Sprintf("t %.2fs  spheres %d  contacts %d", a.Time, a.Motion.Len(), a.Motion.CollisionCount()), 30, 70, 16, ColText)
	if counts := a.Motion.IterCounts(); counts != nil {
		peak := 0
		for _, n := range counts {
			peak = max(peak, n)
		}
		a.drawText(fmt.Sprintf("rk4 substeps %d", peak), 30, 92, 16, ColText)
	}

	a.drawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [V] VECTORS  [DRAG] ORBIT  [ESC] MENU  [Q] QUIT", 600, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.3f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("spherebox", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		cfg := config.Presets[name]
		line := fmt.Sprintf("%-10s %d spheres, %s, field %s", name, cfg.Spheres.Count, cfg.Integrator, cfg.Field.Name)
		if i == a.Selected {
			a.drawText("> "+line, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+line, 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("spherebox", 50, 50, 40, ColTextDim)
	a.drawText("configure", 290, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Preset: %s", a.Preset), 50, 110, 16, ColAccent)

	y := 180
	for i, key := range a.ParamKeys {
		val := a.Params[key]
		if i == a.ParamSel {
			a.drawText(fmt.Sprintf("> %-15s %.3f", key, val), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-15s %.3f", key, val), 50, y, 20, ColText)
		}
		y += 30
	}
	if a.err != nil {
		a.drawText(a.err.Error(), 50, y+20, 16, ColError)
	}

	a.drawText("UP/DOWN: SELECT  LEFT/RIGHT: ADJUST (SHIFT x10)  ENTER: START  ESC: BACK", 500, 680, 14, ColTextDim)
}
