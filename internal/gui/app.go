package gui

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/config"
	"github.com/san-kum/studio/internal/control"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

var (
	paneBackground = rl.NewColor(10, 10, 10, 255)
	paneBorder     = rl.NewColor(30, 30, 30, 255)
	paneHover      = rl.NewColor(90, 90, 90, 255)
	paneLabel      = rl.NewColor(60, 60, 60, 255)
	floorColor     = rl.NewColor(30, 30, 30, 255)
	solidColor     = rl.NewColor(255, 255, 255, 255)
	wireColor      = rl.NewColor(180, 180, 180, 255)

	hudTitle  = rl.NewColor(255, 255, 255, 255)
	hudText   = rl.NewColor(140, 140, 140, 255)
	hudMuted  = rl.NewColor(60, 60, 60, 255)
	hudPaused = rl.NewColor(180, 180, 180, 255)

	telemetryLine  = rl.NewColor(180, 180, 180, 255)
	telemetryFrame = rl.NewColor(30, 30, 30, 255)
)

const telemetryCapacity = 200

type Options struct {
	Scene         march.Scene
	FPS           int
	Width, Height int32
	Logger        *slog.Logger
}

// App is the window viewer. Each frame it writes one batch of input into
// the registry and draws from one snapshot read.
type App struct {
	reg     *renderstate.Registry
	opts    Options
	log     *slog.Logger
	playing bool
	showHUD bool
	panes   map[camera.Kind]rl.RenderTexture2D

	// Telemetry is a ring of recent zoom values for the HUD graph.
	Telemetry []float64
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(opts.Width, opts.Height, "studio")
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

func NewApp(reg *renderstate.Registry, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &App{
		reg:       reg,
		opts:      opts,
		log:       opts.Logger,
		playing:   true,
		showHUD:   true,
		panes:     make(map[camera.Kind]rl.RenderTexture2D),
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
}

// Run opens a window over reg and blocks until it is closed.
func Run(reg *renderstate.Registry, opts Options) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(reg, opts)
	defer app.unloadPanes()
	app.log.Info("window opened", "scene", opts.Scene.Name, "width", opts.Width, "height", opts.Height)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update reads this frame's input and writes it through one batch.
func (a *App) Update() {
	in := a.readInput()
	a.reg.Update(func(v renderstate.ViewState) renderstate.ViewState {
		return control.Apply(v, in, a.opts.Scene)
	})
}

func (a *App) readInput() control.Input {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	in := control.Input{
		Resolution:  renderstate.Resolution{Width: w, Height: h},
		Visible:     !rl.IsWindowMinimized() && !rl.IsWindowHidden(),
		Wheel:       rl.GetMouseWheelMove(),
		CycleRender: rl.IsKeyPressed(rl.KeyTab),
		ToggleQuad:  rl.IsKeyPressed(rl.KeyM),
		ToggleFree:  rl.IsKeyPressed(rl.KeyF),
		Reset:       rl.IsKeyPressed(rl.KeyR),
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.playing = !a.playing
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}
	if a.playing {
		in.Dt = float64(rl.GetFrameTime())
	}

	delta := rl.GetMouseDelta()
	drag := math32.Vec2(delta.X, delta.Y)
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		in.Orbit = drag
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Pan = drag
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) && w > 0 && h > 0 {
		pos := rl.GetMousePosition()
		in.MoveSplit = true
		in.Split = math32.Vec2(pos.X/float32(w), pos.Y/float32(h))
	}
	return in
}

func (a *App) Draw() {
	v := a.reg.Snapshot()

	a.Telemetry = append(a.Telemetry, v.Zoom)
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}

	if v.IsVisible {
		for _, p := range camera.Layout(v) {
			a.renderPane(p, v)
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(paneBackground)
	if v.IsVisible {
		panes := camera.Layout(v)
		pos := rl.GetMousePosition()
		hover, hovering := camera.PaneAt(panes, int(pos.X), int(pos.Y))
		for _, p := range panes {
			a.blitPane(p, hovering && len(panes) > 1 && p.Kind == hover.Kind)
		}
	}
	if a.showHUD {
		a.DrawHUD(v)
		a.DrawTelemetry()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD(v renderstate.ViewState) {
	lines := []string{
		fmt.Sprintf("%s  %s", a.opts.Scene.Name, v.RenderType),
		fmt.Sprintf("time %.2fs", float64(v.Time)),
		fmt.Sprintf("rotation %.2f %.2f", v.Rotation.X, v.Rotation.Y),
		fmt.Sprintf("origin %.2f %.2f %.2f", v.Origin.X, v.Origin.Y, v.Origin.Z),
		fmt.Sprintf("zoom %.2f", v.Zoom),
		fmt.Sprintf("recomputes %d", a.reg.Memo().Recomputes()),
	}
	for i, line := range lines {
		col := hudText
		if i == 0 {
			col = hudTitle
		}
		a.drawText(line, 30, 30+i*20, 16, col)
	}
	if !a.playing {
		a.drawText("PAUSED", 30, 30+len(lines)*20, 16, hudPaused)
	}
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, int(rl.GetScreenHeight())-40, 14, hudMuted)
}

// DrawTelemetry plots the zoom history in the bottom-right corner.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	const w, h = 200, 60
	x0 := float32(rl.GetScreenWidth() - w - 30)
	y0 := float32(rl.GetScreenHeight() - h - 30)

	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, z := range a.Telemetry {
		lo, hi = min(lo, z), max(hi, z)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, z := range a.Telemetry {
		px := x0 + float32(i)/float32(telemetryCapacity-1)*w
		py := y0 + h - float32((z-lo)/rng)*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawRectangleLines(int32(x0), int32(y0), w, h, telemetryFrame)
	rl.DrawLineStrip(points, telemetryLine)
	a.drawText("zoom", int(x0), int(y0)-18, 14, hudMuted)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
