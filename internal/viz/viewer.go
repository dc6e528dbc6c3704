package viz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/core/math32"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/config"
	"github.com/san-kum/studio/internal/control"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/metrics"
	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/signal"
	"github.com/san-kum/studio/internal/storage"
)

const (
	historyCapacity = 240
	recordLimit     = 10000

	rotateStep = 0.1
	zoomStep   = 0.25
	panStep    = 0.1
	splitStep  = 0.05
)

type TickMsg time.Time

// Options configures a viewer Model.
type Options struct {
	Scene  march.Scene
	Trace  march.Options
	FPS    int
	Theme  string
	Store  *storage.Store // nil disables bookmarks and recordings
	Logger *slog.Logger
	// CaptureDir receives GIF captures; empty means the working directory.
	CaptureDir string
}

// Model is the terminal viewer. It owns no view state of its own: every
// camera and viewport value lives in the registry cells, and the canvas is
// redrawn by an effect on the registry snapshot.
type Model struct {
	reg    *renderstate.Registry
	opts   Options
	log    *slog.Logger
	theme  Theme
	st     styles
	canvas *Canvas
	redraw *signal.Effect

	frameErr    error
	zoomHistory []float64
	shade       *metrics.MeanShade
	shadeTrend  []float64
	playing     bool
	recorder    *storage.Recorder
	capture     *gifCapture
	bookmark    int
	status      string
	showHelp    bool
}

// NewModel creates a viewer over reg. The canvas is drawn once right away.
func NewModel(reg *renderstate.Registry, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Trace.MaxSteps == 0 {
		opts.Trace = march.DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	theme := GetTheme(opts.Theme)
	m := &Model{
		reg:         reg,
		opts:        opts,
		log:         opts.Logger,
		theme:       theme,
		st:          newStyles(theme),
		canvas:      NewCanvas(0, 0),
		zoomHistory: make([]float64, 0, historyCapacity),
		shade:       metrics.NewMeanShade(),
		playing:     true,
	}
	m.redraw = signal.NewEffect(reg.Runtime(), func() {
		m.draw(reg.Snapshot())
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances playback.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.handleKey(msg.String()) {
			m.Close()
			return m, tea.Quit
		}
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// Registry returns the registry the viewer writes to.
func (m *Model) Registry() *renderstate.Registry {
	return m.reg
}

// Close stops the redraw effect and flushes any open recording or capture.
func (m *Model) Close() {
	if m.recorder != nil {
		m.toggleRecording()
	}
	if m.capture != nil {
		m.toggleCapture()
	}
	m.redraw.Dispose()
}

// resize maps the terminal size to the canvas next to the side panel. One
// cell holds 2x4 braille dots, and each dot is one traced pixel.
func (m *Model) resize(w, h int) {
	cols := max(0, w-panelWidth-1)
	rows := max(0, h-1)
	s := m.reg.Signals
	m.reg.Runtime().Batch(func() {
		s.Resolution.Set(renderstate.Resolution{Width: cols * 2, Height: rows * 4})
		s.IsVisible.Set(cols > 0 && rows > 0)
	})
}

// step advances time by one frame while playing and visible.
func (m *Model) step() {
	s := m.reg.Signals
	if !m.playing || !s.IsVisible.Peek() {
		return
	}
	dt := renderstate.Seconds(1 / float64(m.opts.FPS))
	s.Time.Update(func(t renderstate.Seconds) renderstate.Seconds { return t + dt })
}

func (m *Model) draw(v renderstate.ViewState) {
	cols, rows := (v.Resolution.Width+1)/2, (v.Resolution.Height+3)/4
	if m.canvas.Width != cols || m.canvas.Height != rows {
		m.canvas = NewCanvas(cols, rows)
	} else {
		m.canvas.Clear()
	}

	m.zoomHistory = append(m.zoomHistory, v.Zoom)
	if len(m.zoomHistory) > historyCapacity {
		m.zoomHistory = m.zoomHistory[1:]
	}

	frame, err := march.Render(context.Background(), m.opts.Scene, v, m.opts.Trace)
	m.frameErr = err
	if err != nil {
		if !errors.Is(err, march.ErrNotVisible) && !errors.Is(err, march.ErrEmptyFrame) {
			m.log.Error("render failed", "err", err)
		}
		return
	}
	m.shade.Reset()
	m.shade.Observe(frame, v)
	m.shadeTrend = append(m.shadeTrend, m.shade.Value())
	if len(m.shadeTrend) > historyCapacity {
		m.shadeTrend = m.shadeTrend[1:]
	}
	m.canvas.DrawFrame(frame)
	m.canvas.DrawPaneBorders(camera.Layout(v))
	if m.capture != nil {
		m.capture.add(m.canvas)
	}
}

// handleKey applies a key binding and reports whether the viewer should
// quit. Single adjustments write one cell; presets, bookmarks and reset
// write the whole state in one batch.
func (m *Model) handleKey(key string) bool {
	s := m.reg.Signals
	switch key {
	case "q", "ctrl+c":
		return true
	case " ":
		m.playing = !m.playing
	case "left", "h":
		m.rotate(-rotateStep, 0)
	case "right", "l":
		m.rotate(rotateStep, 0)
	case "up", "k":
		m.rotate(0, rotateStep)
	case "down", "j":
		m.rotate(0, -rotateStep)
	case "+", "=":
		s.Zoom.Update(func(z float64) float64 { return z + zoomStep })
	case "-", "_":
		s.Zoom.Update(func(z float64) float64 { return z - zoomStep })
	case "w":
		m.pan(0, 1)
	case "s":
		m.pan(0, -1)
	case "a":
		m.pan(-1, 0)
	case "d":
		m.pan(1, 0)
	case "tab":
		s.RenderType.Update(renderstate.RenderType.Next)
	case "m":
		s.QuadView.Update(not)
	case "f":
		s.PrefersFreeCamera.Update(not)
	case "v":
		s.IsVisible.Update(not)
	case "[":
		m.moveSplit(-splitStep, 0)
	case "]":
		m.moveSplit(splitStep, 0)
	case "{":
		m.moveSplit(0, -splitStep)
	case "}":
		m.moveSplit(0, splitStep)
	case "r":
		m.reg.Reset()
		m.status = "reset"
	case "b":
		m.saveBookmark()
	case "n":
		m.nextBookmark()
	case "c":
		m.toggleRecording()
	case "g":
		m.toggleCapture()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.applyPreset(int(key[0] - '1'))
		}
	}
	return false
}

func not(b bool) bool { return !b }

func (m *Model) rotate(yaw, pitch float64) {
	m.reg.Signals.Rotation.Update(func(r math32.Vector2) math32.Vector2 {
		return control.Orbit(r, yaw, pitch)
	})
}

// pan moves the origin in screen space by a fraction of the view extent.
// Flat scenes pan origin2D instead.
func (m *Model) pan(dx, dy float64) {
	v := m.reg.Memo().Peek()
	step := panStep * camera.ZoomDistance(v.Zoom)
	next := control.Pan(v, dx*step, dy*step, m.opts.Scene)
	if m.opts.Scene.Flat {
		m.reg.Signals.Origin2D.Set(next.Origin2D)
		return
	}
	m.reg.Signals.Origin.Set(next.Origin)
}

func (m *Model) moveSplit(dx, dy float32) {
	m.reg.Signals.QuadSplitPoint.Update(func(p math32.Vector2) math32.Vector2 {
		return math32.Vec2(clampUnit(p.X+dx), clampUnit(p.Y+dy))
	})
}

func clampUnit(x float32) float32 {
	return max(0, min(1, x))
}

// applyPreset applies the i-th preset in name order.
func (m *Model) applyPreset(i int) {
	names := config.ListPresets()
	if i < 0 || i >= len(names) {
		return
	}
	m.reg.Update(config.GetPreset(names[i]))
	m.status = "preset " + names[i]
}

func (m *Model) saveBookmark() {
	if m.opts.Store == nil {
		m.status = "bookmarks need a data directory"
		return
	}
	name := "view-" + time.Now().Format("20060102-150405")
	if _, err := m.opts.Store.SaveBookmark(name, m.opts.Scene.Name, m.reg.Memo().Peek()); err != nil {
		m.log.Error("save bookmark", "name", name, "err", err)
		m.status = "bookmark failed"
		return
	}
	m.status = "saved " + name
}

// nextBookmark loads the bookmarks in turn. The host surface keeps its
// resolution and visibility.
func (m *Model) nextBookmark() {
	if m.opts.Store == nil {
		m.status = "bookmarks need a data directory"
		return
	}
	list, err := m.opts.Store.ListBookmarks()
	if err != nil {
		m.log.Error("list bookmarks", "err", err)
		m.status = "bookmarks unavailable"
		return
	}
	if len(list) == 0 {
		m.status = "no bookmarks"
		return
	}
	b := list[m.bookmark%len(list)]
	m.bookmark++
	m.reg.Update(func(cur renderstate.ViewState) renderstate.ViewState {
		v := b.View
		v.Resolution, v.IsVisible = cur.Resolution, cur.IsVisible
		return v
	})
	m.status = "loaded " + b.Name
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = storage.NewRecorder(m.reg, recordLimit)
		m.status = "recording"
		return
	}
	m.recorder.Stop()
	samples := m.recorder.Samples()
	m.recorder = nil
	if m.opts.Store == nil {
		m.status = fmt.Sprintf("discarded %d samples", len(samples))
		return
	}
	id, err := m.opts.Store.SaveRecording("session", m.opts.Scene.Name, samples)
	if err != nil {
		m.log.Error("save recording", "err", err)
		m.status = "recording failed"
		return
	}
	m.log.Info("recording saved", "id", id, "samples", len(samples))
	m.status = "saved " + id
}

func (m *Model) toggleCapture() {
	if m.capture == nil {
		m.capture = &gifCapture{}
		m.capture.add(m.canvas)
		m.status = "capturing gif"
		return
	}
	path := filepath.Join(m.opts.CaptureDir, fmt.Sprintf("studio-%d.gif", time.Now().Unix()))
	err := m.capture.save(path, gifDelay(m.opts.FPS))
	m.capture = nil
	if err != nil {
		m.log.Error("save gif", "path", path, "err", err)
		m.status = "gif failed"
		return
	}
	m.status = "saved " + path
}

// gifDelay converts a tick rate to a GIF frame delay in hundredths of a
// second. The delay is never zero.
func gifDelay(fps int) int {
	if fps <= 0 {
		return 100
	}
	return max(1, 100/fps)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m *Model) field(name, value string) string {
	return m.st.label.Render(name) + m.st.value.Render(value) + "\n"
}

// View renders the canvas next to the state panel.
func (m *Model) View() string {
	v := m.reg.Memo().Peek()

	var canvasView string
	switch {
	case !v.IsVisible:
		canvasView = m.st.warn.Render("hidden")
	case errors.Is(m.frameErr, march.ErrEmptyFrame):
		canvasView = m.st.warn.Render("no viewport")
	default:
		canvasView = m.st.canvas.Render(m.canvas.String())
	}

	var s strings.Builder
	s.WriteString(m.st.header.Render(strings.ToUpper(m.opts.Scene.Name)) + "\n")
	status := "PLAYING"
	if !m.playing {
		status = "PAUSED"
	}
	if m.recorder != nil {
		status += fmt.Sprintf("  REC %d", m.recorder.Len())
	}
	if m.capture != nil {
		status += fmt.Sprintf("  GIF %d", len(m.capture.frames))
	}
	s.WriteString(m.st.active.Render(status) + "\n\n")

	s.WriteString(m.field("Time", fmt.Sprintf("%.2fs", float64(v.Time))))
	s.WriteString(m.field("Visible", onOff(v.IsVisible)))
	s.WriteString(m.field("Render", v.RenderType.String()))
	s.WriteString(m.field("Rotation", fmt.Sprintf("%.2f, %.2f", v.Rotation.X, v.Rotation.Y)))
	if m.opts.Scene.Flat {
		s.WriteString(m.field("Origin 2D", fmt.Sprintf("%.2f, %.2f", v.Origin2D.X, v.Origin2D.Y)))
	} else {
		s.WriteString(m.field("Origin", fmt.Sprintf("%.2f, %.2f, %.2f", v.Origin.X, v.Origin.Y, v.Origin.Z)))
	}
	s.WriteString(m.field("Zoom", fmt.Sprintf("%.2f", v.Zoom)))
	s.WriteString(m.field("Free camera", onOff(v.PrefersFreeCamera)))
	s.WriteString(m.field("Quad view", onOff(v.QuadView)))
	s.WriteString(m.field("Split", fmt.Sprintf("%.2f, %.2f", v.QuadSplitPoint.X, v.QuadSplitPoint.Y)))
	if v.QuadView {
		s.WriteString(m.field("  X", ProgressBar(float64(v.QuadSplitPoint.X), 16)))
		s.WriteString(m.field("  Y", ProgressBar(float64(v.QuadSplitPoint.Y), 16)))
	}
	s.WriteString(m.field("Resolution", fmt.Sprintf("%dx%d", v.Resolution.Width, v.Resolution.Height)))
	s.WriteString("\n")
	s.WriteString(m.field("Recomputes", fmt.Sprintf("%d", m.reg.Memo().Recomputes())))
	s.WriteString(m.field("Redraws", fmt.Sprintf("%d", m.redraw.Runs())))
	if len(m.shadeTrend) > 0 {
		n := min(len(m.shadeTrend), 24)
		s.WriteString(m.field("Brightness", SparklineChart(m.shadeTrend[len(m.shadeTrend)-n:], 24)))
	}

	if len(m.zoomHistory) > 1 {
		chart := asciigraph.Plot(m.zoomHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Zoom"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}
	if m.status != "" {
		s.WriteString(m.st.warn.Render(m.status) + "\n")
	}
	s.WriteString(m.st.help.Render("SP:Play TAB:Mode M:Quad F:Free\nHJKL:Orbit WASD:Pan +/-:Zoom\n1-7:Preset B/N:Bookmark ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space      - Play/Pause time        ║
║  H J K L    - Orbit (yaw, pitch)     ║
║  W A S D    - Pan origin             ║
║  + / -      - Zoom in/out            ║
║  Tab        - Cycle render type      ║
║  M          - Toggle quad view       ║
║  [ ] { }    - Move quad split        ║
║  F          - Toggle free camera     ║
║  V          - Toggle visibility      ║
║  1-7        - Apply preset           ║
║  B / N      - Save/next bookmark     ║
║  C          - Toggle recording       ║
║  G          - Toggle GIF capture     ║
║  R          - Reset view             ║
║  T          - Cycle themes           ║
║  Q          - Quit                   ║
╚══════════════════════════════════════╝`
