package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/studio/internal/automation"
	"github.com/san-kum/studio/internal/config"
	"github.com/san-kum/studio/internal/export"
	"github.com/san-kum/studio/internal/gui"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/signal"
	"github.com/san-kum/studio/internal/storage"
	"github.com/san-kum/studio/internal/viz"
)

var (
	configFile string
	dataDir    string
	verbose    bool

	sceneName  string
	presetName string
	renderType string
	field      string
	fromFile   string
	svgFile    string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "studio",
		Short:         "reactive view state explorer for signed distance scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&sceneName, "scene", "", "scene to view")
	rootCmd.Flags().StringVar(&presetName, "preset", "", "preset applied to the initial view")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "open the scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&presetName, "preset", "", "preset applied to the initial view")
	guiCmd.Flags().Int("width", 1280, "window width")
	guiCmd.Flags().Int("height", 720, "window height")

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "print the default view state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printYAML(cmd.OutOrStdout(), renderstate.Defaults())
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "studio.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list view presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list terminal viewer themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range viz.ThemeNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE:  listScenes,
	}

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "trace one frame to a PNG, or a dithered SVG when --out ends in .svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().StringP("out", "o", "frame.png", "output file")
	renderCmd.Flags().Int("width", 320, "image width")
	renderCmd.Flags().Int("height", 240, "image height")
	renderCmd.Flags().StringVar(&renderType, "type", "", "render type: "+strings.Join(renderTypeNames(), ", "))
	renderCmd.Flags().StringVar(&presetName, "preset", "", "preset applied before rendering")
	renderCmd.Flags().StringVar(&fromFile, "bookmark", "", "render a saved bookmark")

	bookmarkCmd := &cobra.Command{
		Use:   "bookmark",
		Short: "manage saved views",
	}
	bookmarkSaveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "save the configured view, with an optional preset, as a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE:  saveBookmark,
	}
	bookmarkSaveCmd.Flags().StringVar(&presetName, "preset", "", "preset applied before saving")
	bookmarkSaveCmd.Flags().StringVar(&sceneName, "scene", "", "scene the bookmark belongs to")
	bookmarkCmd.AddCommand(
		bookmarkSaveCmd,
		&cobra.Command{
			Use:   "list",
			Short: "list bookmarks",
			Args:  cobra.NoArgs,
			RunE:  listBookmarks,
		},
		&cobra.Command{
			Use:   "show [name]",
			Short: "print a bookmark as YAML",
			Args:  cobra.ExactArgs(1),
			RunE:  showBookmark,
		},
		&cobra.Command{
			Use:   "rm [name]",
			Short: "delete a bookmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := openStore()
				if err != nil {
					return err
				}
				return st.DeleteBookmark(args[0])
			},
		},
	)

	recordingsCmd := &cobra.Command{
		Use:   "recordings",
		Short: "list saved recordings",
		Args:  cobra.NoArgs,
		RunE:  listRecordings,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [recording_id]",
		Short: "plot one field of a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRecording,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to an SVG file")
	plotCmd.Flags().StringVar(&field, "field", "zoom", "column to plot: "+strings.Join(storage.Columns, ", "))

	replayCmd := &cobra.Command{
		Use:   "replay [recording_id]",
		Short: "render every sample of a recording to PNG frames",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRecording,
	}
	replayCmd.Flags().StringP("out", "o", "frames", "directory for PNG frames")
	replayCmd.Flags().Int("limit", 0, "stop after this many samples (0 for all)")

	tourCmd := &cobra.Command{
		Use:   "tour [scenario.yaml]",
		Short: "play a scripted camera tour and report frame metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runTour,
	}
	tourCmd.Flags().StringP("out", "o", "", "directory for PNG frames")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "render one frame per value of a view field",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&field, "field", "zoom", "field to sweep: "+strings.Join(automation.SweepFields, ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().Int("width", 96, "frame width")
	sweepCmd.Flags().Int("height", 64, "frame height")

	rootCmd.AddCommand(guiCmd, defaultsCmd, initConfigCmd, presetsCmd, scenesCmd, renderCmd, bookmarkCmd, recordingsCmd, plotCmd, replayCmd, tourCmd, sweepCmd, themesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func renderTypeNames() []string {
	var names []string
	for _, rt := range renderstate.RenderTypes() {
		names = append(names, rt.String())
	}
	return names
}

// loadConfig reads --config over the defaults and applies --data.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if dataDir != "" {
		cfg.Viewer.DataDir = dataDir
	}
	return cfg, nil
}

// newLogger logs to w, at debug level with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Viewer.DataDir).WithLogger(newLogger(os.Stderr)), nil
}

// initialView returns the configured view with --preset applied.
func initialView(cfg *config.Config) (renderstate.ViewState, error) {
	v := cfg.InitialState()
	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return v, fmt.Errorf("unknown preset %q (have %s)", presetName, strings.Join(config.ListPresets(), ", "))
		}
		v = p(v)
	}
	return v, nil
}

func pickScene(cfg *config.Config, args []string) (march.Scene, error) {
	name := cfg.Viewer.Scene
	if sceneName != "" {
		name = sceneName
	}
	if len(args) > 0 {
		name = args[0]
	}
	return march.SceneByName(name)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := pickScene(cfg, args)
	if err != nil {
		return err
	}
	v, err := initialView(cfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Viewer.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	// Logs go to a file while the viewer owns the terminal.
	logPath := cfg.Viewer.LogFile
	if logPath == "" {
		logPath = filepath.Join(cfg.Viewer.DataDir, "studio.log")
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	reg := renderstate.NewRegistryFrom(signal.NewRuntime(), v)
	model := viz.NewModel(reg, viz.Options{
		Scene:      sc,
		FPS:        cfg.Viewer.FPS,
		Theme:      cfg.Viewer.Theme,
		Store:      st.WithLogger(logger),
		Logger:     logger,
		CaptureDir: cfg.Viewer.DataDir,
	})
	logger.Info("viewer started", "scene", sc.Name, "fps", cfg.Viewer.FPS)

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := pickScene(cfg, args)
	if err != nil {
		return err
	}
	v, err := initialView(cfg)
	if err != nil {
		return err
	}

	width, height := size(cmd)
	reg := renderstate.NewRegistryFrom(signal.NewRuntime(), v)
	gui.Run(reg, gui.Options{
		Scene:  sc,
		FPS:    cfg.Viewer.FPS,
		Width:  int32(width),
		Height: int32(height),
		Logger: newLogger(os.Stderr),
	})
	return nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	for _, name := range march.SceneNames() {
		sc, err := march.SceneByName(name)
		if err != nil {
			return err
		}
		kind := "3d"
		if sc.Flat {
			kind = "2d"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", sc.Name, kind, sc.Description)
	}
	return w.Flush()
}

func renderFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := pickScene(cfg, args)
	if err != nil {
		return err
	}
	v, err := initialView(cfg)
	if err != nil {
		return err
	}

	if fromFile != "" {
		st := storage.New(cfg.Viewer.DataDir)
		b, err := st.LoadBookmark(fromFile)
		if err != nil {
			return err
		}
		v = b.View
		if b.Scene != "" && len(args) == 0 {
			if sc, err = march.SceneByName(b.Scene); err != nil {
				return err
			}
		}
	}
	if renderType != "" {
		if v.RenderType, err = renderstate.ParseRenderType(renderType); err != nil {
			return err
		}
	}
	width, height := size(cmd)
	outFile, _ := cmd.Flags().GetString("out")
	v.IsVisible = true
	v.Resolution = renderstate.Resolution{Width: width, Height: height}
	if err := v.Validate(); err != nil {
		return err
	}

	logger := newLogger(os.Stderr)
	reg := renderstate.NewRegistryFrom(signal.NewRuntime(), v)
	snap := reg.Snapshot()
	frame, err := march.Render(cmd.Context(), sc, snap, march.DefaultOptions())
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outFile), ".svg") {
		canvas := viz.NewCanvas((frame.Width+1)/2, (frame.Height+3)/4)
		canvas.DrawFrame(frame)
		if err := os.WriteFile(outFile, []byte(export.CanvasToSVG(canvas, 4, "#00ff9f")), 0644); err != nil {
			return err
		}
		logger.Debug("frame exported", "scene", sc.Name, "format", "svg")
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
		return nil
	}

	if err := writePNG(outFile, frame, snap.RenderType); err != nil {
		return err
	}
	logger.Debug("frame rendered", "scene", sc.Name, "type", snap.RenderType, "size", fmt.Sprintf("%dx%d", width, height))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
	return nil
}

// size reads the --width and --height flags of the running command.
func size(cmd *cobra.Command) (w, h int) {
	w, _ = cmd.Flags().GetInt("width")
	h, _ = cmd.Flags().GetInt("height")
	return w, h
}

func writePNG(path string, frame *march.Frame, rt renderstate.RenderType) error {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			img.SetRGBA(x, y, march.ColorAt(rt, frame.At(x, y)))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func replayRecording(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)
	st := storage.New(cfg.Viewer.DataDir).WithLogger(logger)
	meta, samples, err := st.LoadRecording(args[0])
	if err != nil {
		return err
	}
	sc, err := march.SceneByName(meta.Scene)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	limit, _ := cmd.Flags().GetInt("limit")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	reg := renderstate.NewRegistry(signal.NewRuntime())
	opts := march.DefaultOptions()
	written := 0
	var renderErr error
	n := storage.Replay(reg, samples, func(i int) bool {
		v := reg.Snapshot()
		frame, err := march.Render(cmd.Context(), sc, v, opts)
		switch {
		case errors.Is(err, march.ErrNotVisible), errors.Is(err, march.ErrEmptyFrame):
			logger.Debug("skipping hidden sample", "sample", i)
		case err != nil:
			renderErr = err
			return false
		default:
			if renderErr = writePNG(filepath.Join(outDir, fmt.Sprintf("%05d.png", i)), frame, v.RenderType); renderErr != nil {
				return false
			}
			written++
		}
		return limit <= 0 || i+1 < limit
	})
	if renderErr != nil {
		return renderErr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "replayed %d of %d samples, wrote %d frames to %s\n", n, len(samples), written, outDir)
	return nil
}

func runTour(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)

	opts := automation.RunOptions{
		Trace:  march.DefaultOptions(),
		Store:  storage.New(cfg.Viewer.DataDir).WithLogger(logger),
		Logger: logger,
	}
	if outDir, _ := cmd.Flags().GetString("out"); outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		opts.OnFrame = func(step, index int, f *march.Frame, v renderstate.ViewState) error {
			name := fmt.Sprintf("step%02d_%04d.png", step+1, index)
			return writePNG(filepath.Join(outDir, name), f, v.RenderType)
		}
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tour: %s (%s)\n\n", scenario.Name, scenario.Scene)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tRENDER\tZOOM\tCOVERAGE\tSHADE\tFLICKER\tMOTION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			r.Step,
			r.Frames,
			r.View.RenderType,
			r.View.Zoom,
			r.Metrics["coverage"],
			r.Metrics["mean_shade"],
			r.Metrics["flicker"],
			r.Metrics["camera_motion"],
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := pickScene(cfg, args)
	if err != nil {
		return err
	}
	v, err := initialView(cfg)
	if err != nil {
		return err
	}

	width, height := size(cmd)
	results, err := automation.RunSweep(cmd.Context(), &automation.Sweep{
		Scene:  sc.Name,
		Field:  field,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Base:   v,
		Width:  width,
		Height: height,
	}, automation.RunOptions{Trace: march.DefaultOptions(), Logger: newLogger(os.Stderr)})
	if err != nil {
		return err
	}

	coverage := make([]float64, len(results))
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOVERAGE\tSHADE\n", strings.ToUpper(field))
	for i, r := range results {
		coverage[i] = r.Coverage
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\n", r.Value, r.Coverage, r.MeanShade)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), asciigraph.Plot(coverage,
		asciigraph.Height(8),
		asciigraph.Caption("coverage by "+field),
	))
	return nil
}

func saveBookmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := pickScene(cfg, nil)
	if err != nil {
		return err
	}
	v, err := initialView(cfg)
	if err != nil {
		return err
	}
	st := storage.New(cfg.Viewer.DataDir).WithLogger(newLogger(os.Stderr))
	b, err := st.SaveBookmark(args[0], sc.Name, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved bookmark %s\n", b.Name)
	return nil
}

func listBookmarks(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	list, err := st.ListBookmarks()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no bookmarks found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCENE\tSAVED\tRENDER\tZOOM\tQUAD")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%t\n",
			b.Name,
			b.Scene,
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.View.RenderType,
			b.View.Zoom,
			b.View.QuadView,
		)
	}
	return w.Flush()
}

func showBookmark(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	b, err := st.LoadBookmark(args[0])
	if err != nil {
		return err
	}
	return printYAML(cmd.OutOrStdout(), b)
}

func listRecordings(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.ListRecordings()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSAMPLES\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Duration,
		)
	}
	return w.Flush()
}

func plotRecording(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, samples, err := st.LoadRecording(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}
	data, err := storage.Column(samples, field)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "recording: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(field+" per sample"),
	)
	fmt.Fprintln(out, graph)

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.SeriesToSVG(data, 800, 300, "#00d4ff")), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgFile)
	}
	return nil
}
