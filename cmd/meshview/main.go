// meshview - software 3D mesh renderer for the terminal.
// Renders glTF/GLB models (or a cube) with a depth-buffered rasterizer and
// shows them with half-block characters, or writes a single frame to an
// image file.
//
// Controls:
//
//	W/A/S/D      - Fly forward/left/back/right (hold shift for x3)
//	Space/C      - Fly up/down
//	Arrows       - Look around
//	Mouse drag   - Look around
//	Scroll       - Change fly speed
//	M            - Cycle edit mode (move, rotate, scale)
//	1/2/3        - Edit axis X/Y/Z
//	[ / ]        - Apply edit step negative/positive
//	0            - Reset active model transform
//	Tab          - Select next model
//	H            - Hide/show active model
//	N            - Switch to next camera
//	K            - Add a camera at the current view
//	Delete       - Remove the active camera
//	F            - Toggle fill
//	X            - Toggle wireframe
//	T            - Toggle texture (shift+T cycles textures)
//	G            - Toggle world axes
//	P            - Spin the active model
//	O            - Toggle turntable rotation
//	R            - Reset camera
//	?            - Toggle HUD
//	Esc/Q        - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "Path to a TOML config file")
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG/BMP/TIFF/WebP)")
	outPath     = flag.String("out", "", "Render one frame to this image file and exit")
	outSize     = flag.String("size", "640x480", "Image size for -out (WxH)")
	tickMS      = flag.Int("tick", 0, "Frame interval in milliseconds")
	wireframe   = flag.Bool("wireframe", false, "Draw polygon outlines")
	noFill      = flag.Bool("nofill", false, "Disable filled polygons")
	cull        = flag.Bool("cull", false, "Skip meshes outside the view frustum")
	ambient     = flag.Float64("ambient", 0, "Ambient light in [0, 1]")
	logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile     = flag.String("log-file", "", "Write logs to this file")
	writeConfig = flag.String("write-config", "", "Write the effective config to this file and exit")

	bgColor   config.Color
	fillColor config.Color
)

func main() {
	flag.Var(&bgColor, "bg", "Background color (R,G,B)")
	flag.Var(&fillColor, "color", "Fill color for untextured models (R,G,B)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "meshview - terminal 3D mesh renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: meshview [options] [model.gltf|model.glb ...]\n\n")
		fmt.Fprintf(os.Stderr, "With no model a cube is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Fly (shift for x3)\n")
		fmt.Fprintf(os.Stderr, "  Space/C     - Fly up/down\n")
		fmt.Fprintf(os.Stderr, "  Arrows/drag - Look around\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Fly speed\n")
		fmt.Fprintf(os.Stderr, "  M, 1/2/3, [ ] - Edit mode, axis, step\n")
		fmt.Fprintf(os.Stderr, "  Tab         - Next model\n")
		fmt.Fprintf(os.Stderr, "  N/K/Delete  - Next/add/remove camera\n")
		fmt.Fprintf(os.Stderr, "  F/X/T/G     - Fill, wireframe, texture, axes\n")
		fmt.Fprintf(os.Stderr, "  P/O         - Spin model, toggle turntable\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *writeConfig != "" {
		return config.Save(cfg, *writeConfig)
	}

	closeLog, err := setupLogger(cfg.Viewer, *outPath != "")
	if err != nil {
		return err
	}
	defer closeLog()

	textures := render.NewTextureCache()
	sc := scene.New()
	sc.ActiveCamera().Camera = cfg.Camera.NewCamera(1)
	if err := loadModels(sc, textures, paths); err != nil {
		return err
	}
	if cfg.Viewer.Texture != "" {
		if _, err := textures.Load(cfg.Viewer.Texture); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load texture: %v\n", err)
		}
	}
	if textures.Current() == nil {
		checker := render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
		textures.Add(checker)
		textures.SetCurrentTexture(checker)
	}

	comp := render.NewCompositor(cfg.RenderOptions())
	comp.SetTexture(textures.Current())

	if *outPath != "" {
		return renderImage(cfg, sc, comp, *outPath, *outSize)
	}
	return newViewer(cfg, sc, comp, textures).Run()
}

// loadConfig reads the config file, if any, then applies flags the user
// set explicitly.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "texture":
			cfg.Viewer.Texture = *texturePath
		case "tick":
			cfg.Viewer.TickMS = *tickMS
		case "wireframe":
			cfg.Render.Wireframe = *wireframe
		case "nofill":
			cfg.Render.Fill = !*noFill
		case "cull":
			cfg.Render.Cull = *cull
		case "ambient":
			cfg.Render.Ambient = *ambient
		case "bg":
			cfg.Render.Background = bgColor
		case "color":
			cfg.Render.FillColor = fillColor
		case "log-level":
			cfg.Viewer.LogLevel = *logLevel
		case "log-file":
			cfg.Viewer.LogFile = *logFile
		}
	})
	return cfg, cfg.Validate()
}

// setupLogger installs the render logger. The terminal UI owns stdout and
// stderr, so without a log file the interactive viewer logs nowhere.
func setupLogger(vc config.ViewerConfig, headless bool) (func(), error) {
	level, err := vc.Level()
	if err != nil {
		return nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case vc.LogFile != "":
		f, err := os.OpenFile(vc.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case headless:
		w = os.Stderr
	}

	render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}

// loadModels adds every model file to the scene, or a cube when there are
// none. Models are normalized to a 2-unit box and laid out along X.
func loadModels(sc *scene.Scene, textures *render.TextureCache, paths []string) error {
	if len(paths) == 0 {
		sc.AddModel(models.NewCube(2), "cube")
		return nil
	}

	for i, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".gltf" && ext != ".glb" {
			return fmt.Errorf("unsupported format: %s (use .gltf or .glb)", ext)
		}

		mesh, img, err := models.LoadGLTFWithTexture(path)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		if img != nil && textures.Current() == nil {
			tex := render.TextureFromImage(img)
			tex.Name = filepath.Base(path) + "#texture"
			textures.Add(tex)
			textures.SetCurrentTexture(tex)
		}

		models.Triangulate(mesh)
		normalize(mesh)
		mesh.Transform.Translation = math3d.V3(float64(i)*3, 0, 0)
		sc.AddModel(mesh, filepath.Base(path))
		render.Logger().Info("model loaded", "path", path,
			"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	}
	return nil
}

// normalize centers mesh on the origin and scales its largest dimension
// to 2, baking the result into the vertices.
func normalize(mesh *models.Mesh) {
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	s := 2 / maxDim
	mesh.Transform = models.Transform{
		Translation: mesh.Center().Scale(-s),
		Scale:       s,
	}
	mesh.ApplyTransform()
}

// renderImage draws one frame through the active camera and saves it.
func renderImage(cfg config.Config, sc *scene.Scene, comp *render.Compositor, path, size string) error {
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil {
		return fmt.Errorf("parse -size %q: %w", size, err)
	}

	cam := cfg.Camera.NewCamera(float64(w) / float64(h))
	sc.ActiveCamera().Camera = cam

	stats, err := sc.Render(comp, w, h)
	if err != nil {
		return err
	}
	if err := comp.Framebuffer().Save(path); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	render.Logger().Info("frame written", "path", path,
		"width", w, "height", h, "triangles", stats.Triangles, "pixels", stats.Pixels)
	return nil
}
