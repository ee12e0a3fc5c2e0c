// Package config holds the viewer's settings, read from a TOML file and
// overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete viewer configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Camera CameraConfig `toml:"camera"`
	Viewer ViewerConfig `toml:"viewer"`
}

// RenderConfig maps onto render.Options.
type RenderConfig struct {
	Fill       bool    `toml:"fill"`
	Wireframe  bool    `toml:"wireframe"`
	Texture    bool    `toml:"texture"`
	Cull       bool    `toml:"cull"`
	Axes       bool    `toml:"axes"`
	Ambient    float64 `toml:"ambient"`
	FillColor  Color   `toml:"fill_color"`
	WireColor  Color   `toml:"wire_color"`
	Background Color   `toml:"background"`

	// LightDir points toward the light in world space; all zeros lights
	// from the camera.
	LightDir [3]float64 `toml:"light_dir"`
}

// CameraConfig places the initial camera. FOV is in degrees.
type CameraConfig struct {
	Position [3]float64 `toml:"position"`
	Target   [3]float64 `toml:"target"`
	FOV      float64    `toml:"fov"`
	Near     float64    `toml:"near"`
	Far      float64    `toml:"far"`
}

// ViewerConfig controls the interactive viewer.
type ViewerConfig struct {
	TickMS       int     `toml:"tick_ms"`
	FlySpeed     float64 `toml:"fly_speed"`
	MoveStep     float64 `toml:"move_step"`
	RotateStep   float64 `toml:"rotate_step"`
	ScaleStep    float64 `toml:"scale_step"`
	MinScale     float64 `toml:"min_scale"`
	Spin         bool    `toml:"spin"` // start with the turntable on
	Texture      string  `toml:"texture"`
	WatchTexture bool    `toml:"watch_texture"`
	LogLevel     string  `toml:"log_level"`
	LogFile      string  `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Fill:       true,
			Texture:    true,
			Ambient:    0.2,
			FillColor:  Color(render.ColorLightBlue),
			WireColor:  Color(render.ColorWhite),
			Background: Color(render.RGB(30, 30, 40)),
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 0, 5},
			FOV:      60,
			Near:     0.1,
			Far:      1000,
		},
		Viewer: ViewerConfig{
			TickMS:       15,
			FlySpeed:     1,
			MoveStep:     1,
			RotateStep:   0.1,
			ScaleStep:    0.1,
			MinScale:     0.01,
			WatchTexture: true,
			LogLevel:     "info",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("decode config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path as TOML.
func Save(cfg Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Render.Ambient >= 0 && c.Render.Ambient <= 1, "render.ambient %v not in [0, 1]", c.Render.Ambient)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov %v not in (0, 180)", c.Camera.FOV)
	check(c.Camera.Near > 0, "camera.near %v must be positive", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera.far %v must exceed camera.near %v", c.Camera.Far, c.Camera.Near)
	check(c.Viewer.TickMS > 0, "viewer.tick_ms %d must be positive", c.Viewer.TickMS)
	check(c.Viewer.FlySpeed > 0, "viewer.fly_speed %v must be positive", c.Viewer.FlySpeed)
	check(c.Viewer.MinScale > 0, "viewer.min_scale %v must be positive", c.Viewer.MinScale)

	if _, err := c.Viewer.Level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: viewer.log_level: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// RenderOptions converts the render section into compositor options.
func (c Config) RenderOptions() render.Options {
	r := c.Render
	return render.Options{
		Fill:       r.Fill,
		Wireframe:  r.Wireframe,
		UseTexture: r.Texture,
		Cull:       r.Cull,
		Axes:       r.Axes,
		Ambient:    r.Ambient,
		FillColor:  render.Color(r.FillColor),
		WireColor:  render.Color(r.WireColor),
		Background: render.Color(r.Background),
		LightDir:   vec(r.LightDir),
	}
}

// NewCamera builds the configured camera for a target of the given aspect
// ratio. A target equal to the position keeps the default orientation.
func (c CameraConfig) NewCamera(aspect float64) *render.Camera {
	return render.NewCameraLookAt(vec(c.Position), vec(c.Target),
		c.FOV*math.Pi/180, aspect, c.Near, c.Far)
}

// Tick returns the frame interval.
func (v ViewerConfig) Tick() time.Duration {
	return time.Duration(v.TickMS) * time.Millisecond
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (v ViewerConfig) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(v.LogLevel))
	return l, err
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// Color is an opaque RGB color written as "R,G,B" in files and flags.
type Color render.Color

// String implements flag.Value.
func (c *Color) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Set implements flag.Value.
func (c *Color) Set(s string) error {
	return c.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses "R,G,B" with each channel in [0, 255].
func (c *Color) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 3 {
		return fmt.Errorf("color %q: want R,G,B", text)
	}
	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return fmt.Errorf("color %q: %w", text, err)
		}
		ch[i] = uint8(n)
	}
	*c = Color{R: ch[0], G: ch[1], B: ch[2], A: 255}
	return nil
}
