package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/fsnotify/fsnotify"
	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/scene"
)

const (
	flyStep    = 0.2  // world units per key press at speed 1
	lookStep   = 0.05 // radians per arrow key press
	mouseLook  = 0.01 // radians per cell dragged
	shiftBoost = 3
	minSpeed   = 0.05
	maxSpeed   = 50

	turntableRate = 0.5 // radians per second
)

var errNoModel = errors.New("no model selected")

// EditMode selects what the edit keys change on the active model.
type EditMode int

const (
	EditMove EditMode = iota
	EditRotate
	EditScale
)

func (m EditMode) String() string {
	switch m {
	case EditRotate:
		return "rotate"
	case EditScale:
		return "scale"
	}
	return "move"
}

// HUD tracks the frame rate shown on the status line.
type HUD struct {
	Visible   bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

type viewer struct {
	cfg      config.Config
	scene    *scene.Scene
	comp     *render.Compositor
	textures *render.TextureCache

	term          *uv.Terminal
	width, height int

	mode      EditMode
	axis      int
	spin      Spin
	turntable bool
	speed     Speed
	hud       HUD
	notice    string

	mouseDown    bool
	lastX, lastY int
	lastStats    render.FrameStats
}

func newViewer(cfg config.Config, sc *scene.Scene, comp *render.Compositor, textures *render.TextureCache) *viewer {
	fps := framesPerSecond(cfg.Viewer.Tick())
	return &viewer{
		cfg:       cfg,
		scene:     sc,
		comp:      comp,
		textures:  textures,
		spin:      NewSpin(fps),
		turntable: cfg.Viewer.Spin,
		speed:     NewSpeed(fps, cfg.Viewer.FlySpeed, minSpeed, maxSpeed),
		hud:       HUD{Visible: true, fpsTime: time.Now()},
	}
}

// framesPerSecond converts the frame interval to the rate the springs are
// stepped at. Intervals longer than a second still step once per frame.
func framesPerSecond(tick time.Duration) int {
	if tick <= 0 {
		return 1
	}
	return max(int(time.Second/tick), 1)
}

// Run drives the terminal UI until the user quits. Events, texture reloads
// and frames are all handled on this goroutine, so a frame always runs to
// completion before the next input is applied.
func (v *viewer) Run() error {
	v.term = uv.DefaultTerminal()

	width, height, err := v.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := v.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	v.term.EnterAltScreen()
	v.term.HideCursor()
	v.resize(width, height)

	// any-event mouse tracking, SGR extended mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		v.term.ExitAltScreen()
		v.term.ShowCursor()
		v.term.Shutdown(context.Background())
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reloads := v.watchTexture(ctx)
	ticker := time.NewTicker(v.cfg.Viewer.Tick())
	defer ticker.Stop()
	events := v.term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || v.handle(ev) {
				return nil
			}
		case path := <-reloads:
			if _, err := v.textures.Load(path); err == nil {
				v.comp.SetTexture(v.textures.Current())
			}
		case <-ticker.C:
			if err := v.frame(); err != nil {
				return err
			}
		}
	}
}

func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.term.Resize(width, height)
}

// viewport returns the terminal rows given to the picture; the last row
// holds the status line while the HUD is on.
func (v *viewer) viewport() uv.Rectangle {
	rows := v.height
	if v.hud.Visible {
		rows--
	}
	return uv.Rect(0, 0, v.width, max(rows, 1))
}

// advance moves the animation on by one tick: the active model's spin and
// turntable rotation, and the fly-speed easing.
func (v *viewer) advance() {
	if m := v.scene.ActiveModel(); m != nil {
		turn := v.spin.Step()
		if v.turntable {
			turn += turntableRate * v.cfg.Viewer.Tick().Seconds()
		}
		m.Mesh.Transform.Rotation.Y += turn
	}
	v.speed.Step()
}

// report keeps err for the status line and logs it.
func (v *viewer) report(err error) {
	if err == nil {
		return
	}
	v.notice = err.Error()
	render.Logger().Warn("viewer", "err", err)
}

func (v *viewer) frame() error {
	v.advance()

	area := v.viewport()
	fbW, fbH := area.Dx(), area.Dy()*2
	cam := v.scene.ActiveCamera().Camera
	cam.SetAspectRatio(float64(fbW) / float64(fbH))

	stats, err := v.scene.Render(v.comp, fbW, fbH)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	v.lastStats = stats

	v.comp.Framebuffer().Draw(v.term, area)
	v.hud.UpdateFPS()
	if v.hud.Visible {
		v.drawStatus(area.Max.Y)
	}
	return v.term.Display()
}

func (v *viewer) drawStatus(row int) {
	name := "-"
	if m := v.scene.ActiveModel(); m != nil {
		name = m.Name
		if !m.Visible {
			name += " (hidden)"
		}
	}
	opts := v.comp.Options()
	texture := "off"
	if opts.UseTexture && v.comp.Texture() != nil {
		texture = v.comp.Texture().Name
	}
	line := fmt.Sprintf(" %s | %s %c | cam %s | speed %.2f | tex %s | %d tris %d px | %.0f fps",
		name, v.mode, "XYZ"[v.axis], v.scene.ActiveCamera().Name, v.speed.Current,
		texture, v.lastStats.Triangles, v.lastStats.Pixels, v.hud.fps)
	if v.notice != "" {
		line += " | " + v.notice
	}
	line = fmt.Sprintf("%-*s", v.width, line)
	render.DrawText(v.term, 0, row, line, render.ColorWhite, render.RGB(20, 20, 28))
}

// handle applies one input event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.term.Erase()
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		return v.handleKey(ev)

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			cam := v.scene.ActiveCamera().Camera
			cam.AddYawPitch(-float64(ev.X-v.lastX)*mouseLook, -float64(ev.Y-v.lastY)*mouseLook)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.speed.Scale(1.25)
		case uv.MouseWheelDown:
			v.speed.Scale(0.8)
		}
	}
	return false
}

func (v *viewer) handleKey(ev uv.KeyPressEvent) bool {
	v.notice = ""
	cam := v.scene.ActiveCamera().Camera
	step := flyStep * v.speed.Current

	switch {
	case ev.MatchString("escape", "q", "ctrl+c"):
		return true

	// fly
	case ev.MatchString("w"):
		cam.MoveForward(step)
	case ev.MatchString("shift+w", "W"):
		cam.MoveForward(step * shiftBoost)
	case ev.MatchString("s"):
		cam.MoveForward(-step)
	case ev.MatchString("shift+s", "S"):
		cam.MoveForward(-step * shiftBoost)
	case ev.MatchString("d"):
		cam.MoveRight(step)
	case ev.MatchString("shift+d", "D"):
		cam.MoveRight(step * shiftBoost)
	case ev.MatchString("a"):
		cam.MoveRight(-step)
	case ev.MatchString("shift+a", "A"):
		cam.MoveRight(-step * shiftBoost)
	case ev.MatchString("space"):
		cam.MoveUp(step)
	case ev.MatchString("c"):
		cam.MoveUp(-step)

	// look
	case ev.MatchString("left"):
		cam.AddYawPitch(lookStep, 0)
	case ev.MatchString("right"):
		cam.AddYawPitch(-lookStep, 0)
	case ev.MatchString("up"):
		cam.AddYawPitch(0, lookStep)
	case ev.MatchString("down"):
		cam.AddYawPitch(0, -lookStep)
	case ev.MatchString("r"):
		v.scene.ActiveCamera().Camera = v.cfg.Camera.NewCamera(cam.AspectRatio)

	// model editing
	case ev.MatchString("m"):
		v.mode = (v.mode + 1) % 3
	case ev.MatchString("1"):
		v.axis = 0
	case ev.MatchString("2"):
		v.axis = 1
	case ev.MatchString("3"):
		v.axis = 2
	case ev.MatchString("]"):
		v.edit(1)
	case ev.MatchString("["):
		v.edit(-1)
	case ev.MatchString("0"):
		if m := v.scene.ActiveModel(); m != nil {
			m.Mesh.Transform.Reset()
			v.spin = NewSpin(framesPerSecond(v.cfg.Viewer.Tick()))
		}
	case ev.MatchString("p"):
		v.spin.Impulse(0.15)
	case ev.MatchString("o"):
		v.turntable = !v.turntable
	case ev.MatchString("tab"):
		v.scene.CycleModel()
	case ev.MatchString("h"):
		v.toggleVisible()

	// cameras
	case ev.MatchString("n"):
		v.scene.CycleCamera()
	case ev.MatchString("k"):
		cp := *cam
		c := v.scene.AddCamera(&cp, fmt.Sprintf("Camera %d", len(v.scene.Cameras())+1))
		v.scene.SetActiveCamera(c.ID)
	case ev.MatchString("delete"):
		v.removeCamera()

	// display
	case ev.MatchString("f"):
		v.comp.SetFill(!v.comp.Options().Fill)
	case ev.MatchString("x"):
		v.comp.SetWireframe(!v.comp.Options().Wireframe)
	case ev.MatchString("t"):
		opts := v.comp.Options()
		opts.UseTexture = !opts.UseTexture
		v.comp.SetOptions(opts)
	case ev.MatchString("shift+t", "T"):
		v.nextTexture()
	case ev.MatchString("g"):
		opts := v.comp.Options()
		opts.Axes = !opts.Axes
		v.comp.SetOptions(opts)
	case ev.MatchString("?", "shift+/"):
		v.hud.Visible = !v.hud.Visible
		v.term.Erase()
	}
	return false
}

// edit applies one step of the current edit mode to the active model.
func (v *viewer) edit(sign float64) {
	m := v.scene.ActiveModel()
	if m == nil {
		return
	}
	var axis math3d.Vec3
	switch v.axis {
	case 0:
		axis = math3d.V3(1, 0, 0)
	case 1:
		axis = math3d.V3(0, 1, 0)
	default:
		axis = math3d.V3(0, 0, 1)
	}

	vc := v.cfg.Viewer
	t := &m.Mesh.Transform
	switch v.mode {
	case EditMove:
		t.Translate(axis.Scale(sign * vc.MoveStep))
	case EditRotate:
		t.Rotate(axis.Scale(sign * vc.RotateStep))
	case EditScale:
		t.ScaleBy(sign*vc.ScaleStep, vc.MinScale)
	}
}

func (v *viewer) nextTexture() {
	names := v.textures.Names()
	if len(names) == 0 {
		return
	}
	next := 0
	if cur := v.textures.Current(); cur != nil {
		for i, n := range names {
			if n == cur.Name {
				next = (i + 1) % len(names)
				break
			}
		}
	}
	if err := v.textures.SetCurrent(names[next]); err != nil {
		v.report(err)
		return
	}
	v.comp.SetTexture(v.textures.Current())
}

func (v *viewer) removeCamera() {
	v.report(v.scene.RemoveCamera(v.scene.ActiveCamera().ID))
}

func (v *viewer) toggleVisible() {
	m := v.scene.ActiveModel()
	if m == nil {
		v.report(errNoModel)
		return
	}
	v.report(v.scene.SetVisible(m.ID, !m.Visible))
}

// watchTexture reports the configured texture path whenever the file is
// written. The directory is watched so editors that replace the file on
// save are seen too. It returns nil when watching is off.
func (v *viewer) watchTexture(ctx context.Context) <-chan string {
	path := v.cfg.Viewer.Texture
	if path == "" || !v.cfg.Viewer.WatchTexture {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		render.Logger().Warn("texture watch disabled", "err", err)
		return nil
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		render.Logger().Warn("texture watch disabled", "path", path, "err", err)
		w.Close()
		return nil
	}

	target := filepath.Clean(path)
	out := make(chan string, 1)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				render.Logger().Debug("texture changed", "path", path, "op", ev.Op)
				select {
				case out <- path:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				render.Logger().Warn("texture watch", "err", err)
			}
		}
	}()
	return out
}
