package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/config"
	"github.com/Faultbox/glbstudio/internal/engine/debug"
	"github.com/Faultbox/glbstudio/internal/engine/framebuffer"
	"github.com/Faultbox/glbstudio/internal/engine/input"
	"github.com/Faultbox/glbstudio/internal/engine/overlay"
	"github.com/Faultbox/glbstudio/internal/engine/renderer"
	"github.com/Faultbox/glbstudio/internal/engine/texture"
	"github.com/Faultbox/glbstudio/internal/engine/window"
	"github.com/Faultbox/glbstudio/internal/logger"
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
)

// App is the interactive viewer: a window, a renderer and the input loop
// around a Viewer.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	overlay  *overlay.Renderer
	capture  *framebuffer.Target // Created on the first screenshot
	input    *input.Input
	pointer  *input.Pointer
	textures *texture.Loader
	watcher  *Watcher
	shots    *debug.Screenshots

	Viewer *Viewer

	running bool
}

// NewApp opens the window and GL context and loads the configured model.
// A model that fails to load is logged and the viewer starts empty.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.Named("app")

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	width, height := win.DrawableSize()
	bg := cfg.Background()
	rend, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		VSync:      cfg.Window.VSync,
		Background: bg,
	})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	ov, err := overlay.New(width, height)
	if err != nil {
		rend.Close()
		win.Close()
		return nil, fmt.Errorf("creating overlay: %w", err)
	}

	shotDir := cfg.Viewer.Screenshot.Dir
	if shotDir == "" {
		shotDir = filepath.Join(config.ConfigDir(), "screenshots")
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		window:   win,
		renderer: rend,
		overlay:  ov,
		input:    input.New(),
		pointer:  input.NewPointer(input.ButtonLeft),
		textures: texture.NewLoader(texture.Fetch, logger.Named("texture")),
		shots:    debug.NewScreenshots(shotDir, "glbstudio"),
	}
	a.Viewer = New(cfg, Options{
		Textures: a.textures,
		Log:      logger.Named("viewer"),
		OnDiscover: func(d Discovery) {
			log.Info("model discovered",
				zap.Int("nodes", len(d.NodeNames)),
				zap.Int("materials", len(d.MaterialNames)),
				zap.Int("skeletons", len(d.SkeletonNames)),
				zap.Strings("clips", d.Clips))
		},
	})
	a.Viewer.Resize(width, height)

	if path := cfg.Viewer.Model.Path; path != "" {
		a.open(path)
		if cfg.Viewer.Model.Watch {
			a.watch(path)
		}
	}

	return a, nil
}

// open loads path and retitles the window. Errors leave the viewer empty.
func (a *App) open(path string) {
	if err := a.Viewer.Load(path); err != nil {
		a.log.Error("failed to load model", zap.String("path", path), zap.Error(err))
		a.window.SetTitle(a.cfg.Window.Title)
		return
	}
	a.window.SetTitle(fmt.Sprintf("%s - %s", a.cfg.Window.Title, filepath.Base(path)))
}

func (a *App) watch(path string) {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	w, err := Watch(path, logger.Named("watch"))
	if err != nil {
		a.log.Warn("file watching disabled", zap.Error(err))
		return
	}
	a.watcher = w
}

// Run executes the main loop until the window is closed or ESC is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting viewer loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handle(event)
		}
		a.pollWatcher()

		// 2. Update
		snap := a.Viewer.Update(dt)

		// 3. Render
		a.render(snap)

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handle(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		width, height := a.window.DrawableSize()
		a.renderer.Resize(width, height)
		a.overlay.Resize(width, height)
		a.Viewer.Resize(width, height)

	case input.EventDropFile:
		a.open(event.Path)
		if a.cfg.Viewer.Model.Watch {
			a.watch(event.Path)
		}

	case input.EventMouseWheel:
		a.Viewer.Zoom(float64(event.Wheel))

	case input.EventMouseDown, input.EventMouseUp, input.EventMouseMove:
		if event.Type == input.EventMouseDown && event.Button == input.ButtonLeft {
			a.Viewer.PointerDown(float64(event.MouseX), float64(event.MouseY))
		}
		switch a.pointer.Handle(event) {
		case input.GestureDrag:
			a.Viewer.PointerDrag(float64(a.pointer.X), float64(a.pointer.Y),
				float64(a.pointer.DX), float64(a.pointer.DY))
		case input.GestureRelease:
			a.Viewer.PointerRelease()
		case input.GestureClick:
			a.Viewer.PointerRelease()
			if id, ok := a.Viewer.PointerClick(float64(a.pointer.X), float64(a.pointer.Y)); ok {
				a.log.Info("annotation placed", zap.String("id", id))
			}
		}

	case input.EventKeyDown:
		a.key(event.Key)
	}
}

func (a *App) key(code sdl.Scancode) {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		if a.Viewer.Placing() != nil {
			a.Viewer.PlaceMode(nil)
			return
		}
		a.running = false
	case sdl.SCANCODE_SPACE:
		a.Viewer.Handle().Pause()
	case sdl.SCANCODE_N:
		kind := annotation.KindNote
		a.Viewer.PlaceMode(&kind)
	case sdl.SCANCODE_T:
		kind := annotation.KindText
		a.Viewer.PlaceMode(&kind)
	case sdl.SCANCODE_R:
		a.Viewer.MoveCamera(vec(a.cfg.Viewer.Camera.Position), a.cfg.Viewer.Camera.FOV)
	case sdl.SCANCODE_F12:
		a.screenshot()
	}
}

func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	select {
	case path := <-a.watcher.Changes:
		a.log.Info("model changed on disk, reloading", zap.String("path", path))
		a.open(path)
	default:
	}
}

func (a *App) render(snap annotation.Snapshot) {
	a.renderScene()

	a.overlay.Begin()
	a.Viewer.DrawAnnotations(a.overlay, snap)
	a.overlay.End()
}

// renderScene draws the model, grid and skeleton helper.
func (a *App) renderScene() {
	a.renderer.SetBackground(a.Viewer.Background())
	a.renderer.Begin()
	a.renderer.Render(a.Viewer.World(), a.Viewer.Camera, a.Viewer.Lights)

	if grid := a.Viewer.Grid(); len(grid) > 0 {
		a.renderer.DrawLines(grid, a.Viewer.Camera, renderer.LineOptions{DepthTest: true})
	}
	if h := a.Viewer.SkeletonHelper(); h != nil {
		a.renderer.DrawLines(h.Lines, a.Viewer.Camera, renderer.LineOptions{Model: h.Matrix})
	}
	a.renderer.End()
}

// screenshot renders the scene offscreen at the configured scale and
// saves it. Annotation overlays are not part of the capture.
func (a *App) screenshot() {
	width, height := a.renderer.Size()
	scale := max(a.cfg.Viewer.Screenshot.Scale, 1)
	cw, ch := width*scale, height*scale

	var err error
	if a.capture == nil {
		a.capture, err = framebuffer.New(cw, ch)
	} else {
		err = a.capture.Resize(cw, ch)
	}
	if err != nil {
		a.log.Error("screenshot target unavailable", zap.Error(err))
		return
	}

	pixels := a.capture.Capture(func() {
		a.renderer.Resize(cw, ch)
		a.renderScene()
	})
	a.renderer.Resize(width, height)

	path, err := a.shots.SavePixels(pixels, cw, ch)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the viewer, background loaders and the window.
func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.Viewer.Close()
	a.textures.Close()
	if a.capture != nil {
		a.capture.Destroy()
	}
	a.overlay.Close()
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
