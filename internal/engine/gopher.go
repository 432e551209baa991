package engine

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"WallRig/internal/behaviour"
	"WallRig/internal/logger"
	"WallRig/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Frame is what the loop drives: one Update per tick, then the boxes to draw.
type Frame interface {
	Update(t behaviour.Time)
	Boxes(dst []renderer.Box) []renderer.Box
}

type Gopher struct {
	Width             int32
	Height            int32
	Title             string
	Camera            *renderer.Camera
	Lights            *renderer.Lights
	EnableCameraInput bool

	rendererAPI renderer.Render
	window      *glfw.Window
	clock       *Clock
	boxes       []renderer.Box
	closing     atomic.Bool

	dragging     bool
	lastX, lastY float64
}

func NewGopher(width, height int32, title string, camera *renderer.Camera, lights *renderer.Lights) *Gopher {
	return &Gopher{
		Width:             width,
		Height:            height,
		Title:             title,
		Camera:            camera,
		Lights:            lights,
		EnableCameraInput: true,
		rendererAPI:       renderer.NewBoxRenderer(),
		clock:             NewClock(),
	}
}

// Run opens the window and drives frame until the window closes. It must be
// called from the main goroutine.
func (gopher *Gopher) Run(frame Frame) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("engine: glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("engine: create window: %w", err)
	}
	gopher.window = window
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	SetDarkTitleBar(window)

	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := gopher.rendererAPI.Init(int32(fbWidth), int32(fbHeight)); err != nil {
		return err
	}
	defer gopher.rendererAPI.Cleanup()
	gopher.resize(int32(fbWidth), int32(fbHeight))

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gopher.resize(int32(w), int32(h))
	})
	window.SetMouseButtonCallback(gopher.mouseButtonCallback)
	window.SetCursorPosCallback(gopher.mouseCallback)
	window.SetScrollCallback(gopher.scrollCallback)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	logger.Log.Info("Window opened",
		zap.String("title", gopher.Title),
		zap.Int("width", fbWidth),
		zap.Int("height", fbHeight))

	gopher.RenderLoop(frame)
	return nil
}

func (gopher *Gopher) RenderLoop(frame Frame) {
	gopher.clock.Reset()
	for !gopher.window.ShouldClose() && !gopher.closing.Load() {
		frame.Update(gopher.clock.Tick())

		gopher.boxes = frame.Boxes(gopher.boxes[:0])
		gopher.rendererAPI.Render(gopher.Camera, *gopher.Lights, gopher.boxes)

		gopher.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// RequestClose ends the render loop after the current frame. It is safe to
// call from any goroutine.
func (gopher *Gopher) RequestClose() {
	gopher.closing.Store(true)
}

func (gopher *Gopher) resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	gopher.Width, gopher.Height = width, height
	gopher.rendererAPI.UpdateViewport(width, height)
	gopher.Camera.SetViewport(width, height)
}

func (gopher *Gopher) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	gopher.dragging = action == glfw.Press
	if gopher.dragging {
		gopher.lastX, gopher.lastY = w.GetCursorPos()
	}
}

// Left drag orbits the camera around its target.
func (gopher *Gopher) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if !gopher.EnableCameraInput || !gopher.dragging || w.GetAttrib(glfw.Focused) != glfw.True {
		return
	}
	dx, dy := xpos-gopher.lastX, ypos-gopher.lastY
	gopher.lastX, gopher.lastY = xpos, ypos
	gopher.Camera.Orbit(float32(dx), float32(dy))
}

func (gopher *Gopher) scrollCallback(_ *glfw.Window, _, yoff float64) {
	if !gopher.EnableCameraInput || yoff == 0 {
		return
	}
	if yoff > 0 {
		gopher.Camera.Zoom(0.9)
	} else {
		gopher.Camera.Zoom(1 / 0.9)
	}
}
