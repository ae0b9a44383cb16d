package app

import (
	"planar-water/internal/camera"
	renderer "planar-water/internal/graphics/renderer"
	"planar-water/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// App is the window side of the frame loop. It owns the fly camera and
// turns polled input into a camera snapshot for each frame.
type App struct {
	window       *glfw.Window
	inputManager *input.InputManager
	camera       camera.Camera
	fpsLimiter   *FPSLimiter
	log          *zap.Logger

	quit bool
}

func New(window *glfw.Window, im *input.InputManager, cam camera.Camera, fpsLimit int, log *zap.Logger) *App {
	return &App{
		window:       window,
		inputManager: im,
		camera:       cam,
		fpsLimiter:   NewFPSLimiter(fpsLimit),
		log:          log,
	}
}

func (a *App) ShouldClose() bool {
	return a.quit || a.window.ShouldClose()
}

// Input applies the key state gathered by the last poll and returns the
// camera to render this frame with.
func (a *App) Input(dt float64) renderer.FrameInput {
	in := a.applyInput(dt)
	if a.quit {
		a.window.SetShouldClose(true)
	}
	return in
}

func (a *App) applyInput(dt float64) renderer.FrameInput {
	im := a.inputManager
	defer im.PostUpdate()

	if im.JustPressed(input.ActionQuit) {
		a.log.Info("quit requested")
		a.quit = true
	}

	step := float32(dt)
	moves := []struct {
		action input.Action
		dir    camera.Direction
	}{
		{input.ActionMoveForward, camera.Forward},
		{input.ActionMoveBackward, camera.Backward},
		{input.ActionMoveLeft, camera.Left},
		{input.ActionMoveRight, camera.Right},
	}
	for _, m := range moves {
		if im.IsActive(m.action) {
			a.camera.ProcessMovement(m.dir, step)
		}
	}

	return renderer.FrameInput{
		Camera:        a.camera,
		TogglePreview: im.JustPressed(input.ActionTogglePreview),
	}
}

// Present shows the frame, collects window events for the next one and
// waits out the frame cap.
func (a *App) Present() {
	a.window.SwapBuffers()
	glfw.PollEvents()
	a.fpsLimiter.Wait()
}

func (a *App) handleCursor(xpos, ypos float64) {
	a.camera.HandlePointer(xpos, ypos)
}

func (a *App) handleScroll(yoff float64) {
	a.camera.ProcessZoom(float32(yoff))
}

func (a *App) handleFocus(focused bool) {
	if !focused {
		// The cursor may move freely while unfocused; do not turn that into a look jump.
		a.camera.ResetPointer()
	}
}
