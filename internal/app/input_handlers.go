package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupInputHandlers routes window callbacks into the app. All callbacks run
// on the render thread during glfw.PollEvents.
func SetupInputHandlers(app *App) {
	window := app.window

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		app.handleCursor(xpos, ypos)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		app.handleScroll(yoff)
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		app.handleFocus(focused)
	})

	app.inputManager.SetKeyCallback(window)
}
