package app

import (
	"testing"
	"time"

	"planar-water/internal/camera"
	"planar-water/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func newTestApp() *App {
	return &App{
		inputManager: input.NewInputManager(),
		camera:       camera.New(mgl32.Vec3{0, 0, 3}),
		fpsLimiter:   NewFPSLimiter(0),
		log:          zap.NewNop(),
	}
}

func TestNoInputLeavesCameraAlone(t *testing.T) {
	a := newTestApp()
	start := a.camera

	for i := 0; i < 10; i++ {
		in := a.applyInput(1.0 / 60)
		if in.Camera.Position != start.Position || in.Camera.Pitch != start.Pitch {
			t.Fatalf("camera changed without input: %v", in.Camera.Position)
		}
		if in.TogglePreview {
			t.Fatal("unexpected preview toggle")
		}
	}
	if a.quit {
		t.Error("quit without Escape")
	}
}

func TestMovementUsesFrameTime(t *testing.T) {
	a := newTestApp()
	a.inputManager.HandleKeyEvent(glfw.KeyW, glfw.Press)

	in := a.applyInput(0.5)
	// Facing -Z at the default speed of 2.5 units per second.
	want := float32(3 - 2.5*0.5)
	if d := in.Camera.Position.Z() - want; d > 1e-5 || d < -1e-5 {
		t.Errorf("expected z=%v, got %v", want, in.Camera.Position.Z())
	}
	if a.camera.Position != in.Camera.Position {
		t.Error("app camera and frame snapshot disagree")
	}

	// The snapshot is a copy; changing it must not move the app camera.
	in.Camera.Position[1] = 42
	if a.camera.Position.Y() == 42 {
		t.Error("frame snapshot aliases the app camera")
	}
}

func TestQuitAndPreviewEdges(t *testing.T) {
	a := newTestApp()
	a.inputManager.HandleKeyEvent(glfw.KeyP, glfw.Press)
	if in := a.applyInput(0); !in.TogglePreview {
		t.Error("P should toggle the preview")
	}
	// Held key does not toggle again next frame.
	if in := a.applyInput(0); in.TogglePreview {
		t.Error("held P toggled twice")
	}

	a.inputManager.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	a.applyInput(0)
	if !a.quit {
		t.Error("Escape should request quit")
	}
}

func TestPointerCallbacks(t *testing.T) {
	a := newTestApp()
	yaw := a.camera.Yaw

	a.handleCursor(400, 300)
	if a.camera.Yaw != yaw {
		t.Fatalf("first sample moved the camera to yaw %v", a.camera.Yaw)
	}
	a.handleCursor(410, 300)
	if d := a.camera.Yaw - yaw; d <= 0 || d > 2 {
		t.Errorf("expected a small positive yaw change, got %v", d)
	}

	a.handleFocus(false)
	yaw = a.camera.Yaw
	a.handleCursor(0, 0)
	if a.camera.Yaw != yaw {
		t.Error("sample after focus loss should only reseed the pointer")
	}

	a.handleScroll(10)
	if a.camera.Zoom != 35 {
		t.Errorf("expected zoom 35 after scrolling in, got %v", a.camera.Zoom)
	}
}

func TestFPSLimiter(t *testing.T) {
	NewFPSLimiter(0).Wait()

	f := NewFPSLimiter(200)
	start := time.Now()
	for i := 0; i < 4; i++ {
		f.Wait()
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("four frames at 200 FPS finished in %v", elapsed)
	}
}
