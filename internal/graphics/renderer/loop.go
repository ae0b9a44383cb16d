package renderer

import (
	"fmt"
	"time"

	"planar-water/internal/camera"

	"go.uber.org/zap"
)

// Stage is one step of a frame.
type Stage int

const (
	StageInput Stage = iota
	StageReflection
	StageRefraction
	StageMain
	StageWaterComposite
	StagePresent
)

var stageNames = [...]string{"Input", "Reflection", "Refraction", "Main", "WaterComposite", "Present"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the stage that follows s. Present wraps back to Input.
func (s Stage) Next() Stage {
	if s >= StagePresent || s < 0 {
		return StageInput
	}
	return s + 1
}

// FrameInput is what the platform reports for one frame.
type FrameInput struct {
	Camera        camera.Camera
	TogglePreview bool
}

// Driver is the window/platform side of the loop.
type Driver interface {
	ShouldClose() bool
	// Input polls and applies this frame's input and returns the camera to render with.
	Input(dt float64) FrameInput
	// Present swaps buffers and waits out any frame cap.
	Present()
}

// DefaultSlowFrame is the processing time above which a frame is logged.
const DefaultSlowFrame = 16 * time.Millisecond

// Loop drives a Renderer through the frame stages until the driver closes.
type Loop struct {
	driver   Driver
	renderer *Renderer
	clock    func() float64
	last     float64
	started  bool

	// SlowFrame triggers a debug log with the slowest stages; 0 disables it.
	SlowFrame time.Duration
	// OnStage, when set, is called as each stage begins.
	OnStage func(Stage)
}

// NewLoop builds a loop. clock returns seconds, such as glfw.GetTime.
func NewLoop(driver Driver, r *Renderer, clock func() float64) *Loop {
	return &Loop{driver: driver, renderer: r, clock: clock, SlowFrame: DefaultSlowFrame}
}

// Run renders frames until the driver reports the window should close.
func (l *Loop) Run() {
	for !l.driver.ShouldClose() {
		l.Frame()
	}
	l.renderer.ctx.Log.Info("window closed, leaving frame loop")
}

// Frame runs one full pass through the stages, Input to Present.
func (l *Loop) Frame() {
	ctx := l.renderer.ctx
	ctx.Profile.Reset()
	start := time.Now()

	now := l.clock()
	dt := 0.0
	if l.started {
		dt = now - l.last
	}
	l.last, l.started = now, true

	var cam camera.Camera
	for stage := StageInput; ; stage = stage.Next() {
		if l.OnStage != nil {
			l.OnStage(stage)
		}

		switch stage {
		case StageInput:
			stop := ctx.Profile.Track("loop.Input")
			in := l.driver.Input(dt)
			cam = in.Camera
			if in.TogglePreview {
				l.renderer.TogglePreview()
			}
			ctx.Projection.SetTargetFOV(cam.Zoom)
			ctx.Projection.Update(float32(dt))
			stop()
		case StageReflection:
			l.renderer.Reflection(cam, dt)
		case StageRefraction:
			l.renderer.Refraction(cam, dt)
		case StageMain:
			l.renderer.Main(cam, dt)
		case StageWaterComposite:
			l.renderer.WaterComposite(cam, dt)
		case StagePresent:
			if d := time.Since(start); l.SlowFrame > 0 && d > l.SlowFrame {
				ctx.Log.Debug("slow frame",
					zap.Duration("took", d),
					zap.String("top", ctx.Profile.TopN(5)))
			}
			l.driver.Present()
			return
		}
	}
}
