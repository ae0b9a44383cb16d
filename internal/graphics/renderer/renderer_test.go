package renderer_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"planar-water/internal/camera"
	"planar-water/internal/config"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/gpu/gputest"
	"planar-water/internal/graphics/mesh"
	"planar-water/internal/graphics/renderables/preview"
	"planar-water/internal/graphics/renderables/scene"
	"planar-water/internal/graphics/renderables/water"
	renderer "planar-water/internal/graphics/renderer"
	"planar-water/internal/graphics/renderer/renderertest"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDriver feeds a fixed camera and logs Input/Present into the device call log.
type fakeDriver struct {
	dev     *gputest.Device
	cam     camera.Camera
	frames  int
	limit   int
	toggles map[int]bool
}

func (d *fakeDriver) ShouldClose() bool { return d.frames >= d.limit }

func (d *fakeDriver) Input(dt float64) renderer.FrameInput {
	d.dev.Calls = append(d.dev.Calls, "Input")
	return renderer.FrameInput{Camera: d.cam, TogglePreview: d.toggles[d.frames]}
}

func (d *fakeDriver) Present() {
	d.dev.Calls = append(d.dev.Calls, "Present")
	d.frames++
}

// stepClock returns 0, step, 2*step, ...
func stepClock(step float64) func() float64 {
	now := -step
	return func() float64 {
		now += step
		return now
	}
}

type harness struct {
	fx       *renderertest.Fixture
	renderer *renderer.Renderer
	driver   *fakeDriver
	loop     *renderer.Loop
}

func newHarness(t *testing.T, s config.Settings) *harness {
	t.Helper()
	fx := renderertest.NewContext(t, s)
	r, err := renderer.NewRenderer(fx.Ctx, renderer.Features{
		Scene:   scene.NewScene(),
		Water:   water.NewWater(),
		Preview: preview.NewPreview(),
	})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	d := &fakeDriver{dev: fx.Dev, cam: camera.New(s.CameraStart), limit: 1}
	return &harness{
		fx:       fx,
		renderer: r,
		driver:   d,
		loop:     renderer.NewLoop(d, r, stepClock(1.0/60)),
	}
}

func (h *harness) vao(t *testing.T, name string) uint32 {
	t.Helper()
	handle, ok := h.fx.Ctx.Meshes.Handle(name)
	if !ok {
		t.Fatalf("mesh %s not registered", name)
	}
	return handle.VAO
}

func (h *harness) drawsOf(vao uint32) []gputest.Draw {
	var out []gputest.Draw
	for _, d := range h.fx.Dev.Draws {
		if d.VAO == vao {
			out = append(out, d)
		}
	}
	return out
}

func TestFrameRunsStagesInOrder(t *testing.T) {
	h := newHarness(t, config.Default())

	var stages []renderer.Stage
	h.loop.OnStage = func(s renderer.Stage) { stages = append(stages, s) }
	h.fx.Dev.Calls = nil
	h.loop.Frame()

	want := []renderer.Stage{
		renderer.StageInput, renderer.StageReflection, renderer.StageRefraction,
		renderer.StageMain, renderer.StageWaterComposite, renderer.StagePresent,
	}
	if !slices.Equal(stages, want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}

	ctx := h.fx.Ctx
	markers := []string{
		"Input",
		fmt.Sprintf("BindFramebuffer(%d)", ctx.Reflection.Framebuffer),
		fmt.Sprintf("BindFramebuffer(%d)", ctx.Refraction.Framebuffer),
		"Present",
	}
	pos := 0
	for _, call := range h.fx.Dev.Calls {
		if pos < len(markers) && call == markers[pos] {
			pos++
		}
	}
	if pos != len(markers) {
		t.Errorf("calls out of order, matched %d of %v in %v", pos, markers, h.fx.Dev.Calls)
	}
}

func TestPassTargetsAndClipPlanes(t *testing.T) {
	s := config.Default()
	s.WaterHeight = 0.5
	h := newHarness(t, s)
	h.loop.Frame()

	ctx := h.fx.Ctx
	walls := h.drawsOf(h.vao(t, mesh.Wall))
	if len(walls) != 3 {
		t.Fatalf("expected the walls in three passes, got %d", len(walls))
	}

	mirrored := h.driver.cam.Mirrored(s.WaterHeight)
	cam := h.driver.cam
	tests := []struct {
		name  string
		fbo   uint32
		size  [2]int
		plane mgl32.Vec4
		view  mgl32.Mat4
	}{
		{"reflection", ctx.Reflection.Framebuffer, [2]int{800, 600}, renderer.ReflectPlane(0.5), mirrored.ViewMatrix()},
		{"refraction", ctx.Refraction.Framebuffer, [2]int{800, 600}, renderer.RefractPlane(0.5), cam.ViewMatrix()},
		{"main", 0, [2]int{800, 600}, renderer.PassThroughPlane(), cam.ViewMatrix()},
	}
	for i, tt := range tests {
		d := walls[i]
		if d.Framebuffer != tt.fbo || d.Viewport != tt.size {
			t.Errorf("%s: drawn into fbo %d viewport %v", tt.name, d.Framebuffer, d.Viewport)
		}
		if !d.Caps[gpu.ClipDistance0] || !d.Caps[gpu.DepthTest] {
			t.Errorf("%s: expected clip and depth enabled, got %v", tt.name, d.Caps)
		}
		if got := d.Uniforms["plane"]; got != tt.plane {
			t.Errorf("%s: plane %v, want %v", tt.name, got, tt.plane)
		}
		if got := d.Uniforms["view"]; got != tt.view {
			t.Errorf("%s: unexpected view matrix", tt.name)
		}
		if d.Units[0] != ctx.Textures.Wall {
			t.Errorf("%s: wall texture not on unit 0", tt.name)
		}
	}
}

func TestWaterDrawnWithoutClipping(t *testing.T) {
	s := config.Default()
	s.WaterExtentX, s.WaterExtentZ = 4, 6
	h := newHarness(t, s)
	h.loop.Frame()

	ctx := h.fx.Ctx
	draws := h.drawsOf(h.vao(t, mesh.Water))
	if len(draws) != 1 {
		t.Fatalf("expected one water draw, got %d", len(draws))
	}
	d := draws[0]
	if d.Caps[gpu.ClipDistance0] {
		t.Error("clip distance must be off while compositing water")
	}
	if !d.Caps[gpu.DepthTest] || d.Framebuffer != 0 {
		t.Errorf("water should depth test on screen, caps=%v fbo=%d", d.Caps, d.Framebuffer)
	}

	units := map[int]uint32{
		water.UnitReflection: ctx.Reflection.Color,
		water.UnitRefraction: ctx.Refraction.Color,
		water.UnitDuDv:       ctx.Textures.DuDv,
	}
	for unit, tex := range units {
		if d.Units[unit] != tex {
			t.Errorf("unit %d: bound %d, want %d", unit, d.Units[unit], tex)
		}
	}
	if d.Uniforms["moveFactor"] != h.renderer.WavePhase() {
		t.Errorf("moveFactor %v, phase %v", d.Uniforms["moveFactor"], h.renderer.WavePhase())
	}
	if d.Uniforms["model"] != water.Model(0, 4, 6) {
		t.Errorf("water model ignores configured extents: %v", d.Uniforms["model"])
	}
	if d.Uniforms["cameraPosition"] != h.driver.cam.Position {
		t.Errorf("cameraPosition %v", d.Uniforms["cameraPosition"])
	}

	dev := h.fx.Dev
	if dev.Caps[gpu.ClipDistance0] || !dev.Caps[gpu.DepthTest] || dev.Framebuffer != 0 {
		t.Errorf("state not back at baseline after frame: caps=%v fbo=%d", dev.Caps, dev.Framebuffer)
	}
}

func TestCameraUntouchedAcrossFrames(t *testing.T) {
	h := newHarness(t, config.Default())
	h.driver.limit = 25
	before := h.driver.cam

	h.loop.Run()

	if h.driver.frames != 25 {
		t.Fatalf("expected 25 frames, ran %d", h.driver.frames)
	}
	after := h.driver.cam
	if after.Position != (mgl32.Vec3{0, 0, 3}) || after.Position != before.Position {
		t.Errorf("camera moved to %v", after.Position)
	}
	if after.Pitch != before.Pitch || after.Yaw != before.Yaw || after.Front != before.Front {
		t.Errorf("camera orientation changed: pitch %v yaw %v", after.Pitch, after.Yaw)
	}

	// Every main-pass draw used the unmodified camera.
	want := before.ViewMatrix()
	for _, d := range h.drawsOf(h.vao(t, mesh.Floor)) {
		if d.Framebuffer == 0 && d.Uniforms["view"] != want {
			t.Fatal("main pass rendered with a modified camera")
		}
	}
}

func TestPreviewToggle(t *testing.T) {
	h := newHarness(t, config.Default())
	screen := h.vao(t, mesh.Screen)

	h.loop.Frame()
	if n := len(h.drawsOf(screen)); n != 0 {
		t.Fatalf("preview drawn while hidden: %d draws", n)
	}

	h.driver.limit = 3
	h.driver.toggles = map[int]bool{1: true}
	h.loop.Frame()

	draws := h.drawsOf(screen)
	if len(draws) != 2 {
		t.Fatalf("expected two preview quads, got %d", len(draws))
	}
	ctx := h.fx.Ctx
	if draws[0].Units[0] != ctx.Reflection.Color || draws[1].Units[0] != ctx.Refraction.Color {
		t.Error("preview quads show the wrong attachments")
	}
	if draws[0].Uniforms["rect"] != preview.ReflectionRect || draws[1].Uniforms["rect"] != preview.RefractionRect {
		t.Error("preview quads in the wrong corners")
	}
	for _, d := range draws {
		if d.Caps[gpu.DepthTest] || d.Caps[gpu.ClipDistance0] {
			t.Errorf("preview must draw without depth test or clipping, caps=%v", d.Caps)
		}
	}
	if !h.fx.Dev.Caps[gpu.DepthTest] {
		t.Error("depth test not restored after preview")
	}
}

func TestSlowFrameLogged(t *testing.T) {
	h := newHarness(t, config.Default())
	h.loop.SlowFrame = time.Nanosecond
	h.loop.Frame()

	if h.fx.Logs.FilterMessage("slow frame").Len() != 1 {
		t.Error("expected a slow frame log entry")
	}
	if len(h.fx.Ctx.Profile.Snapshot()) == 0 {
		t.Error("expected stage timings to be tracked")
	}
}

func TestNewRendererErrors(t *testing.T) {
	fx := renderertest.NewContext(t, config.Default())
	fx.Dev.ProgramErr = errors.New("compile failed")
	_, err := renderer.NewRenderer(fx.Ctx, renderer.Features{Scene: scene.NewScene(), Water: water.NewWater()})
	if err == nil || !errors.Is(err, fx.Dev.ProgramErr) {
		t.Errorf("expected program error, got %v", err)
	}

	if _, err := renderer.NewRenderer(fx.Ctx, renderer.Features{Scene: scene.NewScene()}); err == nil {
		t.Error("expected error without a water feature")
	}

	fx.Ctx.Models = []string{"statue"}
	fx.Dev.ProgramErr = nil
	_, err = renderer.NewRenderer(fx.Ctx, renderer.Features{Scene: scene.NewScene(), Water: water.NewWater()})
	if !errors.Is(err, mesh.ErrUnknownMesh) {
		t.Errorf("expected unknown model mesh error, got %v", err)
	}
}

func TestDisposeReleasesContext(t *testing.T) {
	h := newHarness(t, config.Default())
	h.loop.Frame()
	h.renderer.Dispose()

	if live := h.fx.Dev.Live(); live != 0 {
		t.Errorf("expected every GPU resource released, %d live", live)
	}
	if h.fx.Ctx.Targets.Len() != 0 {
		t.Error("render targets still owned")
	}
}

func TestRenderStateRevertsOnExit(t *testing.T) {
	fx := renderertest.NewContext(t, config.Default())
	ctx, dev := fx.Ctx, fx.Dev
	renderer.Baseline(ctx)
	dev.Calls = nil

	state := renderer.RenderState{Target: ctx.Refraction, Clear: true, ClipDistance: true}
	exit := state.Enter(ctx)
	if dev.Framebuffer != ctx.Refraction.Framebuffer || !dev.Caps[gpu.ClipDistance0] || dev.Caps[gpu.DepthTest] {
		t.Errorf("state not applied: fbo=%d caps=%v", dev.Framebuffer, dev.Caps)
	}
	if !slices.Contains(dev.Calls, "Clear(depth=true)") {
		t.Error("expected the target to be cleared")
	}

	exit()
	if dev.Framebuffer != 0 || dev.Caps[gpu.ClipDistance0] || !dev.Caps[gpu.DepthTest] {
		t.Errorf("state not reverted: fbo=%d caps=%v", dev.Framebuffer, dev.Caps)
	}
	if dev.ViewportSize != [2]int{800, 600} {
		t.Errorf("viewport not restored: %v", dev.ViewportSize)
	}
}
