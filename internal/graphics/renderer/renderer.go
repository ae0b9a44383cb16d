package renderer

import (
	"errors"
	"fmt"

	"planar-water/internal/camera"

	"go.uber.org/zap"
)

// Features are the renderables the passes draw. Preview is optional.
type Features struct {
	Scene   Renderable
	Water   Renderable
	Preview Renderable
}

// Renderer runs the scene, water and preview passes against one Context.
type Renderer struct {
	ctx      *Context
	features Features
	wave     WaveState

	// ShowPreview draws the off-screen attachments in the screen corners.
	ShowPreview bool
}

// NewRenderer initializes every feature. On failure the ones already
// initialized are disposed.
func NewRenderer(ctx *Context, features Features) (*Renderer, error) {
	if features.Scene == nil || features.Water == nil {
		return nil, errors.New("renderer needs a scene and a water feature")
	}
	if ctx.Reflection == nil || ctx.Refraction == nil {
		return nil, errors.New("renderer needs reflection and refraction targets")
	}

	var ready []Renderable
	for _, r := range features.list() {
		if err := r.Init(ctx); err != nil {
			for i := len(ready) - 1; i >= 0; i-- {
				ready[i].Dispose()
			}
			return nil, fmt.Errorf("init %T: %w", r, err)
		}
		ready = append(ready, r)
	}

	Baseline(ctx)

	return &Renderer{
		ctx:         ctx,
		features:    features,
		wave:        WaveState{Speed: ctx.Settings.WaveSpeed},
		ShowPreview: ctx.Settings.PreviewTargets && features.Preview != nil,
	}, nil
}

func (f Features) list() []Renderable {
	rs := []Renderable{f.Scene, f.Water}
	if f.Preview != nil {
		rs = append(rs, f.Preview)
	}
	return rs
}

// WavePhase returns the current water distortion phase.
func (r *Renderer) WavePhase() float32 {
	return r.wave.Phase
}

// TogglePreview flips the preview overlay if one was configured.
func (r *Renderer) TogglePreview() {
	if r.features.Preview == nil {
		return
	}
	r.ShowPreview = !r.ShowPreview
	r.ctx.Log.Debug("target preview toggled", zap.Bool("visible", r.ShowPreview))
}

func (r *Renderer) pass(cam camera.Camera, dt float64) PassContext {
	return PassContext{
		Camera:    cam,
		View:      cam.ViewMatrix(),
		Proj:      r.ctx.Projection.Matrix(),
		WavePhase: r.wave.Phase,
		DT:        dt,
	}
}

// Reflection draws the scene from below the water into the reflection
// target. cam is not modified; the mirrored view is a separate snapshot.
func (r *Renderer) Reflection(cam camera.Camera, dt float64) {
	defer r.ctx.Profile.Track("renderer.Reflection")()

	h := r.ctx.Settings.WaterHeight
	pass := r.pass(cam.Mirrored(h), dt)
	pass.Plane = ReflectPlane(h)

	exit := reflectionState(r.ctx).Enter(r.ctx)
	defer exit()
	r.features.Scene.Render(r.ctx, pass)
}

// Refraction draws what lies under the water into the refraction target.
func (r *Renderer) Refraction(cam camera.Camera, dt float64) {
	defer r.ctx.Profile.Track("renderer.Refraction")()

	pass := r.pass(cam, dt)
	pass.Plane = RefractPlane(r.ctx.Settings.WaterHeight)

	exit := refractionState(r.ctx).Enter(r.ctx)
	defer exit()
	r.features.Scene.Render(r.ctx, pass)
}

// Main draws the full scene on screen.
func (r *Renderer) Main(cam camera.Camera, dt float64) {
	defer r.ctx.Profile.Track("renderer.Main")()

	pass := r.pass(cam, dt)
	pass.Plane = PassThroughPlane()

	exit := mainState().Enter(r.ctx)
	defer exit()
	r.features.Scene.Render(r.ctx, pass)
}

// WaterComposite advances the wave and draws the water surface over the
// main pass, then the preview overlay when it is visible.
func (r *Renderer) WaterComposite(cam camera.Camera, dt float64) {
	defer r.ctx.Profile.Track("renderer.WaterComposite")()

	r.wave.Advance(dt)
	pass := r.pass(cam, dt)

	func() {
		exit := waterState().Enter(r.ctx)
		defer exit()
		r.features.Water.Render(r.ctx, pass)
	}()

	if r.ShowPreview {
		exit := previewState().Enter(r.ctx)
		defer exit()
		r.features.Preview.Render(r.ctx, pass)
	}
}

// Dispose releases features in reverse order, then the shared context.
func (r *Renderer) Dispose() {
	rs := r.features.list()
	for i := len(rs) - 1; i >= 0; i-- {
		rs[i].Dispose()
	}
	r.ctx.Meshes.Close()
	r.ctx.Targets.Close()
	for _, tex := range []uint32{r.ctx.Textures.Wall, r.ctx.Textures.DuDv} {
		if tex != 0 {
			r.ctx.Device.DeleteTexture(tex)
		}
	}
	r.ctx.Textures = Textures{}
}
