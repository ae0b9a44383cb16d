package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fovTransition is how long a zoom change takes to settle, in seconds.
const fovTransition = 0.15

// Projection holds the perspective parameters shared by every pass.
// The field of view eases toward its target instead of snapping.
type Projection struct {
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	fov    float32
	target float32
	tween  *gween.Tween
}

func NewProjection(aspect, fov, near, far float32) *Projection {
	return &Projection{
		AspectRatio: aspect,
		NearPlane:   near,
		FarPlane:    far,
		fov:         fov,
		target:      fov,
	}
}

// SetTargetFOV starts easing toward fov degrees.
func (p *Projection) SetTargetFOV(fov float32) {
	if fov == p.target {
		return
	}
	p.target = fov
	p.tween = gween.New(p.fov, fov, fovTransition, ease.OutQuad)
}

// Update advances the FOV transition by dt seconds.
func (p *Projection) Update(dt float32) {
	if p.tween == nil {
		return
	}
	fov, done := p.tween.Update(dt)
	p.fov = fov
	if done {
		p.fov = p.target
		p.tween = nil
	}
}

// FOV returns the current vertical field of view in degrees.
func (p *Projection) FOV() float32 {
	return p.fov
}

func (p *Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.fov), p.AspectRatio, p.NearPlane, p.FarPlane)
}
