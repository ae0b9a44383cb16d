package renderer

import (
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/target"

	"github.com/go-gl/mathgl/mgl32"
)

// ClearColor is the background of every cleared pass.
var ClearColor = mgl32.Vec4{0.2, 0.3, 0.3, 1}

// RenderState is the pipeline state a pass runs under. Outside any pass the
// pipeline sits at the baseline: default framebuffer, depth test on, clip
// distance off.
type RenderState struct {
	// Target is the destination; nil means the default framebuffer.
	Target       *target.RenderTarget
	Clear        bool
	ClearColor   mgl32.Vec4
	DepthTest    bool
	ClipDistance bool
}

// Baseline applies the state that holds between passes.
func Baseline(ctx *Context) {
	ctx.Targets.BindDefault()
	ctx.Device.SetCapability(gpu.DepthTest, true)
	ctx.Device.SetCapability(gpu.ClipDistance0, false)
}

// Enter applies s and returns a function that restores the baseline.
func (s RenderState) Enter(ctx *Context) (exit func()) {
	dev := ctx.Device
	if s.Target != nil {
		ctx.Targets.Bind(s.Target)
	} else {
		ctx.Targets.BindDefault()
	}
	if !s.DepthTest {
		dev.SetCapability(gpu.DepthTest, false)
	}
	if s.ClipDistance {
		dev.SetCapability(gpu.ClipDistance0, true)
	}
	if s.Clear {
		dev.Clear(s.ClearColor, true)
	}

	return func() {
		if s.ClipDistance {
			dev.SetCapability(gpu.ClipDistance0, false)
		}
		if !s.DepthTest {
			dev.SetCapability(gpu.DepthTest, true)
		}
		if s.Target != nil {
			ctx.Targets.BindDefault()
		}
	}
}

// Pass states, in frame order.
func reflectionState(ctx *Context) RenderState {
	return RenderState{Target: ctx.Reflection, Clear: true, ClearColor: ClearColor, DepthTest: true, ClipDistance: true}
}

func refractionState(ctx *Context) RenderState {
	return RenderState{Target: ctx.Refraction, Clear: true, ClearColor: ClearColor, DepthTest: true, ClipDistance: true}
}

func mainState() RenderState {
	return RenderState{Clear: true, ClearColor: ClearColor, DepthTest: true, ClipDistance: true}
}

func waterState() RenderState {
	return RenderState{DepthTest: true}
}

func previewState() RenderState {
	return RenderState{DepthTest: false}
}
