package preview

import (
	"path"

	"planar-water/assets"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/mesh"
	renderer "planar-water/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const ShadersDir = "shaders/preview"

var (
	VertShader = path.Join(ShadersDir, "preview.vert")
	FragShader = path.Join(ShadersDir, "preview.frag")
)

// Corner rectangles in NDC as (x, y, width, height).
var (
	ReflectionRect = mgl32.Vec4{-1, 0.5, 0.5, 0.5}
	RefractionRect = mgl32.Vec4{0.5, 0.5, 0.5, 0.5}
)

// Preview shows the reflection and refraction color attachments in the top
// corners of the screen.
type Preview struct {
	shader gpu.Program
}

func NewPreview() *Preview {
	return &Preview{}
}

func (p *Preview) Init(ctx *renderer.Context) error {
	if _, ok := ctx.Meshes.Handle(mesh.Screen); !ok {
		return mesh.ErrUnknownMesh
	}
	var err error
	p.shader, err = gpu.LoadProgram(ctx.Device, assets.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}
	p.shader.Use()
	p.shader.SetInt("screenTexture", 0)
	return nil
}

func (p *Preview) Render(ctx *renderer.Context, _ renderer.PassContext) {
	p.shader.Use()
	p.draw(ctx, ctx.Reflection.Color, ReflectionRect)
	p.draw(ctx, ctx.Refraction.Color, RefractionRect)
}

func (p *Preview) draw(ctx *renderer.Context, tex uint32, rect mgl32.Vec4) {
	p.shader.SetVec4("rect", rect)
	ctx.Device.BindTexture(0, tex)
	if err := ctx.Meshes.Draw(mesh.Screen); err != nil {
		ctx.Log.Warn("preview quad skipped", zap.Error(err))
	}
}

func (p *Preview) Dispose() {
	if p.shader != nil {
		p.shader.Delete()
		p.shader = nil
	}
}
