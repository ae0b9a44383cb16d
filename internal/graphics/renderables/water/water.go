package water

import (
	"path"

	"planar-water/assets"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/mesh"
	renderer "planar-water/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const ShadersDir = "shaders/water"

var (
	VertShader = path.Join(ShadersDir, "water.vert")
	FragShader = path.Join(ShadersDir, "water.frag")
)

// Texture units the water program samples from.
const (
	UnitReflection = 0
	UnitRefraction = 1
	UnitDuDv       = 2
)

// Water composites the reflection and refraction attachments onto the
// water quad, distorted by the DuDv map.
type Water struct {
	shader gpu.Program
	model  mgl32.Mat4
}

func NewWater() *Water {
	return &Water{}
}

// Model places the unit quad at height h and scales it to the given half extents.
func Model(h, extentX, extentZ float32) mgl32.Mat4 {
	return mgl32.Translate3D(0, h, 0).Mul4(mgl32.Scale3D(extentX, 1, extentZ))
}

func (w *Water) Init(ctx *renderer.Context) error {
	if _, ok := ctx.Meshes.Handle(mesh.Water); !ok {
		return mesh.ErrUnknownMesh
	}

	var err error
	w.shader, err = gpu.LoadProgram(ctx.Device, assets.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}

	s := ctx.Settings
	w.model = Model(s.WaterHeight, s.WaterExtentX, s.WaterExtentZ)

	w.shader.Use()
	w.shader.SetInt("reflectionTexture", UnitReflection)
	w.shader.SetInt("refractionTexture", UnitRefraction)
	w.shader.SetInt("dudvMap", UnitDuDv)
	return nil
}

func (w *Water) Render(ctx *renderer.Context, pass renderer.PassContext) {
	w.shader.Use()
	w.shader.SetMat4("projection", pass.Proj)
	w.shader.SetMat4("view", pass.View)
	w.shader.SetMat4("model", w.model)
	w.shader.SetVec3("cameraPosition", pass.Camera.Position)
	w.shader.SetFloat("moveFactor", pass.WavePhase)

	dev := ctx.Device
	dev.BindTexture(UnitReflection, ctx.Reflection.Color)
	dev.BindTexture(UnitRefraction, ctx.Refraction.Color)
	dev.BindTexture(UnitDuDv, ctx.Textures.DuDv)

	if err := ctx.Meshes.Draw(mesh.Water); err != nil {
		ctx.Log.Warn("water quad skipped", zap.Error(err))
	}
}

func (w *Water) Dispose() {
	if w.shader != nil {
		w.shader.Delete()
		w.shader = nil
	}
}
