package scene

import (
	"fmt"
	"path"

	"planar-water/assets"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/mesh"
	renderer "planar-water/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const ShadersDir = "shaders/scene"

var (
	VertShader = path.Join(ShadersDir, "scene.vert")
	FragShader = path.Join(ShadersDir, "scene.frag")
)

// Scene draws the fixed room geometry, plus any loaded models, into the
// currently bound target with the pass clip plane.
type Scene struct {
	shader gpu.Program
	meshes []string
}

func NewScene() *Scene {
	return &Scene{}
}

// Init compiles the scene program and checks that every mesh it draws is registered.
func (s *Scene) Init(ctx *renderer.Context) error {
	s.meshes = append([]string{mesh.Wall, mesh.Floor}, ctx.Models...)
	for _, name := range s.meshes {
		if _, ok := ctx.Meshes.Handle(name); !ok {
			return fmt.Errorf("scene: %w: %s", mesh.ErrUnknownMesh, name)
		}
	}

	var err error
	s.shader, err = gpu.LoadProgram(ctx.Device, assets.Shaders, VertShader, FragShader)
	if err != nil {
		return err
	}
	s.shader.Use()
	s.shader.SetInt("texture1", 0)
	return nil
}

// Render draws every scene mesh with the wall texture on unit 0.
func (s *Scene) Render(ctx *renderer.Context, pass renderer.PassContext) {
	s.shader.Use()
	s.shader.SetMat4("projection", pass.Proj)
	s.shader.SetMat4("view", pass.View)
	s.shader.SetMat4("model", mgl32.Ident4())
	s.shader.SetVec4("plane", pass.Plane)

	ctx.Device.BindTexture(0, ctx.Textures.Wall)
	for _, name := range s.meshes {
		if err := ctx.Meshes.Draw(name); err != nil {
			ctx.Log.Warn("scene mesh skipped", zap.String("mesh", name), zap.Error(err))
		}
	}
}

func (s *Scene) Dispose() {
	if s.shader != nil {
		s.shader.Delete()
		s.shader = nil
	}
}
