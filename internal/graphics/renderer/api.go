package renderer

import (
	"planar-water/internal/camera"
	"planar-water/internal/config"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/mesh"
	"planar-water/internal/graphics/target"
	"planar-water/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Textures are the image textures loaded at startup. A zero handle means
// the image failed to load and the slot stays unbound.
type Textures struct {
	Wall uint32
	DuDv uint32
}

// Context owns every GPU handle the passes share. It is built once at
// startup and handed to each renderable explicitly.
type Context struct {
	Device  gpu.Device
	Targets *target.Manager
	Meshes  *mesh.Registry

	Reflection *target.RenderTarget
	Refraction *target.RenderTarget
	Textures   Textures

	// Models lists registry names of optional glTF meshes drawn with the walls.
	Models []string

	Projection *camera.Projection
	Settings   config.Settings
	Log        *zap.Logger
	Profile    *profiling.Frame
}

// PassContext is what a renderable needs to draw within one pass.
type PassContext struct {
	Camera camera.Camera
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	// Plane is the clip plane in world space, as (nx, ny, nz, d).
	Plane mgl32.Vec4
	// WavePhase is the water distortion offset in [0,1).
	WavePhase float32
	DT        float64
}

// Renderable defines the lifecycle of a drawable feature
type Renderable interface {
	Init(ctx *Context) error
	Render(ctx *Context, pass PassContext)
	Dispose()
}
