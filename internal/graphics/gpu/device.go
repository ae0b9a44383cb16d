// Package gpu describes the small slice of the graphics API the renderer
// uses. The OpenGL implementation lives in package opengl; tests use gputest.
package gpu

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
)

// Capability is a pipeline toggle scoped by render states.
type Capability int

const (
	DepthTest Capability = iota
	ClipDistance0
)

func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "DepthTest"
	case ClipDistance0:
		return "ClipDistance0"
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

// Format of a texture or renderbuffer.
type Format int

const (
	RGB Format = iota
	RGBA
	Depth24
	Depth32F
)

// Filter selects texture sampling.
type Filter int

const (
	Linear Filter = iota
	Nearest
)

// Wrap selects texture addressing outside [0,1].
type Wrap int

const (
	ClampToEdge Wrap = iota
	Repeat
)

// AttachmentPoint of a framebuffer.
type AttachmentPoint int

const (
	ColorAttachment0 AttachmentPoint = iota
	DepthAttachment
)

// StatusComplete mirrors GL_FRAMEBUFFER_COMPLETE.
const StatusComplete uint32 = 0x8CD5

// TextureDesc describes a 2D texture. Pixels may be nil to allocate storage only.
type TextureDesc struct {
	Width   int
	Height  int
	Format  Format
	Pixels  []byte
	Filter  Filter
	Wrap    Wrap
	Mipmaps bool
}

// Device issues GPU commands. Handles are opaque non-zero ids; 0 means "none".
type Device interface {
	CreateFramebuffer() uint32
	BindFramebuffer(fbo uint32)
	DeleteFramebuffer(fbo uint32)
	AttachTexture(point AttachmentPoint, tex uint32)
	AttachRenderbuffer(point AttachmentPoint, rb uint32)
	// FramebufferStatus reports completeness of the bound framebuffer.
	FramebufferStatus() uint32

	CreateTexture(desc TextureDesc) uint32
	DeleteTexture(tex uint32)
	BindTexture(unit int, tex uint32)

	CreateRenderbuffer(format Format, width, height int) uint32
	DeleteRenderbuffer(rb uint32)

	// CreateMesh uploads interleaved float vertices. layout lists the
	// component count of each attribute in order.
	CreateMesh(vertices []float32, layout []int) (vao, vbo uint32)
	DeleteMesh(vao, vbo uint32)
	DrawTriangles(vao uint32, count int)

	Viewport(width, height int)
	SetCapability(c Capability, enabled bool)
	Clear(color mgl32.Vec4, depth bool)

	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
}

// Program is a linked shader program.
type Program interface {
	Use()
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetMat4(name string, v mgl32.Mat4)
	Delete()
}

// LoadProgram reads a vertex/fragment pair from fsys and links it on dev.
func LoadProgram(dev Device, fsys fs.FS, vertexPath, fragmentPath string) (Program, error) {
	vertexSource, err := fs.ReadFile(fsys, vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader %s: %w", vertexPath, err)
	}
	fragmentSource, err := fs.ReadFile(fsys, fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader %s: %w", fragmentPath, err)
	}

	prog, err := dev.CreateProgram(string(vertexSource), string(fragmentSource))
	if err != nil {
		return nil, fmt.Errorf("%s + %s: %w", vertexPath, fragmentPath, err)
	}
	return prog, nil
}
