// Package opengl implements gpu.Device on an OpenGL 4.1 core context.
// All calls must happen on the thread that owns the context.
package opengl

import (
	"planar-water/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device issues commands to the current GL context.
type Device struct{}

// Init loads the GL function pointers. A context must be current.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Device{}, nil
}

// Version reports the driver's GL version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *Device) AttachTexture(point gpu.AttachmentPoint, tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment(point), gl.TEXTURE_2D, tex, 0)
}

func (d *Device) AttachRenderbuffer(point gpu.AttachmentPoint, rb uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachment(point), gl.RENDERBUFFER, rb)
}

func (d *Device) FramebufferStatus() uint32 {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if desc.Wrap == gpu.Repeat {
		wrap = gl.REPEAT
	}
	magFilter := int32(gl.LINEAR)
	if desc.Filter == gpu.Nearest {
		magFilter = gl.NEAREST
	}
	minFilter := magFilter
	if desc.Mipmaps {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	internal, format, xtype := textureFormat(desc.Format)
	var pixels = gl.Ptr(nil)
	if len(desc.Pixels) > 0 {
		pixels = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, xtype, pixels)
	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (d *Device) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (d *Device) BindTexture(unit int, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *Device) CreateRenderbuffer(format gpu.Format, width, height int) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	internal, _, _ := textureFormat(format)
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internal), int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return rb
}

func (d *Device) DeleteRenderbuffer(rb uint32) {
	gl.DeleteRenderbuffers(1, &rb)
}

func (d *Device) CreateMesh(vertices []float32, layout []int) (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := 0
	for _, n := range layout {
		stride += n
	}
	offset := 0
	for i, n := range layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), int32(n), gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		offset += n
	}

	gl.BindVertexArray(0)
	return vao, vbo
}

func (d *Device) DeleteMesh(vao, vbo uint32) {
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
	if vbo != 0 {
		gl.DeleteBuffers(1, &vbo)
	}
}

func (d *Device) DrawTriangles(vao uint32, count int) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) SetCapability(c gpu.Capability, enabled bool) {
	var glCap uint32
	switch c {
	case gpu.DepthTest:
		glCap = gl.DEPTH_TEST
	case gpu.ClipDistance0:
		glCap = gl.CLIP_DISTANCE0
	default:
		return
	}
	if enabled {
		gl.Enable(glCap)
	} else {
		gl.Disable(glCap)
	}
}

func (d *Device) Clear(color mgl32.Vec4, depth bool) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	s, err := NewShader(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func attachment(point gpu.AttachmentPoint) uint32 {
	if point == gpu.DepthAttachment {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0
}

func textureFormat(f gpu.Format) (internal int32, format, xtype uint32) {
	switch f {
	case gpu.RGBA:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	case gpu.Depth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT
	case gpu.Depth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	}
	return gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE
}
