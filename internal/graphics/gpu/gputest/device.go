// Package gputest provides a recording gpu.Device for tests. It tracks
// framebuffer attachments, capabilities, texture units and the uniforms
// visible to every draw, without needing a GL context.
package gputest

import (
	"errors"
	"fmt"
	"maps"

	"planar-water/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Incomplete status codes reported by FramebufferStatus.
const (
	StatusMissingAttachment uint32 = 0x8CD7
	StatusDimensions        uint32 = 0x8CD9
)

type extent struct{ w, h int }

type framebuffer struct {
	attachments map[gpu.AttachmentPoint]extent
}

// Draw is a snapshot of pipeline state taken at DrawTriangles.
type Draw struct {
	VAO         uint32
	Count       int
	Framebuffer uint32
	Viewport    [2]int
	Program     *Program
	Caps        map[gpu.Capability]bool
	Units       map[int]uint32
	Uniforms    map[string]any
}

// Device is a fake gpu.Device. The zero value is not usable; call NewDevice.
type Device struct {
	// Calls logs state-changing commands in issue order.
	Calls []string
	Draws []Draw

	Framebuffer  uint32
	ViewportSize [2]int
	Caps         map[gpu.Capability]bool
	Units        map[int]uint32

	// ReuseFramebuffer makes CreateFramebuffer hand out the same id every time.
	ReuseFramebuffer bool
	// ProgramErr is returned from CreateProgram when set.
	ProgramErr error

	next          uint32
	framebuffers  map[uint32]*framebuffer
	textures      map[uint32]gpu.TextureDesc
	renderbuffers map[uint32]extent
	meshes        map[uint32]int
	active        *Program
}

func NewDevice() *Device {
	return &Device{
		Caps:          make(map[gpu.Capability]bool),
		Units:         make(map[int]uint32),
		framebuffers:  make(map[uint32]*framebuffer),
		textures:      make(map[uint32]gpu.TextureDesc),
		renderbuffers: make(map[uint32]extent),
		meshes:        make(map[uint32]int),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) logf(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) CreateFramebuffer() uint32 {
	if d.ReuseFramebuffer && len(d.framebuffers) > 0 {
		for id := range d.framebuffers {
			return id
		}
	}
	id := d.handle()
	d.framebuffers[id] = &framebuffer{attachments: make(map[gpu.AttachmentPoint]extent)}
	return id
}

func (d *Device) BindFramebuffer(fbo uint32) {
	d.Framebuffer = fbo
	d.logf("BindFramebuffer(%d)", fbo)
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	delete(d.framebuffers, fbo)
	d.logf("DeleteFramebuffer(%d)", fbo)
}

func (d *Device) AttachTexture(point gpu.AttachmentPoint, tex uint32) {
	fb, ok := d.framebuffers[d.Framebuffer]
	if !ok {
		return
	}
	desc := d.textures[tex]
	fb.attachments[point] = extent{desc.Width, desc.Height}
}

func (d *Device) AttachRenderbuffer(point gpu.AttachmentPoint, rb uint32) {
	fb, ok := d.framebuffers[d.Framebuffer]
	if !ok {
		return
	}
	fb.attachments[point] = d.renderbuffers[rb]
}

func (d *Device) FramebufferStatus() uint32 {
	fb, ok := d.framebuffers[d.Framebuffer]
	if !ok {
		return StatusMissingAttachment
	}
	color, ok := fb.attachments[gpu.ColorAttachment0]
	if !ok {
		return StatusMissingAttachment
	}
	for _, e := range fb.attachments {
		if e != color {
			return StatusDimensions
		}
	}
	return gpu.StatusComplete
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) uint32 {
	id := d.handle()
	d.textures[id] = desc
	return id
}

func (d *Device) DeleteTexture(tex uint32) {
	delete(d.textures, tex)
	d.logf("DeleteTexture(%d)", tex)
}

// Texture returns the description a live texture was created with.
func (d *Device) Texture(tex uint32) (gpu.TextureDesc, bool) {
	desc, ok := d.textures[tex]
	return desc, ok
}

func (d *Device) BindTexture(unit int, tex uint32) {
	d.Units[unit] = tex
}

func (d *Device) CreateRenderbuffer(format gpu.Format, width, height int) uint32 {
	id := d.handle()
	d.renderbuffers[id] = extent{width, height}
	return id
}

func (d *Device) DeleteRenderbuffer(rb uint32) {
	delete(d.renderbuffers, rb)
	d.logf("DeleteRenderbuffer(%d)", rb)
}

// Renderbuffer returns the size of a live renderbuffer.
func (d *Device) Renderbuffer(rb uint32) (width, height int, ok bool) {
	e, ok := d.renderbuffers[rb]
	return e.w, e.h, ok
}

func (d *Device) CreateMesh(vertices []float32, layout []int) (uint32, uint32) {
	stride := 0
	for _, n := range layout {
		stride += n
	}
	vao, vbo := d.handle(), d.handle()
	d.meshes[vao] = len(vertices) / stride
	return vao, vbo
}

func (d *Device) DeleteMesh(vao, vbo uint32) {
	delete(d.meshes, vao)
	d.logf("DeleteMesh(%d)", vao)
}

// Live reports how many textures, renderbuffers, framebuffers and meshes are still allocated.
func (d *Device) Live() int {
	return len(d.textures) + len(d.renderbuffers) + len(d.framebuffers) + len(d.meshes)
}

func (d *Device) DrawTriangles(vao uint32, count int) {
	draw := Draw{
		VAO:         vao,
		Count:       count,
		Framebuffer: d.Framebuffer,
		Viewport:    d.ViewportSize,
		Program:     d.active,
		Caps:        maps.Clone(d.Caps),
		Units:       maps.Clone(d.Units),
	}
	if d.active != nil {
		draw.Uniforms = maps.Clone(d.active.Uniforms)
	}
	d.Draws = append(d.Draws, draw)
	d.logf("Draw(%d)", vao)
}

func (d *Device) Viewport(width, height int) {
	d.ViewportSize = [2]int{width, height}
}

func (d *Device) SetCapability(c gpu.Capability, enabled bool) {
	d.Caps[c] = enabled
	d.logf("SetCapability(%v,%v)", c, enabled)
}

func (d *Device) Clear(color mgl32.Vec4, depth bool) {
	d.logf("Clear(depth=%v)", depth)
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	if d.ProgramErr != nil {
		return nil, d.ProgramErr
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return nil, errors.New("empty shader source")
	}
	p := &Program{dev: d, VertexSource: vertexSrc, Uniforms: make(map[string]any)}
	return p, nil
}

// Program records uniforms the way a GL program keeps them between draws.
type Program struct {
	VertexSource string
	Uniforms     map[string]any
	Deleted      bool

	dev *Device
}

func (p *Program) Use() { p.dev.active = p }
func (p *Program) SetInt(name string, v int32) { p.Uniforms[name] = v }
func (p *Program) SetFloat(name string, v float32) { p.Uniforms[name] = v }
func (p *Program) SetVec3(name string, v mgl32.Vec3) { p.Uniforms[name] = v }
func (p *Program) SetVec4(name string, v mgl32.Vec4) { p.Uniforms[name] = v }
func (p *Program) SetMat4(name string, v mgl32.Mat4) { p.Uniforms[name] = v }
func (p *Program) Delete() { p.Deleted = true }
