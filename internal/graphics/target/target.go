// Package target owns the off-screen framebuffers the water passes render into.
package target

import (
	"errors"
	"fmt"

	"planar-water/internal/graphics/gpu"

	"go.uber.org/zap"
)

var (
	// ErrIncomplete marks a framebuffer that failed its completeness check.
	ErrIncomplete      = errors.New("framebuffer incomplete")
	ErrDuplicateHandle = errors.New("framebuffer handle already owned")
	ErrInvalidSize     = errors.New("invalid render target size")
)

// DepthKind selects how the depth attachment is stored.
type DepthKind int

const (
	// DepthRenderbuffer is write-only depth; enough when depth is never sampled.
	DepthRenderbuffer DepthKind = iota
	// DepthTexture keeps depth sampleable for later effects.
	DepthTexture
)

func (k DepthKind) String() string {
	if k == DepthTexture {
		return "depth-texture"
	}
	return "depth-renderbuffer"
}

// RenderTarget is a framebuffer with one color texture and one depth attachment.
type RenderTarget struct {
	Name        string
	Framebuffer uint32
	Color       uint32
	// Depth is a texture or renderbuffer handle depending on DepthKind.
	Depth     uint32
	DepthKind DepthKind
	Width     int
	Height    int
	Complete  bool
}

// IncompleteError describes a failed completeness check.
type IncompleteError struct {
	Target string
	Status uint32
	Reason string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("render target %s: %v (status 0x%X): %s", e.Target, ErrIncomplete, e.Status, e.Reason)
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

type extent struct{ width, height int }

// Manager creates, binds and destroys render targets.
type Manager struct {
	dev     gpu.Device
	log     *zap.Logger
	screen  extent
	targets map[uint32]*RenderTarget
	order   []uint32
}

// NewManager returns a manager whose default target is the screen at screenW×screenH.
func NewManager(dev gpu.Device, log *zap.Logger, screenW, screenH int) *Manager {
	return &Manager{
		dev:     dev,
		log:     log,
		screen:  extent{screenW, screenH},
		targets: make(map[uint32]*RenderTarget),
	}
}

// CreateColorDepthTarget allocates a width×height target. An incomplete
// framebuffer is reported through the returned *IncompleteError and a
// warning, but the target is still returned and owned by the manager.
func (m *Manager) CreateColorDepthTarget(name string, width, height int, kind DepthKind) (*RenderTarget, error) {
	size := extent{width, height}
	return m.create(name, size, size, kind)
}

func (m *Manager) create(name string, color, depth extent, kind DepthKind) (*RenderTarget, error) {
	if color.width <= 0 || color.height <= 0 {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrInvalidSize, name, color.width, color.height)
	}

	fbo := m.dev.CreateFramebuffer()
	if _, taken := m.targets[fbo]; taken {
		return nil, fmt.Errorf("%w: %s got %d", ErrDuplicateHandle, name, fbo)
	}

	rt := &RenderTarget{
		Name:        name,
		Framebuffer: fbo,
		DepthKind:   kind,
		Width:       color.width,
		Height:      color.height,
	}

	m.dev.BindFramebuffer(fbo)

	rt.Color = m.dev.CreateTexture(gpu.TextureDesc{
		Width:  color.width,
		Height: color.height,
		Format: gpu.RGB,
		Filter: gpu.Linear,
		Wrap:   gpu.ClampToEdge,
	})
	m.dev.AttachTexture(gpu.ColorAttachment0, rt.Color)

	switch kind {
	case DepthTexture:
		rt.Depth = m.dev.CreateTexture(gpu.TextureDesc{
			Width:  depth.width,
			Height: depth.height,
			Format: gpu.Depth32F,
			Filter: gpu.Linear,
			Wrap:   gpu.ClampToEdge,
		})
		m.dev.AttachTexture(gpu.DepthAttachment, rt.Depth)
	default:
		rt.Depth = m.dev.CreateRenderbuffer(gpu.Depth24, depth.width, depth.height)
		m.dev.AttachRenderbuffer(gpu.DepthAttachment, rt.Depth)
	}

	err := m.checkComplete(rt, color, depth)
	rt.Complete = err == nil
	m.dev.BindFramebuffer(0)

	m.targets[fbo] = rt
	m.order = append(m.order, fbo)

	if err != nil {
		m.log.Warn("render target incomplete, continuing",
			zap.String("target", name),
			zap.Stringer("depth", kind),
			zap.Error(err))
		return rt, err
	}
	m.log.Debug("render target created",
		zap.String("target", name),
		zap.Uint32("fbo", fbo),
		zap.Int("width", rt.Width),
		zap.Int("height", rt.Height),
		zap.Stringer("depth", kind))
	return rt, nil
}

// checkComplete runs once per target, with its framebuffer bound. Attachment
// sizes are compared here because GL 4.x accepts mixed sizes as complete.
func (m *Manager) checkComplete(rt *RenderTarget, color, depth extent) error {
	status := m.dev.FramebufferStatus()
	if color != depth {
		return &IncompleteError{
			Target: rt.Name,
			Status: status,
			Reason: fmt.Sprintf("color %dx%d does not match depth %dx%d", color.width, color.height, depth.width, depth.height),
		}
	}
	if status != gpu.StatusComplete {
		return &IncompleteError{Target: rt.Name, Status: status, Reason: "driver rejected attachments"}
	}
	return nil
}

// Bind makes rt the render destination and sizes the viewport to it.
func (m *Manager) Bind(rt *RenderTarget) {
	m.dev.BindFramebuffer(rt.Framebuffer)
	m.dev.Viewport(rt.Width, rt.Height)
}

// BindDefault restores the on-screen framebuffer.
func (m *Manager) BindDefault() {
	m.dev.BindFramebuffer(0)
	m.dev.Viewport(m.screen.width, m.screen.height)
}

// Destroy releases all GPU resources of rt. Destroying twice is a no-op.
func (m *Manager) Destroy(rt *RenderTarget) {
	if rt == nil {
		return
	}
	if _, ok := m.targets[rt.Framebuffer]; !ok {
		return
	}

	if rt.Color != 0 {
		m.dev.DeleteTexture(rt.Color)
	}
	if rt.Depth != 0 {
		if rt.DepthKind == DepthTexture {
			m.dev.DeleteTexture(rt.Depth)
		} else {
			m.dev.DeleteRenderbuffer(rt.Depth)
		}
	}
	m.dev.DeleteFramebuffer(rt.Framebuffer)

	delete(m.targets, rt.Framebuffer)
	for i, fbo := range m.order {
		if fbo == rt.Framebuffer {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	rt.Framebuffer, rt.Color, rt.Depth = 0, 0, 0
	rt.Complete = false
}

// Close destroys every target still owned, newest first.
func (m *Manager) Close() {
	for len(m.order) > 0 {
		m.Destroy(m.targets[m.order[len(m.order)-1]])
	}
}

// Len reports how many targets the manager owns.
func (m *Manager) Len() int {
	return len(m.targets)
}
