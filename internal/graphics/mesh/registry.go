package mesh

import (
	"errors"
	"fmt"

	"planar-water/internal/graphics/gpu"
)

var (
	ErrUnknownMesh   = errors.New("unknown mesh")
	ErrDuplicateMesh = errors.New("mesh already registered")
)

// StaticMesh is immutable interleaved vertex data drawn as triangles.
type StaticMesh struct {
	Name     string
	Vertices []float32
	// Layout lists the float count of each vertex attribute.
	Layout []int
}

// Stride is the number of floats per vertex.
func (m StaticMesh) Stride() int {
	stride := 0
	for _, n := range m.Layout {
		stride += n
	}
	return stride
}

// VertexCount returns the number of vertices, or an error if the data does
// not divide evenly into the layout.
func (m StaticMesh) VertexCount() (int, error) {
	stride := m.Stride()
	if stride == 0 {
		return 0, fmt.Errorf("mesh %q: empty layout", m.Name)
	}
	if len(m.Vertices) == 0 || len(m.Vertices)%stride != 0 {
		return 0, fmt.Errorf("mesh %q: %d floats do not fit stride %d", m.Name, len(m.Vertices), stride)
	}
	return len(m.Vertices) / stride, nil
}

// Handle references an uploaded mesh.
type Handle struct {
	VAO   uint32
	VBO   uint32
	Count int
}

// Registry owns the GPU buffers of every static mesh.
type Registry struct {
	dev     gpu.Device
	handles map[string]Handle
	order   []string
}

func NewRegistry(dev gpu.Device) *Registry {
	return &Registry{dev: dev, handles: make(map[string]Handle)}
}

// Upload sends each mesh to the GPU once. Names must be unique.
func (r *Registry) Upload(meshes ...StaticMesh) error {
	for _, m := range meshes {
		if _, ok := r.handles[m.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMesh, m.Name)
		}
		count, err := m.VertexCount()
		if err != nil {
			return err
		}
		vao, vbo := r.dev.CreateMesh(m.Vertices, m.Layout)
		r.handles[m.Name] = Handle{VAO: vao, VBO: vbo, Count: count}
		r.order = append(r.order, m.Name)
	}
	return nil
}

// Handle looks up an uploaded mesh.
func (r *Registry) Handle(name string) (Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

// Draw issues the mesh with whatever program and state is current.
func (r *Registry) Draw(name string) error {
	h, ok := r.handles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMesh, name)
	}
	r.dev.DrawTriangles(h.VAO, h.Count)
	return nil
}

// Close deletes all buffers in reverse upload order.
func (r *Registry) Close() {
	for i := len(r.order) - 1; i >= 0; i-- {
		h := r.handles[r.order[i]]
		r.dev.DeleteMesh(h.VAO, h.VBO)
		delete(r.handles, r.order[i])
	}
	r.order = nil
}
