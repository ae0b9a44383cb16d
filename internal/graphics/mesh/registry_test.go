package mesh

import (
	"errors"
	"path/filepath"
	"testing"

	"planar-water/internal/graphics/gpu/gputest"
)

func TestBuiltinVertexCounts(t *testing.T) {
	want := map[string]int{
		Wall:   24,
		Floor:  6,
		Water:  6,
		Screen: 6,
	}
	for _, m := range Builtin() {
		n, err := m.VertexCount()
		if err != nil {
			t.Errorf("%s: %v", m.Name, err)
			continue
		}
		if n != want[m.Name] {
			t.Errorf("%s: expected %d vertices, got %d", m.Name, want[m.Name], n)
		}
	}
}

func TestFloorSitsBelowWaterLine(t *testing.T) {
	for _, m := range Builtin() {
		if m.Name != Floor {
			continue
		}
		for i := 0; i < len(m.Vertices); i += m.Stride() {
			if y := m.Vertices[i+1]; y != -2 {
				t.Errorf("floor vertex %d at y=%v", i/m.Stride(), y)
			}
		}
	}
}

func TestRegistryUploadDrawClose(t *testing.T) {
	dev := gputest.NewDevice()
	r := NewRegistry(dev)

	if err := r.Upload(Builtin()...); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	h, ok := r.Handle(Wall)
	if !ok {
		t.Fatal("wall not registered")
	}
	if err := r.Draw(Wall); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(dev.Draws) != 1 || dev.Draws[0].VAO != h.VAO || dev.Draws[0].Count != 24 {
		t.Errorf("unexpected draw %+v", dev.Draws)
	}

	if err := r.Draw("sky"); !errors.Is(err, ErrUnknownMesh) {
		t.Errorf("expected ErrUnknownMesh, got %v", err)
	}

	r.Close()
	if dev.Live() != 0 {
		t.Errorf("expected all meshes deleted, %d live", dev.Live())
	}
	if _, ok := r.Handle(Wall); ok {
		t.Error("handle still resolvable after Close")
	}
}

func TestRegistryRejectsBadMeshes(t *testing.T) {
	r := NewRegistry(gputest.NewDevice())

	if err := r.Upload(StaticMesh{Name: "odd", Vertices: []float32{1, 2, 3, 4}, Layout: LayoutPosUV}); err == nil {
		t.Error("expected error for vertex data not matching layout")
	}
	if err := r.Upload(StaticMesh{Name: "empty", Layout: nil, Vertices: []float32{1}}); err == nil {
		t.Error("expected error for empty layout")
	}

	quad := StaticMesh{Name: "quad", Vertices: waterVertices, Layout: LayoutPos2}
	if err := r.Upload(quad); err != nil {
		t.Fatal(err)
	}
	if err := r.Upload(quad); !errors.Is(err, ErrDuplicateMesh) {
		t.Errorf("expected ErrDuplicateMesh, got %v", err)
	}
}

func TestFlatten(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {0, 1}}

	out, err := flatten(positions, uvs, []uint32{0, 1, 2, 2, 1, 3})
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if len(out) != 6*5 {
		t.Fatalf("expected 30 floats, got %d", len(out))
	}
	// Last vertex has no uv and falls back to zero.
	last := out[25:30]
	if last[0] != 1 || last[1] != 1 || last[3] != 0 || last[4] != 0 {
		t.Errorf("unexpected last vertex %v", last)
	}

	if _, err := flatten(positions, nil, []uint32{0, 1}); err == nil {
		t.Error("expected error for incomplete triangle")
	}
	if _, err := flatten(positions, nil, []uint32{0, 1, 9}); err == nil {
		t.Error("expected error for out-of-range index")
	}

	unindexed, err := flatten(positions[:3], nil, nil)
	if err != nil || len(unindexed) != 15 {
		t.Errorf("unindexed flatten: %v, %d floats", err, len(unindexed))
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "none.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}
