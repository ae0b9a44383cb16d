package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every triangle primitive of a .gltf/.glb file into static
// meshes with a position+uv layout. Primitives without TEXCOORD_0 get (0,0).
func LoadGLTF(path string) ([]StaticMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var meshes []StaticMesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := loadPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			m.Name = primitiveName(gm.Name, mi, pi)
			meshes = append(meshes, m)
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle primitives", path)
	}
	return meshes, nil
}

func loadPrimitive(doc *gltf.Document, prim gltf.Primitive) (StaticMesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return StaticMesh{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return StaticMesh{}, fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return StaticMesh{}, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return StaticMesh{}, fmt.Errorf("indices: %w", err)
		}
	}

	vertices, err := flatten(positions, uvs, indices)
	if err != nil {
		return StaticMesh{}, err
	}
	return StaticMesh{Vertices: vertices, Layout: LayoutPosUV}, nil
}

// flatten expands indexed geometry into an interleaved triangle list.
func flatten(positions [][3]float32, uvs [][2]float32, indices []uint32) ([]float32, error) {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices do not form triangles", len(indices))
	}

	out := make([]float32, 0, len(indices)*5)
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
		p := positions[idx]
		var uv [2]float32
		if int(idx) < len(uvs) {
			uv = uvs[idx]
		}
		out = append(out, p[0], p[1], p[2], uv[0], uv[1])
	}
	return out, nil
}

func primitiveName(meshName string, mi, pi int) string {
	if meshName == "" {
		return fmt.Sprintf("gltf_%d_p%d", mi, pi)
	}
	return fmt.Sprintf("gltf_%d_%s_p%d", mi, meshName, pi)
}
