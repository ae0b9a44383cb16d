package mesh

// Names of the built-in meshes.
const (
	Wall   = "wall"
	Floor  = "floor"
	Water  = "water"
	Screen = "screen"
)

// Layouts shared by the built-ins.
var (
	LayoutPosUV   = []int{3, 2}
	LayoutPos2    = []int{2}
	LayoutPos2UV2 = []int{2, 2}
)

// Box quads are listed as four corners (x, y, z, u, v), counter-clockwise.
var floorQuads = [][4][5]float32{
	{{-2, -2, -5, 0, 1}, {-2, -2, 5, 0, 0}, {2, -2, 5, 1, 0}, {2, -2, -5, 1, 1}},
}

var wallQuads = [][4][5]float32{
	{{-2, 2, -5, 0, 1}, {-2, -2, -5, 0, 0}, {2, -2, -5, 1, 0}, {2, 2, -5, 1, 1}},
	{{2, 2, 5, 0, 1}, {2, -2, 5, 0, 0}, {-2, -2, 5, 1, 0}, {-2, 2, 5, 1, 1}},
	{{-2, 2, 5, 0, 1}, {-2, -2, 5, 0, 0}, {-2, -2, -5, 1, 0}, {-2, 2, -5, 1, 1}},
	{{2, 2, -5, 0, 1}, {2, -2, -5, 0, 0}, {2, -2, 5, 1, 0}, {2, 2, 5, 1, 1}},
}

// waterVertices is a unit quad in the XZ plane; the water pass scales it.
var waterVertices = []float32{
	-1, 1,
	1, 1,
	1, -1,
	-1, 1,
	1, -1,
	-1, -1,
}

var screenVertices = []float32{
	-1, 1, 0, 1,
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, -1, 1, 0,
	1, 1, 1, 1,
}

// Builtin returns the fixed scene geometry.
func Builtin() []StaticMesh {
	return []StaticMesh{
		{Name: Wall, Vertices: triangulate(wallQuads), Layout: LayoutPosUV},
		{Name: Floor, Vertices: triangulate(floorQuads), Layout: LayoutPosUV},
		{Name: Water, Vertices: waterVertices, Layout: LayoutPos2},
		{Name: Screen, Vertices: screenVertices, Layout: LayoutPos2UV2},
	}
}

// triangulate splits each quad a,b,c,d into triangles a,b,c and a,c,d.
func triangulate(quads [][4][5]float32) []float32 {
	out := make([]float32, 0, len(quads)*6*5)
	for _, q := range quads {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			out = append(out, q[i][:]...)
		}
	}
	return out
}
