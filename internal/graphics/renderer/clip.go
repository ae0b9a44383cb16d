package renderer

import "github.com/go-gl/mathgl/mgl32"

// passThroughDistance puts the main-pass plane far enough away that nothing
// in the scene is ever clipped.
const passThroughDistance = 100000

// ReflectPlane keeps geometry above the water at height h.
func ReflectPlane(h float32) mgl32.Vec4 {
	return mgl32.Vec4{0, 1, 0, -h}
}

// RefractPlane keeps geometry below the water at height h. It is the exact
// negation of ReflectPlane(h).
func RefractPlane(h float32) mgl32.Vec4 {
	return mgl32.Vec4{0, -1, 0, h}
}

// PassThroughPlane clips nothing; used for the main pass.
func PassThroughPlane() mgl32.Vec4 {
	return mgl32.Vec4{0, -1, 0, passThroughDistance}
}
