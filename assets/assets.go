// Package assets embeds the GLSL sources and the stock textures so the
// binary runs from any directory.
package assets

import "embed"

//go:embed shaders
var Shaders embed.FS

// Textures holds textures/marble.bmp and textures/waterDUDV.png.
//
//go:embed textures
var Textures embed.FS
