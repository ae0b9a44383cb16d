package config

import (
	"errors"
	"flag"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Settings holds everything the renderer reads at startup.
type Settings struct {
	Title  string
	Width  int
	Height int

	// FPSLimit caps the frame rate; 0 means present on vertical sync.
	FPSLimit int

	LogLevel string

	WallTexture string
	DuDvTexture string
	// ModelPath optionally points at a glTF/GLB file drawn with the walls.
	ModelPath string

	CameraStart mgl32.Vec3
	FOV         float32
	MinFOV      float32
	NearPlane   float32
	FarPlane    float32

	WaterHeight  float32
	WaterExtentX float32
	WaterExtentZ float32
	WaveSpeed    float32

	// PreviewTargets draws the reflection/refraction attachments in the screen corners.
	PreviewTargets bool
}

// Default returns the settings of the stock scene.
func Default() Settings {
	return Settings{
		Title:  "planar-water",
		Width:  800,
		Height: 600,

		LogLevel: "info",

		WallTexture: "assets/textures/marble.bmp",
		DuDvTexture: "assets/textures/waterDUDV.png",

		CameraStart: mgl32.Vec3{0, 0, 3},
		FOV:         45,
		MinFOV:      1,
		NearPlane:   0.1,
		FarPlane:    100,

		WaterHeight:  0,
		WaterExtentX: 8,
		WaterExtentZ: 8,
		WaveSpeed:    0.03,
	}
}

// Parse overlays command-line flags on top of Default and validates the result.
func Parse(args []string) (Settings, error) {
	s := Default()

	fs := flag.NewFlagSet("planar-water", flag.ContinueOnError)
	fs.IntVar(&s.Width, "width", s.Width, "window and render target width")
	fs.IntVar(&s.Height, "height", s.Height, "window and render target height")
	fs.IntVar(&s.FPSLimit, "fps", s.FPSLimit, "frame rate cap, 0 for vsync")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "debug, info, warn or error")
	fs.StringVar(&s.WallTexture, "wall-texture", s.WallTexture, "wall/floor texture path")
	fs.StringVar(&s.DuDvTexture, "dudv-texture", s.DuDvTexture, "water distortion map path")
	fs.StringVar(&s.ModelPath, "model", s.ModelPath, "optional glTF model drawn with the scene")
	fs.Var((*float32Value)(&s.WaterHeight), "water-height", "height of the water plane")
	fs.Var((*float32Value)(&s.WaterExtentX), "water-extent-x", "half width of the water quad")
	fs.Var((*float32Value)(&s.WaterExtentZ), "water-extent-z", "half depth of the water quad")
	fs.Var((*float32Value)(&s.WaveSpeed), "wave-speed", "distortion scroll speed per second")
	fs.BoolVar(&s.PreviewTargets, "preview", s.PreviewTargets, "show reflection/refraction targets")

	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first setting that would make the pipeline unusable.
func (s Settings) Validate() error {
	if err := s.checkFinite(); err != nil {
		return err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.FPSLimit < 0 {
		return errors.New("fps limit must not be negative")
	}
	if s.WaterExtentX <= 0 || s.WaterExtentZ <= 0 {
		return fmt.Errorf("water extent must be positive, got %gx%g", s.WaterExtentX, s.WaterExtentZ)
	}
	if s.NearPlane <= 0 || s.NearPlane >= s.FarPlane {
		return fmt.Errorf("near plane %g must be in (0, far=%g)", s.NearPlane, s.FarPlane)
	}
	if s.MinFOV <= 0 || s.MinFOV > s.FOV {
		return fmt.Errorf("fov range [%g, %g] is empty", s.MinFOV, s.FOV)
	}
	return nil
}

func (s Settings) checkFinite() error {
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"camera x", s.CameraStart[0]},
		{"camera y", s.CameraStart[1]},
		{"camera z", s.CameraStart[2]},
		{"fov", s.FOV},
		{"min fov", s.MinFOV},
		{"near plane", s.NearPlane},
		{"far plane", s.FarPlane},
		{"water height", s.WaterHeight},
		{"water extent x", s.WaterExtentX},
		{"water extent z", s.WaterExtentZ},
		{"wave speed", s.WaveSpeed},
	} {
		if v := float64(f.v); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %g", f.name, f.v)
		}
	}
	return nil
}

// AspectRatio of the window.
func (s Settings) AspectRatio() float32 {
	return float32(s.Width) / float32(s.Height)
}
