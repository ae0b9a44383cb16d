// Package renderertest builds a renderer.Context on the recording device.
package renderertest

import (
	"testing"

	"planar-water/internal/config"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/gpu/gputest"
	renderer "planar-water/internal/graphics/renderer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Fixture is a ready context plus the fakes behind it.
type Fixture struct {
	Ctx  *renderer.Context
	Dev  *gputest.Device
	Logs *observer.ObservedLogs
}

// NewContext runs renderer.NewContext on a fake device and swaps in two
// in-memory textures, so no image files are read.
func NewContext(t *testing.T, s config.Settings) *Fixture {
	t.Helper()

	s.WallTexture, s.DuDvTexture = "", ""
	core, logs := observer.New(zapcore.DebugLevel)
	dev := gputest.NewDevice()

	ctx, err := renderer.NewContext(dev, s, zap.New(core))
	if err != nil {
		t.Fatalf("renderer.NewContext: %v", err)
	}
	ctx.Textures = renderer.Textures{
		Wall: dev.CreateTexture(square(64)),
		DuDv: dev.CreateTexture(square(128)),
	}
	return &Fixture{Ctx: ctx, Dev: dev, Logs: logs}
}

func square(size int) gpu.TextureDesc {
	return gpu.TextureDesc{Width: size, Height: size, Format: gpu.RGBA, Wrap: gpu.Repeat}
}
