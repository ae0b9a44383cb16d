package renderer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"planar-water/assets"
	"planar-water/internal/camera"
	"planar-water/internal/config"
	"planar-water/internal/graphics/gpu"
	"planar-water/internal/graphics/mesh"
	"planar-water/internal/graphics/target"
	"planar-water/internal/graphics/texture"
	"planar-water/internal/profiling"

	"go.uber.org/zap"
)

// NewContext allocates everything the passes share: both water targets at
// window size, the static meshes, optional model meshes and the textures.
// Texture paths missing on disk fall back to the embedded stock textures.
// Incomplete targets and unreadable images are logged and tolerated; a
// missing model or a mesh upload failure is not.
func NewContext(dev gpu.Device, s config.Settings, log *zap.Logger) (*Context, error) {
	ctx := &Context{
		Device:     dev,
		Targets:    target.NewManager(dev, log, s.Width, s.Height),
		Meshes:     mesh.NewRegistry(dev),
		Projection: camera.NewProjection(s.AspectRatio(), s.FOV, s.NearPlane, s.FarPlane),
		Settings:   s,
		Log:        log,
		Profile:    profiling.NewFrame(),
	}

	var err error
	ctx.Reflection, err = ctx.Targets.CreateColorDepthTarget("reflection", s.Width, s.Height, target.DepthRenderbuffer)
	if err != nil && !errors.Is(err, target.ErrIncomplete) {
		ctx.release()
		return nil, err
	}
	ctx.Refraction, err = ctx.Targets.CreateColorDepthTarget("refraction", s.Width, s.Height, target.DepthTexture)
	if err != nil && !errors.Is(err, target.ErrIncomplete) {
		ctx.release()
		return nil, err
	}

	if err := ctx.Meshes.Upload(mesh.Builtin()...); err != nil {
		ctx.release()
		return nil, fmt.Errorf("upload scene meshes: %w", err)
	}
	if s.ModelPath != "" {
		models, err := mesh.LoadGLTF(s.ModelPath)
		if err != nil {
			ctx.release()
			return nil, err
		}
		if err := ctx.Meshes.Upload(models...); err != nil {
			ctx.release()
			return nil, fmt.Errorf("upload model meshes: %w", err)
		}
		for _, m := range models {
			ctx.Models = append(ctx.Models, m.Name)
		}
		log.Info("model loaded", zap.String("path", s.ModelPath), zap.Int("meshes", len(models)))
	}

	ctx.Textures.Wall = ctx.loadTexture(s.WallTexture, texture.Options{Wrap: gpu.Repeat, Filter: gpu.Linear, Mipmaps: true})
	ctx.Textures.DuDv = ctx.loadTexture(s.DuDvTexture, texture.Options{Wrap: gpu.Repeat, Filter: gpu.Linear, Mipmaps: true})

	return ctx, nil
}

// loadTexture reads path from disk. When the file does not exist, a stock
// texture with the same base name is taken from the embedded assets instead.
func (ctx *Context) loadTexture(path string, opts texture.Options) uint32 {
	tex, err := texture.Load(ctx.Device, path, opts)
	if errors.Is(err, fs.ErrNotExist) && path != "" {
		name := "textures/" + filepath.Base(path)
		if embedded, embErr := texture.LoadFS(ctx.Device, assets.Textures, name, opts); embErr == nil {
			ctx.Log.Debug("texture loaded from embedded assets",
				zap.String("path", path), zap.String("asset", name), zap.Uint32("id", embedded))
			return embedded
		}
	}
	if err != nil {
		ctx.Log.Warn("texture not loaded, slot left unbound", zap.String("path", path), zap.Error(err))
		return 0
	}
	ctx.Log.Debug("texture loaded", zap.String("path", path), zap.Uint32("id", tex))
	return tex
}

func (ctx *Context) release() {
	ctx.Meshes.Close()
	ctx.Targets.Close()
}
