package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"planar-water/internal/app"
	"planar-water/internal/camera"
	"planar-water/internal/config"
	"planar-water/internal/graphics/opengl"
	"planar-water/internal/graphics/renderables/preview"
	"planar-water/internal/graphics/renderables/scene"
	"planar-water/internal/graphics/renderables/water"
	renderer "planar-water/internal/graphics/renderer"
	"planar-water/internal/input"
	"planar-water/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	settings, err := config.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		closer.Fatalln(err)
	}

	log, err := logger.New(settings.LogLevel)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(func() { _ = log.Sync() })

	if err := glfw.Init(); err != nil {
		log.Error("failed to initialize GLFW", zap.Error(err))
		closer.Fatalln(err)
	}

	window, err := app.SetupWindow(settings)
	if err != nil {
		log.Error("failed to create window", zap.Error(err))
		glfw.Terminate()
		closer.Fatalln(err)
	}

	dev, err := opengl.Init()
	if err != nil {
		log.Error("failed to initialize OpenGL", zap.Error(err))
		glfw.Terminate()
		closer.Fatalln(err)
	}
	log.Info("OpenGL ready", zap.String("version", dev.Version()))

	ctx, err := renderer.NewContext(dev, settings, log)
	if err != nil {
		log.Error("failed to build render context", zap.Error(err))
		glfw.Terminate()
		closer.Fatalln(err)
	}

	r, err := renderer.NewRenderer(ctx, renderer.Features{
		Scene:   scene.NewScene(),
		Water:   water.NewWater(),
		Preview: preview.NewPreview(),
	})
	if err != nil {
		log.Error("failed to initialize renderer", zap.Error(err))
		glfw.Terminate()
		closer.Fatalln(err)
	}

	cam := camera.New(settings.CameraStart)
	cam.Zoom, cam.MinZoom, cam.MaxZoom = settings.FOV, settings.MinFOV, settings.FOV

	a := app.New(window, input.NewInputManager(), cam, settings.FPSLimit, log)
	app.SetupInputHandlers(a)

	renderer.NewLoop(a, r, glfw.GetTime).Run()

	// GL teardown happens here on the locked thread, not in closer's goroutine.
	r.Dispose()
	glfw.Terminate()
}
