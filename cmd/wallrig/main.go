package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"WallRig/internal/config"
	"WallRig/internal/engine"
	"WallRig/internal/logger"
	"WallRig/internal/renderer"
	"WallRig/internal/scene"

	"go.uber.org/zap"
)

func init() {
	// glfw and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := loadScene()
	if err != nil {
		logger.Log.Error("Could not load scene", zap.Error(err))
		os.Exit(1)
	}
	logger.SetLevel(cfg.Debug)
	renderer.Debug = cfg.Debug

	s, err := scene.New(cfg)
	if err != nil {
		logger.Log.Error("Could not build scene", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	s.Start(ctx)
	defer s.Close()

	gopher := engine.NewGopher(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, s.Camera, &s.Lights)
	go func() {
		<-ctx.Done()
		logger.Log.Info("Interrupted, closing window")
		gopher.RequestClose()
	}()

	if err := gopher.Run(s); err != nil {
		logger.Log.Error("Render loop failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadScene prefers a scene.yaml next to the binary or in the working
// directory and falls back to the embedded choreographed scene.
func loadScene() (*config.Scene, error) {
	if path := config.Find("scene.yaml"); path != "" {
		logger.Log.Info("Loading scene", zap.String("path", path))
		return config.Load(path)
	}
	logger.Log.Info("No scene.yaml found, using built-in scene", zap.String("variant", config.VariantChoreographed))
	return config.Default(config.VariantChoreographed)
}
