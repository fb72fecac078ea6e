// Package app is the windowed driver: it owns the GLFW window and GL
// context, measures frame time and drives a scene.Scene once per frame.
package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/san-kum/planetsim/internal/app/timing"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/glrender"
	"github.com/san-kum/planetsim/internal/logging"
	"github.com/san-kum/planetsim/internal/scene"
)

func init() {
	// GLFW and GL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

type App struct {
	cfg    *config.Config
	window *glfw.Window
	dev    *glrender.Device
	scene  *scene.Scene

	width, height int
	clock         timing.Clock
	fps           timing.FPSCounter
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	a, err := open(cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return a.loop(ctx)
}

func open(cfg *config.Config) (*App, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	dev, err := glrender.Init()
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	sc, err := scene.New(dev, cfg)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	a := &App{cfg: cfg, window: window, dev: dev, scene: sc}
	a.width, a.height = window.GetFramebufferSize()
	dev.Viewport(a.width, a.height)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.onResize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		a.onKey(key, action)
	})

	logging.Logger().Info("window opened", "width", a.width, "height", a.height, "title", cfg.Window.Title)
	return a, nil
}

func (a *App) loop(ctx context.Context) error {
	a.clock.Reset(glfw.GetTime())
	for !a.window.ShouldClose() {
		select {
		case <-ctx.Done():
			logging.Logger().Info("shutting down", "reason", ctx.Err())
			return nil
		default:
		}

		now := glfw.GetTime()
		a.scene.Update(a.clock.Tick(now))
		if err := a.scene.Render(a.cfg.Frame(a.width, a.height)); err != nil {
			return err
		}
		if fps, ok := a.fps.Frame(now); ok {
			a.window.SetTitle(timing.Title(a.cfg.Window.Title, fps, a.clock.Paused))
		}

		a.window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func (a *App) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.dev.Viewport(width, height)
	logging.Logger().Debug("framebuffer resized", "width", width, "height", height)
}

func (a *App) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape, glfw.KeyQ:
		a.window.SetShouldClose(true)
	case glfw.KeySpace:
		a.clock.Paused = !a.clock.Paused
		logging.Logger().Info("pause toggled", "paused", a.clock.Paused, "sim_time", a.scene.Time())
	}
}

func (a *App) close() {
	a.scene.Close()
	a.window.Destroy()
	glfw.Terminate()
	logging.Logger().Info("window closed", "frames", a.scene.Frames(), "sim_time", a.scene.Time())
}
