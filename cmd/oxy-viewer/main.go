// Command oxy-viewer opens a window and renders an instanced, lit model that can be
// explored with a free-fly camera.
//
// Controls: WASD or the arrow keys move, Space and Shift rise and sink, dragging with
// the left mouse button looks around, the wheel tilts the view, Escape quits.
//
// Configuration is read from the TOML file named by OXY_VIEWER_CONFIG, or from
// oxy-viewer.toml in the working directory when present.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	// GLFW and the surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		common.Logger().Error("viewer stopped", "kind", kindName(err), "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, path, err := config.FromEnv()
	if err != nil {
		// Logger is not configured yet.
		slog.Error("config", "err", err)
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: common.ParseLogLevel(cfg.LogLevel),
	})))
	if path != "" {
		common.Logger().Info("config loaded", "path", path)
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithClearColor(cfg.Renderer.ClearColor),
		renderer.WithDepthFormat(renderer.ParseDepthFormat(cfg.Renderer.DepthFormat)),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	imported, err := loadModel(cfg)
	if err != nil {
		return err
	}

	cc := cfg.Camera
	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3(cc.Position)),
		camera.WithYaw(mgl32.DegToRad(cc.YawDeg)),
		camera.WithPitch(mgl32.DegToRad(cc.PitchDeg)),
	)
	lt := light.NewLight(
		light.WithPosition(mgl32.Vec4(cfg.Light.Position)),
		light.WithColor(mgl32.Vec4(cfg.Light.Color)),
		light.WithRotationRate(mgl32.DegToRad(cfg.Light.RateDeg)),
		light.WithRotationPolicy(light.ParseRotationPolicy(cfg.Light.Policy)),
	)

	sc, err := scene.Build(r,
		scene.WithName(imported.Name),
		scene.WithModel(imported),
		scene.WithInstances(instancesFor(cfg.Scene)),
		scene.WithCamera(cam),
		scene.WithLight(lt),
	)
	if err != nil {
		return err
	}
	defer sc.Release()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Profiling),
		engine.WithContext(&engine.Context{
			GPU:        r,
			Camera:     sc.Camera(),
			Projection: camera.NewProjection(win.Width(), win.Height(), mgl32.DegToRad(cc.FovyDeg), cc.ZNear, cc.ZFar),
			Controller: camera.NewCameraController(
				camera.WithSpeed(cc.Speed),
				camera.WithSensitivity(cc.Sensitivity),
				camera.WithScrollScale(cc.ScrollScale),
				camera.WithPitchLimit(cc.PitchLimitDeg),
			),
			Light:     sc.Light(),
			Instances: sc.Instances(),
			Scene:     sc,
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	common.Logger().Info("viewer running", "model", imported.Name, "instances", sc.Instances().Len())
	if err := eng.Run(ctx); err != nil {
		return err
	}
	common.Logger().Info("viewer exited", "frames", eng.Frames())
	return nil
}

// loadModel loads the configured OBJ and decodes its textures, or returns the built-in cube.
func loadModel(cfg config.Config) (*model.ImportedModel, error) {
	if cfg.Scene.Model == "" {
		return model.Cube(1), nil
	}
	l := loader.NewLoader(loader.WithWorkers(cfg.Loader.Workers))
	defer l.Close()

	m, err := l.LoadOBJ(cfg.Scene.Model)
	if err != nil {
		return nil, err
	}
	if err := l.DecodeTextures(m); err != nil {
		return nil, err
	}
	return m, nil
}

func instancesFor(sc config.SceneConfig) *instance.Set {
	if sc.Layout == config.LayoutSingle {
		return instance.NewSet(instance.Single()...)
	}
	return instance.NewSet(instance.Grid(sc.GridPerRow, sc.GridSpacing, sc.InstanceScale)...)
}

func kindName(err error) string {
	if k, ok := common.KindOf(err); ok {
		return k.String()
	}
	return "unclassified"
}
