// Package engine runs the single-threaded frame loop: input, update, render, present.
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/loov/hrtime"
	"github.com/pkg/errors"
)

// Phase is the loop step currently executing.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseInput
	PhaseUpdate
	PhaseRender
	PhasePresent
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInput:
		return "Input"
	case PhaseUpdate:
		return "Update"
	case PhaseRender:
		return "Render"
	case PhasePresent:
		return "Present"
	default:
		return "Unknown"
	}
}

// FrameRenderer is the part of renderer.Renderer the loop drives.
type FrameRenderer interface {
	Resize(width, height int) (bool, error)
	Reconfigure() error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	BeginFrame() error
	Draw(cmd renderer.DrawCommand) error
	EndFrame() error
	Present()
}

// DrawSource supplies the frame's draw commands in order. scene.Scene implements it.
type DrawSource interface {
	DrawCommands() []renderer.DrawCommand
}

// EventSource is the part of window.Window the loop polls.
type EventSource interface {
	PollEvents() []window.Event
	IsRunning() bool
}

// Context is the state the loop threads through every phase. It is owned by the main
// thread and passed by pointer; nothing in it is global.
type Context struct {
	GPU        FrameRenderer
	Camera     camera.Camera
	Projection camera.Projection
	Controller camera.CameraController
	Light      light.Light
	Instances  *instance.Set
	Scene      DrawSource
}

type engine struct {
	window EventSource
	ctx    *Context
	phase  atomic.Int32

	now              func() time.Duration
	profiler         *profiler.Profiler
	profilingEnabled bool
	frames           uint64
}

// Engine owns the frame loop.
type Engine interface {
	// Context returns the loop context.
	Context() *Context

	// Phase returns the loop step currently executing. Safe to call from any goroutine.
	Phase() Phase

	// Frames returns the number of presented frames.
	Frames() uint64

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run drives the loop on the calling thread until the window closes, Escape is
	// pressed, ctx is cancelled or a fatal error occurs. Each iteration polls every
	// pending event, updates once with the elapsed time, then renders and presents.
	//
	// Parameters:
	//   - ctx: cancels the loop between iterations
	//
	// Returns:
	//   - error: nil on a normal exit, otherwise the fatal error that stopped the loop
	Run(ctx context.Context) error
}

var _ Engine = &engine{}

// NewEngine creates an engine. WithWindow and WithContext are required before Run.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		now:      hrtime.Now,
		profiler: profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Context() *Context {
	return e.ctx
}

func (e *engine) Phase() Phase {
	return Phase(e.phase.Load())
}

func (e *engine) setPhase(p Phase) {
	e.phase.Store(int32(p))
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil || e.ctx == nil || e.ctx.GPU == nil {
		return common.Errorf(common.KindFatalInit, "engine.Run", "engine needs a window, a context and a GPU")
	}
	defer e.setPhase(PhaseIdle)

	last := e.now()
	for e.window.IsRunning() {
		if ctx.Err() != nil {
			return nil
		}

		e.setPhase(PhaseInput)
		for _, ev := range e.window.PollEvents() {
			_, quit, err := HandleInput(e.ctx, ev)
			if err != nil {
				return err
			}
			if quit {
				common.Logger().Info("quit requested", "frames", e.frames)
				return nil
			}
		}

		now := e.now()
		dt := now - last
		last = now

		e.setPhase(PhaseUpdate)
		Update(e.ctx, dt)

		e.setPhase(PhaseRender)
		encoded, err := encodeFrame(e.ctx)
		if err != nil {
			return err
		}
		if encoded {
			e.setPhase(PhasePresent)
			e.ctx.GPU.Present()
			e.frames++
			if e.profilingEnabled {
				e.profiler.Tick()
			}
		}
		e.setPhase(PhaseIdle)
	}
	return nil
}

// HandleInput routes one window event. Keyboard, mouse and scroll input is queued on the
// camera controller. Escape and close requests ask the loop to quit. A resize reconfigures
// the surface and then, if that happened, the projection aspect.
//
// Parameters:
//   - ctx: the loop context
//   - ev: the event
//
// Returns:
//   - bool: true if the camera controller consumed the event
//   - bool: true if the loop should stop
//   - error: a fatal error from reconfiguring the surface
func HandleInput(ctx *Context, ev window.Event) (consumed, quit bool, err error) {
	switch ev := ev.(type) {
	case window.EventKey:
		if ev.Key == common.KeyEsc && ev.Pressed {
			return false, true, nil
		}
		return ctx.Controller.ProcessKeyboard(ev.Key, ev.Pressed), false, nil
	case window.EventMouseButton:
		return ctx.Controller.ProcessMouseButton(ev.Button, ev.Pressed), false, nil
	case window.EventMouseMotion:
		return ctx.Controller.ProcessMouseMotion(ev.DX, ev.DY), false, nil
	case window.EventScroll:
		ctx.Controller.ProcessScroll(ev.Delta)
		return true, false, nil
	case window.EventResize:
		resized, rerr := ctx.GPU.Resize(ev.Width, ev.Height)
		if rerr != nil {
			return false, false, rerr
		}
		if resized {
			ctx.Projection.Resize(ev.Width, ev.Height)
		}
		return false, false, nil
	case window.EventClose:
		return false, true, nil
	default:
		return false, false, nil
	}
}

// Update advances the camera, light and instances by dt and uploads all three in one
// WriteBuffers call.
//
// Parameters:
//   - ctx: the loop context
//   - dt: time elapsed since the previous update
func Update(ctx *Context, dt time.Duration) {
	ctx.Controller.UpdateCamera(ctx.Camera, dt)
	var cu camera.GPUCameraUniform
	cu.Update(ctx.Camera, ctx.Projection)

	ctx.Light.Update(dt)
	lu := ctx.Light.Uniform()

	writes := []bind_group_provider.BufferWrite{
		{Provider: ctx.Camera.BindGroupProvider(), Binding: 0, Data: cu.Marshal()},
		{Provider: ctx.Light.BindGroupProvider(), Binding: 0, Data: lu.Marshal()},
	}
	if ctx.Instances != nil && ctx.Instances.Len() > 0 {
		ctx.Instances.Repack()
		writes = append(writes, ctx.Instances.BufferWrite())
	}
	ctx.GPU.WriteBuffers(writes)
}

// Render encodes and presents one frame. A lost surface is reconfigured once and the
// frame skipped; an outdated surface or timeout skips the frame with a warning.
//
// Parameters:
//   - ctx: the loop context
//
// Returns:
//   - error: a fatal error, otherwise nil even when the frame was skipped
func Render(ctx *Context) error {
	encoded, err := encodeFrame(ctx)
	if err != nil || !encoded {
		return err
	}
	ctx.GPU.Present()
	return nil
}

// encodeFrame runs BeginFrame, the scene's draws and EndFrame. It reports false when the
// frame was skipped and nothing must be presented.
func encodeFrame(ctx *Context) (bool, error) {
	if err := ctx.GPU.BeginFrame(); err != nil {
		kind, ok := common.KindOf(err)
		switch {
		case ok && kind == common.KindRecoverableSurface:
			common.Logger().Info("surface lost, reconfiguring", "err", err)
			if rerr := ctx.GPU.Reconfigure(); rerr != nil {
				return false, rerr
			}
			return false, nil
		case ok && kind == common.KindTransientSurface:
			common.Logger().Warn("frame skipped", "err", err)
			return false, nil
		default:
			return false, err
		}
	}

	var drawErr error
	if ctx.Scene != nil {
		for _, cmd := range ctx.Scene.DrawCommands() {
			if drawErr = ctx.GPU.Draw(cmd); drawErr != nil {
				drawErr = errors.Wrapf(drawErr, "draw %q", cmd.PipelineKey)
				break
			}
		}
	}
	if err := ctx.GPU.EndFrame(); err != nil {
		return false, err
	}
	if drawErr != nil {
		ctx.GPU.Present()
		return false, drawErr
	}
	return true, nil
}
