package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/anima-vector/engine/assets"
	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/input"
	"github.com/spaghettifunk/anima-vector/engine/platform"
	"github.com/spaghettifunk/anima-vector/engine/renderer"
	"github.com/spaghettifunk/anima-vector/engine/renderer/raster"
	"github.com/spaghettifunk/anima-vector/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool
	platform     *platform.Platform
	renderer     *renderer.Renderer
	backend      *raster.Backend
	library      *assets.ShapeLibrary
	jobSystem    *systems.JobSystem
	inputQueue   *input.Queue
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultConfig()
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(config.LogLevel)

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		isSuspended:  false,
		width:        config.StartWidth,
		height:       config.StartHeight,
		lastTime:     0,
	}

	e.isRunning.Store(true)
	e.inputQueue = input.NewQueue(config.InputQueueLen)
	e.platform = platform.New(e.inputQueue)

	e.backend = raster.New(int(config.StartWidth), int(config.StartHeight))
	e.backend.SetBackground(config.Background)
	e.renderer = renderer.NewWithBackend(e.backend)

	js, err := systems.NewJobSystem(config.Workers, config.Workers*4)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	e.jobSystem = js

	if config.AssetsDir != "" {
		lib, err := assets.NewShapeLibrary(js)
		if err != nil {
			core.LogError("%s", err)
			return nil, err
		}
		e.library = lib
	}

	e.currentStage = EngineStageBootComplete
	return e, nil
}

// initializeSubsystems sets up everything that does not need a window.
func (e *Engine) initializeSubsystems() error {
	if err := core.InputInitialize(); err != nil {
		return err
	}
	if !core.EventSystemInitialize() {
		return errors.New("event system is already running")
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)
	core.EventRegister(core.EVENT_CODE_SHAPE_RELOADED, e, e.onShapeReloaded)

	config := e.gameInstance.ApplicationConfig
	if err := e.renderer.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}
	if e.library != nil {
		if err := e.library.Initialize(config.AssetsDir); err != nil {
			core.LogWarn("shape library disabled: %s", err)
			_ = e.library.Close()
			e.library = nil
		}
	}
	return nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	if err := e.initializeSubsystems(); err != nil {
		return err
	}

	config := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64 = 1.0 / 60.0

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
		}

		if !e.isSuspended {
			// Update clock and get delta time.
			e.clock.Update()

			var currentTime float64 = e.clock.Elapsed()
			var delta float64 = (currentTime - e.lastTime)
			var frameStartTime float64 = platform.GetAbsoluteTime()

			if err := e.frame(delta); err != nil {
				core.LogError("frame failed, shutting down: %s", err)
				e.isRunning.Store(false)
				break
			}

			// Figure out how long the frame took and, if below the target,
			// give the rest back to the OS.
			var frameElapsedTime float64 = platform.GetAbsoluteTime() - frameStartTime
			e.metrics.Update(frameElapsedTime)
			var remainingSeconds float64 = targetFrameSeconds - frameElapsedTime
			if remainingSeconds > 0 {
				e.platform.Sleep(remainingSeconds*1000 - 1)
			}

			// Update last time
			e.lastTime = currentTime
		}
	}

	return nil
}

// frame runs one iteration of the loop: input, update, render.
func (e *Engine) frame(delta float64) error {
	e.inputQueue.Drain(e)

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return fmt.Errorf("game update failed: %w", err)
		}
	}

	packet := &renderer.RenderPacket{DeltaTime: delta}
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			return fmt.Errorf("game render failed: %w", err)
		}
	}
	if err := e.renderer.DrawFrame(packet); err != nil {
		return err
	}

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	// As a safety, input is the last thing to be updated before
	// this frame ends.
	return core.InputUpdate(delta)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if e.library != nil {
		if err := e.library.Close(); err != nil {
			return err
		}
	}
	if err := e.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// Library returns the shape library, nil when no assets directory is set.
func (e *Engine) Library() *assets.ShapeLibrary {
	return e.library
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// FPS as measured over the last second of frames.
func (e *Engine) FPS() float64 {
	return e.metrics.FPS()
}

// ApplicationGetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// Snapshot saves the last rendered frame as a PNG in the snapshot
// directory and returns its path.
func (e *Engine) Snapshot() (string, error) {
	name := fmt.Sprintf("snapshot-%s.png", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(e.gameInstance.ApplicationConfig.SnapshotDir, name)
	if err := e.renderer.Snapshot(path); err != nil {
		return "", err
	}
	core.LogInfo("saved snapshot to %s", path)
	return path, nil
}

// The engine mirrors every queued input event into the core input state,
// which fires the matching core events, then hands it to the game.

func (e *Engine) OnPointerPressed(args *input.PointerEventArgs) {
	if args == nil {
		return
	}
	e.processPointer(args)
	if err := core.InputProcessButton(args.Button, true); err != nil {
		core.LogWarn("%s", err)
	}
	if h := e.gameInstance.InputHandler; h != nil {
		h.OnPointerPressed(args)
	}
}

func (e *Engine) OnPointerMoved(args *input.PointerEventArgs) {
	if args == nil {
		return
	}
	e.processPointer(args)
	if h := e.gameInstance.InputHandler; h != nil {
		h.OnPointerMoved(args)
	}
}

func (e *Engine) OnPointerReleased(args *input.PointerEventArgs) {
	if args == nil {
		return
	}
	e.processPointer(args)
	if err := core.InputProcessButton(args.Button, false); err != nil {
		core.LogWarn("%s", err)
	}
	if h := e.gameInstance.InputHandler; h != nil {
		h.OnPointerReleased(args)
	}
}

func (e *Engine) processPointer(args *input.PointerEventArgs) {
	if err := core.InputProcessMouseMove(int32(args.X), int32(args.Y)); err != nil {
		core.LogWarn("%s", err)
	}
}

func (e *Engine) OnKeyPressed(args *input.KeyEventArgs) {
	if args == nil {
		return
	}
	if !args.Repeat {
		if err := core.InputProcessKey(args.Key, true); err != nil {
			core.LogWarn("%s", err)
		}
	}
	if h := e.gameInstance.InputHandler; h != nil {
		h.OnKeyPressed(args)
	}
}

func (e *Engine) OnKeyReleased(args *input.KeyEventArgs) {
	if args == nil {
		return
	}
	if err := core.InputProcessKey(args.Key, false); err != nil {
		core.LogWarn("%s", err)
	}
	if h := e.gameInstance.InputHandler; h != nil {
		h.OnKeyReleased(args)
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if context.Type != core.EVENT_CODE_KEY_PRESSED {
		return false
	}

	switch ke.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	case core.KEY_S:
		if _, err := e.Snapshot(); err != nil {
			core.LogError("snapshot failed: %s", err)
		}
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
	if err := e.renderer.OnResize(uint16(width), uint16(height)); err != nil {
		core.LogError("%s", err)
	}
	return false
}

func (e *Engine) onShapeReloaded(context core.EventContext) bool {
	if ae, ok := context.Data.(*core.AssetEvent); ok {
		core.LogInfo("shape %q reloaded from %s", ae.Name, ae.Path)
	}
	return false
}
