package platform

import (
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/input"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

/**
 * @brief Owns the window. Window callbacks are turned into input events on
 * the queue and, for resizes and the wheel, straight into core events.
 */
type Platform struct {
	Window *glfw.Window
	queue  *input.Queue

	cursorX, cursorY float64
	held             core.Button
}

func New(queue *input.Queue) *Platform {
	return &Platform{
		Window: nil,
		queue:  queue,
		held:   core.BUTTON_MAX_BUTTONS,
	}
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	// frames are rasterised in software, no client API context needed
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	startTime = glfw.GetTime()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	if p.Window == nil {
		return false
	}
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// GetAbsoluteTime returns seconds since the platform started.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func (p *Platform) push(e input.Event) {
	if p.queue == nil {
		return
	}
	// a full queue is already logged
	_ = p.queue.Push(e)
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		core.LogDebug("ignoring unmapped key %d", key)
		return
	}
	args := &input.KeyEventArgs{
		Key:       code,
		Scancode:  scancode,
		Modifiers: translateModifiers(mods),
		Repeat:    action == glfw.Repeat,
	}
	if action == glfw.Release {
		p.push(input.NewKeyboardEvent(input.KeyUp, args))
		return
	}
	p.push(input.NewKeyboardEvent(input.KeyDown, args))
}

func (p *Platform) pointerArgs(button core.Button, mods glfw.ModifierKey) *input.PointerEventArgs {
	return &input.PointerEventArgs{
		X:         p.cursorX,
		Y:         p.cursorY,
		Button:    button,
		Modifiers: translateModifiers(mods),
	}
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	if action == glfw.Press {
		p.held = b
		p.push(input.NewPointerEvent(input.PointerPressed, p.pointerArgs(b, mods)))
		return
	}
	if p.held == b {
		p.held = core.BUTTON_MAX_BUTTONS
	}
	p.push(input.NewPointerEvent(input.PointerReleased, p.pointerArgs(b, mods)))
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.cursorX, p.cursorY = xpos, ypos
	p.push(input.NewPointerEvent(input.PointerMoved, p.pointerArgs(p.held, 0)))
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	var delta int8
	switch {
	case yoff > 0:
		delta = 1
	case yoff < 0:
		delta = -1
	default:
		return
	}
	if err := core.InputProcessMouseWheel(delta); err != nil {
		core.LogWarn("mouse wheel: %s", err)
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: uint32(width), WindowHeight: uint32(height)},
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}
