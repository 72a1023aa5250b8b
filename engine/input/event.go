package input

import (
	"github.com/spaghettifunk/anima-vector/engine/core"
)

type PointerEventType uint8

const (
	PointerPressed PointerEventType = iota
	PointerMoved
	PointerReleased
)

func (t PointerEventType) String() string {
	switch t {
	case PointerPressed:
		return "pressed"
	case PointerMoved:
		return "moved"
	case PointerReleased:
		return "released"
	}
	return "unknown"
}

type KeyboardEventType uint8

const (
	KeyDown KeyboardEventType = iota
	KeyUp
)

func (t KeyboardEventType) String() string {
	switch t {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	}
	return "unknown"
}

/**
 * @brief Position and button state of a pointer at the time of the event.
 * Coordinates are in window pixels with the origin in the top left corner.
 */
type PointerEventArgs struct {
	X, Y      float64
	Button    core.Button
	PointerID int
	Modifiers core.Modifier
}

type KeyEventArgs struct {
	Key       core.KeyCode
	Scancode  int
	Modifiers core.Modifier
	Repeat    bool
}

// Handler receives dispatched input events, usually the game or a renderer.
type Handler interface {
	OnPointerPressed(args *PointerEventArgs)
	OnPointerMoved(args *PointerEventArgs)
	OnPointerReleased(args *PointerEventArgs)
	OnKeyPressed(args *KeyEventArgs)
	OnKeyReleased(args *KeyEventArgs)
}

// Event is a captured platform event waiting to be dispatched.
type Event interface {
	Execute(h Handler)
}

type PointerEvent struct {
	Type PointerEventType
	Args *PointerEventArgs
}

func NewPointerEvent(eventType PointerEventType, args *PointerEventArgs) *PointerEvent {
	return &PointerEvent{Type: eventType, Args: args}
}

// Execute calls the handler method that matches the event type.
func (e *PointerEvent) Execute(h Handler) {
	if h == nil {
		core.LogWarn("pointer event %s has no handler", e.Type)
		return
	}
	switch e.Type {
	case PointerPressed:
		h.OnPointerPressed(e.Args)
	case PointerMoved:
		h.OnPointerMoved(e.Args)
	case PointerReleased:
		h.OnPointerReleased(e.Args)
	default:
		core.LogWarn("unknown pointer event type %d", uint8(e.Type))
	}
}

// KeyboardEvent carries a key transition. The zero value has no arguments
// and dispatches a KeyDown with nil args.
type KeyboardEvent struct {
	Type KeyboardEventType
	Args *KeyEventArgs
}

func NewKeyboardEvent(eventType KeyboardEventType, args *KeyEventArgs) *KeyboardEvent {
	return &KeyboardEvent{Type: eventType, Args: args}
}

func (e *KeyboardEvent) Execute(h Handler) {
	if h == nil {
		core.LogWarn("keyboard event %s has no handler", e.Type)
		return
	}
	switch e.Type {
	case KeyDown:
		h.OnKeyPressed(e.Args)
	case KeyUp:
		h.OnKeyReleased(e.Args)
	default:
		core.LogWarn("unknown keyboard event type %d", uint8(e.Type))
	}
}
