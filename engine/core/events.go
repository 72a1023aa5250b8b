package core

import "sync"

// EventCode identifies an application event. System codes live below 0xFF;
// applications should use codes beyond that.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. Data: *MouseEvent (PosX, PosY)
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel. Data: *MouseEvent (Scroll)
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Resized/resolution changed from the OS. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08

	// A shape description file was (re)loaded from disk. Data: *AssetEvent
	EVENT_CODE_SHAPE_RELOADED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type KeyEvent struct {
	KeyCode   KeyCode
	Modifiers Modifier
	Repeat    bool
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Name string
	Path string
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// State structure.
type eventSystemState struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES][]registeredEvent
}

var eventMutex sync.Mutex
var eventState *eventSystemState = nil

func getEventState() *eventSystemState {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	return eventState
}

// EventSystemInitialize prepares the event tables. Returns false when the
// system was already running.
func EventSystemInitialize() bool {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{}
	return true
}

// EventSystemShutdown drops every registration. Listeners themselves are
// left alone.
func EventSystemShutdown() error {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	eventState = nil
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener The listener instance. Can be nil. Must be comparable (usually a pointer).
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	s := getEventState()
	if s == nil || onEvent == nil || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range s.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	s.registered[code] = append(s.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// EventUnregister removes the registration of listener for code. Returns
// false if nothing matched.
func EventUnregister(code EventCode, listener interface{}) bool {
	s := getEventState()
	if s == nil || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	events := s.registered[code]
	for i, e := range events {
		if e.listener == listener {
			s.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @param context The event code and data.
 * @returns true if handled, otherwise false.
 */
func EventFire(context EventContext) bool {
	s := getEventState()
	if s == nil || int(context.Type) >= MAX_MESSAGE_CODES {
		return false
	}
	// callbacks may register or fire further events
	s.mutex.RLock()
	events := append([]registeredEvent(nil), s.registered[context.Type]...)
	s.mutex.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
