package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetEvents(t *testing.T) {
	t.Helper()
	_ = EventSystemShutdown()
	require.True(t, EventSystemInitialize())
	t.Cleanup(func() { _ = EventSystemShutdown() })
}

func TestEventRegisterAndFire(t *testing.T) {
	resetEvents(t)

	type listener struct{ calls int }
	first, second := &listener{}, &listener{}

	require.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, first, func(EventContext) bool {
		first.calls++
		return false
	}))
	require.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, second, func(EventContext) bool {
		second.calls++
		return true
	}))
	// duplicate listener
	assert.False(t, EventRegister(EVENT_CODE_KEY_PRESSED, first, func(EventContext) bool { return false }))

	assert.True(t, EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_KEY_RELEASED}))
}

func TestEventHandledStopsPropagation(t *testing.T) {
	resetEvents(t)

	var order []string
	a, b := new(int), new(int)
	EventRegister(EVENT_CODE_RESIZED, a, func(EventContext) bool {
		order = append(order, "a")
		return true
	})
	EventRegister(EVENT_CODE_RESIZED, b, func(EventContext) bool {
		order = append(order, "b")
		return true
	})
	EventFire(EventContext{Type: EVENT_CODE_RESIZED})
	assert.Equal(t, []string{"a"}, order)
}

func TestEventUnregister(t *testing.T) {
	resetEvents(t)

	a, b := new(int), new(int)
	var got []string
	EventRegister(EVENT_CODE_MOUSE_MOVED, a, func(EventContext) bool { got = append(got, "a"); return false })
	EventRegister(EVENT_CODE_MOUSE_MOVED, b, func(EventContext) bool { got = append(got, "b"); return false })

	assert.True(t, EventUnregister(EVENT_CODE_MOUSE_MOVED, a))
	assert.False(t, EventUnregister(EVENT_CODE_MOUSE_MOVED, a))

	EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED})
	assert.Equal(t, []string{"b"}, got)
}

func TestEventsBeforeInitialize(t *testing.T) {
	_ = EventSystemShutdown()
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, nil, func(EventContext) bool { return true }))
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))
}

func TestInputKeyTransitions(t *testing.T) {
	resetEvents(t)
	require.NoError(t, InputInitialize())
	t.Cleanup(func() { _ = InputShutdown() })

	var fired []EventCode
	EventRegister(EVENT_CODE_KEY_PRESSED, "pressed", func(c EventContext) bool {
		fired = append(fired, c.Type)
		ke, ok := c.Data.(*KeyEvent)
		require.True(t, ok)
		assert.Equal(t, KEY_F, ke.KeyCode)
		return true
	})
	EventRegister(EVENT_CODE_KEY_RELEASED, "released", func(c EventContext) bool {
		fired = append(fired, c.Type)
		return true
	})

	require.NoError(t, InputProcessKey(KEY_F, true))
	// same state again does not fire
	require.NoError(t, InputProcessKey(KEY_F, true))
	assert.True(t, InputIsKeyDown(KEY_F))
	assert.False(t, InputWasKeyDown(KEY_F))

	require.NoError(t, InputUpdate(0))
	assert.True(t, InputWasKeyDown(KEY_F))

	require.NoError(t, InputProcessKey(KEY_F, false))
	assert.True(t, InputIsKeyUp(KEY_F))
	assert.Equal(t, []EventCode{EVENT_CODE_KEY_PRESSED, EVENT_CODE_KEY_RELEASED}, fired)
}

func TestInputMouse(t *testing.T) {
	resetEvents(t)
	require.NoError(t, InputInitialize())
	t.Cleanup(func() { _ = InputShutdown() })

	moves := 0
	EventRegister(EVENT_CODE_MOUSE_MOVED, "m", func(EventContext) bool { moves++; return true })

	require.NoError(t, InputProcessMouseMove(10, 20))
	require.NoError(t, InputProcessMouseMove(10, 20))
	x, y := InputGetMousePosition()
	assert.Equal(t, int32(10), x)
	assert.Equal(t, int32(20), y)
	assert.Equal(t, 1, moves)

	require.NoError(t, InputProcessButton(BUTTON_RIGHT, true))
	assert.True(t, InputIsButtonDown(BUTTON_RIGHT))
	assert.True(t, InputIsButtonUp(BUTTON_LEFT))
	assert.NoError(t, InputProcessButton(BUTTON_MAX_BUTTONS, true))
}

func TestInputNotInitialized(t *testing.T) {
	_ = InputShutdown()
	assert.ErrorIs(t, InputProcessKey(KEY_A, true), ErrNotInitialized)
	assert.False(t, InputIsKeyDown(KEY_A))
	assert.True(t, InputIsKeyUp(KEY_A))
}

func TestLogLevelText(t *testing.T) {
	var l LogLevel
	require.NoError(t, l.UnmarshalText([]byte("WARN")))
	assert.Equal(t, WarnLevel, l)
	assert.ErrorIs(t, l.UnmarshalText([]byte("loud")), ErrInvalidConfig)

	text, err := ErrorLevel.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(WarnLevel)
	t.Cleanup(func() {
		SetLogOutput(nopWriter{})
		SetLogLevel(InfoLevel)
	})

	LogInfo("hidden")
	LogWarn("visible %d", 42)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible 42")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &Clock{now: func() time.Time { return now }}
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)

	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	assert.Greater(t, m.FPS(), 0.0)
}

func TestNewIdentifier(t *testing.T) {
	a, b := NewIdentifier(), NewIdentifier()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
