package input

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-vector/engine/containers"
	"github.com/spaghettifunk/anima-vector/engine/core"
)

type recordingHandler struct {
	calls    []string
	pointers []*PointerEventArgs
	keys     []*KeyEventArgs
}

func (h *recordingHandler) OnPointerPressed(args *PointerEventArgs) {
	h.calls = append(h.calls, "pressed")
	h.pointers = append(h.pointers, args)
}

func (h *recordingHandler) OnPointerMoved(args *PointerEventArgs) {
	h.calls = append(h.calls, "moved")
	h.pointers = append(h.pointers, args)
}

func (h *recordingHandler) OnPointerReleased(args *PointerEventArgs) {
	h.calls = append(h.calls, "released")
	h.pointers = append(h.pointers, args)
}

func (h *recordingHandler) OnKeyPressed(args *KeyEventArgs) {
	h.calls = append(h.calls, "keyPressed")
	h.keys = append(h.keys, args)
}

func (h *recordingHandler) OnKeyReleased(args *KeyEventArgs) {
	h.calls = append(h.calls, "keyReleased")
	h.keys = append(h.keys, args)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(&bytes.Buffer{}) })
	return &buf
}

func TestPointerEventExecute(t *testing.T) {
	tests := []struct {
		eventType PointerEventType
		want      string
	}{
		{PointerPressed, "pressed"},
		{PointerMoved, "moved"},
		{PointerReleased, "released"},
	}
	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			h := &recordingHandler{}
			args := &PointerEventArgs{X: 10, Y: 20, Button: core.BUTTON_LEFT}
			NewPointerEvent(tt.eventType, args).Execute(h)
			assert.Equal(t, []string{tt.want}, h.calls)
			require.Len(t, h.pointers, 1)
			assert.Same(t, args, h.pointers[0])
		})
	}
}

func TestKeyboardEventExecute(t *testing.T) {
	h := &recordingHandler{}
	down := &KeyEventArgs{Key: core.KEY_A}
	up := &KeyEventArgs{Key: core.KEY_A, Modifiers: core.MOD_SHIFT}

	NewKeyboardEvent(KeyDown, down).Execute(h)
	NewKeyboardEvent(KeyUp, up).Execute(h)

	assert.Equal(t, []string{"keyPressed", "keyReleased"}, h.calls)
	assert.Same(t, down, h.keys[0])
	assert.Same(t, up, h.keys[1])
}

func TestKeyboardEventZeroValue(t *testing.T) {
	h := &recordingHandler{}
	(&KeyboardEvent{}).Execute(h)
	assert.Equal(t, []string{"keyPressed"}, h.calls)
	assert.Nil(t, h.keys[0])
}

func TestUnknownEventTypeWarns(t *testing.T) {
	buf := captureLog(t)
	h := &recordingHandler{}

	NewPointerEvent(PointerEventType(9), &PointerEventArgs{}).Execute(h)
	NewKeyboardEvent(KeyboardEventType(9), &KeyEventArgs{}).Execute(h)

	assert.Empty(t, h.calls)
	assert.Contains(t, buf.String(), "unknown pointer event type 9")
	assert.Contains(t, buf.String(), "unknown keyboard event type 9")
}

func TestNilHandlerWarns(t *testing.T) {
	buf := captureLog(t)
	assert.NotPanics(t, func() {
		NewPointerEvent(PointerMoved, nil).Execute(nil)
		NewKeyboardEvent(KeyUp, nil).Execute(nil)
	})
	assert.Contains(t, buf.String(), "has no handler")
}

func TestQueueDrainInOrder(t *testing.T) {
	q := NewQueue(8)
	require.NoError(t, q.Push(NewPointerEvent(PointerPressed, &PointerEventArgs{})))
	require.NoError(t, q.Push(NewPointerEvent(PointerMoved, &PointerEventArgs{})))
	require.NoError(t, q.Push(NewKeyboardEvent(KeyDown, &KeyEventArgs{})))
	require.NoError(t, q.Push(NewPointerEvent(PointerReleased, &PointerEventArgs{})))
	assert.Equal(t, 4, q.Len())

	h := &recordingHandler{}
	assert.Equal(t, 4, q.Drain(h))
	assert.Equal(t, []string{"pressed", "moved", "keyPressed", "released"}, h.calls)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Drain(h))
}

func TestQueueFullDropsEvents(t *testing.T) {
	captureLog(t)
	q := NewQueue(2)
	require.NoError(t, q.Push(&KeyboardEvent{}))
	require.NoError(t, q.Push(&KeyboardEvent{}))

	err := q.Push(&KeyboardEvent{})
	assert.True(t, errors.Is(err, containers.ErrQueueFull))
	assert.Equal(t, 2, q.Len())
}

// pushingHandler queues a new event from inside a dispatch.
type pushingHandler struct {
	recordingHandler
	queue *Queue
}

func (h *pushingHandler) OnKeyPressed(args *KeyEventArgs) {
	h.recordingHandler.OnKeyPressed(args)
	_ = h.queue.Push(NewKeyboardEvent(KeyUp, args))
}

func TestQueueDrainLeavesNewEvents(t *testing.T) {
	q := NewQueue(4)
	h := &pushingHandler{queue: q}
	require.NoError(t, q.Push(NewKeyboardEvent(KeyDown, &KeyEventArgs{})))

	assert.Equal(t, 1, q.Drain(h))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.Drain(h))
	assert.Equal(t, []string{"keyPressed", "keyReleased"}, h.calls)
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = q.Push(NewPointerEvent(PointerMoved, &PointerEventArgs{}))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 500, q.Drain(&recordingHandler{}))
}
