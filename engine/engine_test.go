package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/input"
	"github.com/spaghettifunk/anima-vector/engine/renderer"
)

type recordingHandler struct {
	calls []string
}

func (h *recordingHandler) OnPointerPressed(*input.PointerEventArgs)  { h.calls = append(h.calls, "press") }
func (h *recordingHandler) OnPointerMoved(*input.PointerEventArgs)    { h.calls = append(h.calls, "move") }
func (h *recordingHandler) OnPointerReleased(*input.PointerEventArgs) { h.calls = append(h.calls, "release") }
func (h *recordingHandler) OnKeyPressed(*input.KeyEventArgs)          { h.calls = append(h.calls, "keydown") }
func (h *recordingHandler) OnKeyReleased(*input.KeyEventArgs)         { h.calls = append(h.calls, "keyup") }

func newTestEngine(t *testing.T, g *Game) *Engine {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)

	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultConfig()
		g.ApplicationConfig.AssetsDir = ""
		g.ApplicationConfig.StartWidth = 32
		g.ApplicationConfig.StartHeight = 32
		g.ApplicationConfig.SnapshotDir = t.TempDir()
	}
	e, err := New(g)
	require.NoError(t, err)
	require.NoError(t, e.initializeSubsystems())
	t.Cleanup(func() {
		_ = e.jobSystem.Shutdown()
		_ = core.EventSystemShutdown()
		_ = core.InputShutdown()
		_ = e.renderer.Shutdown()
		core.SetLogOutput(&bytes.Buffer{})
	})
	return e
}

func TestFrameForwardsInput(t *testing.T) {
	h := &recordingHandler{}
	e := newTestEngine(t, &Game{InputHandler: h})

	args := &input.PointerEventArgs{X: 4, Y: 5, Button: core.BUTTON_LEFT}
	require.NoError(t, e.inputQueue.Push(input.NewPointerEvent(input.PointerPressed, args)))
	require.NoError(t, e.inputQueue.Push(input.NewPointerEvent(input.PointerMoved, args)))
	require.NoError(t, e.inputQueue.Push(input.NewKeyboardEvent(input.KeyDown, &input.KeyEventArgs{Key: core.KEY_F})))

	require.NoError(t, e.frame(0.016))

	assert.Equal(t, []string{"press", "move", "keydown"}, h.calls)
	assert.True(t, core.InputIsButtonDown(core.BUTTON_LEFT))
	assert.True(t, core.InputIsKeyDown(core.KEY_F))
	// previous state copied at the end of the frame
	assert.True(t, core.InputWasKeyDown(core.KEY_F))
	x, y := core.InputGetMousePosition()
	assert.Equal(t, int32(4), x)
	assert.Equal(t, int32(5), y)
	assert.Zero(t, e.inputQueue.Len())
}

func TestFrameDropsPointerEventsWithoutArgs(t *testing.T) {
	h := &recordingHandler{}
	e := newTestEngine(t, &Game{InputHandler: h})

	for _, typ := range []input.PointerEventType{input.PointerPressed, input.PointerMoved, input.PointerReleased} {
		require.NoError(t, e.inputQueue.Push(input.NewPointerEvent(typ, nil)))
	}
	require.NotPanics(t, func() { require.NoError(t, e.frame(0)) })
	assert.Empty(t, h.calls)
	assert.False(t, core.InputIsButtonDown(core.BUTTON_LEFT))

	args := &input.PointerEventArgs{Button: core.BUTTON_LEFT}
	require.NoError(t, e.inputQueue.Push(input.NewPointerEvent(input.PointerPressed, args)))
	require.NoError(t, e.frame(0))
	assert.Equal(t, []string{"press"}, h.calls)
}

func TestFrameRendersPacket(t *testing.T) {
	var rendered int
	g := &Game{}
	g.FnRender = func(packet *renderer.RenderPacket, deltaTime float64) error {
		rendered++
		s := g.ApplicationConfig.NewShape()
		s.MoveTo2(0, 0)
		s.LineTo2(10, 0)
		s.LineTo2(10, 10)
		s.Close()
		packet.Shapes = append(packet.Shapes, renderer.ShapeRenderData{Shape: s})
		return nil
	}
	e := newTestEngine(t, g)

	require.NoError(t, e.frame(0.016))
	assert.Equal(t, 1, rendered)
	assert.Equal(t, 1, e.backend.Stats().Meshes)
}

func TestEscapeQuits(t *testing.T) {
	e := newTestEngine(t, &Game{})
	require.True(t, e.isRunning.Load())

	require.NoError(t, e.inputQueue.Push(input.NewKeyboardEvent(input.KeyDown, &input.KeyEventArgs{Key: core.KEY_ESCAPE})))
	require.NoError(t, e.frame(0))
	assert.False(t, e.isRunning.Load())
}

func TestSnapshotKey(t *testing.T) {
	e := newTestEngine(t, &Game{})
	require.NoError(t, e.frame(0))

	require.NoError(t, e.inputQueue.Push(input.NewKeyboardEvent(input.KeyDown, &input.KeyEventArgs{Key: core.KEY_S})))
	require.NoError(t, e.frame(0))

	matches, err := filepath.Glob(filepath.Join(e.gameInstance.ApplicationConfig.SnapshotDir, "snapshot-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	info, err := os.Stat(matches[0])
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestResizeSuspends(t *testing.T) {
	var sizes [][2]uint32
	g := &Game{FnOnResize: func(w, h uint32) error {
		sizes = append(sizes, [2]uint32{w, h})
		return nil
	}}
	e := newTestEngine(t, g)

	fire := func(w, h uint32) {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_RESIZED,
			Data: &core.SystemEvent{WindowWidth: w, WindowHeight: h},
		})
	}
	fire(0, 0)
	assert.True(t, e.isSuspended)
	fire(64, 48)
	assert.False(t, e.isSuspended)
	assert.Equal(t, [][2]uint32{{64, 48}}, sizes)
	assert.Equal(t, 64, e.backend.Image().Bounds().Dx())

	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(64), w)
	assert.Equal(t, uint32(48), h)
}

func TestGameErrorsStopTheFrame(t *testing.T) {
	g := &Game{FnUpdate: func(float64) error { return core.ErrUnknown }}
	e := newTestEngine(t, g)
	assert.ErrorIs(t, e.frame(0), core.ErrUnknown)
}
