package testbed

import (
	"github.com/spaghettifunk/anima-vector/engine"
	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
	"github.com/spaghettifunk/anima-vector/engine/input"
	"github.com/spaghettifunk/anima-vector/engine/renderer"
)

var windingCycle = []graphics.WindingMode{
	graphics.WindingOdd,
	graphics.WindingNonzero,
	graphics.WindingPositive,
	graphics.WindingNegative,
	graphics.WindingAbsGeqTwo,
}

/**
 * @brief A sketch pad. Drag with the left button to draw a closed curve,
 * F toggles the fill, W cycles the winding rule and C clears. Shapes from
 * the assets directory are drawn underneath.
 *
 * Frames are rasterised in software and never presented: the platform
 * window has no client API surface. Press S to write the current frame
 * to the snapshot directory and look at it there.
 */
type TestGame struct {
	*engine.Game
	Engine *engine.Engine
}

type gameState struct {
	sketch  *graphics.Shape
	drawing bool
	winding int

	width  uint32
	height uint32
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	tg.InputHandler = tg

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.state()
	state.sketch = g.ApplicationConfig.NewShape()
	state.sketch.SetStrokeWidth(2)
	state.sketch.SetFillColor(graphics.NewColorFromHex(0x3A86FF))
	state.sketch.SetStrokeColor(graphics.ColorWhite)

	if g.Engine != nil && g.Engine.Library() != nil {
		core.LogInfo("loaded shapes: %v", g.Engine.Library().Names())
	}
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	return nil
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	if g.Engine != nil && g.Engine.Library() != nil {
		library := g.Engine.Library()
		for _, name := range library.Names() {
			asset, err := library.Get(name)
			if err != nil {
				// removed between Names and Get
				continue
			}
			packet.Shapes = append(packet.Shapes, renderer.ShapeRenderData{
				Shape:    asset.Shape,
				Position: asset.Description.Origin(),
			})
		}
	}
	packet.Shapes = append(packet.Shapes, renderer.ShapeRenderData{Shape: g.state().sketch})
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	return nil
}

func (g *TestGame) OnPointerPressed(args *input.PointerEventArgs) {
	if args.Button != core.BUTTON_LEFT {
		return
	}
	state := g.state()
	state.drawing = true
	state.sketch.MoveTo2(float32(args.X), float32(args.Y))
}

func (g *TestGame) OnPointerMoved(args *input.PointerEventArgs) {
	state := g.state()
	if !state.drawing {
		return
	}
	state.sketch.CurveTo2(float32(args.X), float32(args.Y))
}

func (g *TestGame) OnPointerReleased(args *input.PointerEventArgs) {
	state := g.state()
	if !state.drawing || args.Button != core.BUTTON_LEFT {
		return
	}
	state.drawing = false
	state.sketch.Close()
}

func (g *TestGame) OnKeyPressed(args *input.KeyEventArgs) {
	if args.Repeat {
		return
	}
	state := g.state()
	switch args.Key {
	case core.KEY_F:
		state.sketch.SetFilled(!state.sketch.IsFilled())
		if !state.sketch.IsFilled() {
			state.sketch.SetStrokeWidth(2)
		}
	case core.KEY_W:
		state.winding = (state.winding + 1) % len(windingCycle)
		state.sketch.SetWindingMode(windingCycle[state.winding])
		core.LogInfo("winding rule: %s", windingCycle[state.winding])
	case core.KEY_C:
		state.sketch.Clear()
		state.drawing = false
	}
}

func (g *TestGame) OnKeyReleased(args *input.KeyEventArgs) {}
