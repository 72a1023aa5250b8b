package engine

import (
	"github.com/spaghettifunk/anima-vector/engine/input"
	"github.com/spaghettifunk/anima-vector/engine/renderer"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	// Receives every input event after the engine has recorded it. Optional.
	InputHandler input.Handler
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render fills the packet with the shapes to draw this frame.
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
