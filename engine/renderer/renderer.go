package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
	"github.com/spaghettifunk/anima-vector/engine/math"
	"github.com/spaghettifunk/anima-vector/engine/renderer/raster"
)

type RendererBackend interface {
	graphics.Renderer
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint16) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
}

// snapshotter is implemented by backends that can dump the last frame.
type snapshotter interface {
	SavePNG(path string) error
}

type RendererType uint8

const (
	Software RendererType = iota
)

func (t RendererType) String() string {
	switch t {
	case Software:
		return "software"
	}
	return fmt.Sprintf("RendererType(%d)", uint8(t))
}

// ShapeRenderData places a shape in the frame.
type ShapeRenderData struct {
	Shape    *graphics.Shape
	Position math.Vec2
}

/**
 * @brief Everything needed to draw a single frame.
 */
type RenderPacket struct {
	DeltaTime float64
	Shapes    []ShapeRenderData
}

type Renderer struct {
	backend RendererBackend
	// last error logged per shape ID, so a cached failure is logged once
	reported map[string]error
}

// New creates the frontend for the given backend type.
func New(rendererType RendererType) (*Renderer, error) {
	switch rendererType {
	case Software:
		return NewWithBackend(raster.New(1, 1)), nil
	}
	return nil, fmt.Errorf("%w: unsupported renderer type %s", core.ErrInvalidConfig, rendererType)
}

func NewWithBackend(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	return r.backend.Initialize(appName, appWidth, appHeight)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint16) error {
	return r.backend.Resized(width, height)
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

// DrawFrame draws every shape of the packet. A shape that fails to
// tessellate is skipped so the rest of the frame still renders. The failure
// is logged when it first shows up, not again while the shape keeps
// returning the same cached error.
func (r *Renderer) DrawFrame(packet *RenderPacket) error {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError("%s", err)
		return err
	}
	var reported map[string]error
	for _, data := range packet.Shapes {
		if data.Shape == nil {
			continue
		}
		if err := data.Shape.DrawAt(r.backend, data.Position.X, data.Position.Y); err != nil {
			id := data.Shape.ID()
			if r.reported[id] != err {
				core.LogError("failed to draw shape %s: %s", id, err)
			}
			if reported == nil {
				reported = make(map[string]error)
			}
			reported[id] = err
		}
	}
	r.reported = reported
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed: %s", err)
		return err
	}
	return nil
}

// Snapshot writes the last frame to a PNG file when the backend supports it.
func (r *Renderer) Snapshot(path string) error {
	s, ok := r.backend.(snapshotter)
	if !ok {
		return fmt.Errorf("renderer backend %T cannot take snapshots", r.backend)
	}
	return s.SavePNG(path)
}
