package graphics

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

// Mode selects where drawing calls go. In ModePaths they are recorded as
// commands and flattened lazily; in ModePolylines they are flattened
// immediately into the polylines.
type Mode uint8

const (
	ModePaths Mode = iota
	ModePolylines
)

func (m Mode) String() string {
	switch m {
	case ModePaths:
		return "paths"
	case ModePolylines:
		return "polylines"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paths", "":
		return ModePaths, nil
	case "polylines":
		return ModePolylines, nil
	}
	return ModePaths, fmt.Errorf("%w: unknown shape mode %q", core.ErrInvalidConfig, s)
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ShapeConfig holds the initial settings of a shape.
type ShapeConfig struct {
	Mode            Mode
	WindingMode     WindingMode
	CurveResolution int
	ArcResolution   int
	// Tessellator defaults to the poly2tri sweep when nil.
	Tessellator Tessellator
}

func DefaultShapeConfig() ShapeConfig {
	return ShapeConfig{
		Mode:            ModePaths,
		WindingMode:     WindingOdd,
		CurveResolution: DefaultCurveResolution,
		ArcResolution:   DefaultArcResolution,
	}
}

/**
 * @brief A vector shape made of one or more subpaths. Geometry is rebuilt
 * lazily: hasChanged marks the paths as newer than the polylines, and
 * needsTessellation marks the polylines as newer than the meshes and
 * resolved outlines. A Shape is not safe for concurrent use.
 */
type Shape struct {
	id string

	paths               []*Path
	polylines           []*Polyline
	tessellatedOutlines []*Polyline
	meshes              []*Mesh
	tessellator         Tessellator
	tessellationErr     error

	mode                Mode
	windingMode         WindingMode
	filled              bool
	strokeWidth         float32
	curveResolution     int
	prevCurveResolution int
	arcResolution       int

	hasChanged        bool
	needsTessellation bool

	useShapeColor bool
	fillColor     Color
	strokeColor   Color
}

func NewShape() *Shape {
	return NewShapeWithConfig(DefaultShapeConfig())
}

func NewShapeWithConfig(config ShapeConfig) *Shape {
	if config.CurveResolution <= 0 {
		config.CurveResolution = DefaultCurveResolution
	}
	if config.ArcResolution <= 0 {
		config.ArcResolution = DefaultArcResolution
	}
	if config.Tessellator == nil {
		config.Tessellator = NewTessellator()
	}
	s := &Shape{
		id:                  core.NewIdentifier(),
		tessellator:         config.Tessellator,
		mode:                config.Mode,
		windingMode:         config.WindingMode,
		filled:              true,
		curveResolution:     config.CurveResolution,
		prevCurveResolution: config.CurveResolution,
		arcResolution:       config.ArcResolution,
		fillColor:           ColorWhite,
		strokeColor:         ColorWhite,
	}
	s.Clear()
	return s
}

func (s *Shape) ID() string {
	return s.id
}

// markDirty sets the flag that belongs to the current mode.
func (s *Shape) markDirty() {
	if s.mode == ModePaths {
		s.hasChanged = true
	} else {
		s.needsTessellation = true
	}
}

// Clear removes all geometry. In polylines mode a single empty polyline is
// kept so drawing can continue right away.
func (s *Shape) Clear() {
	if s.mode == ModePaths {
		s.paths = nil
		s.hasChanged = true
		return
	}
	if len(s.polylines) == 0 {
		s.polylines = []*Polyline{NewPolyline()}
	} else {
		s.polylines = s.polylines[:1]
		s.polylines[0].Clear()
	}
	s.needsTessellation = true
}

// NewPath starts a new, empty subpath.
func (s *Shape) NewPath() {
	if s.mode == ModePaths {
		s.paths = append(s.paths, NewPath())
	} else {
		s.polylines = append(s.polylines, NewPolyline())
	}
}

// LastPath returns the subpath being drawn, creating one if needed.
func (s *Shape) LastPath() *Path {
	if len(s.paths) == 0 {
		s.paths = append(s.paths, NewPath())
	}
	return s.paths[len(s.paths)-1]
}

// LastPolyline returns the polyline being drawn, creating one if needed.
func (s *Shape) LastPolyline() *Polyline {
	if len(s.polylines) == 0 {
		s.polylines = append(s.polylines, NewPolyline())
	}
	return s.polylines[len(s.polylines)-1]
}

func (s *Shape) LineTo(p math.Vec3) {
	if s.mode == ModePaths {
		s.LastPath().AddCommand(NewLineCommand(p))
	} else {
		s.LastPolyline().LineTo(p)
	}
	s.markDirty()
}

func (s *Shape) LineTo2(x, y float32) {
	s.LineTo(math.NewVec3From2(x, y))
}

// MoveTo starts a new subpath at p, unless the current one is still empty.
func (s *Shape) MoveTo(p math.Vec3) {
	if s.mode == ModePaths {
		if s.LastPath().Size() > 0 {
			s.NewPath()
		}
		s.LastPath().AddCommand(NewLineCommand(p))
	} else {
		if s.LastPolyline().Size() > 0 {
			s.NewPath()
		}
		s.LastPolyline().AddVertex(p)
	}
	s.markDirty()
}

func (s *Shape) MoveTo2(x, y float32) {
	s.MoveTo(math.NewVec3From2(x, y))
}

func (s *Shape) CurveTo(p math.Vec3) {
	if s.mode == ModePaths {
		s.LastPath().AddCommand(NewCurveCommand(p))
	} else {
		s.LastPolyline().CurveTo(p, s.curveResolution)
	}
	s.markDirty()
}

func (s *Shape) CurveTo2(x, y float32) {
	s.CurveTo(math.NewVec3From2(x, y))
}

func (s *Shape) BezierTo(cp1, cp2, p math.Vec3) {
	if s.mode == ModePaths {
		s.LastPath().AddCommand(NewBezierCommand(p, cp1, cp2))
	} else {
		s.LastPolyline().BezierTo(cp1, cp2, p, s.curveResolution)
	}
	s.markDirty()
}

func (s *Shape) BezierTo2(cx1, cy1, cx2, cy2, x, y float32) {
	s.BezierTo(math.NewVec3From2(cx1, cy1), math.NewVec3From2(cx2, cy2), math.NewVec3From2(x, y))
}

func (s *Shape) QuadBezierTo(cp1, cp2, p math.Vec3) {
	if s.mode == ModePaths {
		s.LastPath().AddCommand(NewQuadBezierCommand(p, cp1, cp2))
	} else {
		s.LastPolyline().QuadBezierTo(cp1, cp2, p, s.curveResolution)
	}
	s.markDirty()
}

func (s *Shape) QuadBezierTo2(cx1, cy1, cx2, cy2, x, y float32) {
	s.QuadBezierTo(math.NewVec3From2(cx1, cy1), math.NewVec3From2(cx2, cy2), math.NewVec3From2(x, y))
}

// Arc adds an elliptical arc; angles are in degrees.
func (s *Shape) Arc(centre math.Vec3, radiusX, radiusY, angleBegin, angleEnd float32) {
	if s.mode == ModePaths {
		s.LastPath().AddCommand(NewArcCommand(centre, radiusX, radiusY, angleBegin, angleEnd))
	} else {
		s.LastPolyline().Arc(centre, radiusX, radiusY, angleBegin, angleEnd, s.arcResolution)
	}
	s.markDirty()
}

func (s *Shape) Arc2(x, y, radiusX, radiusY, angleBegin, angleEnd float32) {
	s.Arc(math.NewVec3From2(x, y), radiusX, radiusY, angleBegin, angleEnd)
}

// Close closes the current subpath. It does not start a new one; the next
// MoveTo does.
func (s *Shape) Close() {
	if s.mode == ModePaths {
		s.LastPath().Close()
	} else {
		s.LastPolyline().SetClosed(true)
	}
	s.markDirty()
}

func (s *Shape) SetWindingMode(mode WindingMode) {
	if s.windingMode != mode {
		s.windingMode = mode
		s.markDirty()
	}
}

// SetFilled switches between filled and outlined drawing. Filling resets
// the stroke width; unfilling a shape without a stroke gives it a 1 unit
// stroke so it stays visible.
func (s *Shape) SetFilled(filled bool) {
	if s.filled == filled {
		return
	}
	s.filled = filled
	if s.filled {
		s.strokeWidth = 0
	} else if s.strokeWidth == 0 {
		s.strokeWidth = 1
	}
	s.markDirty()
}

func (s *Shape) SetStrokeWidth(width float32) {
	if width != 0 && s.strokeWidth == 0 {
		s.markDirty()
	}
	s.strokeWidth = width
}

// Paths returns the recorded subpaths. They are empty in polylines mode.
func (s *Shape) Paths() []*Path {
	if s.mode == ModePolylines {
		core.LogWarn("trying to get paths from shape %s with polylines only", s.id)
	}
	return s.paths
}

// Polylines returns the flattened subpaths, regenerating them if needed.
func (s *Shape) Polylines() []*Polyline {
	s.generatePolylinesFromPaths()
	return s.polylines
}

func (s *Shape) WindingMode() WindingMode { return s.windingMode }
func (s *Shape) IsFilled() bool           { return s.filled }
func (s *Shape) FillColor() Color         { return s.fillColor }
func (s *Shape) StrokeColor() Color       { return s.strokeColor }
func (s *Shape) StrokeWidth() float32     { return s.strokeWidth }
func (s *Shape) Mode() Mode               { return s.mode }
func (s *Shape) CurveResolution() int     { return s.curveResolution }
func (s *Shape) ArcResolution() int       { return s.arcResolution }
func (s *Shape) UseShapeColor() bool      { return s.useShapeColor }

// HasOutline reports whether the shape is stroked.
func (s *Shape) HasOutline() bool {
	return s.strokeWidth > 0
}

func (s *Shape) generatePolylinesFromPaths() {
	if s.mode == ModePolylines {
		return
	}
	if !s.hasChanged && s.curveResolution == s.prevCurveResolution {
		return
	}
	s.prevCurveResolution = s.curveResolution

	s.polylines = make([]*Polyline, len(s.paths))
	for i, p := range s.paths {
		s.polylines[i] = p.Flatten(s.curveResolution, s.arcResolution)
	}
	s.hasChanged = false
	s.needsTessellation = true
}

// Tessellate brings the meshes and outlines up to date. Nothing happens
// when the shape has not changed since the last call.
func (s *Shape) Tessellate() error {
	s.generatePolylinesFromPaths()
	if !s.needsTessellation {
		return s.tessellationErr
	}
	s.needsTessellation = false
	s.tessellationErr = nil
	s.meshes = nil
	s.tessellatedOutlines = nil

	if s.filled {
		meshes, err := s.tessellator.TessellateToMeshes(s.polylines, s.windingMode)
		if err != nil {
			s.tessellationErr = fmt.Errorf("shape %s: %w", s.id, err)
			return s.tessellationErr
		}
		s.meshes = meshes
	}
	if s.HasOutline() && s.windingMode != WindingOdd {
		outlines, err := s.tessellator.TessellateToOutline(s.polylines, s.windingMode)
		if err != nil {
			s.tessellationErr = fmt.Errorf("shape %s: %w", s.id, err)
			return s.tessellationErr
		}
		s.tessellatedOutlines = outlines
	}
	return nil
}

// Outline returns the polylines to stroke. With the odd winding rule these
// are the raw polylines; otherwise the winding resolved boundaries.
func (s *Shape) Outline() ([]*Polyline, error) {
	if err := s.Tessellate(); err != nil {
		return nil, err
	}
	if s.windingMode != WindingOdd {
		if s.tessellatedOutlines == nil && !s.HasOutline() {
			// outline was not needed for drawing, compute it on request
			outlines, err := s.tessellator.TessellateToOutline(s.polylines, s.windingMode)
			if err != nil {
				s.tessellationErr = fmt.Errorf("shape %s: %w", s.id, err)
				return nil, s.tessellationErr
			}
			s.tessellatedOutlines = outlines
		}
		return s.tessellatedOutlines, nil
	}
	return s.polylines, nil
}

// Tessellation returns the fill meshes. Unfilled shapes have none.
func (s *Shape) Tessellation() ([]*Mesh, error) {
	if err := s.Tessellate(); err != nil {
		return nil, err
	}
	return s.meshes, nil
}

// Update regenerates the polylines from the paths without tessellating.
func (s *Shape) Update() {
	s.generatePolylinesFromPaths()
}

// MarkChanged forces the next draw to rebuild geometry, for callers that
// edited paths or polylines directly.
func (s *Shape) MarkChanged() {
	s.markDirty()
}

// SetMode changes where subsequent drawing calls go. Existing geometry is
// not converted.
func (s *Shape) SetMode(mode Mode) {
	s.mode = mode
}

func (s *Shape) SetCurveResolution(resolution int) {
	s.curveResolution = clampResolution(resolution)
}

// SetArcResolution changes the segments per full turn used by arcs. It
// applies to arcs flattened from now on.
func (s *Shape) SetArcResolution(resolution int) {
	s.arcResolution = clampResolution(resolution)
}

func (s *Shape) SetUseShapeColor(useColor bool) {
	s.useShapeColor = useColor
}

// SetColor sets both the fill and the stroke colour.
func (s *Shape) SetColor(c Color) {
	s.SetFillColor(c)
	s.SetStrokeColor(c)
}

func (s *Shape) SetHexColor(hex int) {
	s.SetColor(NewColorFromHex(hex))
}

func (s *Shape) SetFillColor(c Color) {
	s.SetUseShapeColor(true)
	s.fillColor = c
}

func (s *Shape) SetFillHexColor(hex int) {
	s.SetFillColor(NewColorFromHex(hex))
}

func (s *Shape) SetStrokeColor(c Color) {
	s.SetUseShapeColor(true)
	s.strokeColor = c
}

func (s *Shape) SetStrokeHexColor(hex int) {
	s.SetStrokeColor(NewColorFromHex(hex))
}

// Draw tessellates if needed and draws the fill meshes followed by the
// outline into r.
func (s *Shape) Draw(r Renderer) error {
	if err := s.Tessellate(); err != nil {
		return err
	}

	if s.filled {
		if s.useShapeColor {
			r.PushStyle()
			r.SetColor(s.fillColor)
		}
		for _, mesh := range s.meshes {
			r.DrawMesh(mesh)
		}
		if s.useShapeColor {
			r.PopStyle()
		}
	}

	if s.HasOutline() {
		outlines, err := s.Outline()
		if err != nil {
			return err
		}
		r.PushStyle()
		r.SetLineWidth(s.strokeWidth)
		if s.useShapeColor {
			r.SetColor(s.strokeColor)
		}
		for _, pl := range outlines {
			r.DrawPolyline(pl)
		}
		r.PopStyle()
	}
	return nil
}

// DrawAt draws the shape translated by (x, y).
func (s *Shape) DrawAt(r Renderer, x, y float32) error {
	r.PushMatrix()
	defer r.PopMatrix()
	r.Translate(x, y, 0)
	return s.Draw(r)
}
