package graphics

import (
	"fmt"

	"github.com/spaghettifunk/anima-vector/engine/math"
)

// CommandType tags a path drawing command.
type CommandType uint8

const (
	CommandLineTo CommandType = iota
	CommandCurveTo
	CommandBezierTo
	CommandQuadBezierTo
	CommandArc
)

func (c CommandType) String() string {
	switch c {
	case CommandLineTo:
		return "lineTo"
	case CommandCurveTo:
		return "curveTo"
	case CommandBezierTo:
		return "bezierTo"
	case CommandQuadBezierTo:
		return "quadBezierTo"
	case CommandArc:
		return "arc"
	}
	return fmt.Sprintf("CommandType(%d)", uint8(c))
}

/**
 * @brief A single drawing command. Which fields are meaningful depends on Type:
 * lineTo/curveTo use To; bezierTo/quadBezierTo use To, CP1 and CP2;
 * arc uses To as the centre plus the radii and angles (degrees).
 */
type Command struct {
	Type       CommandType
	To         math.Vec3
	CP1        math.Vec3
	CP2        math.Vec3
	RadiusX    float32
	RadiusY    float32
	AngleBegin float32
	AngleEnd   float32
}

func NewLineCommand(to math.Vec3) Command {
	return Command{Type: CommandLineTo, To: to}
}

func NewCurveCommand(to math.Vec3) Command {
	return Command{Type: CommandCurveTo, To: to}
}

func NewBezierCommand(to, cp1, cp2 math.Vec3) Command {
	return Command{Type: CommandBezierTo, To: to, CP1: cp1, CP2: cp2}
}

func NewQuadBezierCommand(to, cp1, cp2 math.Vec3) Command {
	return Command{Type: CommandQuadBezierTo, To: to, CP1: cp1, CP2: cp2}
}

func NewArcCommand(centre math.Vec3, radiusX, radiusY, angleBegin, angleEnd float32) Command {
	return Command{
		Type:       CommandArc,
		To:         centre,
		RadiusX:    radiusX,
		RadiusY:    radiusY,
		AngleBegin: angleBegin,
		AngleEnd:   angleEnd,
	}
}

// Path is an ordered list of commands describing one subpath.
type Path struct {
	commands []Command
	closed   bool
	changed  bool
}

func NewPath() *Path {
	return &Path{changed: true}
}

func (p *Path) Commands() []Command {
	return p.commands
}

func (p *Path) AddCommand(c Command) {
	p.commands = append(p.commands, c)
	p.changed = true
}

func (p *Path) Close() {
	p.closed = true
}

func (p *Path) IsClosed() bool {
	return p.closed
}

func (p *Path) HasChanged() bool {
	return p.changed
}

func (p *Path) Size() int {
	return len(p.commands)
}

// Flatten turns the commands into a polyline. Curves use curveResolution
// segments, arcs use arcResolution segments per full turn.
func (p *Path) Flatten(curveResolution, arcResolution int) *Polyline {
	pl := NewPolyline()
	for _, c := range p.commands {
		switch c.Type {
		case CommandLineTo:
			pl.AddVertex(c.To)
		case CommandCurveTo:
			pl.CurveTo(c.To, curveResolution)
		case CommandBezierTo:
			pl.BezierTo(c.CP1, c.CP2, c.To, curveResolution)
		case CommandQuadBezierTo:
			pl.QuadBezierTo(c.CP1, c.CP2, c.To, curveResolution)
		case CommandArc:
			pl.Arc(c.To, c.RadiusX, c.RadiusY, c.AngleBegin, c.AngleEnd, arcResolution)
		}
	}
	pl.SetClosed(p.closed)
	p.changed = false
	return pl
}
