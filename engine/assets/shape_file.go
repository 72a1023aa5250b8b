package assets

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
	"github.com/spaghettifunk/anima-vector/engine/math"
)

const ShapeFileExtension = ".shape.toml"

// CommandDescription is one drawing command of a path. Which fields are
// used depends on Op.
type CommandDescription struct {
	Op     string    `toml:"op"`
	To     []float32 `toml:"to"`
	CP1    []float32 `toml:"cp1"`
	CP2    []float32 `toml:"cp2"`
	Radius []float32 `toml:"radius"`
	Angles []float32 `toml:"angles"`
}

type PathDescription struct {
	Closed   bool                 `toml:"closed"`
	Commands []CommandDescription `toml:"commands"`
}

/**
 * @brief The on-disk description of a shape. Zero values fall back to the
 * shape defaults.
 */
type ShapeDescription struct {
	Name            string               `toml:"name"`
	Mode            graphics.Mode        `toml:"mode"`
	Winding         graphics.WindingMode `toml:"winding"`
	Filled          *bool                `toml:"filled"`
	StrokeWidth     float32              `toml:"stroke_width"`
	CurveResolution int                  `toml:"curve_resolution"`
	ArcResolution   int                  `toml:"arc_resolution"`
	FillColor       *graphics.Color      `toml:"fill_color"`
	StrokeColor     *graphics.Color      `toml:"stroke_color"`
	Position        []float32            `toml:"position"`
	Paths           []PathDescription    `toml:"paths"`
}

// Origin returns where the shape should be drawn, (0, 0) if unset.
func (d *ShapeDescription) Origin() math.Vec2 {
	if len(d.Position) < 2 {
		return math.Vec2{}
	}
	return math.NewVec2(d.Position[0], d.Position[1])
}

func toVec3(field string, values []float32) (math.Vec3, error) {
	switch len(values) {
	case 2:
		return math.NewVec3From2(values[0], values[1]), nil
	case 3:
		return math.NewVec3(values[0], values[1], values[2]), nil
	}
	return math.Vec3{}, fmt.Errorf("%w: %s needs 2 or 3 components, got %d", core.ErrInvalidConfig, field, len(values))
}

func toPair(field string, values []float32) (float32, float32, error) {
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("%w: %s needs 2 components, got %d", core.ErrInvalidConfig, field, len(values))
	}
	return values[0], values[1], nil
}

func applyCommand(s *graphics.Shape, c CommandDescription) error {
	to, err := toVec3("to", c.To)
	if err != nil {
		return err
	}
	switch c.Op {
	case "move":
		s.MoveTo(to)
	case "line":
		s.LineTo(to)
	case "curve":
		s.CurveTo(to)
	case "bezier", "quad":
		cp1, err := toVec3("cp1", c.CP1)
		if err != nil {
			return err
		}
		cp2, err := toVec3("cp2", c.CP2)
		if err != nil {
			return err
		}
		if c.Op == "bezier" {
			s.BezierTo(cp1, cp2, to)
		} else {
			s.QuadBezierTo(cp1, cp2, to)
		}
	case "arc":
		rx, ry, err := toPair("radius", c.Radius)
		if err != nil {
			return err
		}
		begin, end, err := toPair("angles", c.Angles)
		if err != nil {
			return err
		}
		s.Arc(to, rx, ry, begin, end)
	default:
		return fmt.Errorf("%w: unknown command %q", core.ErrInvalidConfig, c.Op)
	}
	return nil
}

// Build creates a new shape from the description.
func (d *ShapeDescription) Build() (*graphics.Shape, error) {
	config := graphics.DefaultShapeConfig()
	config.Mode = d.Mode
	config.WindingMode = d.Winding
	if d.CurveResolution > 0 {
		config.CurveResolution = d.CurveResolution
	}
	if d.ArcResolution > 0 {
		config.ArcResolution = d.ArcResolution
	}
	s := graphics.NewShapeWithConfig(config)

	if d.Filled != nil {
		s.SetFilled(*d.Filled)
	}
	if d.StrokeWidth > 0 {
		s.SetStrokeWidth(d.StrokeWidth)
	}
	if d.FillColor != nil {
		s.SetFillColor(*d.FillColor)
	}
	if d.StrokeColor != nil {
		s.SetStrokeColor(*d.StrokeColor)
	}

	for i, p := range d.Paths {
		if i > 0 {
			s.NewPath()
		}
		for j, c := range p.Commands {
			if err := applyCommand(s, c); err != nil {
				return nil, fmt.Errorf("shape %q path %d command %d: %w", d.Name, i, j, err)
			}
		}
		if p.Closed {
			s.Close()
		}
	}
	return s, nil
}

// DecodeShape reads a TOML shape description and builds the shape.
// Unknown keys are rejected.
func DecodeShape(r io.Reader) (*graphics.Shape, *ShapeDescription, error) {
	var desc ShapeDescription
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&desc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
	}
	shape, err := desc.Build()
	if err != nil {
		return nil, nil, err
	}
	return shape, &desc, nil
}

// LoadShapeFile decodes path. A description without a name is named after
// the file.
func LoadShapeFile(path string) (*graphics.Shape, *ShapeDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	shape, desc, err := DecodeShape(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if desc.Name == "" {
		desc.Name = shapeNameFromPath(path)
	}
	return shape, desc, nil
}
