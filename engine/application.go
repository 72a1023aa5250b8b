package engine

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
)

// ShapeDefaults are applied to shapes the game creates through the engine.
type ShapeDefaults struct {
	Winding         graphics.WindingMode `toml:"winding"`
	CurveResolution int                  `toml:"curve_resolution"`
	ArcResolution   int                  `toml:"arc_resolution"`
	StrokeWidth     float32              `toml:"stroke_width"`
}

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"log_level"`
	// Directory watched for *.shape.toml files. Empty disables the library.
	AssetsDir string `toml:"assets_dir"`
	// Directory snapshots are written to.
	SnapshotDir string `toml:"snapshot_dir"`
	// Worker count for background loading.
	Workers       int            `toml:"workers"`
	InputQueueLen int            `toml:"input_queue_len"`
	Background    graphics.Color `toml:"background"`
	Shapes        ShapeDefaults  `toml:"shapes"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:     100,
		StartPosY:     100,
		StartWidth:    1280,
		StartHeight:   720,
		Name:          "Anima Vector",
		LogLevel:      core.InfoLevel,
		AssetsDir:     "assets",
		SnapshotDir:   ".",
		Workers:       2,
		InputQueueLen: 256,
		Background:    graphics.NewColorFromHex(0x202020),
		Shapes: ShapeDefaults{
			Winding:         graphics.WindingOdd,
			CurveResolution: graphics.DefaultCurveResolution,
			ArcResolution:   graphics.DefaultArcResolution,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrInvalidConfig, path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("%w: window size %dx%d", core.ErrInvalidConfig, c.StartWidth, c.StartHeight)
	}
	if c.StartWidth > 0xFFFF || c.StartHeight > 0xFFFF {
		return fmt.Errorf("%w: window size %dx%d is too large", core.ErrInvalidConfig, c.StartWidth, c.StartHeight)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: application name is empty", core.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", core.ErrInvalidConfig, c.Workers)
	}
	if c.InputQueueLen < 1 {
		return fmt.Errorf("%w: input_queue_len must be at least 1, got %d", core.ErrInvalidConfig, c.InputQueueLen)
	}
	if c.Shapes.CurveResolution < 1 || c.Shapes.CurveResolution > graphics.MaxResolution {
		return fmt.Errorf("%w: curve_resolution %d out of range", core.ErrInvalidConfig, c.Shapes.CurveResolution)
	}
	if c.Shapes.ArcResolution < 1 || c.Shapes.ArcResolution > graphics.MaxResolution {
		return fmt.Errorf("%w: arc_resolution %d out of range", core.ErrInvalidConfig, c.Shapes.ArcResolution)
	}
	if c.Shapes.StrokeWidth < 0 {
		return fmt.Errorf("%w: negative stroke_width", core.ErrInvalidConfig)
	}
	return nil
}

// NewShape creates a shape with the configured defaults.
func (c *ApplicationConfig) NewShape() *graphics.Shape {
	config := graphics.DefaultShapeConfig()
	config.WindingMode = c.Shapes.Winding
	config.CurveResolution = c.Shapes.CurveResolution
	config.ArcResolution = c.Shapes.ArcResolution
	s := graphics.NewShapeWithConfig(config)
	if c.Shapes.StrokeWidth > 0 {
		s.SetStrokeWidth(c.Shapes.StrokeWidth)
	}
	return s
}
