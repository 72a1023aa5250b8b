package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spaghettifunk/anima-vector/engine/graphics"
)

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeShape
)

/**
 * @brief A loaded asset. Assets are replaced, never modified, when their
 * file changes on disk.
 */
type Asset struct {
	Name        string
	Path        string
	Type        AssetType
	LastLoaded  time.Time
	Shape       *graphics.Shape
	Description *ShapeDescription
}

type Loader interface {
	Load(path string) (*Asset, error)
}

// ShapeLoader reads shape description files and tessellates them before
// they are handed out, so the first draw does not pay for it.
type ShapeLoader struct{}

func (ShapeLoader) Load(path string) (*Asset, error) {
	shape, desc, err := LoadShapeFile(path)
	if err != nil {
		return nil, err
	}
	if err := shape.Tessellate(); err != nil {
		return nil, fmt.Errorf("failed to tessellate %s: %w", path, err)
	}
	return &Asset{
		Name:        desc.Name,
		Path:        path,
		Type:        AssetTypeShape,
		LastLoaded:  time.Now(),
		Shape:       shape,
		Description: desc,
	}, nil
}

func determineAssetType(path string) AssetType {
	if strings.HasSuffix(path, ShapeFileExtension) {
		return AssetTypeShape
	}
	return AssetTypeNone
}

func shapeNameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ShapeFileExtension)
}
