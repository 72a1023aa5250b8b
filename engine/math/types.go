package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector. It is the point type used by paths,
// polylines and meshes; 2D drawing simply keeps Z at zero.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief Represents the extents of a 2d object.
 */
type Extents2D struct {
	/** @brief The minimum extents of the object. */
	Min Vec2
	/** @brief The maximum extents of the object. */
	Max Vec2
}

// Width of the extents, zero for empty extents.
func (e Extents2D) Width() float32 {
	return e.Max.X - e.Min.X
}

// Height of the extents, zero for empty extents.
func (e Extents2D) Height() float32 {
	return e.Max.Y - e.Min.Y
}

// Contains reports whether p lies inside or on the border of e.
func (e Extents2D) Contains(p Vec2) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X && p.Y >= e.Min.Y && p.Y <= e.Max.Y
}
