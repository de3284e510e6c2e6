// Package zonedata describes zone geometry shared by movement, clamping and
// rendering: the walkable bounding rectangle, obstacle footprints and the
// spawn point. It takes no dependency on ebiten so the engine and its tests
// stay headless.
package zonedata

// Rect is an axis-aligned rectangle on the x/z plane.
type Rect struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Clamp pins a planar position into the rectangle.
func (r Rect) Clamp(x, z float64) (float64, float64) {
	if x < r.MinX {
		x = r.MinX
	} else if x > r.MaxX {
		x = r.MaxX
	}
	if z < r.MinZ {
		z = r.MinZ
	} else if z > r.MaxZ {
		z = r.MaxZ
	}
	return x, z
}

// Width returns the x extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Depth returns the z extent.
func (r Rect) Depth() float64 { return r.MaxZ - r.MinZ }

// Obstacle is an impassable footprint on the x/z plane.
type Obstacle struct {
	X, Z float64 // min corner
	W, D float64
}

// Zone is one loaded region of the world.
type Zone struct {
	Name      string
	Bounds    Rect
	Obstacles []Obstacle

	SpawnX, SpawnZ float64
}

// Default returns the built-in flat zone used when no TMX file exists for
// name: the given bounds, no obstacles, spawn in the middle.
func Default(name string, bounds Rect) *Zone {
	return &Zone{
		Name:   name,
		Bounds: bounds,
		SpawnX: bounds.MinX + bounds.Width()/2,
		SpawnZ: bounds.MinZ + bounds.Depth()/2,
	}
}
