package components

import "github.com/yohamta/donburi"

// TransformData is the rendered pose of an entity: world-unit position and
// heading around the vertical axis (radians, 0 faces +Z). For remote players
// the interpolation driver is the sole writer.
type TransformData struct {
	X, Y, Z float64
	Heading float64
}

var Transform = donburi.NewComponentType[TransformData]()
