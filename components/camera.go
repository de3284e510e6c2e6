package components

import "github.com/yohamta/donburi"

// CameraData is the top-down view over the x/z plane.
type CameraData struct {
	X, Z float64
	Zoom float64
}

var Camera = donburi.NewComponentType[CameraData]()
