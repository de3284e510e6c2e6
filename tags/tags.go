package tags

import "github.com/yohamta/donburi"

var (
	LocalPlayer  = donburi.NewTag().SetName("LocalPlayer")
	RemotePlayer = donburi.NewTag().SetName("RemotePlayer")
)

// Resolv tags for zone collision
const (
	ResolvObstacle = "obstacle"
	ResolvPlayer   = "player"
)
