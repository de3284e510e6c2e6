package components

import "github.com/yohamta/donburi"

// LocalPlayerData identifies the entity driven by keyboard input. Exactly one
// exists per world scene.
type LocalPlayerData struct {
	ID   string
	Name string
}

var LocalPlayer = donburi.NewComponentType[LocalPlayerData]()
