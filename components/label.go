package components

import "github.com/yohamta/donburi"

// LabelData is the floating name tag above an entity.
type LabelData struct {
	Text string
}

var Label = donburi.NewComponentType[LabelData]()
