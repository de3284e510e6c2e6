package components

import (
	"time"

	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// BubbleData is a transient chat overlay attached to a player entity. It is
// destroyed with the entity, so a removed player never leaves a floating
// bubble behind. Fade is lazily created once HoldUntil passes.
type BubbleData struct {
	Text      string
	HoldUntil time.Time
	Fade      *gween.Tween
	Alpha     float64
}

var Bubble = donburi.NewComponentType[BubbleData]()
