package systems

import (
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var bubbleQuery = donburi.NewQuery(filter.Contains(components.Bubble))

// UpdateBubbles advances chat bubble fades and drops expired bubbles. This
// system owns the overlay's presentation lifecycle; attaching is the ingress
// adapter's job and destruction-with-entity is the registry's.
func UpdateBubbles(e *ecs.ECS) {
	now := time.Now()

	var expired []*donburi.Entry
	bubbleQuery.Each(e.World, func(entry *donburi.Entry) {
		bubble := components.Bubble.Get(entry)

		if now.Before(bubble.HoldUntil) {
			bubble.Alpha = 1
			return
		}
		if bubble.Fade == nil {
			bubble.Fade = gween.New(1, 0, config.Bubble.Fade, ease.Linear)
		}
		alpha, done := bubble.Fade.Update(frameDt)
		bubble.Alpha = float64(alpha)
		if done {
			expired = append(expired, entry)
		}
	})

	for _, entry := range expired {
		entry.RemoveComponent(components.Bubble)
	}
}
