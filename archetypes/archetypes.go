package archetypes

import (
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/tags"
	"github.com/yohamta/donburi"
)

var (
	RemotePlayer = newArchetype(
		tags.RemotePlayer,
		components.RemoteSync,
		components.Transform,
		components.Label,
	)
	LocalPlayer = newArchetype(
		tags.LocalPlayer,
		components.LocalPlayer,
		components.Transform,
		components.Label,
	)
	Camera = newArchetype(
		components.Camera,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return w.Entry(w.Create(append(a.components, cs...)...))
}
