package systems

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/fonts"
	"github.com/jake41397/miniscape-client/netsync"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var remoteDrawQuery = donburi.NewQuery(filter.Contains(components.RemoteSync))

// NewZoneRenderer draws the ground plane and obstacle footprints.
func NewZoneRenderer(zone *zonedata.Zone) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		screen.Fill(config.Ground)

		cam, ok := cameraOf(e)
		if !ok {
			return
		}
		ppu := float32(config.Camera.PixelsPerUnit * cameraZoom(cam))
		for _, ob := range zone.Obstacles {
			sx, sz := worldToScreen(cam, ob.X, ob.Z)
			vector.DrawFilledRect(screen, sx, sz, float32(ob.W)*ppu, float32(ob.D)*ppu, config.Obstacle, false)
		}
	}
}

// DrawPlayers renders the local player and every remote player: a tinted
// square with a heading tick, the name label, and any chat bubble. Remote
// tints come from a stable hash of the id so a player keeps their color
// across rejoins; stale entities go gray.
func DrawPlayers(e *ecs.ECS, screen *ebiten.Image) {
	cam, ok := cameraOf(e)
	if !ok {
		return
	}
	size := float32(config.World.PlayerRadius * 2 * config.Camera.PixelsPerUnit * cameraZoom(cam))

	remoteDrawQuery.Each(e.World, func(entry *donburi.Entry) {
		sync := components.RemoteSync.Get(entry)
		tr := components.Transform.Get(entry)

		tint := playerColor(sync.ID)
		if sync.Stale {
			tint = config.StaleTint
		}

		sx, sz := worldToScreen(cam, tr.X, tr.Z)
		drawPlayerMarker(screen, sx, sz, size, tr.Heading, tint)

		if entry.HasComponent(components.Label) {
			drawNameplate(screen, components.Label.Get(entry).Text, sx, sz, size)
		}
		if entry.HasComponent(components.Bubble) {
			drawBubble(screen, components.Bubble.Get(entry), sx, sz, size)
		}
	})

	if entry, ok := components.LocalPlayer.First(e.World); ok {
		tr := components.Transform.Get(entry)
		sx, sz := worldToScreen(cam, tr.X, tr.Z)
		drawPlayerMarker(screen, sx, sz, size, tr.Heading, config.BrightGreen)
		drawNameplate(screen, components.LocalPlayer.Get(entry).Name, sx, sz, size)
	}
}

// NewHUDRenderer shows the server name and population in the corner.
func NewHUDRenderer(engine *netsync.Engine, serverName func() string) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		info := fmt.Sprintf("%s - online: %d", serverName(), engine.Registry.Count()+1)
		text.Draw(screen, info, fonts.GoSmall.Get(), 6, 16, config.LightGreen)
	}
}

func drawPlayerMarker(screen *ebiten.Image, sx, sz, size float32, heading float64, tint color.RGBA) {
	vector.DrawFilledRect(screen, sx-size/2, sz-size/2, size, size, tint, false)

	// Heading tick on the facing edge.
	hx := float32(math.Sin(heading)) * size * 0.6
	hz := float32(math.Cos(heading)) * size * 0.6
	vector.DrawFilledRect(screen, sx+hx-2, sz+hz-2, 4, 4, config.White, false)
}

func drawNameplate(screen *ebiten.Image, name string, sx, sz, size float32) {
	face := fonts.GoSmall.Get()
	w := text.BoundString(face, name).Dx()
	text.Draw(screen, name, face, int(sx)-w/2, int(sz-size/2)-4, config.White)
}

func drawBubble(screen *ebiten.Image, bubble *components.BubbleData, sx, sz, size float32) {
	if bubble.Alpha <= 0 {
		return
	}
	face := fonts.GoSmall.Get()
	bounds := text.BoundString(face, bubble.Text)
	w := float32(bounds.Dx()) + 8
	h := float32(bounds.Dy()) + 6
	bx := sx - w/2
	bz := sz - size/2 - 18 - h

	vector.DrawFilledRect(screen, bx, bz, w, h, fadeColor(config.BubbleBack, bubble.Alpha), false)
	text.Draw(screen, bubble.Text, face, int(bx)+4, int(bz+h)-4, fadeColor(config.White, bubble.Alpha))
}

// playerColor hashes the id into the palette.
func playerColor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	return config.PlayerColors[h.Sum32()%uint32(len(config.PlayerColors))]
}

func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	c.A = uint8(float64(c.A) * alpha)
	return c
}

func cameraOf(e *ecs.ECS) (*components.CameraData, bool) {
	entry, ok := components.Camera.First(e.World)
	if !ok {
		return nil, false
	}
	return components.Camera.Get(entry), true
}

func cameraZoom(cam *components.CameraData) float64 {
	if cam.Zoom == 0 {
		return 1
	}
	return cam.Zoom
}
