package systems

import (
	"math"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/yohamta/donburi/ecs"
)

// NewCameraSystem smooth-follows the local player over the x/z plane, clamped
// so the view never leaves the zone.
func NewCameraSystem(zone *zonedata.Zone) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)
		if camera.Zoom == 0 {
			camera.Zoom = 1
		}

		playerEntry, ok := components.LocalPlayer.First(e.World)
		if !ok {
			return
		}
		pos := components.Transform.Get(playerEntry)

		targetX := pos.X
		targetZ := pos.Z

		ppu := config.Camera.PixelsPerUnit * camera.Zoom
		visibleW := float64(config.C.Width) / ppu
		visibleD := float64(config.C.Height) / ppu

		minX := zone.Bounds.MinX + visibleW/2
		maxX := zone.Bounds.MaxX - visibleW/2
		minZ := zone.Bounds.MinZ + visibleD/2
		maxZ := zone.Bounds.MaxZ - visibleD/2

		if minX > maxX {
			minX = zone.Bounds.MinX + zone.Bounds.Width()/2
			maxX = minX
		}
		if minZ > maxZ {
			minZ = zone.Bounds.MinZ + zone.Bounds.Depth()/2
			maxZ = minZ
		}

		targetX = math.Max(minX, math.Min(maxX, targetX))
		targetZ = math.Max(minZ, math.Min(maxZ, targetZ))

		camera.X += (targetX - camera.X) * config.Camera.FollowSmoothing
		camera.Z += (targetZ - camera.Z) * config.Camera.FollowSmoothing
	}
}

// worldToScreen projects a planar world position through the camera.
func worldToScreen(cam *components.CameraData, x, z float64) (float32, float32) {
	zoom := cam.Zoom
	if zoom == 0 {
		zoom = 1
	}
	ppu := config.Camera.PixelsPerUnit * zoom
	sx := (x-cam.X)*ppu + float64(config.C.Width)/2
	sz := (z-cam.Z)*ppu + float64(config.C.Height)/2
	return float32(sx), float32(sz)
}
