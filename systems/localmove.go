package systems

import (
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/netsync"
	"github.com/jake41397/miniscape-client/network"
	"github.com/jake41397/miniscape-client/shared/messages"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/jake41397/miniscape-client/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi/ecs"
)

var (
	keysLeft    = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	keysRight   = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}
	keysForward = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}
	keysBack    = []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}
)

type localMoveState struct {
	space     *resolv.Space
	playerObj *resolv.Object

	lastSent  time.Time
	lastSentX float64
	lastSentZ float64
}

// NewLocalMoveSystem moves the local player from keyboard input with obstacle
// collision on the x/z plane, runs the anomaly guard over the result, and
// reports the position to the server when it changed — standing still sends
// nothing.
func NewLocalMoveSystem(client *network.Client, guard *netsync.AnomalyGuard, zone *zonedata.Zone) func(*ecs.ECS) {
	state := &localMoveState{}
	state.initCollision(zone)

	return func(e *ecs.ECS) {
		entry, ok := components.LocalPlayer.First(e.World)
		if !ok {
			return
		}
		tr := components.Transform.Get(entry)

		dx, dz := 0.0, 0.0
		if anyKeyPressed(keysLeft) {
			dx -= 1
		}
		if anyKeyPressed(keysRight) {
			dx += 1
		}
		if anyKeyPressed(keysForward) {
			dz -= 1
		}
		if anyKeyPressed(keysBack) {
			dz += 1
		}

		now := time.Now()
		if dx != 0 || dz != 0 {
			// Normalize so diagonals are not faster.
			inv := 1 / math.Hypot(dx, dz)
			step := config.World.WalkSpeed * frameDt
			dx *= inv * step
			dz *= inv * step

			x, z := state.resolveMove(tr.X, tr.Z, dx, dz)
			x, z = zone.Bounds.Clamp(x, z)
			x, z = guard.Check(x, z, now)

			if x != tr.X || z != tr.Z {
				tr.Heading = math.Atan2(x-tr.X, z-tr.Z)
			}
			tr.X, tr.Z = x, z
			state.syncPlayerObj(x, z)
		}

		state.maybeSend(client, tr, now)
	}
}

// initCollision builds a resolv space over the zone's x/z plane, one cell per
// four world units.
func (s *localMoveState) initCollision(zone *zonedata.Zone) {
	w := int(math.Ceil(zone.Bounds.Width()))
	d := int(math.Ceil(zone.Bounds.Depth()))
	if w <= 0 || d <= 0 {
		return
	}
	s.space = resolv.NewSpace(w, d, 4, 4)

	for _, ob := range zone.Obstacles {
		obj := resolv.NewObject(ob.X-zone.Bounds.MinX, ob.Z-zone.Bounds.MinZ, ob.W, ob.D, tags.ResolvObstacle)
		obj.SetShape(resolv.NewRectangle(0, 0, ob.W, ob.D))
		s.space.Add(obj)
	}

	size := config.World.PlayerRadius * 2
	s.playerObj = resolv.NewObject(zone.SpawnX-zone.Bounds.MinX, zone.SpawnZ-zone.Bounds.MinZ, size, size, tags.ResolvPlayer)
	s.playerObj.SetShape(resolv.NewRectangle(0, 0, size, size))
	s.space.Add(s.playerObj)
}

// resolveMove applies the step axis by axis, stopping at obstacle contacts.
func (s *localMoveState) resolveMove(x, z, dx, dz float64) (float64, float64) {
	if s.playerObj == nil {
		return x + dx, z + dz
	}

	s.playerObj.X = x - config.World.PlayerRadius
	s.playerObj.Y = z - config.World.PlayerRadius
	s.playerObj.Update()

	if check := s.playerObj.Check(dx, 0, tags.ResolvObstacle); check != nil {
		if obstacles := check.ObjectsByTags(tags.ResolvObstacle); len(obstacles) > 0 {
			dx = check.ContactWithObject(obstacles[0]).X()
		}
	}
	s.playerObj.X += dx
	s.playerObj.Update()

	if check := s.playerObj.Check(0, dz, tags.ResolvObstacle); check != nil {
		if obstacles := check.ObjectsByTags(tags.ResolvObstacle); len(obstacles) > 0 {
			dz = check.ContactWithObject(obstacles[0]).Y()
		}
	}
	s.playerObj.Y += dz
	s.playerObj.Update()

	return s.playerObj.X + config.World.PlayerRadius, s.playerObj.Y + config.World.PlayerRadius
}

func (s *localMoveState) syncPlayerObj(x, z float64) {
	if s.playerObj == nil {
		return
	}
	s.playerObj.X = x - config.World.PlayerRadius
	s.playerObj.Y = z - config.World.PlayerRadius
	s.playerObj.Update()
}

// maybeSend reports the position when it moved beyond the send epsilon and
// the send interval elapsed.
func (s *localMoveState) maybeSend(client *network.Client, tr *components.TransformData, now time.Time) {
	if client.State() != network.StateJoinedWorld {
		return
	}
	moved := math.Hypot(tr.X-s.lastSentX, tr.Z-s.lastSentZ) > config.World.MoveSendEpsilon
	if !moved || now.Sub(s.lastSent) < config.World.MoveSendInterval {
		return
	}

	err := client.SendMessage(messages.PlayerMove{
		ID:        client.PlayerID(),
		X:         tr.X,
		Y:         tr.Y,
		Z:         tr.Z,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		log.Printf("[localmove] send error: %v", err)
		return
	}
	s.lastSent = now
	s.lastSentX = tr.X
	s.lastSentZ = tr.Z
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
