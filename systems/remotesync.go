package systems

import (
	"log"

	"github.com/jake41397/miniscape-client/netsync"
	"github.com/jake41397/miniscape-client/network"
	"github.com/jake41397/miniscape-client/shared/messages"
	"github.com/yohamta/donburi/ecs"
)

// Ebiten ticks at a fixed 60 Hz.
const frameDt = 1.0 / 60.0

// NewRemoteSyncSystem pumps inbound world messages into the engine in arrival
// order, then advances the engine by one frame. This is the only place
// network state meets the ECS world, and it runs on the game loop goroutine.
func NewRemoteSyncSystem(client *network.Client, engine *netsync.Engine) func(*ecs.ECS) {
	return func(_ *ecs.ECS) {
		for _, msg := range client.DrainInbound() {
			switch m := msg.(type) {
			case messages.PlayerJoin:
				engine.Ingress.HandleJoin(m)
			case messages.PlayerMove:
				engine.Ingress.HandleMove(m)
			case messages.PlayerLeave:
				engine.Ingress.HandleLeave(m)
			case messages.PlayerChat:
				engine.Ingress.HandleChat(m)
			case messages.EntityDataResponse:
				engine.HandleEntityData(m)
			case messages.SyncCheck:
				reply := engine.Ingress.HandleSyncCheck(m)
				if err := client.SendMessage(reply); err != nil {
					log.Printf("[remotesync] sync check reply: %v", err)
				}
			default:
				log.Printf("[remotesync] unhandled message %T", m)
			}
		}

		engine.Step(frameDt)
	}
}
