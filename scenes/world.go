package scenes

import (
	"image/color"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jake41397/miniscape-client/archetypes"
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/netsync"
	"github.com/jake41397/miniscape-client/network"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/jake41397/miniscape-client/systems"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

type WorldScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	playerName   string
	engine       *netsync.Engine
	zone         *zonedata.Zone
	once         sync.Once
}

func NewWorldScene(sc SceneChanger, client *network.Client, playerName string) *WorldScene {
	return &WorldScene{
		sceneChanger: sc,
		netClient:    client,
		playerName:   playerName,
	}
}

func (ws *WorldScene) Update() {
	ws.once.Do(ws.configure)

	state := ws.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		log.Println("[world] disconnected, returning to connect screen")
		ws.netClient.Disconnect()
		ws.sceneChanger.ChangeScene(NewConnectScene(ws.sceneChanger))
		return
	}

	ws.ecsWorld.Update()
}

func (ws *WorldScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ws.ecsWorld == nil {
		return
	}

	ws.ecsWorld.Draw(screen)
}

func (ws *WorldScene) configure() {
	ws.ecsWorld = ecs.NewECS(donburi.NewWorld())
	ws.zone = loadZone(ws.netClient.Zone())

	localEntry := archetypes.LocalPlayer.Spawn(ws.ecsWorld.World)
	components.LocalPlayer.SetValue(localEntry, components.LocalPlayerData{
		ID:   ws.netClient.PlayerID(),
		Name: ws.playerName,
	})
	components.Transform.SetValue(localEntry, components.TransformData{
		X: ws.zone.SpawnX,
		Z: ws.zone.SpawnZ,
	})

	cameraEntry := archetypes.Camera.Spawn(ws.ecsWorld.World)
	components.Camera.SetValue(cameraEntry, components.CameraData{
		X:    ws.zone.SpawnX,
		Z:    ws.zone.SpawnZ,
		Zoom: 1,
	})

	ws.engine = netsync.New(netsync.Options{
		World:   ws.ecsWorld.World,
		LocalID: ws.netClient.PlayerID(),
		Source:  ws.netClient,
		Bounds:  ws.zone.Bounds,
		Config:  config.Sync,
	})
	ws.engine.Ingress.RepositionLocal = func(x, y, z float64) {
		tr := components.Transform.Get(localEntry)
		tr.X, tr.Y, tr.Z = x, y, z
	}

	ws.ecsWorld.AddSystem(systems.NewRemoteSyncSystem(ws.netClient, ws.engine))
	ws.ecsWorld.AddSystem(systems.NewLocalMoveSystem(ws.netClient, ws.engine.Guard, ws.zone))
	ws.ecsWorld.AddSystem(systems.NewCameraSystem(ws.zone))
	ws.ecsWorld.AddSystem(systems.UpdateBubbles)

	ws.ecsWorld.AddRenderer(ecs.LayerDefault, systems.NewZoneRenderer(ws.zone))
	ws.ecsWorld.AddRenderer(ecs.LayerDefault, systems.DrawPlayers)
	ws.ecsWorld.AddRenderer(ecs.LayerDefault, systems.NewHUDRenderer(ws.engine, ws.netClient.ServerName))
}

// loadZone reads the TMX zone named by the server, falling back to the
// default flat zone when the file is missing or malformed.
func loadZone(name string) *zonedata.Zone {
	bounds := zonedata.Rect{
		MinX: config.World.ZoneMinX,
		MinZ: config.World.ZoneMinZ,
		MaxX: config.World.ZoneMaxX,
		MaxZ: config.World.ZoneMaxZ,
	}
	if name == "" {
		return zonedata.Default("overworld", bounds)
	}

	zone, err := zonedata.Load(os.DirFS(config.C.ZoneDir), name+".tmx")
	if err != nil {
		log.Printf("[world] zone %q not loadable, using default: %v", name, err)
		return zonedata.Default(name, bounds)
	}
	return zone
}
