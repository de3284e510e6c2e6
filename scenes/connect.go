package scenes

import (
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/network"
	"github.com/jake41397/miniscape-client/systems"
	"github.com/jake41397/miniscape-client/ui"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

type ConnectScene struct {
	sceneChanger SceneChanger
	connectUI    *ui.ConnectUI
	netClient    *network.Client
	playerName   string
	once         sync.Once
}

func NewConnectScene(sc SceneChanger) *ConnectScene {
	return &ConnectScene{sceneChanger: sc}
}

func (s *ConnectScene) Update() {
	s.once.Do(s.configure)

	s.connectUI.Update()

	if s.netClient == nil {
		return
	}
	switch s.netClient.State() {
	case network.StateJoinedWorld:
		s.connectUI.SetStatus("Joined! Loading world...")
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewWorldScene(s.sceneChanger, client, s.playerName))

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.connectUI.SetStatus(errMsg)
		s.connectUI.SetConnecting(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.connectUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.connectUI.SetStatus("Connected, joining world...")

	case network.StateDisconnected:
		s.connectUI.SetStatus("Disconnected")
		s.connectUI.SetConnecting(false)
		s.netClient = nil
	}
}

func (s *ConnectScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{16, 24, 18, 255})
	if s.connectUI == nil {
		return
	}
	s.connectUI.UI.Draw(screen)
}

func (s *ConnectScene) configure() {
	s.connectUI = ui.NewConnectUI(func(address, playerName string) {
		s.onConnect(address, playerName)
	})

	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		s.connectUI.SetInitial(saved.PlayerName, saved.ServerHost, saved.ServerPort)
	}
}

func (s *ConnectScene) onConnect(address, playerName string) {
	if s.netClient != nil {
		s.netClient.Disconnect()
	}

	s.playerName = playerName
	s.saveSettings(address, playerName)

	s.connectUI.SetStatus("Connecting...")
	s.connectUI.SetConnecting(true)

	s.netClient = network.NewClient()
	s.netClient.Connect(address, config.C.Version, playerName)
}

func (s *ConnectScene) saveSettings(address, playerName string) {
	host, port := address, config.C.DefaultPort
	if i := strings.LastIndex(address, ":"); i >= 0 {
		host, port = address[:i], address[i+1:]
	}
	_ = systems.SaveSettings(&systems.SavedSettings{
		PlayerName: playerName,
		ServerHost: host,
		ServerPort: port,
		Fullscreen: ebiten.IsFullscreen(),
	})
}
