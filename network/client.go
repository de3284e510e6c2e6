package network

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/jake41397/miniscape-client/shared/messages"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedWorld
	StateError
)

// Inbound channel capacity. World traffic is dominated by PlayerMove at the
// server update cadence; one frame of drain keeps this far from full.
const inboundBuffer = 512

// Client manages the WebSocket connection to a world server. Router callbacks
// run on necs goroutines and only append to the inbound queue; the game loop
// drains it once per frame, preserving arrival order across message kinds.
// Shared fields are protected by mu.
type Client struct {
	mu sync.RWMutex

	state      ClientState
	lastError  error
	playerID   string
	serverName string
	zone       string
	updateRate int
	conn       *websocket.Conn

	inbound chan any
}

func NewClient() *Client {
	return &Client{
		state:   StateDisconnected,
		inbound: make(chan any, inboundBuffer),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		payload, err := router.Serialize(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("serialize join request: %w", err))
			return
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn != nil {
			if err := conn.Write(context.Background(), websocket.MessageBinary, payload); err != nil {
				c.setError(fmt.Errorf("send join request: %w", err))
			}
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: playerID=%s server=%s zone=%s rate=%dms",
			msg.PlayerID, msg.ServerName, msg.Zone, msg.UpdateRateMs)
		c.mu.Lock()
		c.playerID = msg.PlayerID
		c.serverName = msg.ServerName
		c.zone = msg.Zone
		c.updateRate = msg.UpdateRateMs
		c.state = StateJoinedWorld
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, m messages.PlayerJoin) { c.enqueue(m) })
	router.On(func(_ *router.NetworkClient, m messages.PlayerMove) { c.enqueue(m) })
	router.On(func(_ *router.NetworkClient, m messages.PlayerLeave) { c.enqueue(m) })
	router.On(func(_ *router.NetworkClient, m messages.PlayerChat) { c.enqueue(m) })
	router.On(func(_ *router.NetworkClient, m messages.SyncCheck) { c.enqueue(m) })
	router.On(func(_ *router.NetworkClient, m messages.EntityDataResponse) { c.enqueue(m) })

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// PlayerID returns the id the server assigned to this client.
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

func (c *Client) Zone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.zone
}

// UpdateRateMs returns the server's broadcast cadence in milliseconds.
func (c *Client) UpdateRateMs() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updateRate
}

// DrainInbound returns every queued world message in arrival order,
// non-blocking.
func (c *Client) DrainInbound() []any {
	var out []any
	for {
		select {
		case m := <-c.inbound:
			out = append(out, m)
		default:
			return out
		}
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// RequestEntityData asks the server for one entity record, fire-and-forget.
// The answer arrives later as an inbound EntityDataResponse. Implements the
// engine's Source interface.
func (c *Client) RequestEntityData(id string) {
	if err := c.SendMessage(messages.EntityDataRequest{ID: id}); err != nil {
		log.Printf("[client] entity data request for %s: %v", id, err)
	}
}

func (c *Client) enqueue(m any) {
	select {
	case c.inbound <- m:
	default:
		// Overflow means the game loop stalled for seconds; the sweep and
		// sync checks recover whatever this drops.
		log.Printf("[client] inbound queue full, dropping %T", m)
	}
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
