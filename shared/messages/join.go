// Package messages defines the wire structs exchanged with the world server.
// Everything here is serialized by the necs router (msgpack); field types are
// the complete contract.
package messages

// JoinRequest is sent by a client after connecting to request entering the
// world.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// JoinAccepted is the server's answer to an accepted JoinRequest. UpdateRateMs
// is the cadence of PlayerMove broadcasts, in milliseconds.
type JoinAccepted struct {
	PlayerID     string
	ServerName   string
	Zone         string
	UpdateRateMs int
}

// JoinRejected is the server's answer to a refused JoinRequest.
type JoinRejected struct {
	Reason string
}
