package messages

// PlayerJoin is broadcast when a player enters the world. The server also
// sends one per already-present player right after a join is accepted.
type PlayerJoin struct {
	ID      string
	Name    string
	X, Y, Z float64
}

// PlayerMove reports a player's authoritative position. Timestamp is the
// server send time in Unix milliseconds, 0 when unknown; it feeds latency
// math only, never sequencing.
type PlayerMove struct {
	ID        string
	X, Y, Z   float64
	Timestamp int64
}

// PlayerLeave is broadcast when a player leaves the world.
type PlayerLeave struct {
	ID string
}

// PlayerChat carries one chat line, shown as a bubble above the speaker.
type PlayerChat struct {
	ID   string
	Text string
}

// SyncCheck asks the client which of the listed ids it has no entity for,
// catching joins dropped during a reconnect.
type SyncCheck struct {
	IDs []string
}

// SyncCheckReply answers a SyncCheck with the ids the client is missing.
type SyncCheckReply struct {
	Missing []string
}

// EntityDataRequest asks the server for the full record of one entity. The
// client uses it to resolve moves for unknown ids and to confirm suspected
// disconnects before deleting anything.
type EntityDataRequest struct {
	ID string
}

// EntityDataResponse answers an EntityDataRequest. Present reports whether
// the entity still exists server-side; when false the other fields are zero.
type EntityDataResponse struct {
	ID      string
	Name    string
	X, Y, Z float64
	Present bool
}
