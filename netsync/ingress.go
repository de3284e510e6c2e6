package netsync

import (
	"log"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/shared/messages"
	"github.com/jake41397/miniscape-client/shared/zonedata"
)

// Source is the authoritative network collaborator the engine can query for
// entity records. Requests are fire-and-forget; answers come back later as
// ordinary EntityDataResponse messages, possibly many frames later.
type Source interface {
	RequestEntityData(id string)
}

// Ingress translates inbound world messages into registry and sync-state
// mutations. It owns no entities and is the sole writer of target positions,
// velocity inputs and deadlines.
type Ingress struct {
	reg     *Registry
	src     Source
	cfg     config.SyncConfig
	localID string
	bounds  zonedata.Rect
	now     func() time.Time

	// RepositionLocal, when set, receives join coordinates bearing the
	// local id; the server uses those to teleport the player.
	RepositionLocal func(x, y, z float64)

	// Unknown ids with an entity data request in flight, by retry deadline.
	pending map[string]time.Time
}

func NewIngress(reg *Registry, src Source, localID string, bounds zonedata.Rect, cfg config.SyncConfig, now func() time.Time) *Ingress {
	return &Ingress{
		reg:     reg,
		src:     src,
		cfg:     cfg,
		localID: localID,
		bounds:  bounds,
		now:     now,
		pending: make(map[string]time.Time),
	}
}

// HandleJoin creates or resets the entity for a joining player. A join
// bearing the local id repositions the local player instead; it never creates
// a remote entity for self.
func (in *Ingress) HandleJoin(m messages.PlayerJoin) {
	x, z := in.bounds.Clamp(m.X, m.Z)
	if m.ID == in.localID {
		if in.RepositionLocal != nil {
			in.RepositionLocal(x, m.Y, z)
		}
		return
	}
	if in.reg.Upsert(m.ID, m.Name, x, m.Y, z, in.now()) != nil {
		delete(in.pending, m.ID)
	}
}

// HandleMove applies a position report. Moves for unknown ids create a
// placeholder entity immediately and ask the server for the real record;
// self-originated echoes are discarded.
func (in *Ingress) HandleMove(m messages.PlayerMove) {
	if m.ID == in.localID {
		log.Printf("[ingress] dropping move echo for local player")
		return
	}
	now := in.now()
	x, z := in.bounds.Clamp(m.X, m.Z)

	entry, ok := in.reg.Get(m.ID)
	if !ok {
		// Move before join. A placeholder keeps the player visible while
		// the entity record is fetched.
		entry = in.reg.Upsert(m.ID, placeholderName(m.ID), x, m.Y, z, now)
		if entry == nil {
			return
		}
		components.RemoteSync.Get(entry).Placeholder = true
		in.requestRecord(m.ID, now)
		return
	}

	s := components.RemoteSync.Get(entry)
	advanceTarget(s, x, m.Y, z, now, in.cfg)
	rearm(s, now, in.cfg.StaleAfter)

	// A lost record answer leaves the placeholder name behind; keep asking
	// while the flag is set. requestRecord caps this at one query per
	// confirm timeout.
	if s.Placeholder {
		in.requestRecord(m.ID, now)
	}
}

// HandleLeave removes the entity. A leave for the local id is logged and
// ignored: the local player must never remove itself.
func (in *Ingress) HandleLeave(m messages.PlayerLeave) {
	if m.ID == in.localID {
		log.Printf("[ingress] refusing leave for local player")
		return
	}
	in.reg.Remove(m.ID)
	delete(in.pending, m.ID)
}

// HandleChat attaches a bubble overlay to the speaker, if known.
func (in *Ingress) HandleChat(m messages.PlayerChat) {
	entry, ok := in.reg.Get(m.ID)
	if !ok {
		return
	}
	text := m.Text
	if runes := []rune(text); len(runes) > config.Bubble.MaxRunes {
		text = string(runes[:config.Bubble.MaxRunes])
	}
	if !entry.HasComponent(components.Bubble) {
		entry.AddComponent(components.Bubble)
	}
	components.Bubble.SetValue(entry, components.BubbleData{
		Text:      text,
		HoldUntil: in.now().Add(config.Bubble.Hold),
		Alpha:     1,
	})
}

// HandleSyncCheck answers "which of these ids are you missing". This is how
// the server detects joins the client never received, e.g. dropped during a
// reconnect.
func (in *Ingress) HandleSyncCheck(m messages.SyncCheck) messages.SyncCheckReply {
	var missing []string
	for _, id := range m.IDs {
		if id == in.localID {
			continue
		}
		if _, ok := in.reg.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	return messages.SyncCheckReply{Missing: missing}
}

// ResolveEntityData applies a fetched entity record: a placeholder gets its
// real name, an entity we never created gets built at the reported position.
func (in *Ingress) ResolveEntityData(m messages.EntityDataResponse) {
	delete(in.pending, m.ID)

	entry, ok := in.reg.Get(m.ID)
	if !ok {
		if m.Present {
			x, z := in.bounds.Clamp(m.X, m.Z)
			in.reg.Upsert(m.ID, m.Name, x, m.Y, z, in.now())
		}
		return
	}

	s := components.RemoteSync.Get(entry)
	if !m.Present {
		// The server denies an entity we are still receiving state for.
		// Keep it; staleness will reap it if the moves stop too.
		log.Printf("[ingress] server reports %s absent but entity is live", m.ID)
		return
	}
	if s.Placeholder || s.Name != m.Name {
		s.Name = m.Name
		s.Placeholder = false
		components.Label.Get(entry).Text = m.Name
	}
}

// requestRecord issues one entity data request per id at a time, retrying
// only after the confirm timeout passes without an answer.
func (in *Ingress) requestRecord(id string, now time.Time) {
	if dl, inflight := in.pending[id]; inflight && now.Before(dl) {
		return
	}
	in.pending[id] = now.Add(in.cfg.ConfirmTimeout)
	if in.src != nil {
		in.src.RequestEntityData(id)
	}
}

// placeholderName synthesizes a label for an id seen before its join.
func placeholderName(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return "wanderer-" + short
}
