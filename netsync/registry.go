// Package netsync turns sparse, rate-limited position reports for remote
// players into smooth motion of their world entities, and owns those
// entities' lifecycle: creation on first sighting, staleness marking,
// confirmed removal and duplicate suppression.
//
// Everything here runs on the game loop goroutine. The two event sources —
// the render tick and the drained network messages — interleave but never
// run concurrently, which is what makes the field-ownership partitioning
// (ingress writes targets, driver writes transforms, registry creates and
// destroys) safe without locks.
package netsync

import (
	"log"
	"time"

	"github.com/jake41397/miniscape-client/archetypes"
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var remoteQuery = donburi.NewQuery(filter.Contains(components.RemoteSync))

// Registry owns the id -> entity table for remote players. Every create and
// destroy of a remote player entity goes through it; the other engine parts
// only query. It refuses the local player's own id so a server echo can never
// spawn a doppelganger.
type Registry struct {
	world   donburi.World
	localID string
	cfg     config.SyncConfig

	entities map[string]donburi.Entity

	// tagged is the incremental id -> entities index used for fast cleanup.
	// Entities created behind the registry's back are not in it; the world
	// scan in strayEntities covers those.
	tagged map[string][]donburi.Entity
}

func NewRegistry(world donburi.World, localID string, cfg config.SyncConfig) *Registry {
	return &Registry{
		world:    world,
		localID:  localID,
		cfg:      cfg,
		entities: make(map[string]donburi.Entity),
		tagged:   make(map[string][]donburi.Entity),
	}
}

// Upsert returns the entity for id, creating it at the given position when
// unknown. Upserting a live id is a reset: every entity carrying the id
// anywhere in the world is destroyed first, so one id never keeps two visuals
// even when a join raced an earlier cleanup. Returns nil for the local id.
func (r *Registry) Upsert(id, name string, x, y, z float64, now time.Time) *donburi.Entry {
	if id == "" || id == r.localID {
		return nil
	}

	if r.has(id) {
		n := r.destroyAllFor(id)
		log.Printf("[registry] reset %s, destroyed %d prior entities", id, n)
	}

	entry := archetypes.RemotePlayer.Spawn(r.world)
	components.Transform.SetValue(entry, components.TransformData{X: x, Y: y, Z: z})
	components.Label.SetValue(entry, components.LabelData{Text: name})
	components.RemoteSync.SetValue(entry, components.RemoteSyncData{
		ID:         id,
		Name:       name,
		TargetX:    x,
		TargetY:    y,
		TargetZ:    z,
		TargetAt:   now,
		LastUpdate: now,
		Deadline:   now.Add(r.cfg.StaleAfter),
	})

	r.entities[id] = entry.Entity()
	r.tagged[id] = append(r.tagged[id], entry.Entity())
	return entry
}

// Remove destroys the entity for id along with its label and any chat bubble.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	if !r.has(id) {
		return
	}
	r.destroyAllFor(id)
	log.Printf("[registry] removed %s", id)
}

// Get returns the live entry for id.
func (r *Registry) Get(id string) (*donburi.Entry, bool) {
	ent, ok := r.entities[id]
	if !ok {
		return nil, false
	}
	if !r.world.Valid(ent) {
		// The entity died behind our back; drop the mapping.
		delete(r.entities, id)
		return nil, false
	}
	return r.world.Entry(ent), true
}

// AllIDs returns every tracked id.
func (r *Registry) AllIDs() []string {
	ids := make([]string, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of tracked remote players.
func (r *Registry) Count() int {
	return len(r.entities)
}

// ScanByID walks every RemoteSync-tagged entity in the world and groups them
// by id. Unlike the incremental index this also finds entities that were
// never registered, which is exactly what the sweep's duplicate pass hunts.
func (r *Registry) ScanByID() map[string][]donburi.Entity {
	out := make(map[string][]donburi.Entity)
	remoteQuery.Each(r.world, func(e *donburi.Entry) {
		id := components.RemoteSync.Get(e).ID
		out[id] = append(out[id], e.Entity())
	})
	return out
}

// PruneDuplicates destroys every entity carrying id except the one the
// registry references. When the registry references none of them the id is a
// ghost and every entity is destroyed. Returns the number destroyed.
func (r *Registry) PruneDuplicates(id string) int {
	canonical, tracked := r.entities[id]
	destroyed := 0
	for _, ent := range r.strayEntities(id) {
		if tracked && ent == canonical {
			continue
		}
		r.world.Remove(ent)
		destroyed++
	}
	r.tagged[id] = nil
	if tracked && r.world.Valid(canonical) {
		r.tagged[id] = append(r.tagged[id], canonical)
	} else {
		delete(r.tagged, id)
	}
	return destroyed
}

func (r *Registry) has(id string) bool {
	if _, ok := r.entities[id]; ok {
		return true
	}
	return len(r.tagged[id]) > 0
}

// destroyAllFor removes every entity carrying id: first the indexed ones,
// then a full scan for strays created behind the registry's back.
func (r *Registry) destroyAllFor(id string) int {
	destroyed := 0
	seen := make(map[donburi.Entity]bool)
	for _, ent := range r.tagged[id] {
		seen[ent] = true
		if r.world.Valid(ent) {
			r.world.Remove(ent)
			destroyed++
		}
	}
	for _, ent := range r.strayEntities(id) {
		if seen[ent] {
			continue
		}
		r.world.Remove(ent)
		destroyed++
	}
	delete(r.tagged, id)
	delete(r.entities, id)
	return destroyed
}

// strayEntities scans the world for live entities carrying id.
func (r *Registry) strayEntities(id string) []donburi.Entity {
	var ents []donburi.Entity
	remoteQuery.Each(r.world, func(e *donburi.Entry) {
		if components.RemoteSync.Get(e).ID == id {
			ents = append(ents, e.Entity())
		}
	})
	return ents
}
