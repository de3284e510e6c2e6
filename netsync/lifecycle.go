package netsync

import (
	"log"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
)

// Lifecycle flags players whose disappearance deadline has passed. Expired
// players are only marked stale here, never deleted: a player standing still
// sends no moves, so removal waits for the sweep to confirm the entity is
// really gone.
//
// Deadlines are plain timestamps on the sync component. Rearming on a fresh
// update overwrites the field, so there is no separate timer object to leak
// or to fire after the entity has already been refreshed.
type Lifecycle struct {
	reg *Registry
	cfg config.SyncConfig
}

func NewLifecycle(reg *Registry, cfg config.SyncConfig) *Lifecycle {
	return &Lifecycle{reg: reg, cfg: cfg}
}

// Step marks every player whose deadline has elapsed.
func (l *Lifecycle) Step(now time.Time) {
	for _, id := range l.reg.AllIDs() {
		entry, ok := l.reg.Get(id)
		if !ok {
			continue
		}
		s := components.RemoteSync.Get(entry)
		if !s.Stale && now.After(s.Deadline) {
			s.Stale = true
			log.Printf("[lifecycle] %s stale, no update for %s", id, now.Sub(s.LastUpdate).Round(time.Second))
		}
	}
}

// rearm records an accepted update: it refreshes the last-update time, pushes
// the deadline out and clears the stale flag.
func rearm(s *components.RemoteSyncData, now time.Time, after time.Duration) {
	s.LastUpdate = now
	s.Deadline = now.Add(after)
	s.Stale = false
}
