package netsync

import (
	"log"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/shared/messages"
)

// Sweep is the low-frequency reconciliation pass. It runs two independent
// jobs: confirming suspected disconnects with the server before anything is
// deleted, and collapsing duplicate entities that slipped past the registry.
// Its period is deliberately much slower than gameplay; the worst visible
// consequence of waiting is a quiet ghost standing around until the next run.
type Sweep struct {
	reg *Registry
	src Source
	cfg config.SyncConfig

	lastRun time.Time
	// Stale ids with a confirmation query in flight, by timeout deadline.
	pending map[string]time.Time
}

func NewSweep(reg *Registry, src Source, cfg config.SyncConfig) *Sweep {
	return &Sweep{
		reg:     reg,
		src:     src,
		cfg:     cfg,
		pending: make(map[string]time.Time),
	}
}

// Step expires confirmation queries on every call and runs the two passes
// once per sweep interval. A timed-out confirmation counts as a disconnect:
// failing toward cleanup beats leaking ghost entities.
func (s *Sweep) Step(now time.Time) {
	for id, deadline := range s.pending {
		if now.After(deadline) {
			delete(s.pending, id)
			log.Printf("[sweep] confirmation for %s timed out, treating as disconnected", id)
			s.reg.Remove(id)
		}
	}

	if s.lastRun.IsZero() {
		s.lastRun = now
		return
	}
	if now.Sub(s.lastRun) < s.cfg.SweepInterval {
		return
	}
	s.lastRun = now

	s.confirmStale(now)
	s.suppressDuplicates()
}

// confirmStale issues one entity data query per stale player that is not
// already awaiting an answer.
func (s *Sweep) confirmStale(now time.Time) {
	for _, id := range s.reg.AllIDs() {
		entry, ok := s.reg.Get(id)
		if !ok {
			continue
		}
		if !components.RemoteSync.Get(entry).Stale {
			continue
		}
		if _, inflight := s.pending[id]; inflight {
			continue
		}
		s.pending[id] = now.Add(s.cfg.ConfirmTimeout)
		if s.src != nil {
			s.src.RequestEntityData(id)
		}
	}
}

// Resolve consumes an entity data response when this sweep was waiting on it
// as a disconnect confirmation. Returns false when the id was not pending, in
// which case the response belongs to the ingress adapter.
func (s *Sweep) Resolve(m messages.EntityDataResponse, now time.Time) bool {
	if _, ok := s.pending[m.ID]; !ok {
		return false
	}
	delete(s.pending, m.ID)

	if !m.Present {
		log.Printf("[sweep] %s confirmed disconnected", m.ID)
		s.reg.Remove(m.ID)
		return true
	}

	// Still there, just quiet. Unflag and give it a fresh deadline.
	entry, ok := s.reg.Get(m.ID)
	if !ok {
		return true
	}
	rearm(components.RemoteSync.Get(entry), now, s.cfg.StaleAfter)
	return true
}

// suppressDuplicates scans the whole world for entities sharing an id and
// keeps only the registry's canonical one. Duplicates come from join or move
// handling racing an earlier cleanup, not from normal operation.
func (s *Sweep) suppressDuplicates() {
	for id, ents := range s.reg.ScanByID() {
		if len(ents) < 2 {
			continue
		}
		if n := s.reg.PruneDuplicates(id); n > 0 {
			log.Printf("[sweep] destroyed %d duplicate entities for %s", n, id)
		}
	}
}
