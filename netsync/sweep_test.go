package netsync

import (
	"fmt"
	"testing"
	"time"

	"github.com/jake41397/miniscape-client/archetypes"
	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/shared/messages"
)

func TestSilentPlayerMarkedStaleNotRemoved(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.advance(f.eng.Driver.cfg.StaleAfter + time.Second)
	f.eng.Step(testDt)

	s := f.sync(t, "p1")
	if !s.Stale {
		t.Fatalf("expected stale flag after deadline")
	}
	if got := f.eng.Registry.Count(); got != 1 {
		t.Fatalf("staleness alone must not remove, got %d tracked", got)
	}
}

func TestFreshUpdateCancelsDeadline(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.advance(f.eng.Driver.cfg.StaleAfter - time.Second)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 1, Z: 1})

	// Past the original deadline but well inside the rearmed one.
	f.advance(2 * time.Second)
	f.eng.Step(testDt)

	if f.sync(t, "p1").Stale {
		t.Fatalf("rearmed player must not go stale on the old deadline")
	}
}

func TestSweepConfirmsDisconnectsAfterReconnectStorm(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 5; i++ {
		f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: fmt.Sprintf("p%d", i), Name: "P"})
	}

	// First step baselines the sweep timer; everyone goes stale meanwhile.
	f.eng.Step(testDt)
	f.advance(f.eng.Driver.cfg.StaleAfter + time.Second)
	f.eng.Step(testDt)
	f.advance(f.eng.Driver.cfg.SweepInterval)
	f.eng.Step(testDt)

	if len(f.src.requests) != 5 {
		t.Fatalf("expected one confirmation query per stale player, got %v", f.src.requests)
	}

	// Two are still connected, three are gone.
	f.eng.HandleEntityData(messages.EntityDataResponse{ID: "p1", Name: "P", Present: true})
	f.eng.HandleEntityData(messages.EntityDataResponse{ID: "p2", Name: "P", Present: true})
	for _, id := range []string{"p3", "p4", "p5"} {
		f.eng.HandleEntityData(messages.EntityDataResponse{ID: id, Present: false})
	}

	if got := f.eng.Registry.Count(); got != 2 {
		t.Fatalf("expected 2 survivors, got %d", got)
	}
	for _, id := range []string{"p1", "p2"} {
		if f.sync(t, id).Stale {
			t.Fatalf("confirmed-present player %s must be rearmed", id)
		}
	}
}

func TestConfirmationTimeoutRemoves(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.eng.Step(testDt)
	f.advance(f.eng.Driver.cfg.StaleAfter + time.Second)
	f.eng.Step(testDt)
	f.advance(f.eng.Driver.cfg.SweepInterval)
	f.eng.Step(testDt)

	if len(f.src.requests) != 1 {
		t.Fatalf("expected a confirmation query, got %v", f.src.requests)
	}

	// No answer ever arrives.
	f.advance(f.eng.Driver.cfg.ConfirmTimeout + time.Second)
	f.eng.Step(testDt)

	if _, ok := f.eng.Registry.Get("p1"); ok {
		t.Fatalf("expected unconfirmed player removed after timeout")
	}
}

func TestSweepSuppressesDuplicates(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	rogue := archetypes.RemotePlayer.Spawn(f.world)
	components.RemoteSync.SetValue(rogue, components.RemoteSyncData{ID: "p1"})

	f.eng.Step(testDt)
	f.advance(f.eng.Driver.cfg.SweepInterval + time.Second)
	f.eng.Step(testDt)

	if ents := f.eng.Registry.ScanByID()["p1"]; len(ents) != 1 {
		t.Fatalf("expected one entity for p1 after sweep, got %d", len(ents))
	}
	if _, ok := f.eng.Registry.Get("p1"); !ok {
		t.Fatalf("canonical entity must survive duplicate suppression")
	}
}

func TestUnsolicitedEntityDataDoesNotRemove(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	// Absent verdict with no confirmation in flight routes to ingress,
	// which keeps a live entity.
	f.eng.HandleEntityData(messages.EntityDataResponse{ID: "p1", Present: false})

	if _, ok := f.eng.Registry.Get("p1"); !ok {
		t.Fatalf("expected live entity kept on unsolicited absent verdict")
	}
}
