package netsync

import (
	"testing"

	"github.com/jake41397/miniscape-client/archetypes"
	"github.com/jake41397/miniscape-client/components"
)

func TestRegistryUpsertCreatesEntity(t *testing.T) {
	f := newFixture(t)

	entry := f.eng.Registry.Upsert("p1", "Alice", 10, 1, 20, f.now)
	if entry == nil {
		t.Fatalf("expected entry for new id")
	}
	if got := f.eng.Registry.Count(); got != 1 {
		t.Fatalf("expected 1 tracked player, got %d", got)
	}

	tr := f.transform(t, "p1")
	if tr.X != 10 || tr.Y != 1 || tr.Z != 20 {
		t.Fatalf("expected transform (10,1,20), got (%v,%v,%v)", tr.X, tr.Y, tr.Z)
	}
	s := f.sync(t, "p1")
	if s.Name != "Alice" || s.Stale {
		t.Fatalf("unexpected sync state: %+v", s)
	}
}

func TestRegistryRefusesLocalID(t *testing.T) {
	f := newFixture(t)

	if entry := f.eng.Registry.Upsert("local", "Me", 0, 0, 0, f.now); entry != nil {
		t.Fatalf("expected nil entry for local id")
	}
	if entry := f.eng.Registry.Upsert("", "Nobody", 0, 0, 0, f.now); entry != nil {
		t.Fatalf("expected nil entry for empty id")
	}
	if got := f.eng.Registry.Count(); got != 0 {
		t.Fatalf("expected no tracked players, got %d", got)
	}
}

func TestRegistryUpsertResetsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.eng.Registry.Upsert("p1", "Alice", 0, 0, 0, f.now)

	// A rogue entity with the same id, created behind the registry's back.
	rogue := archetypes.RemotePlayer.Spawn(f.world)
	components.RemoteSync.SetValue(rogue, components.RemoteSyncData{ID: "p1"})

	f.eng.Registry.Upsert("p1", "Alice", 5, 0, 5, f.now)

	ents := f.eng.Registry.ScanByID()["p1"]
	if len(ents) != 1 {
		t.Fatalf("expected exactly one entity for p1 after reset, got %d", len(ents))
	}
	tr := f.transform(t, "p1")
	if tr.X != 5 || tr.Z != 5 {
		t.Fatalf("expected fresh entity at (5,5), got (%v,%v)", tr.X, tr.Z)
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	f := newFixture(t)
	f.eng.Registry.Upsert("p1", "Alice", 0, 0, 0, f.now)

	f.eng.Registry.Remove("p1")
	f.eng.Registry.Remove("p1")
	f.eng.Registry.Remove("never-existed")

	if got := f.eng.Registry.Count(); got != 0 {
		t.Fatalf("expected no tracked players, got %d", got)
	}
	if _, ok := f.eng.Registry.Get("p1"); ok {
		t.Fatalf("expected p1 gone")
	}
}

func TestPruneDuplicatesKeepsCanonical(t *testing.T) {
	f := newFixture(t)
	entry := f.eng.Registry.Upsert("p1", "Alice", 1, 0, 1, f.now)
	canonical := entry.Entity()

	rogue := archetypes.RemotePlayer.Spawn(f.world)
	components.RemoteSync.SetValue(rogue, components.RemoteSyncData{ID: "p1"})

	if n := f.eng.Registry.PruneDuplicates("p1"); n != 1 {
		t.Fatalf("expected 1 duplicate destroyed, got %d", n)
	}
	got, ok := f.eng.Registry.Get("p1")
	if !ok {
		t.Fatalf("expected canonical entity to survive")
	}
	if got.Entity() != canonical {
		t.Fatalf("survivor is not the registry's canonical entity")
	}
}

func TestPruneDuplicatesDestroysGhosts(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		rogue := archetypes.RemotePlayer.Spawn(f.world)
		components.RemoteSync.SetValue(rogue, components.RemoteSyncData{ID: "ghost"})
	}

	if n := f.eng.Registry.PruneDuplicates("ghost"); n != 2 {
		t.Fatalf("expected both ghost entities destroyed, got %d", n)
	}
	if ents := f.eng.Registry.ScanByID()["ghost"]; len(ents) != 0 {
		t.Fatalf("expected no ghost entities left, got %d", len(ents))
	}
}
