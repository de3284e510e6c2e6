package netsync

import (
	"testing"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/yohamta/donburi"
)

// fakeSource records entity data requests instead of hitting the network.
type fakeSource struct {
	requests []string
}

func (f *fakeSource) RequestEntityData(id string) {
	f.requests = append(f.requests, id)
}

// fixture wires an engine around a fake clock and a recording source.
type fixture struct {
	world donburi.World
	src   *fakeSource
	eng   *Engine
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world: donburi.NewWorld(),
		src:   &fakeSource{},
		now:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	f.eng = New(Options{
		World:   f.world,
		LocalID: "local",
		Source:  f.src,
		Bounds:  zonedata.Rect{MinX: 0, MinZ: 0, MaxX: 512, MaxZ: 512},
		Config:  config.Sync,
		Clock:   func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) sync(t *testing.T, id string) *components.RemoteSyncData {
	t.Helper()
	entry, ok := f.eng.Registry.Get(id)
	if !ok {
		t.Fatalf("expected entity for %s", id)
	}
	return components.RemoteSync.Get(entry)
}

func (f *fixture) transform(t *testing.T, id string) *components.TransformData {
	t.Helper()
	entry, ok := f.eng.Registry.Get(id)
	if !ok {
		t.Fatalf("expected entity for %s", id)
	}
	return components.Transform.Get(entry)
}
