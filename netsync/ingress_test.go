package netsync

import (
	"math"
	"testing"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/shared/messages"
)

func TestMoveBeforeJoinCreatesPlaceholder(t *testing.T) {
	f := newFixture(t)

	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 10, Y: 1, Z: 10})

	s := f.sync(t, "p9")
	if !s.Placeholder {
		t.Fatalf("expected placeholder flag")
	}
	if s.Name != "wanderer-p9" {
		t.Fatalf("expected placeholder name, got %q", s.Name)
	}
	tr := f.transform(t, "p9")
	if tr.X != 10 || tr.Y != 1 || tr.Z != 10 {
		t.Fatalf("expected placeholder at reported position, got (%v,%v,%v)", tr.X, tr.Y, tr.Z)
	}
	if len(f.src.requests) != 1 || f.src.requests[0] != "p9" {
		t.Fatalf("expected one entity data request for p9, got %v", f.src.requests)
	}
}

func TestMoveEchoForLocalDiscarded(t *testing.T) {
	f := newFixture(t)

	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "local", X: 1, Z: 1})

	if got := f.eng.Registry.Count(); got != 0 {
		t.Fatalf("local echo must not create an entity, got %d tracked", got)
	}
}

func TestMoveTargetClampedToBounds(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice", X: 5, Z: 5})

	f.advance(200 * time.Millisecond)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 900, Z: -40})

	s := f.sync(t, "p1")
	if s.TargetX != 512 || s.TargetZ != 0 {
		t.Fatalf("expected clamped target (512,0), got (%v,%v)", s.TargetX, s.TargetZ)
	}
}

func TestLeaveForLocalIgnored(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.eng.Ingress.HandleLeave(messages.PlayerLeave{ID: "local"})

	if got := f.eng.Registry.Count(); got != 1 {
		t.Fatalf("leave for local id must not remove anyone, got %d tracked", got)
	}
}

func TestSyncCheckReportsMissing(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	reply := f.eng.Ingress.HandleSyncCheck(messages.SyncCheck{IDs: []string{"p1", "p2", "local"}})

	if len(reply.Missing) != 1 || reply.Missing[0] != "p2" {
		t.Fatalf("expected only p2 missing, got %v", reply.Missing)
	}
}

func TestVelocityEstimatedFromTargetPairs(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice", X: 0, Z: 0})

	f.advance(500 * time.Millisecond)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 2, Z: 0})

	s := f.sync(t, "p1")
	if !s.HasVelocity {
		t.Fatalf("expected velocity estimate after second sample")
	}
	if math.Abs(s.VelX-4) > 1e-9 || math.Abs(s.VelZ) > 1e-9 {
		t.Fatalf("expected velocity (4,0), got (%v,%v)", s.VelX, s.VelZ)
	}
}

func TestVelocitySmoothedOnLaterSamples(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice", X: 0, Z: 0})

	f.advance(500 * time.Millisecond)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 2, Z: 0}) // raw 4 u/s

	f.advance(500 * time.Millisecond)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 3, Z: 0}) // raw 2 u/s

	s := f.sync(t, "p1")
	want := 4 + (2.0-4.0)*f.eng.Driver.cfg.VelocitySmoothing
	if math.Abs(s.VelX-want) > 1e-9 {
		t.Fatalf("expected smoothed velocity %v, got %v", want, s.VelX)
	}
}

func TestPlaceholderRecordRetriedAfterTimeout(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 10, Z: 10})

	// A move inside the confirm timeout must not issue another query.
	f.advance(time.Second)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 11, Z: 10})
	if len(f.src.requests) != 1 {
		t.Fatalf("expected request rate-limited inside confirm timeout, got %v", f.src.requests)
	}

	// The answer never arrives; a move past the timeout asks again.
	f.advance(f.eng.Driver.cfg.ConfirmTimeout)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 12, Z: 10})
	if len(f.src.requests) != 2 {
		t.Fatalf("expected record re-requested after timeout, got %v", f.src.requests)
	}

	// Once resolved, further moves stay quiet.
	f.eng.HandleEntityData(messages.EntityDataResponse{ID: "p9", Name: "Bob", Present: true, X: 12, Z: 10})
	f.advance(f.eng.Driver.cfg.ConfirmTimeout)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 13, Z: 10})
	if len(f.src.requests) != 2 {
		t.Fatalf("resolved entity must not be re-requested, got %v", f.src.requests)
	}
}

func TestEntityDataResolvesPlaceholder(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p9", X: 10, Y: 0, Z: 10})

	f.eng.HandleEntityData(messages.EntityDataResponse{ID: "p9", Name: "Bob", Present: true, X: 10, Z: 10})

	s := f.sync(t, "p9")
	if s.Placeholder || s.Name != "Bob" {
		t.Fatalf("expected placeholder resolved to Bob, got %+v", s)
	}
	entry, _ := f.eng.Registry.Get("p9")
	if components.Label.Get(entry).Text != "Bob" {
		t.Fatalf("expected label updated to Bob")
	}
}

func TestEntityDataAbsentButLiveIsKept(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.eng.Ingress.ResolveEntityData(messages.EntityDataResponse{ID: "p1", Present: false})

	if _, ok := f.eng.Registry.Get("p1"); !ok {
		t.Fatalf("an unsolicited absent verdict must not remove a live entity")
	}
}

func TestMoveRearmsStaleness(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	s := f.sync(t, "p1")
	s.Stale = true
	before := s.Deadline

	f.advance(time.Second)
	f.eng.Ingress.HandleMove(messages.PlayerMove{ID: "p1", X: 1, Z: 1})

	if s.Stale {
		t.Fatalf("expected stale flag cleared by fresh move")
	}
	if !s.Deadline.After(before) {
		t.Fatalf("expected deadline pushed out, got %v <= %v", s.Deadline, before)
	}
	if want := f.now.Add(f.eng.Driver.cfg.StaleAfter); !s.Deadline.Equal(want) {
		t.Fatalf("expected deadline %v, got %v", want, s.Deadline)
	}
}

func TestChatAttachesBubble(t *testing.T) {
	f := newFixture(t)
	f.eng.Ingress.HandleJoin(messages.PlayerJoin{ID: "p1", Name: "Alice"})

	f.eng.Ingress.HandleChat(messages.PlayerChat{ID: "p1", Text: "hello there"})

	entry, _ := f.eng.Registry.Get("p1")
	if !entry.HasComponent(components.Bubble) {
		t.Fatalf("expected bubble component attached")
	}
	if got := components.Bubble.Get(entry).Text; got != "hello there" {
		t.Fatalf("unexpected bubble text %q", got)
	}
}

func TestChatForUnknownSpeakerIgnored(t *testing.T) {
	f := newFixture(t)

	f.eng.Ingress.HandleChat(messages.PlayerChat{ID: "p1", Text: "hello"})

	if got := f.eng.Registry.Count(); got != 0 {
		t.Fatalf("chat must not create entities, got %d tracked", got)
	}
}
