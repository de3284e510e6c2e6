package netsync

import (
	"math"
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
)

// Prediction applies only while the last update is at most this many server
// broadcast intervals old; past that the estimate is stale, not predictive.
const predictionWindow = 3

// Driver advances every remote player's rendered transform toward its network
// target once per frame, blending measured interpolation with short-horizon
// velocity prediction. It is the sole writer of Transform for remote players
// and carries no state of its own, so a fixed input sequence always produces
// the same output.
type Driver struct {
	reg *Registry
	cfg config.SyncConfig
	now func() time.Time
}

func NewDriver(reg *Registry, cfg config.SyncConfig, now func() time.Time) *Driver {
	return &Driver{reg: reg, cfg: cfg, now: now}
}

// Step advances all remote players by one frame of dt seconds.
func (d *Driver) Step(dt float64) {
	now := d.now()
	for _, id := range d.reg.AllIDs() {
		entry, ok := d.reg.Get(id)
		if !ok {
			continue
		}
		d.advance(components.RemoteSync.Get(entry), components.Transform.Get(entry), dt, now)
	}
}

func (d *Driver) advance(s *components.RemoteSyncData, tr *components.TransformData, dt float64, now time.Time) {
	dx := s.TargetX - tr.X
	dz := s.TargetZ - tr.Z
	dist := math.Hypot(dx, dz)

	// Discrepancies this wide are never interpolated: sliding a player
	// across the zone after a reconnect or a stall looks worse than one
	// hard cut. Velocity from before the discontinuity is discarded.
	if dist > d.cfg.SnapDistance {
		tr.X, tr.Y, tr.Z = s.TargetX, s.TargetY, s.TargetZ
		s.VelX, s.VelZ = 0, 0
		s.HasVelocity = false
		return
	}

	startX, startZ := tr.X, tr.Z

	// Distance-tiered catch-up: wide gaps close proportionally faster so a
	// lag burst never leaves a player trailing for seconds, while small
	// gaps close at a frame-rate-independent rate.
	var frac float64
	switch {
	case dist > d.cfg.LargeGap:
		frac = d.cfg.CatchUpFast
	case dist > d.cfg.MediumGap:
		frac = d.cfg.CatchUpMedium
	default:
		frac = math.Min(1, d.cfg.InterpSpeed*dt)
	}
	tr.X += dx * frac
	tr.Y += (s.TargetY - tr.Y) * frac
	tr.Z += dz * frac

	// Velocity prediction bridges the gap between server updates, but only
	// on small discrepancies and only while updates keep arriving. A player
	// who stops moving stops sending; pushing a stale estimate forever
	// would hold the transform off target instead of letting it converge.
	if s.HasVelocity && dist < d.cfg.PredictLimit {
		age := now.Sub(s.LastUpdate)
		if age <= predictionWindow*d.cfg.UpdateInterval {
			scale := math.Min(age.Seconds()*d.cfg.PredictGain, d.cfg.PredictMaxFraction)
			if scale > 0 {
				tr.X += s.VelX * dt * scale
				tr.Z += s.VelZ * dt * scale
			}
		}
	}

	// Face the direction of actual movement this frame. The wrap
	// normalization keeps the turn on the short side of the circle.
	mx := tr.X - startX
	mz := tr.Z - startZ
	if mx*mx+mz*mz > d.cfg.MinHeadingMove {
		desired := math.Atan2(mx, mz)
		diff := normalizeAngle(desired - tr.Heading)
		tr.Heading = normalizeAngle(tr.Heading + diff*d.cfg.HeadingSmoothing)
	}

	// Once effectively on target, copy it exactly to kill float jitter.
	if math.Hypot(s.TargetX-tr.X, s.TargetZ-tr.Z) < d.cfg.SettleEpsilon {
		tr.X, tr.Y, tr.Z = s.TargetX, s.TargetY, s.TargetZ
	}
}

// normalizeAngle wraps a into [-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
