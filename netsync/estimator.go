package netsync

import (
	"time"

	"github.com/jake41397/miniscape-client/components"
	"github.com/jake41397/miniscape-client/config"
)

// Target arrivals closer together than this produce garbage velocities and
// are skipped for estimation.
const minVelocityInterval = time.Millisecond

// advanceTarget installs a new target sample and re-derives the smoothed
// planar velocity from the displacement between *target* positions divided by
// the wall-clock time between their arrivals. Rendered positions are never
// used here: they already contain smoothing artifacts that would corrupt the
// estimate.
func advanceTarget(s *components.RemoteSyncData, x, y, z float64, now time.Time, cfg config.SyncConfig) {
	prevX, prevZ, prevAt := s.TargetX, s.TargetZ, s.TargetAt

	s.TargetX, s.TargetY, s.TargetZ = x, y, z
	s.TargetAt = now
	s.PrevTargetX, s.PrevTargetZ = prevX, prevZ
	s.PrevTargetAt = prevAt

	if prevAt.IsZero() {
		return
	}
	elapsed := now.Sub(prevAt)
	if elapsed < minVelocityInterval {
		return
	}

	secs := elapsed.Seconds()
	vx := (x - prevX) / secs
	vz := (z - prevZ) / secs

	if s.HasVelocity {
		a := cfg.VelocitySmoothing
		s.VelX += (vx - s.VelX) * a
		s.VelZ += (vz - s.VelZ) * a
	} else {
		s.VelX, s.VelZ = vx, vz
		s.HasVelocity = true
	}
}
