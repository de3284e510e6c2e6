package netsync

import (
	"log"
	"math"
	"time"
)

const (
	anomalyHistorySize = 10
	minSampleInterval  = time.Millisecond
)

// AnomalyGuard watches the local player's own movement for implausible jumps
// caused by timer drift or frame skips. It clamps instead of rejecting: the
// attempted direction is kept and the displacement is cut to the per-interval
// maximum, so legitimate fast input is slowed, never frozen.
type AnomalyGuard struct {
	maxSpeed float64
	history  []planarSample // oldest first, bounded
}

type planarSample struct {
	X, Z float64
	At   time.Time
}

func NewAnomalyGuard(maxSpeed float64) *AnomalyGuard {
	return &AnomalyGuard{
		maxSpeed: maxSpeed,
		history:  make([]planarSample, 0, anomalyHistorySize),
	}
}

// Check records a new local position sample and returns it, clamped when the
// speed implied against the previous sample exceeds the maximum. The clamped
// value is what enters the history, so later checks measure against the
// corrected position rather than the rejected one.
func (g *AnomalyGuard) Check(x, z float64, now time.Time) (float64, float64) {
	if len(g.history) == 0 {
		g.push(planarSample{x, z, now})
		return x, z
	}

	last := g.history[len(g.history)-1]
	elapsed := now.Sub(last.At)
	if elapsed < minSampleInterval {
		elapsed = minSampleInterval
	}
	secs := elapsed.Seconds()

	dx := x - last.X
	dz := z - last.Z
	dist := math.Hypot(dx, dz)
	maxDist := g.maxSpeed * secs

	if dist > maxDist {
		scale := maxDist / dist
		x = last.X + dx*scale
		z = last.Z + dz*scale
		log.Printf("[anomaly] clamped local move of %.2f units over %dms", dist, elapsed.Milliseconds())
	}

	g.push(planarSample{x, z, now})
	return x, z
}

// Reset clears the history, e.g. after a server-forced teleport.
func (g *AnomalyGuard) Reset() {
	g.history = g.history[:0]
}

// Len reports how many samples are held.
func (g *AnomalyGuard) Len() int {
	return len(g.history)
}

func (g *AnomalyGuard) push(s planarSample) {
	if len(g.history) == anomalyHistorySize {
		copy(g.history, g.history[1:])
		g.history[len(g.history)-1] = s
		return
	}
	g.history = append(g.history, s)
}
