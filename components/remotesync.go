package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// RemoteSyncData carries the synchronization state of one remote player
// between network updates: the last reported target, the previous target
// sample for velocity estimation, and disappearance bookkeeping.
//
// Write ownership is partitioned: the ingress adapter writes targets,
// velocity inputs and deadlines; the lifecycle pass writes Stale; nothing
// else mutates this component.
type RemoteSyncData struct {
	ID   string
	Name string
	// Placeholder is set when the name was synthesized locally for a move
	// that arrived before any join; cleared once the server's entity record
	// comes back.
	Placeholder bool

	TargetX, TargetY, TargetZ float64
	TargetAt                  time.Time // arrival time of the current target

	PrevTargetX, PrevTargetZ float64
	PrevTargetAt             time.Time

	// Smoothed planar velocity in units/second. HasVelocity is false until
	// a sample pair exists and is reset by a snap.
	VelX, VelZ  float64
	HasVelocity bool

	LastUpdate time.Time
	Deadline   time.Time // disappearance deadline, rearmed on every update
	Stale      bool
}

var RemoteSync = donburi.NewComponentType[RemoteSyncData]()
