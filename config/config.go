package config

import (
	"image/color"
	"time"
)

// SyncConfig tunes the remote entity synchronization engine. The thresholds
// are ordered SnapDistance > LargeGap > MediumGap > PredictLimit; keeping that
// ordering matters more than the exact values, which were tuned by eye against
// a 200 ms server update cadence.
type SyncConfig struct {
	// Snap rule: discrepancies wider than this are corrected in one frame
	// instead of interpolated.
	SnapDistance float64

	// Distance-tiered catch-up fractions (per frame).
	LargeGap      float64
	MediumGap     float64
	CatchUpFast   float64
	CatchUpMedium float64
	InterpSpeed   float64 // small-gap closing rate, fraction per second

	// Remaining distance below which the position is copied exactly,
	// killing residual float jitter.
	SettleEpsilon float64

	// Velocity prediction: only applied below PredictLimit. The prediction
	// scale grows with time since the last update at PredictGain per second,
	// capped at PredictMaxFraction.
	PredictLimit       float64
	PredictGain        float64
	PredictMaxFraction float64

	// Weight of the newest raw velocity sample when smoothing.
	VelocitySmoothing float64

	// Heading rotation.
	HeadingSmoothing float64
	MinHeadingMove   float64 // squared planar movement below which heading is kept

	// Lifecycle.
	StaleAfter     time.Duration // disappearance deadline from last update
	ConfirmTimeout time.Duration // per-query confirmation timeout
	SweepInterval  time.Duration // reconciliation sweep period

	// Expected cadence of server position broadcasts.
	UpdateInterval time.Duration
}

var Sync = SyncConfig{
	SnapDistance:  8.0,
	LargeGap:      4.0,
	MediumGap:     2.0,
	CatchUpFast:   0.35,
	CatchUpMedium: 0.2,
	InterpSpeed:   6.0,
	SettleEpsilon: 0.001,

	PredictLimit:       0.8,
	PredictGain:        2.0,
	PredictMaxFraction: 0.6,

	VelocitySmoothing: 0.6,

	HeadingSmoothing: 0.25,
	MinHeadingMove:   1e-8,

	StaleAfter:     30 * time.Second,
	ConfirmTimeout: 5 * time.Second,
	SweepInterval:  2 * time.Minute,

	UpdateInterval: 200 * time.Millisecond,
}

// WorldConfig holds movement and default zone values. MaxSpeed is the anomaly
// guard's plausibility ceiling and must stay above WalkSpeed with headroom for
// frame jitter.
type WorldConfig struct {
	WalkSpeed float64 // local movement, units per second
	MaxSpeed  float64 // anomaly guard ceiling, units per second

	PlayerRadius float64 // planar collision footprint

	// Default zone extent, used when no TMX zone file is available.
	ZoneMinX, ZoneMinZ float64
	ZoneMaxX, ZoneMaxZ float64
	SpawnX, SpawnZ     float64

	// Gating for outbound position reports.
	MoveSendInterval time.Duration
	MoveSendEpsilon  float64
}

var World = WorldConfig{
	WalkSpeed:    4.5,
	MaxSpeed:     9.0,
	PlayerRadius: 0.4,

	ZoneMinX: 0, ZoneMinZ: 0,
	ZoneMaxX: 512, ZoneMaxZ: 512,
	SpawnX: 256, SpawnZ: 256,

	MoveSendInterval: 100 * time.Millisecond,
	MoveSendEpsilon:  0.01,
}

// BubbleConfig controls chat bubble overlays.
type BubbleConfig struct {
	Hold     time.Duration // fully visible
	Fade     float32       // fade-out, seconds
	MaxRunes int
}

var Bubble = BubbleConfig{
	Hold:     4 * time.Second,
	Fade:     0.6,
	MaxRunes: 120,
}

// ClientConfig holds window and connection defaults.
type ClientConfig struct {
	Width, Height int
	Version       string

	DefaultServer string
	DefaultPort   string
	DefaultName   string

	ZoneDir string // TMX zone files, relative to the working directory
}

var C = ClientConfig{
	Width:   960,
	Height:  640,
	Version: "0.4.2",

	DefaultServer: "localhost",
	DefaultPort:   "7788",
	DefaultName:   "Adventurer",

	ZoneDir: "assets/zones",
}

// CameraConfig tunes the follow camera.
type CameraConfig struct {
	FollowSmoothing float64
	PixelsPerUnit   float64
}

var Camera = CameraConfig{
	FollowSmoothing: 0.08,
	PixelsPerUnit:   24,
}

// Palette.
var (
	White       = color.RGBA{255, 255, 255, 255}
	BrightGreen = color.RGBA{64, 255, 64, 255}
	LightGreen  = color.RGBA{160, 255, 160, 255}
	Ground      = color.RGBA{34, 48, 38, 255}
	Obstacle    = color.RGBA{70, 82, 74, 255}
	StaleTint   = color.RGBA{140, 140, 140, 255}
	BubbleBack  = color.RGBA{0, 0, 0, 200}
)

// PlayerColors tints remote players; picked by a stable hash of the entity id.
var PlayerColors = []color.RGBA{
	{220, 80, 80, 255},
	{80, 130, 220, 255},
	{230, 180, 60, 255},
	{170, 90, 220, 255},
	{80, 200, 200, 255},
	{230, 120, 180, 255},
	{140, 200, 90, 255},
	{240, 140, 70, 255},
}
