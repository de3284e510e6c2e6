package netsync

import (
	"time"

	"github.com/jake41397/miniscape-client/config"
	"github.com/jake41397/miniscape-client/shared/messages"
	"github.com/jake41397/miniscape-client/shared/zonedata"
	"github.com/yohamta/donburi"
)

// Engine bundles the synchronization parts behind one Step and handler
// surface. All methods must be called from the game loop goroutine; inbound
// messages are expected in arrival order.
type Engine struct {
	Registry *Registry
	Ingress  *Ingress
	Driver   *Driver
	Guard    *AnomalyGuard

	lifecycle *Lifecycle
	sweep     *Sweep
	now       func() time.Time
}

// Options configures an Engine. Clock defaults to time.Now; tests inject a
// fake to drive deadlines deterministically.
type Options struct {
	World   donburi.World
	LocalID string
	Source  Source
	Bounds  zonedata.Rect
	Config  config.SyncConfig
	Clock   func() time.Time
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	reg := NewRegistry(opts.World, opts.LocalID, opts.Config)
	return &Engine{
		Registry:  reg,
		Ingress:   NewIngress(reg, opts.Source, opts.LocalID, opts.Bounds, opts.Config, opts.Clock),
		Driver:    NewDriver(reg, opts.Config, opts.Clock),
		Guard:     NewAnomalyGuard(config.World.MaxSpeed),
		lifecycle: NewLifecycle(reg, opts.Config),
		sweep:     NewSweep(reg, opts.Source, opts.Config),
		now:       opts.Clock,
	}
}

// Step advances the engine by one rendered frame of dt seconds: staleness
// marking, then interpolation, then the reconciliation sweep's timers.
func (e *Engine) Step(dt float64) {
	now := e.now()
	e.lifecycle.Step(now)
	e.Driver.Step(dt)
	e.sweep.Step(now)
}

// HandleEntityData routes an entity record answer: the sweep gets first
// claim (disconnect confirmation), the ingress adapter resolves the rest
// (placeholder names, never-seen entities).
func (e *Engine) HandleEntityData(m messages.EntityDataResponse) {
	if e.sweep.Resolve(m, e.now()) {
		return
	}
	e.Ingress.ResolveEntityData(m)
}
