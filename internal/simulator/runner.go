package simulator

import (
	"context"
	"sync"

	"icp-hunter/pkg/log"
)

// RetryNotice is the transient message shown when the simulated gear
// glitches. The run continues regardless.
const RetryNotice = "Our hunting gear needs maintenance. Trying again..."

// HandoffFunc receives the final state once the run completes.
type HandoffFunc func(State)

// Runner drives a State forward on a clock until hand-off or cancellation.
type Runner struct {
	params    Params
	clock     Clock
	onHandoff HandoffFunc

	glitchChance float64
	roll         func() float64

	mu    sync.RWMutex
	state State

	start sync.Once
	done  chan struct{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithGlitches makes the runner raise RetryNotice with the given chance per
// tick once analysis is past half way. roll must return values in [0,1).
func WithGlitches(chance float64, roll func() float64) Option {
	return func(r *Runner) {
		r.glitchChance = chance
		r.roll = roll
	}
}

// NewRunner creates a runner. onHandoff may be nil.
func NewRunner(params Params, clock Clock, onHandoff HandoffFunc, opts ...Option) *Runner {
	r := &Runner{
		params:    params,
		clock:     clock,
		onHandoff: onHandoff,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the run. Calling it again has no effect. Cancelling ctx
// stops the ticker; the hand-off is then never delivered.
func (r *Runner) Start(ctx context.Context) {
	r.start.Do(func() {
		go r.run(ctx)
	})
}

// Done is closed when the run has finished or was cancelled.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the current state.
func (r *Runner) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Params returns the run parameters.
func (r *Runner) Params() Params {
	return r.params
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.done)

	ticker := r.clock.NewTicker(r.params.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.GlobalDebugCtx(ctx, "hunt simulation cancelled", "stage", r.Snapshot().Stage.String())
			return
		case <-ticker.C():
		}

		r.mu.Lock()
		prev := r.state
		next := Step(prev, r.params)
		if r.glitch(next) {
			next.Notice = RetryNotice
		}
		r.state = next
		r.mu.Unlock()

		if next.Stage != prev.Stage {
			log.GlobalDebugCtx(ctx, "hunt stage advanced", "stage", next.Stage.String(), "tier", string(r.params.Tier))
		}
		if next.Notice != "" && prev.Notice == "" {
			log.GlobalWarnCtx(ctx, "simulated gear glitch", "stage", next.Stage.String())
		}

		if next.HandedOff {
			if r.onHandoff != nil {
				r.onHandoff(next)
			}
			return
		}
	}
}

func (r *Runner) glitch(s State) bool {
	if r.glitchChance <= 0 || r.roll == nil || s.Notice != "" {
		return false
	}
	if s.Stage != Analyzing || s.Progress <= 50 {
		return false
	}
	return r.roll() < r.glitchChance
}
