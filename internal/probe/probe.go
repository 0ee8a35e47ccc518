// Package probe periodically checks that the backend API answers, so the
// health endpoint and metrics can tell a degraded storefront from a healthy one.
package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const checkTimeout = 10 * time.Second

// State is the last known backend reachability
type State string

const (
	StateUnknown      State = "unknown"
	StateUp           State = "up"
	StateDown         State = "down"
	StateUnconfigured State = "unconfigured"
)

// Status is a snapshot of the last check
type Status struct {
	State     State     `json:"state"`
	CheckedAt time.Time `json:"checked_at,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// CheckFunc performs one backend round trip
type CheckFunc func(ctx context.Context) error

// Observer receives the outcome of every check
type Observer interface {
	ObserveBackendProbe(up bool, duration time.Duration)
}

// Probe runs CheckFunc on a cron schedule and remembers the outcome.
// It is safe for concurrent use.
type Probe struct {
	check      CheckFunc
	configured bool
	logger     zerolog.Logger
	observer   Observer
	now        func() time.Time

	mu     sync.RWMutex
	status Status
	cron   *cron.Cron
	first  sync.WaitGroup
}

// New creates a probe. When configured is false checks are skipped and the
// state stays "unconfigured".
func New(check CheckFunc, configured bool, log zerolog.Logger) *Probe {
	state := StateUnknown
	if !configured {
		state = StateUnconfigured
	}
	return &Probe{
		check:      check,
		configured: configured,
		logger:     log,
		now:        time.Now,
		status:     Status{State: state},
	}
}

// WithObserver attaches an observer and returns the probe
func (p *Probe) WithObserver(o Observer) *Probe {
	p.observer = o
	return p
}

// Status returns the outcome of the last check
func (p *Probe) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Check runs one check now and records the outcome
func (p *Probe) Check(ctx context.Context) Status {
	if !p.configured {
		return p.Status()
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := p.now()
	err := p.check(ctx)
	duration := p.now().Sub(start)

	status := Status{State: StateUp, CheckedAt: start.UTC()}
	if err != nil {
		status.State = StateDown
		status.Error = err.Error()
	}

	p.mu.Lock()
	previous := p.status.State
	p.status = status
	p.mu.Unlock()

	if p.observer != nil {
		p.observer.ObserveBackendProbe(err == nil, duration)
	}

	if previous != status.State {
		event := p.logger.Info()
		if err != nil {
			event = p.logger.Warn().Err(err)
		}
		event.
			Str("previous", string(previous)).
			Str("state", string(status.State)).
			Dur("duration", duration).
			Msg("Backend reachability changed")
	}

	return status
}

// Start schedules checks using a standard cron expression or descriptor
// (e.g. "*/5 * * * *", "@every 30s") and runs the first check immediately.
func (p *Probe) Start(schedule string) error {
	if !p.configured {
		p.logger.Debug().Msg("Backend not configured - probe disabled")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", schedule, err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := c.AddFunc(schedule, func() { p.Check(context.Background()) })
	if err != nil {
		return fmt.Errorf("failed to schedule probe: %w", err)
	}

	p.mu.Lock()
	p.cron = c
	p.mu.Unlock()

	// The wrapped job shares the skip-if-running guard with scheduled runs
	job := c.Entry(id).WrappedJob
	p.first.Add(1)
	go func() {
		defer p.first.Done()
		job.Run()
	}()
	c.Start()

	p.logger.Info().Str("schedule", schedule).Msg("Backend probe started")
	return nil
}

// Stop halts scheduling and waits for running checks, including the initial
// one, to finish or ctx to end
func (p *Probe) Stop(ctx context.Context) {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Stop().Done()
		p.first.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}
