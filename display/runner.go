package display

import (
	"context"
	"sync"
	"time"

	"menu-signage/logging"
	"menu-signage/models"
)

// SettingsSource loads the display settings
type SettingsSource interface {
	DisplaySettings(ctx context.Context) (models.DisplaySettings, error)
}

// RunnerConfig holds the Runner intervals
type RunnerConfig struct {
	RotationInterval time.Duration
	PollInterval     time.Duration
	// SettleDelay is when the fit memo is dropped once after start, for
	// fonts that arrive late.
	SettleDelay time.Duration
}

// Runner drives a session: rotation ticks, catalog polls and the one-off
// memo clear after start. Stop it by cancelling the context given to Run.
type Runner struct {
	session  *Session
	coord    *Coordinator
	settings SettingsSource
	cfg      RunnerConfig

	mu       sync.Mutex
	interval time.Duration

	wake  chan struct{}
	reset chan struct{}
}

// NewRunner creates a Runner. settings may be nil.
func NewRunner(session *Session, coord *Coordinator, settings SettingsSource, cfg RunnerConfig) *Runner {
	if cfg.RotationInterval <= 0 {
		cfg.RotationInterval = 6 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Minute
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	return &Runner{
		session:  session,
		coord:    coord,
		settings: settings,
		cfg:      cfg,
		interval: cfg.RotationInterval,
		wake:     make(chan struct{}, 1),
		reset:    make(chan struct{}, 1),
	}
}

// Invalidate asks for a catalog check now instead of at the next poll.
func (r *Runner) Invalidate() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Reconnected is called when the catalog source is reachable again.
func (r *Runner) Reconnected() {
	logging.Log.Infof("🔄 Catalog source reconnected, checking for updates")
	r.Invalidate()
}

// RotationInterval returns the current tick interval
func (r *Runner) RotationInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// ApplySettings applies the column count and rotation interval.
func (r *Runner) ApplySettings(s models.DisplaySettings) {
	r.session.SetColumns(s.Columns)

	d := time.Duration(s.RotationInterval) * time.Millisecond
	if d <= 0 {
		return
	}
	r.mu.Lock()
	changed := d != r.interval
	r.interval = d
	r.mu.Unlock()

	if changed {
		logging.Log.Infof("✓ Rotation interval set to %s", d)
		select {
		case r.reset <- struct{}{}:
		default:
		}
	}
}

// Run blocks until ctx is done. Catalog checks run beside the rotation: at
// most one is in flight, a poll during a check is dropped, and an Invalidate
// during a check queues one more.
func (r *Runner) Run(ctx context.Context) error {
	rotation := time.NewTicker(r.RotationInterval())
	defer rotation.Stop()
	poll := time.NewTicker(r.cfg.PollInterval)
	defer poll.Stop()
	settle := time.NewTimer(r.cfg.SettleDelay)
	defer settle.Stop()

	var (
		wg       sync.WaitGroup
		checking bool
		queued   bool
	)
	checked := make(chan struct{}, 1)
	check := func(reload bool) {
		checking = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.refresh(ctx)
			if reload {
				r.reloadSettings(ctx)
			}
			checked <- struct{}{}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case now := <-rotation.C:
			r.session.Tick(now)
		case <-settle.C:
			r.session.ClearMemo()
		case <-poll.C:
			if checking {
				logging.Log.Debugf("Catalog check still running, skipping poll")
				continue
			}
			check(false)
		case <-r.wake:
			if checking {
				queued = true
				continue
			}
			check(true)
		case <-checked:
			checking = false
			if queued {
				queued = false
				check(true)
			}
		case <-r.reset:
			rotation.Reset(r.RotationInterval())
		}
	}
}

func (r *Runner) refresh(ctx context.Context) {
	if r.coord == nil {
		return
	}
	// a check never outlives the next poll, so a hung source cannot hold
	// back every later one
	ctx, cancel := context.WithTimeout(ctx, r.cfg.PollInterval)
	defer cancel()
	// errors are logged by the coordinator; the next poll retries
	_, _ = r.coord.Check(ctx)
}

func (r *Runner) reloadSettings(ctx context.Context) {
	if r.settings == nil {
		return
	}
	s, err := r.settings.DisplaySettings(ctx)
	if err != nil {
		logging.Log.Warnf("⚠️ Failed to reload display settings: %v", err)
		return
	}
	r.ApplySettings(s)
}
