package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metrics"
)

// Clearer drops per-match state. Game state and the metadata cache both implement it.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ClearerFunc adapts a function to Clearer.
type ClearerFunc func(ctx context.Context) error

func (f ClearerFunc) Clear(ctx context.Context) error {
	return f(ctx)
}

// Refresher is the part of the overlay the reset sequence talks to.
type Refresher interface {
	HideTransientReveals()
	UpdateContent(full bool)
}

// ResetResult describes one call to Reset.
type ResetResult struct {
	RunID      string        `json:"run_id,omitempty"`
	Rejected   bool          `json:"rejected"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Duration   time.Duration `json:"duration"`
	Errors     []string      `json:"errors,omitempty"`
}

type namedClearer struct {
	name    string
	clearer Clearer
}

// ResetCoordinator runs the reset sequence, at most one at a time.
type ResetCoordinator struct {
	overlay  Refresher
	quiesce  time.Duration
	log      *logger.Logger
	clearers []namedClearer

	mu      sync.Mutex
	running bool
	last    *ResetResult
}

// NewResetCoordinator creates a coordinator that waits quiesce between
// clearing state and refreshing the overlay.
func NewResetCoordinator(overlay Refresher, quiesce time.Duration, log *logger.Logger) *ResetCoordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &ResetCoordinator{
		overlay: overlay,
		quiesce: quiesce,
		log:     log.Named("reset"),
	}
}

// Register adds a clearer to run, in registration order, at the start of
// every reset. It must be called before the first Reset.
func (c *ResetCoordinator) Register(name string, clearer Clearer) {
	c.clearers = append(c.clearers, namedClearer{name: name, clearer: clearer})
}

// InProgress reports whether a reset sequence is currently running.
func (c *ResetCoordinator) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// LastResult returns the most recent completed run, if any.
func (c *ResetCoordinator) LastResult() (ResetResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return ResetResult{}, false
	}
	return *c.last, true
}

// Reset clears registered state, waits out the quiesce interval, hides
// transient reveals and requests a content refresh, in that order.
//
// A call made while another reset is running returns immediately with
// Rejected set and no error. Clearer failures do not stop the sequence;
// they are joined into the returned error. The in-progress guard is always
// released, so a failed reset never blocks the next one.
func (c *ResetCoordinator) Reset(ctx context.Context) (result ResetResult, err error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.log.Warn("reset already in progress, ignoring request")
		metrics.ResetsTotal.WithLabelValues("rejected").Inc()
		return ResetResult{Rejected: true, StartedAt: time.Now()}, nil
	}
	c.running = true
	c.mu.Unlock()

	result = ResetResult{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := c.log.With("run_id", result.RunID)

	var errs []error
	defer func() {
		result.FinishedAt = time.Now()
		result.Duration = result.FinishedAt.Sub(result.StartedAt)

		c.mu.Lock()
		c.running = false
		c.last = &result
		c.mu.Unlock()
	}()

	log.Info("reset started")

	for _, nc := range c.clearers {
		if err := runClearer(ctx, nc.clearer); err != nil {
			log.Error("clear failed", "step", nc.name, "error", err)
			errs = append(errs, fmt.Errorf("clear %s: %w", nc.name, err))
			result.Errors = append(result.Errors, err.Error())
		}
	}

	// Quiesce even when nothing was cleared; dependent UI may still be animating.
	time.Sleep(c.quiesce)

	c.overlay.HideTransientReveals()
	c.overlay.UpdateContent(false)

	err = errors.Join(errs...)
	if err != nil {
		metrics.ResetsTotal.WithLabelValues("failed").Inc()
		log.Warn("reset finished with errors", "errors", len(errs))
	} else {
		metrics.ResetsTotal.WithLabelValues("completed").Inc()
		log.Info("reset finished", "duration", time.Since(result.StartedAt))
	}
	metrics.ResetDuration.Observe(time.Since(result.StartedAt).Seconds())
	return result, err
}

// runClearer calls clearer.Clear, turning a panic into an error.
func runClearer(ctx context.Context, clearer Clearer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return clearer.Clear(ctx)
}
