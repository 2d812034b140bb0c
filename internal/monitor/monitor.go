// Package monitor watches the game client and drives the overlay through the
// game's lifecycle: shown while the client is up, reset once when it exits.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/codyseavey/deck-overlay/internal/game"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metrics"
)

// Probe reports whether the game window currently exists. It must be cheap
// and free of side effects; an error counts as absent.
type Probe interface {
	WindowPresent() (bool, error)
}

// Overlay receives lifecycle notifications. Calls must not block.
type Overlay interface {
	Reposition()
	Show(visible bool)
	UpdateContent(full bool)
	HideTransientReveals()
	HideRestartWarning()
}

// DefaultInterval is the polling period used when none is given.
const DefaultInterval = 100 * time.Millisecond

// State is the monitor's view of the game client.
type State int32

const (
	NotRunning State = iota
	Running
	ExitPending
	Resetting
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "not_running"
	case Running:
		return "running"
	case ExitPending:
		return "exit_pending"
	case Resetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Status is a point-in-time copy of the monitor's observable state.
type Status struct {
	State           string `json:"state"`
	Region          string `json:"region"`
	InMenu          bool   `json:"in_menu"`
	PendingPlayer   int    `json:"pending_player_updates"`
	PendingOpponent int    `json:"pending_opponent_updates"`
	LastResetError  string `json:"last_reset_error,omitempty"`
	Stopped         bool   `json:"stopped"`
}

// Monitor polls a Probe and keeps the presence state machine. All
// transitions happen on the polling goroutine; the reset sequence runs
// inline, so no probe is issued while a reset is in flight.
type Monitor struct {
	probe    Probe
	overlay  Overlay
	resets   *ResetCoordinator
	interval time.Duration
	log      *logger.Logger

	mu           sync.RWMutex
	state        State
	region       game.Region
	inMenu       bool
	pending      [2]int
	lastResetErr error
	onTransition func(from, to State)

	lifeMu      sync.Mutex
	started     bool
	stopped     bool
	stopCh      chan struct{}
	done        chan struct{}
	canShutdown atomic.Bool

	probeWarn rate.Sometimes
}

// New creates a monitor that polls every interval once started. A
// non-positive interval falls back to DefaultInterval.
func New(probe Probe, overlay Overlay, resets *ResetCoordinator, interval time.Duration, log *logger.Logger) *Monitor {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		probe:     probe,
		overlay:   overlay,
		resets:    resets,
		interval:  interval,
		log:       log.Named("monitor"),
		inMenu:    true,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		probeWarn: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

// OnTransition registers a hook called after every state change. It runs
// on the polling goroutine and must return quickly.
func (m *Monitor) OnTransition(fn func(from, to State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// Start begins polling. Calling it again, or after Stop, does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.started || m.stopped {
		return
	}
	m.started = true
	m.log.Info("lifecycle monitor started", "interval", m.interval)
	go m.loop(ctx)
}

// Stop asks the loop to exit after its current iteration, including any
// reset in progress. It is safe to call at any time and more than once;
// wait on Done to learn when the loop has actually exited.
func (m *Monitor) Stop() {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	close(m.stopCh)
	if !m.started {
		m.finish()
	}
}

// Done is closed once the polling loop has exited.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// CanShutdown reports whether the loop has exited.
func (m *Monitor) CanShutdown() bool {
	return m.canShutdown.Load()
}

func (m *Monitor) finish() {
	m.canShutdown.Store(true)
	close(m.done)
}

func (m *Monitor) loop(ctx context.Context) {
	defer func() {
		m.log.Info("lifecycle monitor stopped")
		m.finish()
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Step(ctx)
		}
	}
}

// Step runs one polling iteration synchronously and returns the resulting state.
func (m *Monitor) Step(ctx context.Context) State {
	present, err := m.probe.WindowPresent()
	if err != nil {
		metrics.ProbeFailures.Inc()
		m.probeWarn.Do(func() {
			m.log.Warn("presence probe failed, treating game as absent", "error", err)
		})
		present = false
	}

	switch state := m.State(); {
	case present && state == NotRunning:
		m.transition(NotRunning, Running)
		m.overlay.Reposition()
		m.overlay.Show(true)
		m.takePending()
		m.overlay.UpdateContent(true)
	case present && state == Running:
		m.overlay.Reposition()
		if m.takePending() > 0 {
			m.overlay.UpdateContent(false)
		}
	case !present && state == Running:
		m.handleExit(ctx)
	}
	return m.State()
}

func (m *Monitor) handleExit(ctx context.Context) {
	m.transition(Running, ExitPending)
	m.transition(ExitPending, Resetting)
	m.overlay.Show(false)

	m.mu.Lock()
	m.region = game.RegionUnknown
	m.inMenu = false
	m.mu.Unlock()

	result, err := m.resets.Reset(ctx)
	switch {
	case err != nil:
		m.log.Error("reset after game exit failed", "run_id", result.RunID, "error", err)
	case result.Rejected:
		m.log.Info("game exited while a reset was already running")
	}

	m.mu.Lock()
	m.lastResetErr = err
	m.inMenu = true
	m.pending = [2]int{}
	m.mu.Unlock()

	m.overlay.HideRestartWarning()
	m.transition(Resetting, NotRunning)
}

func (m *Monitor) transition(from, to State) {
	m.mu.Lock()
	m.state = to
	hook := m.onTransition
	m.mu.Unlock()

	metrics.MonitorState.Set(float64(to))
	metrics.MonitorTransitions.WithLabelValues(from.String(), to.String()).Inc()
	m.log.Debug("state transition", "from", from, "to", to)
	if hook != nil {
		hook(from, to)
	}
}

func (m *Monitor) takePending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.pending[game.Player] + m.pending[game.Opponent]
	m.pending = [2]int{}
	return n
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Monitor) IsRunning() bool {
	return m.State() == Running
}

func (m *Monitor) CurrentRegion() game.Region {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.region
}

func (m *Monitor) SetRegion(r game.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.region = r
}

func (m *Monitor) IsInMenu() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inMenu
}

func (m *Monitor) SetInMenu(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inMenu = v
}

// RequestUpdate asks for a content update for side on the next poll while
// the game is running.
func (m *Monitor) RequestUpdate(side game.Side) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[side]++
}

// PendingUpdates returns the queued update requests per side.
func (m *Monitor) PendingUpdates() (player, opponent int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending[game.Player], m.pending[game.Opponent]
}

// LastResetError is the error from the most recent reset triggered by a game exit.
func (m *Monitor) LastResetError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastResetErr
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Status{
		State:           m.state.String(),
		Region:          m.region.String(),
		InMenu:          m.inMenu,
		PendingPlayer:   m.pending[game.Player],
		PendingOpponent: m.pending[game.Opponent],
		Stopped:         m.CanShutdown(),
	}
	if m.lastResetErr != nil {
		s.LastResetError = m.lastResetErr.Error()
	}
	return s
}
