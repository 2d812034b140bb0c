// Package overlay is the boundary to whatever draws the overlay. Lifecycle
// notifications are recorded and fanned out as events; nothing here blocks.
package overlay

import (
	"sync"
	"time"
)

// EventKind names an overlay notification.
type EventKind string

const (
	EventReposition         EventKind = "reposition"
	EventShow               EventKind = "show"
	EventHide               EventKind = "hide"
	EventUpdateContent      EventKind = "update_content"
	EventHideReveals        EventKind = "hide_reveals"
	EventShowRestartWarning EventKind = "show_restart_warning"
	EventHideRestartWarning EventKind = "hide_restart_warning"
)

// Event is delivered to subscribers for every notification.
type Event struct {
	Kind EventKind `json:"kind"`
	Full bool      `json:"full,omitempty"`
	At   time.Time `json:"at"`
}

// State summarizes what the overlay has been told so far.
type State struct {
	Visible            bool      `json:"visible"`
	RestartWarning     bool      `json:"restart_warning"`
	Repositions        int       `json:"repositions"`
	ContentUpdates     int       `json:"content_updates"`
	FullContentUpdates int       `json:"full_content_updates"`
	RevealsHidden      int       `json:"reveals_hidden"`
	LastEvent          time.Time `json:"last_event"`
}

const subscriberBuffer = 64

// Broadcaster implements the monitor's overlay controller.
type Broadcaster struct {
	mu      sync.Mutex
	state   State
	subs    map[int]chan Event
	nextSub int
	now     func() time.Time
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan Event),
		now:  time.Now,
	}
}

func (b *Broadcaster) Reposition() {
	b.emit(Event{Kind: EventReposition}, func(s *State) { s.Repositions++ })
}

func (b *Broadcaster) Show(visible bool) {
	kind := EventHide
	if visible {
		kind = EventShow
	}
	b.emit(Event{Kind: kind}, func(s *State) { s.Visible = visible })
}

// UpdateContent asks for the overlay content to be refreshed; full redraws
// everything rather than only what changed.
func (b *Broadcaster) UpdateContent(full bool) {
	b.emit(Event{Kind: EventUpdateContent, Full: full}, func(s *State) {
		s.ContentUpdates++
		if full {
			s.FullContentUpdates++
		}
	})
}

// HideTransientReveals hides revealed secrets and similar short-lived elements.
func (b *Broadcaster) HideTransientReveals() {
	b.emit(Event{Kind: EventHideReveals}, func(s *State) { s.RevealsHidden++ })
}

func (b *Broadcaster) ShowRestartWarning() {
	b.emit(Event{Kind: EventShowRestartWarning}, func(s *State) { s.RestartWarning = true })
}

func (b *Broadcaster) HideRestartWarning() {
	b.emit(Event{Kind: EventHideRestartWarning}, func(s *State) { s.RestartWarning = false })
}

// State returns a copy of the current overlay state.
func (b *Broadcaster) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Subscribe returns a channel of events and a cancel func. A subscriber that
// falls behind loses events rather than stalling the monitor.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	key := b.nextSub
	b.nextSub++
	b.subs[key] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, key)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) emit(ev Event, apply func(*State)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev.At = b.now()
	apply(&b.state)
	b.state.LastEvent = ev.At
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
