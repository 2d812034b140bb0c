package card

// Field names a mutable part of a record that changed.
type Field string

const (
	FieldCount       Field = "count"
	FieldInHandCount Field = "in_hand_count"
	FieldCreated     Field = "created"
	FieldDiscarded   Field = "discarded"
	FieldJousted     Field = "jousted"
	FieldResolved    Field = "resolved"
)

// Change is published to subscribers whenever a counter is mutated or the
// record becomes resolved.
type Change struct {
	ID    string
	Field Field
	Value any
}

const defaultSubscriberBuffer = 16

// Subscribe returns a channel of changes and a func that cancels the subscription.
// Delivery never blocks the writer: a subscriber whose buffer is full misses
// the change and is expected to re-read the record.
func (r *Record) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, defaultSubscriberBuffer)

	r.mu.Lock()
	if r.subs == nil {
		r.subs = make(map[int]chan Change)
	}
	key := r.nextSub
	r.nextSub++
	r.subs[key] = ch
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if sub, ok := r.subs[key]; ok {
			delete(r.subs, key)
			close(sub)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Record) publish(c Change) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subs {
		select {
		case sub <- c:
		default:
		}
	}
}
