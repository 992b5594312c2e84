package flick

import "time"

// ContactID identifies a single touch or pointer engagement. The host
// runtime guarantees the ID is stable for the lifetime of the physical
// contact; IDs may be reused after the contact ends.
type ContactID int64

// Contact is the kinematic record for one tracked contact. Records are
// owned by the Tracker; the recognizer reads them but never mutates.
type Contact struct {
	ID        ContactID
	Start     Vec2 // position at contact start
	Pos       Vec2 // most recent sampled position
	Prev      Vec2 // position at the immediately preceding sample
	StartTime time.Time
	LastTime  time.Time
	// Velocity is the instantaneous velocity in pixels per millisecond,
	// computed from the two most recent samples.
	Velocity Vec2
}

// Displacement returns the vector from the contact's start position to its
// current position.
func (c *Contact) Displacement() Vec2 {
	return c.Pos.Sub(c.Start)
}

// Duration returns the elapsed time from contact start to the most recent
// sample.
func (c *Contact) Duration() time.Duration {
	return c.LastTime.Sub(c.StartTime)
}

// Tracker maintains authoritative per-contact state from raw contact
// lifecycle samples. It emits nothing and has no knowledge of gestures;
// malformed sequences (moves or ends for unknown IDs) are ignored.
type Tracker struct {
	contacts map[ContactID]*Contact
	order    []ContactID // insertion order, for stable two-contact pairing
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{contacts: make(map[ContactID]*Contact)}
}

// Begin inserts a new contact at (x, y). A duplicate ID overwrites the
// prior record; the host runtime should never deliver one, but a stale
// record must not poison a new physical contact.
func (t *Tracker) Begin(id ContactID, x, y float64, at time.Time) {
	if _, exists := t.contacts[id]; exists {
		t.remove(id)
	}
	t.contacts[id] = &Contact{
		ID:        id,
		Start:     Vec2{x, y},
		Pos:       Vec2{x, y},
		Prev:      Vec2{x, y},
		StartTime: at,
		LastTime:  at,
	}
	t.order = append(t.order, id)
}

// Move updates the contact's position and recomputes velocity from the
// preceding sample. Unknown IDs are a no-op (out-of-order delivery). A
// zero time delta updates position but skips the velocity computation.
func (t *Tracker) Move(id ContactID, x, y float64, at time.Time) {
	c, ok := t.contacts[id]
	if !ok {
		return
	}
	dt := float64(at.Sub(c.LastTime)) / float64(time.Millisecond)
	if dt > 0 {
		c.Velocity = Vec2{(x - c.Pos.X) / dt, (y - c.Pos.Y) / dt}
	}
	c.Prev = c.Pos
	c.Pos = Vec2{x, y}
	c.LastTime = at
}

// End removes the contact. Unknown IDs are a no-op.
func (t *Tracker) End(id ContactID) {
	t.remove(id)
}

// Cancel removes all contacts at once. The recognizer treats this as an
// unconditional session abort.
func (t *Tracker) Cancel() {
	clear(t.contacts)
	t.order = t.order[:0]
}

// Get returns the contact for id, or nil if it is not tracked.
func (t *Tracker) Get(id ContactID) *Contact {
	return t.contacts[id]
}

// Count returns the number of active contacts.
func (t *Tracker) Count() int {
	return len(t.contacts)
}

// First returns the earliest-started active contact, or nil if none.
func (t *Tracker) First() *Contact {
	if len(t.order) == 0 {
		return nil
	}
	return t.contacts[t.order[0]]
}

// Pair returns the two earliest-started active contacts in start order.
// Both are nil unless at least two contacts are active.
func (t *Tracker) Pair() (*Contact, *Contact) {
	if len(t.order) < 2 {
		return nil, nil
	}
	return t.contacts[t.order[0]], t.contacts[t.order[1]]
}

func (t *Tracker) remove(id ContactID) {
	if _, ok := t.contacts[id]; !ok {
		return
	}
	delete(t.contacts, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}
