package flick

import (
	"math"
	"time"
)

// sessionState is the recognition session state. The machine starts idle,
// cycles through recognizing and at most one active gesture kind, and
// returns to idle whenever the active contact set empties.
type sessionState uint8

const (
	sessionIdle sessionState = iota
	sessionRecognizing
	sessionPan
	sessionSwipe
	sessionPinch
	sessionLongPress
)

// pinchSession holds the bookkeeping snapshotted when a second contact
// arrives. The pair is pinned to the two contact IDs it started with;
// contacts beyond the pair never join it. tracking goes false once the
// pinch loses a pair member; a returning second contact re-arms it from
// scratch.
type pinchSession struct {
	tracking      bool
	ids           [2]ContactID
	startDist     float64
	prevDist      float64
	initialCenter Vec2
	startAngle    float64
	prevAngle     float64
}

func (p *pinchSession) member(id ContactID) bool {
	return id == p.ids[0] || id == p.ids[1]
}

// swipeCandidate is the latest classification of a fast or long
// one-contact movement, refreshed on every move and emitted on release.
type swipeCandidate struct {
	direction SwipeDirection
	distance  float64
	velocity  float64
}

// pendingTap remembers a completed tap so a second one inside the
// double-tap window upgrades to a double-tap.
type pendingTap struct {
	valid bool
	pos   Vec2
	at    time.Time
}

// Recognizer classifies contact movement into gestures and delivers them
// synchronously to registered handlers. It owns a Tracker fed through the
// Contact* methods; hosts with their own tracking can still only reach
// session state through these methods, which keeps exactly one logical
// owner for the active gesture.
//
// All methods must be called from a single goroutine (the host's event or
// frame loop).
type Recognizer struct {
	tracker  *Tracker
	opts     Options
	viewport Vec2
	handlers handlerRegistry

	state    sessionState
	pinch    pinchSession
	swipe    swipeCandidate
	lastTap  pendingTap
	resetFns []func()
}

// NewRecognizer creates a Recognizer for a surface of the given pixel
// dimensions. The viewport size scales the swipe distance threshold.
func NewRecognizer(viewportW, viewportH float64, opts Options) *Recognizer {
	return &Recognizer{
		tracker:  NewTracker(),
		opts:     opts,
		viewport: Vec2{viewportW, viewportH},
	}
}

// SetViewport updates the surface dimensions, e.g. after a window resize.
func (r *Recognizer) SetViewport(w, h float64) {
	r.viewport = Vec2{w, h}
}

// Tracker exposes the underlying contact tracker for inspection.
func (r *Recognizer) Tracker() *Tracker {
	return r.tracker
}

// ContactStart ingests a contact-start sample. The first contact opens a
// recognition session; a second escalates it to a pinch; further contacts
// are ignored until the session resets.
func (r *Recognizer) ContactStart(id ContactID, x, y float64, at time.Time) {
	r.tracker.Begin(id, x, y, at)

	switch r.tracker.Count() {
	case 1:
		if r.state == sessionIdle {
			r.state = sessionRecognizing
		}
	case 2:
		r.beginPinch()
	}
}

// beginPinch snapshots pinch bookkeeping from the two earliest contacts.
// Called eagerly on reaching two contacts, including a rapid 2→1→2
// transition, which restarts the bookkeeping abruptly.
func (r *Recognizer) beginPinch() {
	a, b := r.tracker.Pair()
	if a == nil {
		return
	}
	dist := a.Pos.Dist(b.Pos)
	angle := math.Atan2(b.Pos.Y-a.Pos.Y, b.Pos.X-a.Pos.X)
	r.pinch = pinchSession{
		tracking:      true,
		ids:           [2]ContactID{a.ID, b.ID},
		startDist:     dist,
		prevDist:      dist,
		initialCenter: Vec2{(a.Pos.X + b.Pos.X) / 2, (a.Pos.Y + b.Pos.Y) / 2},
		startAngle:    angle,
		prevAngle:     angle,
	}
	r.state = sessionPinch
}

// ContactMove ingests a contact-move sample and runs classification.
// Moves for unknown IDs are ignored.
func (r *Recognizer) ContactMove(id ContactID, x, y float64, at time.Time) {
	c := r.tracker.Get(id)
	if c == nil {
		return
	}
	r.tracker.Move(id, x, y, at)

	switch {
	case r.state == sessionPinch:
		if r.pinch.tracking && r.tracker.Count() >= 2 && r.pinch.member(id) {
			r.pinchMove()
		}
	case r.tracker.Count() == 1:
		r.singleContactMove(c)
	}
}

// pinchMove emits a Pinch event from the current two-contact geometry.
func (r *Recognizer) pinchMove() {
	a, b := r.tracker.Pair()
	dist := a.Pos.Dist(b.Pos)
	angle := math.Atan2(b.Pos.Y-a.Pos.Y, b.Pos.X-a.Pos.X)

	scale := 1.0
	if r.pinch.startDist > 0 {
		scale = dist / r.pinch.startDist
	}
	deltaScale := 1.0
	if r.pinch.prevDist > 0 {
		deltaScale = dist / r.pinch.prevDist
	}

	r.firePinch(PinchEvent{
		Scale:         scale,
		DeltaScale:    deltaScale,
		Center:        Vec2{(a.Pos.X + b.Pos.X) / 2, (a.Pos.Y + b.Pos.Y) / 2},
		InitialCenter: r.pinch.initialCenter,
		Rotation:      angle - r.pinch.startAngle,
		RotDelta:      angle - r.pinch.prevAngle,
	})

	r.pinch.prevDist = dist
	r.pinch.prevAngle = angle
}

// singleContactMove classifies a one-contact move into swipe candidate or
// pan. Below the movement threshold the session stays ambiguous: it could
// still resolve to a tap on release.
func (r *Recognizer) singleContactMove(c *Contact) {
	switch r.state {
	case sessionRecognizing, sessionPan, sessionSwipe:
	default:
		return
	}

	disp := c.Displacement()
	if r.state == sessionRecognizing && math.Hypot(disp.X, disp.Y) < r.opts.MoveThreshold {
		return
	}

	// Classify by whichever axis dominates. Distance OR velocity alone
	// qualifies as a swipe, which favors fast flicks over short distances.
	axisDelta, axisVel := disp.X, c.Velocity.X
	threshold := r.opts.SwipeDistanceFrac * r.viewport.X
	horizontal := math.Abs(disp.X) >= math.Abs(disp.Y)
	if !horizontal {
		axisDelta, axisVel = disp.Y, c.Velocity.Y
		threshold = r.opts.SwipeDistanceFrac * r.viewport.Y
	}
	qualifies := math.Abs(axisDelta) > threshold || math.Abs(axisVel) > r.opts.SwipeVelocity

	if r.state == sessionSwipe || qualifies {
		r.state = sessionSwipe
		r.swipe = swipeCandidate{
			direction: swipeDirectionOf(horizontal, axisDelta),
			distance:  math.Abs(axisDelta),
			velocity:  math.Abs(axisVel),
		}
		return
	}

	r.state = sessionPan
	r.firePan(PanEvent{
		DeltaX:    disp.X,
		DeltaY:    disp.Y,
		VelocityX: c.Velocity.X,
		VelocityY: c.Velocity.Y,
	})
}

func swipeDirectionOf(horizontal bool, delta float64) SwipeDirection {
	if horizontal {
		if delta < 0 {
			return SwipeLeft
		}
		return SwipeRight
	}
	if delta < 0 {
		return SwipeUp
	}
	return SwipeDown
}

// ContactEnd ingests a contact-end sample. When the last contact lifts,
// the session resolves to tap, double-tap, swipe, or pan-end and resets.
func (r *Recognizer) ContactEnd(id ContactID, at time.Time) {
	c := r.tracker.Get(id)
	if c == nil {
		return
	}
	released := *c
	r.tracker.End(id)
	remaining := r.tracker.Count()

	if r.state == sessionPinch {
		if r.pinch.tracking && r.pinch.member(id) {
			r.firePinchEnd()
			r.pinch.tracking = false
			// With another contact still waiting, the pinch re-arms
			// around the new pair, the same way a returning second
			// contact restarts the bookkeeping.
			if remaining >= 2 {
				r.beginPinch()
			}
		}
		if remaining == 0 {
			r.resetSession()
		}
		return
	}

	if remaining > 0 {
		return
	}

	switch r.state {
	case sessionRecognizing:
		r.classifyRelease(&released, at)
	case sessionSwipe:
		r.fireSwipe(SwipeEvent{
			Direction: r.swipe.direction,
			Distance:  r.swipe.distance,
			Velocity:  r.swipe.velocity,
		})
	case sessionPan:
		r.firePanEnd(PanEndEvent{
			VelocityX: released.Velocity.X,
			VelocityY: released.Velocity.Y,
		})
	}
	r.resetSession()
}

// classifyRelease handles a release while still ambiguous: a short, quick
// contact is a tap (or double-tap); anything else never crossed the
// movement threshold and produces no gesture.
func (r *Recognizer) classifyRelease(c *Contact, at time.Time) {
	disp := c.Displacement()
	if math.Hypot(disp.X, disp.Y) >= r.opts.MoveThreshold {
		return
	}
	if at.Sub(c.StartTime) >= r.opts.TapDuration {
		return
	}

	if r.lastTap.valid &&
		at.Sub(r.lastTap.at) <= r.opts.DoubleTapWindow &&
		c.Pos.Dist(r.lastTap.pos) <= 2*r.opts.MoveThreshold {
		// Clear the memory so a third tap in the window starts over.
		r.lastTap = pendingTap{}
		r.fireDoubleTap(DoubleTapEvent{X: c.Pos.X, Y: c.Pos.Y})
		return
	}

	r.lastTap = pendingTap{valid: true, pos: c.Pos, at: at}
	r.fireTap(TapEvent{X: c.Pos.X, Y: c.Pos.Y})
}

// ContactCancel aborts the session: all contacts are dropped and no end
// events fire. A completed prior tap still counts toward a double-tap.
func (r *Recognizer) ContactCancel() {
	r.tracker.Cancel()
	r.resetSession()
}

// Tick polls time-based recognition. The host calls it once per frame; a
// single still contact held past the long-press duration fires LongPress
// exactly once and consumes the session, so the eventual release produces
// no tap.
func (r *Recognizer) Tick(now time.Time) {
	if r.state != sessionRecognizing || r.tracker.Count() != 1 {
		return
	}
	c := r.tracker.First()
	disp := c.Displacement()
	if math.Hypot(disp.X, disp.Y) >= r.opts.MoveThreshold {
		return
	}
	held := now.Sub(c.StartTime)
	if held < r.opts.LongPressDuration {
		return
	}
	r.state = sessionLongPress
	r.fireLongPress(LongPressEvent{X: c.Pos.X, Y: c.Pos.Y, Duration: held})
}

// onSessionReset registers a hook invoked whenever the recognition
// session closes, including sessions that end without their own end
// event (a pan upgraded to swipe, cancelled contacts). Consumers use
// it to drop per-session bookkeeping.
func (r *Recognizer) onSessionReset(fn func()) {
	r.resetFns = append(r.resetFns, fn)
}

func (r *Recognizer) resetSession() {
	r.state = sessionIdle
	r.pinch = pinchSession{}
	r.swipe = swipeCandidate{}
	for _, fn := range r.resetFns {
		fn()
	}
}
