package flick

import "time"

// GestureType identifies the kind of gesture a handler registration covers.
type GestureType uint8

const (
	GesturePinch GestureType = iota
	GesturePinchEnd
	GesturePan
	GesturePanEnd
	GestureSwipe
	GestureTap
	GestureDoubleTap
	GestureLongPress
)

// SwipeDirection is the dominant axis direction of a recognized swipe.
type SwipeDirection uint8

const (
	SwipeUp SwipeDirection = iota
	SwipeDown
	SwipeLeft
	SwipeRight
)

// String returns the lowercase name of the direction.
func (d SwipeDirection) String() string {
	switch d {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	}
	return "unknown"
}

// PinchEvent is emitted on every two-contact move while a pinch is active.
// Scale is relative to the distance at pinch start; DeltaScale is relative
// to the previous sample. Rotation is the angle between the two contacts
// relative to pinch start, in radians; RotDelta is per-sample.
type PinchEvent struct {
	Scale         float64
	DeltaScale    float64
	Center        Vec2
	InitialCenter Vec2
	Rotation      float64
	RotDelta      float64
}

// PanEvent is emitted on every qualifying one-contact move. Deltas are
// relative to the gesture start position, not the previous sample.
// Velocity is instantaneous, in pixels per millisecond.
type PanEvent struct {
	DeltaX, DeltaY       float64
	VelocityX, VelocityY float64
}

// PanEndEvent carries the release velocity of a completed pan, suitable
// for feeding Controller.StartMomentum.
type PanEndEvent struct {
	VelocityX, VelocityY float64
}

// SwipeEvent is emitted once when a fast or long one-contact movement is
// released. Distance is the total displacement along the dominant axis;
// Velocity is the release velocity along that axis, in pixels per
// millisecond.
type SwipeEvent struct {
	Direction SwipeDirection
	Distance  float64
	Velocity  float64
}

// TapEvent is a quick press and release without significant movement.
type TapEvent struct {
	X, Y float64
}

// DoubleTapEvent is two taps within the double-tap window and distance.
type DoubleTapEvent struct {
	X, Y float64
}

// LongPressEvent fires while the contact is still pressed, once it has
// been held without significant movement for the long-press duration.
type LongPressEvent struct {
	X, Y     float64
	Duration time.Duration
}

// --- Handler registry ---

type pinchHandler struct {
	id uint32
	fn func(PinchEvent)
}

type pinchEndHandler struct {
	id uint32
	fn func()
}

type panHandler struct {
	id uint32
	fn func(PanEvent)
}

type panEndHandler struct {
	id uint32
	fn func(PanEndEvent)
}

type swipeHandler struct {
	id uint32
	fn func(SwipeEvent)
}

type tapHandler struct {
	id uint32
	fn func(TapEvent)
}

type doubleTapHandler struct {
	id uint32
	fn func(DoubleTapEvent)
}

type longPressHandler struct {
	id uint32
	fn func(LongPressEvent)
}

type handlerRegistry struct {
	pinch     []pinchHandler
	pinchEnd  []pinchEndHandler
	pan       []panHandler
	panEnd    []panEndHandler
	swipe     []swipeHandler
	tap       []tapHandler
	doubleTap []doubleTapHandler
	longPress []longPressHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered gesture callback.
type CallbackHandle struct {
	id      uint32
	reg     *handlerRegistry
	gesture GestureType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.gesture {
	case GesturePinch:
		h.reg.pinch = removeHandler(h.reg.pinch, h.id, func(e pinchHandler) uint32 { return e.id })
	case GesturePinchEnd:
		h.reg.pinchEnd = removeHandler(h.reg.pinchEnd, h.id, func(e pinchEndHandler) uint32 { return e.id })
	case GesturePan:
		h.reg.pan = removeHandler(h.reg.pan, h.id, func(e panHandler) uint32 { return e.id })
	case GesturePanEnd:
		h.reg.panEnd = removeHandler(h.reg.panEnd, h.id, func(e panEndHandler) uint32 { return e.id })
	case GestureSwipe:
		h.reg.swipe = removeHandler(h.reg.swipe, h.id, func(e swipeHandler) uint32 { return e.id })
	case GestureTap:
		h.reg.tap = removeHandler(h.reg.tap, h.id, func(e tapHandler) uint32 { return e.id })
	case GestureDoubleTap:
		h.reg.doubleTap = removeHandler(h.reg.doubleTap, h.id, func(e doubleTapHandler) uint32 { return e.id })
	case GestureLongPress:
		h.reg.longPress = removeHandler(h.reg.longPress, h.id, func(e longPressHandler) uint32 { return e.id })
	}
}

func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Registration ---

// OnPinch registers a callback for pinch move events.
func (r *Recognizer) OnPinch(fn func(PinchEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.pinch = append(r.handlers.pinch, pinchHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GesturePinch}
}

// OnPinchEnd registers a callback fired when a pinch loses its second
// contact. It does not fire on cancel.
func (r *Recognizer) OnPinchEnd(fn func()) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.pinchEnd = append(r.handlers.pinchEnd, pinchEndHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GesturePinchEnd}
}

// OnPan registers a callback for pan move events.
func (r *Recognizer) OnPan(fn func(PanEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.pan = append(r.handlers.pan, panHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GesturePan}
}

// OnPanEnd registers a callback fired when a pan's contact is released.
// It does not fire on cancel.
func (r *Recognizer) OnPanEnd(fn func(PanEndEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.panEnd = append(r.handlers.panEnd, panEndHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GesturePanEnd}
}

// OnSwipe registers a callback for swipe events.
func (r *Recognizer) OnSwipe(fn func(SwipeEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.swipe = append(r.handlers.swipe, swipeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GestureSwipe}
}

// OnTap registers a callback for tap events.
func (r *Recognizer) OnTap(fn func(TapEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.tap = append(r.handlers.tap, tapHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GestureTap}
}

// OnDoubleTap registers a callback for double-tap events.
func (r *Recognizer) OnDoubleTap(fn func(DoubleTapEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.doubleTap = append(r.handlers.doubleTap, doubleTapHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GestureDoubleTap}
}

// OnLongPress registers a callback for long-press events.
func (r *Recognizer) OnLongPress(fn func(LongPressEvent)) CallbackHandle {
	r.handlers.nextID++
	id := r.handlers.nextID
	r.handlers.longPress = append(r.handlers.longPress, longPressHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &r.handlers, gesture: GestureLongPress}
}

// --- Dispatch ---
//
// Delivery is synchronous and in registration order, within the event
// handler that triggered recognition.

func (r *Recognizer) firePinch(e PinchEvent) {
	for _, h := range r.handlers.pinch {
		h.fn(e)
	}
}

func (r *Recognizer) firePinchEnd() {
	for _, h := range r.handlers.pinchEnd {
		h.fn()
	}
}

func (r *Recognizer) firePan(e PanEvent) {
	for _, h := range r.handlers.pan {
		h.fn(e)
	}
}

func (r *Recognizer) firePanEnd(e PanEndEvent) {
	for _, h := range r.handlers.panEnd {
		h.fn(e)
	}
}

func (r *Recognizer) fireSwipe(e SwipeEvent) {
	for _, h := range r.handlers.swipe {
		h.fn(e)
	}
}

func (r *Recognizer) fireTap(e TapEvent) {
	for _, h := range r.handlers.tap {
		h.fn(e)
	}
}

func (r *Recognizer) fireDoubleTap(e DoubleTapEvent) {
	for _, h := range r.handlers.doubleTap {
		h.fn(e)
	}
}

func (r *Recognizer) fireLongPress(e LongPressEvent) {
	for _, h := range r.handlers.longPress {
		h.fn(e)
	}
}
