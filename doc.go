// Package flick recognizes touch gestures and drives an interactive
// zoom/pan transform for a single visual surface, such as the photo or
// video area of a media viewer.
//
// The package has three cooperating parts. A [Tracker] ingests raw contact
// lifecycle samples (start/move/end/cancel) and maintains per-contact
// position and velocity. A [Recognizer] classifies one- and two-contact
// movement into pinch, pan, swipe, tap, double-tap, and long-press
// gestures and delivers them synchronously to registered handlers. A
// [Controller] consumes those gestures to maintain a clamped zoom level
// and pan offset, with post-release momentum decay, rubber-banded edges,
// and eased zoom animation (via [gween]).
//
// # Quick start
//
// Bind a [Surface] to wire everything to an Ebitengine game loop:
//
//	surface := flick.NewSurface(640, 480, flick.DefaultOptions())
//	surface.OnSwipe(func(e flick.SwipeEvent) {
//		// e.Direction is flick.SwipeLeft, flick.SwipeRight, ...
//	})
//
//	func (g *Game) Update() error { surface.Update(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image) {
//		surface.Draw(screen, g.photo, nil)
//	}
//
// Hosts with their own input plumbing can drive the pieces directly: feed
// contact samples to a [Recognizer], step the [Controller] with
// [Controller.Update] once per frame, and paint using
// [Controller.Transform]. Nothing in the core depends on a real display;
// tests advance time synthetically.
//
// # Gesture semantics
//
// Exactly one recognition session is active at a time. Two contacts begin a
// pinch immediately; a single contact stays ambiguous until it either moves
// past a small threshold (pan or swipe, by dominant axis, with fast flicks
// winning over short distances), is held still long enough (long-press), or
// is released quickly (tap, or double-tap when a second tap lands inside
// the double-tap window). A contact-cancel aborts the session outright:
// no end events fire and the caller should treat it as "nothing happened".
//
// [gween]: https://github.com/tanema/gween
package flick
