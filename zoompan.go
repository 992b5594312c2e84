package flick

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnim holds the active eased-zoom tweens for zoom level and offset.
type zoomAnim struct {
	tweenZoom *gween.Tween
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	doneZoom  bool
	doneX     bool
	doneY     bool
}

func (a *zoomAnim) finished() bool {
	return a.doneZoom && a.doneX && a.doneY
}

// Controller owns the rendered transform (zoom level and pan offset) for a
// single visual surface and animates it. At most one animation — eased
// zoom or momentum — is active at a time; starting either cancels the
// other. The host drives it with Update once per frame.
type Controller struct {
	opts            Options
	surfaceW        float64
	surfaceH        float64
	zoom            float64
	offset          Vec2
	gestureBaseZoom float64
	panBaseOffset   Vec2
	zoomCenter      Vec2
	pinchActive     bool
	panActive       bool
	anim            *zoomAnim
	momentumVel     Vec2
	momentumActive  bool
	transformFn     func(zoom, offsetX, offsetY float64)
}

// NewController creates a Controller for a surface of the given pixel
// dimensions, at natural scale with no offset.
func NewController(surfaceW, surfaceH float64, opts Options) *Controller {
	return &Controller{
		opts:            opts,
		surfaceW:        surfaceW,
		surfaceH:        surfaceH,
		zoom:            1,
		gestureBaseZoom: 1,
	}
}

// SetSurfaceSize updates the surface dimensions, e.g. after a resize.
// The offset is re-clamped to the new pan bounds.
func (c *Controller) SetSurfaceSize(w, h float64) {
	c.surfaceW = w
	c.surfaceH = h
	c.clampOffset()
	c.applyTransform()
}

// SetTransformFunc registers the hook invoked after every transform
// mutation and every animation or momentum frame. The host uses it to
// repaint the surface with the current zoom and offset.
func (c *Controller) SetTransformFunc(fn func(zoom, offsetX, offsetY float64)) {
	c.transformFn = fn
}

// Bind wires the controller to a recognizer's pinch, pan, and double-tap
// output, making it the gesture consumer for this surface.
func (c *Controller) Bind(r *Recognizer) {
	r.OnPinch(func(e PinchEvent) { c.ApplyPinch(e.Scale, e.DeltaScale, e.Center) })
	r.OnPinchEnd(func() { c.EndPinch() })
	r.OnPan(func(e PanEvent) { c.ApplyPan(e.DeltaX, e.DeltaY) })
	r.OnPanEnd(func(e PanEndEvent) { c.StartMomentum(e.VelocityX, e.VelocityY) })
	r.OnDoubleTap(func(e DoubleTapEvent) { c.DoubleTapZoom(e.X, e.Y) })
	r.onSessionReset(func() { c.EndGestures() })
}

// ZoomLevel returns the current zoom level.
func (c *Controller) ZoomLevel() float64 {
	return c.zoom
}

// IsZoomed reports whether the surface is zoomed past natural scale.
func (c *Controller) IsZoomed() bool {
	return c.zoom > 1+1e-9
}

// Transform returns the current zoom level and pan offset.
func (c *Controller) Transform() (zoom, offsetX, offsetY float64) {
	return c.zoom, c.offset.X, c.offset.Y
}

// ApplyPinch scales the surface relative to the zoom level at the start of
// the pinch, so a pinch that opens to 1.5x always means "1.5x what I
// started with" no matter how many samples arrive. Cancels any running
// animation or momentum.
func (c *Controller) ApplyPinch(scale, deltaScale float64, center Vec2) {
	c.cancelAnimations()
	if !c.pinchActive {
		c.pinchActive = true
		c.gestureBaseZoom = c.zoom
		c.zoomCenter = center
	}
	c.zoom = clamp(c.gestureBaseZoom*scale, c.opts.MinZoom, c.opts.MaxZoom)
	c.clampOffset()
	c.applyTransform()
}

// EndPinch closes the pinch session and syncs the gesture base zoom.
func (c *Controller) EndPinch() {
	c.pinchActive = false
	c.gestureBaseZoom = c.zoom
}

// EndGestures closes any in-progress pinch or pan bookkeeping without
// starting momentum. Bind calls it when a recognition session resets, so
// a session that ends without its own end event (a pan that upgraded to
// a swipe, a cancelled contact) does not leave a stale gesture base for
// the next one. Running momentum is left alone.
func (c *Controller) EndGestures() {
	c.pinchActive = false
	c.panActive = false
	c.gestureBaseZoom = c.zoom
}

// ApplyPan moves the surface by a start-relative delta. Panning is
// disallowed at or below natural scale. The offset is clamped per axis to
// the extent the zoomed surface can legally move.
func (c *Controller) ApplyPan(deltaX, deltaY float64) {
	if c.zoom <= 1 {
		return
	}
	c.cancelAnimations()
	if !c.panActive {
		c.panActive = true
		c.panBaseOffset = c.offset
	}
	maxX, maxY := c.maxPan()
	c.offset.X = clamp(c.panBaseOffset.X+deltaX, -maxX, maxX)
	c.offset.Y = clamp(c.panBaseOffset.Y+deltaY, -maxY, maxY)
	c.applyTransform()
}

// StartMomentum begins post-release pan decay from the given velocity.
// Each Update step multiplies the velocity by the friction coefficient and
// advances the offset, stopping once both components fall below the
// minimum threshold. Hitting a pan boundary halves the velocity on that
// axis instead of stopping it, for a rubber-band edge.
func (c *Controller) StartMomentum(velocityX, velocityY float64) {
	c.panActive = false
	if c.zoom <= 1 {
		return
	}
	c.anim = nil
	c.momentumVel = Vec2{velocityX, velocityY}
	c.momentumActive = true
}

// momentumStep advances one discrete decay frame.
func (c *Controller) momentumStep() {
	c.momentumVel.X *= c.opts.FrictionCoefficient
	c.momentumVel.Y *= c.opts.FrictionCoefficient
	c.offset.X += c.momentumVel.X
	c.offset.Y += c.momentumVel.Y

	maxX, maxY := c.maxPan()
	if c.offset.X < -maxX || c.offset.X > maxX {
		c.offset.X = clamp(c.offset.X, -maxX, maxX)
		c.momentumVel.X *= 0.5
	}
	if c.offset.Y < -maxY || c.offset.Y > maxY {
		c.offset.Y = clamp(c.offset.Y, -maxY, maxY)
		c.momentumVel.Y *= 0.5
	}

	if abs(c.momentumVel.X) < c.opts.MinMomentumVelocity &&
		abs(c.momentumVel.Y) < c.opts.MinMomentumVelocity {
		c.momentumActive = false
	}
	c.applyTransform()
}

// AnimateZoomTo starts an eased transition to the target zoom level,
// cancelling any in-flight animation or momentum. When center is non-nil
// and the target zoom is past natural scale, the target offset anchors the
// zoom at that surface point; a target at or below natural scale
// re-centers; otherwise the current offset is re-clamped to the target's
// pan bounds. Completion syncs the gesture base zoom.
func (c *Controller) AnimateZoomTo(targetZoom float64, center *Vec2) {
	c.momentumActive = false
	c.pinchActive = false
	c.panActive = false

	targetZoom = clamp(targetZoom, c.opts.MinZoom, c.opts.MaxZoom)

	var target Vec2
	switch {
	case center != nil && targetZoom > 1:
		// Anchor the zoom at the given point: offset by how far the
		// point sits from the surface center, scaled by the growth.
		relX := (center.X/c.surfaceW)*2 - 1
		relY := (center.Y/c.surfaceH)*2 - 1
		target = Vec2{
			X: -relX * c.surfaceW * (targetZoom - 1) * 0.5,
			Y: -relY * c.surfaceH * (targetZoom - 1) * 0.5,
		}
		c.zoomCenter = *center
	case targetZoom <= 1:
		target = Vec2{}
	default:
		maxX := maxPanExtent(c.surfaceW, targetZoom)
		maxY := maxPanExtent(c.surfaceH, targetZoom)
		target = Vec2{
			X: clamp(c.offset.X, -maxX, maxX),
			Y: clamp(c.offset.Y, -maxY, maxY),
		}
	}

	duration := float32(c.opts.ZoomAnimDuration.Seconds())
	c.anim = &zoomAnim{
		tweenZoom: gween.New(float32(c.zoom), float32(targetZoom), duration, ease.OutCubic),
		tweenX:    gween.New(float32(c.offset.X), float32(target.X), duration, ease.OutCubic),
		tweenY:    gween.New(float32(c.offset.Y), float32(target.Y), duration, ease.OutCubic),
	}
}

// DoubleTapZoom toggles between natural scale and the configured
// double-tap zoom level, anchored at the tap point when zooming in.
func (c *Controller) DoubleTapZoom(x, y float64) {
	if c.IsZoomed() {
		c.AnimateZoomTo(1, nil)
		return
	}
	center := Vec2{x, y}
	c.AnimateZoomTo(c.opts.DoubleTapZoomLevel, &center)
}

// ZoomIn steps the zoom level up by the configured step, animated.
func (c *Controller) ZoomIn() {
	c.AnimateZoomTo(c.zoom*c.opts.ZoomStep, nil)
}

// ZoomOut steps the zoom level down by the configured step, animated.
func (c *Controller) ZoomOut() {
	c.AnimateZoomTo(c.zoom/c.opts.ZoomStep, nil)
}

// FitToScreen animates back to natural scale, centered.
func (c *Controller) FitToScreen() {
	c.AnimateZoomTo(1, nil)
}

// Reset instantly restores natural scale and a centered offset, clearing
// all gesture and animation bookkeeping. Used when the viewer navigates to
// a new item.
func (c *Controller) Reset() {
	c.cancelAnimations()
	c.zoom = 1
	c.offset = Vec2{}
	c.gestureBaseZoom = 1
	c.panBaseOffset = Vec2{}
	c.zoomCenter = Vec2{}
	c.pinchActive = false
	c.panActive = false
	c.applyTransform()
}

// Update advances the active animation by dt seconds, or performs one
// momentum decay step. The host calls it once per frame; it is a no-op
// when nothing is animating.
func (c *Controller) Update(dt float64) {
	switch {
	case c.anim != nil:
		c.animStep(dt)
	case c.momentumActive:
		c.momentumStep()
	}
}

func (c *Controller) animStep(dt float64) {
	a := c.anim
	if !a.doneZoom {
		val, done := a.tweenZoom.Update(float32(dt))
		c.zoom = clamp(float64(val), c.opts.MinZoom, c.opts.MaxZoom)
		a.doneZoom = done
	}
	if !a.doneX {
		val, done := a.tweenX.Update(float32(dt))
		c.offset.X = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(float32(dt))
		c.offset.Y = float64(val)
		a.doneY = done
	}
	if a.finished() {
		c.anim = nil
		c.gestureBaseZoom = c.zoom
	}
	c.applyTransform()
}

func (c *Controller) cancelAnimations() {
	c.anim = nil
	c.momentumActive = false
}

// maxPan returns the per-axis pan extent at the current zoom level.
func (c *Controller) maxPan() (maxX, maxY float64) {
	return maxPanExtent(c.surfaceW, c.zoom), maxPanExtent(c.surfaceH, c.zoom)
}

// maxPanExtent is the distance the center of a zoomed surface may move
// before its edge would pull inside the viewport.
func maxPanExtent(size, zoom float64) float64 {
	extent := (size*zoom - size) / 2
	if extent < 0 {
		return 0
	}
	return extent
}

func (c *Controller) clampOffset() {
	maxX, maxY := c.maxPan()
	c.offset.X = clamp(c.offset.X, -maxX, maxX)
	c.offset.Y = clamp(c.offset.Y, -maxY, maxY)
}

func (c *Controller) applyTransform() {
	if c.transformFn != nil {
		c.transformFn(c.zoom, c.offset.X, c.offset.Y)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
