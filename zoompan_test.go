package flick

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// runToCompletion steps the controller until nothing is animating.
func runToCompletion(t *testing.T, c *Controller) {
	t.Helper()
	const step = 1.0 / 60.0
	for i := 0; i < 10000; i++ {
		if c.anim == nil && !c.momentumActive {
			return
		}
		c.Update(step)
	}
	t.Fatal("controller did not settle within 10000 frames")
}

func newTestController() *Controller {
	return NewController(400, 800, DefaultOptions())
}

func TestControllerDefaults(t *testing.T) {
	c := newTestController()
	if c.ZoomLevel() != 1 {
		t.Errorf("ZoomLevel() = %v, want 1", c.ZoomLevel())
	}
	if c.IsZoomed() {
		t.Error("IsZoomed() = true at natural scale")
	}
	zoom, ox, oy := c.Transform()
	if zoom != 1 || ox != 0 || oy != 0 {
		t.Errorf("Transform() = (%v,%v,%v), want (1,0,0)", zoom, ox, oy)
	}
}

func TestApplyPinchClampsToBounds(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  float64
	}{
		{"within bounds", 1.5, 1.5},
		{"spec example", 1.5, 1.5},
		{"above max", 100, 5.0},
		{"below min", 0.01, 0.5},
		{"exactly max", 5, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController()
			c.ApplyPinch(tt.scale, tt.scale, Vec2{200, 400})
			if !approxEqual(c.ZoomLevel(), tt.want, 1e-9) {
				t.Errorf("zoom = %v, want %v", c.ZoomLevel(), tt.want)
			}
		})
	}
}

func TestApplyPinchRelativeToGestureBase(t *testing.T) {
	c := newTestController()

	// Within one pinch session, scale is relative to the zoom at pinch
	// start, so repeated frames do not compound.
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.ApplyPinch(2, 1, Vec2{200, 400})
	if !approxEqual(c.ZoomLevel(), 2, 1e-9) {
		t.Errorf("zoom = %v after repeated scale 2, want 2", c.ZoomLevel())
	}
	c.ApplyPinch(3, 1.5, Vec2{200, 400})
	if !approxEqual(c.ZoomLevel(), 3, 1e-9) {
		t.Errorf("zoom = %v, want 3", c.ZoomLevel())
	}

	// A new session rebases on the zoom it starts from.
	c.EndPinch()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	if !approxEqual(c.ZoomLevel(), 5, 1e-9) {
		t.Errorf("zoom = %v, want 6 clamped to 5", c.ZoomLevel())
	}
}

func TestApplyPanDisallowedAtNaturalScale(t *testing.T) {
	c := newTestController()
	c.ApplyPan(100, 100)
	if _, ox, oy := c.Transform(); ox != 0 || oy != 0 {
		t.Errorf("offset = (%v,%v) at zoom 1, want (0,0)", ox, oy)
	}
}

func TestApplyPanClampsToBounds(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()

	// At zoom 2 on a 400x800 surface the legal extent is (200, 400).
	c.ApplyPan(10000, -10000)
	_, ox, oy := c.Transform()
	if ox != 200 || oy != -400 {
		t.Errorf("offset = (%v,%v), want clamped (200,-400)", ox, oy)
	}
}

func TestApplyPanStartRelativeDeltas(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()

	// Deltas within one pan session are all relative to the offset at
	// pan start, so they replace rather than accumulate.
	c.ApplyPan(50, 0)
	c.ApplyPan(120, 30)
	_, ox, oy := c.Transform()
	if ox != 120 || oy != 30 {
		t.Errorf("offset = (%v,%v), want (120,30)", ox, oy)
	}
}

func TestMomentumDecaysAndTerminates(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()

	c.StartMomentum(2, 1)
	if !c.momentumActive {
		t.Fatal("momentum not active after StartMomentum")
	}
	runToCompletion(t, c)

	if c.momentumActive {
		t.Error("momentum still active after settling")
	}
	_, ox, oy := c.Transform()
	maxX, maxY := c.maxPan()
	if math.Abs(ox) > maxX || math.Abs(oy) > maxY {
		t.Errorf("offset (%v,%v) escaped bounds (%v,%v)", ox, oy, maxX, maxY)
	}
	if ox <= 0 || oy <= 0 {
		t.Errorf("offset (%v,%v) should have advanced in the velocity direction", ox, oy)
	}
}

func TestMomentumRubberBandsAtBoundary(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()

	// A large velocity slams into the +X boundary; the offset must stop
	// exactly at the extent instead of escaping.
	c.StartMomentum(150, 0)
	runToCompletion(t, c)

	_, ox, _ := c.Transform()
	if !approxEqual(ox, 200, 1e-9) {
		t.Errorf("offset X = %v, want pinned at extent 200", ox)
	}
}

func TestMomentumIgnoredAtNaturalScale(t *testing.T) {
	c := newTestController()
	c.StartMomentum(10, 10)
	if c.momentumActive {
		t.Error("momentum must not start at natural scale")
	}
}

func TestAnimateZoomReachesTarget(t *testing.T) {
	c := newTestController()
	c.AnimateZoomTo(3, nil)
	runToCompletion(t, c)

	if !approxEqual(c.ZoomLevel(), 3, 1e-3) {
		t.Errorf("zoom = %v, want 3", c.ZoomLevel())
	}
	if !approxEqual(c.gestureBaseZoom, 3, 1e-3) {
		t.Errorf("gesture base = %v, want synced to 3", c.gestureBaseZoom)
	}
}

func TestAnimateZoomEaseOutProgress(t *testing.T) {
	c := newTestController()
	c.AnimateZoomTo(3, nil)

	// Half the 300 ms duration: cubic ease-out has covered
	// 1 - (1-0.5)^3 = 87.5% of the distance.
	c.Update(0.15)
	want := 1 + 2*0.875
	if !approxEqual(c.ZoomLevel(), want, 1e-2) {
		t.Errorf("zoom at half duration = %v, want %v", c.ZoomLevel(), want)
	}
}

func TestAnimateZoomAnchoredAtCenter(t *testing.T) {
	c := newTestController()
	center := Vec2{100, 100}
	c.AnimateZoomTo(2.5, &center)
	runToCompletion(t, c)

	// The point (100,100) on a 400x800 surface sits at relative
	// (-0.5, -0.75) from the center, so the target offset is
	// (0.5*400*1.5*0.5, 0.75*800*1.5*0.5) = (150, 450).
	_, ox, oy := c.Transform()
	if !approxEqual(ox, 150, 1e-2) || !approxEqual(oy, 450, 1e-2) {
		t.Errorf("offset = (%v,%v), want (150,450)", ox, oy)
	}
}

func TestDoubleTapZoomToggles(t *testing.T) {
	c := newTestController()

	c.DoubleTapZoom(200, 400)
	runToCompletion(t, c)
	if !approxEqual(c.ZoomLevel(), 2.5, 1e-3) {
		t.Fatalf("zoom after first double-tap = %v, want 2.5", c.ZoomLevel())
	}

	c.DoubleTapZoom(200, 400)
	runToCompletion(t, c)
	if !approxEqual(c.ZoomLevel(), 1, 1e-3) {
		t.Errorf("zoom after second double-tap = %v, want 1", c.ZoomLevel())
	}
	_, ox, oy := c.Transform()
	if !approxEqual(ox, 0, 1e-3) || !approxEqual(oy, 0, 1e-3) {
		t.Errorf("offset = (%v,%v), want recentered", ox, oy)
	}
}

func TestZoomStepsClampAtBounds(t *testing.T) {
	c := newTestController()

	for i := 0; i < 8; i++ {
		c.ZoomIn()
		runToCompletion(t, c)
		if c.ZoomLevel() > 5+1e-3 {
			t.Fatalf("zoom = %v exceeded max after ZoomIn", c.ZoomLevel())
		}
	}
	if !approxEqual(c.ZoomLevel(), 5, 1e-3) {
		t.Errorf("zoom = %v after repeated ZoomIn, want pinned at 5", c.ZoomLevel())
	}

	for i := 0; i < 12; i++ {
		c.ZoomOut()
		runToCompletion(t, c)
		if c.ZoomLevel() < 0.5-1e-3 {
			t.Fatalf("zoom = %v dropped below min after ZoomOut", c.ZoomLevel())
		}
	}
	if !approxEqual(c.ZoomLevel(), 0.5, 1e-3) {
		t.Errorf("zoom = %v after repeated ZoomOut, want pinned at 0.5", c.ZoomLevel())
	}
}

func TestFitToScreen(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(3, 3, Vec2{200, 400})
	c.EndPinch()
	c.ApplyPan(100, 100)

	c.FitToScreen()
	runToCompletion(t, c)

	if !approxEqual(c.ZoomLevel(), 1, 1e-3) {
		t.Errorf("zoom = %v, want 1", c.ZoomLevel())
	}
	_, ox, oy := c.Transform()
	if !approxEqual(ox, 0, 1e-3) || !approxEqual(oy, 0, 1e-3) {
		t.Errorf("offset = (%v,%v), want (0,0)", ox, oy)
	}
}

func TestResetMidAnimation(t *testing.T) {
	c := newTestController()
	c.AnimateZoomTo(3, nil)
	c.Update(0.1)

	c.Reset()
	if c.ZoomLevel() != 1 {
		t.Errorf("zoom = %v after Reset, want 1", c.ZoomLevel())
	}
	_, ox, oy := c.Transform()
	if ox != 0 || oy != 0 {
		t.Errorf("offset = (%v,%v) after Reset, want (0,0)", ox, oy)
	}

	// The cancelled animation must not resume.
	c.Update(0.1)
	if c.ZoomLevel() != 1 {
		t.Errorf("zoom = %v after post-Reset Update, want 1", c.ZoomLevel())
	}
}

func TestResetMidMomentum(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()
	c.StartMomentum(10, 10)
	c.Update(1.0 / 60.0)

	c.Reset()
	if c.momentumActive {
		t.Error("momentum survived Reset")
	}
	if zoom, ox, oy := c.Transform(); zoom != 1 || ox != 0 || oy != 0 {
		t.Errorf("Transform() = (%v,%v,%v) after Reset, want (1,0,0)", zoom, ox, oy)
	}
}

func TestGestureCancelsAnimations(t *testing.T) {
	c := newTestController()
	c.ApplyPinch(2, 2, Vec2{200, 400})
	c.EndPinch()

	c.AnimateZoomTo(4, nil)
	c.StartMomentum(5, 0)
	if c.anim != nil {
		t.Error("starting momentum must cancel the zoom animation")
	}

	c.AnimateZoomTo(4, nil)
	if c.momentumActive {
		t.Error("starting a zoom animation must cancel momentum")
	}

	c.ApplyPinch(1.5, 1, Vec2{200, 400})
	if c.anim != nil || c.momentumActive {
		t.Error("a pinch frame must cancel any running animation")
	}
}

func TestTransformFuncInvoked(t *testing.T) {
	c := newTestController()

	var gotZoom, gotX, gotY float64
	var calls int
	c.SetTransformFunc(func(zoom, ox, oy float64) {
		gotZoom, gotX, gotY = zoom, ox, oy
		calls++
	})

	c.ApplyPinch(2, 2, Vec2{200, 400})
	if calls == 0 {
		t.Fatal("transform func not invoked by ApplyPinch")
	}
	if gotZoom != 2 || gotX != 0 || gotY != 0 {
		t.Errorf("transform = (%v,%v,%v), want (2,0,0)", gotZoom, gotX, gotY)
	}
}

func TestBindWiresRecognizerToController(t *testing.T) {
	r := NewRecognizer(400, 800, DefaultOptions())
	c := newTestController()
	c.Bind(r)

	// Pinch open to 1.5x.
	r.ContactStart(1, 100, 400, at(0))
	r.ContactStart(2, 200, 400, at(10))
	r.ContactMove(2, 250, 400, at(100))
	if !approxEqual(c.ZoomLevel(), 1.5, 1e-9) {
		t.Fatalf("zoom = %v after pinch, want 1.5", c.ZoomLevel())
	}
	r.ContactEnd(2, at(150))
	r.ContactEnd(1, at(160))

	// A slow one-contact drag now pans the zoomed surface.
	r.ContactStart(3, 200, 400, at(300))
	r.ContactMove(3, 220, 400, at(400))
	if _, ox, _ := c.Transform(); !approxEqual(ox, 20, 1e-9) {
		t.Errorf("offset X = %v after drag, want 20", ox)
	}
	r.ContactEnd(3, at(410))
	if !c.momentumActive {
		t.Error("pan release should hand off to momentum")
	}

	// Double-tap back at natural scale starts a zoom animation.
	c.Reset()
	r.ContactStart(4, 200, 400, at(1000))
	r.ContactEnd(4, at(1050))
	r.ContactStart(5, 200, 400, at(1200))
	r.ContactEnd(5, at(1250))
	if c.anim == nil {
		t.Fatal("double-tap did not start a zoom animation")
	}
	runToCompletion(t, c)
	if !approxEqual(c.ZoomLevel(), 2.5, 1e-3) {
		t.Errorf("zoom = %v after double-tap, want 2.5", c.ZoomLevel())
	}
}

func TestPanBaseClearedWhenDragUpgradesToSwipe(t *testing.T) {
	r := NewRecognizer(400, 800, DefaultOptions())
	c := newTestController()
	c.Bind(r)

	c.ApplyPinch(3, 3, Vec2{200, 400})
	c.EndPinch()

	// First session pans 30 px, then accelerates into a swipe: the
	// release fires Swipe only, no PanEnd and no momentum.
	r.ContactStart(1, 100, 400, at(0))
	r.ContactMove(1, 130, 400, at(200))
	if _, ox, _ := c.Transform(); !approxEqual(ox, 30, 1e-9) {
		t.Fatalf("offset X = %v after first drag, want 30", ox)
	}
	r.ContactMove(1, 250, 400, at(260)) // 2 px/ms, well past the swipe velocity
	r.ContactEnd(1, at(270))
	if c.momentumActive {
		t.Fatal("swipe release must not start momentum")
	}

	// The next drag pans relative to where the surface was left, not to
	// the previous session's pan base.
	r.ContactStart(2, 100, 400, at(1000))
	r.ContactMove(2, 112, 400, at(1200))
	if _, ox, _ := c.Transform(); !approxEqual(ox, 42, 1e-9) {
		t.Errorf("offset X = %v after second drag, want 30+12 = 42", ox)
	}
}

func TestPanBaseClearedAfterCancel(t *testing.T) {
	r := NewRecognizer(400, 800, DefaultOptions())
	c := newTestController()
	c.Bind(r)

	c.ApplyPinch(3, 3, Vec2{200, 400})
	c.EndPinch()

	r.ContactStart(1, 100, 400, at(0))
	r.ContactMove(1, 130, 400, at(200))
	r.ContactCancel()

	r.ContactStart(2, 100, 400, at(500))
	r.ContactMove(2, 112, 400, at(700))
	if _, ox, _ := c.Transform(); !approxEqual(ox, 42, 1e-9) {
		t.Errorf("offset X = %v after cancel and re-drag, want 30+12 = 42", ox)
	}
}

func TestPinchBaseClearedAfterCancel(t *testing.T) {
	r := NewRecognizer(400, 800, DefaultOptions())
	c := newTestController()
	c.Bind(r)

	// A cancelled pinch leaves the zoom where it was; a later pinch
	// scales relative to that level, not the cancelled session's base.
	r.ContactStart(1, 100, 400, at(0))
	r.ContactStart(2, 200, 400, at(10))
	r.ContactMove(2, 300, 400, at(100)) // scale 2
	r.ContactCancel()
	if !approxEqual(c.ZoomLevel(), 2, 1e-9) {
		t.Fatalf("zoom = %v after cancelled pinch, want 2", c.ZoomLevel())
	}

	r.ContactStart(3, 100, 400, at(500))
	r.ContactStart(4, 200, 400, at(510))
	r.ContactMove(4, 250, 400, at(600)) // scale 1.5 on top of zoom 2
	if !approxEqual(c.ZoomLevel(), 3, 1e-9) {
		t.Errorf("zoom = %v after second pinch, want 3", c.ZoomLevel())
	}
}
