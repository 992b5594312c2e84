package flick

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// mouseContactID is the reserved contact ID for the desktop mouse pointer.
// Touch contacts get fresh IDs starting at 1.
const mouseContactID ContactID = 0

// Surface binds a Recognizer and a Controller to an Ebitengine game loop
// for one visual surface. It translates Ebitengine touch, mouse, and wheel
// input into contact lifecycle samples, polls time-based recognition, and
// steps animations. Call Update from the game's Update and Draw from the
// game's Draw.
type Surface struct {
	rec  *Recognizer
	ctrl *Controller
	opts Options

	width  float64
	height float64

	touchIDs  []ebiten.TouchID // scratch for AppendTouchIDs
	touchMap  map[ebiten.TouchID]ContactID
	nextID    ContactID
	mouseDown bool

	clock func() time.Time
}

// NewSurface creates a Surface of the given pixel dimensions with the
// recognizer wired into the controller.
func NewSurface(width, height float64, opts Options) *Surface {
	rec := NewRecognizer(width, height, opts)
	ctrl := NewController(width, height, opts)
	ctrl.Bind(rec)
	return &Surface{
		rec:      rec,
		ctrl:     ctrl,
		opts:     opts,
		width:    width,
		height:   height,
		touchMap: make(map[ebiten.TouchID]ContactID),
		nextID:   mouseContactID + 1,
		clock:    time.Now,
	}
}

// Recognizer returns the surface's gesture recognizer.
func (s *Surface) Recognizer() *Recognizer {
	return s.rec
}

// Controller returns the surface's zoom/pan controller.
func (s *Surface) Controller() *Controller {
	return s.ctrl
}

// Resize updates the surface dimensions after a window or layout change.
func (s *Surface) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.rec.SetViewport(width, height)
	s.ctrl.SetSurfaceSize(width, height)
}

// OnPinch registers a pinch handler. See Recognizer.OnPinch.
func (s *Surface) OnPinch(fn func(PinchEvent)) CallbackHandle { return s.rec.OnPinch(fn) }

// OnPinchEnd registers a pinch-end handler. See Recognizer.OnPinchEnd.
func (s *Surface) OnPinchEnd(fn func()) CallbackHandle { return s.rec.OnPinchEnd(fn) }

// OnPan registers a pan handler. See Recognizer.OnPan.
func (s *Surface) OnPan(fn func(PanEvent)) CallbackHandle { return s.rec.OnPan(fn) }

// OnPanEnd registers a pan-end handler. See Recognizer.OnPanEnd.
func (s *Surface) OnPanEnd(fn func(PanEndEvent)) CallbackHandle { return s.rec.OnPanEnd(fn) }

// OnSwipe registers a swipe handler. See Recognizer.OnSwipe.
func (s *Surface) OnSwipe(fn func(SwipeEvent)) CallbackHandle { return s.rec.OnSwipe(fn) }

// OnTap registers a tap handler. See Recognizer.OnTap.
func (s *Surface) OnTap(fn func(TapEvent)) CallbackHandle { return s.rec.OnTap(fn) }

// OnDoubleTap registers a double-tap handler. See Recognizer.OnDoubleTap.
func (s *Surface) OnDoubleTap(fn func(DoubleTapEvent)) CallbackHandle { return s.rec.OnDoubleTap(fn) }

// OnLongPress registers a long-press handler. See Recognizer.OnLongPress.
func (s *Surface) OnLongPress(fn func(LongPressEvent)) CallbackHandle { return s.rec.OnLongPress(fn) }

// Update ingests this frame's input and advances animations. Call once per
// game tick.
func (s *Surface) Update() {
	now := s.clock()
	s.processTouches(now)
	s.processMouse(now)
	s.processWheel()
	s.rec.Tick(now)
	s.ctrl.Update(1.0 / float64(ebiten.TPS()))
}

// processTouches maps live ebiten touch IDs to stable contact IDs and
// feeds start/move/end samples to the recognizer. Touches missing from
// this frame's ID list have lifted.
func (s *Surface) processTouches(now time.Time) {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])

	seen := make(map[ebiten.TouchID]bool, len(s.touchIDs))
	for _, tid := range s.touchIDs {
		seen[tid] = true
		x, y := ebiten.TouchPosition(tid)
		if cid, ok := s.touchMap[tid]; ok {
			s.rec.ContactMove(cid, float64(x), float64(y), now)
			continue
		}
		cid := s.nextID
		s.nextID++
		s.touchMap[tid] = cid
		s.rec.ContactStart(cid, float64(x), float64(y), now)
	}

	for tid, cid := range s.touchMap {
		if !seen[tid] {
			s.rec.ContactEnd(cid, now)
			delete(s.touchMap, tid)
		}
	}
}

// processMouse emulates a contact with the left mouse button so desktop
// drags pan and clicks tap.
func (s *Surface) processMouse(now time.Time) {
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && !s.mouseDown:
		s.mouseDown = true
		s.rec.ContactStart(mouseContactID, float64(x), float64(y), now)
	case pressed && s.mouseDown:
		s.rec.ContactMove(mouseContactID, float64(x), float64(y), now)
	case !pressed && s.mouseDown:
		s.mouseDown = false
		s.rec.ContactEnd(mouseContactID, now)
	}
}

// processWheel maps the scroll wheel to discrete zoom steps, anchored at
// the cursor when zooming in.
func (s *Surface) processWheel() {
	_, dy := ebiten.Wheel()
	if dy > 0 {
		center := cursorVec()
		s.ctrl.AnimateZoomTo(s.ctrl.ZoomLevel()*s.opts.ZoomStep, &center)
	} else if dy < 0 {
		s.ctrl.AnimateZoomTo(s.ctrl.ZoomLevel()/s.opts.ZoomStep, nil)
	}
}

func cursorVec() Vec2 {
	x, y := ebiten.CursorPosition()
	return Vec2{float64(x), float64(y)}
}

// Draw paints img onto dst with the current zoom/pan transform applied.
// The image is scaled to fit the surface at natural scale, then zoomed and
// offset about the surface center (translate, scale, translate). opts may
// carry filters or color settings; its GeoM is overwritten.
func (s *Surface) Draw(dst, img *ebiten.Image, opts *ebiten.DrawImageOptions) {
	if opts == nil {
		opts = &ebiten.DrawImageOptions{}
	}
	opts.GeoM = s.geoM(img.Bounds().Dx(), img.Bounds().Dy())
	dst.DrawImage(img, opts)
}

// geoM builds the composed transform for an image of the given pixel size.
func (s *Surface) geoM(imgW, imgH int) ebiten.GeoM {
	zoom, ox, oy := s.ctrl.Transform()

	fit := 1.0
	if imgW > 0 && imgH > 0 {
		fit = min(s.width/float64(imgW), s.height/float64(imgH))
	}

	var g ebiten.GeoM
	g.Translate(-float64(imgW)/2, -float64(imgH)/2)
	g.Scale(fit*zoom, fit*zoom)
	g.Translate(s.width/2+ox, s.height/2+oy)
	return g
}
