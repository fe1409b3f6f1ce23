package gesture

import (
	"github.com/kplabel/kplabel/internal/session"
	"github.com/kplabel/kplabel/pkg/geometry"
)

// Hit radius in image pixels: shrinks as the zoom factor grows so closely
// spaced points stay individually selectable, floored so clicks never have
// to be pixel-perfect.
const (
	baseHitRadius = 20.0
	minHitRadius  = 10.0
)

// Zoom steps: per wheel notch, and for discrete zoom commands.
const (
	wheelZoomStep = 1.1
	// ButtonZoomStep is the factor used by menu and toolbar zoom actions.
	ButtonZoomStep = 1.2
)

// Router is the gesture state machine behind the image canvas. It consumes
// events, consults the session's view transform to resolve screen and image
// coordinates, mutates the keypoint store and records undo entries.
type Router struct {
	session *session.Session

	state      State
	dragIndex  int
	pressPoint geometry.Point
	lastPos    geometry.Vec2

	// Changed, when set, is invoked after every handled event that altered
	// session state and requires a redraw.
	Changed func()
}

// NewRouter creates a router driving the given session.
func NewRouter(s *session.Session) *Router {
	return &Router{session: s, state: Idle, dragIndex: session.None}
}

// State returns the current machine state.
func (r *Router) State() State {
	return r.state
}

func (r *Router) notify() {
	if r.Changed != nil {
		r.Changed()
	}
}

// HitRadius returns the image-space selection radius for the current zoom.
func HitRadius(zoom float64) float64 {
	if zoom <= 0 {
		return baseHitRadius
	}
	radius := baseHitRadius / zoom
	if radius < minHitRadius {
		radius = minHitRadius
	}
	return radius
}

// hitTest finds the nearest existing point within the hit radius of an image
// coordinate. Equidistant candidates resolve to the lowest index. Returns
// session.None when nothing is close enough.
func (r *Router) hitTest(p geometry.Point) int {
	best := HitRadius(r.session.View().Zoom)
	hit := session.None
	for i, candidate := range r.session.Store.Points() {
		if d := candidate.Distance(p); d < best {
			best = d
			hit = i
		}
	}
	return hit
}

// HandlePress routes a pointer button press.
func (r *Router) HandlePress(ev PressEvent) {
	r.lastPos = ev.Pos

	if ev.Button == ButtonSecondary {
		// Quick-delete of the most recently added point, from any state and
		// regardless of cursor proximity.
		if i, ok := r.session.DeleteRecent(); ok {
			if r.state == Dragging && i == r.dragIndex {
				r.state = Idle
				r.dragIndex = session.None
			}
			r.notify()
		}
		return
	}
	if ev.Button != ButtonPrimary || r.state != Idle {
		return
	}

	if ev.Mods&(ModControl|ModSpace) != 0 {
		r.state = Panning
		return
	}

	img, ok := r.session.ScreenToImage(ev.Pos)
	if !ok {
		// Outside the content rectangle: normal mouse slop, not an error.
		return
	}

	if i := r.hitTest(img); i != session.None {
		r.session.Store.Select(i)
		r.dragIndex = i
	} else {
		r.dragIndex = r.session.AddAt(img)
	}
	r.pressPoint, _ = r.session.Store.At(r.dragIndex)
	r.state = Dragging
	r.notify()
}

// HandleMove routes a pointer move while a button is held.
func (r *Router) HandleMove(ev MoveEvent) {
	switch r.state {
	case Dragging:
		if img, ok := r.session.ScreenToImage(ev.Pos); ok {
			r.session.MovePoint(r.dragIndex, img)
			r.notify()
		}
	case Panning:
		r.session.PanBy(ev.Pos.Sub(r.lastPos))
		r.notify()
	}
	r.lastPos = ev.Pos
}

// HandleRelease routes a pointer button release, closing the gesture. A drag
// that actually moved its point emits exactly one Move undo record; a
// release without movement produces none.
func (r *Router) HandleRelease(ev ReleaseEvent) {
	if ev.Button != ButtonPrimary {
		return
	}
	if r.state == Dragging {
		if cur, ok := r.session.Store.At(r.dragIndex); ok && cur != r.pressPoint {
			r.session.RecordMove(r.dragIndex, r.pressPoint, cur)
		}
	}
	r.state = Idle
	r.dragIndex = session.None
}

// HandleWheel routes a scroll tick. With the zoom modifier held the view
// zooms anchored at the cursor; otherwise the event is not consumed and the
// caller passes it through as ordinary scrolling.
func (r *Router) HandleWheel(ev WheelEvent) bool {
	if ev.Mods&ModControl == 0 {
		return false
	}
	factor := wheelZoomStep
	if ev.DeltaY < 0 {
		factor = 1 / wheelZoomStep
	}
	r.session.ZoomAt(ev.Pos, factor)
	r.notify()
	return true
}

// HandleKey routes a discrete key press.
func (r *Router) HandleKey(ev KeyEvent) {
	switch {
	case ev.Key == KeyZ && ev.Mods&ModControl != 0:
		if r.session.UndoLast() {
			r.notify()
		}
	case ev.Key == KeyDelete:
		if r.session.DeleteSelected() {
			if r.state == Dragging {
				r.state = Idle
				r.dragIndex = session.None
			}
			r.notify()
		}
	case ev.Key == KeyLeft || ev.Key == KeyRight || ev.Key == KeyUp || ev.Key == KeyDown:
		dx, dy := nudgeDelta(ev.Key)
		step := 1
		if ev.Mods&ModShift != 0 {
			step = 10
		}
		if r.session.NudgeSelected(dx*step, dy*step) {
			r.notify()
		}
	}
}

func nudgeDelta(key Key) (int, int) {
	switch key {
	case KeyLeft:
		return -1, 0
	case KeyRight:
		return 1, 0
	case KeyUp:
		return 0, -1
	case KeyDown:
		return 0, 1
	default:
		return 0, 0
	}
}
