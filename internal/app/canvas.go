package app

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/kplabel/kplabel/internal/gesture"
	"github.com/kplabel/kplabel/internal/session"
	"github.com/kplabel/kplabel/pkg/dicomimg"
	"github.com/kplabel/kplabel/pkg/geometry"
)

// ImageCanvas shows the annotated image and feeds pointer and keyboard
// input into the gesture router. Window/level dragging for DICOM images is
// handled here directly: it adjusts display state, not annotation state,
// so it stays outside the editing gestures.
type ImageCanvas struct {
	widget.BaseWidget

	session *session.Session
	router  *gesture.Router

	picture    image.Image
	dicom      *dicomimg.Image
	window     dicomimg.WindowLevel
	showLabels bool

	mods      gesture.Mods
	wlDrag    bool
	wlLast    fyne.Position
	mouseDown bool

	// OnChange fires after any event that altered what is displayed.
	OnChange func()
	// OnWindowChange fires after a window/level adjustment.
	OnWindowChange func(dicomimg.WindowLevel)
}

var (
	markerColor   = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	selectedColor = color.RGBA{R: 255, G: 200, B: 40, A: 255}
	labelColor    = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

// NewImageCanvas creates the canvas over a session.
func NewImageCanvas(s *session.Session) *ImageCanvas {
	c := &ImageCanvas{
		session:    s,
		router:     gesture.NewRouter(s),
		showLabels: true,
	}
	c.router.Changed = func() { c.changed() }
	c.ExtendBaseWidget(c)
	return c
}

// SetRaster shows a plain raster image. Point data is loaded into the
// session by the caller.
func (c *ImageCanvas) SetRaster(img image.Image) {
	c.picture = img
	c.dicom = nil
	c.Refresh()
}

// SetDICOM shows a DICOM image rendered through its default window.
func (c *ImageCanvas) SetDICOM(img *dicomimg.Image) {
	c.dicom = img
	c.window = img.DefaultWindow
	c.picture = img.Render(c.window)
	c.Refresh()
}

// Window returns the active window/level. Only meaningful for DICOM.
func (c *ImageCanvas) Window() dicomimg.WindowLevel {
	return c.window
}

// SetWindow re-renders the DICOM image through a new window.
func (c *ImageCanvas) SetWindow(w dicomimg.WindowLevel) {
	if c.dicom == nil {
		return
	}
	c.window = w.Clamp()
	c.picture = c.dicom.Render(c.window)
	c.Refresh()
}

// IsDICOM reports whether the current image supports window/level.
func (c *ImageCanvas) IsDICOM() bool {
	return c.dicom != nil
}

// SetShowLabels toggles the index labels next to the markers.
func (c *ImageCanvas) SetShowLabels(show bool) {
	c.showLabels = show
	c.Refresh()
}

// Router exposes the gesture router for menu-driven shortcuts.
func (c *ImageCanvas) Router() *gesture.Router {
	return c.router
}

func (c *ImageCanvas) changed() {
	c.Refresh()
	if c.OnChange != nil {
		c.OnChange()
	}
}

func vec2(p fyne.Position) geometry.Vec2 {
	return geometry.NewVec2(float64(p.X), float64(p.Y))
}

// MouseDown implements desktop.Mouseable.
func (c *ImageCanvas) MouseDown(ev *desktop.MouseEvent) {
	if fyne.CurrentApp() != nil && fyne.CurrentApp().Driver() != nil {
		if cnv := fyne.CurrentApp().Driver().CanvasForObject(c); cnv != nil {
			cnv.Focus(c)
		}
	}
	c.mouseDown = true

	if ev.Button == desktop.MouseButtonPrimary && c.dicom != nil && c.mods&gesture.ModShift != 0 {
		c.wlDrag = true
		c.wlLast = ev.Position
		return
	}

	button := gesture.ButtonPrimary
	if ev.Button == desktop.MouseButtonSecondary {
		button = gesture.ButtonSecondary
	}
	c.router.HandlePress(gesture.PressEvent{Pos: vec2(ev.Position), Button: button, Mods: c.mods})
}

// MouseUp implements desktop.Mouseable.
func (c *ImageCanvas) MouseUp(ev *desktop.MouseEvent) {
	c.mouseDown = false
	if c.wlDrag {
		c.wlDrag = false
		return
	}
	button := gesture.ButtonPrimary
	if ev.Button == desktop.MouseButtonSecondary {
		button = gesture.ButtonSecondary
	}
	c.router.HandleRelease(gesture.ReleaseEvent{Pos: vec2(ev.Position), Button: button})
}

// MouseMoved implements desktop.Hoverable.
func (c *ImageCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if c.wlDrag {
		// Horizontal drag widens the window, vertical shifts the level.
		dWidth := int(ev.Position.X - c.wlLast.X)
		dLevel := int(ev.Position.Y - c.wlLast.Y)
		c.wlLast = ev.Position
		if dWidth != 0 || dLevel != 0 {
			c.SetWindow(c.window.Adjust(dLevel, dWidth))
			if c.OnWindowChange != nil {
				c.OnWindowChange(c.window)
			}
		}
		return
	}
	if !c.mouseDown {
		return
	}
	c.router.HandleMove(gesture.MoveEvent{Pos: vec2(ev.Position)})
}

// MouseIn implements desktop.Hoverable.
func (c *ImageCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (c *ImageCanvas) MouseOut() {}

// Scrolled implements fyne.Scrollable.
func (c *ImageCanvas) Scrolled(ev *fyne.ScrollEvent) {
	consumed := c.router.HandleWheel(gesture.WheelEvent{
		Pos:    vec2(ev.Position),
		DeltaY: float64(ev.Scrolled.DY),
		Mods:   c.mods,
	})
	if !consumed {
		// Unmodified wheel pans vertically.
		c.session.PanBy(geometry.NewVec2(float64(ev.Scrolled.DX), float64(ev.Scrolled.DY)))
		c.changed()
	}
}

// KeyDown implements desktop.Keyable: modifier bookkeeping plus shortcut
// dispatch.
func (c *ImageCanvas) KeyDown(ev *fyne.KeyEvent) {
	if m := modFor(ev.Name); m != 0 {
		c.mods |= m
		return
	}
	if key := keyFor(ev.Name); key != gesture.KeyNone {
		c.router.HandleKey(gesture.KeyEvent{Key: key, Mods: c.mods})
	}
}

// KeyUp implements desktop.Keyable.
func (c *ImageCanvas) KeyUp(ev *fyne.KeyEvent) {
	if m := modFor(ev.Name); m != 0 {
		c.mods &^= m
	}
}

// TypedRune implements fyne.Focusable.
func (c *ImageCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (c *ImageCanvas) TypedKey(*fyne.KeyEvent) {}

// FocusGained implements fyne.Focusable.
func (c *ImageCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable. Held modifiers are dropped so a
// focus switch cannot leave a stuck pan mode.
func (c *ImageCanvas) FocusLost() {
	c.mods = 0
}

func modFor(name fyne.KeyName) gesture.Mods {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return gesture.ModControl
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return gesture.ModShift
	case fyne.KeySpace:
		return gesture.ModSpace
	}
	return 0
}

func keyFor(name fyne.KeyName) gesture.Key {
	switch name {
	case fyne.KeyLeft:
		return gesture.KeyLeft
	case fyne.KeyRight:
		return gesture.KeyRight
	case fyne.KeyUp:
		return gesture.KeyUp
	case fyne.KeyDown:
		return gesture.KeyDown
	case fyne.KeyDelete, fyne.KeyBackspace:
		return gesture.KeyDelete
	case fyne.KeyZ:
		return gesture.KeyZ
	}
	return gesture.KeyNone
}

// CreateRenderer implements fyne.Widget.
func (c *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: c}
}

type imageCanvasRenderer struct {
	canvas  *ImageCanvas
	objects []fyne.CanvasObject
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.session.SetViewportSize(float64(size.Width), float64(size.Height))
	r.Refresh()
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *imageCanvasRenderer) Refresh() {
	r.objects = r.objects[:0]
	s := r.canvas.session

	if r.canvas.picture != nil && s.HasImage() {
		vp := s.Viewport()
		origin := vp.ContentOrigin(s.View())
		size := vp.ContentSize(s.View())

		img := canvas.NewImageFromImage(r.canvas.picture)
		img.ScaleMode = canvas.ImageScalePixels
		img.Move(fyne.NewPos(float32(origin.X), float32(origin.Y)))
		img.Resize(fyne.NewSize(float32(size.X), float32(size.Y)))
		r.objects = append(r.objects, img)

		r.appendMarkers(s)
	}

	canvas.Refresh(r.canvas)
}

func (r *imageCanvasRenderer) appendMarkers(s *session.Session) {
	selected := s.Store.Selected()
	for i, p := range s.Store.Points() {
		pos := s.ImageToScreen(p)

		fill := markerColor
		size := float32(8)
		if i == selected {
			fill = selectedColor
			size = 10
		}
		marker := canvas.NewCircle(fill)
		marker.StrokeColor = color.White
		marker.StrokeWidth = 1
		marker.Resize(fyne.NewSize(size, size))
		marker.Move(fyne.NewPos(float32(pos.X)-size/2, float32(pos.Y)-size/2))
		r.objects = append(r.objects, marker)

		if r.canvas.showLabels {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), labelColor)
			label.TextSize = 12
			label.Move(fyne.NewPos(float32(pos.X)+size/2+2, float32(pos.Y)-size))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *imageCanvasRenderer) Destroy() {}
