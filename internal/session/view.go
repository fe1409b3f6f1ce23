package session

import (
	"math"

	"github.com/kplabel/kplabel/pkg/geometry"
)

// Zoom factor bounds for the canvas view.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// ViewState holds the zoom factor and pan offset of the canvas view.
type ViewState struct {
	Zoom float64
	Pan  geometry.Vec2
}

// NewViewState returns the identity view (no zoom, no pan).
func NewViewState() ViewState {
	return ViewState{Zoom: 1.0}
}

// ClampZoom constrains a zoom factor to the supported range.
func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// Viewport couples the widget size in screen pixels with the native size of
// the displayed image. All coordinate conversions between image-pixel space
// and screen space go through it.
type Viewport struct {
	Width  float64
	Height float64
	ImageW int
	ImageH int
}

// Scale returns the screen-pixels-per-image-pixel factor for the given view.
// The image is fitted into the zoomed viewport preserving its aspect ratio.
// Returns 0 when the viewport or image is degenerate.
func (vp Viewport) Scale(view ViewState) float64 {
	if vp.ImageW <= 0 || vp.ImageH <= 0 || vp.Width <= 0 || vp.Height <= 0 {
		return 0
	}
	fit := math.Min(vp.Width/float64(vp.ImageW), vp.Height/float64(vp.ImageH))
	return fit * view.Zoom
}

// ContentOrigin returns the screen position of image pixel (0, 0): the
// content rectangle is centered in the viewport and shifted by the pan offset.
func (vp Viewport) ContentOrigin(view ViewState) geometry.Vec2 {
	size := vp.ContentSize(view)
	return geometry.NewVec2(
		(vp.Width-size.X)/2+view.Pan.X,
		(vp.Height-size.Y)/2+view.Pan.Y,
	)
}

// ContentSize returns the screen size of the rendered image.
func (vp Viewport) ContentSize(view ViewState) geometry.Vec2 {
	scale := vp.Scale(view)
	return geometry.NewVec2(float64(vp.ImageW)*scale, float64(vp.ImageH)*scale)
}

// ContainsScreen reports whether a screen point lies inside the content
// rectangle (boundary inclusive).
func (vp Viewport) ContainsScreen(sp geometry.Vec2, view ViewState) bool {
	origin := vp.ContentOrigin(view)
	size := vp.ContentSize(view)
	return sp.X >= origin.X && sp.X <= origin.X+size.X &&
		sp.Y >= origin.Y && sp.Y <= origin.Y+size.Y
}

// ImageToScreen converts an image-pixel coordinate to a screen coordinate.
func (vp Viewport) ImageToScreen(p geometry.Point, view ViewState) geometry.Vec2 {
	return vp.ContentOrigin(view).Add(p.ToVec2().Mul(vp.Scale(view)))
}

// ScreenToImage converts a screen coordinate to an image-pixel coordinate.
// It is the algebraic inverse of ImageToScreen up to integer rounding.
// Returns ok=false when the screen point lies outside the content rectangle.
func (vp Viewport) ScreenToImage(sp geometry.Vec2, view ViewState) (geometry.Point, bool) {
	scale := vp.Scale(view)
	if scale <= 0 || !vp.ContainsScreen(sp, view) {
		return geometry.Point{}, false
	}
	rel := sp.Sub(vp.ContentOrigin(view)).Mul(1 / scale)
	// Clicks on the far edge round to ImageW/ImageH; clamp back into bounds.
	return rel.Round().Clamp(vp.ImageW, vp.ImageH), true
}

// ZoomAt multiplies the zoom factor (clamped to range) and recomputes the pan
// offset so the image content under the focal screen point stays under it.
// The pan offset is left untouched when the focal point is outside the
// current content rectangle.
func (vp Viewport) ZoomAt(focal geometry.Vec2, factor float64, view ViewState) ViewState {
	next := view
	next.Zoom = ClampZoom(view.Zoom * factor)
	if next.Zoom == view.Zoom {
		return view
	}

	scale := vp.Scale(view)
	if scale <= 0 || !vp.ContainsScreen(focal, view) {
		return next
	}

	// Image-space position (unrounded) currently under the focal point.
	anchor := focal.Sub(vp.ContentOrigin(view)).Mul(1 / scale)

	newScale := vp.Scale(next)
	newSize := geometry.NewVec2(float64(vp.ImageW)*newScale, float64(vp.ImageH)*newScale)

	// Solve focal == origin' + anchor*scale' for the new origin, then back
	// out the pan offset from the centering term.
	origin := focal.Sub(anchor.Mul(newScale))
	next.Pan = geometry.NewVec2(
		origin.X-(vp.Width-newSize.X)/2,
		origin.Y-(vp.Height-newSize.Y)/2,
	)
	return next
}
