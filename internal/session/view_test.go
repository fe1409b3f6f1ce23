package session

import (
	"math"
	"testing"

	"github.com/kplabel/kplabel/pkg/geometry"
)

func testViewport() Viewport {
	return Viewport{Width: 800, Height: 600, ImageW: 400, ImageH: 300}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0.05, MinZoom},
		{0.1, 0.1},
		{1.0, 1.0},
		{10.0, 10.0},
		{25.0, MaxZoom},
	}

	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.expected {
			t.Errorf("ClampZoom(%v): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestRoundTripIdentityView(t *testing.T) {
	vp := testViewport()
	view := NewViewState()

	points := []geometry.Point{
		geometry.NewPoint(0, 0),
		geometry.NewPoint(399, 299),
		geometry.NewPoint(200, 150),
		geometry.NewPoint(17, 283),
	}

	for _, p := range points {
		sp := vp.ImageToScreen(p, view)
		back, ok := vp.ScreenToImage(sp, view)
		if !ok {
			t.Fatalf("ScreenToImage(%v) unexpectedly outside content rect", sp)
		}
		if back != p {
			t.Errorf("round trip failed: %v -> %v -> %v", p, sp, back)
		}
	}
}

func TestRoundTripZoomedPannedView(t *testing.T) {
	vp := testViewport()
	views := []ViewState{
		{Zoom: 0.5, Pan: geometry.NewVec2(30, -10)},
		{Zoom: 2.5, Pan: geometry.NewVec2(-120, 75)},
		{Zoom: 7.0, Pan: geometry.NewVec2(0, 0)},
	}

	for _, view := range views {
		for _, p := range []geometry.Point{{X: 10, Y: 10}, {X: 211, Y: 97}, {X: 399, Y: 299}} {
			sp := vp.ImageToScreen(p, view)
			back, ok := vp.ScreenToImage(sp, view)
			if !ok {
				// Zoomed/panned views can push points off screen; only
				// verify the inverse for points that stay visible.
				continue
			}
			if dx, dy := back.X-p.X, back.Y-p.Y; dx < -1 || dx > 1 || dy < -1 || dy > 1 {
				t.Errorf("zoom %v: round trip %v -> %v drifted by more than one pixel", view.Zoom, p, back)
			}
		}
	}
}

func TestScreenToImageOutsideContentRect(t *testing.T) {
	vp := testViewport()
	view := NewViewState()

	// Content is 800x600 fitted: fills the whole viewport here, so probe
	// beyond the widget instead.
	outside := []geometry.Vec2{
		geometry.NewVec2(-1, 10),
		geometry.NewVec2(801, 10),
		geometry.NewVec2(10, -5),
		geometry.NewVec2(10, 601),
	}
	for _, sp := range outside {
		if _, ok := vp.ScreenToImage(sp, view); ok {
			t.Errorf("ScreenToImage(%v) should be outside the content rect", sp)
		}
	}

	// Shrink the content and probe the letterbox area.
	small := ViewState{Zoom: 0.5}
	origin := vp.ContentOrigin(small)
	if _, ok := vp.ScreenToImage(geometry.NewVec2(origin.X-2, origin.Y-2), small); ok {
		t.Error("point just outside the shrunk content rect should not resolve")
	}
	if _, ok := vp.ScreenToImage(origin, small); !ok {
		t.Error("content rect corner should resolve")
	}
}

func TestScreenToImageNoImage(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	if _, ok := vp.ScreenToImage(geometry.NewVec2(100, 100), NewViewState()); ok {
		t.Error("conversion without an image should fail")
	}
}

func TestZoomAtAnchorsFocalPoint(t *testing.T) {
	vp := testViewport()
	view := ViewState{Zoom: 1.0, Pan: geometry.NewVec2(12, -7)}
	focal := geometry.NewVec2(500, 210)

	before, ok := vp.ScreenToImage(focal, view)
	if !ok {
		t.Fatal("focal point must start inside the content rect")
	}

	for _, factor := range []float64{1.1, 1.5, 0.8, 2.0} {
		next := vp.ZoomAt(focal, factor, view)
		after, ok := vp.ScreenToImage(focal, next)
		if !ok {
			t.Fatalf("focal point left the content rect after zoom by %v", factor)
		}
		if dx, dy := after.X-before.X, after.Y-before.Y; dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Errorf("zoom by %v moved the pixel under the cursor: %v -> %v", factor, before, after)
		}
	}
}

func TestZoomAtClampsFactor(t *testing.T) {
	vp := testViewport()
	view := ViewState{Zoom: 9.0}

	next := vp.ZoomAt(geometry.NewVec2(400, 300), 5.0, view)
	if next.Zoom != MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", MaxZoom, next.Zoom)
	}

	next = vp.ZoomAt(geometry.NewVec2(400, 300), 0.001, view)
	if next.Zoom != MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", MinZoom, next.Zoom)
	}
}

func TestZoomAtOutsideContentRectKeepsPan(t *testing.T) {
	vp := testViewport()
	view := ViewState{Zoom: 0.5, Pan: geometry.NewVec2(40, 25)}

	next := vp.ZoomAt(geometry.NewVec2(-50, -50), 2.0, view)
	if next.Zoom != 1.0 {
		t.Errorf("zoom should still apply: expected 1.0, got %v", next.Zoom)
	}
	if next.Pan != view.Pan {
		t.Errorf("pan must not change for an off-content focal point: %v -> %v", view.Pan, next.Pan)
	}
}

func TestScalePreservesAspectRatio(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 500, ImageW: 200, ImageH: 200}
	size := vp.ContentSize(NewViewState())
	if math.Abs(size.X-size.Y) > 1e-9 {
		t.Errorf("square image should render square: got %vx%v", size.X, size.Y)
	}
	if size.Y > vp.Height+1e-9 {
		t.Errorf("fitted content exceeds viewport height: %v", size.Y)
	}
}
