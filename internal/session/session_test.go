package session

import (
	"testing"

	"github.com/kplabel/kplabel/pkg/geometry"
)

func testSession() *Session {
	s := New()
	s.SetViewportSize(800, 600)
	s.LoadImage(400, 300, nil)
	return s
}

func TestLoadImageResetsEverything(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(10, 10))
	s.ZoomStep(2.0)
	s.PanBy(geometry.NewVec2(50, 50))

	s.LoadImage(200, 100, []geometry.Point{{X: 1, Y: 1}})

	if s.Store.Len() != 1 {
		t.Errorf("expected loaded points, got %d", s.Store.Len())
	}
	if s.Store.Selected() != None || s.Store.Recent() != None {
		t.Error("selection must reset on image load")
	}
	if s.Undo.Len() != 0 {
		t.Error("undo history must not cross image boundaries")
	}
	if v := s.View(); v.Zoom != 1.0 || v.Pan != geometry.NewVec2(0, 0) {
		t.Errorf("view must reset on image load: %+v", v)
	}
	if s.Dirty() {
		t.Error("a freshly loaded image is not dirty")
	}
}

func TestAddAtClampsToImageBounds(t *testing.T) {
	s := testSession()

	i := s.AddAt(geometry.NewPoint(500, -20))
	p, _ := s.Store.At(i)
	if p != geometry.NewPoint(399, 0) {
		t.Errorf("expected clamped point (399,0), got %v", p)
	}
	if s.Undo.Len() != 1 {
		t.Errorf("add must record one structural entry, got %d", s.Undo.Len())
	}
	if !s.Dirty() {
		t.Error("add must mark the session dirty")
	}
}

func TestNudgeSelectedRecordsPerStep(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(100, 100))
	base := s.Undo.Len()

	if !s.NudgeSelected(1, 0) {
		t.Fatal("nudge failed")
	}
	if !s.NudgeSelected(0, 10) {
		t.Fatal("fast nudge failed")
	}
	if s.Undo.Len() != base+2 {
		t.Errorf("each nudge is its own undo step: expected %d records, got %d", base+2, s.Undo.Len())
	}

	p, _ := s.Store.At(0)
	if p != geometry.NewPoint(101, 110) {
		t.Errorf("expected (101,110), got %v", p)
	}

	s.UndoLast()
	if p, _ = s.Store.At(0); p != geometry.NewPoint(101, 100) {
		t.Errorf("nudge undo: expected (101,100), got %v", p)
	}
}

func TestNudgeWithoutSelection(t *testing.T) {
	s := testSession()
	if s.NudgeSelected(1, 0) {
		t.Error("nudge without a selection should do nothing")
	}
}

func TestNudgeAgainstEdgeRecordsNothing(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(0, 0))
	base := s.Undo.Len()

	if s.NudgeSelected(-1, 0) {
		t.Error("nudge clamped to the same position is not an edit")
	}
	if s.Undo.Len() != base {
		t.Error("no-op nudge must not record")
	}
}

func TestDeleteRecentQuickGesture(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(10, 10))
	s.AddAt(geometry.NewPoint(20, 20))

	i, ok := s.DeleteRecent()
	if !ok || i != 1 {
		t.Fatalf("expected to delete index 1, got %d ok=%v", i, ok)
	}
	if s.Store.Len() != 1 {
		t.Errorf("expected 1 point, got %d", s.Store.Len())
	}

	// Undo restores the deleted point and the pre-delete selection.
	if !s.UndoLast() {
		t.Fatal("undo failed")
	}
	if s.Store.Len() != 2 {
		t.Errorf("undo should restore the deleted point, got %d", s.Store.Len())
	}

	if _, ok := New().DeleteRecent(); ok {
		t.Error("delete-recent with no points should fail")
	}
}

func TestSwapRecordsSnapshot(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(1, 1))
	s.AddAt(geometry.NewPoint(2, 2))
	base := s.Undo.Len()

	if !s.SwapPoints(0, 1) {
		t.Fatal("swap failed")
	}
	if s.Undo.Len() != base+1 {
		t.Error("swap must record one structural entry")
	}
	if s.SwapPoints(1, 1) {
		t.Error("swapping an index with itself should fail")
	}
	if s.SwapPoints(0, 7) {
		t.Error("swap with an invalid index should fail")
	}
	if s.Undo.Len() != base+1 {
		t.Error("failed swaps must not record")
	}
}

func TestClearPointsEmptyIsNoOp(t *testing.T) {
	s := testSession()
	if s.ClearPoints() {
		t.Error("clearing an empty sequence should be a no-op")
	}
	s.AddAt(geometry.NewPoint(1, 1))
	if !s.ClearPoints() {
		t.Error("clear failed")
	}
	if !s.UndoLast() {
		t.Fatal("undo failed")
	}
	if s.Store.Len() != 1 {
		t.Error("undoing a clear should restore the sequence")
	}
}

func TestMarkSaved(t *testing.T) {
	s := testSession()
	s.AddAt(geometry.NewPoint(1, 1))
	if !s.Dirty() {
		t.Fatal("expected dirty after edit")
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Error("MarkSaved should clear the dirty flag")
	}
}
