package session

import (
	"testing"

	"github.com/kplabel/kplabel/pkg/geometry"
)

func storeWith(points ...geometry.Point) *Store {
	s := NewStore()
	s.ReplaceAll(points)
	return s
}

func TestAddSelectsAndMarksRecent(t *testing.T) {
	s := NewStore()

	i := s.Add(geometry.NewPoint(5, 6))
	if i != 0 {
		t.Errorf("first add: expected index 0, got %d", i)
	}
	if s.Selected() != 0 || s.Recent() != 0 {
		t.Errorf("add should select and mark recent: selected=%d recent=%d", s.Selected(), s.Recent())
	}

	i = s.Add(geometry.NewPoint(7, 8))
	if i != 1 || s.Selected() != 1 || s.Recent() != 1 {
		t.Errorf("second add: index=%d selected=%d recent=%d", i, s.Selected(), s.Recent())
	}
}

func TestMoveOutOfRangeIsNoOp(t *testing.T) {
	s := storeWith(geometry.NewPoint(1, 1))

	s.Move(-1, geometry.NewPoint(9, 9))
	s.Move(1, geometry.NewPoint(9, 9))

	if p, _ := s.At(0); p != geometry.NewPoint(1, 1) {
		t.Errorf("out-of-range move mutated the store: %v", p)
	}
}

func TestDeleteReindexesSelection(t *testing.T) {
	// Deleting index 1 from [[0,0],[1,1],[2,2]] with selection at 2 yields
	// [[0,0],[2,2]] with selection at 1.
	s := storeWith(
		geometry.NewPoint(0, 0),
		geometry.NewPoint(1, 1),
		geometry.NewPoint(2, 2),
	)
	s.Select(2)

	if !s.Delete(1) {
		t.Fatal("delete failed")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", s.Len())
	}
	if p, _ := s.At(0); p != geometry.NewPoint(0, 0) {
		t.Errorf("point 0: got %v", p)
	}
	if p, _ := s.At(1); p != geometry.NewPoint(2, 2) {
		t.Errorf("point 1: got %v", p)
	}
	if s.Selected() != 1 {
		t.Errorf("selection should follow the logical point: got %d", s.Selected())
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0), geometry.NewPoint(1, 1))
	s.Select(1)

	s.Delete(1)
	if s.Selected() != None {
		t.Errorf("deleting the selected point should clear selection: got %d", s.Selected())
	}
}

func TestDeleteAdjustsRecent(t *testing.T) {
	s := NewStore()
	s.Add(geometry.NewPoint(0, 0))
	s.Add(geometry.NewPoint(1, 1))
	s.Add(geometry.NewPoint(2, 2)) // recent = 2

	s.Delete(0)
	if s.Recent() != 1 {
		t.Errorf("recent should shift down: got %d", s.Recent())
	}

	s.Delete(1)
	if s.Recent() != None {
		t.Errorf("deleting the recent point should clear the marker: got %d", s.Recent())
	}
}

func TestSwap(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0), geometry.NewPoint(1, 1))

	if !s.Swap(0, 1) {
		t.Fatal("swap failed")
	}
	if p, _ := s.At(0); p != geometry.NewPoint(1, 1) {
		t.Errorf("swap: point 0 is %v", p)
	}
	if s.Swap(0, 5) {
		t.Error("swap with an out-of-range index should fail")
	}
}

func TestReorderInvalidatesRecent(t *testing.T) {
	s := NewStore()
	s.Add(geometry.NewPoint(0, 0))
	s.Add(geometry.NewPoint(1, 1))

	s.Reorder([]geometry.Point{{X: 1, Y: 1}, {X: 0, Y: 0}})
	if s.Recent() != None {
		t.Errorf("reorder should invalidate the recent marker: got %d", s.Recent())
	}
	if s.Len() != 2 {
		t.Errorf("reorder changed the count: %d", s.Len())
	}
}

func TestClearResetsSelection(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0))
	s.Select(0)

	s.Clear()
	if s.Len() != 0 || s.Selected() != None || s.Recent() != None {
		t.Errorf("clear left state behind: len=%d selected=%d recent=%d", s.Len(), s.Selected(), s.Recent())
	}
}

func TestReplaceAllResetsSelection(t *testing.T) {
	s := NewStore()
	s.Add(geometry.NewPoint(9, 9))

	s.ReplaceAll([]geometry.Point{{X: 1, Y: 2}, {X: 3, Y: 4}})
	if s.Selected() != None || s.Recent() != None {
		t.Errorf("replace should reset selection: selected=%d recent=%d", s.Selected(), s.Recent())
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 points, got %d", s.Len())
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	s := storeWith(geometry.NewPoint(1, 1))

	points := s.Points()
	points[0] = geometry.NewPoint(99, 99)
	if p, _ := s.At(0); p != geometry.NewPoint(1, 1) {
		t.Error("Points must return a defensive copy")
	}
}
