package session

import (
	"testing"

	"github.com/kplabel/kplabel/pkg/geometry"
)

func TestUndoEmptyStackIsNoOp(t *testing.T) {
	s := storeWith(geometry.NewPoint(1, 1))
	s.Select(0)
	e := NewEngine(10)

	if e.Undo(s) {
		t.Error("undo on an empty stack should return false")
	}
	if s.Len() != 1 || s.Selected() != 0 {
		t.Error("undo on an empty stack must not touch the store")
	}
}

func TestMoveUndoRestoresPositionsInReverseOrder(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0))
	e := NewEngine(10)

	// N consecutive moves of the same index, undone N times, must walk the
	// exact position history backwards.
	positions := []geometry.Point{{X: 10, Y: 0}, {X: 20, Y: 5}, {X: 30, Y: 9}}
	prev := geometry.NewPoint(0, 0)
	for _, next := range positions {
		e.Push(MoveRecord{Index: 0, Old: prev, New: next})
		s.Move(0, next)
		prev = next
	}

	want := []geometry.Point{{X: 20, Y: 5}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	for step, expected := range want {
		if !e.Undo(s) {
			t.Fatalf("undo %d failed", step)
		}
		if p, _ := s.At(0); p != expected {
			t.Errorf("undo %d: expected %v, got %v", step, expected, p)
		}
		if s.Selected() != 0 {
			t.Errorf("undo %d: move undo should select the patched index", step)
		}
	}
}

func TestStructuralUndoRestoresExactSequence(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0), geometry.NewPoint(5, 5))
	original := s.Points()
	e := NewEngine(10)

	// Add a point, then delete a different one; two undos restore the
	// original sequence with identical element order.
	e.Push(SnapshotRecord(s))
	s.Add(geometry.NewPoint(9, 9))

	e.Push(SnapshotRecord(s))
	s.Delete(0)

	if !e.Undo(s) || !e.Undo(s) {
		t.Fatal("expected two undoable records")
	}

	got := s.Points()
	if len(got) != len(original) {
		t.Fatalf("expected %d points, got %d", len(original), len(got))
	}
	for i := range original {
		if got[i] != original[i] {
			t.Errorf("index %d: expected %v, got %v", i, original[i], got[i])
		}
	}
	if s.Selected() != None {
		t.Errorf("selection should be restored to its pre-edit value, got %d", s.Selected())
	}
}

func TestSnapshotIsPreImage(t *testing.T) {
	s := storeWith(geometry.NewPoint(1, 2))
	s.Select(0)

	r := SnapshotRecord(s)
	s.Add(geometry.NewPoint(3, 4))
	s.Move(0, geometry.NewPoint(8, 8))

	if len(r.Points) != 1 || r.Points[0] != geometry.NewPoint(1, 2) {
		t.Error("snapshot must capture the state before the mutation")
	}
	if r.Selected != 0 {
		t.Errorf("snapshot selection: got %d", r.Selected)
	}
}

func TestEvictionBound(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0))
	const depth = 5
	e := NewEngine(depth)

	for i := 1; i <= depth+3; i++ {
		e.Push(MoveRecord{Index: 0, Old: geometry.NewPoint(i-1, 0), New: geometry.NewPoint(i, 0)})
		s.Move(0, geometry.NewPoint(i, 0))
	}

	if e.Len() != depth {
		t.Fatalf("expected stack capped at %d, got %d", depth, e.Len())
	}

	// Only the newest `depth` edits are undoable; the walk stops at the
	// oldest surviving before-value, not at the true origin.
	for e.Undo(s) {
	}
	if p, _ := s.At(0); p != geometry.NewPoint(3, 0) {
		t.Errorf("expected the oldest edits to be evicted, landed on %v", p)
	}
}

func TestClearDropsHistory(t *testing.T) {
	s := storeWith(geometry.NewPoint(0, 0))
	e := NewEngine(10)
	e.Push(SnapshotRecord(s))

	e.Clear()
	if e.Len() != 0 {
		t.Errorf("expected empty stack, got %d", e.Len())
	}
	if e.Undo(s) {
		t.Error("cleared stack should have nothing to undo")
	}
}
