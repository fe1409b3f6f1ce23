package session

import "github.com/kplabel/kplabel/pkg/geometry"

// DefaultUndoDepth bounds the undo history; the oldest entries are evicted
// first once the bound is reached.
const DefaultUndoDepth = 50

// Record is one reversible edit. The two implementations differ in
// granularity: point moves are frequent and store only the affected point,
// structural changes are rare and store the full pre-mutation snapshot.
type Record interface {
	undo(s *Store)
}

// MoveRecord reverts a single point to its position before a move.
type MoveRecord struct {
	Index int
	Old   geometry.Point
	New   geometry.Point
}

func (r MoveRecord) undo(s *Store) {
	s.Move(r.Index, r.Old)
	s.Select(r.Index)
}

// StructuralRecord reverts an add, delete, swap or reorder by restoring the
// complete sequence and selection captured before the mutation.
type StructuralRecord struct {
	Points   []geometry.Point
	Selected int
	Recent   int
}

func (r StructuralRecord) undo(s *Store) {
	s.restore(r.Points, r.Selected, r.Recent)
}

// Engine is a bounded undo stack: LIFO replay, FIFO eviction at capacity.
type Engine struct {
	records []Record
	depth   int
}

// NewEngine creates an undo engine with the given maximum depth.
// Non-positive depths fall back to DefaultUndoDepth.
func NewEngine(depth int) *Engine {
	if depth <= 0 {
		depth = DefaultUndoDepth
	}
	return &Engine{depth: depth}
}

// Push records an edit, evicting the oldest record when at capacity.
func (e *Engine) Push(r Record) {
	if len(e.records) >= e.depth {
		e.records = e.records[1:]
	}
	e.records = append(e.records, r)
}

// Undo pops the most recent record and applies its reversal to the store.
// Returns false, with no effect, when the stack is empty.
func (e *Engine) Undo(s *Store) bool {
	if len(e.records) == 0 {
		return false
	}
	r := e.records[len(e.records)-1]
	e.records = e.records[:len(e.records)-1]
	r.undo(s)
	return true
}

// Len returns the number of recorded edits.
func (e *Engine) Len() int {
	return len(e.records)
}

// Clear drops the whole history. Called when the keypoint sequence is
// replaced wholesale: undo never crosses image boundaries.
func (e *Engine) Clear() {
	e.records = nil
}

// SnapshotRecord captures the store's current state as the pre-image for a
// structural mutation about to be applied.
func SnapshotRecord(s *Store) StructuralRecord {
	return StructuralRecord{
		Points:   s.Points(),
		Selected: s.Selected(),
		Recent:   s.Recent(),
	}
}
