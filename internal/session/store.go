package session

import "github.com/kplabel/kplabel/pkg/geometry"

// None is the sentinel for "no selection" and "no recent point".
const None = -1

// Store is the ordered, mutable keypoint sequence of one open image together
// with its selection state. Point identity is positional: the exported index
// of a point is its array position, so structural mutations change which
// point an index refers to.
type Store struct {
	points   []geometry.Point
	selected int
	recent   int
}

// NewStore creates an empty store with no selection.
func NewStore() *Store {
	return &Store{selected: None, recent: None}
}

// Len returns the number of points.
func (s *Store) Len() int {
	return len(s.points)
}

// Points returns a copy of the point sequence.
func (s *Store) Points() []geometry.Point {
	out := make([]geometry.Point, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the point at index i, ok=false when out of range.
func (s *Store) At(i int) (geometry.Point, bool) {
	if i < 0 || i >= len(s.points) {
		return geometry.Point{}, false
	}
	return s.points[i], true
}

// Selected returns the currently selected index, or None.
func (s *Store) Selected() int {
	return s.selected
}

// Recent returns the most recently added index, or None.
func (s *Store) Recent() int {
	return s.recent
}

// Select sets the current selection. Out-of-range indices select nothing.
func (s *Store) Select(i int) {
	if i < 0 || i >= len(s.points) {
		s.selected = None
		return
	}
	s.selected = i
}

// Add appends a point and returns its index. The new point becomes both the
// selection and the most recently added point.
func (s *Store) Add(p geometry.Point) int {
	s.points = append(s.points, p)
	i := len(s.points) - 1
	s.selected = i
	s.recent = i
	return i
}

// Move replaces the point at index i. Out-of-range indices are silently
// ignored: stale indices arise from normal mouse slop and must not interrupt
// the editing flow.
func (s *Store) Move(i int, p geometry.Point) {
	if i < 0 || i >= len(s.points) {
		return
	}
	s.points[i] = p
}

// Delete removes the point at index i, shifting higher indices down by one.
// The selection follows the same logical point: it becomes None when the
// deleted point was selected and decrements when it was above the deleted
// index. The recent marker behaves the same way. Out of range is a no-op.
func (s *Store) Delete(i int) bool {
	if i < 0 || i >= len(s.points) {
		return false
	}
	s.points = append(s.points[:i], s.points[i+1:]...)
	s.selected = shiftAfterDelete(s.selected, i)
	s.recent = shiftAfterDelete(s.recent, i)
	return true
}

func shiftAfterDelete(index, deleted int) int {
	switch {
	case index == deleted:
		return None
	case index > deleted:
		return index - 1
	default:
		return index
	}
}

// Swap exchanges the points at two positions. Selection indices are not
// adjusted; the consuming layer re-resolves them.
func (s *Store) Swap(i, j int) bool {
	if i < 0 || i >= len(s.points) || j < 0 || j >= len(s.points) {
		return false
	}
	s.points[i], s.points[j] = s.points[j], s.points[i]
	return true
}

// Reorder replaces the sequence wholesale after a drag-reorder in a list
// view. The selection index is left as-is and is invalid until the caller
// re-resolves it; the recent marker is invalidated.
func (s *Store) Reorder(points []geometry.Point) {
	s.points = make([]geometry.Point, len(points))
	copy(s.points, points)
	if s.selected >= len(s.points) {
		s.selected = None
	}
	s.recent = None
}

// Clear empties the sequence and resets the selection.
func (s *Store) Clear() {
	s.points = nil
	s.selected = None
	s.recent = None
}

// ReplaceAll installs the keypoints of a newly loaded image. Selection and
// recent marker are reset; the caller is responsible for clearing the undo
// history alongside (undo never crosses image boundaries).
func (s *Store) ReplaceAll(points []geometry.Point) {
	s.points = make([]geometry.Point, len(points))
	copy(s.points, points)
	s.selected = None
	s.recent = None
}

// restore installs a full snapshot, used by the undo engine.
func (s *Store) restore(points []geometry.Point, selected, recent int) {
	s.points = make([]geometry.Point, len(points))
	copy(s.points, points)
	s.selected = selected
	s.recent = recent
}
