package session

import "github.com/kplabel/kplabel/pkg/geometry"

// Session owns all editing state for the one open image: the keypoint store,
// the undo history, the view state and the viewport geometry. It has no
// rendering surface of its own and is fully drivable from tests.
type Session struct {
	Store *Store
	Undo  *Engine

	view     ViewState
	viewport Viewport

	dirty bool
}

// New creates a session with an empty store and the identity view.
func New() *Session {
	return &Session{
		Store: NewStore(),
		Undo:  NewEngine(DefaultUndoDepth),
		view:  NewViewState(),
	}
}

// View returns the current view state.
func (s *Session) View() ViewState {
	return s.view
}

// Viewport returns the current viewport geometry.
func (s *Session) Viewport() Viewport {
	return s.viewport
}

// SetViewportSize records the widget size; called by the canvas on resize.
func (s *Session) SetViewportSize(width, height float64) {
	s.viewport.Width = width
	s.viewport.Height = height
}

// ImageSize returns the native size of the open image.
func (s *Session) ImageSize() (int, int) {
	return s.viewport.ImageW, s.viewport.ImageH
}

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool {
	return s.viewport.ImageW > 0 && s.viewport.ImageH > 0
}

// LoadImage replaces all editing state for a newly opened image: the
// keypoint sequence is replaced wholesale, selection and recent marker reset,
// the undo history cleared and the view reset to identity.
func (s *Session) LoadImage(width, height int, points []geometry.Point) {
	s.viewport.ImageW = width
	s.viewport.ImageH = height
	s.Store.ReplaceAll(points)
	s.Undo.Clear()
	s.view = NewViewState()
	s.dirty = false
}

// ScreenToImage resolves a screen coordinate against the current view.
func (s *Session) ScreenToImage(sp geometry.Vec2) (geometry.Point, bool) {
	return s.viewport.ScreenToImage(sp, s.view)
}

// ImageToScreen projects an image coordinate into the current view.
func (s *Session) ImageToScreen(p geometry.Point) geometry.Vec2 {
	return s.viewport.ImageToScreen(p, s.view)
}

// AddAt appends a keypoint at an image coordinate (clamped to the image
// bounds), recording a structural undo entry with the pre-add snapshot.
// The new point becomes the selection. Returns the new index.
func (s *Session) AddAt(p geometry.Point) int {
	s.Undo.Push(SnapshotRecord(s.Store))
	i := s.Store.Add(s.clamp(p))
	s.dirty = true
	return i
}

// MovePoint updates a point position live during a drag. No undo entry is
// recorded here; the gesture layer records one MoveRecord per completed drag.
func (s *Session) MovePoint(i int, p geometry.Point) {
	if _, ok := s.Store.At(i); !ok {
		return
	}
	s.Store.Move(i, s.clamp(p))
	s.dirty = true
}

// RecordMove pushes the single undo entry for a completed drag gesture.
func (s *Session) RecordMove(i int, old, new geometry.Point) {
	s.Undo.Push(MoveRecord{Index: i, Old: old, New: new})
}

// NudgeSelected shifts the selected point by a pixel delta. Each nudge is an
// undo step of its own, with the before-value captured prior to the mutation.
// Returns false when nothing is selected or the nudge had no effect.
func (s *Session) NudgeSelected(dx, dy int) bool {
	i := s.Store.Selected()
	old, ok := s.Store.At(i)
	if !ok {
		return false
	}
	next := s.clamp(geometry.NewPoint(old.X+dx, old.Y+dy))
	if next == old {
		return false
	}
	s.Store.Move(i, next)
	s.Undo.Push(MoveRecord{Index: i, Old: old, New: next})
	s.dirty = true
	return true
}

// DeleteSelected removes the selected point, recording a structural entry.
func (s *Session) DeleteSelected() bool {
	return s.deleteIndex(s.Store.Selected())
}

// DeleteRecent removes the most recently added point regardless of cursor
// proximity (the quick-delete gesture). Returns the removed index.
func (s *Session) DeleteRecent() (int, bool) {
	i := s.Store.Recent()
	return i, s.deleteIndex(i)
}

func (s *Session) deleteIndex(i int) bool {
	if _, ok := s.Store.At(i); !ok {
		return false
	}
	s.Undo.Push(SnapshotRecord(s.Store))
	s.Store.Delete(i)
	s.dirty = true
	return true
}

// SwapPoints exchanges two points, recording a structural entry.
func (s *Session) SwapPoints(i, j int) bool {
	if i == j {
		return false
	}
	snapshot := SnapshotRecord(s.Store)
	if !s.Store.Swap(i, j) {
		return false
	}
	s.Undo.Push(snapshot)
	s.dirty = true
	return true
}

// ReorderPoints replaces the sequence after a drag-reorder in the list view,
// recording a structural entry.
func (s *Session) ReorderPoints(points []geometry.Point) {
	s.Undo.Push(SnapshotRecord(s.Store))
	s.Store.Reorder(points)
	s.dirty = true
}

// ClearPoints removes all points, recording a structural entry. Clearing an
// already empty sequence is a no-op.
func (s *Session) ClearPoints() bool {
	if s.Store.Len() == 0 {
		return false
	}
	s.Undo.Push(SnapshotRecord(s.Store))
	s.Store.Clear()
	s.dirty = true
	return true
}

// UndoLast reverses the most recent edit. Returns false when there is
// nothing to undo.
func (s *Session) UndoLast() bool {
	if !s.Undo.Undo(s.Store) {
		return false
	}
	s.dirty = true
	return true
}

// ZoomAt zooms anchored at a focal screen point.
func (s *Session) ZoomAt(focal geometry.Vec2, factor float64) {
	s.view = s.viewport.ZoomAt(focal, factor, s.view)
}

// ZoomStep zooms anchored at the viewport center, for menu and toolbar zoom.
func (s *Session) ZoomStep(factor float64) {
	center := geometry.NewVec2(s.viewport.Width/2, s.viewport.Height/2)
	s.view = s.viewport.ZoomAt(center, factor, s.view)
}

// PanBy accumulates a screen-space delta into the pan offset.
func (s *Session) PanBy(delta geometry.Vec2) {
	s.view.Pan = s.view.Pan.Add(delta)
}

// ResetView restores the identity view (fit to window).
func (s *Session) ResetView() {
	s.view = NewViewState()
}

// Dirty reports whether the sequence changed since the last save or load.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Session) MarkSaved() {
	s.dirty = false
}

func (s *Session) clamp(p geometry.Point) geometry.Point {
	if !s.HasImage() {
		return p
	}
	return p.Clamp(s.viewport.ImageW, s.viewport.ImageH)
}
