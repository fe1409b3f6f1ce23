// Package gesture interprets pointer and keyboard events into keypoint
// editing operations. The event types are plain structs so the state machine
// can be driven by synthetic sequences in tests, independent of any toolkit.
package gesture

import "github.com/kplabel/kplabel/pkg/geometry"

// State enumerates the gesture machine states.
type State int

const (
	// Idle means no pointer gesture is in progress.
	Idle State = iota
	// Dragging means a primary press selected or created a point which now
	// follows the pointer until release.
	Dragging
	// Panning means pointer movement accumulates into the pan offset.
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Mods is a bitmask of held modifier keys. Space acts as a transient pan
// modifier while held.
type Mods uint8

const (
	ModControl Mods = 1 << iota
	ModShift
	ModSpace
)

// Key identifies the keyboard inputs the router understands.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeyZ
)

// PressEvent is a pointer button press at a screen position.
type PressEvent struct {
	Pos    geometry.Vec2
	Button Button
	Mods   Mods
}

// MoveEvent is a pointer move while a button is held.
type MoveEvent struct {
	Pos geometry.Vec2
}

// ReleaseEvent is a pointer button release.
type ReleaseEvent struct {
	Pos    geometry.Vec2
	Button Button
}

// WheelEvent is a scroll wheel tick at a screen position. DeltaY is positive
// for scrolling up.
type WheelEvent struct {
	Pos    geometry.Vec2
	DeltaY float64
	Mods   Mods
}

// KeyEvent is a discrete key press.
type KeyEvent struct {
	Key  Key
	Mods Mods
}
