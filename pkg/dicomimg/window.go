package dicomimg

import "image"

// Window/level bounds, matching the interactive drag clamps.
const (
	MinWindowWidth = 1
	MaxWindowWidth = 4000
	MinWindowLevel = -2000
	MaxWindowLevel = 2000
)

// WindowLevel is a grayscale display window: Level is the stored value
// mapped to mid-gray, Width the span of values spread across the output
// range.
type WindowLevel struct {
	Level int
	Width int
}

// Clamp bounds the window to the interactive range.
func (w WindowLevel) Clamp() WindowLevel {
	if w.Width < MinWindowWidth {
		w.Width = MinWindowWidth
	}
	if w.Width > MaxWindowWidth {
		w.Width = MaxWindowWidth
	}
	if w.Level < MinWindowLevel {
		w.Level = MinWindowLevel
	}
	if w.Level > MaxWindowLevel {
		w.Level = MaxWindowLevel
	}
	return w
}

// Adjust shifts the window by drag deltas and re-clamps.
func (w WindowLevel) Adjust(dLevel, dWidth int) WindowLevel {
	w.Level += dLevel
	w.Width += dWidth
	return w.Clamp()
}

// Preset is a named window for common tissue types.
type Preset struct {
	Name   string
	Window WindowLevel
}

var (
	PresetSoftTissue = Preset{Name: "Soft Tissue", Window: WindowLevel{Level: 40, Width: 400}}
	PresetBone       = Preset{Name: "Bone", Window: WindowLevel{Level: 300, Width: 1500}}
	PresetLung       = Preset{Name: "Lung", Window: WindowLevel{Level: -600, Width: 1600}}
	PresetGeneral    = Preset{Name: "General", Window: WindowLevel{Level: 0, Width: 255}}
)

// Presets lists the built-in windows in menu order.
func Presets() []Preset {
	return []Preset{PresetSoftTissue, PresetBone, PresetLung, PresetGeneral}
}

// Render maps the image through a window/level transform into an 8-bit
// grayscale picture. Values at or below the window floor go to 0, at or
// above the ceiling to 255, linear in between; MONOCHROME1 files invert.
func (img *Image) Render(w WindowLevel) *image.Gray {
	w = w.Clamp()
	lo := float64(w.Level) - float64(w.Width)/2
	scale := 255.0 / float64(w.Width)

	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for i, v := range img.pixels {
		g := (float64(v) - lo) * scale
		if g < 0 {
			g = 0
		}
		if g > 255 {
			g = 255
		}
		b := uint8(g)
		if img.Monochrome1 {
			b = 255 - b
		}
		out.Pix[i] = b
	}
	return out
}
