// Package dicomimg loads single-frame DICOM images and renders them to
// displayable grayscale through a window/level transform.
package dicomimg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Image is a decoded DICOM frame: raw stored values with the rescale
// transform already applied, plus the display hints read from the file.
type Image struct {
	Width  int
	Height int

	// DefaultWindow is the window read from the file, or a window spanning
	// the pixel range when the file carries none.
	DefaultWindow WindowLevel

	// Monochrome1 means low values render bright (inverted grayscale).
	Monochrome1 bool

	pixels []int32
}

// NewImage builds an image from rescaled pixel values in row-major order.
// Mainly useful for tests and synthetic data.
func NewImage(width, height int, pixels []int32) (*Image, error) {
	if len(pixels) != width*height {
		return nil, fmt.Errorf("dicomimg: %d pixels for %dx%d image", len(pixels), width, height)
	}
	img := &Image{Width: width, Height: height, pixels: pixels}
	img.DefaultWindow = windowFromRange(img)
	return img, nil
}

// At returns the rescaled stored value at (x, y).
func (img *Image) At(x, y int) int32 {
	return img.pixels[y*img.Width+x]
}

// Load parses a DICOM file and decodes its first frame.
func Load(path string) (*Image, error) {
	dataset, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse dicom %s: %w", path, err)
	}

	rows, ok := firstInt(&dataset, tag.Rows)
	if !ok {
		return nil, fmt.Errorf("dicom %s: missing Rows", path)
	}
	cols, ok := firstInt(&dataset, tag.Columns)
	if !ok {
		return nil, fmt.Errorf("dicom %s: missing Columns", path)
	}

	slope, ok := firstFloat(&dataset, tag.RescaleSlope)
	if !ok {
		slope = 1
	}
	intercept, ok := firstFloat(&dataset, tag.RescaleIntercept)
	if !ok {
		intercept = 0
	}

	pixelEl, err := dataset.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("dicom %s: missing PixelData", path)
	}
	info := dicom.MustGetPixelDataInfo(pixelEl.Value)
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("dicom %s: no frames", path)
	}
	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return nil, fmt.Errorf("dicom %s: unsupported encapsulated pixel data: %w", path, err)
	}
	if len(native.Data) < rows*cols {
		return nil, fmt.Errorf("dicom %s: frame holds %d pixels, need %d", path, len(native.Data), rows*cols)
	}

	img := &Image{
		Width:  cols,
		Height: rows,
		pixels: make([]int32, rows*cols),
	}
	for i := 0; i < rows*cols; i++ {
		// First sample only: multi-sample DICOM is out of range here.
		img.pixels[i] = int32(float64(native.Data[i][0])*slope + intercept)
	}

	if pi, ok := firstString(&dataset, tag.PhotometricInterpretation); ok {
		img.Monochrome1 = strings.TrimSpace(pi) == "MONOCHROME1"
	}

	center, okC := firstFloat(&dataset, tag.WindowCenter)
	width, okW := firstFloat(&dataset, tag.WindowWidth)
	if okC && okW {
		img.DefaultWindow = WindowLevel{Level: int(center), Width: int(width)}.Clamp()
	} else {
		img.DefaultWindow = windowFromRange(img)
	}
	return img, nil
}

// windowFromRange derives a full-range window for files without display
// hints.
func windowFromRange(img *Image) WindowLevel {
	if len(img.pixels) == 0 {
		return PresetGeneral.Window
	}
	lo, hi := img.pixels[0], img.pixels[0]
	for _, v := range img.pixels {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return WindowLevel{
		Level: int(lo+hi) / 2,
		Width: int(hi-lo) + 1,
	}.Clamp()
}

// firstInt pulls the first value of a tag as an int. DICOM stores some
// numeric attributes as decimal strings, so both forms are accepted.
func firstInt(ds *dicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	switch v := el.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0], true
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func firstFloat(ds *dicom.Dataset, t tag.Tag) (float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	switch v := el.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []string:
		if len(v) > 0 {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v[0]), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstString(ds *dicom.Dataset, t tag.Tag) (string, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return "", false
	}
	if v, ok := el.Value.GetValue().([]string); ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}
