// Package navigate walks the annotatable images of a folder in natural
// name order, so scan2.png comes before scan10.png.
package navigate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// supportedExtensions lists the image types the tool can open, lower case.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".dcm":  true,
}

// IsSupported reports whether a path has an annotatable image extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ErrEmptyFolder means the folder holds no supported images.
var ErrEmptyFolder = errors.New("navigate: no supported images in folder")

// List returns the supported image files of a directory, natural-sorted by
// file name. Subdirectories are not descended into.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Slice(files, func(i, j int) bool {
		return natural.Less(filepath.Base(files[i]), filepath.Base(files[j]))
	})
	return files, nil
}

// Navigator iterates the image files of one folder.
type Navigator struct {
	files []string
	index int

	// OnChange, when set, fires after every successful position change.
	OnChange func(index int, path string)
}

// NewNavigator builds a navigator over the folder containing `path`. If
// `path` is itself a supported file, navigation starts there; if it is a
// directory, navigation starts at the first image.
func NewNavigator(path string) (*Navigator, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	dir := path
	start := ""
	if !info.IsDir() {
		dir = filepath.Dir(path)
		start = filepath.Clean(path)
	}

	files, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrEmptyFolder
	}

	n := &Navigator{files: files}
	if start != "" {
		for i, f := range files {
			if filepath.Clean(f) == start {
				n.index = i
				break
			}
		}
	}
	return n, nil
}

// Len returns the number of images.
func (n *Navigator) Len() int {
	return len(n.files)
}

// Position returns the 1-based index of the current image, for status
// display.
func (n *Navigator) Position() int {
	return n.index + 1
}

// Current returns the current image path.
func (n *Navigator) Current() string {
	return n.files[n.index]
}

// Files returns the full ordered file list.
func (n *Navigator) Files() []string {
	return append([]string(nil), n.files...)
}

// Next advances to the following image. At the end of the folder it stays
// put and reports false.
func (n *Navigator) Next() bool {
	if n.index >= len(n.files)-1 {
		return false
	}
	n.index++
	n.notify()
	return true
}

// Prev steps back to the previous image. At the start of the folder it
// stays put and reports false.
func (n *Navigator) Prev() bool {
	if n.index <= 0 {
		return false
	}
	n.index--
	n.notify()
	return true
}

// JumpTo moves to the 0-based index, reporting false when out of range.
func (n *Navigator) JumpTo(i int) bool {
	if i < 0 || i >= len(n.files) {
		return false
	}
	n.index = i
	n.notify()
	return true
}

func (n *Navigator) notify() {
	if n.OnChange != nil {
		n.OnChange(n.index, n.files[n.index])
	}
}
