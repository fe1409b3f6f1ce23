// Package sidecar reads and writes the per-image keypoint annotation file.
// Annotations live next to the image they describe, in a small JSON document
// whose "coord" key holds the ordered keypoint list. Keys the tool does not
// know about are preserved byte-for-byte across a load/save cycle so other
// tooling can park metadata in the same file.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kplabel/kplabel/pkg/geometry"
)

// coordKey is the top-level key holding the keypoint list.
const coordKey = "coord"

// Document is one sidecar file in memory.
type Document struct {
	// Coords is the ordered keypoint sequence.
	Coords []geometry.Point
	// Extra holds every top-level key other than the coordinate list,
	// untouched raw JSON keyed by name.
	Extra map[string]json.RawMessage
}

// New returns an empty document.
func New() *Document {
	return &Document{Extra: map[string]json.RawMessage{}}
}

// PathFor derives the sidecar path for an image: same directory, same base
// name, ".json" extension.
func PathFor(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".json"
}

// Load reads a sidecar file. A missing file is not an error: annotation
// starts from an empty document. Malformed JSON is an error; callers that
// want to salvage coordinates from a damaged file use Recover.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes sidecar JSON.
func Parse(data []byte) (*Document, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := New()
	if coords, ok := raw[coordKey]; ok {
		var pairs [][2]int
		if err := json.Unmarshal(coords, &pairs); err != nil {
			return nil, fmt.Errorf("decode %q: %w", coordKey, err)
		}
		doc.Coords = make([]geometry.Point, len(pairs))
		for i, p := range pairs {
			doc.Coords[i] = geometry.NewPoint(p[0], p[1])
		}
		delete(raw, coordKey)
	}
	doc.Extra = raw
	return doc, nil
}

// Encode renders the document as JSON. The coordinate list is always
// present, even when empty, so a sidecar written by the tool is recognizable
// as such.
func (d *Document) Encode() ([]byte, error) {
	raw := map[string]json.RawMessage{}
	for k, v := range d.Extra {
		raw[k] = v
	}

	pairs := make([][2]int, len(d.Coords))
	for i, p := range d.Coords {
		pairs[i] = [2]int{p.X, p.Y}
	}
	coords, err := json.Marshal(pairs)
	if err != nil {
		return nil, err
	}
	raw[coordKey] = coords

	return json.MarshalIndent(raw, "", "  ")
}

// Save writes the document atomically: encode to a temporary file in the
// target directory, then rename over the destination. If a previous version
// exists it is copied aside as a timestamped backup first; a failed backup
// is reported to the caller through the returned warning but never blocks
// the save itself.
func Save(doc *Document, path string) (warning error, err error) {
	data, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode sidecar: %w", err)
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if bakErr := writeBackup(path); bakErr != nil {
			warning = fmt.Errorf("backup %s: %w", path, bakErr)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return warning, fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return warning, fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return warning, fmt.Errorf("rename %s: %w", path, err)
	}
	return warning, nil
}

// SetCoords replaces the coordinate list with a copy of the given points.
func (d *Document) SetCoords(points []geometry.Point) {
	d.Coords = append([]geometry.Point(nil), points...)
}

// sortedExtraKeys is used by callers that want deterministic reporting of
// the preserved foreign keys.
func (d *Document) sortedExtraKeys() []string {
	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtraKeys lists the preserved foreign top-level keys in sorted order.
func (d *Document) ExtraKeys() []string {
	return d.sortedExtraKeys()
}
