package sidecar

import (
	"errors"
	"regexp"

	"github.com/kplabel/kplabel/pkg/geometry"
)

// Recovery for truncated or hand-mangled sidecars: instead of a full JSON
// parse, locate the coordinate key and scrape every integer pair after it.
// This loses foreign keys but salvages the annotation work.
var (
	coordKeyPattern = regexp.MustCompile(`"coord"\s*:\s*\[`)
	pairPattern     = regexp.MustCompile(`\[(\d+),\s*(\d+)\]`)
)

// ErrNoCoordinates means the damaged data held no recognizable coordinate
// list.
var ErrNoCoordinates = errors.New("sidecar: no coordinate list found")

// Recover scrapes keypoints out of damaged sidecar data. Returns
// ErrNoCoordinates when the coordinate key is absent entirely; a present
// but empty list recovers as zero points.
func Recover(data []byte) ([]geometry.Point, error) {
	loc := coordKeyPattern.FindIndex(data)
	if loc == nil {
		return nil, ErrNoCoordinates
	}

	var points []geometry.Point
	for _, m := range pairPattern.FindAllSubmatch(data[loc[1]:], -1) {
		points = append(points, geometry.NewPoint(atoi(m[1]), atoi(m[2])))
	}
	return points, nil
}

// atoi parses digits already matched by \d+, so no error path.
func atoi(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}
