// Package analysis computes summary statistics over an ordered keypoint
// sequence: spatial extent, inter-point distances and simple sequence
// transforms used by the reporting commands.
package analysis

import (
	"fmt"
	"math"

	"github.com/kplabel/kplabel/pkg/geometry"
)

// SegmentInfo describes one segment of the keypoint polyline, connecting
// consecutive points of the sequence.
type SegmentInfo struct {
	Start  geometry.Point
	End    geometry.Point
	Length float64
	Index  int
}

// KeypointResult contains the measurements of one keypoint sequence.
type KeypointResult struct {
	PointCount       int
	Centroid         geometry.Vec2
	BoundingMin      geometry.Point
	BoundingMax      geometry.Point
	TotalPathLength  float64
	MinSegmentLength float64
	MaxSegmentLength float64
	AvgSegmentLength float64
	Segments         []SegmentInfo
}

// AnalyzeKeypoints measures an ordered keypoint sequence. An empty sequence
// yields a zero result; a single point has extent but no segments.
func AnalyzeKeypoints(points []geometry.Point) *KeypointResult {
	result := &KeypointResult{
		PointCount: len(points),
		Segments:   make([]SegmentInfo, 0),
	}
	if len(points) == 0 {
		return result
	}

	sumX, sumY := 0.0, 0.0
	result.BoundingMin = points[0]
	result.BoundingMax = points[0]
	for _, p := range points {
		sumX += float64(p.X)
		sumY += float64(p.Y)
		if p.X < result.BoundingMin.X {
			result.BoundingMin.X = p.X
		}
		if p.Y < result.BoundingMin.Y {
			result.BoundingMin.Y = p.Y
		}
		if p.X > result.BoundingMax.X {
			result.BoundingMax.X = p.X
		}
		if p.Y > result.BoundingMax.Y {
			result.BoundingMax.Y = p.Y
		}
	}
	result.Centroid = geometry.NewVec2(sumX/float64(len(points)), sumY/float64(len(points)))

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for i := 1; i < len(points); i++ {
		length := points[i-1].Distance(points[i])
		result.Segments = append(result.Segments, SegmentInfo{
			Start:  points[i-1],
			End:    points[i],
			Length: length,
			Index:  i - 1,
		})
		totalLength += length
		if length < minLength {
			minLength = length
		}
		if length > maxLength {
			maxLength = length
		}
	}

	if len(result.Segments) > 0 {
		result.TotalPathLength = totalLength
		result.MinSegmentLength = minLength
		result.MaxSegmentLength = maxLength
		result.AvgSegmentLength = totalLength / float64(len(result.Segments))
	}

	return result
}

// BoundingSize returns the width and height of the bounding box, inclusive
// of both edge points.
func (r *KeypointResult) BoundingSize() (int, int) {
	if r.PointCount == 0 {
		return 0, 0
	}
	return r.BoundingMax.X - r.BoundingMin.X + 1, r.BoundingMax.Y - r.BoundingMin.Y + 1
}

// Smooth applies a moving-average filter over the sequence with the given
// half-window. Endpoints keep shrunken windows so the sequence length is
// preserved. A half-window below 1 returns a plain copy.
func Smooth(points []geometry.Point, halfWindow int) []geometry.Point {
	out := make([]geometry.Point, len(points))
	if halfWindow < 1 {
		copy(out, points)
		return out
	}
	for i := range points {
		lo := i - halfWindow
		if lo < 0 {
			lo = 0
		}
		hi := i + halfWindow
		if hi > len(points)-1 {
			hi = len(points) - 1
		}
		sumX, sumY := 0.0, 0.0
		for j := lo; j <= hi; j++ {
			sumX += float64(points[j].X)
			sumY += float64(points[j].Y)
		}
		n := float64(hi - lo + 1)
		out[i] = geometry.NewVec2(sumX/n, sumY/n).Round()
	}
	return out
}

// Resample interpolates the keypoint polyline to a sequence of `count`
// evenly spaced points along its path. Fewer than two input points or a
// count below 2 returns a plain copy.
func Resample(points []geometry.Point, count int) []geometry.Point {
	if len(points) < 2 || count < 2 {
		return append([]geometry.Point(nil), points...)
	}

	// Cumulative arc length per input point.
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + points[i-1].Distance(points[i])
	}
	total := cum[len(cum)-1]
	if total == 0 {
		out := make([]geometry.Point, count)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	out := make([]geometry.Point, count)
	seg := 1
	for i := 0; i < count; i++ {
		target := total * float64(i) / float64(count-1)
		for seg < len(points)-1 && cum[seg] < target {
			seg++
		}
		span := cum[seg] - cum[seg-1]
		t := 0.0
		if span > 0 {
			t = (target - cum[seg-1]) / span
		}
		a, b := points[seg-1].ToVec2(), points[seg].ToVec2()
		out[i] = a.Add(b.Sub(a).Mul(t)).Round()
	}
	return out
}

// FormatPoint formats a keypoint for reports.
func FormatPoint(p geometry.Point) string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// FormatLength formats a pixel distance for reports.
func FormatLength(value float64) string {
	return fmt.Sprintf("%.2f px", value)
}
