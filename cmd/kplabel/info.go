package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kplabel/kplabel/pkg/analysis"
	"github.com/kplabel/kplabel/pkg/sidecar"
)

var infoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Display annotation statistics for an image",
	Long:  "Show the keypoint count, extent and path statistics stored in the image's sidecar file.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	imagePath := args[0]
	scPath := sidecar.PathFor(imagePath)

	doc, err := sidecar.Load(scPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sidecar: %v\n", err)
		os.Exit(1)
	}

	result := analysis.AnalyzeKeypoints(doc.Coords)

	fmt.Println("Annotation Information")
	fmt.Println("======================")
	fmt.Printf("Image: %s\n", imagePath)
	fmt.Printf("Sidecar: %s\n\n", scPath)

	fmt.Printf("Points: %d\n", result.PointCount)
	if keys := doc.ExtraKeys(); len(keys) > 0 {
		fmt.Printf("Foreign keys: %v\n", keys)
	}
	if result.PointCount == 0 {
		return
	}

	fmt.Println("\nExtent:")
	fmt.Printf("  Min: %s\n", analysis.FormatPoint(result.BoundingMin))
	fmt.Printf("  Max: %s\n", analysis.FormatPoint(result.BoundingMax))
	w, h := result.BoundingSize()
	fmt.Printf("  Size: %d x %d px\n", w, h)
	fmt.Printf("  Centroid: (%.2f, %.2f)\n", result.Centroid.X, result.Centroid.Y)

	if len(result.Segments) > 0 {
		fmt.Println("\nPath:")
		fmt.Printf("  Total length: %s\n", analysis.FormatLength(result.TotalPathLength))
		fmt.Printf("  Segment minimum: %s\n", analysis.FormatLength(result.MinSegmentLength))
		fmt.Printf("  Segment maximum: %s\n", analysis.FormatLength(result.MaxSegmentLength))
		fmt.Printf("  Segment average: %s\n", analysis.FormatLength(result.AvgSegmentLength))
	}
}
