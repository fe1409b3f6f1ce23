package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kplabel/kplabel/internal/export"
	"github.com/kplabel/kplabel/pkg/dicomimg"
	"github.com/kplabel/kplabel/pkg/imageio"
	"github.com/kplabel/kplabel/pkg/sidecar"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export annotations to other formats",
}

var exportCocoCmd = &cobra.Command{
	Use:   "coco [image]",
	Short: "Export the image's keypoints as a COCO keypoint file",
	Args:  cobra.ExactArgs(1),
	Run:   runExportCoco,
}

var exportPdfCmd = &cobra.Command{
	Use:   "pdf [image]",
	Short: "Export the image's keypoints as a PDF report",
	Args:  cobra.ExactArgs(1),
	Run:   runExportPdf,
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default: derived from the image name)")
	exportCmd.AddCommand(exportCocoCmd)
	exportCmd.AddCommand(exportPdfCmd)
	rootCmd.AddCommand(exportCmd)
}

// imageSize reads the pixel dimensions of a raster or DICOM image.
func imageSize(path string) (int, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".dcm") {
		img, err := dicomimg.Load(path)
		if err != nil {
			return 0, 0, err
		}
		return img.Width, img.Height, nil
	}
	return imageio.Size(path)
}

func loadForExport(imagePath string) (*sidecar.Document, int, int) {
	doc, err := sidecar.Load(sidecar.PathFor(imagePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sidecar: %v\n", err)
		os.Exit(1)
	}
	w, h, err := imageSize(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
		os.Exit(1)
	}
	return doc, w, h
}

func outputPath(imagePath, suffix string) string {
	if exportOutput != "" {
		return exportOutput
	}
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + suffix
}

func runExportCoco(cmd *cobra.Command, args []string) {
	imagePath := args[0]
	doc, w, h := loadForExport(imagePath)

	target := outputPath(imagePath, ".coco.json")
	if err := doc.ExportCOCO(target, filepath.Base(imagePath), w, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d keypoints to %s\n", len(doc.Coords), target)
}

func runExportPdf(cmd *cobra.Command, args []string) {
	imagePath := args[0]
	doc, w, h := loadForExport(imagePath)

	target := outputPath(imagePath, ".report.pdf")
	report := export.Report{
		ImageName:   filepath.Base(imagePath),
		ImageWidth:  w,
		ImageHeight: h,
		Points:      doc.Coords,
	}
	if err := export.WritePDFFile(target, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote report for %d keypoints to %s\n", len(doc.Coords), target)
}
