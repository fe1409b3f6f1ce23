package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kplabel/kplabel/internal/app"
	"github.com/kplabel/kplabel/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kplabel [file or folder]",
	Short: "Interactive keypoint annotation for medical and raster images",
	Long: `kplabel is an annotation tool for placing ordered 2D keypoints on
DICOM and raster images. Annotations are stored as JSON sidecar files next
to each image and can be exported to COCO keypoint files or PDF reports.`,
	Version: version.GetFullVersion(),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return app.Run(path)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
