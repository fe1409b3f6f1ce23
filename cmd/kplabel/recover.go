package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kplabel/kplabel/pkg/sidecar"
)

var recoverWrite bool

var recoverCmd = &cobra.Command{
	Use:   "recover [sidecar]",
	Short: "Salvage keypoints from a damaged sidecar file",
	Long: `Scan a truncated or malformed sidecar for its coordinate list and print
the recovered keypoints. With --write the sidecar is rewritten in place;
foreign keys that may have been in the file are not recoverable.`,
	Args: cobra.ExactArgs(1),
	Run:  runRecover,
}

func init() {
	recoverCmd.Flags().BoolVar(&recoverWrite, "write", false, "rewrite the sidecar with the recovered points")
	rootCmd.AddCommand(recoverCmd)
}

func runRecover(cmd *cobra.Command, args []string) {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	points, err := sidecar.Recover(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recovered %d keypoints:\n", len(points))
	for i, p := range points {
		fmt.Printf("  %d: (%d, %d)\n", i+1, p.X, p.Y)
	}

	if !recoverWrite {
		return
	}
	doc := sidecar.New()
	doc.SetCoords(points)
	warning, err := sidecar.Save(doc, path)
	if warning != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", warning)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rewrote %s\n", path)
}
