package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "avatarctl",
	Short: "Turn arbitrary photos into standardized square avatars",
	Long: `avatarctl runs the avatar processing pipeline: face-centered square
cropping, portrait enhancement, background removal and resizing, producing a
PNG with a transparent background plus a processing metadata record.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
