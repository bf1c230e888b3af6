package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"go-avatar-processor/internal/container"
	"go-avatar-processor/pkg/models"
)

var processOpts struct {
	outputDir     string
	printMetadata bool
}

var processCmd = &cobra.Command{
	Use:   "process <input...>",
	Short: "Process one or more images into avatars",
	Long: `Process reads each input (local path, http(s) URL or azure://container/blob
reference), runs it through the avatar pipeline and writes the resulting PNG
to the output directory. Multiple inputs are processed concurrently, one
pipeline invocation per worker.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runProcess(cmd.Context(), args)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOpts.outputDir, "output-dir", "o", ".", "Directory for processed avatars")
	processCmd.Flags().BoolVarP(&processOpts.printMetadata, "metadata", "m", false, "Print processing metadata as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(ctx context.Context, refs []string) error {
	c, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer c.Close()

	if err := os.MkdirAll(processOpts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	uploads := make([]models.RawUpload, 0, len(refs))
	for _, ref := range refs {
		source, err := c.SourceForRef(ref)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", ref, err)
		}
		upload, err := source.Fetch(ctx, ref)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", ref, err)
		}
		uploads = append(uploads, *upload)
	}

	items := c.Service().CreateAvatars(ctx, uploads)

	var failures int
	for _, item := range items {
		if item.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", item.Filename, item.Err)
			continue
		}

		outPath := filepath.Join(processOpts.outputDir, item.Result.OutputFilename)
		if err := os.WriteFile(outPath, item.Result.PNG, 0o644); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: failed to write output: %v\n", item.Filename, err)
			continue
		}

		fmt.Printf("%s -> %s\n", item.Filename, outPath)
		if processOpts.printMetadata {
			encoded, err := json.MarshalIndent(item.Result, "", "  ")
			if err == nil {
				fmt.Println(string(encoded))
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d inputs failed", failures, len(items))
	}
	return nil
}
