package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mojwgsl/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [project-dir]",
	Short: "Remove the translation cache",
	Long: `Remove the on-disk translation cache. With --outputs the project's WGSL
output directory is removed as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("outputs", false, "also remove the project output directory")
}

func runClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	dir, err := cache.DefaultDir("mojwgsl")
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintf(out, "cache directory not found\n")
	} else {
		dc, err := cache.Open(dir)
		if err != nil {
			return err
		}
		if err := dc.DropAll(); err != nil {
			return fmt.Errorf("failed to remove %q: %w", dir, err)
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", dir)
	}

	withOutputs, _ := cmd.Flags().GetBool("outputs")
	if !withOutputs {
		return nil
	}
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	manifest, _, err := loadProjectManifest(base)
	if err != nil {
		return err
	}
	outDir := manifest.outDir()
	info, err := os.Stat(outDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintf(out, "output directory not found\n")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", outDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", outDir)
	}
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", outDir, err)
	}
	_, _ = fmt.Fprintf(out, "removed %s\n", outDir)
	return nil
}
