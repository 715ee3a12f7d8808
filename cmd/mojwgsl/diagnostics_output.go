package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/diagfmt"
	"mojwgsl/internal/source"
)

func checkDiagFormat(format string) error {
	switch format {
	case "pretty", "short", "json":
		return nil
	default:
		return fmt.Errorf("unknown format: %s (expected pretty|short|json)", format)
	}
}

// minSeverity reads --min-severity; JSON output always carries everything.
func minSeverity(cmd *cobra.Command, format string) (diag.Severity, error) {
	if format == "json" {
		return diag.SevInfo, nil
	}
	v, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return diag.SevInfo, err
	}
	return diag.ParseSeverity(v)
}

// printDiagnostics writes human formats to stderr and JSON to stdout.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string, minSev diag.Severity) error {
	if format == "json" {
		return diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
	}

	bag = bag.AtLeast(minSev)
	if bag.Len() == 0 {
		return nil
	}
	switch format {
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), fs, true); out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
	default:
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: true,
		})
	}
	return nil
}
