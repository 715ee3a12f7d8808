package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mojwgsl/internal/driver"
	"mojwgsl/internal/translate"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Parse and validate produced WGSL files",
	Long: `Check walks a directory of WGSL files (the project output directory by
default), parses and validates each one and reports entry points and
resource bindings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("ext", "", "file extension to check (default: [output].extension)")
	checkCmd.Flags().Int("jobs", 0, "parallel checks (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("bindings", false, "list reflected resource bindings")
}

func runCheck(cmd *cobra.Command, args []string) error {
	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	dir := manifest.outDir()
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	ext, _ := cmd.Flags().GetString("ext")
	if ext == "" {
		ext = manifest.Config.Output.Extension
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	showBindings, _ := cmd.Flags().GetBool("bindings")

	results, err := driver.Check(cmd.Context(), dir, ext, jobs)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stdout, "no %s files under %s\n", ext, dir)
		return nil
	}

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	failed := 0
	for _, r := range results {
		name := r.Path
		if rel, relErr := filepath.Rel(dir, r.Path); relErr == nil {
			name = filepath.ToSlash(rel)
		}
		var verr *translate.VerifyError
		switch {
		case r.Err == nil:
			fmt.Fprintf(os.Stdout, "%s %s (%s)\n", ok("✓"), name, describeReport(r.Report))
		case errors.As(r.Err, &verr):
			failed++
			fmt.Fprintf(os.Stdout, "%s %s: %s\n", bad("✗"), name, verr.Error())
		default:
			failed++
			fmt.Fprintf(os.Stdout, "%s %s: %v\n", bad("✗"), name, r.Err)
		}
		if showBindings && r.Report != nil {
			for _, b := range r.Report.Bindings {
				fmt.Fprintf(os.Stdout, "    @group(%d) @binding(%d) %s (%s)\n", b.Group, b.Binding, b.Name, b.Space)
			}
		}
	}
	fmt.Fprintf(os.Stdout, "%d checked, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d WGSL files failed validation", failed)
	}
	return nil
}

func describeReport(r *translate.Report) string {
	if r == nil {
		return "no report"
	}
	stages := ""
	for i, ep := range r.EntryPoints {
		if i > 0 {
			stages += ", "
		}
		stages += ep.Stage.Short() + " " + ep.Name
	}
	if stages == "" {
		stages = "no entry points"
	}
	return fmt.Sprintf("%s; %d bindings", stages, len(r.Bindings))
}
