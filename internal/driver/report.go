package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"mojwgsl/internal/diag"
)

// BindingEntry is one uniform block in bindings.json.
type BindingEntry struct {
	File    string `json:"file"`
	Output  string `json:"output"`
	Stage   string `json:"stage"`
	Name    string `json:"name"`
	Binding uint32 `json:"binding"`
}

// BindingReport lists the uniform blocks of one category in batch order.
type BindingReport struct {
	Category string         `json:"category"`
	Shared   bool           `json:"shared"`
	Bindings []BindingEntry `json:"bindings"`
}

func buildBindingReports(opts *Options, res *Result) []BindingReport {
	var (
		reports []BindingReport
		index   = make(map[string]int)
	)
	for _, f := range res.Files {
		i, ok := index[f.Category]
		if !ok {
			i = len(reports)
			index[f.Category] = i
			reports = append(reports, BindingReport{
				Category: f.Category,
				Shared:   !opts.IsolateBindings,
				Bindings: []BindingEntry{},
			})
		}
		for _, b := range f.Bindings {
			reports[i].Bindings = append(reports[i].Bindings, BindingEntry{
				File:    f.Name,
				Output:  filepath.Base(f.Output),
				Stage:   f.Stage.Short(),
				Name:    b.Name,
				Binding: b.Index,
			})
		}
	}
	return reports
}

func writeBindingReports(opts *Options, res *Result) {
	for _, report := range buildBindingReports(opts, res) {
		path := filepath.Join(opts.OutDir, report.Category, BindingsFile)
		data, err := json.MarshalIndent(report, "", "  ")
		if err == nil {
			err = writeFile(path, append(data, '\n'))
		}
		if err != nil {
			res.Bag.Add(diag.NewForPath(diag.SevError, diag.IOWriteError, path, err.Error()))
		}
	}
}

// printSummary writes the classic per-file log in batch order.
func printSummary(w io.Writer, opts *Options, res *Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, "Converting Minecraft GLSL shaders to WGSL...")
	for _, path := range res.Skipped {
		fmt.Fprintf(w, "  Skipping unknown shader type: %s\n", filepath.Base(path))
	}
	for _, f := range res.Files {
		fmt.Fprintf(w, "Processing %s...\n", f.Name)
		switch {
		case !f.Loaded:
			fmt.Fprintf(w, "  %s Failed: could not read source\n", bad("✗"))
		case !f.Written:
			fmt.Fprintf(w, "  %s Failed: could not write %s\n", bad("✗"), filepath.Base(f.Output))
		case f.Failed:
			fmt.Fprintf(w, "  %s Failed: wrote preprocessed source to %s\n", bad("✗"), filepath.Base(f.Output))
		default:
			fmt.Fprintf(w, "  %s Converted to %s\n", ok("✓"), filepath.Base(f.Output))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion complete!")
	fmt.Fprintf(w, "%d converted, %d failed, %d skipped\n", res.Converted(), res.Failed(), len(res.Skipped))
	fmt.Fprintf(w, "WGSL shaders written to: %s\n", opts.OutDir)
}
