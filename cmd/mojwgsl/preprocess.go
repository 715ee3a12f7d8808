package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/preprocess"
	"mojwgsl/internal/source"
	"mojwgsl/internal/trace"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <file>",
	Short: "Run the preprocessor on one shader and print the result",
	Long: `Preprocess expands #moj_import, strips #version and precision declarations,
assigns std140 bindings and marks sampler2D uniforms, then prints the text the
translator would receive. Diagnostics go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreprocess,
}

func init() {
	f := preprocessCmd.Flags()
	f.String("include", "", "include directory (default: from mojwgsl.toml, else ../include next to the file)")
	f.Uint32("first-binding", 0, "first binding index")
	f.StringP("output", "o", "", "write the result to a file instead of stdout")
	f.Bool("bindings", false, "list assigned bindings on stderr")
	f.String("format", "pretty", "diagnostics format (pretty|short|json)")
	f.String("min-severity", "warning", "lowest severity printed (info|warning|error)")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if err := checkDiagFormat(format); err != nil {
		return err
	}
	minSev, err := minSeverity(cmd, format)
	if err != nil {
		return err
	}
	includeDir, err := preprocessIncludeDir(cmd, path)
	if err != nil {
		return err
	}
	firstBinding, _ := cmd.Flags().GetUint32("first-binding")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	bag := diag.NewBag(maxDiagnostics)
	pp := preprocess.New(includeDir,
		preprocess.WithReporter(diag.BagReporter{Bag: bag}),
		preprocess.WithFileSet(fs),
		preprocess.WithTracer(trace.FromContext(cmd.Context())),
		preprocess.WithFirstBinding(firstBinding),
	)
	out := pp.Process(string(fs.Get(id).Content), path)

	outPath, _ := cmd.Flags().GetString("output")
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil { // #nosec G306 -- shader text
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	} else if format != "json" {
		fmt.Fprint(os.Stdout, out)
	}

	if listBindings, _ := cmd.Flags().GetBool("bindings"); listBindings {
		for _, b := range pp.Bindings() {
			fmt.Fprintf(os.Stderr, "binding %d: %s\n", b.Index, b.Name)
		}
	}
	return printDiagnostics(cmd, bag, fs, format, minSev)
}

func preprocessIncludeDir(cmd *cobra.Command, file string) (string, error) {
	if cmd.Flags().Changed("include") {
		inc, err := cmd.Flags().GetString("include")
		if err != nil {
			return "", err
		}
		return filepath.Abs(inc)
	}
	manifestPath, ok, err := findManifest(filepath.Dir(file))
	if err != nil {
		return "", err
	}
	if ok {
		cfg, err := loadProjectConfig(manifestPath)
		if err != nil {
			return "", err
		}
		m := &projectManifest{Path: manifestPath, Root: filepath.Dir(manifestPath), Config: cfg}
		return m.includeDir(), nil
	}
	// core/foo.vsh -> include/
	return filepath.Join(filepath.Dir(filepath.Dir(file)), "include"), nil
}
