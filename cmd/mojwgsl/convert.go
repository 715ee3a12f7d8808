package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mojwgsl/internal/cache"
	"mojwgsl/internal/driver"
	"mojwgsl/internal/observ"
	"mojwgsl/internal/translate"
)

var convertCmd = &cobra.Command{
	Use:   "convert [project-dir]",
	Short: "Preprocess every shader of the project and convert it to WGSL",
	Long: `Convert walks each shader category, expands #moj_import, strips #version and
precision declarations, numbers std140 uniform blocks and hands the result to
the translator. A failed translation still produces an output file holding the
diagnostic and the preprocessed source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringSlice("category", nil, "category directory under the shader root (repeatable)")
	f.String("root", "", "shader root (overrides [shaders].root)")
	f.String("include", "", "include directory for #moj_import (overrides [shaders].include)")
	f.String("out", "", "output directory (overrides [output].dir)")
	f.Int("jobs", 0, "parallel translations (0 = GOMAXPROCS)")
	f.Bool("isolate-bindings", false, "number uniform blocks per file instead of across the batch")
	f.Uint32("first-binding", 0, "first binding index")
	f.Bool("no-cache", false, "always run the translator")
	f.Bool("verify", false, "validate produced WGSL (overrides [translator].verify)")
	f.String("translator", "", "translator command (overrides [translator].command)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("format", "pretty", "diagnostics format (pretty|short|json)")
	f.String("min-severity", "warning", "lowest severity printed (info|warning|error)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) > 0 && args[0] != "" {
		startDir = args[0]
	}
	manifest, found, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}
	if err := applyConvertOverrides(cmd, manifest); err != nil {
		return err
	}
	cfg := manifest.Config

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if err := checkDiagFormat(format); err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	isolate, _ := cmd.Flags().GetBool("isolate-bindings")
	firstBinding, _ := cmd.Flags().GetUint32("first-binding")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	minSev, err := minSeverity(cmd, format)
	if err != nil {
		return err
	}
	isQuiet := quiet(cmd)
	warn := color.New(color.FgYellow).SprintFunc()

	if !found && !isQuiet {
		fmt.Fprintf(os.Stderr, "%s no %s found, using the default layout under %s\n", warn("note:"), manifestName, manifest.Root)
	}

	naga := translate.NagaCLI{Command: cfg.Translator.Command}
	if _, err := naga.LookPath(); err != nil && !isQuiet {
		fmt.Fprintf(os.Stderr, "%s %v; outputs will hold preprocessed GLSL\n", warn("warning:"), err)
	}
	var translator translate.Translator = naga
	if !noCache {
		dc, err := cache.OpenDefault("mojwgsl")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s cache disabled: %v\n", warn("warning:"), err)
		} else {
			translator = &translate.Cached{Next: naga, Cache: dc, ID: naga.ID()}
		}
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	opts := driver.Options{
		ShaderRoot:      manifest.shaderRoot(),
		IncludeDir:      manifest.includeDir(),
		OutDir:          manifest.outDir(),
		Categories:      cfg.Shaders.Categories,
		Suffixes:        cfg.suffixes(),
		Extension:       cfg.Output.Extension,
		IsolateBindings: isolate,
		FirstBinding:    firstBinding,
		Jobs:            jobs,
		MaxDiagnostics:  maxDiagnostics,
		Verify:          cfg.Translator.Verify,
		Translator:      translator,
		Timer:           timer,
	}

	var res *driver.Result
	if shouldUseTUI(mode, isQuiet, format) {
		files, err := driver.Plan(opts)
		if err != nil {
			return err
		}
		res, err = runConvertWithUI(cmd.Context(), "mojwgsl convert", files, displayLabels(opts.ShaderRoot, files), opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d converted, %d failed, %d skipped\nWGSL shaders written to: %s\n",
			res.Converted(), res.Failed(), len(res.Skipped), opts.OutDir)
	} else {
		if !isQuiet && format != "json" {
			opts.Log = os.Stdout
		}
		res, err = driver.Convert(cmd.Context(), opts)
		if err != nil {
			return err
		}
	}

	if err := printDiagnostics(cmd, res.Diagnostics(), res.FileSet, format, minSev); err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
		printStageTimings(os.Stderr, res.Timings)
	}
	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d shaders failed to convert", failed, len(res.Files))
	}
	return nil
}

// applyConvertOverrides folds explicit flags over the manifest values.
// Relative flag paths are taken from the working directory.
func applyConvertOverrides(cmd *cobra.Command, m *projectManifest) error {
	flags := cmd.Flags()
	abs := func(name string) (string, bool, error) {
		if !flags.Changed(name) {
			return "", false, nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return "", false, err
		}
		p, err := filepath.Abs(v)
		return p, true, err
	}

	if p, ok, err := abs("root"); err != nil {
		return err
	} else if ok {
		m.Config.Shaders.Root = p
	}
	if p, ok, err := abs("include"); err != nil {
		return err
	} else if ok {
		m.Config.Shaders.Include = p
	}
	if p, ok, err := abs("out"); err != nil {
		return err
	} else if ok {
		m.Config.Output.Dir = p
	}
	if flags.Changed("category") {
		cats, err := flags.GetStringSlice("category")
		if err != nil {
			return err
		}
		m.Config.Shaders.Categories = cats
	}
	if flags.Changed("verify") {
		v, err := flags.GetBool("verify")
		if err != nil {
			return err
		}
		m.Config.Translator.Verify = v
	}
	if flags.Changed("translator") {
		v, err := flags.GetString("translator")
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("--translator must not be empty")
		}
		m.Config.Translator.Command = v
	}
	return nil
}

func displayLabels(base string, files []string) []string {
	labels := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(base, f)
		if err != nil {
			rel = f
		}
		labels[i] = filepath.ToSlash(rel)
	}
	return labels
}
