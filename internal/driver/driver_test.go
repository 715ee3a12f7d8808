package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/observ"
	"mojwgsl/internal/pipeline"
	"mojwgsl/internal/translate"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func shaderTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"include/fog.glsl": "#version 150\nlayout(std140) uniform Fog {\n    vec4 FogColor;\n};\n",
		"core/a.vsh":       "#version 150\nlayout(std140) uniform Globals {\n    vec2 ScreenSize;\n};\n#moj_import <minecraft:fog.glsl>\nvoid main() {}\n",
		"core/a.fsh":       "#version 150\nlayout(std140) uniform Frag {\n    float x;\n};\nvoid main() {}\n",
		"core/b.fsh":       "#version 150\n#moj_import <minecraft:fog.glsl>\nuniform sampler2D Sampler0;\nvoid main() {}\n",
		"core/readme.txt":  "not a shader\n",
	})
	return root
}

// stubTranslator prefixes the stage and fails on sources containing FAIL.
func stubTranslator() translate.Translator {
	return translate.Func(func(_ context.Context, src string, stage translate.Stage) (string, error) {
		if strings.Contains(src, "FAIL") {
			return "", &translate.Failure{Diagnostic: "nope"}
		}
		return "// wgsl " + stage.Short() + "\n", nil
	})
}

func baseOptions(root string) Options {
	return Options{
		ShaderRoot: root,
		IncludeDir: filepath.Join(root, "include"),
		OutDir:     filepath.Join(root, "wgsl"),
		Categories: []string{"core"},
		Translator: stubTranslator(),
		Jobs:       2,
	}
}

type bindingRow struct {
	File, Name string
	Binding    uint32
}

func readBindings(t *testing.T, path string) (BindingReport, []bindingRow) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var report BindingReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	rows := make([]bindingRow, 0, len(report.Bindings))
	for _, b := range report.Bindings {
		rows = append(rows, bindingRow{File: b.File, Name: b.Name, Binding: b.Binding})
	}
	return report, rows
}

func TestConvertSharedBindings(t *testing.T) {
	root := shaderTree(t)
	opts := baseOptions(root)
	var rec pipeline.Recorder
	opts.Progress = &rec
	opts.Timer = observ.NewTimer()

	res, err := Convert(context.Background(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var order []string
	for _, f := range res.Files {
		order = append(order, f.Name)
	}
	if diff := cmp.Diff([]string{"a.vsh", "a.fsh", "b.fsh"}, order); diff != "" {
		t.Fatalf("batch order (-want +got):\n%s", diff)
	}
	if res.Converted() != 3 || res.Failed() != 0 {
		t.Fatalf("converted=%d failed=%d", res.Converted(), res.Failed())
	}

	for name, want := range map[string]string{
		"a.vert.wgsl": "// wgsl vert\n",
		"a.frag.wgsl": "// wgsl frag\n",
		"b.frag.wgsl": "// wgsl frag\n",
	} {
		got, err := os.ReadFile(filepath.Join(root, "wgsl", "core", name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	report, rows := readBindings(t, filepath.Join(root, "wgsl", "core", BindingsFile))
	if !report.Shared {
		t.Error("report must say shared")
	}
	want := []bindingRow{
		{"a.vsh", "Globals", 0},
		{"a.vsh", "Fog", 1},
		{"a.fsh", "Frag", 2},
		{"b.fsh", "Fog", 3},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("bindings (-want +got):\n%s", diff)
	}

	if len(res.Skipped) != 1 || filepath.Base(res.Skipped[0]) != "readme.txt" {
		t.Fatalf("skipped = %v", res.Skipped)
	}
	if res.Bag.Count(diag.SevInfo) != 1 {
		t.Fatalf("want one skip note, got %d", res.Bag.Len())
	}

	done := 0
	for _, ev := range rec.Events() {
		if ev.Status == pipeline.StatusDone {
			done++
		}
	}
	if done != 3 {
		t.Fatalf("done events = %d, want 3", done)
	}
	if len(opts.Timer.Report().Phases) != 4 {
		t.Fatalf("timer phases = %+v", opts.Timer.Report().Phases)
	}
}

func TestConvertIsolatedBindings(t *testing.T) {
	root := shaderTree(t)
	opts := baseOptions(root)
	opts.IsolateBindings = true
	opts.FirstBinding = 5

	if _, err := Convert(context.Background(), opts); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	report, rows := readBindings(t, filepath.Join(root, "wgsl", "core", BindingsFile))
	if report.Shared {
		t.Error("report must say isolated")
	}
	want := []bindingRow{
		{"a.vsh", "Globals", 5},
		{"a.vsh", "Fog", 6},
		{"a.fsh", "Frag", 5},
		{"b.fsh", "Fog", 5},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("bindings (-want +got):\n%s", diff)
	}
}

func TestConvertFailureWritesFallback(t *testing.T) {
	root := shaderTree(t)
	writeTree(t, root, map[string]string{
		"core/bad.vsh": "#version 150\n// FAIL here\nvoid main() {}\n",
	})
	opts := baseOptions(root)
	var log bytes.Buffer
	opts.Log = &log

	res, err := Convert(context.Background(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Failed() != 1 {
		t.Fatalf("failed = %d", res.Failed())
	}

	got, err := os.ReadFile(filepath.Join(root, "wgsl", "core", "bad.vert.wgsl"))
	if err != nil {
		t.Fatal(err)
	}
	want := "// Conversion failed: nope\n\n// FAIL here\nvoid main() {}\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("fallback (-want +got):\n%s", diff)
	}

	bag := res.Diagnostics()
	if !bag.HasErrors() {
		t.Fatal("translation failure must be an error diagnostic")
	}
	short := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, false)
	if !strings.Contains(short, "error TRN3001") || !strings.Contains(short, "Conversion failed: nope") {
		t.Fatalf("diagnostics:\n%s", short)
	}

	out := log.String()
	for _, line := range []string{
		"Processing bad.vsh...",
		"Failed: wrote preprocessed source to bad.vert.wgsl",
		"Converted to a.vert.wgsl",
		"Skipping unknown shader type: readme.txt",
		"3 converted, 1 failed, 1 skipped",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("log missing %q:\n%s", line, out)
		}
	}
}

func TestConvertMissingImportDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"include/.keep": "",
		"core/a.vsh":    "#moj_import <minecraft:nope.glsl>\nvoid main() {}\n",
	})
	res, err := Convert(context.Background(), baseOptions(root))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	f := res.Files[0]
	if !strings.Contains(f.Preprocessed, "// Missing import: minecraft:nope.glsl\n") {
		t.Fatalf("preprocessed = %q", f.Preprocessed)
	}
	if f.Bag.Len() != 1 || f.Bag.Items()[0].Code != diag.PreMissingImport {
		t.Fatalf("file diagnostics = %+v", f.Bag.Items())
	}
}

func TestConvertMissingCategory(t *testing.T) {
	root := shaderTree(t)
	opts := baseOptions(root)
	opts.Categories = []string{"core", "post"}
	res, err := Convert(context.Background(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Bag.HasWarnings() {
		t.Fatal("missing category must warn")
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %d", len(res.Files))
	}
}

func TestConvertComputeSuffix(t *testing.T) {
	root := shaderTree(t)
	writeTree(t, root, map[string]string{"core/blur.csh": "void main() {}\n"})
	opts := baseOptions(root)
	opts.Suffixes = translate.Suffixes{Vertex: ".vsh", Fragment: ".fsh", Compute: ".csh"}

	res, err := Convert(context.Background(), opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	last := res.Files[len(res.Files)-1]
	if last.Name != "blur.csh" || last.Stage != translate.StageCompute {
		t.Fatalf("compute file must come last, got %s %v", last.Name, last.Stage)
	}
	if filepath.Base(last.Output) != "blur.comp.wgsl" {
		t.Fatalf("output = %s", last.Output)
	}
}

func TestConvertCancelled(t *testing.T) {
	root := shaderTree(t)
	opts := baseOptions(root)
	opts.Translator = translate.Func(func(context.Context, string, translate.Stage) (string, error) {
		return "", context.Canceled
	})
	_, err := Convert(context.Background(), opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("out", "core", "position_tex.fsh", translate.StageFragment, translate.DefaultSuffixes(), ".wgsl")
	if got != filepath.Join("out", "core", "position_tex.frag.wgsl") {
		t.Fatalf("OutputPath = %s", got)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"core/bad.vert.wgsl": "// Conversion failed: nope\nvoid main() {}\n",
		"core/bindings.json": "{}",
	})
	results, err := Check(context.Background(), dir, "", 2)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	var verr *translate.VerifyError
	if !errors.As(results[0].Err, &verr) || verr.Phase != "parse" {
		t.Fatalf("want parse error, got %v", results[0].Err)
	}
}
