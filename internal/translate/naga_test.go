package translate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeNaga writes a shell script that mimics the CLI argument layout:
// --input-kind glsl --shader-stage STAGE IN OUT.
func fakeNaga(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub needs a POSIX shell")
	}
	script := `#!/bin/sh
if grep -q FAIL "$5"; then
  echo "error: bad shader in $5" >&2
  exit 1
fi
printf '// %s\n' "$4" > "$6"
cat "$5" >> "$6"
`
	path := filepath.Join(t.TempDir(), "naga")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNagaCLITranslate(t *testing.T) {
	n := NagaCLI{Command: fakeNaga(t), TempDir: t.TempDir()}
	out, err := n.Translate(context.Background(), "void main() {}\n", StageFragment)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "// frag\nvoid main() {}\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNagaCLIFailure(t *testing.T) {
	scratch := t.TempDir()
	n := NagaCLI{Command: fakeNaga(t), TempDir: scratch}
	_, err := n.Translate(context.Background(), "FAIL\n", StageVertex)

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("want *Failure, got %T %v", err, err)
	}
	if failure.Diagnostic != "error: bad shader in shader.vert.glsl" {
		t.Fatalf("diagnostic = %q", failure.Diagnostic)
	}
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir not cleaned: %d entries left", len(entries))
	}
}

func TestNagaCLINotFound(t *testing.T) {
	n := NagaCLI{Command: filepath.Join(t.TempDir(), "no-such-naga")}
	_, err := n.Translate(context.Background(), "", StageVertex)
	if !errors.Is(err, ErrTranslatorNotFound) {
		t.Fatalf("want ErrTranslatorNotFound, got %v", err)
	}
}

func TestFallbackOutput(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "failure",
			err:  &Failure{Diagnostic: "line 3: bad\nline 4: worse\n"},
			want: "// Conversion failed: line 3: bad\n// line 4: worse\nSRC",
		},
		{
			name: "other error",
			err:  ErrTranslatorNotFound,
			want: "// Conversion error: translator not found\nSRC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackOutput(tt.err, "SRC"); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStages(t *testing.T) {
	s := DefaultSuffixes()
	if st, ok := s.Match("position_tex.vsh"); !ok || st != StageVertex {
		t.Fatalf("vsh -> %v %v", st, ok)
	}
	if st, ok := s.Match("position_tex.fsh"); !ok || st != StageFragment {
		t.Fatalf("fsh -> %v %v", st, ok)
	}
	if _, ok := s.Match("blur.csh"); ok {
		t.Fatal("compute must be disabled by default")
	}
	if _, ok := s.Match(".vsh"); ok {
		t.Fatal("bare suffix is not a shader name")
	}
	s.Compute = ".csh"
	if st, ok := s.Match("blur.csh"); !ok || st != StageCompute {
		t.Fatalf("csh -> %v %v", st, ok)
	}

	for _, name := range []string{"vert", "Vertex", " frag ", "compute"} {
		if _, err := ParseStage(name); err != nil {
			t.Errorf("ParseStage(%q): %v", name, err)
		}
	}
	if _, err := ParseStage("geometry"); err == nil {
		t.Error("geometry must be rejected")
	}
	if !strings.HasPrefix(Stage(9).String(), "Stage(") {
		t.Error("unknown stage string")
	}
}
