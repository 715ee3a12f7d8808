package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[shaders]
root = "assets/shaders"
categories = ["core", "post"]

[stages]
compute = ".csh"

[output]
dir = "out"
`)
	nested := filepath.Join(root, "assets", "shaders", "core")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest = %v, %v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %s, want %s", m.Root, root)
	}
	if diff := cmp.Diff([]string{"core", "post"}, m.Config.Shaders.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
	if got := m.includeDir(); got != filepath.Join(root, "assets", "shaders", "include") {
		t.Fatalf("include dir = %s", got)
	}
	if got := m.outDir(); got != filepath.Join(root, "out") {
		t.Fatalf("out dir = %s", got)
	}
	s := m.Config.suffixes()
	if s.Vertex != ".vsh" || s.Fragment != ".fsh" || s.Compute != ".csh" {
		t.Fatalf("suffixes = %+v", s)
	}
	if m.Config.Output.Extension != ".wgsl" || m.Config.Translator.Command != "naga" {
		t.Fatalf("defaults lost: %+v", m.Config)
	}
}

func TestLoadProjectManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Skip("a mojwgsl.toml exists above the temp dir")
	}
	if m.shaderRoot() != filepath.Join(dir, "src", "main", "resources", "shaders") {
		t.Fatalf("shader root = %s", m.shaderRoot())
	}
}

func TestLoadProjectConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing shaders", "[output]\ndir = \"x\"\n", "missing [shaders]"},
		{"empty root", "[shaders]\nroot = \"\"\n", "[shaders].root must not be empty"},
		{"no categories", "[shaders]\nroot = \"s\"\ncategories = []\n", "at least one directory"},
		{"unknown key", "[shaders]\nroot = \"s\"\nfoo = 1\n", "unknown keys: shaders.foo"},
		{"bad suffix", "[shaders]\nroot = \"s\"\n[stages]\nvertex = \"vsh\"\n", "[stages].vertex must start with '.'"},
		{"dup suffix", "[shaders]\nroot = \"s\"\n[stages]\ncompute = \".vsh\"\n", "share suffix"},
		{"no stages", "[shaders]\nroot = \"s\"\n[stages]\nvertex = \"\"\nfragment = \"\"\n", "enables no stage"},
		{"bad ext", "[shaders]\nroot = \"s\"\n[output]\nextension = \"wgsl\"\n", "[output].extension"},
		{"bad toml", "[shaders\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := loadProjectConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
			if !strings.HasPrefix(err.Error(), path) {
				t.Fatalf("error must start with manifest path: %v", err)
			}
		})
	}
}
