package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default mojwgsl.toml",
	Long: `Initialize a shader project by creating a manifest (mojwgsl.toml) with the
Minecraft resource layout. If [path] is omitted, initializes the current
directory. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest()), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized mojwgsl project in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", manifestName)
	return nil
}

// defaultManifest renders defaultProjectConfig as commented TOML.
func defaultManifest() string {
	cfg := defaultProjectConfig()
	return fmt.Sprintf(`# mojwgsl project manifest

[shaders]
root = %q
include = %q          # relative to root
categories = [%q]

[stages]
vertex = %q
fragment = %q
compute = ""               # e.g. ".csh" to enable compute shaders

[output]
dir = %q
extension = %q

[translator]
command = %q
verify = false
`,
		cfg.Shaders.Root, cfg.Shaders.Include, cfg.Shaders.Categories[0],
		cfg.Stages.Vertex, cfg.Stages.Fragment,
		cfg.Output.Dir, cfg.Output.Extension,
		cfg.Translator.Command,
	)
}
