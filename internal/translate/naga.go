package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand is the naga CLI binary name looked up in PATH.
const DefaultCommand = "naga"

// NagaCLI runs the naga command line tool. Each call works in its own
// scratch directory, so concurrent translations never share files.
type NagaCLI struct {
	// Command is the binary name or path; DefaultCommand when empty.
	Command string
	// TempDir is the parent of scratch directories; os.TempDir when empty.
	TempDir string
}

// ID identifies the translator in cache keys.
func (n NagaCLI) ID() string {
	return "naga-cli:" + n.command()
}

func (n NagaCLI) command() string {
	if n.Command == "" {
		return DefaultCommand
	}
	return n.Command
}

// LookPath resolves the binary, wrapping ErrTranslatorNotFound when absent.
func (n NagaCLI) LookPath() (string, error) {
	bin := n.command()
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTranslatorNotFound, bin, err)
	}
	return path, nil
}

func (n NagaCLI) Translate(ctx context.Context, src string, stage Stage) (string, error) {
	if stage.Short() == "" {
		return "", fmt.Errorf("unsupported stage %s", stage)
	}
	bin, err := n.LookPath()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(n.TempDir, "mojwgsl-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "shader."+stage.Short()+".glsl")
	out := filepath.Join(dir, "shader.wgsl")
	if err := os.WriteFile(in, []byte(src), 0o600); err != nil {
		return "", fmt.Errorf("write scratch input: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"--input-kind", "glsl",
		"--shader-stage", stage.Short(),
		in, out,
	)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// пути во временной папке читателю ничего не скажут
			diagnostic := strings.ReplaceAll(strings.TrimSpace(stderr.String()), dir+string(filepath.Separator), "")
			return "", &Failure{Diagnostic: diagnostic, Err: err}
		}
		return "", fmt.Errorf("run %s: %w", bin, err)
	}

	wgsl, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("unable to read output %q: %w", out, err)
	}
	return string(wgsl), nil
}
