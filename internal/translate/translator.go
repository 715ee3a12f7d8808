package translate

import (
	"context"
	"errors"
	"strings"
)

// ErrTranslatorNotFound is returned when the external compiler binary cannot be located.
var ErrTranslatorNotFound = errors.New("translator not found")

// Translator turns preprocessed GLSL into WGSL.
type Translator interface {
	Translate(ctx context.Context, src string, stage Stage) (string, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, src string, stage Stage) (string, error)

func (f Func) Translate(ctx context.Context, src string, stage Stage) (string, error) {
	return f(ctx, src, stage)
}

// Failure is a translation the compiler rejected. Diagnostic holds its
// own report, usually the stderr of the tool.
type Failure struct {
	Diagnostic string
	Err        error
}

func (f *Failure) Error() string {
	if f.Diagnostic != "" {
		return f.Diagnostic
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return "translation failed"
}

func (f *Failure) Unwrap() error { return f.Err }

// FallbackOutput is written in place of WGSL when translation fails:
// the diagnostic as line comments followed by the preprocessed source.
func FallbackOutput(err error, src string) string {
	var (
		prefix = "Conversion error"
		text   = ""
	)
	var failure *Failure
	if errors.As(err, &failure) {
		prefix = "Conversion failed"
		text = failure.Error()
	} else if err != nil {
		text = err.Error()
	}
	text = strings.TrimRight(text, "\n")

	var sb strings.Builder
	sb.Grow(len(src) + len(text) + 32)
	lines := strings.Split(text, "\n")
	sb.WriteString("// ")
	sb.WriteString(prefix)
	sb.WriteString(": ")
	sb.WriteString(lines[0])
	sb.WriteByte('\n')
	for _, line := range lines[1:] {
		sb.WriteString("// ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(src)
	return sb.String()
}
