package diag

import (
	"mojwgsl/internal/source"
)

// Note adds secondary context to a Diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding of the preprocessing or translation pipeline.
// Path is used when the finding has no span (translator output, skipped files).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Path     string
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewForPath builds a span-less diagnostic attached to a file path.
func NewForPath(sev Severity, code Code, path, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
