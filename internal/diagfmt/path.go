package diagfmt

import (
	"path/filepath"

	"mojwgsl/internal/source"
)

func formatPath(path string, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return path
	case PathModeBasename:
		return filepath.Base(filepath.FromSlash(path))
	default:
		if fs == nil {
			return path
		}
		f := source.File{Path: path}
		return f.DisplayPath(fs.BaseDir())
	}
}

// spanPath is the display path of the file a span points into, "" when unknown.
func spanPath(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	return formatPath(f.Path, fs, mode)
}
