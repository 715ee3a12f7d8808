package driver

import (
	"io"
	"runtime"

	"mojwgsl/internal/observ"
	"mojwgsl/internal/pipeline"
	"mojwgsl/internal/translate"
)

// DefaultExtension is appended to every output file name.
const DefaultExtension = ".wgsl"

// BindingsFile is the per-category binding report written next to the outputs.
const BindingsFile = "bindings.json"

// Options describes one batch conversion.
type Options struct {
	// ShaderRoot contains one directory per category.
	ShaderRoot string
	// IncludeDir is the include root for #moj_import.
	IncludeDir string
	// OutDir receives <category>/<stem>.<stage><ext>.
	OutDir     string
	Categories []string
	Suffixes   translate.Suffixes
	Extension  string

	// IsolateBindings gives every file its own preprocessor and binding
	// counter; by default one counter spans the whole batch.
	IsolateBindings bool
	FirstBinding    uint32

	Jobs           int
	MaxDiagnostics int
	Verify         bool

	Translator translate.Translator
	Progress   pipeline.ProgressSink
	Timer      *observ.Timer
	// Log receives the per-file summary; nil keeps quiet.
	Log io.Writer
}

func (o *Options) normalize() {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	if o.Suffixes == (translate.Suffixes{}) {
		o.Suffixes = translate.DefaultSuffixes()
	}
}
