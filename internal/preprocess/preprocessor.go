package preprocess

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/source"
	"mojwgsl/internal/trace"
)

// Binding records one uniform block that received an explicit binding index.
type Binding struct {
	Name  string
	Index uint32
}

// Preprocessor expands and rewrites shader sources. See the package doc.
type Preprocessor struct {
	root     string
	fsys     fs.FS
	files    *source.FileSet
	reporter diag.Reporter
	tracer   trace.Tracer

	// included is the include set of the current top-level call.
	included map[string]struct{}
	// active holds the import chain being expanded, innermost last.
	active []string
	spans  []uint64

	next     uint32
	bindings []Binding
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithFS reads imports from fsys instead of the include root on disk.
// Import names are resolved relative to the root of fsys.
func WithFS(fsys fs.FS) Option {
	return func(p *Preprocessor) { p.fsys = fsys }
}

// WithReporter receives a diagnostic for every degraded directive.
func WithReporter(r diag.Reporter) Option {
	return func(p *Preprocessor) { p.reporter = r }
}

// WithFileSet registers scanned texts in files so that reported spans resolve.
func WithFileSet(files *source.FileSet) Option {
	return func(p *Preprocessor) { p.files = files }
}

// WithTracer emits a span per Process call and, at debug level, per import.
func WithTracer(t trace.Tracer) Option {
	return func(p *Preprocessor) { p.tracer = t }
}

// WithFirstBinding starts the binding counter at n instead of 0.
func WithFirstBinding(n uint32) Option {
	return func(p *Preprocessor) { p.next = n }
}

// New returns a Preprocessor resolving `minecraft:` imports under includeRoot.
func New(includeRoot string, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		root:     filepath.Clean(includeRoot),
		reporter: diag.NopReporter{},
		tracer:   trace.Nop,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fsys == nil {
		p.fsys = os.DirFS(p.root)
	}
	if p.files == nil {
		p.files = source.NewFileSet()
	}
	return p
}

// IncludeRoot returns the directory `minecraft:` names resolve against.
func (p *Preprocessor) IncludeRoot() string {
	return p.root
}

// FileSet returns the set holding every text the preprocessor reported on.
func (p *Preprocessor) FileSet() *source.FileSet {
	return p.files
}

// NextBinding returns the index the next uniform block will receive.
func (p *Preprocessor) NextBinding() uint32 {
	return p.next
}

// Bindings returns the uniform blocks numbered by the most recent Process call,
// in textual order.
func (p *Preprocessor) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	copy(out, p.bindings)
	return out
}

// Included returns the sorted resolved paths expanded (or seeded) during the
// most recent Process call.
func (p *Preprocessor) Included() []string {
	out := make([]string, 0, len(p.included))
	for path := range p.included {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Process runs the full pipeline over src and returns translator-ready text.
// sourceFile names the shader for diagnostics; when it lies inside the include
// root it is marked as included up front so a self-import is not expanded.
func (p *Preprocessor) Process(src, sourceFile string) string {
	p.included = make(map[string]struct{})
	p.active = p.active[:0]
	p.spans = p.spans[:0]
	p.bindings = p.bindings[:0]

	name := sourceFile
	if name == "" {
		name = "<input>"
	}
	if key, ok := p.selfKey(sourceFile); ok {
		p.included[key] = struct{}{}
		p.active = append(p.active, key)
	}

	span := trace.Begin(p.tracer, trace.ScopeFile, "preprocess:"+name, 0)
	p.spans = append(p.spans, span.ID())

	out := p.expand(src, name)
	out = p.assignBindings(out)
	out = p.annotateSamplers(out, name)

	span.WithExtra("imports", strconv.Itoa(len(p.included))).
		WithExtra("bindings", strconv.Itoa(len(p.bindings))).
		End("")
	return out
}

// expand runs the passes that apply to every file, imported or not.
func (p *Preprocessor) expand(src, name string) string {
	out := stripVersions(src)
	out = p.expandImports(out, name)
	out, removed := stripPrecision(out)
	if removed > 0 {
		out = stripVersions(out)
	}
	return out
}

func (p *Preprocessor) assignBindings(src string) string {
	out, _ := rewrite(src, std140Keyword, true, func(s *scanner, _ int) (string, bool) {
		name, ok := matchUniformBlock(s)
		if !ok {
			return "", false
		}
		index := p.next
		p.next++
		p.bindings = append(p.bindings, Binding{Name: name, Index: index})
		return bindingDecl(index, name), true
	})
	return out
}

func (p *Preprocessor) annotateSamplers(src, name string) string {
	file := lazyFile{files: p.files, name: name + " (expanded)", text: src}
	out, _ := rewrite(src, uniformKeyword, true, func(s *scanner, at int) (string, bool) {
		sampler, ok := matchSampler(s)
		if !ok {
			return "", false
		}
		diag.ReportInfo(p.reporter, diag.PreCombinedSampler, file.span(at, s.off),
			fmt.Sprintf("sampler %s needs a separate texture and sampler binding", sampler)).Emit()
		return samplerMarker(sampler), true
	})
	return out
}

// selfKey maps a top-level file onto the include-set key space when it lives
// under the include root.
func (p *Preprocessor) selfKey(sourceFile string) (string, bool) {
	if sourceFile == "" {
		return "", false
	}
	rel, err := filepath.Rel(p.root, filepath.Clean(sourceFile))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(p.root, rel), true
}

// lazyFile registers text in the FileSet on the first reported span.
type lazyFile struct {
	files *source.FileSet
	name  string
	text  string
	id    source.FileID
	added bool
}

func (f *lazyFile) span(start, end int) source.Span {
	if !f.added {
		f.id = f.files.AddVirtual(f.name, []byte(f.text))
		f.added = true
	}
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return source.Span{File: f.id}
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		e = s
	}
	return source.Span{File: f.id, Start: s, End: e}
}
