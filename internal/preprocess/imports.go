package preprocess

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/source"
	"mojwgsl/internal/trace"
)

const (
	importKeyword = "#moj_import"
	importScheme  = "minecraft:"
)

// importDirective is one parsed `#moj_import <...>`.
type importDirective struct {
	raw  string // text between the angle brackets, e.g. minecraft:fog.glsl
	name string // raw without the scheme, slash separated
	path string // include root joined with name; the include-set key
}

func (p *Preprocessor) parseImport(raw string) (importDirective, bool) {
	if !strings.HasPrefix(raw, importScheme) {
		return importDirective{raw: raw}, false
	}
	name := strings.TrimPrefix(raw, importScheme)
	return importDirective{
		raw:  raw,
		name: name,
		path: filepath.Join(p.root, filepath.FromSlash(name)),
	}, true
}

// expandImports replaces every import directive in src in a single scan.
// Imported files are expanded recursively against the same include set.
func (p *Preprocessor) expandImports(src, name string) string {
	file := lazyFile{files: p.files, name: name, text: src}
	out, _ := rewrite(src, importKeyword, false, func(s *scanner, at int) (string, bool) {
		if !s.spaces() || !s.lit("<") {
			return "", false
		}
		raw, ok := s.until('>')
		if !ok {
			return "", false
		}
		return p.resolveImport(raw, func() source.Span { return file.span(at, s.off) }), true
	})
	return out
}

func (p *Preprocessor) resolveImport(raw string, span func() source.Span) string {
	imp, ok := p.parseImport(raw)
	if !ok {
		diag.ReportWarning(p.reporter, diag.PreUnknownImport, span(),
			fmt.Sprintf("unknown import %q: only %s names are supported", raw, importScheme)).Emit()
		return "// Unknown import: " + raw + "\n"
	}

	if _, seen := p.included[imp.path]; seen {
		if slices.Contains(p.active, imp.path) {
			diag.ReportWarning(p.reporter, diag.PreImportCycle, span(),
				fmt.Sprintf("import cycle through %s: %s", raw, p.chain(imp.path))).Emit()
		} else {
			diag.ReportInfo(p.reporter, diag.PreDuplicateImport, span(),
				fmt.Sprintf("%s is already included", raw)).Emit()
		}
		return "// Already included: " + raw + "\n"
	}

	fsName := path.Clean(imp.name)
	if !fs.ValidPath(fsName) {
		diag.ReportWarning(p.reporter, diag.PreMissingImport, span(),
			fmt.Sprintf("import %s escapes the include root", raw)).Emit()
		return "// Missing import: " + raw + "\n"
	}
	if _, err := fs.Stat(p.fsys, fsName); err != nil {
		diag.ReportWarning(p.reporter, diag.PreMissingImport, span(),
			fmt.Sprintf("import %s not found in %s", raw, p.root)).Emit()
		return "// Missing import: " + raw + "\n"
	}

	// в набор до чтения: самоимпорт ловится сразу
	p.included[imp.path] = struct{}{}

	content, err := fs.ReadFile(p.fsys, fsName)
	if err != nil {
		diag.ReportError(p.reporter, diag.PreImportReadError, span(),
			fmt.Sprintf("error importing %s: %v", raw, err)).Emit()
		return fmt.Sprintf("// Error importing %s: %v\n", raw, err)
	}
	content, _ = source.Normalize(content)

	parent := uint64(0)
	if n := len(p.spans); n > 0 {
		parent = p.spans[n-1]
	}
	tspan := trace.Begin(p.tracer, trace.ScopeImport, "import:"+raw, parent)
	p.active = append(p.active, imp.path)
	p.spans = append(p.spans, tspan.ID())

	expanded := p.expand(string(content), imp.path)

	p.active = p.active[:len(p.active)-1]
	p.spans = p.spans[:len(p.spans)-1]
	tspan.End("")

	return "// Import: " + raw + "\n" + expanded + "\n"
}

// chain renders the active import chain ending at target, for cycle reports.
func (p *Preprocessor) chain(target string) string {
	start := slices.Index(p.active, target)
	if start < 0 {
		return target
	}
	parts := make([]string, 0, len(p.active)-start+1)
	for _, entry := range p.active[start:] {
		parts = append(parts, p.display(entry))
	}
	parts = append(parts, p.display(target))
	return strings.Join(parts, " -> ")
}

func (p *Preprocessor) display(resolved string) string {
	if rel, err := filepath.Rel(p.root, resolved); err == nil {
		return filepath.ToSlash(rel)
	}
	return resolved
}
