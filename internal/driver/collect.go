package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/translate"
)

// OutputPath names the WGSL file for a shader: <out>/<category>/<stem>.<vert|frag|comp><ext>.
// The stage infix keeps a.vsh and a.fsh from colliding.
func OutputPath(outDir, category, name string, stage translate.Stage, suffixes translate.Suffixes, ext string) string {
	stem := strings.TrimSuffix(name, suffixes.For(stage))
	return filepath.Join(outDir, category, stem+"."+stage.Short()+ext)
}

// collect lists the shaders of every category: vertex files first, then
// fragment, then compute, each group sorted by name. The order fixes binding
// indices in the shared namespace.
func collect(opts *Options, batch *diag.Bag) ([]*FileResult, []string, error) {
	var (
		files   []*FileResult
		skipped []string
	)
	for _, category := range opts.Categories {
		dir := filepath.Join(opts.ShaderRoot, category)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				batch.Add(diag.NewForPath(diag.SevWarning, diag.PrjMissingCategory, dir,
					fmt.Sprintf("category %q not found", category)))
				continue
			}
			return nil, nil, fmt.Errorf("read category %s: %w", category, err)
		}

		var byStage [len(translate.Stages)][]*FileResult
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			path := filepath.Join(dir, name)
			stage, ok := opts.Suffixes.Match(name)
			if !ok {
				skipped = append(skipped, path)
				batch.Add(diag.NewForPath(diag.SevInfo, diag.PrjSkippedFile, path,
					"Skipping unknown shader type: "+filepath.Ext(name)))
				continue
			}
			byStage[stage] = append(byStage[stage], &FileResult{
				Category: category,
				Name:     name,
				Source:   path,
				Output:   OutputPath(opts.OutDir, category, name, stage, opts.Suffixes, opts.Extension),
				Stage:    stage,
				Bag:      diag.NewBag(opts.MaxDiagnostics),
			})
		}
		// os.ReadDir уже отсортирован по имени
		for _, group := range byStage {
			files = append(files, group...)
		}
	}
	return files, skipped, nil
}

// Plan lists the shader sources Convert would process, in batch order.
func Plan(opts Options) ([]string, error) {
	opts.normalize()
	files, _, err := collect(&opts, diag.NewBag(opts.MaxDiagnostics))
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Source
	}
	return paths, nil
}
