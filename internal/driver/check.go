package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"mojwgsl/internal/translate"
)

// CheckResult is the verification outcome of one WGSL file.
type CheckResult struct {
	Path   string
	Report *translate.Report
	Err    error
}

// listFiles возвращает отсортированный список файлов с расширением ext
func listFiles(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// Check parses and validates every WGSL file below dir in parallel.
// Files that cannot be read carry the read error in their result.
func Check(ctx context.Context, dir, ext string, jobs int) ([]CheckResult, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	files, err := listFiles(dir, ext)
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]CheckResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Path = path
			// #nosec G304 -- path comes from walking dir
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Report, results[i].Err = translate.Verify(string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
