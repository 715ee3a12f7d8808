package driver

import (
	"mojwgsl/internal/diag"
	"mojwgsl/internal/pipeline"
	"mojwgsl/internal/preprocess"
	"mojwgsl/internal/source"
	"mojwgsl/internal/translate"
)

// FileResult is the outcome for one shader.
type FileResult struct {
	Category string
	Name     string // base name of the source
	Source   string
	Output   string
	Stage    translate.Stage

	Preprocessed string
	Bindings     []preprocess.Binding
	// Err is the translation error when the fallback text was written.
	Err error
	// Report is filled when verification ran on successful output.
	Report *translate.Report

	Loaded  bool
	Failed  bool
	Written bool
	Bag     *diag.Bag
}

// Result is the outcome of a whole batch.
type Result struct {
	Files   []*FileResult
	Skipped []string
	FileSet *source.FileSet
	// Bag holds batch-level findings (skipped files, missing categories, report writes).
	Bag     *diag.Bag
	Timings pipeline.Timings
}

// Converted counts files translated without failure.
func (r *Result) Converted() int {
	n := 0
	for _, f := range r.Files {
		if f.Written && !f.Failed {
			n++
		}
	}
	return n
}

// Failed counts files whose output is the fallback text or missing.
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed {
			n++
		}
	}
	return n
}

// Diagnostics merges every bag into one sorted bag.
func (r *Result) Diagnostics() *diag.Bag {
	capacity := 1
	if r.Bag != nil {
		capacity = max(r.Bag.Cap(), 1)
	}
	out := diag.NewBag(capacity)
	out.Merge(r.Bag)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	out.Sort()
	return out
}
