package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/pipeline"
	"mojwgsl/internal/preprocess"
	"mojwgsl/internal/source"
	"mojwgsl/internal/trace"
	"mojwgsl/internal/translate"
)

// Convert runs the batch: collect, preprocess, translate (+verify), write,
// then the per-category binding reports. Per-file problems end up in the
// file's Bag; only setup failures and cancellation return an error.
func Convert(ctx context.Context, opts Options) (*Result, error) {
	if opts.Translator == nil {
		return nil, errors.New("driver: no translator configured")
	}
	opts.normalize()

	tracer := trace.FromContext(ctx)
	batchSpan := trace.Begin(tracer, trace.ScopeBatch, "convert", trace.ParentFrom(ctx))
	defer batchSpan.End("")
	ctx = trace.WithParent(ctx, batchSpan.ID())

	res := &Result{
		FileSet: source.NewFileSetWithBase(opts.ShaderRoot),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}

	stop := opts.Timer.Track("collect")
	start := time.Now()
	files, skipped, err := collect(&opts, res.Bag)
	res.Timings.Set(pipeline.StageCollect, time.Since(start))
	stop(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return res, err
	}
	res.Files, res.Skipped = files, skipped
	for _, f := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: pipeline.StageCollect, Status: pipeline.StatusQueued})
	}

	stop = opts.Timer.Track("preprocess")
	start = time.Now()
	if opts.IsolateBindings {
		err = preprocessIsolated(ctx, &opts, res)
	} else {
		err = preprocessShared(ctx, &opts, res)
	}
	res.Timings.Set(pipeline.StagePreprocess, time.Since(start))
	stop(modeNote(opts.IsolateBindings))
	if err != nil {
		return res, err
	}

	stop = opts.Timer.Track("translate")
	err = translateAll(ctx, &opts, res)
	stop(strconv.Itoa(res.Converted()) + " converted")
	if err != nil {
		return res, err
	}

	stop = opts.Timer.Track("bindings")
	writeBindingReports(&opts, res)
	stop("")

	if opts.Log != nil {
		printSummary(opts.Log, &opts, res)
	}
	batchSpan.WithExtra("files", strconv.Itoa(len(files))).
		WithExtra("failed", strconv.Itoa(res.Failed()))
	return res, nil
}

func modeNote(isolated bool) string {
	if isolated {
		return "isolated bindings"
	}
	return "shared bindings"
}

func loadSource(fset *source.FileSet, f *FileResult) (string, bool) {
	id, err := fset.Load(f.Source)
	if err != nil {
		f.Failed = true
		f.Bag.Add(diag.NewForPath(diag.SevError, diag.IOLoadFileError, f.Source, "failed to load file: "+err.Error()))
		return "", false
	}
	f.Loaded = true
	return string(fset.Get(id).Content), true
}

// preprocessShared runs one preprocessor over every file in order, so the
// binding counter continues from file to file.
func preprocessShared(ctx context.Context, opts *Options, res *Result) error {
	tracer := trace.FromContext(ctx)
	router := &diag.BagReporter{}
	pp := preprocess.New(opts.IncludeDir,
		preprocess.WithReporter(router),
		preprocess.WithFileSet(res.FileSet),
		preprocess.WithTracer(tracer),
		preprocess.WithFirstBinding(opts.FirstBinding),
	)
	for _, f := range res.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: pipeline.StagePreprocess, Status: pipeline.StatusWorking})
		text, ok := loadSource(res.FileSet, f)
		if !ok {
			pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: pipeline.StagePreprocess, Status: pipeline.StatusError})
			continue
		}
		router.Bag = f.Bag
		f.Preprocessed = pp.Process(text, f.Source)
		f.Bindings = pp.Bindings()
	}
	return nil
}

// preprocessIsolated gives each file a fresh preprocessor, so files run in parallel.
func preprocessIsolated(ctx context.Context, opts *Options, res *Result) error {
	tracer := trace.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for _, f := range res.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: pipeline.StagePreprocess, Status: pipeline.StatusWorking})
			text, ok := loadSource(res.FileSet, f)
			if !ok {
				pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: pipeline.StagePreprocess, Status: pipeline.StatusError})
				return nil
			}
			pp := preprocess.New(opts.IncludeDir,
				preprocess.WithReporter(diag.BagReporter{Bag: f.Bag}),
				preprocess.WithFileSet(res.FileSet),
				preprocess.WithTracer(tracer),
				preprocess.WithFirstBinding(opts.FirstBinding),
			)
			f.Preprocessed = pp.Process(text, f.Source)
			f.Bindings = pp.Bindings()
			return nil
		})
	}
	return g.Wait()
}

// translateAll translates, verifies and writes every loaded file with a
// bounded worker group. Each goroutine owns exactly one FileResult.
func translateAll(ctx context.Context, opts *Options, res *Result) error {
	tracer := trace.FromContext(ctx)
	parent := trace.ParentFrom(ctx)

	var (
		translateDur = make([]time.Duration, len(res.Files))
		verifyDur    = make([]time.Duration, len(res.Files))
		writeDur     = make([]time.Duration, len(res.Files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, f := range res.Files {
		if !f.Loaded {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span := trace.Begin(tracer, trace.ScopeFile, "translate:"+f.Name, parent).
				WithExtra("stage", f.Stage.String())
			defer func() { span.EndErr(f.Err) }()

			emit := func(stage pipeline.Stage, status pipeline.Status, err error) {
				pipeline.Emit(opts.Progress, pipeline.Event{File: f.Source, Stage: stage, Status: status, Err: err})
			}

			emit(pipeline.StageTranslate, pipeline.StatusWorking, nil)
			start := time.Now()
			out, err := opts.Translator.Translate(gctx, f.Preprocessed, f.Stage)
			translateDur[i] = time.Since(start)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				f.Failed = true
				f.Err = err
				f.Bag.Add(diag.NewForPath(diag.SevError, diag.TrnFailed, f.Source, failureMessage(err)))
				out = translate.FallbackOutput(err, f.Preprocessed)
			} else if opts.Verify {
				emit(pipeline.StageVerify, pipeline.StatusWorking, nil)
				start = time.Now()
				report, verr := translate.Verify(out)
				verifyDur[i] = time.Since(start)
				f.Report = report
				if verr != nil {
					f.Bag.Add(diag.NewForPath(diag.SevWarning, diag.TrnVerifyFailed, f.Output, verr.Error()))
				}
			}

			emit(pipeline.StageWrite, pipeline.StatusWorking, nil)
			start = time.Now()
			werr := writeFile(f.Output, []byte(out))
			writeDur[i] = time.Since(start)
			if werr != nil {
				f.Failed = true
				if f.Err == nil {
					f.Err = werr
				}
				f.Bag.Add(diag.NewForPath(diag.SevError, diag.IOWriteError, f.Output, werr.Error()))
				emit(pipeline.StageWrite, pipeline.StatusError, werr)
				return nil
			}
			f.Written = true

			if f.Failed {
				emit(pipeline.StageTranslate, pipeline.StatusError, f.Err)
			} else {
				emit(pipeline.StageWrite, pipeline.StatusDone, nil)
			}
			return nil
		})
	}
	err := g.Wait()

	for i := range res.Files {
		res.Timings.Add(pipeline.StageTranslate, translateDur[i])
		res.Timings.Add(pipeline.StageVerify, verifyDur[i])
		res.Timings.Add(pipeline.StageWrite, writeDur[i])
	}
	return err
}

func failureMessage(err error) string {
	var failure *translate.Failure
	if errors.As(err, &failure) {
		return "Conversion failed: " + failure.Error()
	}
	return "Conversion error: " + err.Error()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- generated shader sources
}
