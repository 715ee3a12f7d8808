package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one finished (or running) batch phase.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
	done bool
}

// Timer records wall time of the convert phases (collect, preprocess,
// translate, bindings) in the order they were started. Safe for concurrent
// use; a nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Track starts a phase and returns the function that stops it. Calling the
// stop function more than once keeps the first measurement.
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	t.mu.Lock()
	t.phases = append(t.phases, Phase{Name: name})
	idx := len(t.phases) - 1
	t.mu.Unlock()

	return func(note string) {
		elapsed := time.Since(start)
		t.mu.Lock()
		defer t.mu.Unlock()
		p := &t.phases[idx]
		if p.done {
			return
		}
		p.Dur, p.Note, p.done = elapsed, note, true
	}
}

// Phases returns a copy of the finished phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Phase, 0, len(t.phases))
	for _, p := range t.phases {
		if p.done {
			out = append(out, p)
		}
	}
	return out
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Share      float64 `json:"share"`
	Note       string  `json:"note,omitempty"`
}

// Report — итог по всем завершённым фазам.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	var total time.Duration
	for _, p := range phases {
		total += p.Dur
	}
	report := Report{TotalMS: millis(total), Phases: make([]PhaseReport, len(phases))}
	for i, p := range phases {
		share := 0.0
		if total > 0 {
			share = float64(p.Dur) / float64(total)
		}
		report.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Share: share, Note: p.Note}
	}
	return report
}

// Summary renders the report as an aligned table:
//
//	timings:
//	  translate      812.40 ms  93%  // 14 converted
//	  total          873.02 ms
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-12s %9.2f ms %3.0f%%", p.Name, p.DurationMS, p.Share*100)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %9.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
