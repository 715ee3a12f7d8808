package pipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageTranslate) {
		t.Fatal("empty timings must not report stages")
	}
	tm.Set(StagePreprocess, 2*time.Millisecond)
	tm.Add(StageTranslate, time.Millisecond)
	tm.Add(StageTranslate, time.Millisecond)
	if got := tm.Duration(StageTranslate); got != 2*time.Millisecond {
		t.Fatalf("translate = %v", got)
	}
	if got := tm.Sum(StagePreprocess, StageTranslate, StageWrite); got != 4*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
}

func TestEmitNilSink(t *testing.T) {
	Emit(nil, Event{Stage: StageCollect})
	var rec Recorder
	Emit(&rec, Event{File: "a.vsh", Stage: StageCollect, Status: StatusQueued})
	if evs := rec.Events(); len(evs) != 1 || evs[0].File != "a.vsh" {
		t.Fatalf("events = %+v", evs)
	}
}
