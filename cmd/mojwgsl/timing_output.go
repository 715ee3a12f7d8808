package main

import (
	"fmt"
	"io"
	"time"

	"mojwgsl/internal/pipeline"
)

// printStageTimings prints cumulative per-stage time; translate, verify and
// write add up across workers and can exceed wall time.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	labels := map[pipeline.Stage]string{
		pipeline.StageCollect:    "collected",
		pipeline.StagePreprocess: "preprocessed",
		pipeline.StageTranslate:  "translated",
		pipeline.StageVerify:     "verified",
		pipeline.StageWrite:      "written",
	}
	for _, stage := range pipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if stage == pipeline.StageVerify && timings.Duration(stage) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", labels[stage], toMillis(timings.Duration(stage)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
