package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mojwgsl/internal/diag"
)

func TestJSONPositionsAndTitle(t *testing.T) {
	bag, fs := missingImportBag(t)
	bag.Add(diag.NewForPath(diag.SevError, diag.TrnFailed, "/home/user/pack/core/a.fsh", "Conversion failed"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "PRE2001" || first.Title != "Missing import" || first.Severity != "WARNING" {
		t.Errorf("unexpected header %+v", first)
	}
	if first.Location.File != "core/a.vsh" || first.Location.StartLine != 1 || first.Location.EndCol != 33 {
		t.Errorf("unexpected location %+v", first.Location)
	}
	second := out.Diagnostics[1]
	if second.Location.File != "core/a.fsh" || second.Location.StartLine != 0 {
		t.Errorf("path-only location %+v", second.Location)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := missingImportBag(t)
	bag.Add(diag.NewForPath(diag.SevError, diag.TrnFailed, "x", "y"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
}
