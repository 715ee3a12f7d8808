package diag

import (
	"testing"

	"mojwgsl/internal/source"
)

func TestBagLimitAndCounts(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(SevWarning, PreMissingImport, source.Span{}, "a")) {
		t.Fatal("first add rejected")
	}
	b.Add(New(SevInfo, PreDuplicateImport, source.Span{}, "b"))
	if b.Add(New(SevError, PreImportReadError, source.Span{}, "c")) {
		t.Fatal("add beyond limit accepted")
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	if b.HasErrors() {
		t.Error("dropped error must not count")
	}
	if !b.HasWarnings() || b.Count(SevInfo) != 1 {
		t.Error("unexpected severity counts")
	}
}

func TestBagMergeGrows(t *testing.T) {
	a := NewBag(1)
	a.Add(NewForPath(SevError, TrnFailed, "core/a.vsh", "boom"))
	other := NewBag(3)
	other.Add(NewForPath(SevWarning, TrnVerifyFailed, "core/b.fsh", "meh"))
	other.Add(NewForPath(SevInfo, PrjSkippedFile, "core/c.json", "skip"))
	a.Merge(other)
	if a.Len() != 3 || a.Cap() < 3 {
		t.Fatalf("merge lost items: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(NewForPath(SevInfo, PrjSkippedFile, "b", "x"))
	b.Add(NewForPath(SevError, TrnFailed, "a", "y"))
	b.Add(NewForPath(SevError, TrnFailed, "a", "y"))
	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("dedup: got %d items", len(items))
	}
	if items[0].Path != "a" {
		t.Errorf("sort: first path %q", items[0].Path)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		IOLoadFileError:    "IO1001",
		PreMissingImport:   "PRE2001",
		PreCombinedSampler: "PRE2101",
		TrnFailed:          "TRN3001",
		PrjSkippedFile:     "PRJ4001",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if PreImportCycle.Title() != "Import cycle" {
		t.Errorf("title = %q", PreImportCycle.Title())
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("core/a.vsh", []byte("void main() {}\n#moj_import <minecraft:fog.glsl>\n"))

	bag := NewBag(10)
	r := BagReporter{Bag: bag}
	ReportWarning(r, PreMissingImport, source.Span{File: id, Start: 15, End: 46}, "Missing import: minecraft:fog.glsl").Emit()
	bag.Add(NewForPath(SevError, TrnFailed, "core/a.vsh", "naga:\nbad token"))

	got := FormatShortDiagnostics(bag.Items(), fs, false)
	want := "error TRN3001 core/a.vsh naga: bad token\n" +
		"warning PRE2001 core/a.vsh:2:1 Missing import: minecraft:fog.glsl"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBagAtLeast(t *testing.T) {
	b := NewBag(1)
	b.Add(NewForPath(SevWarning, PreMissingImport, "a", "w"))
	b.Add(NewForPath(SevInfo, PreCombinedSampler, "a", "dropped by limit"))
	if got := b.AtLeast(SevError); got.Len() != 0 || got.Dropped() != 1 {
		t.Fatalf("AtLeast(error): len=%d dropped=%d", got.Len(), got.Dropped())
	}
	if got := b.AtLeast(SevInfo); got.Len() != 1 {
		t.Fatalf("AtLeast(info): len=%d", got.Len())
	}
}

func TestParseSeverity(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Severity
	}{
		{"info", SevInfo},
		{" Warning ", SevWarning},
		{"ERROR", SevError},
	} {
		got, err := ParseSeverity(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("fatal is not a severity")
	}
	if SevWarning.String() != "WARNING" || SevError.Label() != "error" || Severity(9).Label() != "unknown" {
		t.Error("unexpected severity spelling")
	}
}
