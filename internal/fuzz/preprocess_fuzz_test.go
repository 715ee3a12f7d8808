package fuzztests

import (
	"strings"
	"testing"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/preprocess"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzPreprocess(f *testing.F) {
	addCorpusSeeds(f)
	fsys := includeFS()
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}

		bag := diag.NewBag(64)
		p := preprocess.New("include",
			preprocess.WithFS(fsys),
			preprocess.WithReporter(diag.BagReporter{Bag: bag}),
		)
		before := p.NextBinding()
		out := p.Process(string(input), "fuzz.vsh")

		if strings.Contains(out, "#version") {
			t.Fatalf("output still contains #version: %q", out)
		}
		for i, b := range p.Bindings() {
			if b.Index != before+uint32(i) {
				t.Fatalf("binding %s got %d, want %d", b.Name, b.Index, before+uint32(i))
			}
		}
	})
}
