package preprocess

import "testing"

func TestStripVersions(t *testing.T) {
	tests := map[string]string{
		"#version 150\nx":      "\nx",
		"#version 150 core\n":  " core\n",
		"a #version\t330":      "a ",
		"#version150":          "150",
		"#version":             "",
		"no directive":         "no directive",
		"#ver#version 1sion 2": "",
	}
	for in, want := range tests {
		if got := stripVersions(in); got != want {
			t.Errorf("stripVersions(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripPrecision(t *testing.T) {
	got, n := stripPrecision("precision highp float;precision\tlowp\nint;x")
	if got != "x" || n != 2 {
		t.Errorf("got %q (%d), want %q (2)", got, n, "x")
	}
	if _, n := stripPrecision("precision highp;"); n != 0 {
		t.Errorf("half declaration stripped")
	}
}

func TestRewriteRespectsWordStart(t *testing.T) {
	match := func(s *scanner, _ int) (string, bool) { return "X", true }
	got, n := rewrite("uniform nonuniform _uniform uniform", "uniform", true, match)
	if got != "X nonuniform _uniform X" || n != 2 {
		t.Errorf("got %q (%d)", got, n)
	}
}

func TestScannerUntil(t *testing.T) {
	s := scanner{src: "minecraft:a.glsl> tail"}
	text, ok := s.until('>')
	if !ok || text != "minecraft:a.glsl" || s.src[s.off:] != " tail" {
		t.Errorf("until = %q,%v rest %q", text, ok, s.src[s.off:])
	}
	s = scanner{src: "open\n>"}
	if _, ok := s.until('>'); ok {
		t.Error("until crossed a newline")
	}
}
