package preprocess

import (
	"strconv"
	"strings"
)

const (
	versionKeyword   = "#version"
	precisionKeyword = "precision"
	std140Keyword    = "layout(std140)"
	uniformKeyword   = "uniform"
)

// samplerNote is the tail of the marker left in place of a combined sampler.
const samplerNote = " - requires texture+sampler binding"

// stripVersions removes `#version N` directives. A `#version` without a
// number is dropped too, and the pass repeats until no `#version` is left,
// since removing one directive can glue its neighbours into a new one.
func stripVersions(src string) string {
	for strings.Contains(src, versionKeyword) {
		src, _ = rewrite(src, versionKeyword, false, func(s *scanner, _ int) (string, bool) {
			end := s.off
			if s.spaces() {
				if _, ok := s.digits(); ok {
					return "", true
				}
			}
			s.off = end
			return "", true
		})
	}
	return src
}

// stripPrecision removes `precision <qualifier> <type>;` declarations.
func stripPrecision(src string) (string, int) {
	return rewrite(src, precisionKeyword, true, func(s *scanner, _ int) (string, bool) {
		if !s.spaces() {
			return "", false
		}
		if _, ok := s.word(); !ok {
			return "", false
		}
		if !s.spaces() {
			return "", false
		}
		if _, ok := s.word(); !ok {
			return "", false
		}
		return "", s.lit(";")
	})
}

// matchUniformBlock parses ` uniform NAME` after `layout(std140)`.
func matchUniformBlock(s *scanner) (string, bool) {
	if !s.spaces() || !s.lit(uniformKeyword) || !s.spaces() {
		return "", false
	}
	return s.word()
}

// matchSampler parses ` sampler2D NAME;` after `uniform`.
func matchSampler(s *scanner) (string, bool) {
	if !s.spaces() || !s.lit("sampler2D") || !s.spaces() {
		return "", false
	}
	name, ok := s.word()
	if !ok || !s.lit(";") {
		return "", false
	}
	return name, true
}

func bindingDecl(index uint32, name string) string {
	return "layout(std140, binding=" + strconv.FormatUint(uint64(index), 10) + ") uniform " + name
}

func samplerMarker(name string) string {
	return "// SAMPLER: " + name + samplerNote
}
