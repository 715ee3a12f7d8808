package preprocess

import "strings"

// scanner walks a directive after its leading keyword.
// A failed match leaves off wherever it stopped; callers discard it.
type scanner struct {
	src string
	off int
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// spaces consumes one or more whitespace bytes.
func (s *scanner) spaces() bool {
	start := s.off
	for s.off < len(s.src) && isSpace(s.src[s.off]) {
		s.off++
	}
	return s.off > start
}

func (s *scanner) lit(l string) bool {
	if !strings.HasPrefix(s.src[s.off:], l) {
		return false
	}
	s.off += len(l)
	return true
}

func (s *scanner) run(pred func(byte) bool) (string, bool) {
	start := s.off
	for s.off < len(s.src) && pred(s.src[s.off]) {
		s.off++
	}
	return s.src[start:s.off], s.off > start
}

// word consumes an identifier-like run ([A-Za-z0-9_]+).
func (s *scanner) word() (string, bool) {
	return s.run(isWordByte)
}

func (s *scanner) digits() (string, bool) {
	return s.run(isDigit)
}

// until consumes one or more bytes up to stop (excluded from the result,
// but consumed). A newline ends the attempt.
func (s *scanner) until(stop byte) (string, bool) {
	start := s.off
	for s.off < len(s.src) {
		switch s.src[s.off] {
		case stop:
			if s.off == start {
				return "", false
			}
			text := s.src[start:s.off]
			s.off++
			return text, true
		case '\n':
			return "", false
		}
		s.off++
	}
	return "", false
}

// matchFunc tries to match the rest of a directive after its keyword.
// at is the offset of the keyword; on success the scanner offset marks the end.
type matchFunc func(s *scanner, at int) (replacement string, ok bool)

// rewrite replaces every leftmost, non-overlapping directive that starts with
// keyword and is accepted by match. wordStart requires that keyword is not
// glued to a preceding identifier. It returns the rewritten text and the
// number of replacements; with zero replacements src is returned as is.
func rewrite(src, keyword string, wordStart bool, match matchFunc) (string, int) {
	var b strings.Builder
	n, last, i := 0, 0, 0
	for {
		j := strings.Index(src[i:], keyword)
		if j < 0 {
			break
		}
		at := i + j
		if wordStart && at > 0 && isWordByte(src[at-1]) {
			i = at + 1
			continue
		}
		s := scanner{src: src, off: at + len(keyword)}
		repl, ok := match(&s, at)
		if !ok {
			i = at + 1
			continue
		}
		if n == 0 {
			b.Grow(len(src))
		}
		b.WriteString(src[last:at])
		b.WriteString(repl)
		last, i = s.off, s.off
		n++
	}
	if n == 0 {
		return src, 0
	}
	b.WriteString(src[last:])
	return b.String(), n
}
