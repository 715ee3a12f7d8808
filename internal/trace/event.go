package trace

import (
	"fmt"
	"strings"
	"time"
)

// Level controls tracing verbosity. Each level admits every scope up to
// its own depth.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // batch only
	LevelPhase        // batch + passes
	LevelDetail       // + per-file
	LevelDebug        // + single imports
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest scope admitted per level
var levelDepth = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeBatch,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeImport,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value; the empty string is off.
func ParseLevel(s string) (Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if v == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelDepth) || scope == 0 {
		return false
	}
	return scope <= levelDepth[l]
}

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeBatch  Scope = iota + 1 // one CLI command
	ScopePass                    // preprocess, translate, verify, write
	ScopeFile                    // one shader
	ScopeImport                  // one #moj_import expansion
)

var scopeNames = [...]string{ScopeBatch: "batch", ScopePass: "pass", ScopeFile: "file", ScopeImport: "import"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record. Elapsed is set on span end events only.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "convert", "translate:core/sky", "import:minecraft:fog.glsl"
	Detail   string
	Elapsed  time.Duration
	Extra    map[string]string
}

// Point emits an instant event when the tracer accepts the scope.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}
