package translate

import (
	"fmt"
	"strings"
)

// Stage is the programmable pipeline stage a shader file targets.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// Stages lists every stage in batch order.
var Stages = [...]Stage{StageVertex, StageFragment, StageCompute}

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// Short is the naga stage name, also used as the output file infix.
func (s Stage) Short() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageFragment:
		return "frag"
	case StageCompute:
		return "comp"
	default:
		return ""
	}
}

// ParseStage accepts both the long and the short spelling.
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vertex", "vert":
		return StageVertex, nil
	case "fragment", "frag":
		return StageFragment, nil
	case "compute", "comp":
		return StageCompute, nil
	default:
		return 0, fmt.Errorf("unknown shader stage %q", name)
	}
}

// Suffixes maps source file suffixes to stages. An empty suffix disables the stage.
type Suffixes struct {
	Vertex   string
	Fragment string
	Compute  string
}

// DefaultSuffixes returns the Minecraft layout: .vsh and .fsh, compute disabled.
func DefaultSuffixes() Suffixes {
	return Suffixes{Vertex: ".vsh", Fragment: ".fsh"}
}

// For returns the suffix configured for the stage.
func (s Suffixes) For(stage Stage) string {
	switch stage {
	case StageVertex:
		return s.Vertex
	case StageFragment:
		return s.Fragment
	case StageCompute:
		return s.Compute
	default:
		return ""
	}
}

// Match reports the stage for a file name, or false when no enabled suffix matches.
func (s Suffixes) Match(name string) (Stage, bool) {
	for _, stage := range Stages {
		suffix := s.For(stage)
		if suffix != "" && strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return stage, true
		}
	}
	return 0, false
}
