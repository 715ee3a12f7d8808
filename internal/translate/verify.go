package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// VerifyError describes WGSL that the pure-Go front end rejected.
type VerifyError struct {
	// Phase is "parse", "lower" or "validate".
	Phase    string
	Messages []string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("wgsl %s: %s", e.Phase, strings.Join(e.Messages, "; "))
}

// EntryPoint is one entry function found in the module.
type EntryPoint struct {
	Name  string
	Stage Stage
}

// ResourceBinding is a global resource with an explicit @group/@binding.
type ResourceBinding struct {
	Name    string
	Group   uint32
	Binding uint32
	Space   string
}

// Report is what verification learned about a WGSL module.
type Report struct {
	EntryPoints []EntryPoint
	Bindings    []ResourceBinding
}

// Verify parses, lowers and validates WGSL. The report is filled
// whenever lowering succeeded, even if validation then failed.
func Verify(wgsl string) (*Report, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, &VerifyError{Phase: "parse", Messages: []string{err.Error()}}
	}
	module, err := naga.LowerWithSource(ast, wgsl)
	if err != nil {
		return nil, &VerifyError{Phase: "lower", Messages: []string{err.Error()}}
	}

	report := reflectModule(module)
	problems, err := naga.Validate(module)
	if err != nil {
		return report, &VerifyError{Phase: "validate", Messages: []string{err.Error()}}
	}
	if len(problems) > 0 {
		msgs := make([]string, 0, len(problems))
		for _, p := range problems {
			msgs = append(msgs, p.Error())
		}
		return report, &VerifyError{Phase: "validate", Messages: msgs}
	}
	return report, nil
}

func reflectModule(module *ir.Module) *Report {
	report := &Report{}
	for _, ep := range module.EntryPoints {
		var stage Stage
		switch ep.Stage {
		case ir.StageVertex:
			stage = StageVertex
		case ir.StageFragment:
			stage = StageFragment
		case ir.StageCompute:
			stage = StageCompute
		default:
			continue
		}
		report.EntryPoints = append(report.EntryPoints, EntryPoint{Name: ep.Name, Stage: stage})
	}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		report.Bindings = append(report.Bindings, ResourceBinding{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Space:   spaceName(gv.Space),
		})
	}
	sort.SliceStable(report.Bindings, func(i, j int) bool {
		a, b := report.Bindings[i], report.Bindings[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Binding < b.Binding
	})
	return report
}

func spaceName(space ir.AddressSpace) string {
	switch space {
	case ir.SpaceUniform:
		return "uniform"
	case ir.SpaceStorage:
		return "storage"
	case ir.SpaceHandle:
		return "handle"
	case ir.SpacePushConstant:
		return "push_constant"
	case ir.SpacePrivate:
		return "private"
	case ir.SpaceWorkGroup:
		return "workgroup"
	default:
		return "function"
	}
}
