package translate

import (
	"errors"
	"testing"
)

func TestVerifyParseError(t *testing.T) {
	_, err := Verify("@vertex\nfn main( {\n    return vec4<f32>(0.0);\n}\n")
	var verr *VerifyError
	if !errors.As(err, &verr) {
		t.Fatalf("want *VerifyError, got %v", err)
	}
	if verr.Phase != "parse" {
		t.Fatalf("phase = %q, want parse", verr.Phase)
	}
}

func TestVerifyReflectsEntryPointsAndBindings(t *testing.T) {
	src := `
struct Camera {
    view_proj: mat4x4<f32>,
}

@group(0) @binding(2) var<uniform> camera: Camera;

@vertex
fn main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position.x, position.y, position.z, 1.0);
}
`
	report, err := Verify(src)
	var verr *VerifyError
	if err != nil && (!errors.As(err, &verr) || verr.Phase != "validate") {
		t.Fatalf("parse/lower must succeed, got %v", err)
	}
	if report == nil {
		t.Fatal("report missing after successful lowering")
	}
	if len(report.EntryPoints) != 1 || report.EntryPoints[0].Stage != StageVertex {
		t.Fatalf("entry points = %+v", report.EntryPoints)
	}
	if len(report.Bindings) != 1 {
		t.Fatalf("bindings = %+v", report.Bindings)
	}
	b := report.Bindings[0]
	if b.Name != "camera" || b.Group != 0 || b.Binding != 2 || b.Space != "uniform" {
		t.Fatalf("binding = %+v", b)
	}
}
