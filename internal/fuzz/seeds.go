package fuzztests

import (
	"testing"
	"testing/fstest"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var shaderSeeds = []string{
	"",
	"#version 150\n\nvoid main() {}\n",
	"#version 150\n#moj_import <minecraft:fog.glsl>\n#moj_import <minecraft:light.glsl>\n",
	"layout(std140) uniform DynamicTransforms {\n    mat4 ModelViewMat;\n};\nuniform sampler2D Sampler0;\n",
	"precision highp float;\nprecision mediump int;\n",
	"#moj_import <minecraft:cycle_a.glsl>\n",
	"#moj_import <unknown:thing>\n#moj_import <minecraft:>\n#moj_import <minecraft:../up.glsl>\n",
	"#ver#version 1sion 2",
}

// includeFS is a tiny include root with a diamond and a cycle.
func includeFS() fstest.MapFS {
	return fstest.MapFS{
		"fog.glsl":     {Data: []byte("#version 150\nlayout(std140) uniform Fog { vec4 FogColor; };\n#moj_import <minecraft:common.glsl>\n")},
		"light.glsl":   {Data: []byte("#moj_import <minecraft:common.glsl>\nuniform sampler2D Lightmap;\n")},
		"common.glsl":  {Data: []byte("precision highp float;\nfloat common_value;\n")},
		"cycle_a.glsl": {Data: []byte("#moj_import <minecraft:cycle_b.glsl>\n")},
		"cycle_b.glsl": {Data: []byte("#moj_import <minecraft:cycle_a.glsl>\n")},
	}
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range shaderSeeds {
		if len(seed) <= maxSeedBytes {
			f.Add([]byte(seed))
		}
	}
}
