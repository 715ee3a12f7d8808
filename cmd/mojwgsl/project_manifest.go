package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mojwgsl/internal/translate"
)

const manifestName = "mojwgsl.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Shaders    shadersConfig    `toml:"shaders"`
	Stages     stagesConfig     `toml:"stages"`
	Output     outputConfig     `toml:"output"`
	Translator translatorConfig `toml:"translator"`
}

type shadersConfig struct {
	Root       string   `toml:"root"`
	Include    string   `toml:"include"`
	Categories []string `toml:"categories"`
}

type stagesConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	Compute  string `toml:"compute"`
}

type outputConfig struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
}

type translatorConfig struct {
	Command string `toml:"command"`
	Verify  bool   `toml:"verify"`
}

// defaultProjectConfig mirrors the Minecraft resource layout.
func defaultProjectConfig() projectConfig {
	suffixes := translate.DefaultSuffixes()
	return projectConfig{
		Shaders: shadersConfig{
			Root:       "src/main/resources/shaders",
			Include:    "include",
			Categories: []string{"core"},
		},
		Stages: stagesConfig{
			Vertex:   suffixes.Vertex,
			Fragment: suffixes.Fragment,
		},
		Output: outputConfig{
			Dir:       "src/main/resources/shaders/wgsl",
			Extension: ".wgsl",
		},
		Translator: translatorConfig{
			Command: translate.DefaultCommand,
		},
	}
}

func (c projectConfig) suffixes() translate.Suffixes {
	return translate.Suffixes{
		Vertex:   c.Stages.Vertex,
		Fragment: c.Stages.Fragment,
		Compute:  c.Stages.Compute,
	}
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest finds mojwgsl.toml at or above startDir. Without one
// the defaults apply with startDir as the project root.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, false, absErr
		}
		return &projectManifest{Root: root, Config: defaultProjectConfig()}, false, nil
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := defaultProjectConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("shaders") {
		return projectConfig{}, fmt.Errorf("%s: missing [shaders]", path)
	}
	if strings.TrimSpace(cfg.Shaders.Root) == "" {
		return projectConfig{}, fmt.Errorf("%s: [shaders].root must not be empty", path)
	}
	if meta.IsDefined("shaders", "categories") && len(cfg.Shaders.Categories) == 0 {
		return projectConfig{}, fmt.Errorf("%s: [shaders].categories must list at least one directory", path)
	}
	if err := validateStages(cfg.Stages); err != nil {
		return projectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if !strings.HasPrefix(cfg.Output.Extension, ".") {
		return projectConfig{}, fmt.Errorf("%s: [output].extension must start with '.'", path)
	}
	return cfg, nil
}

func validateStages(stages stagesConfig) error {
	seen := make(map[string]string, 3)
	for _, entry := range []struct{ key, suffix string }{
		{"vertex", stages.Vertex},
		{"fragment", stages.Fragment},
		{"compute", stages.Compute},
	} {
		if entry.suffix == "" {
			continue
		}
		if !strings.HasPrefix(entry.suffix, ".") {
			return fmt.Errorf("[stages].%s must start with '.'", entry.key)
		}
		if other, dup := seen[entry.suffix]; dup {
			return fmt.Errorf("[stages].%s and [stages].%s share suffix %q", other, entry.key, entry.suffix)
		}
		seen[entry.suffix] = entry.key
	}
	if len(seen) == 0 {
		return errors.New("[stages] enables no stage")
	}
	return nil
}

// resolve joins a manifest-relative path onto the project root.
func (m *projectManifest) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

func (m *projectManifest) shaderRoot() string {
	return m.resolve(m.Config.Shaders.Root)
}

func (m *projectManifest) includeDir() string {
	inc := m.Config.Shaders.Include
	if filepath.IsAbs(inc) {
		return inc
	}
	return filepath.Join(m.shaderRoot(), filepath.FromSlash(inc))
}

func (m *projectManifest) outDir() string {
	return m.resolve(m.Config.Output.Dir)
}
