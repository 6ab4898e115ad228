// Package workspace manages a VHDL project directory: the vw.toml manifest,
// the vw.lock resolution file, git-sourced dependencies cached under the
// user's home directory, and the generated editor/simulator configuration
// that points at them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFile = "vw.toml"
	LockFile   = "vw.lock"
)

// Config is the parsed vw.toml manifest.
type Config struct {
	Workspace    Info                  `toml:"workspace"`
	Dependencies map[string]Dependency `toml:"dependencies"`
}

// Info names the workspace.
type Info struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Dependency is one git-sourced VHDL dependency. Exactly one of Branch or
// Commit selects the revision; Src is the subdirectory of the repository to
// take files from.
type Dependency struct {
	Repo      string `toml:"repo"`
	Branch    string `toml:"branch,omitempty"`
	Commit    string `toml:"commit,omitempty"`
	Src       string `toml:"src"`
	Recursive bool   `toml:"recursive,omitempty"`
}

// Validate checks the revision selector.
func (d Dependency) Validate() error {
	if d.Branch != "" && d.Commit != "" {
		return fmt.Errorf("cannot specify both branch and commit for a dependency")
	}
	if d.Branch == "" && d.Commit == "" {
		return fmt.Errorf("must specify either branch or commit for a dependency")
	}
	return nil
}

// Init creates a fresh vw.toml in dir. It refuses to overwrite one.
func Init(dir, name string) error {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists in %s", ConfigFile, dir)
	}
	cfg := &Config{
		Workspace:    Info{Name: name, Version: "0.1.0"},
		Dependencies: make(map[string]Dependency),
	}
	return SaveConfig(dir, cfg)
}

// LoadConfig reads dir/vw.toml.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found in %s", ConfigFile, dir)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Dependencies == nil {
		cfg.Dependencies = make(map[string]Dependency)
	}
	return &cfg, nil
}

// SaveConfig writes dir/vw.toml.
func SaveConfig(dir string, cfg *Config) error {
	path := filepath.Join(dir, ConfigFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// AddDependency records a dependency in vw.toml, creating the manifest if
// the directory has none yet. When name is empty the repository basename is
// used.
func AddDependency(dir, name string, dep Dependency) (string, error) {
	if err := dep.Validate(); err != nil {
		return "", err
	}
	if dep.Src == "" {
		dep.Src = "."
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		cfg = &Config{
			Workspace:    Info{Name: "workspace", Version: "0.1.0"},
			Dependencies: make(map[string]Dependency),
		}
	}
	if name == "" {
		name = RepoName(dep.Repo)
	}
	cfg.Dependencies[name] = dep
	if err := SaveConfig(dir, cfg); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveDependency drops a dependency from vw.toml.
func RemoveDependency(dir, name string) error {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return err
	}
	if _, ok := cfg.Dependencies[name]; !ok {
		return fmt.Errorf("dependency %q not found", name)
	}
	delete(cfg.Dependencies, name)
	return SaveConfig(dir, cfg)
}

// RepoName derives a dependency name from a git URL.
func RepoName(repo string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(repo, "/"), ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "dependency"
	}
	return trimmed
}
