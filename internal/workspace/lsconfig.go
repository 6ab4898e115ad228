package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const lsConfigFile = "vhdl_ls.toml"

// LSConfig mirrors the vhdl_ls language-server configuration. Only the
// dependency libraries are managed here; hand-written entries such as
// defaultlib are preserved across updates.
type LSConfig struct {
	Standard  string               `toml:"standard,omitempty"`
	Libraries map[string]LSLibrary `toml:"libraries"`
}

// LSLibrary is one library's file list.
type LSLibrary struct {
	Files        []string `toml:"files"`
	Exclude      []string `toml:"exclude,omitempty"`
	IsThirdParty bool     `toml:"is_third_party,omitempty"`
}

// LoadLSConfig reads dir/vhdl_ls.toml, returning an empty config when the
// file does not exist.
func LoadLSConfig(dir string) (*LSConfig, error) {
	path := filepath.Join(dir, lsConfigFile)
	var cfg LSConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &LSConfig{Libraries: make(map[string]LSLibrary)}, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Libraries == nil {
		cfg.Libraries = make(map[string]LSLibrary)
	}
	return &cfg, nil
}

// mergeLSConfig overwrites the managed libraries in dir/vhdl_ls.toml while
// keeping everything else the user put there.
func mergeLSConfig(dir string, managed map[string]LSLibrary) error {
	cfg, err := LoadLSConfig(dir)
	if err != nil {
		return err
	}
	for name, lib := range managed {
		cfg.Libraries[name] = lib
	}
	path := filepath.Join(dir, lsConfigFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// portablePath rewrites an absolute path under the user's home directory to
// a $HOME-prefixed form so vhdl_ls.toml can be committed and shared.
func portablePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("$HOME", rel)
	}
	return path
}

// expandPath undoes portablePath.
func expandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "$HOME"+string(filepath.Separator))
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, rest), nil
}
