package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Lock is the parsed vw.lock file: the exact commit and cache path every
// dependency resolved to on the last update.
type Lock struct {
	Dependencies map[string]LockedDependency `toml:"dependencies"`
}

// LockedDependency is one resolved entry.
type LockedDependency struct {
	Repo      string `toml:"repo"`
	Commit    string `toml:"commit"`
	Src       string `toml:"src"`
	Path      string `toml:"path"`
	Recursive bool   `toml:"recursive,omitempty"`
}

// LoadLock reads dir/vw.lock.
func LoadLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFile)
	var lock Lock
	if _, err := toml.DecodeFile(path, &lock); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found in %s; run `vw update` first", LockFile, dir)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if lock.Dependencies == nil {
		lock.Dependencies = make(map[string]LockedDependency)
	}
	return &lock, nil
}

// SaveLock writes dir/vw.lock.
func SaveLock(dir string, lock *Lock) error {
	path := filepath.Join(dir, LockFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(lock); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
