package workspace

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// UpdateResult reports what an update touched, in dependency-name order.
type UpdateResult struct {
	Dependencies []DependencyUpdate
}

// DependencyUpdate is one dependency's outcome.
type DependencyUpdate struct {
	Name      string
	Commit    string
	WasCached bool
}

const fetchConcurrency = 4

// Update resolves every dependency in vw.toml to a commit, populates the
// shared cache, and rewrites vw.lock and the managed vhdl_ls.toml libraries.
// Fetches run concurrently; the written files are ordered by name so
// repeated updates produce identical output.
func Update(dir string) (*UpdateResult, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	cache, err := openDepCache()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Dependencies))
	for name := range cfg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		mu      sync.Mutex
		lock    = &Lock{Dependencies: make(map[string]LockedDependency)}
		managed = make(map[string]LSLibrary)
		updates = make(map[string]DependencyUpdate)
	)

	var g errgroup.Group
	g.SetLimit(fetchConcurrency)
	for _, name := range names {
		name := name
		dep := cfg.Dependencies[name]
		g.Go(func() error {
			commit, err := resolveCommit(dep)
			if err != nil {
				return fmt.Errorf("dependency %q: %w", name, err)
			}
			path := cache.checkoutPath(name, commit)
			cached := dirExists(path)
			if !cached {
				if err := fetchDependency(dep, commit, path); err != nil {
					return fmt.Errorf("dependency %q: %w", name, err)
				}
				if err := cache.recordFetch(name, dep.Repo, commit); err != nil {
					return fmt.Errorf("dependency %q: record fetch: %w", name, err)
				}
			}
			files, err := FindVHDLFiles(path, dep.Recursive)
			if err != nil {
				return fmt.Errorf("dependency %q: %w", name, err)
			}

			mu.Lock()
			defer mu.Unlock()
			lock.Dependencies[name] = LockedDependency{
				Repo:      dep.Repo,
				Commit:    commit,
				Src:       dep.Src,
				Path:      path,
				Recursive: dep.Recursive,
			}
			if len(files) > 0 {
				portable := make([]string, len(files))
				for i, f := range files {
					portable[i] = portablePath(f)
				}
				managed[name] = LSLibrary{Files: portable, IsThirdParty: true}
			}
			updates[name] = DependencyUpdate{Name: name, Commit: commit, WasCached: cached}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := SaveLock(dir, lock); err != nil {
		return nil, err
	}
	if err := mergeLSConfig(dir, managed); err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	for _, name := range names {
		result.Dependencies = append(result.Dependencies, updates[name])
	}
	return result, nil
}

// ClearCache removes every cached checkout belonging to this workspace's
// dependencies and returns the removed directory names.
func ClearCache(dir string) ([]string, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	cache, err := openDepCache()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg.Dependencies))
	for name := range cfg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var cleared []string
	for _, name := range names {
		removed, err := cache.clearDependency(name)
		if err != nil {
			return cleared, err
		}
		cleared = append(cleared, removed...)
	}
	return cleared, nil
}

// resolveCommit turns a dependency's revision selector into a commit sha.
// Pinned commits resolve locally; branches ask the remote.
func resolveCommit(dep Dependency) (string, error) {
	if err := dep.Validate(); err != nil {
		return "", err
	}
	if dep.Commit != "" {
		return dep.Commit, nil
	}
	out, err := exec.Command("git", "ls-remote", dep.Repo, dep.Branch).Output()
	if err != nil {
		return "", gitError("git ls-remote", err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("branch %q not found in %s", dep.Branch, dep.Repo)
	}
	return fields[0], nil
}

// fetchDependency clones the repository into a scratch directory, checks out
// the commit, and copies the VHDL sources under Src into dest.
func fetchDependency(dep Dependency, commit, dest string) error {
	tmp, err := os.MkdirTemp("", "vw-fetch-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if out, err := exec.Command("git", "clone", dep.Repo, tmp).CombinedOutput(); err != nil {
		return gitErrorOutput("git clone", out, err)
	}
	checkout := exec.Command("git", "checkout", commit)
	checkout.Dir = tmp
	if out, err := checkout.CombinedOutput(); err != nil {
		return gitErrorOutput("git checkout", out, err)
	}

	src := filepath.Join(tmp, dep.Src)
	if !dirExists(src) {
		return fmt.Errorf("source path %q does not exist in repository", dep.Src)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	return copyVHDLTree(src, dest, dep.Recursive)
}

func copyVHDLTree(src, dest string, recursive bool) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			if !recursive {
				continue
			}
			if err := os.MkdirAll(to, 0o755); err != nil {
				return err
			}
			if err := copyVHDLTree(from, to, recursive); err != nil {
				return err
			}
			continue
		}
		if !IsVHDLFile(from) {
			continue
		}
		data, err := os.ReadFile(from)
		if err != nil {
			return fmt.Errorf("read %s: %w", from, err)
		}
		if err := os.WriteFile(to, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", to, err)
		}
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func gitError(cmd string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%s: %s", cmd, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return fmt.Errorf("%s: %w", cmd, err)
}

func gitErrorOutput(cmd string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%s: %s", cmd, msg)
	}
	return fmt.Errorf("%s: %w", cmd, err)
}
