package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when fetchIndex changes shape.
const cacheIndexSchema uint16 = 1

// fetchIndex records what the dependency cache under ~/.vw/deps holds, so
// `vw list` and `vw clear` can report on cached checkouts without shelling
// out to git. It lives next to the checkouts as index.mp.
type fetchIndex struct {
	Schema  uint16
	Entries map[string]fetchEntry
}

type fetchEntry struct {
	Repo      string
	Commit    string
	FetchedAt time.Time
}

// depCache wraps the shared checkout directory.
type depCache struct {
	mu  sync.Mutex
	dir string
}

// openDepCache locates (and creates) the per-user dependency cache.
func openDepCache() (*depCache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locate dependency cache: %w", err)
	}
	dir := filepath.Join(home, ".vw", "deps")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &depCache{dir: dir}, nil
}

func (c *depCache) checkoutPath(name, commit string) string {
	return filepath.Join(c.dir, name+"-"+commit)
}

func (c *depCache) indexPath() string {
	return filepath.Join(c.dir, "index.mp")
}

func (c *depCache) loadIndex() (*fetchIndex, error) {
	f, err := os.Open(c.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fetchIndex{Schema: cacheIndexSchema, Entries: make(map[string]fetchEntry)}, nil
		}
		return nil, err
	}
	defer f.Close()
	var idx fetchIndex
	if err := msgpack.NewDecoder(f).Decode(&idx); err != nil || idx.Schema != cacheIndexSchema {
		// Unreadable or stale index is rebuilt from scratch.
		return &fetchIndex{Schema: cacheIndexSchema, Entries: make(map[string]fetchEntry)}, nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]fetchEntry)
	}
	return &idx, nil
}

// saveIndex writes the index via temp file and rename so a crash never
// leaves a torn file behind.
func (c *depCache) saveIndex(idx *fetchIndex) error {
	f, err := os.CreateTemp(c.dir, "index-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(idx); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.indexPath())
}

// recordFetch notes a checkout in the index.
func (c *depCache) recordFetch(name, repo, commit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, err := c.loadIndex()
	if err != nil {
		return err
	}
	idx.Entries[name+"-"+commit] = fetchEntry{
		Repo:      repo,
		Commit:    commit,
		FetchedAt: time.Now().UTC(),
	}
	return c.saveIndex(idx)
}

// clearDependency removes every cached checkout of the named dependency and
// returns what was deleted.
func (c *depCache) clearDependency(name string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.dir, err)
	}
	idx, err := c.loadIndex()
	if err != nil {
		return nil, err
	}

	var cleared []string
	for _, entry := range entries {
		if !entry.IsDir() || !hasCheckoutPrefix(entry.Name(), name) {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return cleared, fmt.Errorf("remove %s: %w", path, err)
		}
		delete(idx.Entries, entry.Name())
		cleared = append(cleared, entry.Name())
	}
	if err := c.saveIndex(idx); err != nil {
		return cleared, err
	}
	return cleared, nil
}

func hasCheckoutPrefix(dirName, depName string) bool {
	return len(dirName) > len(depName)+1 &&
		dirName[:len(depName)+1] == depName+"-"
}
