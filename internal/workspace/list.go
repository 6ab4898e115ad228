package workspace

import "sort"

// VersionKind says where a dependency's displayed revision comes from.
type VersionKind uint8

const (
	// VersionLocked means vw.lock pins an exact commit.
	VersionLocked VersionKind = iota
	// VersionBranch means the manifest tracks a branch not yet resolved.
	VersionBranch
	// VersionCommit means the manifest pins a commit not yet locked.
	VersionCommit
	// VersionUnknown means the manifest entry has no usable selector.
	VersionUnknown
)

// DependencyInfo is one row of `vw list`.
type DependencyInfo struct {
	Name     string
	Repo     string
	Kind     VersionKind
	Revision string
}

// ListDependencies reports the workspace's dependencies in name order,
// preferring locked commits over the manifest's selectors.
func ListDependencies(dir string) ([]DependencyInfo, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	lock, _ := LoadLock(dir)

	names := make([]string, 0, len(cfg.Dependencies))
	for name := range cfg.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var infos []DependencyInfo
	for _, name := range names {
		dep := cfg.Dependencies[name]
		info := DependencyInfo{Name: name, Repo: dep.Repo}
		switch {
		case lock != nil && lock.Dependencies[name].Commit != "":
			info.Kind = VersionLocked
			info.Revision = lock.Dependencies[name].Commit
		case dep.Branch != "":
			info.Kind = VersionBranch
			info.Revision = dep.Branch
		case dep.Commit != "":
			info.Kind = VersionCommit
			info.Revision = dep.Commit
		default:
			info.Kind = VersionUnknown
		}
		infos = append(infos, info)
	}
	return infos, nil
}
