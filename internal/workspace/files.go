package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// The textual scans below deliberately stay regex-based: they only need the
// names of design units and the work-library references between files, not a
// full parse.
var (
	entityDeclRe  = regexp.MustCompile(`(?i)\bentity\s+(\w+)\s+is\b`)
	packageDeclRe = regexp.MustCompile(`(?i)\bpackage\s+(\w+)\s+is\b`)
	useWorkRe     = regexp.MustCompile(`(?i)use\s+work\.(\w+)`)
	entityInstRe  = regexp.MustCompile(`(?i)\w+\s*:\s*entity\s+work\.(\w+)`)
	compDeclRe    = regexp.MustCompile(`(?i)\bcomponent\s+(\w+)`)
)

// IsVHDLFile reports whether the path has a VHDL source extension.
func IsVHDLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vhd", ".vhdl":
		return true
	}
	return false
}

// FindVHDLFiles lists the VHDL sources under dir, sorted by path. When
// recursive is false only the top level is scanned.
func FindVHDLFiles(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if IsVHDLFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// FileSymbols returns the entity and package names a VHDL file declares.
func FileSymbols(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var symbols []string
	for _, m := range packageDeclRe.FindAllSubmatch(content, -1) {
		symbols = append(symbols, string(m[1]))
	}
	for _, m := range entityDeclRe.FindAllSubmatch(content, -1) {
		symbols = append(symbols, string(m[1]))
	}
	return symbols, nil
}

// FileEntities returns only the entity names a VHDL file declares.
func FileEntities(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entities []string
	for _, m := range entityDeclRe.FindAllSubmatch(content, -1) {
		entities = append(entities, string(m[1]))
	}
	return entities, nil
}

// fileDependencies returns the work-library names a file refers to: used
// packages, directly instantiated entities, and declared components.
func fileDependencies(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	seen := make(map[string]bool)
	var deps []string
	add := func(name string) {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			deps = append(deps, name)
		}
	}
	for _, re := range []*regexp.Regexp{useWorkRe, entityInstRe, compDeclRe} {
		for _, m := range re.FindAllSubmatch(content, -1) {
			add(string(m[1]))
		}
	}
	return deps, nil
}

// FindReferencedFiles walks the work-library references starting from root
// and returns, in discovery order, the subset of available files the root
// transitively needs. The root itself is not included.
func FindReferencedFiles(root string, available []string) ([]string, error) {
	providers := make(map[string]string)
	for _, f := range available {
		symbols, err := FileSymbols(f)
		if err != nil {
			return nil, err
		}
		for _, sym := range symbols {
			key := strings.ToLower(sym)
			if _, ok := providers[key]; !ok {
				providers[key] = f
			}
		}
	}

	var referenced []string
	visited := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		deps, err := fileDependencies(current)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			provider, ok := providers[strings.ToLower(dep)]
			if !ok || visited[provider] {
				continue
			}
			visited[provider] = true
			referenced = append(referenced, provider)
			queue = append(queue, provider)
		}
	}
	return referenced, nil
}

// SortByDependencies reorders files so that every file appears after the
// files that declare the symbols it uses. The sort is stable for files with
// no ordering constraint between them. A reference cycle is an error.
func SortByDependencies(files []string) ([]string, error) {
	providers := make(map[string]string)
	for _, f := range files {
		symbols, err := FileSymbols(f)
		if err != nil {
			return nil, err
		}
		for _, sym := range symbols {
			key := strings.ToLower(sym)
			if _, ok := providers[key]; !ok {
				providers[key] = f
			}
		}
	}

	indegree := make(map[string]int, len(files))
	dependents := make(map[string][]string, len(files))
	for _, f := range files {
		indegree[f] = 0
	}
	for _, f := range files {
		deps, err := fileDependencies(f)
		if err != nil {
			return nil, err
		}
		counted := make(map[string]bool)
		for _, dep := range deps {
			provider, ok := providers[strings.ToLower(dep)]
			if !ok || provider == f || counted[provider] {
				continue
			}
			counted[provider] = true
			dependents[provider] = append(dependents[provider], f)
			indegree[f]++
		}
	}

	// Kahn's algorithm, seeded in input order so the result is stable.
	var queue, sorted []string
	for _, f := range files {
		if indegree[f] == 0 {
			queue = append(queue, f)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)
		for _, dep := range dependents[current] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if len(sorted) != len(files) {
		return nil, fmt.Errorf("circular dependency detected between VHDL files")
	}
	return sorted, nil
}
