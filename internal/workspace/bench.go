package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oxidecomputer/vw/internal/nvc"
)

const benchDirName = "bench"

// TestbenchInfo is one runnable testbench entity and the file declaring it.
type TestbenchInfo struct {
	Name string
	Path string
}

// ListTestbenches scans dir/bench for VHDL files and returns every entity
// they declare, in file order. A missing bench directory is an empty list,
// not an error.
func ListTestbenches(dir string) ([]TestbenchInfo, error) {
	benchDir := filepath.Join(dir, benchDirName)
	if !dirExists(benchDir) {
		return nil, nil
	}
	files, err := FindVHDLFiles(benchDir, false)
	if err != nil {
		return nil, err
	}
	var benches []TestbenchInfo
	for _, f := range files {
		entities, err := FileEntities(f)
		if err != nil {
			return nil, err
		}
		for _, e := range entities {
			benches = append(benches, TestbenchInfo{Name: e, Path: f})
		}
	}
	return benches, nil
}

// RunTestbench analyzes the dependency libraries and the testbench's own
// closure, elaborates the named entity, and runs it with a waveform dump
// <name>.fst in the workspace directory.
func RunTestbench(dir, name string, std nvc.Standard, tool *nvc.Tool) error {
	lsCfg, err := LoadLSConfig(dir)
	if err != nil {
		return err
	}
	buildDir := filepath.Join(dir, "build")
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", buildDir, err)
	}

	// Dependency libraries first, in name order.
	libNames := make([]string, 0, len(lsCfg.Libraries))
	for lib := range lsCfg.Libraries {
		if lib != "defaultlib" {
			libNames = append(libNames, lib)
		}
	}
	sort.Strings(libNames)
	for _, lib := range libNames {
		files, err := expandLibraryFiles(lsCfg.Libraries[lib].Files)
		if err != nil {
			return err
		}
		ordered, err := SortByDependencies(files)
		if err != nil {
			return fmt.Errorf("library %s: %w", lib, err)
		}
		// nvc rejects hyphens in library names.
		workLib := strings.ReplaceAll(lib, "-", "_")
		if _, err := tool.Analyze(std, buildDir, workLib, ordered); err != nil {
			return err
		}
	}

	benchDir := filepath.Join(dir, benchDirName)
	if !dirExists(benchDir) {
		return fmt.Errorf("no %q directory found in %s", benchDirName, dir)
	}
	tbFile, err := findTestbenchFile(benchDir, name)
	if err != nil {
		return err
	}

	available, err := defaultLibFiles(dir, lsCfg, benchDir, name)
	if err != nil {
		return err
	}
	referenced, err := FindReferencedFiles(tbFile, available)
	if err != nil {
		return err
	}
	ordered, err := SortByDependencies(referenced)
	if err != nil {
		return err
	}

	files := append(ordered, tbFile)
	if _, err := tool.Analyze(std, buildDir, "work", files); err != nil {
		return err
	}
	if _, err := tool.Elaborate(std, buildDir, "work", name); err != nil {
		return err
	}
	_, err = tool.Run(std, buildDir, "work", name, nvc.RunOptions{
		DumpArrays: true,
		Wave:       filepath.Join(dir, name+".fst"),
	})
	return err
}

// defaultLibFiles returns the workspace's own sources, excluding files that
// declare a different testbench than the one being run.
func defaultLibFiles(dir string, lsCfg *LSConfig, benchDir, running string) ([]string, error) {
	lib, ok := lsCfg.Libraries["defaultlib"]
	if !ok {
		return nil, nil
	}
	files, err := expandLibraryFiles(lib.Files)
	if err != nil {
		return nil, err
	}
	var kept []string
	for _, f := range files {
		abs := f
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, f)
		}
		if !strings.HasPrefix(abs, benchDir+string(filepath.Separator)) {
			kept = append(kept, abs)
			continue
		}
		entities, err := FileEntities(abs)
		if err != nil {
			return nil, err
		}
		other := false
		for _, e := range entities {
			if strings.HasSuffix(strings.ToLower(e), "_tb") && !strings.EqualFold(e, running) {
				other = true
				break
			}
		}
		if !other {
			kept = append(kept, abs)
		}
	}
	return kept, nil
}

func expandLibraryFiles(files []string) ([]string, error) {
	expanded := make([]string, 0, len(files))
	for _, f := range files {
		path, err := expandPath(f)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, path)
	}
	return expanded, nil
}

func findTestbenchFile(benchDir, name string) (string, error) {
	files, err := FindVHDLFiles(benchDir, false)
	if err != nil {
		return "", err
	}
	var found []string
	for _, f := range files {
		entities, err := FileEntities(f)
		if err != nil {
			return "", err
		}
		for _, e := range entities {
			if strings.EqualFold(e, name) {
				found = append(found, f)
				break
			}
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("testbench entity %q not found in %s", name, benchDir)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("multiple files declare entity %q: %s", name, strings.Join(found, ", "))
	}
}
