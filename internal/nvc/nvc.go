// Package nvc drives the external nvc VHDL simulator. Analyze, elaborate,
// and run share a library/work-directory naming scheme so a later stage sees
// the artifacts of the earlier ones, and every invocation captures stdout
// and stderr in full. Stages run synchronously with no timeout: callers own
// serialization per work directory, and a hung simulator blocks its
// invocation.
package nvc

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Standard selects the VHDL language revision passed to nvc.
type Standard uint8

const (
	Std2008 Standard = iota
	Std2019
)

func (s Standard) String() string {
	if s == Std2008 {
		return "2008"
	}
	return "2019"
}

// ParseStandard maps a revision string to a Standard.
func ParseStandard(s string) (Standard, error) {
	switch s {
	case "2008":
		return Std2008, nil
	case "2019":
		return Std2019, nil
	}
	return 0, fmt.Errorf("unsupported VHDL standard %q (want 2008 or 2019)", s)
}

// Stage identifies one of the three toolchain operations.
type Stage uint8

const (
	StageAnalysis Stage = iota
	StageElaboration
	StageSimulation
)

func (s Stage) String() string {
	switch s {
	case StageAnalysis:
		return "analysis"
	case StageElaboration:
		return "elaboration"
	case StageSimulation:
		return "simulation"
	}
	return "unknown"
}

// Output is the captured result of one nvc invocation.
type Output struct {
	Command string
	Stdout  []byte
	Stderr  []byte
}

// StageError reports a failed stage with enough context to reproduce it by
// hand: the full command line and both captured streams.
type StageError struct {
	Stage   Stage
	Command string
	Stdout  []byte
	Stderr  []byte
	Err     error
}

func (e *StageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nvc %s failed\ncommand:\n%s\n", e.Stage, e.Command)
	if msg := strings.TrimSpace(string(e.Stderr)); msg != "" {
		fmt.Fprintf(&b, "stderr:\n%s\n", msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, "cause: %v", e.Err)
	}
	return b.String()
}

func (e *StageError) Unwrap() error { return e.Err }

// Tool invokes a specific nvc binary.
type Tool struct {
	Bin string
}

// New returns a Tool using the nvc found on PATH.
func New() *Tool {
	return &Tool{Bin: "nvc"}
}

// baseArgs builds the flags common to all three stages. The work library
// lives under the build directory so stages compose.
func (t *Tool) baseArgs(std Standard, buildDir, lib string) []string {
	return []string{
		"--std=" + std.String(),
		"--work=" + filepath.Join(buildDir, lib),
		"-M", "256m",
		"-L", buildDir,
	}
}

// Analyze runs `nvc -a` over the given files.
func (t *Tool) Analyze(std Standard, buildDir, lib string, files []string) (Output, error) {
	args := append(t.baseArgs(std, buildDir, lib), "-a")
	args = append(args, files...)
	return t.run(StageAnalysis, args)
}

// Elaborate runs `nvc -e` for the named top-level unit.
func (t *Tool) Elaborate(std Standard, buildDir, lib, unit string) (Output, error) {
	args := append(t.baseArgs(std, buildDir, lib), "-e", unit)
	return t.run(StageElaboration, args)
}

// RunOptions configures the simulation stage.
type RunOptions struct {
	// StopTime forces simulation termination after the given simulated
	// duration (nvc --stop-time). Designs that suspend forever, such as the
	// synthesized constraint evaluator, rely on this to exit after their
	// writes flush at time zero.
	StopTime string
	// Wave, when set, records an FST waveform to the named file.
	Wave string
	// DumpArrays includes array signals in the waveform.
	DumpArrays bool
}

// Run runs `nvc -r` for the named elaborated unit.
func (t *Tool) Run(std Standard, buildDir, lib, unit string, opts RunOptions) (Output, error) {
	args := append(t.baseArgs(std, buildDir, lib), "-r", unit)
	if opts.StopTime != "" {
		args = append(args, "--stop-time="+opts.StopTime)
	}
	if opts.DumpArrays {
		args = append(args, "--dump-arrays")
	}
	if opts.Wave != "" {
		args = append(args, "--format=fst", "--wave="+opts.Wave)
	}
	return t.run(StageSimulation, args)
}

func (t *Tool) run(stage Stage, args []string) (Output, error) {
	bin := t.Bin
	if bin == "" {
		bin = "nvc"
	}
	cmdline := bin + " " + strings.Join(args, " ")

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	out := Output{
		Command: cmdline,
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
	}
	if err != nil {
		return out, &StageError{
			Stage:   stage,
			Command: cmdline,
			Stdout:  out.Stdout,
			Stderr:  out.Stderr,
			Err:     err,
		}
	}
	return out, nil
}
