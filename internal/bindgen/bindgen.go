// Package bindgen turns tagged VHDL records into Go struct definitions whose
// field widths match the hardware layout. Bounds that are integer literals
// are taken as-is; every other bound expression is answered by the simulator:
// the package synthesizes a one-shot VHDL program that prints each distinct
// expression's value, runs it through the toolchain, and patches the results
// back into every field that used the expression. Nothing is written to the
// output path until the whole pipeline has succeeded.
package bindgen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/oxidecomputer/vw/internal/extract"
	"github.com/oxidecomputer/vw/internal/nvc"
	"github.com/oxidecomputer/vw/internal/vhdl/ast"
	"github.com/oxidecomputer/vw/internal/vhdl/printer"
)

// Runner is the toolchain surface the pipeline drives. nvc.Tool satisfies it;
// tests substitute a scripted implementation.
type Runner interface {
	Analyze(std nvc.Standard, buildDir, lib string, files []string) (nvc.Output, error)
	Elaborate(std nvc.Standard, buildDir, lib, unit string) (nvc.Output, error)
	Run(std nvc.Standard, buildDir, lib, unit string, opts nvc.RunOptions) (nvc.Output, error)
}

// evaluatorUnit is the entity name of the synthesized oracle program.
const evaluatorUnit = "constraint_evaluator"

// Options configures one generation run. Zero values pick the defaults noted
// per field.
type Options struct {
	// BuildDir holds simulator libraries and the generated scratch files.
	// Defaults to "build".
	BuildDir string
	// GenDir, under BuildDir, receives the oracle program and per-stage logs.
	// Defaults to "generated".
	GenDir string
	// Library is the work library name. Defaults to "generated".
	Library string
	// Std is the VHDL revision handed to the simulator.
	Std nvc.Standard
	// StopTime bounds the oracle simulation. The evaluator finishes its
	// writes at time zero and then suspends forever, so any positive
	// duration works. Defaults to "1ns".
	StopTime string
	// OutPath is the Go file to write. Defaults to "bindings.go".
	OutPath string
	// Package is the generated package name. Defaults to "bindings".
	Package string
	// RuntimeImport is the import path of the bit-vector runtime the
	// generated code uses.
	RuntimeImport string
	// Runner drives the simulator. Defaults to nvc.New().
	Runner Runner
}

func (o *Options) fillDefaults() {
	if o.BuildDir == "" {
		o.BuildDir = "build"
	}
	if o.GenDir == "" {
		o.GenDir = "generated"
	}
	if o.Library == "" {
		o.Library = "generated"
	}
	if o.StopTime == "" {
		o.StopTime = "1ns"
	}
	if o.OutPath == "" {
		o.OutPath = "bindings.go"
	}
	if o.Package == "" {
		o.Package = "bindings"
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = "github.com/oxidecomputer/vw/pkg/bitstruct"
	}
	if o.Runner == nil {
		o.Runner = nvc.New()
	}
}

// bound is one side of a field's range. Symbolic bounds carry the printed
// expression text as their key until the oracle answers; a bound transitions
// to known exactly once.
type bound struct {
	known bool
	value int64
	key   string
}

type fieldKind uint8

const (
	fieldBit fieldKind = iota
	fieldVector
	fieldNested
)

type fieldPlan struct {
	name        string
	kind        fieldKind
	nested      string
	dir         ast.Direction
	left, right bound
}

type recordPlan struct {
	rec    *extract.Record
	fields []fieldPlan
}

// plan is the classified view of every tagged record plus the deduplicated
// expression list, keyed by printed text in first-appearance order.
type plan struct {
	records  []recordPlan
	packages []string
	keys     []string
	keyIdx   map[string]int
}

// Generate runs the whole pipeline: classify bounds, consult the simulator if
// any bound is symbolic, and write the Go source. sourceFiles are the VHDL
// files the tagged records live in; they are analyzed ahead of the oracle
// program so its expressions resolve.
func Generate(syms *extract.Symbols, sourceFiles []string, opts Options) error {
	opts.fillDefaults()

	p, err := classify(syms)
	if err != nil {
		return err
	}

	if len(p.keys) > 0 {
		answers, err := consult(p, sourceFiles, &opts)
		if err != nil {
			return err
		}
		if err := p.apply(answers); err != nil {
			return err
		}
	}

	src, err := render(p, &opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.OutPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutPath, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.OutPath, err)
	}
	return nil
}

// classify walks the tagged records in marker order and sorts every field
// into bit, vector, or nested-record form, registering symbolic bound
// expressions as it goes.
func classify(syms *extract.Symbols) (*plan, error) {
	p := &plan{keyIdx: make(map[string]int)}
	for _, name := range syms.Tagged {
		rec, ok := syms.Record(name)
		if !ok {
			return nil, usagef("type %s carries the marker attribute but no record declaration for it was found", name)
		}
		if rec.Package == "" {
			return nil, usagef("record %s must be declared inside a package", rec.Name)
		}
		rp := recordPlan{rec: rec}
		for _, f := range rec.Fields {
			fp, err := p.classifyField(syms, rec, f)
			if err != nil {
				return nil, err
			}
			rp.fields = append(rp.fields, fp)
		}
		p.records = append(p.records, rp)
	}
	// Every scanned package gets a use clause in the evaluator, so bound
	// expressions may reference constants from packages without tagged
	// records.
	seen := make(map[string]bool)
	for _, pkg := range syms.Packages {
		key := strings.ToLower(pkg)
		if !seen[key] {
			seen[key] = true
			p.packages = append(p.packages, pkg)
		}
	}
	return p, nil
}

func (p *plan) classifyField(syms *extract.Symbols, rec *extract.Record, f extract.Field) (fieldPlan, error) {
	switch {
	case strings.EqualFold(f.Subtype, "std_logic"):
		return fieldPlan{name: f.Name, kind: fieldBit}, nil
	case strings.EqualFold(f.Subtype, "std_logic_vector"):
		if f.Constraint == nil {
			return fieldPlan{}, usagef("field %s of record %s is an unconstrained std_logic_vector; give it explicit bounds", f.Name, rec.Name)
		}
		return fieldPlan{
			name:  f.Name,
			kind:  fieldVector,
			dir:   f.Constraint.Dir,
			left:  p.classifyBound(f.Constraint.Left),
			right: p.classifyBound(f.Constraint.Right),
		}, nil
	default:
		nested, ok := syms.Record(f.Subtype)
		if !ok || !syms.IsTagged(f.Subtype) {
			return fieldPlan{}, usagef("field %s of record %s has subtype %s, which is neither std_logic, std_logic_vector, nor a tagged record", f.Name, rec.Name, f.Subtype)
		}
		return fieldPlan{name: f.Name, kind: fieldNested, nested: nested.Name}, nil
	}
}

// classifyBound resolves literal bounds immediately and interns everything
// else under its printed text, so identical expressions share one oracle
// query.
func (p *plan) classifyBound(e ast.Expr) bound {
	if lit, ok := e.(*ast.IntLiteral); ok {
		return bound{known: true, value: lit.Value}
	}
	key := printer.Expr(e)
	if _, ok := p.keyIdx[key]; !ok {
		p.keyIdx[key] = len(p.keys)
		p.keys = append(p.keys, key)
	}
	return bound{key: key}
}

// consult synthesizes the oracle program, drives the three simulator stages,
// and parses the printed answers. Per-stage stdout and stderr land next to
// the oracle source regardless of outcome.
func consult(p *plan, sourceFiles []string, opts *Options) ([]int64, error) {
	genDir := filepath.Join(opts.BuildDir, opts.GenDir)
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", genDir, err)
	}
	tbPath := filepath.Join(genDir, evaluatorUnit+".vhd")
	tb := renderEvaluator(p.packages, p.keys)
	if err := os.WriteFile(tbPath, []byte(tb), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", tbPath, err)
	}

	files := append(append([]string(nil), sourceFiles...), tbPath)
	out, err := opts.Runner.Analyze(opts.Std, opts.BuildDir, opts.Library, files)
	writeStageLogs(genDir, "analysis", out)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	out, err = opts.Runner.Elaborate(opts.Std, opts.BuildDir, opts.Library, evaluatorUnit)
	writeStageLogs(genDir, "elab", out)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	out, err = opts.Runner.Run(opts.Std, opts.BuildDir, opts.Library, evaluatorUnit, nvc.RunOptions{StopTime: opts.StopTime})
	writeStageLogs(genDir, "sim", out)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	return parseAnswers(out.Stdout, len(p.keys))
}

func writeStageLogs(dir, stage string, out nvc.Output) {
	// Best effort; a failed log write must not mask the stage result.
	_ = os.WriteFile(filepath.Join(dir, stage+".out"), out.Stdout, 0o644)
	_ = os.WriteFile(filepath.Join(dir, stage+".err"), out.Stderr, 0o644)
}

// parseAnswers extracts `EXPR_<i>: <value>` lines from the simulation
// transcript. Every index must appear exactly once; anything else means the
// generated program and the parser disagree.
func parseAnswers(stdout []byte, n int) ([]int64, error) {
	vals := make([]int64, n)
	seen := make([]bool, n)
	sc := bufio.NewScanner(bytes.NewReader(stdout))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "EXPR_")
		if !ok {
			continue
		}
		idxText, valText, ok := strings.Cut(rest, ": ")
		if !ok {
			return nil, internalf("malformed oracle line %q", line)
		}
		idx, err := strconv.Atoi(idxText)
		if err != nil {
			return nil, internalf("malformed oracle index in %q", line)
		}
		if idx < 0 || idx >= n {
			return nil, internalf("oracle reported expression %d but only %d were asked", idx, n)
		}
		if seen[idx] {
			return nil, internalf("oracle reported expression %d twice", idx)
		}
		val, err := strconv.ParseInt(strings.TrimSpace(valText), 10, 64)
		if err != nil {
			return nil, internalf("malformed oracle value in %q", line)
		}
		seen[idx] = true
		vals[idx] = val
	}
	if err := sc.Err(); err != nil {
		return nil, internalf("read oracle output: %v", err)
	}
	for i, ok := range seen {
		if !ok {
			return nil, internalf("oracle never reported expression %d (%s)", i, "EXPR_"+strconv.Itoa(i))
		}
	}
	return vals, nil
}

// apply patches every symbolic bound with its expression's answer. Each
// expression was resolved once; here it is applied to however many bounds
// share it.
func (p *plan) apply(answers []int64) error {
	for ri := range p.records {
		for fi := range p.records[ri].fields {
			f := &p.records[ri].fields[fi]
			if f.kind != fieldVector {
				continue
			}
			for _, b := range []*bound{&f.left, &f.right} {
				if b.known {
					continue
				}
				idx, ok := p.keyIdx[b.key]
				if !ok {
					return internalf("bound expression %q was never registered", b.key)
				}
				b.known = true
				b.value = answers[idx]
			}
		}
	}
	return nil
}

// width computes the field's bit count once both bounds are known. Null and
// negative ranges are rejected rather than silently producing nonsense
// struct layouts.
func (f *fieldPlan) width(rec *extract.Record) (int, error) {
	if f.kind == fieldBit {
		return 1, nil
	}
	if !f.left.known || !f.right.known {
		return 0, internalf("field %s of record %s still has an unresolved bound", f.name, rec.Name)
	}
	high, low := f.left.value, f.right.value
	if f.dir == ast.To {
		high, low = low, high
	}
	if high < low {
		return 0, usagef("field %s of record %s has a null range (%d %s %d)", f.name, rec.Name, f.left.value, f.dir, f.right.value)
	}
	w, err := safecast.Convert[int](high - low + 1)
	if err != nil {
		return 0, usagef("field %s of record %s is too wide: %v", f.name, rec.Name, err)
	}
	return w, nil
}

// IsUsage reports whether err stems from the input design rather than from
// vw itself.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
