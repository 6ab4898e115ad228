package bindgen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxidecomputer/vw/internal/extract"
	"github.com/oxidecomputer/vw/internal/nvc"
	"github.com/oxidecomputer/vw/internal/vhdl/ast"
)

// fakeRunner scripts the toolchain: it records which stages ran, optionally
// fails at one of them, and hands back canned simulation output.
type fakeRunner struct {
	calls  []string
	simOut string
	failAt string
}

func (r *fakeRunner) stage(name string) (nvc.Output, error) {
	r.calls = append(r.calls, name)
	if name == r.failAt {
		return nvc.Output{}, &nvc.StageError{Command: "fake " + name, Stderr: []byte(name + " exploded")}
	}
	out := nvc.Output{Command: "fake " + name}
	if name == "run" {
		out.Stdout = []byte(r.simOut)
	}
	return out, nil
}

func (r *fakeRunner) Analyze(std nvc.Standard, buildDir, lib string, files []string) (nvc.Output, error) {
	return r.stage("analyze")
}

func (r *fakeRunner) Elaborate(std nvc.Standard, buildDir, lib, unit string) (nvc.Output, error) {
	return r.stage("elaborate")
}

func (r *fakeRunner) Run(std nvc.Standard, buildDir, lib, unit string, opts nvc.RunOptions) (nvc.Output, error) {
	return r.stage("run")
}

func vector(dir ast.Direction, left, right ast.Expr) ast.SubtypeIndication {
	return ast.SubtypeIndication{
		TypeMark:   &ast.SimpleName{Ident: "std_logic_vector"},
		Constraint: &ast.RangeConstraint{Dir: dir, Left: left, Right: right},
	}
}

func scalar(mark string) ast.SubtypeIndication {
	return ast.SubtypeIndication{TypeMark: &ast.SimpleName{Ident: mark}}
}

func packageFile(decls ...ast.Decl) *ast.DesignFile {
	return &ast.DesignFile{Units: []ast.DesignUnit{
		&ast.PackageDecl{Ident: "hdr_pkg", Decls: decls},
	}}
}

func scanSymbols(t *testing.T, file *ast.DesignFile) *extract.Symbols {
	t.Helper()
	sc := extract.NewScanner("")
	if err := sc.Scan(file); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return sc.Symbols()
}

func testOptions(t *testing.T, runner Runner) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		BuildDir: filepath.Join(dir, "build"),
		OutPath:  filepath.Join(dir, "bindings.go"),
		Runner:   runner,
	}
}

func mustReadOut(t *testing.T, opts Options) string {
	t.Helper()
	src, err := os.ReadFile(opts.OutPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(src)
}

func TestLiteralBoundsSkipSimulator(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "eth_hdr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "dst_mac", Subtype: vector(ast.Downto, &ast.IntLiteral{Value: 47}, &ast.IntLiteral{Value: 0})},
			{Ident: "valid", Subtype: scalar("std_logic")},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
	))
	fake := &fakeRunner{}
	opts := testOptions(t, fake)
	if err := Generate(syms, nil, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("simulator invoked for literal-only bounds: %v", fake.calls)
	}
	src := mustReadOut(t, opts)
	for _, frag := range []string{"type eth_hdr struct", `bits:"48"`, `bits:"1"`, "func new_eth_hdr()", "bitstruct.New(48)"} {
		if !strings.Contains(src, frag) {
			t.Fatalf("output missing %q:\n%s", frag, src)
		}
	}
}

func TestSymbolicBoundsResolvedOncePerExpression(t *testing.T) {
	widthBound := &ast.BinaryExpr{
		Op:    ast.OpMinus,
		Left:  &ast.NameExpr{Name: &ast.SimpleName{Ident: "DATA_WIDTH"}},
		Right: &ast.IntLiteral{Value: 1},
	}
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "frame", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "payload", Subtype: vector(ast.Downto, widthBound, &ast.IntLiteral{Value: 0})},
			{Ident: "mask", Subtype: vector(ast.Downto, widthBound, &ast.IntLiteral{Value: 0})},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "frame", Class: ast.ClassType},
	))
	fake := &fakeRunner{simOut: "EXPR_0: 47\n"}
	opts := testOptions(t, fake)
	if err := Generate(syms, []string{"hdr_pkg.vhd"}, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{"analyze", "elaborate", "run"}
	if len(fake.calls) != len(want) {
		t.Fatalf("stage calls = %v, want %v", fake.calls, want)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Fatalf("stage calls = %v, want %v", fake.calls, want)
		}
	}

	tb, err := os.ReadFile(filepath.Join(opts.BuildDir, "generated", "constraint_evaluator.vhd"))
	if err != nil {
		t.Fatalf("read evaluator: %v", err)
	}
	if got := strings.Count(string(tb), "EXPR_"); got != 1 {
		t.Fatalf("evaluator asks %d expressions, want 1 (shared bound must dedup):\n%s", got, tb)
	}
	if !strings.Contains(string(tb), "DATA_WIDTH - 1") {
		t.Fatalf("evaluator missing the bound expression:\n%s", tb)
	}
	if !strings.Contains(string(tb), "use work.hdr_pkg.all;") {
		t.Fatalf("evaluator missing package use clause:\n%s", tb)
	}

	src := mustReadOut(t, opts)
	if got := strings.Count(src, `bits:"48"`); got != 2 {
		t.Fatalf("want the answer applied to both fields, got %d of bits:\"48\":\n%s", got, src)
	}
}

func TestDeterministicOutputAcrossRuns(t *testing.T) {
	build := func() string {
		syms := scanSymbols(t, packageFile(
			&ast.TypeDecl{Ident: "frame", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
				{Ident: "a", Subtype: vector(ast.Downto, &ast.NameExpr{Name: &ast.SimpleName{Ident: "W"}}, &ast.IntLiteral{Value: 0})},
				{Ident: "b", Subtype: vector(ast.Downto, &ast.NameExpr{Name: &ast.SimpleName{Ident: "V"}}, &ast.IntLiteral{Value: 0})},
			}}},
			&ast.AttributeSpec{Attr: "bitstruct", Entity: "frame", Class: ast.ClassType},
		))
		fake := &fakeRunner{simOut: "EXPR_0: 7\nEXPR_1: 3\n"}
		opts := testOptions(t, fake)
		if err := Generate(syms, nil, opts); err != nil {
			t.Fatalf("Generate: %v", err)
		}
		return mustReadOut(t, opts)
	}
	first := build()
	for i := 0; i < 5; i++ {
		if got := build(); got != first {
			t.Fatalf("output differs between runs:\n%s\n---\n%s", first, got)
		}
	}
}

func TestNestedTaggedRecords(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "mac_addr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "octets", Subtype: vector(ast.Downto, &ast.IntLiteral{Value: 47}, &ast.IntLiteral{Value: 0})},
		}}},
		&ast.TypeDecl{Ident: "eth_hdr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "dst", Subtype: scalar("mac_addr")},
			{Ident: "valid", Subtype: scalar("std_logic")},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "mac_addr", Class: ast.ClassType},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
	))
	opts := testOptions(t, &fakeRunner{})
	if err := Generate(syms, nil, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := mustReadOut(t, opts)
	for _, frag := range []string{"type mac_addr struct", "new_mac_addr()", "func new_eth_hdr()"} {
		if !strings.Contains(src, frag) {
			t.Fatalf("output missing %q:\n%s", frag, src)
		}
	}
}

func TestUnconstrainedVectorIsFatal(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "eth_hdr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "dst_mac", Subtype: scalar("std_logic_vector")},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
	))
	opts := testOptions(t, &fakeRunner{})
	err := Generate(syms, nil, opts)
	if err == nil {
		t.Fatal("expected error for unconstrained vector")
	}
	if !IsUsage(err) {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
	for _, frag := range []string{"dst_mac", "eth_hdr"} {
		if !strings.Contains(err.Error(), frag) {
			t.Fatalf("error does not name %q: %v", frag, err)
		}
	}
	if _, statErr := os.Stat(opts.OutPath); !os.IsNotExist(statErr) {
		t.Fatalf("output written despite failure")
	}
}

func TestUntaggedSubtypeIsFatal(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "mac_addr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "octets", Subtype: vector(ast.Downto, &ast.IntLiteral{Value: 47}, &ast.IntLiteral{Value: 0})},
		}}},
		&ast.TypeDecl{Ident: "eth_hdr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "dst", Subtype: scalar("mac_addr")},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
	))
	err := Generate(syms, nil, testOptions(t, &fakeRunner{}))
	if err == nil || !IsUsage(err) {
		t.Fatalf("expected usage error for untagged nested subtype, got %v", err)
	}
	if !strings.Contains(err.Error(), "mac_addr") {
		t.Fatalf("error does not name the subtype: %v", err)
	}
}

func TestNullRangeIsFatal(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "eth_hdr", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "dst_mac", Subtype: vector(ast.Downto, &ast.IntLiteral{Value: 0}, &ast.IntLiteral{Value: 3})},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
	))
	err := Generate(syms, nil, testOptions(t, &fakeRunner{}))
	if err == nil || !IsUsage(err) {
		t.Fatalf("expected usage error for null range, got %v", err)
	}
	if !strings.Contains(err.Error(), "null range") {
		t.Fatalf("error does not mention the null range: %v", err)
	}
}

func TestZeroWidthBoundsYieldOneBit(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "flag", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "bit0", Subtype: vector(ast.Downto, &ast.IntLiteral{Value: 0}, &ast.IntLiteral{Value: 0})},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "flag", Class: ast.ClassType},
	))
	opts := testOptions(t, &fakeRunner{})
	if err := Generate(syms, nil, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(mustReadOut(t, opts), `bits:"1"`) {
		t.Fatalf("0 downto 0 must be one bit wide")
	}
}

func TestStageFailureStopsPipeline(t *testing.T) {
	syms := scanSymbols(t, packageFile(
		&ast.TypeDecl{Ident: "frame", Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
			{Ident: "payload", Subtype: vector(ast.Downto, &ast.NameExpr{Name: &ast.SimpleName{Ident: "W"}}, &ast.IntLiteral{Value: 0})},
		}}},
		&ast.AttributeSpec{Attr: "bitstruct", Entity: "frame", Class: ast.ClassType},
	))
	fake := &fakeRunner{failAt: "elaborate"}
	opts := testOptions(t, fake)
	err := Generate(syms, nil, opts)
	if err == nil {
		t.Fatal("expected stage failure to propagate")
	}
	var se *nvc.StageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *nvc.StageError in chain, got %v", err)
	}
	if len(fake.calls) != 2 || fake.calls[1] != "elaborate" {
		t.Fatalf("stages after failure must not run: %v", fake.calls)
	}
	if _, statErr := os.Stat(opts.OutPath); !os.IsNotExist(statErr) {
		t.Fatalf("output written despite failure")
	}
}

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		n       int
		want    []int64
		wantErr string
	}{
		{name: "clean", in: "EXPR_0: 47\nEXPR_1: -3\n", n: 2, want: []int64{47, -3}},
		{name: "noise ignored", in: "nvc: note elab done\nEXPR_0: 9\n", n: 1, want: []int64{9}},
		{name: "missing", in: "EXPR_0: 1\n", n: 2, wantErr: "never reported"},
		{name: "duplicate", in: "EXPR_0: 1\nEXPR_0: 2\n", n: 1, wantErr: "twice"},
		{name: "out of range", in: "EXPR_5: 1\n", n: 1, wantErr: "only 1"},
		{name: "garbage value", in: "EXPR_0: wide\n", n: 1, wantErr: "malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers([]byte(tt.in), tt.n)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				var ie *InternalError
				if !errors.As(err, &ie) {
					t.Fatalf("expected *InternalError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnswers: %v", err)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("answers = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
