package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oxidecomputer/vw/internal/vhdl/ast"
)

func vectorSubtype(left, right ast.Expr) ast.SubtypeIndication {
	return ast.SubtypeIndication{
		TypeMark:   &ast.SimpleName{Ident: "std_logic_vector"},
		Constraint: &ast.RangeConstraint{Dir: ast.Downto, Left: left, Right: right},
	}
}

func testFile() *ast.DesignFile {
	return &ast.DesignFile{
		Units: []ast.DesignUnit{
			&ast.PackageDecl{
				Ident: "hdr_pkg",
				Decls: []ast.Decl{
					&ast.ConstantDecl{Ident: "ETH_BITS", Value: &ast.IntLiteral{Value: 48}},
					&ast.TypeDecl{
						Ident: "eth_hdr",
						Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
							{Ident: "dst_mac", Subtype: vectorSubtype(&ast.IntLiteral{Value: 47}, &ast.IntLiteral{Value: 0})},
							{Ident: "valid", Subtype: ast.SubtypeIndication{TypeMark: &ast.SimpleName{Ident: "std_logic"}}},
						}},
					},
					&ast.TypeDecl{Ident: "state_t", Def: &ast.EnumTypeDef{Literals: []string{"idle", "busy"}}},
					&ast.AttributeDecl{Ident: "bitstruct"},
					&ast.AttributeSpec{Attr: "bitstruct", Entity: "eth_hdr", Class: ast.ClassType},
					&ast.AttributeSpec{Attr: "bitstruct", Entity: "other_sig", Class: ast.ClassSignal},
					&ast.AttributeSpec{Attr: "keep", Entity: "state_t", Class: ast.ClassType},
				},
			},
			&ast.EntityDecl{Ident: "mac_top"},
		},
	}
}

func TestScanCollectsRecordsAndTags(t *testing.T) {
	sc := NewScanner("bitstruct")
	if err := sc.Scan(testFile()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	syms := sc.Symbols()

	if diff := cmp.Diff([]string{"eth_hdr"}, syms.Tagged); diff != "" {
		t.Fatalf("tagged names mismatch (-want +got):\n%s", diff)
	}
	if len(syms.Records) != 1 {
		t.Fatalf("records = %d, want 1 (enum type must not register)", len(syms.Records))
	}
	rec, ok := syms.Record("ETH_HDR")
	if !ok {
		t.Fatalf("case-insensitive record lookup failed")
	}
	if rec.Package != "hdr_pkg" {
		t.Fatalf("record package = %q, want hdr_pkg", rec.Package)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(rec.Fields))
	}
	if rec.Fields[0].Constraint == nil {
		t.Fatalf("vector field lost its constraint")
	}
	if rec.Fields[1].Constraint != nil {
		t.Fatalf("scalar field grew a constraint")
	}
	if !syms.IsTagged("eth_hdr") || syms.IsTagged("state_t") {
		t.Fatalf("tag set wrong: eth_hdr=%v state_t=%v", syms.IsTagged("eth_hdr"), syms.IsTagged("state_t"))
	}
}

func TestScanIgnoresNonTypeAttributeTargets(t *testing.T) {
	sc := NewScanner("bitstruct")
	if err := sc.Scan(testFile()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if sc.Symbols().IsTagged("other_sig") {
		t.Fatalf("signal-class attribute specification must not tag a type")
	}
}

func TestScanRecordsUnitNames(t *testing.T) {
	sc := NewScanner("")
	if err := sc.Scan(testFile()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	syms := sc.Symbols()
	if diff := cmp.Diff([]string{"hdr_pkg"}, syms.Packages); diff != "" {
		t.Fatalf("packages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"mac_top"}, syms.Entities); diff != "" {
		t.Fatalf("entities mismatch (-want +got):\n%s", diff)
	}
}

func TestScanAccumulatesAcrossFiles(t *testing.T) {
	second := &ast.DesignFile{
		Units: []ast.DesignUnit{
			&ast.PackageDecl{
				Ident: "payload_pkg",
				Decls: []ast.Decl{
					&ast.TypeDecl{
						Ident: "payload",
						Def: &ast.RecordTypeDef{Elements: []ast.ElementDecl{
							{Ident: "data", Subtype: vectorSubtype(
								&ast.BinaryExpr{
									Op:    ast.OpMinus,
									Left:  &ast.NameExpr{Name: &ast.SimpleName{Ident: "WIDTH"}},
									Right: &ast.IntLiteral{Value: 1},
								},
								&ast.IntLiteral{Value: 0},
							)},
						}},
					},
					&ast.AttributeSpec{Attr: "BITSTRUCT", Entity: "payload", Class: ast.ClassType},
				},
			},
		},
	}
	sc := NewScanner("bitstruct")
	if err := sc.Scan(testFile()); err != nil {
		t.Fatalf("Scan first: %v", err)
	}
	if err := sc.Scan(second); err != nil {
		t.Fatalf("Scan second: %v", err)
	}
	syms := sc.Symbols()
	if len(syms.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(syms.Records))
	}
	// Attribute name matching is case-insensitive.
	if !syms.IsTagged("payload") {
		t.Fatalf("uppercase marker spelling not matched")
	}
}
