// Package extract collects the symbols the struct generator needs from parsed
// VHDL: marker attribute applications, record type declarations, and the
// package/entity names a record belongs to. It is one traversal pass over the
// design files; no expression is evaluated here beyond noting whether a field
// carries a constraint at all.
package extract

import (
	"fmt"
	"strings"

	"github.com/oxidecomputer/vw/internal/vhdl/ast"
	"github.com/oxidecomputer/vw/internal/vhdl/visit"
)

// DefaultAttr is the attribute name that marks a record type for struct
// generation when no override is configured.
const DefaultAttr = "bitstruct"

// Field is one record element: its name, subtype name, and the optional range
// constraint exactly as parsed.
type Field struct {
	Name       string
	Subtype    string
	Constraint *ast.RangeConstraint
}

// Record is one record type declaration found anywhere in the scanned
// sources, tagged or not. Package is the enclosing package name, empty when
// the record was declared outside a package.
type Record struct {
	Name    string
	Package string
	Fields  []Field
}

// Symbols is everything one scan pass accumulates across design files.
// VHDL identifiers are case-insensitive, so lookups fold case while the
// recorded names keep their source spelling.
type Symbols struct {
	// Records in declaration order across all scanned files.
	Records []*Record
	// Tagged holds tagged type names in marker-application order.
	Tagged []string
	// Packages and Entities are the design unit names seen, in order.
	Packages []string
	Entities []string

	byName map[string]*Record
	tagged map[string]bool
}

// NewSymbols returns an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{
		byName: make(map[string]*Record),
		tagged: make(map[string]bool),
	}
}

// Record looks a record up by name, ignoring case.
func (s *Symbols) Record(name string) (*Record, bool) {
	r, ok := s.byName[strings.ToLower(name)]
	return r, ok
}

// IsTagged reports whether a type name carries the marker attribute.
func (s *Symbols) IsTagged(name string) bool {
	return s.tagged[strings.ToLower(name)]
}

func (s *Symbols) addRecord(r *Record) {
	s.Records = append(s.Records, r)
	s.byName[strings.ToLower(r.Name)] = r
}

func (s *Symbols) addTagged(name string) {
	key := strings.ToLower(name)
	if s.tagged[key] {
		return
	}
	s.tagged[key] = true
	s.Tagged = append(s.Tagged, name)
}

// Scanner is a traversal consumer that fills a Symbols table. One Scanner may
// scan several design files; results accumulate.
type Scanner struct {
	visit.Base
	attr string
	syms *Symbols
	err  error
}

// NewScanner returns a Scanner matching the given marker attribute name
// (DefaultAttr when empty).
func NewScanner(attr string) *Scanner {
	if attr == "" {
		attr = DefaultAttr
	}
	return &Scanner{attr: attr, syms: NewSymbols()}
}

// Scan walks one design file and accumulates its symbols.
func (sc *Scanner) Scan(file *ast.DesignFile) error {
	sc.err = nil
	visit.Walk(sc, file)
	return sc.err
}

// Symbols returns the accumulated table.
func (sc *Scanner) Symbols() *Symbols { return sc.syms }

// VisitAttributeSpec records marker applications to type entities.
func (sc *Scanner) VisitAttributeSpec(_ ast.DesignUnit, spec *ast.AttributeSpec) visit.Action {
	if strings.EqualFold(spec.Attr, sc.attr) && spec.Class == ast.ClassType {
		sc.syms.addTagged(spec.Entity)
	}
	return visit.Continue
}

// VisitTypeDecl records every record type declaration with its field list.
func (sc *Scanner) VisitTypeDecl(unit ast.DesignUnit, decl *ast.TypeDecl) visit.Action {
	rec, ok := decl.Def.(*ast.RecordTypeDef)
	if !ok {
		return visit.Continue
	}
	r := &Record{Name: decl.Ident}
	if pkg, ok := unit.(*ast.PackageDecl); ok {
		r.Package = pkg.Ident
	}
	for _, el := range rec.Elements {
		subtype, err := markIdent(el.Subtype.TypeMark)
		if err != nil {
			sc.err = fmt.Errorf("record %q field %q: %w", decl.Ident, el.Ident, err)
			return visit.Stop
		}
		r.Fields = append(r.Fields, Field{
			Name:       el.Ident,
			Subtype:    subtype,
			Constraint: el.Subtype.Constraint,
		})
	}
	sc.syms.addRecord(r)
	return visit.Continue
}

// VisitPackage records package names for later use-clause generation.
func (sc *Scanner) VisitPackage(pkg *ast.PackageDecl) visit.Action {
	sc.syms.Packages = append(sc.syms.Packages, pkg.Ident)
	return visit.Continue
}

// VisitEntity records entity names.
func (sc *Scanner) VisitEntity(entity *ast.EntityDecl) visit.Action {
	sc.syms.Entities = append(sc.syms.Entities, entity.Ident)
	return visit.Continue
}

// markIdent reduces a type mark to its base identifier.
func markIdent(n ast.Name) (string, error) {
	switch x := n.(type) {
	case *ast.SimpleName:
		return x.Ident, nil
	case *ast.SelectedName:
		return x.Suffix, nil
	}
	return "", fmt.Errorf("unsupported type mark shape %T", n)
}
