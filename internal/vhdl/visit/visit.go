// Package visit provides a generic depth-first walker over parsed VHDL design
// files. The AST has far more node kinds than any one consumer cares about, so
// the walker dispatches through a Visitor interface whose methods all default
// to no-ops; consumers embed Base and override only what they need.
package visit

import "github.com/oxidecomputer/vw/internal/vhdl/ast"

// Action controls whether traversal continues.
type Action uint8

const (
	// Continue proceeds with the traversal.
	Continue Action = iota
	// Stop unwinds the traversal immediately.
	Stop
)

// Visitor receives callbacks during a walk. Methods are called in pre-order:
// file, then each design unit, then each declaration in source order, with
// recursive descent into subprogram-body-local declarations. Declaration
// callbacks receive the enclosing design unit so consumers can attribute a
// declaration to its package or entity.
type Visitor interface {
	VisitDesignFile(file *ast.DesignFile) Action
	VisitDesignUnit(unit ast.DesignUnit) Action

	VisitEntity(entity *ast.EntityDecl) Action
	VisitPackage(pkg *ast.PackageDecl) Action
	VisitPackageBody(body *ast.PackageBody) Action
	VisitArchitecture(arch *ast.ArchitectureBody) Action
	VisitContext(ctx *ast.ContextDecl) Action
	VisitConfiguration(cfg *ast.ConfigurationDecl) Action
	VisitPackageInstance(inst *ast.PackageInstance) Action

	VisitDeclaration(unit ast.DesignUnit, decl ast.Decl) Action
	VisitTypeDecl(unit ast.DesignUnit, decl *ast.TypeDecl) Action
	VisitConstant(unit ast.DesignUnit, decl *ast.ConstantDecl) Action
	VisitSignal(unit ast.DesignUnit, decl *ast.SignalDecl) Action
	VisitComponent(unit ast.DesignUnit, decl *ast.ComponentDecl) Action
	VisitSubprogramDecl(unit ast.DesignUnit, decl *ast.SubprogramDecl) Action
	VisitSubprogramBody(unit ast.DesignUnit, body *ast.SubprogramBody) Action
	VisitAttributeDecl(unit ast.DesignUnit, decl *ast.AttributeDecl) Action
	VisitAttributeSpec(unit ast.DesignUnit, spec *ast.AttributeSpec) Action
}

// Base implements Visitor with Continue for every callback. Embed it and
// override the methods of interest.
type Base struct{}

func (Base) VisitDesignFile(*ast.DesignFile) Action                       { return Continue }
func (Base) VisitDesignUnit(ast.DesignUnit) Action                        { return Continue }
func (Base) VisitEntity(*ast.EntityDecl) Action                           { return Continue }
func (Base) VisitPackage(*ast.PackageDecl) Action                         { return Continue }
func (Base) VisitPackageBody(*ast.PackageBody) Action                     { return Continue }
func (Base) VisitArchitecture(*ast.ArchitectureBody) Action               { return Continue }
func (Base) VisitContext(*ast.ContextDecl) Action                         { return Continue }
func (Base) VisitConfiguration(*ast.ConfigurationDecl) Action             { return Continue }
func (Base) VisitPackageInstance(*ast.PackageInstance) Action             { return Continue }
func (Base) VisitDeclaration(ast.DesignUnit, ast.Decl) Action             { return Continue }
func (Base) VisitTypeDecl(ast.DesignUnit, *ast.TypeDecl) Action           { return Continue }
func (Base) VisitConstant(ast.DesignUnit, *ast.ConstantDecl) Action       { return Continue }
func (Base) VisitSignal(ast.DesignUnit, *ast.SignalDecl) Action           { return Continue }
func (Base) VisitComponent(ast.DesignUnit, *ast.ComponentDecl) Action     { return Continue }
func (Base) VisitSubprogramDecl(ast.DesignUnit, *ast.SubprogramDecl) Action {
	return Continue
}
func (Base) VisitSubprogramBody(ast.DesignUnit, *ast.SubprogramBody) Action {
	return Continue
}
func (Base) VisitAttributeDecl(ast.DesignUnit, *ast.AttributeDecl) Action { return Continue }
func (Base) VisitAttributeSpec(ast.DesignUnit, *ast.AttributeSpec) Action { return Continue }

// Walk traverses a design file depth-first and reports whether a callback
// stopped the traversal early.
func Walk(v Visitor, file *ast.DesignFile) (stopped bool) {
	if v.VisitDesignFile(file) == Stop {
		return true
	}
	for _, unit := range file.Units {
		if walkUnit(v, unit) == Stop {
			return true
		}
	}
	return false
}

func walkUnit(v Visitor, unit ast.DesignUnit) Action {
	if v.VisitDesignUnit(unit) == Stop {
		return Stop
	}
	switch u := unit.(type) {
	case *ast.EntityDecl:
		if v.VisitEntity(u) == Stop {
			return Stop
		}
		return walkDecls(v, unit, u.Decls)
	case *ast.PackageDecl:
		if v.VisitPackage(u) == Stop {
			return Stop
		}
		return walkDecls(v, unit, u.Decls)
	case *ast.PackageBody:
		if v.VisitPackageBody(u) == Stop {
			return Stop
		}
		return walkDecls(v, unit, u.Decls)
	case *ast.ArchitectureBody:
		if v.VisitArchitecture(u) == Stop {
			return Stop
		}
		return walkDecls(v, unit, u.Decls)
	case *ast.ContextDecl:
		return v.VisitContext(u)
	case *ast.ConfigurationDecl:
		return v.VisitConfiguration(u)
	case *ast.PackageInstance:
		return v.VisitPackageInstance(u)
	}
	return Continue
}

func walkDecls(v Visitor, unit ast.DesignUnit, decls []ast.Decl) Action {
	for _, decl := range decls {
		if walkDecl(v, unit, decl) == Stop {
			return Stop
		}
	}
	return Continue
}

func walkDecl(v Visitor, unit ast.DesignUnit, decl ast.Decl) Action {
	if v.VisitDeclaration(unit, decl) == Stop {
		return Stop
	}
	switch d := decl.(type) {
	case *ast.TypeDecl:
		return v.VisitTypeDecl(unit, d)
	case *ast.ConstantDecl:
		return v.VisitConstant(unit, d)
	case *ast.SignalDecl:
		return v.VisitSignal(unit, d)
	case *ast.ComponentDecl:
		return v.VisitComponent(unit, d)
	case *ast.SubprogramDecl:
		return v.VisitSubprogramDecl(unit, d)
	case *ast.SubprogramBody:
		if v.VisitSubprogramBody(unit, d) == Stop {
			return Stop
		}
		return walkDecls(v, unit, d.Decls)
	case *ast.AttributeDecl:
		return v.VisitAttributeDecl(unit, d)
	case *ast.AttributeSpec:
		return v.VisitAttributeSpec(unit, d)
	}
	return Continue
}
