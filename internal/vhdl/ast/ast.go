// Package ast defines the typed representation of parsed VHDL that vw
// consumes. The front end that produces it is external; this package is the
// contract: design units, declarations, record type definitions, attribute
// specifications, and the expression shapes needed to reprint range bounds.
package ast

// DesignFile is one parsed VHDL source file.
type DesignFile struct {
	Units []DesignUnit
}

// DesignUnit is a primary or secondary design unit.
type DesignUnit interface {
	unitNode()
	// UnitName returns the unit's declared identifier.
	UnitName() string
}

// EntityDecl is an entity declaration.
type EntityDecl struct {
	Ident string
	Decls []Decl
}

// PackageDecl is a package declaration.
type PackageDecl struct {
	Ident string
	Decls []Decl
}

// PackageBody is a package body.
type PackageBody struct {
	Ident string
	Decls []Decl
}

// ArchitectureBody is an architecture of an entity.
type ArchitectureBody struct {
	Ident  string
	Entity string
	Decls  []Decl
}

// ContextDecl is a context declaration.
type ContextDecl struct {
	Ident string
}

// ConfigurationDecl is a configuration declaration.
type ConfigurationDecl struct {
	Ident string
}

// PackageInstance is a package instantiation declaration.
type PackageInstance struct {
	Ident string
}

func (*EntityDecl) unitNode()        {}
func (*PackageDecl) unitNode()       {}
func (*PackageBody) unitNode()       {}
func (*ArchitectureBody) unitNode()  {}
func (*ContextDecl) unitNode()       {}
func (*ConfigurationDecl) unitNode() {}
func (*PackageInstance) unitNode()   {}

func (u *EntityDecl) UnitName() string        { return u.Ident }
func (u *PackageDecl) UnitName() string       { return u.Ident }
func (u *PackageBody) UnitName() string       { return u.Ident }
func (u *ArchitectureBody) UnitName() string  { return u.Ident }
func (u *ContextDecl) UnitName() string       { return u.Ident }
func (u *ConfigurationDecl) UnitName() string { return u.Ident }
func (u *PackageInstance) UnitName() string   { return u.Ident }

// Decl is a declaration inside a design unit or a subprogram body.
type Decl interface {
	declNode()
}

// TypeDecl declares a named type.
type TypeDecl struct {
	Ident string
	Def   TypeDef
}

// ConstantDecl declares a constant with an initializer expression.
type ConstantDecl struct {
	Ident string
	Value Expr
}

// SignalDecl declares a signal.
type SignalDecl struct {
	Ident   string
	Subtype SubtypeIndication
}

// ComponentDecl declares a component.
type ComponentDecl struct {
	Ident string
}

// SubprogramDecl is a function or procedure specification.
type SubprogramDecl struct {
	Ident string
}

// SubprogramBody is a function or procedure implementation. Its local
// declarations may nest further declarations.
type SubprogramBody struct {
	Ident string
	Decls []Decl
}

// AttributeDecl is `attribute X : type;`.
type AttributeDecl struct {
	Ident string
}

// AttributeSpec is `attribute X of Y : class is value;`.
type AttributeSpec struct {
	Attr   string
	Entity string
	Class  EntityClass
	Value  Expr
}

func (*TypeDecl) declNode()       {}
func (*ConstantDecl) declNode()   {}
func (*SignalDecl) declNode()     {}
func (*ComponentDecl) declNode()  {}
func (*SubprogramDecl) declNode() {}
func (*SubprogramBody) declNode() {}
func (*AttributeDecl) declNode()  {}
func (*AttributeSpec) declNode()  {}

// EntityClass is the entity class named in an attribute specification.
type EntityClass uint8

const (
	ClassType EntityClass = iota
	ClassSignal
	ClassEntity
	ClassFunction
	ClassOther
)

func (c EntityClass) String() string {
	switch c {
	case ClassType:
		return "type"
	case ClassSignal:
		return "signal"
	case ClassEntity:
		return "entity"
	case ClassFunction:
		return "function"
	}
	return "other"
}

// TypeDef is the definition part of a type declaration.
type TypeDef interface {
	typeDefNode()
}

// RecordTypeDef is a record type: an ordered list of element declarations.
type RecordTypeDef struct {
	Elements []ElementDecl
}

// EnumTypeDef is an enumeration type.
type EnumTypeDef struct {
	Literals []string
}

// ArrayTypeDef is an array type definition.
type ArrayTypeDef struct {
	ElementType Name
}

func (*RecordTypeDef) typeDefNode() {}
func (*EnumTypeDef) typeDefNode()   {}
func (*ArrayTypeDef) typeDefNode()  {}

// ElementDecl is one field of a record type.
type ElementDecl struct {
	Ident   string
	Subtype SubtypeIndication
}

// SubtypeIndication names a type mark with an optional index constraint.
// Only one-dimensional array range constraints are representable; the front
// end rejects every other constraint shape before it reaches us.
type SubtypeIndication struct {
	TypeMark   Name
	Constraint *RangeConstraint
}

// Direction is a range direction.
type Direction uint8

const (
	Downto Direction = iota
	To
)

func (d Direction) String() string {
	if d == To {
		return "to"
	}
	return "downto"
}

// RangeConstraint is `left downto right` or `left to right`. Either side may
// be an arbitrary constant expression.
type RangeConstraint struct {
	Dir   Direction
	Left  Expr
	Right Expr
}
