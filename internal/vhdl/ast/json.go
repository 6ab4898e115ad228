package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// The front end hands parsed design files over as JSON with a "kind"
// discriminator on every polymorphic node. Decoding is strict: an unknown
// kind anywhere is an error naming it, since it means the front end and this
// tool disagree about the contract.

// DecodeFile reads one JSON-encoded design file.
func DecodeFile(r io.Reader) (*DesignFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}
	return UnmarshalFile(data)
}

// UnmarshalFile decodes one JSON-encoded design file.
func UnmarshalFile(data []byte) (*DesignFile, error) {
	var raw struct {
		Units []json.RawMessage `json:"units"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing design file: %w", err)
	}
	file := &DesignFile{}
	for i, u := range raw.Units {
		unit, err := decodeUnit(u)
		if err != nil {
			return nil, fmt.Errorf("design unit %d: %w", i, err)
		}
		file.Units = append(file.Units, unit)
	}
	return file, nil
}

func kindOf(data json.RawMessage) (string, error) {
	var k struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &k); err != nil {
		return "", err
	}
	if k.Kind == "" {
		return "", fmt.Errorf("node missing \"kind\"")
	}
	return k.Kind, nil
}

func decodeUnit(data json.RawMessage) (DesignUnit, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Ident  string            `json:"ident"`
		Entity string            `json:"entity"`
		Decls  []json.RawMessage `json:"decls"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	decls, err := decodeDecls(raw.Decls)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, raw.Ident, err)
	}
	switch kind {
	case "entity":
		return &EntityDecl{Ident: raw.Ident, Decls: decls}, nil
	case "package":
		return &PackageDecl{Ident: raw.Ident, Decls: decls}, nil
	case "package_body":
		return &PackageBody{Ident: raw.Ident, Decls: decls}, nil
	case "architecture":
		return &ArchitectureBody{Ident: raw.Ident, Entity: raw.Entity, Decls: decls}, nil
	case "context":
		return &ContextDecl{Ident: raw.Ident}, nil
	case "configuration":
		return &ConfigurationDecl{Ident: raw.Ident}, nil
	case "package_instance":
		return &PackageInstance{Ident: raw.Ident}, nil
	}
	return nil, fmt.Errorf("unknown design unit kind %q", kind)
}

func decodeDecls(raws []json.RawMessage) ([]Decl, error) {
	var decls []Decl
	for i, d := range raws {
		decl, err := decodeDecl(d)
		if err != nil {
			return nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func decodeDecl(data json.RawMessage) (Decl, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "type":
		var raw struct {
			Ident string          `json:"ident"`
			Def   json.RawMessage `json:"def"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		def, err := decodeTypeDef(raw.Def)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", raw.Ident, err)
		}
		return &TypeDecl{Ident: raw.Ident, Def: def}, nil
	case "constant":
		var raw struct {
			Ident string          `json:"ident"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		var value Expr
		if len(raw.Value) > 0 {
			if value, err = decodeExpr(raw.Value); err != nil {
				return nil, fmt.Errorf("constant %q: %w", raw.Ident, err)
			}
		}
		return &ConstantDecl{Ident: raw.Ident, Value: value}, nil
	case "signal":
		var raw struct {
			Ident   string          `json:"ident"`
			Subtype json.RawMessage `json:"subtype"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		sub, err := decodeSubtype(raw.Subtype)
		if err != nil {
			return nil, fmt.Errorf("signal %q: %w", raw.Ident, err)
		}
		return &SignalDecl{Ident: raw.Ident, Subtype: sub}, nil
	case "component":
		var raw struct {
			Ident string `json:"ident"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ComponentDecl{Ident: raw.Ident}, nil
	case "subprogram":
		var raw struct {
			Ident string `json:"ident"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &SubprogramDecl{Ident: raw.Ident}, nil
	case "subprogram_body":
		var raw struct {
			Ident string            `json:"ident"`
			Decls []json.RawMessage `json:"decls"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		decls, err := decodeDecls(raw.Decls)
		if err != nil {
			return nil, fmt.Errorf("subprogram body %q: %w", raw.Ident, err)
		}
		return &SubprogramBody{Ident: raw.Ident, Decls: decls}, nil
	case "attribute":
		var raw struct {
			Ident string `json:"ident"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &AttributeDecl{Ident: raw.Ident}, nil
	case "attribute_spec":
		var raw struct {
			Attr   string          `json:"attr"`
			Entity string          `json:"entity"`
			Class  string          `json:"class"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		spec := &AttributeSpec{Attr: raw.Attr, Entity: raw.Entity, Class: decodeEntityClass(raw.Class)}
		if len(raw.Value) > 0 {
			if spec.Value, err = decodeExpr(raw.Value); err != nil {
				return nil, fmt.Errorf("attribute spec %q: %w", raw.Attr, err)
			}
		}
		return spec, nil
	}
	return nil, fmt.Errorf("unknown declaration kind %q", kind)
}

func decodeEntityClass(s string) EntityClass {
	switch s {
	case "type":
		return ClassType
	case "signal":
		return ClassSignal
	case "entity":
		return ClassEntity
	case "function":
		return ClassFunction
	}
	return ClassOther
}

func decodeTypeDef(data json.RawMessage) (TypeDef, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "record":
		var raw struct {
			Elements []struct {
				Ident   string          `json:"ident"`
				Subtype json.RawMessage `json:"subtype"`
			} `json:"elements"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		def := &RecordTypeDef{}
		for _, el := range raw.Elements {
			sub, err := decodeSubtype(el.Subtype)
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", el.Ident, err)
			}
			def.Elements = append(def.Elements, ElementDecl{Ident: el.Ident, Subtype: sub})
		}
		return def, nil
	case "enum":
		var raw struct {
			Literals []string `json:"literals"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &EnumTypeDef{Literals: raw.Literals}, nil
	case "array":
		var raw struct {
			Element json.RawMessage `json:"element"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		elem, err := decodeName(raw.Element)
		if err != nil {
			return nil, err
		}
		return &ArrayTypeDef{ElementType: elem}, nil
	}
	return nil, fmt.Errorf("unknown type definition kind %q", kind)
}

func decodeSubtype(data json.RawMessage) (SubtypeIndication, error) {
	var raw struct {
		Mark       json.RawMessage `json:"mark"`
		Constraint json.RawMessage `json:"constraint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return SubtypeIndication{}, err
	}
	mark, err := decodeName(raw.Mark)
	if err != nil {
		return SubtypeIndication{}, fmt.Errorf("type mark: %w", err)
	}
	sub := SubtypeIndication{TypeMark: mark}
	if len(raw.Constraint) > 0 && string(raw.Constraint) != "null" {
		var rc struct {
			Dir   string          `json:"dir"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw.Constraint, &rc); err != nil {
			return SubtypeIndication{}, err
		}
		left, err := decodeExpr(rc.Left)
		if err != nil {
			return SubtypeIndication{}, fmt.Errorf("range left: %w", err)
		}
		right, err := decodeExpr(rc.Right)
		if err != nil {
			return SubtypeIndication{}, fmt.Errorf("range right: %w", err)
		}
		dir := Downto
		switch rc.Dir {
		case "downto", "":
		case "to":
			dir = To
		default:
			return SubtypeIndication{}, fmt.Errorf("unknown range direction %q", rc.Dir)
		}
		sub.Constraint = &RangeConstraint{Dir: dir, Left: left, Right: right}
	}
	return sub, nil
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "int":
		var raw struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &IntLiteral{Value: raw.Value}, nil
	case "real":
		var raw struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &RealLiteral{Value: raw.Value}, nil
	case "string":
		var raw struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &StringLiteral{Value: raw.Value}, nil
	case "char":
		var raw struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		r, _ := utf8.DecodeRuneInString(raw.Value)
		return &CharLiteral{Value: r}, nil
	case "bitstring":
		var raw struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &BitStringLiteral{Text: raw.Text}, nil
	case "physical":
		var raw struct {
			Value int64  `json:"value"`
			Unit  string `json:"unit"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &PhysicalLiteral{Value: raw.Value, Unit: raw.Unit}, nil
	case "null":
		return &NullLiteral{}, nil
	case "name":
		var raw struct {
			Name json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		name, err := decodeName(raw.Name)
		if err != nil {
			return nil, err
		}
		return &NameExpr{Name: name}, nil
	case "unary":
		var raw struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		op, err := OperatorFromSymbol(raw.Op)
		if err != nil {
			return nil, err
		}
		operand, err := decodeExpr(raw.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	case "binary":
		var raw struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		op, err := OperatorFromSymbol(raw.Op)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(raw.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	case "paren":
		var raw struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(raw.Inner)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil
	}
	return nil, fmt.Errorf("unknown expression kind %q", kind)
}

func decodeName(data json.RawMessage) (Name, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "simple":
		var raw struct {
			Ident string `json:"ident"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &SimpleName{Ident: raw.Ident}, nil
	case "selected":
		var raw struct {
			Prefix json.RawMessage `json:"prefix"`
			Suffix string          `json:"suffix"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		prefix, err := decodeName(raw.Prefix)
		if err != nil {
			return nil, err
		}
		return &SelectedName{Prefix: prefix, Suffix: raw.Suffix}, nil
	case "selected_all":
		var raw struct {
			Prefix json.RawMessage `json:"prefix"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		prefix, err := decodeName(raw.Prefix)
		if err != nil {
			return nil, err
		}
		return &SelectedAll{Prefix: prefix}, nil
	case "call":
		var raw struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		callee, err := decodeName(raw.Callee)
		if err != nil {
			return nil, err
		}
		call := &CallName{Callee: callee}
		for _, a := range raw.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil
	}
	return nil, fmt.Errorf("unknown name kind %q", kind)
}
