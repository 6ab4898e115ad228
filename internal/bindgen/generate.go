package bindgen

import (
	"fmt"
	"go/format"
	"strings"
)

// render emits the Go source for the classified records. VHDL identifiers
// are kept verbatim so the generated names trace straight back to the
// design. The output is run through the formatter, which doubles as a syntax
// check on what we produced.
func render(p *plan, opts *Options) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by vw. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	if p.usesVectors() {
		fmt.Fprintf(&b, "import %q\n\n", opts.RuntimeImport)
	}

	for _, rp := range p.records {
		fmt.Fprintf(&b, "// %s mirrors %s.%s.\n", rp.rec.Name, rp.rec.Package, rp.rec.Name)
		fmt.Fprintf(&b, "type %s struct {\n", rp.rec.Name)
		for i := range rp.fields {
			f := &rp.fields[i]
			if f.kind == fieldNested {
				fmt.Fprintf(&b, "\t%s %s\n", f.name, f.nested)
				continue
			}
			w, err := f.width(rp.rec)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "\t%s bitstruct.Vector `bits:\"%d\"`\n", f.name, w)
		}
		b.WriteString("}\n\n")

		fmt.Fprintf(&b, "func new_%s() %s {\n", rp.rec.Name, rp.rec.Name)
		fmt.Fprintf(&b, "\treturn %s{\n", rp.rec.Name)
		for i := range rp.fields {
			f := &rp.fields[i]
			if f.kind == fieldNested {
				fmt.Fprintf(&b, "\t\t%s: new_%s(),\n", f.name, f.nested)
				continue
			}
			w, err := f.width(rp.rec)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "\t\t%s: bitstruct.New(%d),\n", f.name, w)
		}
		b.WriteString("\t}\n")
		b.WriteString("}\n\n")
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, &CodegenError{Err: err}
	}
	return src, nil
}

func (p *plan) usesVectors() bool {
	for _, rp := range p.records {
		for _, f := range rp.fields {
			if f.kind != fieldNested {
				return true
			}
		}
	}
	return false
}
