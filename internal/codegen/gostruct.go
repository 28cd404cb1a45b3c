package codegen

import (
	"fmt"
	"go/format"
	"strings"
	"unicode"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// Go renders plans as Go structs with copy-mode MarshalLayout and
// UnmarshalLayout methods. Gaps are always spelled out as blank byte arrays
// because Go aligns 64-bit scalars to 4 bytes on 32-bit targets.
type Go struct {
	Package string // package clause for File; defaults to "layout"
}

var goTypes = map[schema.ScalarType]string{
	schema.U8:  "uint8",
	schema.I8:  "int8",
	schema.U16: "uint16",
	schema.I16: "int16",
	schema.U32: "uint32",
	schema.I32: "int32",
	schema.U64: "uint64",
	schema.I64: "int64",
	schema.F32: "float32",
	schema.F64: "float64",
}

// typeEmitter holds marshal/unmarshal code generators for a scalar type
type typeEmitter struct {
	marshal   func(c emitCtx) string
	unmarshal func(c emitCtx) string
}

// emitCtx carries context for code emission
type emitCtx struct {
	value      string // Go expression for the field or array element
	start, end string // byte range in buf
}

// goGen renders one plan.
type goGen struct {
	plan   analyzer.Plan
	typ    string
	names  []string
	endian string
}

// Render emits the struct, its size constant and both methods. The result is
// gofmt-formatted declarations without a package clause.
func (g Go) Render(p analyzer.Plan) (string, error) {
	gen, err := newGoGen(p)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(gen.structDecl())
	out.WriteString("\n")
	out.WriteString(gen.marshal())
	out.WriteString("\n")
	out.WriteString(gen.unmarshal())

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return "", fmt.Errorf("%s: format generated code: %w", p.Name, err)
	}
	return string(src), nil
}

// File emits a complete Go source file.
func (g Go) File(plans []analyzer.Plan) (string, error) {
	pkg := g.Package
	if pkg == "" {
		pkg = "layout"
	}

	var out strings.Builder
	out.WriteString("// Code generated by nvmlayout. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", pkg)

	var needBinary, needMath bool
	for _, p := range plans {
		for _, f := range p.Fields {
			if f.Leaf.Type.Size() > 1 {
				needBinary = true
			}
			if f.Leaf.Type.Float() {
				needMath = true
			}
		}
	}

	out.WriteString("import (\n")
	if needBinary {
		out.WriteString("\t\"encoding/binary\"\n")
	}
	out.WriteString("\t\"fmt\"\n")
	if needMath {
		out.WriteString("\t\"math\"\n")
	}
	out.WriteString("\t\"structs\"\n")
	out.WriteString(")\n")

	if err := checkGoNames(plans); err != nil {
		return "", err
	}

	for _, p := range plans {
		code, err := g.Render(p)
		if err != nil {
			return "", err
		}
		out.WriteString("\n")
		out.WriteString(code)
	}

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return "", fmt.Errorf("format generated file: %w", err)
	}
	return string(src), nil
}

func newGoGen(p analyzer.Plan) (*goGen, error) {
	if err := checkPlan(p); err != nil {
		return nil, err
	}

	gen := &goGen{
		plan:   p,
		typ:    GoName(p.Name),
		names:  make([]string, len(p.Fields)),
		endian: "binary.LittleEndian",
	}
	if p.Endian == schema.BigEndian {
		gen.endian = "binary.BigEndian"
	}

	seen := map[string]string{
		"MarshalLayout":   "the MarshalLayout method",
		"UnmarshalLayout": "the UnmarshalLayout method",
	}
	for i, f := range p.Fields {
		name := GoName(f.Leaf.Identifier())
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s: %s and %s both map to Go field %s",
				p.Name, prev, f.Leaf.Identifier(), name)
		}
		seen[name] = f.Leaf.Identifier()
		gen.names[i] = name
	}
	return gen, nil
}

// checkGoNames rejects records whose type or size constant would be
// declared twice in one file, e.g. "rec" and "rec_size".
func checkGoNames(plans []analyzer.Plan) error {
	decls := make(map[string]string, 2*len(plans))
	for _, p := range plans {
		typ := GoName(p.Name)
		for _, name := range []string{typ, typ + "Size"} {
			if prev, ok := decls[name]; ok {
				return fmt.Errorf("%s: %s is already declared by %s", p.Name, name, prev)
			}
			decls[name] = p.Name
		}
	}
	return nil
}

func (g *goGen) structDecl() string {
	var b strings.Builder

	fmt.Fprintf(&b, "// %sSize is the serialized size of %s in bytes.\n", g.typ, g.typ)
	fmt.Fprintf(&b, "const %sSize = %d\n\n", g.typ, g.plan.Size)

	fmt.Fprintf(&b, "// %s mirrors the %s record.\n", g.typ, g.plan.Name)
	fmt.Fprintf(&b, "type %s struct {\n", g.typ)
	b.WriteString("\t_ structs.HostLayout\n\n")

	for i, f := range g.plan.Fields {
		if f.PaddingBefore > 0 {
			fmt.Fprintf(&b, "\t_ [%d]byte\n", f.PaddingBefore)
		}
		fmt.Fprintf(&b, "\t%s %s%s", g.names[i], dimSuffix(f.Leaf.Dims), goTypes[f.Leaf.Type])
		if len(f.Leaf.Columns) > 0 {
			fmt.Fprintf(&b, " // columns: %s", strings.Join(f.Leaf.Columns, ", "))
		}
		b.WriteString("\n")
	}
	if tail := g.plan.TrailingPadding(); tail > 0 {
		fmt.Fprintf(&b, "\t_ [%d]byte\n", tail)
	}
	b.WriteString("}\n")
	return b.String()
}

func (g *goGen) marshal() string {
	var code strings.Builder

	fmt.Fprintf(&code, "func (p *%s) MarshalLayout() ([]byte, error) {\n", g.typ)
	fmt.Fprintf(&code, "\tbuf := make([]byte, %sSize)\n\n", g.typ)
	for i, f := range g.plan.Fields {
		code.WriteString(g.fieldOp(i, f, "marshal"))
	}
	code.WriteString("\treturn buf, nil\n")
	code.WriteString("}\n")
	return code.String()
}

func (g *goGen) unmarshal() string {
	var code strings.Builder

	fmt.Fprintf(&code, "func (p *%s) UnmarshalLayout(buf []byte) error {\n", g.typ)
	fmt.Fprintf(&code, "\tif len(buf) != %sSize {\n", g.typ)
	fmt.Fprintf(&code, "\t\treturn fmt.Errorf(\"%s: expected %%d bytes, got %%d\", %sSize, len(buf))\n",
		g.plan.Name, g.typ)
	code.WriteString("\t}\n\n")
	for i, f := range g.plan.Fields {
		code.WriteString(g.fieldOp(i, f, "unmarshal"))
	}
	code.WriteString("\treturn nil\n")
	code.WriteString("}\n")
	return code.String()
}

// fieldOp generates marshal/unmarshal code for one placed field using the
// emission table.
func (g *goGen) fieldOp(i int, f analyzer.PlacedField, op string) string {
	var code strings.Builder
	leaf := f.Leaf
	name := "p." + g.names[i]
	emitter := g.emitters()[leaf.Type]
	size := leaf.Type.Size()

	fmt.Fprintf(&code, "\t// %s: %s%s at [%d, %d)\n",
		leaf.QualifiedName(), leaf.Type, dimSuffix(leaf.Dims), f.Offset, f.End())

	switch {
	case !leaf.IsArray():
		c := emitCtx{
			value: name,
			start: fmt.Sprint(f.Offset),
			end:   fmt.Sprint(f.End()),
		}
		code.WriteString("\t" + emit(emitter, c, op) + "\n\n")

	case len(leaf.Dims) == 1 && leaf.Type == schema.U8:
		// Byte arrays
		if op == "marshal" {
			fmt.Fprintf(&code, "\tcopy(buf[%d:%d], %s[:])\n\n", f.Offset, f.End(), name)
		} else {
			fmt.Fprintf(&code, "\tcopy(%s[:], buf[%d:%d])\n\n", name, f.Offset, f.End())
		}

	default:
		// Nested loops over every dimension, row-major.
		elem := name
		indent := "\t"
		for d := range leaf.Dims {
			fmt.Fprintf(&code, "%sfor i%d := range %s {\n", indent, d, elem)
			elem = fmt.Sprintf("%s[i%d]", elem, d)
			indent += "\t"
		}

		fmt.Fprintf(&code, "%so := %s\n", indent, offsetExpr(f.Offset, leaf.Dims, size))
		c := emitCtx{
			value: elem,
			start: "o",
			end:   fmt.Sprintf("o+%d", size),
		}
		if size == 1 {
			c.end = "o+1"
		}
		code.WriteString(indent + emit(emitter, c, op) + "\n")

		for range leaf.Dims {
			indent = indent[:len(indent)-1]
			code.WriteString(indent + "}\n")
		}
		code.WriteString("\n")
	}
	return code.String()
}

func emit(e typeEmitter, c emitCtx, op string) string {
	if op == "marshal" {
		return e.marshal(c)
	}
	return e.unmarshal(c)
}

// offsetExpr returns the Go expression for the byte offset of element
// [i0][i1]... of an array starting at base.
func offsetExpr(base int, dims []int, size int) string {
	idx := "i0"
	for k := 1; k < len(dims); k++ {
		if k > 1 {
			idx = "(" + idx + ")"
		}
		idx = fmt.Sprintf("%s*%d+i%d", idx, dims[k], k)
	}
	if size == 1 {
		return fmt.Sprintf("%d + %s", base, idx)
	}
	if len(dims) == 1 {
		return fmt.Sprintf("%d + %s*%d", base, idx, size)
	}
	return fmt.Sprintf("%d + (%s)*%d", base, idx, size)
}

// emitters returns type-specific code generators
func (g *goGen) emitters() map[schema.ScalarType]typeEmitter {
	return map[schema.ScalarType]typeEmitter{
		schema.U8: {
			marshal: func(c emitCtx) string {
				return fmt.Sprintf("buf[%s] = %s", c.start, c.value)
			},
			unmarshal: func(c emitCtx) string {
				return fmt.Sprintf("%s = buf[%s]", c.value, c.start)
			},
		},
		schema.I8: {
			marshal: func(c emitCtx) string {
				return fmt.Sprintf("buf[%s] = byte(%s)", c.start, c.value)
			},
			unmarshal: func(c emitCtx) string {
				return fmt.Sprintf("%s = int8(buf[%s])", c.value, c.start)
			},
		},
		schema.U16: g.uintEmitter(16, ""),
		schema.I16: g.uintEmitter(16, "int16"),
		schema.U32: g.uintEmitter(32, ""),
		schema.I32: g.uintEmitter(32, "int32"),
		schema.U64: g.uintEmitter(64, ""),
		schema.I64: g.uintEmitter(64, "int64"),
		schema.F32: {
			marshal: func(c emitCtx) string {
				return fmt.Sprintf("%s.PutUint32(buf[%s:%s], math.Float32bits(%s))",
					g.endian, c.start, c.end, c.value)
			},
			unmarshal: func(c emitCtx) string {
				return fmt.Sprintf("%s = math.Float32frombits(%s.Uint32(buf[%s:%s]))",
					c.value, g.endian, c.start, c.end)
			},
		},
		schema.F64: {
			marshal: func(c emitCtx) string {
				return fmt.Sprintf("%s.PutUint64(buf[%s:%s], math.Float64bits(%s))",
					g.endian, c.start, c.end, c.value)
			},
			unmarshal: func(c emitCtx) string {
				return fmt.Sprintf("%s = math.Float64frombits(%s.Uint64(buf[%s:%s]))",
					c.value, g.endian, c.start, c.end)
			},
		},
	}
}

// uintEmitter writes a bits-wide integer; signed names the signed Go type to
// convert through, empty for unsigned.
func (g *goGen) uintEmitter(bits int, signed string) typeEmitter {
	return typeEmitter{
		marshal: func(c emitCtx) string {
			value := c.value
			if signed != "" {
				value = fmt.Sprintf("uint%d(%s)", bits, value)
			}
			return fmt.Sprintf("%s.PutUint%d(buf[%s:%s], %s)", g.endian, bits, c.start, c.end, value)
		},
		unmarshal: func(c emitCtx) string {
			read := fmt.Sprintf("%s.Uint%d(buf[%s:%s])", g.endian, bits, c.start, c.end)
			if signed != "" {
				read = fmt.Sprintf("%s(%s)", signed, read)
			}
			return fmt.Sprintf("%s = %s", c.value, read)
		},
	}
}

// GoName converts a snake_case identifier to an exported Go name:
// "device_info_serial" -> "DeviceInfoSerial", "block2_t" -> "Block2T".
func GoName(ident string) string {
	var b strings.Builder
	upper := true
	for _, r := range ident {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" {
		return "X"
	}
	if first := rune(name[0]); !unicode.IsLetter(first) {
		name = "X" + name
	}
	return name
}
