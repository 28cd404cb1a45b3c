package codegen

import (
	"fmt"
	"strings"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// C renders plans as C typedef structs using <stdint.h> types.
type C struct {
	Guard           string // include guard macro for File; empty omits the guard
	ExplicitPadding bool   // emit uint8_t _padN[k] members for alignment gaps
	StaticAssert    bool   // emit _Static_assert(sizeof(T) == N) after each typedef
}

var cTypes = map[schema.ScalarType]string{
	schema.U8:  "uint8_t",
	schema.I8:  "int8_t",
	schema.U16: "uint16_t",
	schema.I16: "int16_t",
	schema.U32: "uint32_t",
	schema.I32: "int32_t",
	schema.U64: "uint64_t",
	schema.I64: "int64_t",
	schema.F32: "float",
	schema.F64: "double",
}

// cKeywords are reserved through C23 and cannot name a field or record.
var cKeywords = map[string]bool{
	"alignas": true, "alignof": true, "auto": true, "bool": true, "break": true,
	"case": true, "char": true, "const": true, "constexpr": true, "continue": true,
	"default": true, "do": true, "double": true, "else": true, "enum": true,
	"extern": true, "false": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "nullptr": true,
	"register": true, "restrict": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true,
	"struct": true, "switch": true, "thread_local": true, "true": true,
	"typedef": true, "typeof": true, "typeof_unqual": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
}

const cDisclaimer = ` * Field order matches layout emission order. Every field is placed at the
 * next multiple of its scalar size, which matches the natural alignment most
 * C compilers use. Verify on your target if strict binary compatibility is
 * required.
`

// Render emits a single typedef.
func (c C) Render(p analyzer.Plan) (string, error) {
	if err := checkPlan(p); err != nil {
		return "", err
	}

	if cKeywords[p.Name] {
		return "", fmt.Errorf("record name %q is a reserved C keyword", p.Name)
	}

	var b strings.Builder
	b.WriteString("typedef struct {\n")

	pads := 0
	for _, f := range p.Fields {
		ctype, ok := cTypes[f.Leaf.Type]
		if !ok {
			return "", fmt.Errorf("%s: no C type for %s", f.Leaf.QualifiedName(), f.Leaf.Type)
		}
		if id := f.Leaf.Identifier(); cKeywords[id] {
			return "", fmt.Errorf("%s: field %s is a reserved C keyword", p.Name, id)
		}

		if c.ExplicitPadding && f.PaddingBefore > 0 {
			fmt.Fprintf(&b, "  uint8_t _pad%d[%d];\n", pads, f.PaddingBefore)
			pads++
		}

		line := fmt.Sprintf("  %s %s%s;", ctype, f.Leaf.Identifier(), dimSuffix(f.Leaf.Dims))
		if len(f.Leaf.Columns) > 0 {
			line += fmt.Sprintf(" /* %s: {%s} per row */",
				f.Leaf.QualifiedName(), strings.Join(f.Leaf.Columns, ", "))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if tail := p.TrailingPadding(); c.ExplicitPadding && tail > 0 {
		fmt.Fprintf(&b, "  uint8_t _pad_tail[%d];\n", tail)
	}
	fmt.Fprintf(&b, "} %s;\n", p.Name)

	if c.StaticAssert {
		fmt.Fprintf(&b, "_Static_assert(sizeof(%s) == %d, \"%s must be %d bytes\");\n",
			p.Name, p.Size, p.Name, p.Size)
	}
	return b.String(), nil
}

// File emits a complete header containing every plan.
func (c C) File(plans []analyzer.Plan) (string, error) {
	var b strings.Builder

	if c.Guard != "" {
		fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", c.Guard, c.Guard)
	}
	b.WriteString("#include <stdint.h>\n\n")
	b.WriteString("/*\n * Generated by nvmlayout. Do not edit.\n *\n")
	b.WriteString(cDisclaimer)
	b.WriteString(" */\n")

	for _, p := range plans {
		out, err := c.Render(p)
		if err != nil {
			return "", err
		}
		b.WriteByte('\n')
		b.WriteString(out)
	}

	if c.Guard != "" {
		fmt.Fprintf(&b, "\n#endif /* %s */\n", c.Guard)
	}
	return b.String(), nil
}

// GuardFor derives an include guard macro from an output file name,
// e.g. "out/blocks.h" -> "BLOCKS_H".
func GuardFor(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	g := b.String()
	if g == "" {
		return "LAYOUT_H"
	}
	if g[0] >= '0' && g[0] <= '9' {
		g = "_" + g
	}
	return g
}
