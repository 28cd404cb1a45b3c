package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/fordtom/nvmbuilder/internal/schema"
)

// goScalars maps predeclared Go types to record scalars. Platform-sized
// types (int, uint, uintptr) and bool have no fixed wire width and are
// rejected.
var goScalars = map[string]schema.ScalarType{
	"uint8":   schema.U8,
	"byte":    schema.U8,
	"int8":    schema.I8,
	"uint16":  schema.U16,
	"int16":   schema.I16,
	"uint32":  schema.U32,
	"int32":   schema.I32,
	"uint64":  schema.U64,
	"int64":   schema.I64,
	"float32": schema.F32,
	"float64": schema.F64,
}

// resolver converts Go type expressions to schema kinds. It knows every type
// and integer constant declared in the file, so aliases (type Celsius int16),
// named structs and array lengths given as constants resolve locally.
type resolver struct {
	fset   *token.FileSet
	types  map[string]ast.Expr
	consts map[string]int
}

func newResolver(fset *token.FileSet, file *ast.File) *resolver {
	r := &resolver{
		fset:   fset,
		types:  make(map[string]ast.Expr),
		consts: make(map[string]int),
	}

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range genDecl.Specs {
			switch spec := spec.(type) {
			case *ast.TypeSpec:
				r.types[spec.Name.Name] = spec.Type
			case *ast.ValueSpec:
				if genDecl.Tok != token.CONST {
					continue
				}
				for i, name := range spec.Names {
					if i >= len(spec.Values) {
						break
					}
					if n, ok := intLiteral(spec.Values[i]); ok {
						r.consts[name.Name] = n
					}
				}
			}
		}
	}
	return r
}

// conversion carries the state of one type's conversion.
type conversion struct {
	*resolver
	record   string
	visiting map[string]bool
}

func (r *resolver) schemaFor(spec *ast.TypeSpec, anno *TypeAnnotation) (schema.Schema, error) {
	name := anno.Name
	if name == "" {
		name = SnakeCase(spec.Name.Name)
	}

	c := &conversion{
		resolver: r,
		record:   name,
		visiting: map[string]bool{spec.Name.Name: true},
	}

	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return schema.Schema{}, c.fail(spec.Type, nil, "@layout requires a struct type, %s is %s",
			spec.Name.Name, describe(spec.Type))
	}

	fields, err := c.fields(st, nil)
	if err != nil {
		return schema.Schema{}, err
	}

	s := schema.New(name, fields...)
	s.Endian = anno.Endian
	s.Capacity = anno.Size
	return s, nil
}

func (c *conversion) fields(st *ast.StructType, parent []string) ([]schema.FieldSpec, error) {
	var out []schema.FieldSpec

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return nil, c.fail(field.Type, parent, "embedded field %s is not supported", describe(field.Type))
		}

		tag, err := fieldTag(field)
		if err != nil {
			return nil, c.fail(field.Type, appendSeg(parent, field.Names[0].Name), "%v", err)
		}
		if tag != nil && tag.Skip {
			continue
		}
		if tag != nil && tag.Name != "" && len(field.Names) > 1 {
			return nil, c.fail(field.Type, parent, "layout tag %q on %d names is ambiguous", tag.Name, len(field.Names))
		}

		for _, ident := range field.Names {
			// Blank fields are placeholders, e.g. _ structs.HostLayout.
			if ident.Name == "_" {
				continue
			}

			seg := SnakeCase(ident.Name)
			if tag != nil && tag.Name != "" {
				seg = tag.Name
			}
			path := appendSeg(parent, seg)

			kind, err := c.kind(field.Type, path)
			if err != nil {
				return nil, err
			}
			out = append(out, schema.Field(seg, kind))
		}
	}

	return out, nil
}

func (c *conversion) kind(expr ast.Expr, path []string) (schema.Kind, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if st, ok := goScalars[t.Name]; ok {
			return schema.Of(st), nil
		}

		decl, ok := c.types[t.Name]
		if !ok {
			return nil, c.fail(t, path, "unknown type %s", t.Name)
		}
		if c.visiting[t.Name] {
			return nil, c.fail(t, path, "recursive type %s", t.Name)
		}
		c.visiting[t.Name] = true
		defer delete(c.visiting, t.Name)
		return c.kind(decl, path)

	case *ast.ParenExpr:
		return c.kind(t.X, path)

	case *ast.ArrayType:
		if t.Len == nil {
			return nil, c.fail(t, path, "slices have no fixed size")
		}
		n, err := c.length(t.Len, path)
		if err != nil {
			return nil, err
		}
		elem, err := c.kind(t.Elt, path)
		if err != nil {
			return nil, err
		}
		return schema.ArrayOf(elem, n), nil

	case *ast.StructType:
		fields, err := c.fields(t, path)
		if err != nil {
			return nil, err
		}
		return schema.StructOf(fields...), nil

	default:
		return nil, c.fail(expr, path, "%s has no fixed binary layout", describe(expr))
	}
}

func (c *conversion) length(expr ast.Expr, path []string) (int, error) {
	if n, ok := intLiteral(expr); ok {
		return n, nil
	}
	if id, ok := expr.(*ast.Ident); ok {
		if n, ok := c.consts[id.Name]; ok {
			return n, nil
		}
	}
	if _, ok := expr.(*ast.Ellipsis); ok {
		return 0, c.fail(expr, path, "[...]T needs an explicit length")
	}
	return 0, c.fail(expr, path, "array length must be an integer literal or constant")
}

// fail builds an UnsupportedType error located at expr.
func (c *conversion) fail(expr ast.Expr, path []string, format string, args ...any) error {
	return schema.NewError(schema.KindUnsupportedType).
		Schema(c.record).
		Path(path...).
		Detail("%s: %s", c.fset.Position(expr.Pos()), fmt.Sprintf(format, args...)).
		Build()
}

func intLiteral(expr ast.Expr) (int, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func describe(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "pointer"
	case *ast.MapType:
		return "map"
	case *ast.ChanType:
		return "channel"
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface"
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	case *ast.StructType:
		return "struct"
	}
	return fmt.Sprintf("%T", expr)
}

func appendSeg(parent []string, seg string) []string {
	out := make([]string, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, seg)
}
