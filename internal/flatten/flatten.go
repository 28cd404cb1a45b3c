package flatten

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fordtom/nvmbuilder/internal/schema"
)

// LeafField is a single scalar or fixed-size scalar array after path
// flattening.
type LeafField struct {
	Path []string
	Type schema.ScalarType
	Dims []int // outer extent first; empty for a plain scalar

	// Columns names, relative to the array element, the members that an
	// array-of-structs collapse packed into the innermost dimension.
	// Empty for every other leaf.
	Columns []string
}

// QualifiedName joins the path with '.', e.g. "device.info.serial".
func (l LeafField) QualifiedName() string {
	return strings.Join(l.Path, ".")
}

// Identifier joins the path with '_', e.g. "device_info_serial".
func (l LeafField) Identifier() string {
	return strings.Join(l.Path, "_")
}

// Count returns the number of scalar elements: 1 for a scalar, the product
// of Dims for an array.
func (l LeafField) Count() int {
	n := 1
	for _, d := range l.Dims {
		n *= d
	}
	return n
}

// Size returns Count() * the scalar size, in bytes.
func (l LeafField) Size() int {
	return l.Count() * l.Type.Size()
}

// IsArray reports whether the leaf has dimensions.
func (l LeafField) IsArray() bool {
	return len(l.Dims) > 0
}

// Options tune flattening policy.
type Options struct {
	// ExpandHeterogeneous flattens an array of structs whose members have
	// different scalar types once per slot, with the slot index as a path
	// segment. When false such arrays are rejected.
	ExpandHeterogeneous bool
}

// Flatten performs a preorder depth-first walk of s and returns its leaves in
// declaration order. Identifier uniqueness is checked once over the complete
// result.
func Flatten(s schema.Schema, opts Options) ([]LeafField, error) {
	if len(s.Fields) == 0 {
		return nil, schema.NewError(schema.KindEmptySchema).Schema(s.Name).
			Detail("no fields to lay out").Build()
	}

	f := flattener{opts: opts}
	var leaves []LeafField
	for _, field := range s.Fields {
		var err error
		leaves, err = f.visit(leaves, []string{field.Name}, field.Kind)
		if err != nil {
			return nil, schema.WithSchema(err, s.Name)
		}
	}

	if err := checkIdentifiers(leaves); err != nil {
		return nil, schema.WithSchema(err, s.Name)
	}
	return leaves, nil
}

type flattener struct {
	opts Options
}

func (f *flattener) visit(out []LeafField, path []string, k schema.Kind) ([]LeafField, error) {
	switch k := k.(type) {
	case schema.Scalar:
		return append(out, LeafField{Path: path, Type: k.Type}), nil

	case schema.Struct:
		if len(k.Fields) == 0 {
			return nil, schema.NewError(schema.KindEmptyStruct).Path(path...).
				Detail("struct has no fields").Build()
		}
		for _, child := range k.Fields {
			var err error
			out, err = f.visit(out, extend(path, child.Name), child.Kind)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case schema.Array:
		return f.visitArray(out, path, k)

	default:
		return nil, schema.NewError(schema.KindUnsupportedType).Path(path...).
			Detail("unknown kind %T", k).Build()
	}
}

func (f *flattener) visitArray(out []LeafField, path []string, a schema.Array) ([]LeafField, error) {
	elem, dims := unwrapArray(a)
	if len(dims) == 0 {
		return nil, schema.NewError(schema.KindInvalidDimension).Path(path...).
			Detail("array has no dimensions").Build()
	}
	for _, d := range dims {
		if d <= 0 {
			return nil, schema.NewError(schema.KindInvalidDimension).Path(path...).
				Detail("array extent must be positive, got %d", d).Build()
		}
	}

	switch e := elem.(type) {
	case schema.Scalar:
		return append(out, LeafField{Path: path, Type: e.Type, Dims: dims}), nil

	case schema.Struct:
		// Flatten one element relative to the array, then decide how to place it.
		members, err := f.visit(nil, nil, e)
		if err != nil {
			return nil, prefixPath(err, path)
		}

		if typ, ok := uniformType(members); ok {
			perElem := 0
			columns := make([]string, len(members))
			for i, m := range members {
				perElem += m.Count()
				columns[i] = m.QualifiedName()
			}
			return append(out, LeafField{
				Path:    path,
				Type:    typ,
				Dims:    append(dims, perElem),
				Columns: columns,
			}), nil
		}

		if !f.opts.ExpandHeterogeneous {
			return nil, schema.NewError(schema.KindHeterogeneousArrayOfStructs).Path(path...).
				Detail("element members mix %s", describeTypes(members)).Build()
		}

		forEachIndex(dims, func(idx []int) {
			slot := slices.Clone(path)
			for _, i := range idx {
				slot = append(slot, strconv.Itoa(i))
			}
			for _, m := range members {
				leaf := m
				leaf.Path = append(slices.Clone(slot), m.Path...)
				leaf.Dims = slices.Clone(m.Dims)
				leaf.Columns = slices.Clone(m.Columns)
				out = append(out, leaf)
			}
		})
		return out, nil

	default:
		return nil, schema.NewError(schema.KindUnsupportedType).Path(path...).
			Detail("array of %T", elem).Build()
	}
}

// unwrapArray folds directly nested arrays into one dimension list.
func unwrapArray(a schema.Array) (schema.Kind, []int) {
	dims := slices.Clone(a.Dims)
	elem := a.Elem
	for {
		inner, ok := elem.(schema.Array)
		if !ok {
			return elem, dims
		}
		dims = append(dims, inner.Dims...)
		elem = inner.Elem
	}
}

func uniformType(members []LeafField) (schema.ScalarType, bool) {
	if len(members) == 0 {
		return 0, false
	}
	t := members[0].Type
	for _, m := range members[1:] {
		if m.Type != t {
			return 0, false
		}
	}
	return t, true
}

func describeTypes(members []LeafField) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.QualifiedName() + ":" + m.Type.String()
	}
	return strings.Join(parts, ", ")
}

// forEachIndex calls fn with every index tuple of dims in row-major order.
// The slice passed to fn is reused between calls.
func forEachIndex(dims []int, fn func(idx []int)) {
	idx := make([]int, len(dims))
	for {
		fn(idx)
		i := len(dims) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < dims[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

// checkIdentifiers rejects two leaves that render to the same identifier.
func checkIdentifiers(leaves []LeafField) error {
	seen := make(map[string]string, len(leaves))
	for _, l := range leaves {
		id := l.Identifier()
		if prev, ok := seen[id]; ok {
			return schema.NewError(schema.KindDuplicateIdentifier).Path(l.Path...).
				Detail("%q and %q both flatten to %s", prev, l.QualifiedName(), id).Build()
		}
		seen[id] = l.QualifiedName()
	}
	return nil
}

// prefixPath prepends parent to the path of a *schema.Error raised while
// flattening an array element in isolation.
func prefixPath(err error, parent []string) error {
	e, ok := err.(*schema.Error)
	if !ok {
		return fmt.Errorf("%s: %w", strings.Join(parent, "."), err)
	}
	c := *e
	c.Path = append(slices.Clone(parent), e.Path...)
	return &c
}

func extend(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
