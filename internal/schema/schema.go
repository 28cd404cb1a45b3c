package schema

import (
	"regexp"
	"slices"
)

// Kind is the shape of a schema node: Scalar, Struct or Array.
// The set is closed; switch on the concrete type to handle each case.
type Kind interface {
	kind()
}

// Scalar is a single fixed-width value.
type Scalar struct {
	Type ScalarType
}

// Struct groups child fields. Declaration order is significant.
type Struct struct {
	Fields []FieldSpec
}

// Array repeats Elem over Dims, outer extent first.
type Array struct {
	Elem Kind
	Dims []int
}

func (Scalar) kind() {}
func (Struct) kind() {}
func (Array) kind()  {}

// FieldSpec is a named node in the schema tree.
type FieldSpec struct {
	Name string
	Kind Kind
}

// Schema is an ordered list of top-level fields that compiles to one record.
type Schema struct {
	Name     string // identifier of the emitted record, e.g. "block_t"
	Fields   []FieldSpec
	Endian   Endian
	Capacity int // maximum record size in bytes; 0 means unbounded
}

// New builds a schema. The fields slice is copied.
func New(name string, fields ...FieldSpec) Schema {
	return Schema{Name: name, Fields: slices.Clone(fields)}
}

// Field is shorthand for FieldSpec{Name: name, Kind: k}.
func Field(name string, k Kind) FieldSpec {
	return FieldSpec{Name: name, Kind: k}
}

// ScalarField declares a scalar leaf.
func ScalarField(name string, t ScalarType) FieldSpec {
	return FieldSpec{Name: name, Kind: Scalar{Type: t}}
}

// StructField declares a nested group.
func StructField(name string, children ...FieldSpec) FieldSpec {
	return FieldSpec{Name: name, Kind: StructOf(children...)}
}

// ArrayField declares a fixed-size array of elem.
func ArrayField(name string, elem Kind, dims ...int) FieldSpec {
	return FieldSpec{Name: name, Kind: ArrayOf(elem, dims...)}
}

// StructOf builds a Struct kind. The slice is copied.
func StructOf(children ...FieldSpec) Struct {
	return Struct{Fields: slices.Clone(children)}
}

// ArrayOf builds an Array kind. The dims slice is copied.
func ArrayOf(elem Kind, dims ...int) Array {
	return Array{Elem: elem, Dims: slices.Clone(dims)}
}

// Of wraps a scalar type as a Kind.
func Of(t ScalarType) Scalar {
	return Scalar{Type: t}
}

var segmentRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidSegment reports whether name can be used as a path segment.
// Segments start with a letter so generated padding names (_padN) never collide.
func ValidSegment(name string) bool {
	return segmentRe.MatchString(name)
}

// Validate checks the structural rules that do not depend on flattening:
// at least one field, valid and unique sibling names, positive array
// extents and no empty nested struct.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return NewError(KindEmptySchema).Schema(s.Name).Detail("no fields to lay out").Build()
	}
	if err := validateFields(s.Fields, nil); err != nil {
		return WithSchema(err, s.Name)
	}
	return nil
}

func validateFields(fields []FieldSpec, parent []string) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		path := appendPath(parent, f.Name)
		if !ValidSegment(f.Name) {
			return NewError(KindInvalidName).Path(path...).
				Detail("segment %q must match [A-Za-z][A-Za-z0-9_]*", f.Name).Build()
		}
		if seen[f.Name] {
			return NewError(KindDuplicateIdentifier).Path(path...).
				Detail("sibling name %q declared twice", f.Name).Build()
		}
		seen[f.Name] = true

		if err := validateKind(f.Kind, path); err != nil {
			return err
		}
	}
	return nil
}

func validateKind(k Kind, path []string) error {
	switch k := k.(type) {
	case Scalar:
		if !k.Type.Valid() {
			return NewError(KindUnsupportedType).Path(path...).
				Detail("invalid scalar type %s", k.Type).Build()
		}
		return nil
	case Struct:
		if len(k.Fields) == 0 {
			return NewError(KindEmptyStruct).Path(path...).Detail("struct has no fields").Build()
		}
		return validateFields(k.Fields, path)
	case Array:
		if len(k.Dims) == 0 {
			return NewError(KindInvalidDimension).Path(path...).Detail("array has no dimensions").Build()
		}
		for _, d := range k.Dims {
			if d <= 0 {
				return NewError(KindInvalidDimension).Path(path...).
					Detail("array extent must be positive, got %d", d).Build()
			}
		}
		if k.Elem == nil {
			return NewError(KindUnsupportedType).Path(path...).Detail("array has no element type").Build()
		}
		return validateKind(k.Elem, path)
	case nil:
		return NewError(KindUnsupportedType).Path(path...).Detail("field has no kind").Build()
	default:
		return NewError(KindUnsupportedType).Path(path...).Detail("unknown kind %T", k).Build()
	}
}

// appendPath returns parent+name in a fresh slice.
func appendPath(parent []string, name string) []string {
	out := make([]string, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, name)
}
