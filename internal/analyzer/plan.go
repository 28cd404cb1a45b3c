package analyzer

import (
	"errors"
	"fmt"

	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// PlacedField is a leaf with its assigned byte offset.
type PlacedField struct {
	Leaf          flatten.LeafField
	Offset        int
	PaddingBefore int // gap between the previous field's end and Offset
}

// Size returns the field's size in bytes.
func (f PlacedField) Size() int {
	return f.Leaf.Size()
}

// End returns Offset + Size.
func (f PlacedField) End() int {
	return f.Offset + f.Size()
}

// Plan is the byte-exact layout of one record.
type Plan struct {
	Name     string
	Fields   []PlacedField
	Size     int // total size, a multiple of Align
	Align    int // largest scalar alignment among the fields
	Capacity int // byte budget from the schema, 0 if unbounded
	Endian   schema.Endian
}

// ContentEnd returns the end offset of the last field.
func (p Plan) ContentEnd() int {
	if len(p.Fields) == 0 {
		return 0
	}
	return p.Fields[len(p.Fields)-1].End()
}

// TrailingPadding returns Size - ContentEnd().
func (p Plan) TrailingPadding() int {
	return p.Size - p.ContentEnd()
}

// Lookup returns the placed field with the given identifier.
func (p Plan) Lookup(identifier string) (PlacedField, bool) {
	for _, f := range p.Fields {
		if f.Leaf.Identifier() == identifier {
			return f, true
		}
	}
	return PlacedField{}, false
}

// Stats summarizes space usage.
type Stats struct {
	Fields     int
	Used       int // bytes occupied by fields
	Padding    int // inter-field plus trailing padding
	Size       int
	Capacity   int
	Efficiency float64 // Used as a percentage of Capacity, or of Size when unbounded
}

func (p Plan) Stats() Stats {
	st := Stats{
		Fields:   len(p.Fields),
		Size:     p.Size,
		Capacity: p.Capacity,
	}
	for _, f := range p.Fields {
		st.Used += f.Size()
		st.Padding += f.PaddingBefore
	}
	st.Padding += p.TrailingPadding()

	allocated := p.Size
	if p.Capacity > 0 {
		allocated = p.Capacity
	}
	if allocated > 0 {
		st.Efficiency = float64(st.Used) / float64(allocated) * 100
	}
	return st
}

// Verify re-checks the layout invariants: every offset is aligned and follows
// the previous end by exactly its padding, no two fields overlap, the record
// alignment is the largest field alignment, and Size is the aligned content
// end. All violations are reported together.
func (p Plan) Verify() error {
	var errs []error

	if len(p.Fields) == 0 {
		return schema.NewError(schema.KindEmptySchema).Schema(p.Name).Detail("plan has no fields").Build()
	}

	prevEnd := 0
	align := 1
	for i, f := range p.Fields {
		a := f.Leaf.Type.Align()
		align = max(align, a)

		if f.Offset%a != 0 {
			errs = append(errs, fmt.Errorf("%s: offset %d not aligned to %d",
				f.Leaf.QualifiedName(), f.Offset, a))
		}
		if f.PaddingBefore < 0 || f.PaddingBefore >= a {
			errs = append(errs, fmt.Errorf("%s: padding %d out of range for alignment %d",
				f.Leaf.QualifiedName(), f.PaddingBefore, a))
		}
		if f.Offset != prevEnd+f.PaddingBefore {
			errs = append(errs, fmt.Errorf("%s: offset %d, want %d + %d",
				f.Leaf.QualifiedName(), f.Offset, prevEnd, f.PaddingBefore))
		}
		if i > 0 {
			prev := p.Fields[i-1]
			if prev.End() > f.Offset {
				errs = append(errs, fmt.Errorf("collision: %s [%d, %d) overlaps %s [%d, %d)",
					prev.Leaf.QualifiedName(), prev.Offset, prev.End(),
					f.Leaf.QualifiedName(), f.Offset, f.End()))
			}
		}
		prevEnd = f.End()
	}

	if p.Align != align {
		errs = append(errs, fmt.Errorf("record alignment %d, want %d", p.Align, align))
	}
	if p.Size != AlignTo(prevEnd, align) {
		errs = append(errs, fmt.Errorf("record size %d, want %d", p.Size, AlignTo(prevEnd, align)))
	}

	return errors.Join(errs...)
}
