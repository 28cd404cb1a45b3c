package analyzer

import (
	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// Layout assigns naturally aligned offsets to leaves in order. Each field is
// placed at the smallest offset at or after the previous field's end that is
// a multiple of its scalar alignment. The record size is the final offset
// rounded up to the largest alignment seen.
func Layout(leaves []flatten.LeafField) (Plan, error) {
	if len(leaves) == 0 {
		return Plan{}, schema.NewError(schema.KindEmptySchema).
			Detail("no fields to lay out").Build()
	}

	p := Plan{
		Fields: make([]PlacedField, 0, len(leaves)),
		Align:  1,
	}

	offset := 0
	for _, leaf := range leaves {
		size, err := SizeOf(leaf)
		if err != nil {
			return Plan{}, err
		}

		align := leaf.Type.Align()
		pad := Padding(offset, align)
		start, ok := checkedAdd(offset, pad)
		if !ok {
			return Plan{}, overflow(leaf)
		}
		end, ok := checkedAdd(start, size)
		if !ok {
			return Plan{}, overflow(leaf)
		}

		p.Fields = append(p.Fields, PlacedField{
			Leaf:          leaf,
			Offset:        start,
			PaddingBefore: pad,
		})

		offset = end
		p.Align = max(p.Align, align)
	}

	total, ok := checkedAdd(offset, Padding(offset, p.Align))
	if !ok {
		return Plan{}, overflow(leaves[len(leaves)-1])
	}
	p.Size = total
	return p, nil
}

// Analyze flattens s, lays it out, applies its capacity and verifies the
// result.
func Analyze(s schema.Schema, opts flatten.Options) (Plan, error) {
	leaves, err := flatten.Flatten(s, opts)
	if err != nil {
		return Plan{}, err
	}

	p, err := Layout(leaves)
	if err != nil {
		return Plan{}, schema.WithSchema(err, s.Name)
	}
	p.Name = s.Name
	p.Endian = s.Endian
	p.Capacity = s.Capacity

	if p.Capacity > 0 && p.Size > p.Capacity {
		return Plan{}, schema.NewError(schema.KindCapacityExceeded).Schema(s.Name).
			Detail("record needs %d bytes, capacity is %d", p.Size, p.Capacity).Build()
	}

	if err := p.Verify(); err != nil {
		return Plan{}, schema.WithSchema(err, s.Name)
	}
	return p, nil
}

func overflow(leaf flatten.LeafField) error {
	return schema.NewError(schema.KindInvalidDimension).Path(leaf.Path...).
		Detail("record offset overflows %d bytes", MaxSize).Build()
}
