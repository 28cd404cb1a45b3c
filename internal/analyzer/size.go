package analyzer

import (
	"math"

	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// MaxSize bounds every offset and size the calculator produces.
const MaxSize = math.MaxInt32

// Padding returns the bytes needed to move off up to a multiple of align.
func Padding(off, align int) int {
	if align <= 1 {
		return 0
	}
	return (align - off%align) % align
}

// AlignTo rounds off up to the next multiple of align.
func AlignTo(off, align int) int {
	return off + Padding(off, align)
}

// SizeOf returns the byte size of a leaf, failing with InvalidDimension if
// any extent is non-positive or the product exceeds MaxSize.
func SizeOf(l flatten.LeafField) (int, error) {
	if !l.Type.Valid() {
		return 0, schema.NewError(schema.KindUnsupportedType).Path(l.Path...).
			Detail("invalid scalar type %s", l.Type).Build()
	}

	n := l.Type.Size()
	for _, d := range l.Dims {
		if d <= 0 {
			return 0, schema.NewError(schema.KindInvalidDimension).Path(l.Path...).
				Detail("array extent must be positive, got %d", d).Build()
		}
		if n > MaxSize/d {
			return 0, schema.NewError(schema.KindInvalidDimension).Path(l.Path...).
				Detail("size of %s%v overflows %d bytes", l.Type, l.Dims, MaxSize).Build()
		}
		n *= d
	}
	return n, nil
}

// checkedAdd returns a+b, or false if the sum exceeds MaxSize.
func checkedAdd(a, b int) (int, bool) {
	if a > MaxSize-b {
		return 0, false
	}
	return a + b, true
}
