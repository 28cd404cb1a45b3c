package schema

import "fmt"

// ScalarType is a fixed-width numeric type that can appear in a record.
type ScalarType uint8

const (
	U8 ScalarType = iota + 1
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
)

var scalarNames = map[ScalarType]string{
	U8:  "u8",
	I8:  "i8",
	U16: "u16",
	I16: "i16",
	U32: "u32",
	I32: "i32",
	U64: "u64",
	I64: "i64",
	F32: "f32",
	F64: "f64",
}

// ParseScalarType maps a schema type tag ("u8" … "f64") to its ScalarType.
func ParseScalarType(s string) (ScalarType, error) {
	for t, name := range scalarNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown scalar type: %q", s)
}

// ScalarTypes returns every scalar type in declaration order.
func ScalarTypes() []ScalarType {
	return []ScalarType{U8, I8, U16, I16, U32, I32, U64, I64, F32, F64}
}

func (t ScalarType) String() string {
	if name, ok := scalarNames[t]; ok {
		return name
	}
	return fmt.Sprintf("scalar(%d)", uint8(t))
}

// Valid reports whether t is one of the ten known scalar types.
func (t ScalarType) Valid() bool {
	_, ok := scalarNames[t]
	return ok
}

// Size returns the size in bytes, 0 for an invalid type.
func (t ScalarType) Size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	}
	return 0
}

// Align returns the natural alignment, which equals the size.
func (t ScalarType) Align() int {
	return t.Size()
}

// Signed reports whether t is a signed integer type.
func (t ScalarType) Signed() bool {
	return t == I8 || t == I16 || t == I32 || t == I64
}

// Float reports whether t is a floating-point type.
func (t ScalarType) Float() bool {
	return t == F32 || t == F64
}

// Endian is the byte order used when a record is serialized.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

// ParseEndian accepts "little" or "big".
func ParseEndian(s string) (Endian, error) {
	switch s {
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	}
	return 0, fmt.Errorf("endian must be 'little' or 'big', got: %s", s)
}

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}
