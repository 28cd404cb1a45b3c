package schema

import "testing"

func TestScalarSizes(t *testing.T) {
	tests := []struct {
		typ    ScalarType
		size   int
		signed bool
		float  bool
	}{
		{U8, 1, false, false},
		{I8, 1, true, false},
		{U16, 2, false, false},
		{I16, 2, true, false},
		{U32, 4, false, false},
		{I32, 4, true, false},
		{U64, 8, false, false},
		{I64, 8, true, false},
		{F32, 4, false, true},
		{F64, 8, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := tt.typ.Align(); got != tt.size {
				t.Errorf("Align() = %d, want %d", got, tt.size)
			}
			if got := tt.typ.Signed(); got != tt.signed {
				t.Errorf("Signed() = %v, want %v", got, tt.signed)
			}
			if got := tt.typ.Float(); got != tt.float {
				t.Errorf("Float() = %v, want %v", got, tt.float)
			}
		})
	}
}

func TestParseScalarType(t *testing.T) {
	for _, typ := range ScalarTypes() {
		got, err := ParseScalarType(typ.String())
		if err != nil {
			t.Fatalf("ParseScalarType(%q) error: %v", typ, err)
		}
		if got != typ {
			t.Errorf("ParseScalarType(%q) = %v", typ, got)
		}
	}

	if _, err := ParseScalarType("u128"); err == nil {
		t.Error("ParseScalarType(u128) should fail")
	}
}

func TestInvalidScalar(t *testing.T) {
	var zero ScalarType
	if zero.Valid() {
		t.Error("zero ScalarType should be invalid")
	}
	if zero.Size() != 0 {
		t.Errorf("zero Size() = %d, want 0", zero.Size())
	}
}

func TestParseEndian(t *testing.T) {
	tests := []struct {
		in      string
		want    Endian
		wantErr bool
	}{
		{"little", LittleEndian, false},
		{"big", BigEndian, false},
		{"middle", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseEndian(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEndian(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEndian(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
